//go:build integration

package repository_test

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"gala/config"
	"gala/repository"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err = pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}
	resource, err := pool.Run("postgres", "17.2-alpine", []string{"POSTGRES_USER=postgres", "POSTGRES_PASSWORD=postgres", "POSTGRES_DB=gala"})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}
	resource.Expire(600)
	dsn := fmt.Sprintf("host=localhost port=%s user=postgres password=postgres dbname=gala sslmode=disable",
		resource.GetPort("5432/tcp"))

	if err := pool.Retry(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("Could not migrate database: %s", err)
	}

	code := m.Run()
	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge resource: %s", err)
	}
	os.Exit(code)
}

type seed struct {
	gala        *repository.Gala
	question    *repository.Question
	participant *repository.Participant
	judge       *repository.Judge
}

func seedGala(t *testing.T, name string) *seed {
	t.Helper()
	s := &seed{gala: &repository.Gala{Name: name, Year: 2025}}
	require.NoError(t, db.Create(s.gala).Error)
	category := &repository.Category{Name: name + " Innovation"}
	require.NoError(t, db.Create(category).Error)
	gc := &repository.GalaCategory{GalaId: s.gala.Id, CategoryId: category.Id, Active: true}
	require.NoError(t, db.Create(gc).Error)
	s.question = &repository.Question{GalaCategoryId: gc.Id, Text: "Originality", Weight: 2}
	require.NoError(t, db.Create(s.question).Error)
	company := &repository.Company{Name: name + " Alpha"}
	require.NoError(t, db.Create(company).Error)
	s.participant = &repository.Participant{CompanyId: company.Id, GalaCategoryId: gc.Id}
	require.NoError(t, db.Create(s.participant).Error)
	user := &repository.User{Username: name + "-juge", FirstName: "Jeanne", LastName: "Juge", Role: repository.RoleJudge}
	require.NoError(t, db.Create(user).Error)
	s.judge = &repository.Judge{UserId: user.ID}
	require.NoError(t, db.Create(s.judge).Error)
	return s
}

func TestUpsertNoteKeepsOneRowPerTriple(t *testing.T) {
	s := seedGala(t, "upsert")
	notes := repository.NewNoteRepository(db)
	first, second := 4.0, 9.0

	saved, err := notes.UpsertNote(&repository.Note{JudgeId: s.judge.Id, ParticipantId: s.participant.Id, QuestionId: s.question.Id, Value: &first})
	require.NoError(t, err)
	again, err := notes.UpsertNote(&repository.Note{Id: saved.Id, JudgeId: s.judge.Id, ParticipantId: s.participant.Id, QuestionId: s.question.Id, Value: &second})
	require.NoError(t, err)
	assert.Equal(t, saved.Id, again.Id)
	assert.Equal(t, 9.0, *again.Value)

	var count int64
	require.NoError(t, db.Model(&repository.Note{}).Where("participant_id = ?", s.participant.Id).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	rows, err := notes.GetWeightedNotesForGala(s.gala.Id)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0].Weight)
	assert.Equal(t, 9.0, *rows[0].Value)
}

func TestSecondLockIsUniqueViolation(t *testing.T) {
	s := seedGala(t, "lock")
	locks := repository.NewLockRepository(db)

	_, err := locks.CreateLock(&repository.GalaLock{GalaId: s.gala.Id, LockedAt: time.Now()})
	require.NoError(t, err)
	_, err = locks.CreateLock(&repository.GalaLock{GalaId: s.gala.Id, LockedAt: time.Now()})
	require.Error(t, err)
	assert.True(t, repository.IsUniqueViolation(err))

	deleted, err := locks.DeleteLock(s.gala.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestSharedGalaReadWaitsForExclusiveLock(t *testing.T) {
	s := seedGala(t, "rowlock")
	exclusive := db.Begin()
	require.NoError(t, exclusive.Error)
	_, err := repository.NewGalaRepository(exclusive).GetGalaForUpdate(s.gala.Id)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- db.Transaction(func(tx *gorm.DB) error {
			_, err := repository.NewGalaRepository(tx).GetGalaForShare(s.gala.Id)
			return err
		})
	}()

	select {
	case <-done:
		t.Fatal("shared read did not wait for the exclusive lock")
	case <-time.After(300 * time.Millisecond):
	}
	require.NoError(t, exclusive.Commit().Error)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shared read never completed")
	}
}
