package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gala/client"
	"gala/config"
	"gala/repository"

	"github.com/gin-contrib/cache/persistence"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*client.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event *client.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []client.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]client.EventType, len(p.events))
	for i, event := range p.events {
		types[i] = event.Type
	}
	return types
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

type fixture struct {
	t          *testing.T
	db         *gorm.DB
	cache      *ResultsCache
	publisher  *recordingPublisher
	notifier   *recordingNotifier
	dispatcher *Dispatcher
	sequence   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gala.db")
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	f := &fixture{
		t:         t,
		db:        db,
		cache:     NewResultsCache(persistence.NewInMemoryStore(time.Minute), time.Minute),
		publisher: &recordingPublisher{},
		notifier:  &recordingNotifier{},
	}
	f.dispatcher = NewDispatcher(f.publisher, f.notifier, f.cache)
	return f
}

func (f *fixture) create(value any) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(value).Error)
}

func (f *fixture) user(role repository.Role, firstName string, lastName string) *repository.User {
	f.sequence++
	user := &repository.User{
		Username:  fmt.Sprintf("user%d", f.sequence),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}
	f.create(user)
	return user
}

func (f *fixture) admin() *Caller {
	user := f.user(repository.RoleAdmin, "Ada", "Admin")
	return &Caller{UserId: user.ID, Role: repository.RoleAdmin}
}

func (f *fixture) judge(firstName string, lastName string) (*repository.Judge, *Caller) {
	user := f.user(repository.RoleJudge, firstName, lastName)
	judge := &repository.Judge{UserId: user.ID}
	f.create(judge)
	judge.User = user
	return judge, &Caller{UserId: user.ID, Role: repository.RoleJudge}
}

func (f *fixture) gala(name string, year int) *repository.Gala {
	gala := &repository.Gala{Name: name, Year: year}
	f.create(gala)
	return gala
}

func (f *fixture) category(gala *repository.Gala, name string, narrative bool) *repository.GalaCategory {
	category := &repository.Category{Name: name}
	f.create(category)
	gc := &repository.GalaCategory{GalaId: gala.Id, CategoryId: category.Id, Active: true, IsNarrative: narrative}
	f.create(gc)
	gc.Category = category
	return gc
}

func (f *fixture) question(gc *repository.GalaCategory, text string, weight float64) *repository.Question {
	question := &repository.Question{GalaCategoryId: gc.Id, Text: text, Weight: weight}
	f.create(question)
	return question
}

func (f *fixture) company(name string) *repository.Company {
	company := &repository.Company{Name: name}
	f.create(company)
	return company
}

func (f *fixture) participant(company *repository.Company, gc *repository.GalaCategory) *repository.Participant {
	participant := &repository.Participant{CompanyId: company.Id, GalaCategoryId: gc.Id}
	f.create(participant)
	participant.Company = company
	return participant
}

func (f *fixture) assign(judge *repository.Judge, categories ...*repository.GalaCategory) {
	for _, gc := range categories {
		f.create(&repository.JudgeAssignment{JudgeId: judge.Id, GalaCategoryId: gc.Id})
	}
}

func (f *fixture) scoring() *ScoringService {
	return NewScoringService(f.db, f.dispatcher)
}

func (f *fixture) note(caller *Caller, participant *repository.Participant, question *repository.Question, value float64) {
	f.t.Helper()
	_, err := f.scoring().UpsertNote(context.Background(), caller, NoteInput{
		ParticipantId: participant.Id,
		QuestionId:    question.Id,
		Value:         Optional[float64]{Set: true, Value: &value},
	})
	require.NoError(f.t, err)
}

func valueOf(v float64) Optional[float64] {
	return Optional[float64]{Set: true, Value: &v}
}

func commentOf(c string) Optional[string] {
	return Optional[string]{Set: true, Value: &c}
}

// scoringGala is one gala with a two-question category, two participants and one judge.
type scoringGala struct {
	gala         *repository.Gala
	category     *repository.GalaCategory
	questions    []*repository.Question
	participants []*repository.Participant
	judge        *repository.Judge
	caller       *Caller
}

func (f *fixture) scoringGala() *scoringGala {
	gala := f.gala("Gala Excellence", 2025)
	category := f.category(gala, "Innovation", false)
	s := &scoringGala{
		gala:     gala,
		category: category,
		questions: []*repository.Question{
			f.question(category, "Originality", 1),
			f.question(category, "Impact", 1),
		},
		participants: []*repository.Participant{
			f.participant(f.company("Alpha"), category),
			f.participant(f.company("Beta"), category),
		},
	}
	s.judge, s.caller = f.judge("Jeanne", "Juge")
	f.assign(s.judge, category)
	return s
}
