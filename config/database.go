package config

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	model "gala/repository"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the configured store and migrates every table the scoring core relies on.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	case "postgres", "":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DatabaseHost, cfg.DatabasePort, cfg.PostgresUser, cfg.PostgresPassword, cfg.DatabaseName)
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Judge{},
		&model.Gala{},
		&model.Category{},
		&model.GalaCategory{},
		&model.Question{},
		&model.Company{},
		&model.Participant{},
		&model.JudgeAssignment{},
		&model.Note{},
		&model.Submission{},
		&model.GalaLock{},
		&model.Favorite{},
	)
}
