package service

import (
	"context"
	"fmt"
	"strings"

	"gala/app_error"
	"gala/client"
	"gala/logging"
	"gala/repository"
	"gala/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type GalaSummary struct {
	Gala        *repository.Gala
	Lock        *repository.GalaLock
	Submissions int
}

type GalaUpdate struct {
	Name  *string `validate:"omitempty,min=1,max=255"`
	Year  *int    `validate:"omitempty,gte=1900,lte=2200"`
	Venue *string `validate:"omitempty,max=255"`
	Date  *string `validate:"omitempty,datetime=2006-01-02"`
}

var galaMessages = map[string]string{
	"Name":  "gala name must be between 1 and 255 characters",
	"Year":  "gala year is invalid",
	"Venue": "venue must not exceed 255 characters",
	"Date":  "gala date must be formatted as YYYY-MM-DD",
}

type QuestionInput struct {
	Text   *string  `validate:"omitempty,min=1,max=2000"`
	Weight *float64 `validate:"omitempty,gt=0"`
}

var questionMessages = map[string]string{
	"Text":   "question text must be between 1 and 2000 characters",
	"Weight": "question weight must be greater than 0",
}

// GalaService owns the admin side of gala configuration. Every change is refused once
// the gala is locked.
type GalaService struct {
	db         *gorm.DB
	dispatcher *Dispatcher
}

func NewGalaService(db *gorm.DB, dispatcher *Dispatcher) *GalaService {
	return &GalaService{db: db, dispatcher: dispatcher}
}

func (s *GalaService) ListGalas(ctx context.Context, caller *Caller) ([]*GalaSummary, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	galas, err := repository.NewGalaRepository(db).GetGalas()
	if err != nil {
		return nil, err
	}
	locks, err := repository.NewLockRepository(db).GetLocks(utils.Map(galas, func(g *repository.Gala) int { return g.Id }))
	if err != nil {
		return nil, err
	}
	submissions, err := repository.NewSubmissionRepository(db).CountSubmissionsByGala()
	if err != nil {
		return nil, err
	}
	return utils.Map(galas, func(g *repository.Gala) *GalaSummary {
		return &GalaSummary{Gala: g, Lock: locks[g.Id], Submissions: submissions[g.Id]}
	}), nil
}

// unlockedGala reads the gala for update and fails with Conflict while it is locked.
func unlockedGala(tx *gorm.DB, galaId int) (*repository.Gala, error) {
	gala, err := repository.NewGalaRepository(tx).GetGalaForUpdate(galaId)
	if err != nil {
		return nil, notFound(err, "gala not found")
	}
	lock, err := repository.NewLockRepository(tx).GetLock(galaId)
	if err != nil {
		return nil, err
	}
	if lock != nil {
		return nil, app_error.Conflict("gala locked")
	}
	return gala, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	t := strings.TrimSpace(*value)
	return &t
}

func (s *GalaService) UpdateGala(ctx context.Context, caller *Caller, galaId int, update GalaUpdate) (*repository.Gala, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	update.Name = trimmed(update.Name)
	if update.Name != nil && *update.Name == "" {
		return nil, app_error.Validation(galaMessages["Name"])
	}
	if err := validate.Struct(update); err != nil {
		return nil, validationError(err, galaMessages)
	}

	var gala *repository.Gala
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		gala, err = unlockedGala(tx, galaId)
		if err != nil {
			return err
		}
		if update.Name != nil {
			gala.Name = *update.Name
		}
		if update.Year != nil {
			gala.Year = *update.Year
		}
		if update.Venue != nil {
			gala.Venue = update.Venue
		}
		if update.Date != nil {
			gala.Date = update.Date
		}
		gala, err = repository.NewGalaRepository(tx).SaveGala(gala)
		if err != nil {
			return fmt.Errorf("failed to save gala: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.configurationChanged(ctx, caller, galaId, "gala")
	return gala, nil
}

func (s *GalaService) galaCategory(tx *gorm.DB, galaId int, galaCategoryId int) (*repository.GalaCategory, error) {
	gc, err := repository.NewGalaCategoryRepository(tx).GetGalaCategoryById(galaCategoryId)
	if err != nil {
		return nil, notFound(err, "category not found")
	}
	if gc.GalaId != galaId {
		return nil, app_error.NotFound("category not found in this gala")
	}
	return gc, nil
}

func (s *GalaService) categoryQuestion(tx *gorm.DB, galaCategoryId int, questionId int) (*repository.Question, error) {
	question, err := repository.NewQuestionRepository(tx).GetQuestionById(questionId)
	if err != nil {
		return nil, notFound(err, "question not found")
	}
	if question.GalaCategoryId != galaCategoryId {
		return nil, app_error.NotFound("question not found in this category")
	}
	return question, nil
}

func validateQuestion(input QuestionInput) (QuestionInput, error) {
	input.Text = trimmed(input.Text)
	if input.Text != nil && *input.Text == "" {
		return input, app_error.Validation(questionMessages["Text"])
	}
	if err := validate.Struct(input); err != nil {
		return input, validationError(err, questionMessages)
	}
	return input, nil
}

func (s *GalaService) CreateQuestion(ctx context.Context, caller *Caller, galaId int, galaCategoryId int, input QuestionInput) (*repository.Question, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	input, err := validateQuestion(input)
	if err != nil {
		return nil, err
	}
	if input.Text == nil || input.Weight == nil {
		return nil, app_error.Validation("question text and weight are required")
	}

	var question *repository.Question
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := unlockedGala(tx, galaId); err != nil {
			return err
		}
		if _, err := s.galaCategory(tx, galaId, galaCategoryId); err != nil {
			return err
		}
		question, err = repository.NewQuestionRepository(tx).SaveQuestion(&repository.Question{
			GalaCategoryId: galaCategoryId,
			Text:           *input.Text,
			Weight:         *input.Weight,
		})
		if err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.configurationChanged(ctx, caller, galaId, "question.created")
	return question, nil
}

func (s *GalaService) UpdateQuestion(ctx context.Context, caller *Caller, galaId int, galaCategoryId int, questionId int, input QuestionInput) (*repository.Question, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	input, err := validateQuestion(input)
	if err != nil {
		return nil, err
	}

	var question *repository.Question
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := unlockedGala(tx, galaId); err != nil {
			return err
		}
		if _, err := s.galaCategory(tx, galaId, galaCategoryId); err != nil {
			return err
		}
		question, err = s.categoryQuestion(tx, galaCategoryId, questionId)
		if err != nil {
			return err
		}
		if input.Text != nil {
			question.Text = *input.Text
		}
		if input.Weight != nil {
			question.Weight = *input.Weight
		}
		question, err = repository.NewQuestionRepository(tx).SaveQuestion(question)
		if err != nil {
			return fmt.Errorf("failed to update question: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.configurationChanged(ctx, caller, galaId, "question.updated")
	return question, nil
}

func (s *GalaService) DeleteQuestion(ctx context.Context, caller *Caller, galaId int, galaCategoryId int, questionId int) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := unlockedGala(tx, galaId); err != nil {
			return err
		}
		if _, err := s.galaCategory(tx, galaId, galaCategoryId); err != nil {
			return err
		}
		if _, err := s.categoryQuestion(tx, galaCategoryId, questionId); err != nil {
			return err
		}
		if err := repository.NewQuestionRepository(tx).DeleteQuestion(questionId); err != nil {
			return fmt.Errorf("failed to delete question: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.configurationChanged(ctx, caller, galaId, "question.deleted")
	return nil
}

func (s *GalaService) configurationChanged(ctx context.Context, caller *Caller, galaId int, change string) {
	logging.Log.WithFields(logrus.Fields{"gala_id": galaId, "user_id": caller.UserId, "change": change}).Info("gala configuration changed")
	s.dispatcher.Dispatch(ctx, client.NewEvent(client.EventGalaConfigChange, galaId, caller.UserId).With("change", change), "")
}
