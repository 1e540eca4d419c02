package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gala/app_error"
	"gala/client"
	"gala/logging"
	"gala/metrics"
	"gala/repository"
	"gala/scoring"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type NoteInput struct {
	// GalaId and GalaCategoryId scope the participant when non-zero.
	GalaId         int
	GalaCategoryId int
	ParticipantId  int
	QuestionId     int
	Value          Optional[float64]
	Comment        Optional[string]
	// TargetParticipantId redirects a shared narrative question to the participant holding its notes.
	TargetParticipantId *int
}

type noteFields struct {
	Value   *float64 `validate:"omitempty,gte=0,lte=10"`
	Comment *string  `validate:"omitempty,max=1000"`
}

var noteMessages = map[string]string{
	"Value":   "note value must be between 0 and 10",
	"Comment": "comment must not exceed 1000 characters",
}

type NoteSnapshot struct {
	Note                *repository.Note
	ViewParticipantId   int
	TargetParticipantId int
	Progress            scoring.ParticipantProgress
}

type ScoringService struct {
	db         *gorm.DB
	dispatcher *Dispatcher
}

func NewScoringService(db *gorm.DB, dispatcher *Dispatcher) *ScoringService {
	return &ScoringService{db: db, dispatcher: dispatcher}
}

func normalizeComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// UpsertNote records a judge's value and/or comment for one question of one participant.
// Fields absent from the input keep their stored value.
func (s *ScoringService) UpsertNote(ctx context.Context, caller *Caller, input NoteInput) (*NoteSnapshot, error) {
	db := s.db.WithContext(ctx)
	judge, err := resolveJudge(db, caller)
	if err != nil {
		return nil, err
	}
	if !input.Value.Set && !input.Comment.Set {
		return nil, app_error.Validation("nothing to update")
	}
	if input.Comment.Set {
		input.Comment.Value = normalizeComment(input.Comment.Value)
	}
	if err := validate.Struct(noteFields{Value: input.Value.Value, Comment: input.Comment.Value}); err != nil {
		return nil, validationError(err, noteMessages)
	}

	var snapshot *NoteSnapshot
	var galaId int
	err = db.Transaction(func(tx *gorm.DB) error {
		participants := repository.NewParticipantRepository(tx)
		participant, err := participants.GetParticipantById(input.ParticipantId)
		if err != nil {
			return notFound(err, "participant not found")
		}
		question, err := repository.NewQuestionRepository(tx).GetQuestionById(input.QuestionId)
		if err != nil {
			return notFound(err, "question not found")
		}
		galaId = participant.GalaCategory.GalaId
		if (input.GalaId != 0 && input.GalaId != galaId) || (input.GalaCategoryId != 0 && input.GalaCategoryId != participant.GalaCategoryId) {
			return app_error.NotFound("participant not found in this category")
		}
		if question.GalaCategory.GalaId != galaId {
			return app_error.NotFound("question not found for this participant")
		}
		assigned, err := repository.NewAssignmentRepository(tx).IsAssigned(judge.Id, participant.GalaCategoryId)
		if err != nil {
			return err
		}
		if !assigned {
			return app_error.NotFound("participant not assigned to this judge")
		}

		gate, err := enterGate(tx, judge.Id, galaId)
		if err != nil {
			return err
		}
		fields := logrus.Fields{"judge_id": judge.Id, "gala_id": galaId, "participant_id": participant.Id}
		if err := scoring.CheckMutation(gate.State); err != nil {
			return gateError(err, fields)
		}

		target, err := resolveNoteTarget(tx, participant, question, input.TargetParticipantId)
		if err != nil {
			return err
		}

		notes := repository.NewNoteRepository(tx)
		note, err := notes.GetNote(judge.Id, target.Id, question.Id)
		if err != nil && !repository.IsNotFound(err) {
			return err
		}
		if note == nil {
			note = &repository.Note{JudgeId: judge.Id, ParticipantId: target.Id, QuestionId: question.Id}
		}
		if input.Value.Set {
			note.Value = input.Value.Value
		}
		if input.Comment.Set {
			note.Comment = input.Comment.Value
		}
		note, err = notes.UpsertNote(note)
		if err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}

		questions, err := repository.NewQuestionRepository(tx).GetQuestionsForGalaCategories([]int{participant.GalaCategoryId})
		if err != nil {
			return err
		}
		counts, err := notes.CountValuedNotes(judge.Id, []int{participant.Id})
		if err != nil {
			return err
		}
		snapshot = &NoteSnapshot{
			Note:                note,
			ViewParticipantId:   participant.Id,
			TargetParticipantId: target.Id,
			Progress:            scoring.ParticipantLevel(len(questions), counts[participant.Id]),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.NotesSavedCounter.Inc()
	logging.Log.WithFields(logrus.Fields{
		"judge_id":       judge.Id,
		"gala_id":        galaId,
		"participant_id": snapshot.TargetParticipantId,
		"question_id":    snapshot.Note.QuestionId,
	}).Info("note saved")
	s.dispatcher.Dispatch(ctx, client.NewEvent(client.EventNoteSaved, galaId, caller.UserId).
		WithJudge(judge.Id).
		With("participant_id", snapshot.TargetParticipantId).
		With("question_id", snapshot.Note.QuestionId).
		With("value", snapshot.Note.Value), "")
	return snapshot, nil
}

// resolveNoteTarget finds the participant a note is stored against. Narrative questions live on
// the company's narrative participant whatever category the judge is scoring from.
func resolveNoteTarget(tx *gorm.DB, participant *repository.Participant, question *repository.Question, override *int) (*repository.Participant, error) {
	participants := repository.NewParticipantRepository(tx)
	if override != nil && *override != participant.Id {
		target, err := participants.GetParticipantById(*override)
		if err != nil {
			return nil, notFound(err, "target participant not found")
		}
		if target.GalaCategoryId != question.GalaCategoryId || target.CompanyId != participant.CompanyId {
			return nil, app_error.Validation("target participant does not match the question")
		}
		return target, nil
	}
	if question.GalaCategoryId == participant.GalaCategoryId {
		return participant, nil
	}
	if question.GalaCategory == nil || !question.GalaCategory.IsNarrative {
		return nil, app_error.Validation("question does not belong to the participant's category")
	}
	target, err := participants.GetNarrativeParticipant(participant.CompanyId, []int{question.GalaCategoryId})
	if err != nil {
		return nil, notFound(err, "narrative participant not found")
	}
	return target, nil
}

// SubmitGala finalizes a judge's scoring for a gala. The completeness check and the insert
// share one transaction so the note count cannot change in between.
func (s *ScoringService) SubmitGala(ctx context.Context, caller *Caller, galaId int) (*repository.Submission, error) {
	db := s.db.WithContext(ctx)
	judge, err := resolveJudge(db, caller)
	if err != nil {
		return nil, err
	}

	var submission *repository.Submission
	var gala *repository.Gala
	err = db.Transaction(func(tx *gorm.DB) error {
		gate, err := enterGate(tx, judge.Id, galaId)
		if err != nil {
			return err
		}
		gala = gate.Gala
		categories, err := repository.NewAssignmentRepository(tx).GetAssignedCategories(judge.Id, &galaId)
		if err != nil {
			return err
		}
		if len(categories) == 0 {
			return app_error.NotFound("gala not assigned to this judge")
		}
		completions, err := loadCompletions(tx, judge.Id, categories)
		if err != nil {
			return err
		}
		if _, err := scoring.Submit(gate.State, completions); err != nil {
			return gateError(err, logrus.Fields{"judge_id": judge.Id, "gala_id": galaId})
		}
		submission, err = repository.NewSubmissionRepository(tx).CreateSubmission(&repository.Submission{
			JudgeId:     judge.Id,
			GalaId:      galaId,
			SubmittedAt: time.Now().UTC(),
		})
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return app_error.Conflict("already submitted")
			}
			return fmt.Errorf("failed to save submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SubmissionsCounter.Inc()
	logging.Log.WithFields(logrus.Fields{"judge_id": judge.Id, "gala_id": galaId}).Info("gala submitted")
	s.dispatcher.Dispatch(ctx,
		client.NewEvent(client.EventGalaSubmitted, galaId, caller.UserId).
			WithJudge(judge.Id).
			With("submitted_at", submission.SubmittedAt),
		fmt.Sprintf("%s submitted their scores for %s %d", judge.User.FullName(), gala.Name, gala.Year))
	return submission, nil
}

func loadCompletions(tx *gorm.DB, judgeId int, categories []*repository.GalaCategory) ([]scoring.CategoryCompletion, error) {
	categoryIds := make([]int, len(categories))
	for i, category := range categories {
		categoryIds[i] = category.Id
	}
	questions, err := repository.NewQuestionRepository(tx).GetQuestionsForGalaCategories(categoryIds)
	if err != nil {
		return nil, err
	}
	participants, err := repository.NewParticipantRepository(tx).GetParticipantsForGalaCategories(categoryIds)
	if err != nil {
		return nil, err
	}
	participantIds := make([]int, len(participants))
	for i, participant := range participants {
		participantIds[i] = participant.Id
	}
	counts, err := repository.NewNoteRepository(tx).CountValuedNotes(judgeId, participantIds)
	if err != nil {
		return nil, err
	}

	completions := make(map[int]*scoring.CategoryCompletion, len(categories))
	for _, id := range categoryIds {
		completions[id] = &scoring.CategoryCompletion{NoteCounts: counts}
	}
	for _, question := range questions {
		completions[question.GalaCategoryId].QuestionCount++
	}
	for _, participant := range participants {
		completion := completions[participant.GalaCategoryId]
		completion.ParticipantIds = append(completion.ParticipantIds, participant.Id)
	}
	result := make([]scoring.CategoryCompletion, 0, len(categoryIds))
	for _, id := range categoryIds {
		result = append(result, *completions[id])
	}
	return result, nil
}

// SetFavorite replaces the judge's favorite pick for the gala.
func (s *ScoringService) SetFavorite(ctx context.Context, caller *Caller, galaId int, participantId int) (*repository.Favorite, error) {
	db := s.db.WithContext(ctx)
	judge, err := resolveJudge(db, caller)
	if err != nil {
		return nil, err
	}

	var favorite *repository.Favorite
	err = db.Transaction(func(tx *gorm.DB) error {
		participant, err := repository.NewParticipantRepository(tx).GetParticipantById(participantId)
		if err != nil {
			return notFound(err, "participant not found")
		}
		if participant.GalaCategory.GalaId != galaId {
			return app_error.NotFound("participant not found in this gala")
		}
		assigned, err := repository.NewAssignmentRepository(tx).IsAssigned(judge.Id, participant.GalaCategoryId)
		if err != nil {
			return err
		}
		if !assigned {
			return app_error.NotFound("participant not assigned to this judge")
		}
		gate, err := enterGate(tx, judge.Id, galaId)
		if err != nil {
			return err
		}
		if err := scoring.CheckMutation(gate.State); err != nil {
			return gateError(err, logrus.Fields{"judge_id": judge.Id, "gala_id": galaId})
		}
		favorite, err = repository.NewFavoriteRepository(tx).ReplaceFavorite(&repository.Favorite{
			JudgeId:       judge.Id,
			GalaId:        galaId,
			ParticipantId: participant.Id,
		})
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return app_error.Conflict("favorite already recorded")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.FavoriteChangesCounter.WithLabelValues("set").Inc()
	logging.Log.WithFields(logrus.Fields{"judge_id": judge.Id, "gala_id": galaId, "participant_id": participantId}).Info("favorite set")
	s.dispatcher.Dispatch(ctx, client.NewEvent(client.EventFavoriteSet, galaId, caller.UserId).
		WithJudge(judge.Id).
		With("participant_id", participantId), "")
	return favorite, nil
}

// ClearFavorite removes the judge's favorite for the gala; clearing an absent favorite is a no-op.
func (s *ScoringService) ClearFavorite(ctx context.Context, caller *Caller, galaId int) (bool, error) {
	db := s.db.WithContext(ctx)
	judge, err := resolveJudge(db, caller)
	if err != nil {
		return false, err
	}

	var cleared bool
	err = db.Transaction(func(tx *gorm.DB) error {
		gate, err := enterGate(tx, judge.Id, galaId)
		if err != nil {
			return err
		}
		if err := scoring.CheckMutation(gate.State); err != nil {
			return gateError(err, logrus.Fields{"judge_id": judge.Id, "gala_id": galaId})
		}
		deleted, err := repository.NewFavoriteRepository(tx).DeleteFavorite(judge.Id, galaId)
		if err != nil {
			return err
		}
		cleared = deleted > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	if !cleared {
		return false, nil
	}

	metrics.FavoriteChangesCounter.WithLabelValues("cleared").Inc()
	logging.Log.WithFields(logrus.Fields{"judge_id": judge.Id, "gala_id": galaId}).Info("favorite cleared")
	s.dispatcher.Dispatch(ctx, client.NewEvent(client.EventFavoriteCleared, galaId, caller.UserId).WithJudge(judge.Id), "")
	return true, nil
}
