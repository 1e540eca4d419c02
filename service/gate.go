package service

import (
	"errors"

	"gala/app_error"
	"gala/logging"
	"gala/metrics"
	"gala/repository"
	"gala/scoring"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type gateSnapshot struct {
	Gala       *repository.Gala
	Lock       *repository.GalaLock
	Submission *repository.Submission
	State      scoring.GateState
}

// enterGate must run inside the mutation's transaction. The gala row is read with a shared
// lock so lock/unlock waits for us, and the judge row is locked so one judge's gated
// operations run one after the other.
func enterGate(tx *gorm.DB, judgeId int, galaId int) (*gateSnapshot, error) {
	gala, err := repository.NewGalaRepository(tx).GetGalaForShare(galaId)
	if err != nil {
		return nil, notFound(err, "gala not found")
	}
	if err := repository.NewJudgeRepository(tx).LockJudge(judgeId); err != nil {
		return nil, err
	}
	return readGate(tx, gala, judgeId)
}

func readGate(db *gorm.DB, gala *repository.Gala, judgeId int) (*gateSnapshot, error) {
	lock, err := repository.NewLockRepository(db).GetLock(gala.Id)
	if err != nil {
		return nil, err
	}
	submission, err := repository.NewSubmissionRepository(db).GetSubmission(judgeId, gala.Id)
	if err != nil {
		return nil, err
	}
	return &gateSnapshot{
		Gala:       gala,
		Lock:       lock,
		Submission: submission,
		State:      scoring.EvaluateGate(lock != nil, submission != nil),
	}, nil
}

var gateMessages = map[error]string{
	scoring.ErrGalaLocked:       "gala locked",
	scoring.ErrAlreadySubmitted: "already submitted",
	scoring.ErrAlreadyLocked:    "gala already locked",
	scoring.ErrNotLocked:        "gala not locked",
}

// gateError translates a state machine rejection into the error taxonomy.
func gateError(err error, fields logrus.Fields) error {
	if errors.Is(err, scoring.ErrIncomplete) {
		metrics.GateRejectionsCounter.WithLabelValues("incomplete").Inc()
		logging.Log.WithFields(fields).Info("submission rejected: scoring incomplete")
		return app_error.Validation(err.Error())
	}
	for gateErr, msg := range gateMessages {
		if errors.Is(err, gateErr) {
			metrics.GateRejectionsCounter.WithLabelValues(msg).Inc()
			logging.Log.WithFields(fields).Info("mutation rejected: " + msg)
			return app_error.Conflict(msg)
		}
	}
	return err
}
