package service

import (
	"context"
	"fmt"
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

type LockService struct {
	db         *gorm.DB
	dispatcher *Dispatcher
}

func NewLockService(db *gorm.DB, dispatcher *Dispatcher) *LockService {
	return &LockService{db: db, dispatcher: dispatcher}
}

// LockGala freezes a gala regardless of judges' completion. The gala row is locked for update
// so the transition waits for running judge transactions.
func (s *LockService) LockGala(ctx context.Context, caller *Caller, galaId int) (*repository.GalaLock, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	var lock *repository.GalaLock
	var gala *repository.Gala
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		gala, err = repository.NewGalaRepository(tx).GetGalaForUpdate(galaId)
		if err != nil {
			return notFound(err, "gala not found")
		}
		locks := repository.NewLockRepository(tx)
		existing, err := locks.GetLock(galaId)
		if err != nil {
			return err
		}
		if err := scoring.Lock(existing != nil); err != nil {
			return gateError(err, logrus.Fields{"gala_id": galaId, "user_id": caller.UserId})
		}
		lock, err = locks.CreateLock(&repository.GalaLock{
			GalaId:   galaId,
			LockedAt: time.Now().UTC(),
			LockedBy: &caller.UserId,
		})
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return app_error.Conflict("gala already locked")
			}
			return fmt.Errorf("failed to lock gala: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LockChangesCounter.WithLabelValues("lock").Inc()
	logging.Log.WithFields(logrus.Fields{"gala_id": galaId, "user_id": caller.UserId}).Info("gala locked")
	s.dispatcher.Dispatch(ctx,
		client.NewEvent(client.EventGalaLocked, galaId, caller.UserId).With("locked_at", lock.LockedAt),
		fmt.Sprintf("%s %d is now locked", gala.Name, gala.Year))
	return lock, nil
}

func (s *LockService) UnlockGala(ctx context.Context, caller *Caller, galaId int) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	var gala *repository.Gala
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		gala, err = repository.NewGalaRepository(tx).GetGalaForUpdate(galaId)
		if err != nil {
			return notFound(err, "gala not found")
		}
		locks := repository.NewLockRepository(tx)
		existing, err := locks.GetLock(galaId)
		if err != nil {
			return err
		}
		if err := scoring.Unlock(existing != nil); err != nil {
			return gateError(err, logrus.Fields{"gala_id": galaId, "user_id": caller.UserId})
		}
		deleted, err := locks.DeleteLock(galaId)
		if err != nil {
			return fmt.Errorf("failed to unlock gala: %w", err)
		}
		if deleted == 0 {
			return app_error.Conflict("gala not locked")
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.LockChangesCounter.WithLabelValues("unlock").Inc()
	logging.Log.WithFields(logrus.Fields{"gala_id": galaId, "user_id": caller.UserId}).Info("gala unlocked")
	s.dispatcher.Dispatch(ctx,
		client.NewEvent(client.EventGalaUnlocked, galaId, caller.UserId),
		fmt.Sprintf("%s %d is unlocked again", gala.Name, gala.Year))
	return nil
}
