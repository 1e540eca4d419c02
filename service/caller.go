package service

import (
	"gala/app_error"
	"gala/repository"

	"gorm.io/gorm"
)

// Caller is the authenticated identity on whose behalf an operation runs.
type Caller struct {
	UserId int
	Role   repository.Role
}

func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == repository.RoleAdmin
}

func (c *Caller) RequireAdmin() error {
	if !c.IsAdmin() {
		return app_error.Forbidden("admin role required")
	}
	return nil
}

func resolveJudge(db *gorm.DB, caller *Caller) (*repository.Judge, error) {
	if caller == nil || caller.Role != repository.RoleJudge {
		return nil, app_error.Forbidden("judge role required")
	}
	judge, err := repository.NewJudgeRepository(db).GetJudgeByUserId(caller.UserId)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, app_error.Forbidden("judge profile not found")
		}
		return nil, err
	}
	return judge, nil
}

func notFound(err error, msg string) error {
	if repository.IsNotFound(err) {
		return app_error.NotFound(msg)
	}
	return err
}
