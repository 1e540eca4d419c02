package service

import (
	"context"

	"gala/app_error"
	"gala/repository"

	"gorm.io/gorm"
)

type UserProfile struct {
	User    *repository.User
	JudgeId *int
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetSelf resolves the caller's user row and, for judges, their judge profile.
func (s *UserService) GetSelf(ctx context.Context, caller *Caller) (*UserProfile, error) {
	if caller == nil {
		return nil, app_error.Forbidden("authentication required")
	}
	db := s.db.WithContext(ctx)
	user, err := repository.NewUserRepository(db).GetUserById(caller.UserId)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	profile := &UserProfile{User: user}
	if user.Role == repository.RoleJudge {
		judge, err := repository.NewJudgeRepository(db).GetJudgeByUserId(user.ID)
		if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
		if judge != nil {
			profile.JudgeId = &judge.Id
		}
	}
	return profile, nil
}
