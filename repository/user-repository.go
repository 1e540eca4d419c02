package repository

import (
	"fmt"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleJudge Role = "juge"
)

type User struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	Username  string `gorm:"uniqueIndex;not null"`
	FirstName string `gorm:"column:prenom;not null"`
	LastName  string `gorm:"column:nom;not null"`
	Role      Role   `gorm:"not null"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) GetUserById(userId int) (*User, error) {
	var user User
	result := r.DB.First(&user, userId)
	if result.Error != nil {
		return nil, fmt.Errorf("user with id %d not found: %w", userId, result.Error)
	}
	return &user, nil
}
