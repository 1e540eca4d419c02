package repository

import (
	"time"

	"gorm.io/gorm"
)

type GalaLock struct {
	GalaId   int       `gorm:"primaryKey;autoIncrement:false"`
	LockedAt time.Time `gorm:"not null"`
	LockedBy *int      `gorm:"null"`

	Gala   *Gala `gorm:"foreignKey:GalaId;constraint:OnDelete:CASCADE"`
	Locker *User `gorm:"foreignKey:LockedBy;constraint:OnDelete:SET NULL"`
}

func (GalaLock) TableName() string { return "gala_lock" }

type LockRepository struct {
	DB *gorm.DB
}

func NewLockRepository(db *gorm.DB) *LockRepository {
	return &LockRepository{DB: db}
}

// GetLock returns nil without error when the gala is not locked.
func (r *LockRepository) GetLock(galaId int) (*GalaLock, error) {
	var locks []*GalaLock
	result := r.DB.Where("gala_id = ?", galaId).Limit(1).Find(&locks)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(locks) == 0 {
		return nil, nil
	}
	return locks[0], nil
}

func (r *LockRepository) GetLocks(galaIds []int) (map[int]*GalaLock, error) {
	locks := make(map[int]*GalaLock)
	if len(galaIds) == 0 {
		return locks, nil
	}
	var rows []*GalaLock
	result := r.DB.Where("gala_id IN ?", galaIds).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	for _, lock := range rows {
		locks[lock.GalaId] = lock
	}
	return locks, nil
}

func (r *LockRepository) CreateLock(lock *GalaLock) (*GalaLock, error) {
	result := r.DB.Omit("Gala", "Locker").Create(lock)
	if result.Error != nil {
		return nil, result.Error
	}
	return lock, nil
}

func (r *LockRepository) DeleteLock(galaId int) (int64, error) {
	result := r.DB.Delete(&GalaLock{}, "gala_id = ?", galaId)
	return result.RowsAffected, result.Error
}
