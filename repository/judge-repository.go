package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Judge struct {
	Id     int `gorm:"primaryKey"`
	UserId int `gorm:"not null;uniqueIndex"`

	User *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (Judge) TableName() string { return "juge" }

func (j *Judge) FirstName() string {
	if j.User == nil {
		return ""
	}
	return j.User.FirstName
}

func (j *Judge) LastName() string {
	if j.User == nil {
		return ""
	}
	return j.User.LastName
}

type JudgeAssignment struct {
	Id             int `gorm:"primaryKey"`
	JudgeId        int `gorm:"column:juge_id;not null;uniqueIndex:idx_juge_gala_categorie"`
	GalaCategoryId int `gorm:"column:gala_categorie_id;not null;uniqueIndex:idx_juge_gala_categorie"`

	Judge        *Judge        `gorm:"foreignKey:JudgeId;constraint:OnDelete:CASCADE"`
	GalaCategory *GalaCategory `gorm:"foreignKey:GalaCategoryId;constraint:OnDelete:CASCADE"`
}

func (JudgeAssignment) TableName() string { return "juge_gala_categorie" }

type JudgeRepository struct {
	DB *gorm.DB
}

func NewJudgeRepository(db *gorm.DB) *JudgeRepository {
	return &JudgeRepository{DB: db}
}

func (r *JudgeRepository) GetJudgeByUserId(userId int) (*Judge, error) {
	var judge Judge
	result := r.DB.Preload("User").First(&judge, "user_id = ?", userId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &judge, nil
}

// LockJudge serializes concurrent gated operations of one judge.
func (r *JudgeRepository) LockJudge(judgeId int) error {
	var judge Judge
	return r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).First(&judge, judgeId).Error
}

// GetJudgesForGala lists every judge assigned to at least one category of the gala.
func (r *JudgeRepository) GetJudgesForGala(galaId int) ([]*Judge, error) {
	timer := timeQuery("GetJudgesForGala")
	defer timer.ObserveDuration()
	judges := make([]*Judge, 0)
	result := r.DB.Preload("User").
		Where("id IN (?)", r.DB.Model(&JudgeAssignment{}).
			Select("juge_gala_categorie.juge_id").
			Joins("JOIN gala_categorie ON gala_categorie.id = juge_gala_categorie.gala_categorie_id").
			Where("gala_categorie.gala_id = ?", galaId)).
		Order("id").
		Find(&judges)
	if result.Error != nil {
		return nil, result.Error
	}
	return judges, nil
}

func (r *JudgeRepository) GetJudgesByIds(judgeIds []int) ([]*Judge, error) {
	judges := make([]*Judge, 0)
	if len(judgeIds) == 0 {
		return judges, nil
	}
	result := r.DB.Preload("User").Where("id IN ?", judgeIds).Find(&judges)
	if result.Error != nil {
		return nil, result.Error
	}
	return judges, nil
}

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// GetAssignedCategories returns the gala categories a judge scores, optionally restricted to one gala.
func (r *AssignmentRepository) GetAssignedCategories(judgeId int, galaId *int) ([]*GalaCategory, error) {
	galaCategories := make([]*GalaCategory, 0)
	query := r.DB.Preload("Category").Preload("Gala").
		Joins("JOIN juge_gala_categorie ON juge_gala_categorie.gala_categorie_id = gala_categorie.id").
		Where("juge_gala_categorie.juge_id = ?", judgeId)
	if galaId != nil {
		query = query.Where("gala_categorie.gala_id = ?", *galaId)
	}
	result := query.
		Order("gala_categorie.ordre_affichage IS NULL").
		Order("gala_categorie.ordre_affichage").
		Order("gala_categorie.id").
		Find(&galaCategories)
	if result.Error != nil {
		return nil, result.Error
	}
	return galaCategories, nil
}

func (r *AssignmentRepository) IsAssigned(judgeId int, galaCategoryId int) (bool, error) {
	var count int64
	result := r.DB.Model(&JudgeAssignment{}).
		Where("juge_id = ? AND gala_categorie_id = ?", judgeId, galaCategoryId).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

func (r *AssignmentRepository) GetAssignmentsForGala(galaId int) ([]*JudgeAssignment, error) {
	assignments := make([]*JudgeAssignment, 0)
	result := r.DB.
		Joins("JOIN gala_categorie ON gala_categorie.id = juge_gala_categorie.gala_categorie_id").
		Where("gala_categorie.gala_id = ?", galaId).
		Find(&assignments)
	if result.Error != nil {
		return nil, result.Error
	}
	return assignments, nil
}

func (r *AssignmentRepository) SaveAssignment(assignment *JudgeAssignment) (*JudgeAssignment, error) {
	result := r.DB.Omit("Judge", "GalaCategory").Create(assignment)
	if result.Error != nil {
		return nil, result.Error
	}
	return assignment, nil
}
