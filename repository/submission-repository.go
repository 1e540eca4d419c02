package repository

import (
	"time"

	"gorm.io/gorm"
)

type Submission struct {
	Id          int       `gorm:"primaryKey"`
	JudgeId     int       `gorm:"column:juge_id;not null;uniqueIndex:idx_juge_gala_submission"`
	GalaId      int       `gorm:"not null;uniqueIndex:idx_juge_gala_submission"`
	SubmittedAt time.Time `gorm:"not null"`

	Judge *Judge `gorm:"foreignKey:JudgeId;constraint:OnDelete:CASCADE"`
	Gala  *Gala  `gorm:"foreignKey:GalaId;constraint:OnDelete:CASCADE"`
}

func (Submission) TableName() string { return "juge_gala_submission" }

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// GetSubmission returns nil without error when the judge has not submitted.
func (r *SubmissionRepository) GetSubmission(judgeId int, galaId int) (*Submission, error) {
	var submissions []*Submission
	result := r.DB.Where("juge_id = ? AND gala_id = ?", judgeId, galaId).Limit(1).Find(&submissions)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(submissions) == 0 {
		return nil, nil
	}
	return submissions[0], nil
}

func (r *SubmissionRepository) GetSubmissionsForJudge(judgeId int) (map[int]*Submission, error) {
	var submissions []*Submission
	result := r.DB.Where("juge_id = ?", judgeId).Find(&submissions)
	if result.Error != nil {
		return nil, result.Error
	}
	byGala := make(map[int]*Submission, len(submissions))
	for _, submission := range submissions {
		byGala[submission.GalaId] = submission
	}
	return byGala, nil
}

func (r *SubmissionRepository) GetSubmissionsForGala(galaId int) (map[int]*Submission, error) {
	var submissions []*Submission
	result := r.DB.Where("gala_id = ?", galaId).Find(&submissions)
	if result.Error != nil {
		return nil, result.Error
	}
	byJudge := make(map[int]*Submission, len(submissions))
	for _, submission := range submissions {
		byJudge[submission.JudgeId] = submission
	}
	return byJudge, nil
}

type galaSubmissionCount struct {
	GalaId int
	Total  int
}

func (r *SubmissionRepository) CountSubmissionsByGala() (map[int]int, error) {
	var rows []galaSubmissionCount
	result := r.DB.Model(&Submission{}).
		Select("gala_id, COUNT(*) AS total").
		Group("gala_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.GalaId] = row.Total
	}
	return counts, nil
}

func (r *SubmissionRepository) CreateSubmission(submission *Submission) (*Submission, error) {
	result := r.DB.Omit("Judge", "Gala").Create(submission)
	if result.Error != nil {
		return nil, result.Error
	}
	return submission, nil
}
