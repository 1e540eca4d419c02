package repository

import (
	"gorm.io/gorm"
)

type Question struct {
	Id             int     `gorm:"primaryKey"`
	GalaCategoryId int     `gorm:"column:gala_categorie_id;not null;index"`
	Text           string  `gorm:"column:texte;not null"`
	Weight         float64 `gorm:"column:ponderation;not null"`

	GalaCategory *GalaCategory `gorm:"foreignKey:GalaCategoryId;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string { return "question" }

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) GetQuestionById(questionId int) (*Question, error) {
	var question Question
	result := r.DB.Preload("GalaCategory").First(&question, questionId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &question, nil
}

func (r *QuestionRepository) GetQuestionsForGalaCategories(galaCategoryIds []int) ([]*Question, error) {
	questions := make([]*Question, 0)
	if len(galaCategoryIds) == 0 {
		return questions, nil
	}
	result := r.DB.Where("gala_categorie_id IN ?", galaCategoryIds).Order("id").Find(&questions)
	if result.Error != nil {
		return nil, result.Error
	}
	return questions, nil
}

func (r *QuestionRepository) GetQuestionsForGala(galaId int) ([]*Question, error) {
	questions := make([]*Question, 0)
	result := r.DB.
		Joins("JOIN gala_categorie ON gala_categorie.id = question.gala_categorie_id").
		Where("gala_categorie.gala_id = ?", galaId).
		Order("question.id").
		Find(&questions)
	if result.Error != nil {
		return nil, result.Error
	}
	return questions, nil
}

func (r *QuestionRepository) SaveQuestion(question *Question) (*Question, error) {
	result := r.DB.Omit("GalaCategory").Save(question)
	if result.Error != nil {
		return nil, result.Error
	}
	return question, nil
}

// DeleteQuestion removes the question and every note recorded against it.
func (r *QuestionRepository) DeleteQuestion(questionId int) error {
	if err := r.DB.Where("question_id = ?", questionId).Delete(&Note{}).Error; err != nil {
		return err
	}
	return r.DB.Delete(&Question{}, questionId).Error
}
