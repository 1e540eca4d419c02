package repository

import (
	"gorm.io/gorm"
)

type Company struct {
	Id     int     `gorm:"primaryKey"`
	Name   string  `gorm:"column:nom;not null"`
	City   *string `gorm:"column:ville"`
	Sector *string `gorm:"column:secteur"`
}

func (Company) TableName() string { return "compagnie" }

type Participant struct {
	Id             int `gorm:"primaryKey"`
	CompanyId      int `gorm:"column:compagnie_id;not null;index"`
	GalaCategoryId int `gorm:"column:gala_categorie_id;not null;index"`

	Company      *Company      `gorm:"foreignKey:CompanyId;constraint:OnDelete:CASCADE"`
	GalaCategory *GalaCategory `gorm:"foreignKey:GalaCategoryId;constraint:OnDelete:CASCADE"`
}

func (Participant) TableName() string { return "participant" }

func (p *Participant) CompanyName() string {
	if p.Company == nil {
		return ""
	}
	return p.Company.Name
}

type ParticipantRepository struct {
	DB *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{DB: db}
}

func (r *ParticipantRepository) GetParticipantById(participantId int) (*Participant, error) {
	var participant Participant
	result := r.DB.Preload("Company").Preload("GalaCategory").First(&participant, participantId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &participant, nil
}

// GetParticipantsForGalaCategories orders participants by company name, ignoring case.
func (r *ParticipantRepository) GetParticipantsForGalaCategories(galaCategoryIds []int) ([]*Participant, error) {
	participants := make([]*Participant, 0)
	if len(galaCategoryIds) == 0 {
		return participants, nil
	}
	result := r.DB.Preload("Company").
		Joins("JOIN compagnie ON compagnie.id = participant.compagnie_id").
		Where("participant.gala_categorie_id IN ?", galaCategoryIds).
		Order("LOWER(compagnie.nom)").Order("participant.id").
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}
	return participants, nil
}

func (r *ParticipantRepository) GetParticipantsForGala(galaId int) ([]*Participant, error) {
	participants := make([]*Participant, 0)
	result := r.DB.Preload("Company").
		Joins("JOIN compagnie ON compagnie.id = participant.compagnie_id").
		Joins("JOIN gala_categorie ON gala_categorie.id = participant.gala_categorie_id").
		Where("gala_categorie.gala_id = ?", galaId).
		Order("LOWER(compagnie.nom)").Order("participant.id").
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}
	return participants, nil
}

// GetNarrativeParticipant finds the company's entry in one of the gala's narrative categories.
func (r *ParticipantRepository) GetNarrativeParticipant(companyId int, narrativeCategoryIds []int) (*Participant, error) {
	if len(narrativeCategoryIds) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var participant Participant
	result := r.DB.Preload("Company").
		Where("compagnie_id = ? AND gala_categorie_id IN ?", companyId, narrativeCategoryIds).
		Order("id").
		First(&participant)
	if result.Error != nil {
		return nil, result.Error
	}
	return &participant, nil
}
