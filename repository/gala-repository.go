package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Gala struct {
	Id    int     `gorm:"primaryKey"`
	Name  string  `gorm:"column:nom;not null"`
	Year  int     `gorm:"column:annee;not null"`
	Venue *string `gorm:"column:lieu"`
	Date  *string `gorm:"column:date_gala"`

	Categories []*GalaCategory `gorm:"foreignKey:GalaId;constraint:OnDelete:CASCADE"`
}

func (Gala) TableName() string { return "gala" }

type Category struct {
	Id          int     `gorm:"primaryKey"`
	Name        string  `gorm:"column:nom;not null"`
	Description *string `gorm:"column:description"`
}

func (Category) TableName() string { return "categorie" }

type GalaCategory struct {
	Id           int  `gorm:"primaryKey"`
	GalaId       int  `gorm:"not null;index"`
	CategoryId   int  `gorm:"column:categorie_id;not null"`
	DisplayOrder *int `gorm:"column:ordre_affichage"`
	Active       bool `gorm:"column:actif;not null"`
	IsNarrative  bool `gorm:"column:narratif;not null"`

	Gala     *Gala     `gorm:"foreignKey:GalaId"`
	Category *Category `gorm:"foreignKey:CategoryId;constraint:OnDelete:CASCADE"`
}

func (GalaCategory) TableName() string { return "gala_categorie" }

func (gc *GalaCategory) CategoryName() string {
	if gc.Category == nil {
		return ""
	}
	return gc.Category.Name
}

type GalaRepository struct {
	DB *gorm.DB
}

func NewGalaRepository(db *gorm.DB) *GalaRepository {
	return &GalaRepository{DB: db}
}

func (r *GalaRepository) GetGalaById(galaId int) (*Gala, error) {
	var gala Gala
	result := r.DB.First(&gala, galaId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &gala, nil
}

// GetGalaForShare reads the gala row with a shared lock so concurrent lock/unlock
// calls wait for the running judge transaction.
func (r *GalaRepository) GetGalaForShare(galaId int) (*Gala, error) {
	var gala Gala
	result := r.DB.Clauses(clause.Locking{Strength: "SHARE"}).First(&gala, galaId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &gala, nil
}

func (r *GalaRepository) GetGalaForUpdate(galaId int) (*Gala, error) {
	var gala Gala
	result := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).First(&gala, galaId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &gala, nil
}

func (r *GalaRepository) GetGalas() ([]*Gala, error) {
	var galas []*Gala
	result := r.DB.Order("annee DESC").Order("id DESC").Find(&galas)
	if result.Error != nil {
		return nil, result.Error
	}
	return galas, nil
}

func (r *GalaRepository) GetGalasByIds(galaIds []int) ([]*Gala, error) {
	galas := make([]*Gala, 0)
	if len(galaIds) == 0 {
		return galas, nil
	}
	result := r.DB.Where("id IN ?", galaIds).Find(&galas)
	if result.Error != nil {
		return nil, result.Error
	}
	return galas, nil
}

func (r *GalaRepository) SaveGala(gala *Gala) (*Gala, error) {
	result := r.DB.Omit("Categories").Save(gala)
	if result.Error != nil {
		return nil, result.Error
	}
	return gala, nil
}

type GalaCategoryRepository struct {
	DB *gorm.DB
}

func NewGalaCategoryRepository(db *gorm.DB) *GalaCategoryRepository {
	return &GalaCategoryRepository{DB: db}
}

func (r *GalaCategoryRepository) GetGalaCategoryById(galaCategoryId int) (*GalaCategory, error) {
	var galaCategory GalaCategory
	result := r.DB.Preload("Category").First(&galaCategory, galaCategoryId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &galaCategory, nil
}

func (r *GalaCategoryRepository) GetGalaCategoriesForGala(galaId int) ([]*GalaCategory, error) {
	timer := timeQuery("GetGalaCategoriesForGala")
	defer timer.ObserveDuration()
	var galaCategories []*GalaCategory
	result := r.DB.Preload("Category").
		Where("gala_id = ?", galaId).
		Order("ordre_affichage IS NULL").Order("ordre_affichage").Order("id").
		Find(&galaCategories)
	if result.Error != nil {
		return nil, result.Error
	}
	return galaCategories, nil
}

func (r *GalaCategoryRepository) GetNarrativeCategoryIds(galaId int) ([]int, error) {
	ids := make([]int, 0)
	result := r.DB.Model(&GalaCategory{}).Where("gala_id = ? AND narratif = ?", galaId, true).Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}
