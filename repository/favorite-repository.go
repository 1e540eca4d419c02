package repository

import (
	"time"

	"gorm.io/gorm"
)

type Favorite struct {
	Id            int       `gorm:"primaryKey"`
	JudgeId       int       `gorm:"column:juge_id;not null;uniqueIndex:idx_coup_de_coeur_gala;uniqueIndex:idx_coup_de_coeur_participant"`
	GalaId        int       `gorm:"not null;uniqueIndex:idx_coup_de_coeur_gala"`
	ParticipantId int       `gorm:"not null;uniqueIndex:idx_coup_de_coeur_participant"`
	CreatedAt     time.Time `gorm:"not null"`

	Judge       *Judge       `gorm:"foreignKey:JudgeId;constraint:OnDelete:CASCADE"`
	Gala        *Gala        `gorm:"foreignKey:GalaId;constraint:OnDelete:CASCADE"`
	Participant *Participant `gorm:"foreignKey:ParticipantId;constraint:OnDelete:CASCADE"`
}

func (Favorite) TableName() string { return "coup_de_coeur" }

type FavoriteRepository struct {
	DB *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{DB: db}
}

// GetFavorite returns nil without error when the judge has no favorite in the gala.
func (r *FavoriteRepository) GetFavorite(judgeId int, galaId int) (*Favorite, error) {
	var favorites []*Favorite
	result := r.DB.Where("juge_id = ? AND gala_id = ?", judgeId, galaId).Limit(1).Find(&favorites)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(favorites) == 0 {
		return nil, nil
	}
	return favorites[0], nil
}

func (r *FavoriteRepository) GetFavoritesForGala(galaId int) ([]*Favorite, error) {
	favorites := make([]*Favorite, 0)
	result := r.DB.Preload("Judge.User").Where("gala_id = ?", galaId).Order("id").Find(&favorites)
	if result.Error != nil {
		return nil, result.Error
	}
	return favorites, nil
}

// ReplaceFavorite drops the judge's previous pick in the gala before inserting the new one.
func (r *FavoriteRepository) ReplaceFavorite(favorite *Favorite) (*Favorite, error) {
	err := r.DB.Delete(&Favorite{}, "juge_id = ? AND gala_id = ?", favorite.JudgeId, favorite.GalaId).Error
	if err != nil {
		return nil, err
	}
	favorite.Id = 0
	favorite.CreatedAt = time.Now()
	result := r.DB.Omit("Judge", "Gala", "Participant").Create(favorite)
	if result.Error != nil {
		return nil, result.Error
	}
	return favorite, nil
}

func (r *FavoriteRepository) DeleteFavorite(judgeId int, galaId int) (int64, error) {
	result := r.DB.Delete(&Favorite{}, "juge_id = ? AND gala_id = ?", judgeId, galaId)
	return result.RowsAffected, result.Error
}
