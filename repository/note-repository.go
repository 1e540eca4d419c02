package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Note struct {
	Id            int       `gorm:"primaryKey"`
	JudgeId       int       `gorm:"column:juge_id;not null;uniqueIndex:idx_note_unique"`
	ParticipantId int       `gorm:"not null;uniqueIndex:idx_note_unique"`
	QuestionId    int       `gorm:"not null;uniqueIndex:idx_note_unique"`
	Value         *float64  `gorm:"column:valeur"`
	Comment       *string   `gorm:"column:commentaire"`
	UpdatedAt     time.Time `gorm:"not null"`

	Judge       *Judge       `gorm:"foreignKey:JudgeId;constraint:OnDelete:CASCADE"`
	Participant *Participant `gorm:"foreignKey:ParticipantId;constraint:OnDelete:CASCADE"`
	Question    *Question    `gorm:"foreignKey:QuestionId;constraint:OnDelete:CASCADE"`
}

func (Note) TableName() string { return "note" }

// WeightedNoteRow is a note joined with the weight of its question.
type WeightedNoteRow struct {
	JudgeId       int
	ParticipantId int
	QuestionId    int
	Value         *float64
	Weight        float64
}

type NoteRepository struct {
	DB *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

func (r *NoteRepository) GetNote(judgeId int, participantId int, questionId int) (*Note, error) {
	var note Note
	result := r.DB.First(&note, "juge_id = ? AND participant_id = ? AND question_id = ?", judgeId, participantId, questionId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &note, nil
}

// UpsertNote writes the full note; callers merge partial updates beforehand.
// Concurrent writes to the same triple resolve on the unique index, last commit wins.
func (r *NoteRepository) UpsertNote(note *Note) (*Note, error) {
	timer := timeQuery("UpsertNote")
	defer timer.ObserveDuration()
	row := *note
	row.Id = 0
	row.UpdatedAt = time.Now()
	result := r.DB.Omit("Judge", "Participant", "Question").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "juge_id"}, {Name: "participant_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"valeur", "commentaire", "updated_at"}),
	}).Create(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	return r.GetNote(note.JudgeId, note.ParticipantId, note.QuestionId)
}

func (r *NoteRepository) GetNotesForJudge(judgeId int, participantIds []int) ([]*Note, error) {
	notes := make([]*Note, 0)
	if len(participantIds) == 0 {
		return notes, nil
	}
	result := r.DB.Where("juge_id = ? AND participant_id IN ?", judgeId, participantIds).Find(&notes)
	if result.Error != nil {
		return nil, result.Error
	}
	return notes, nil
}

type participantNoteCount struct {
	ParticipantId int
	Total         int
}

// CountValuedNotes counts, per participant, the distinct questions of the participant's own
// category that the judge gave a value to. Comment-only notes do not count.
func (r *NoteRepository) CountValuedNotes(judgeId int, participantIds []int) (map[int]int, error) {
	timer := timeQuery("CountValuedNotes")
	defer timer.ObserveDuration()
	counts := make(map[int]int)
	if len(participantIds) == 0 {
		return counts, nil
	}
	var rows []participantNoteCount
	result := r.DB.Model(&Note{}).
		Select("note.participant_id AS participant_id, COUNT(DISTINCT note.question_id) AS total").
		Joins("JOIN question ON question.id = note.question_id").
		Joins("JOIN participant ON participant.id = note.participant_id").
		Where("note.juge_id = ? AND note.participant_id IN ?", judgeId, participantIds).
		Where("note.valeur IS NOT NULL AND question.gala_categorie_id = participant.gala_categorie_id").
		Group("note.participant_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	for _, row := range rows {
		counts[row.ParticipantId] = row.Total
	}
	return counts, nil
}

// GetWeightedNotesForGala loads every judge's notes on the gala's participants, restricted to
// the questions of each participant's own category.
func (r *NoteRepository) GetWeightedNotesForGala(galaId int) ([]*WeightedNoteRow, error) {
	timer := timeQuery("GetWeightedNotesForGala")
	defer timer.ObserveDuration()
	rows := make([]*WeightedNoteRow, 0)
	result := r.DB.Model(&Note{}).
		Select("note.juge_id AS judge_id, note.participant_id AS participant_id, note.question_id AS question_id, note.valeur AS value, question.ponderation AS weight").
		Joins("JOIN question ON question.id = note.question_id").
		Joins("JOIN participant ON participant.id = note.participant_id").
		Joins("JOIN gala_categorie ON gala_categorie.id = participant.gala_categorie_id").
		Where("gala_categorie.gala_id = ? AND question.gala_categorie_id = participant.gala_categorie_id", galaId).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}
