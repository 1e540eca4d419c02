package service

import (
	"context"
	"sort"
	"strings"

	"gala/app_error"
	"gala/repository"
	"gala/scoring"
	"gala/utils"

	"gorm.io/gorm"
)

type JudgeCategoryProgress struct {
	GalaCategory  *repository.GalaCategory
	QuestionCount int
	Progress      scoring.CategoryProgress
}

type JudgeGalaProgress struct {
	Gala                  *repository.Gala
	Categories            []*JudgeCategoryProgress
	Progress              scoring.GalaProgress
	Lock                  *repository.GalaLock
	Submission            *repository.Submission
	FavoriteParticipantId *int
}

type ParticipantProgressEntry struct {
	Participant *repository.Participant
	Progress    scoring.ParticipantProgress
	IsFavorite  bool
}

type CategoryParticipants struct {
	Gala          *repository.Gala
	GalaCategory  *repository.GalaCategory
	QuestionCount int
	Participants  []*ParticipantProgressEntry
	Progress      scoring.CategoryProgress
	Locked        bool
	Submitted     bool
}

type ParticipantView struct {
	Gala         *repository.Gala
	GalaCategory *repository.GalaCategory
	Participant  *repository.Participant
	Questions    []*scoring.QuestionView
	Progress     scoring.ViewProgress
	Locked       bool
	Submitted    bool
	IsFavorite   bool
}

// JudgeService serves the read side of a judge's scoring workflow.
type JudgeService struct {
	db *gorm.DB
}

func NewJudgeService(db *gorm.DB) *JudgeService {
	return &JudgeService{db: db}
}

// GetJudgeProgress reports progress on every gala the judge is assigned to, or on one gala.
func (s *JudgeService) GetJudgeProgress(ctx context.Context, caller *Caller, galaId *int) ([]*JudgeGalaProgress, error) {
	db := s.db.WithContext(ctx)
	judge, err := resolveJudge(db, caller)
	if err != nil {
		return nil, err
	}
	categories, err := repository.NewAssignmentRepository(db).GetAssignedCategories(judge.Id, galaId)
	if err != nil {
		return nil, err
	}
	if galaId != nil && len(categories) == 0 {
		return nil, app_error.NotFound("gala not assigned to this judge")
	}

	categoryIds := utils.Map(categories, func(gc *repository.GalaCategory) int { return gc.Id })
	galaIds := utils.Uniques(utils.Map(categories, func(gc *repository.GalaCategory) int { return gc.GalaId }))
	questions, err := repository.NewQuestionRepository(db).GetQuestionsForGalaCategories(categoryIds)
	if err != nil {
		return nil, err
	}
	participants, err := repository.NewParticipantRepository(db).GetParticipantsForGalaCategories(categoryIds)
	if err != nil {
		return nil, err
	}
	counts, err := repository.NewNoteRepository(db).CountValuedNotes(judge.Id, utils.Map(participants, func(p *repository.Participant) int { return p.Id }))
	if err != nil {
		return nil, err
	}
	locks, err := repository.NewLockRepository(db).GetLocks(galaIds)
	if err != nil {
		return nil, err
	}
	submissions, err := repository.NewSubmissionRepository(db).GetSubmissionsForJudge(judge.Id)
	if err != nil {
		return nil, err
	}
	favorites := repository.NewFavoriteRepository(db)

	questionCounts := utils.CountBy(questions, func(q *repository.Question) int { return q.GalaCategoryId })
	participantIds := utils.GroupBy(participants, func(p *repository.Participant) int { return p.GalaCategoryId })

	byGala := make(map[int]*JudgeGalaProgress)
	galas := make([]*JudgeGalaProgress, 0, len(galaIds))
	for _, gc := range categories {
		entry, ok := byGala[gc.GalaId]
		if !ok {
			entry = &JudgeGalaProgress{
				Gala:       gc.Gala,
				Lock:       locks[gc.GalaId],
				Submission: submissions[gc.GalaId],
			}
			favorite, err := favorites.GetFavorite(judge.Id, gc.GalaId)
			if err != nil {
				return nil, err
			}
			if favorite != nil {
				entry.FavoriteParticipantId = &favorite.ParticipantId
			}
			byGala[gc.GalaId] = entry
			galas = append(galas, entry)
		}
		ids := utils.Map(participantIds[gc.Id], func(p *repository.Participant) int { return p.Id })
		entry.Categories = append(entry.Categories, &JudgeCategoryProgress{
			GalaCategory:  gc,
			QuestionCount: questionCounts[gc.Id],
			Progress:      scoring.CategoryLevel(questionCounts[gc.Id], ids, counts),
		})
	}
	for _, entry := range galas {
		progress := utils.Map(entry.Categories, func(c *JudgeCategoryProgress) scoring.CategoryProgress { return c.Progress })
		entry.Progress = scoring.GalaLevel(progress, entry.Lock != nil, entry.Submission != nil)
	}
	sort.SliceStable(galas, func(i, j int) bool {
		if galas[i].Gala.Year != galas[j].Gala.Year {
			return galas[i].Gala.Year > galas[j].Gala.Year
		}
		return strings.ToLower(galas[i].Gala.Name) < strings.ToLower(galas[j].Gala.Name)
	})
	return galas, nil
}

// assignedCategory loads a gala category the judge is assigned to, or fails with NotFound.
func assignedCategory(db *gorm.DB, judgeId int, galaId int, galaCategoryId int) (*repository.GalaCategory, error) {
	gc, err := repository.NewGalaCategoryRepository(db).GetGalaCategoryById(galaCategoryId)
	if err != nil {
		return nil, notFound(err, "category not found")
	}
	if gc.GalaId != galaId {
		return nil, app_error.NotFound("category not found in this gala")
	}
	assigned, err := repository.NewAssignmentRepository(db).IsAssigned(judgeId, gc.Id)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, app_error.NotFound("category not assigned to this judge")
	}
	return gc, nil
}

func (s *JudgeService) ListCategoryParticipants(ctx context.Context, caller *Caller, galaId int, galaCategoryId int) (*CategoryParticipants, error) {
	db := s.db.WithContext(ctx)
	judge, err := resolveJudge(db, caller)
	if err != nil {
		return nil, err
	}
	gc, err := assignedCategory(db, judge.Id, galaId, galaCategoryId)
	if err != nil {
		return nil, err
	}
	gala, err := repository.NewGalaRepository(db).GetGalaById(galaId)
	if err != nil {
		return nil, notFound(err, "gala not found")
	}
	questions, err := repository.NewQuestionRepository(db).GetQuestionsForGalaCategories([]int{gc.Id})
	if err != nil {
		return nil, err
	}
	participants, err := repository.NewParticipantRepository(db).GetParticipantsForGalaCategories([]int{gc.Id})
	if err != nil {
		return nil, err
	}
	participantIds := utils.Map(participants, func(p *repository.Participant) int { return p.Id })
	counts, err := repository.NewNoteRepository(db).CountValuedNotes(judge.Id, participantIds)
	if err != nil {
		return nil, err
	}
	gate, err := readGate(db, gala, judge.Id)
	if err != nil {
		return nil, err
	}
	favorite, err := repository.NewFavoriteRepository(db).GetFavorite(judge.Id, galaId)
	if err != nil {
		return nil, err
	}

	entries := make([]*ParticipantProgressEntry, len(participants))
	for i, participant := range participants {
		entries[i] = &ParticipantProgressEntry{
			Participant: participant,
			Progress:    scoring.ParticipantLevel(len(questions), counts[participant.Id]),
			IsFavorite:  favorite != nil && favorite.ParticipantId == participant.Id,
		}
	}
	return &CategoryParticipants{
		Gala:          gala,
		GalaCategory:  gc,
		QuestionCount: len(questions),
		Participants:  entries,
		Progress:      scoring.CategoryLevel(len(questions), participantIds, counts),
		Locked:        gate.Lock != nil,
		Submitted:     gate.Submission != nil,
	}, nil
}

// GetParticipantView lists the participant's questions with the judge's notes, followed by the
// company's shared narrative questions.
func (s *JudgeService) GetParticipantView(ctx context.Context, caller *Caller, galaId int, galaCategoryId int, participantId int) (*ParticipantView, error) {
	db := s.db.WithContext(ctx)
	judge, err := resolveJudge(db, caller)
	if err != nil {
		return nil, err
	}
	gc, err := assignedCategory(db, judge.Id, galaId, galaCategoryId)
	if err != nil {
		return nil, err
	}
	participants := repository.NewParticipantRepository(db)
	participant, err := participants.GetParticipantById(participantId)
	if err != nil {
		return nil, notFound(err, "participant not found")
	}
	if participant.GalaCategoryId != gc.Id {
		return nil, app_error.NotFound("participant not found in this category")
	}
	gala, err := repository.NewGalaRepository(db).GetGalaById(galaId)
	if err != nil {
		return nil, notFound(err, "gala not found")
	}

	base, err := s.questionRows(db, judge.Id, gc.Id, participant.Id)
	if err != nil {
		return nil, err
	}
	var narrative []scoring.QuestionRow
	narrativeParticipantId := 0
	if !gc.IsNarrative {
		narrativeIds, err := repository.NewGalaCategoryRepository(db).GetNarrativeCategoryIds(galaId)
		if err != nil {
			return nil, err
		}
		narrativeParticipant, err := participants.GetNarrativeParticipant(participant.CompanyId, narrativeIds)
		if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
		if narrativeParticipant != nil {
			narrativeParticipantId = narrativeParticipant.Id
			narrative, err = s.questionRows(db, judge.Id, narrativeParticipant.GalaCategoryId, narrativeParticipant.Id)
			if err != nil {
				return nil, err
			}
		}
	}
	views := scoring.MergeQuestionViews(base, participant.Id, narrative, narrativeParticipantId)

	gate, err := readGate(db, gala, judge.Id)
	if err != nil {
		return nil, err
	}
	favorite, err := repository.NewFavoriteRepository(db).GetFavorite(judge.Id, galaId)
	if err != nil {
		return nil, err
	}
	return &ParticipantView{
		Gala:         gala,
		GalaCategory: gc,
		Participant:  participant,
		Questions:    views,
		Progress:     scoring.QuestionViewProgress(views),
		Locked:       gate.Lock != nil,
		Submitted:    gate.Submission != nil,
		IsFavorite:   favorite != nil && favorite.ParticipantId == participant.Id,
	}, nil
}

func (s *JudgeService) questionRows(db *gorm.DB, judgeId int, galaCategoryId int, participantId int) ([]scoring.QuestionRow, error) {
	questions, err := repository.NewQuestionRepository(db).GetQuestionsForGalaCategories([]int{galaCategoryId})
	if err != nil {
		return nil, err
	}
	notes, err := repository.NewNoteRepository(db).GetNotesForJudge(judgeId, []int{participantId})
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[int]*repository.Note, len(notes))
	for _, note := range notes {
		byQuestion[note.QuestionId] = note
	}
	rows := make([]scoring.QuestionRow, len(questions))
	for i, question := range questions {
		rows[i] = scoring.QuestionRow{QuestionId: question.Id, Text: question.Text, Weight: question.Weight}
		if note, ok := byQuestion[question.Id]; ok {
			rows[i].Value = note.Value
			rows[i].Comment = note.Comment
		}
	}
	return rows, nil
}
