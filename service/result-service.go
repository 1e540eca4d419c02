package service

import (
	"context"
	"time"

	"gala/metrics"
	"gala/repository"
	"gala/scoring"
	"gala/utils"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type GalaOption struct {
	Id   int    `json:"id"`
	Name string `json:"nom"`
	Year int    `json:"annee"`
}

type CategoryOption struct {
	Id   int    `json:"id"`
	Name string `json:"nom"`
}

type SelectedFilter struct {
	GalaId     int  `json:"gala_id"`
	CategoryId *int `json:"categorie_id"`
}

type ResultFilters struct {
	Galas      []*GalaOption     `json:"galas"`
	Categories []*CategoryOption `json:"categories"`
	Selected   SelectedFilter    `json:"selected"`
}

type ResultMeta struct {
	Gala                     GalaOption `json:"gala"`
	FavoriteBonus            float64    `json:"favorite_bonus"`
	OverallCompletionPercent float64    `json:"overall_completion_percent"`
	OverallRecorded          int        `json:"overall_recorded"`
	OverallExpected          int        `json:"overall_expected"`
	JudgesTotal              int        `json:"judges_total"`
	JudgesSubmitted          int        `json:"judges_submitted"`
	ParticipantsTotal        int        `json:"participants_total"`
	CategoriesTotal          int        `json:"categories_total"`
}

type JudgeRosterEntry struct {
	Id              int            `json:"id"`
	FirstName       string         `json:"prenom"`
	LastName        string         `json:"nom"`
	AnsweredNotes   int            `json:"answered_notes"`
	ExpectedNotes   int            `json:"expected_notes"`
	ProgressPercent float64        `json:"progress_percent"`
	Submitted       bool           `json:"submitted"`
	SubmittedAt     *time.Time     `json:"submitted_at"`
	Status          scoring.Status `json:"status"`
}

type CompanyResult struct {
	Id     int     `json:"id"`
	Name   string  `json:"nom"`
	City   *string `json:"ville"`
	Sector *string `json:"secteur"`
}

type NoteProgress struct {
	Recorded        int     `json:"recorded"`
	Expected        int     `json:"expected"`
	ProgressPercent float64 `json:"progress_percent"`
}

type ParticipantResult struct {
	Id             int            `json:"id"`
	Company        CompanyResult  `json:"compagnie"`
	ScoreBase      *float64       `json:"score_base"`
	ScoreBonus     float64        `json:"score_bonus"`
	ScoreFinal     *float64       `json:"score_final"`
	Rank           *int           `json:"rank"`
	Status         scoring.Status `json:"status"`
	Notes          NoteProgress   `json:"notes"`
	Favorites      []string       `json:"favorites"`
	FavoritesCount int            `json:"favorites_count"`
	JudgesAnswered int            `json:"judges_answered"`
}

type CategoryResult struct {
	Id               int                  `json:"id"`
	Name             string               `json:"nom"`
	IsNarrative      bool                 `json:"narratif"`
	QuestionCount    int                  `json:"question_count"`
	ParticipantCount int                  `json:"participant_count"`
	JudgeCount       int                  `json:"judge_count"`
	TotalWeight      float64              `json:"total_weight"`
	Status           scoring.Status       `json:"status"`
	Progress         NoteProgress         `json:"progress"`
	FavoritesCount   int                  `json:"favorites_count"`
	TopParticipant   *ParticipantResult   `json:"top_participant"`
	Participants     []*ParticipantResult `json:"participants"`
}

// Results is the admin read model of a gala's scoring.
type Results struct {
	Filters    ResultFilters       `json:"filters"`
	Meta       ResultMeta          `json:"meta"`
	Judges     []*JudgeRosterEntry `json:"judges"`
	Categories []*CategoryResult   `json:"categories"`
}

type resultInputs struct {
	galas        []*repository.Gala
	gala         *repository.Gala
	categories   []*repository.GalaCategory
	questions    []*repository.Question
	participants []*repository.Participant
	notes        []*repository.WeightedNoteRow
	judges       []*repository.Judge
	assignments  []*repository.JudgeAssignment
	favorites    []*repository.Favorite
	submissions  map[int]*repository.Submission
}

type ResultService struct {
	db    *gorm.DB
	cache *ResultsCache
}

func NewResultService(db *gorm.DB, cache *ResultsCache) *ResultService {
	return &ResultService{db: db, cache: cache}
}

func (s *ResultService) Cache() *ResultsCache {
	return s.cache
}

// GetResults ranks every participant of the gala, optionally restricted to one category.
// An unknown category filter falls back to all categories.
func (s *ResultService) GetResults(ctx context.Context, caller *Caller, galaId int, categoryId *int) (*Results, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	key := s.cache.key(galaId, categoryId)
	if results, ok := s.cache.get(key); ok {
		return results, nil
	}
	timer := prometheus.NewTimer(metrics.ResultsComputationDuration)
	inputs, err := s.load(ctx, galaId)
	if err != nil {
		return nil, err
	}
	results := computeResults(inputs, categoryId)
	timer.ObserveDuration()
	s.cache.set(key, results)
	return results, nil
}

func (s *ResultService) load(ctx context.Context, galaId int) (*resultInputs, error) {
	inputs := &resultInputs{}
	g, ctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(ctx)
	g.Go(func() (err error) {
		inputs.gala, err = repository.NewGalaRepository(db).GetGalaById(galaId)
		return notFound(err, "gala not found")
	})
	g.Go(func() (err error) {
		inputs.galas, err = repository.NewGalaRepository(db).GetGalas()
		return err
	})
	g.Go(func() (err error) {
		inputs.categories, err = repository.NewGalaCategoryRepository(db).GetGalaCategoriesForGala(galaId)
		return err
	})
	g.Go(func() (err error) {
		inputs.questions, err = repository.NewQuestionRepository(db).GetQuestionsForGala(galaId)
		return err
	})
	g.Go(func() (err error) {
		inputs.participants, err = repository.NewParticipantRepository(db).GetParticipantsForGala(galaId)
		return err
	})
	g.Go(func() (err error) {
		inputs.notes, err = repository.NewNoteRepository(db).GetWeightedNotesForGala(galaId)
		return err
	})
	g.Go(func() (err error) {
		inputs.judges, err = repository.NewJudgeRepository(db).GetJudgesForGala(galaId)
		return err
	})
	g.Go(func() (err error) {
		inputs.assignments, err = repository.NewAssignmentRepository(db).GetAssignmentsForGala(galaId)
		return err
	})
	g.Go(func() (err error) {
		inputs.favorites, err = repository.NewFavoriteRepository(db).GetFavoritesForGala(galaId)
		return err
	})
	g.Go(func() (err error) {
		inputs.submissions, err = repository.NewSubmissionRepository(db).GetSubmissionsForGala(galaId)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

func computeResults(in *resultInputs, categoryId *int) *Results {
	selected := in.categories
	var selectedId *int
	if categoryId != nil {
		for _, gc := range in.categories {
			if gc.Id == *categoryId {
				selected = []*repository.GalaCategory{gc}
				selectedId = &gc.Id
				break
			}
		}
	}

	questionsByCategory := utils.GroupBy(in.questions, func(q *repository.Question) int { return q.GalaCategoryId })
	participantsByCategory := utils.GroupBy(in.participants, func(p *repository.Participant) int { return p.GalaCategoryId })
	notesByParticipant := make(map[int][]scoring.WeightedNote)
	for _, note := range in.notes {
		notesByParticipant[note.ParticipantId] = append(notesByParticipant[note.ParticipantId], scoring.WeightedNote{
			JudgeId:    note.JudgeId,
			QuestionId: note.QuestionId,
			Value:      note.Value,
			Weight:     note.Weight,
		})
	}
	judgesByCategory := make(map[int]map[int]bool)
	for _, assignment := range in.assignments {
		if judgesByCategory[assignment.GalaCategoryId] == nil {
			judgesByCategory[assignment.GalaCategoryId] = make(map[int]bool)
		}
		judgesByCategory[assignment.GalaCategoryId][assignment.JudgeId] = true
	}
	favoritesByParticipant := utils.GroupBy(in.favorites, func(f *repository.Favorite) int { return f.ParticipantId })

	results := &Results{
		Filters: ResultFilters{
			Galas: utils.Map(in.galas, func(g *repository.Gala) *GalaOption {
				return &GalaOption{Id: g.Id, Name: g.Name, Year: g.Year}
			}),
			Categories: utils.Map(in.categories, func(gc *repository.GalaCategory) *CategoryOption {
				return &CategoryOption{Id: gc.Id, Name: gc.CategoryName()}
			}),
			Selected: SelectedFilter{GalaId: in.gala.Id, CategoryId: selectedId},
		},
		Meta: ResultMeta{
			Gala:            GalaOption{Id: in.gala.Id, Name: in.gala.Name, Year: in.gala.Year},
			FavoriteBonus:   scoring.FavoriteBonus,
			CategoriesTotal: len(selected),
		},
		Categories: make([]*CategoryResult, 0, len(selected)),
	}

	judgeNames := favoriteNames(in.favorites)
	answeredByJudge := make(map[int]int)
	expectedByJudge := make(map[int]int)
	for _, gc := range selected {
		questions := questionsByCategory[gc.Id]
		participants := participantsByCategory[gc.Id]
		judgeCount := len(judgesByCategory[gc.Id])
		for judgeId := range judgesByCategory[gc.Id] {
			expectedByJudge[judgeId] += len(questions) * len(participants)
		}

		category := &CategoryResult{
			Id:               gc.Id,
			Name:             gc.CategoryName(),
			IsNarrative:      gc.IsNarrative,
			QuestionCount:    len(questions),
			ParticipantCount: len(participants),
			JudgeCount:       judgeCount,
			Participants:     make([]*ParticipantResult, 0, len(participants)),
		}
		for _, question := range questions {
			category.TotalWeight += question.Weight
		}

		scores := make([]*scoring.ParticipantScore, 0, len(participants))
		byId := make(map[int]*repository.Participant, len(participants))
		recorded := 0
		for _, participant := range participants {
			byId[participant.Id] = participant
			notes := notesByParticipant[participant.Id]
			for _, note := range notes {
				if note.Value != nil {
					answeredByJudge[note.JudgeId]++
				}
			}
			favoriteJudgeIds := utils.Map(favoritesByParticipant[participant.Id], func(f *repository.Favorite) int { return f.JudgeId })
			score := scoring.ScoreParticipant(participant.Id, participant.CompanyName(), notes, favoriteJudgeIds)
			recorded += score.NotesRecorded
			category.FavoritesCount += len(score.FavoriteJudgeIds)
			scores = append(scores, score)
		}

		ranked := scoring.RankParticipants(scores)
		leader := scoring.Leader(ranked)
		for _, score := range ranked {
			participant := toParticipantResult(byId[score.ParticipantId], score, len(questions), judgeCount, judgeNames)
			category.Participants = append(category.Participants, participant)
			if leader != nil && leader.ParticipantId == score.ParticipantId {
				category.TopParticipant = participant
			}
		}

		progress := scoring.AggregateLevel(len(questions), len(participants), judgeCount, recorded)
		category.Status = progress.Status
		category.Progress = NoteProgress{Recorded: progress.Recorded, Expected: progress.Expected, ProgressPercent: progress.Percent}

		results.Meta.OverallRecorded += progress.Recorded
		results.Meta.OverallExpected += progress.Expected
		results.Meta.ParticipantsTotal += len(participants)
		results.Categories = append(results.Categories, category)
	}
	results.Meta.OverallCompletionPercent = scoring.Percent(results.Meta.OverallRecorded, results.Meta.OverallExpected)

	results.Judges = make([]*JudgeRosterEntry, 0, len(in.judges))
	for _, judge := range in.judges {
		submission := in.submissions[judge.Id]
		progress := scoring.JudgeLevel(answeredByJudge[judge.Id], expectedByJudge[judge.Id], submission != nil)
		entry := &JudgeRosterEntry{
			Id:              judge.Id,
			FirstName:       judge.FirstName(),
			LastName:        judge.LastName(),
			AnsweredNotes:   progress.Answered,
			ExpectedNotes:   progress.Expected,
			ProgressPercent: progress.Percent,
			Submitted:       submission != nil,
			Status:          progress.Status,
		}
		if submission != nil {
			entry.SubmittedAt = &submission.SubmittedAt
			results.Meta.JudgesSubmitted++
		}
		results.Judges = append(results.Judges, entry)
	}
	results.Meta.JudgesTotal = len(results.Judges)
	return results
}

func favoriteNames(favorites []*repository.Favorite) map[int]string {
	names := make(map[int]string, len(favorites))
	for _, favorite := range favorites {
		if favorite.Judge != nil && favorite.Judge.User != nil {
			names[favorite.JudgeId] = favorite.Judge.User.FullName()
		}
	}
	return names
}

func roundScore(score *float64) *float64 {
	if score == nil {
		return nil
	}
	rounded := scoring.Round(*score, 2)
	return &rounded
}

func toParticipantResult(participant *repository.Participant, score *scoring.ParticipantScore, questionCount int, judgeCount int, judgeNames map[int]string) *ParticipantResult {
	progress := scoring.AggregateLevel(questionCount, 1, judgeCount, score.NotesRecorded)
	result := &ParticipantResult{
		Id:             participant.Id,
		Company:        CompanyResult{Id: participant.CompanyId, Name: participant.CompanyName()},
		ScoreBase:      roundScore(score.BaseScore),
		ScoreBonus:     scoring.Round(score.Bonus, 2),
		ScoreFinal:     roundScore(score.FinalScore),
		Rank:           score.Rank,
		Status:         progress.Status,
		Notes:          NoteProgress{Recorded: progress.Recorded, Expected: progress.Expected, ProgressPercent: progress.Percent},
		Favorites:      make([]string, 0, len(score.FavoriteJudgeIds)),
		FavoritesCount: len(score.FavoriteJudgeIds),
		JudgesAnswered: score.JudgesAnswered,
	}
	if participant.Company != nil {
		result.Company.City = participant.Company.City
		result.Company.Sector = participant.Company.Sector
	}
	for _, judgeId := range score.FavoriteJudgeIds {
		result.Favorites = append(result.Favorites, judgeNames[judgeId])
	}
	return result
}
