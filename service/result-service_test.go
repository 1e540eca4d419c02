package service

import (
	"context"
	"testing"

	"gala/app_error"
	"gala/repository"
	"gala/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioGala: two questions of weight 1, two judges, two participants.
// Judge A gives P1 6 and 5, judge B gives P1 5 and 5 and picks P1 as favorite.
func scenarioGala(t *testing.T, f *fixture) (*scoringGala, *repository.Judge, *Caller) {
	g := f.scoringGala()
	second, secondCaller := f.judge("Bruno", "Juge")
	f.assign(second, g.category)

	p1 := g.participants[0]
	f.note(g.caller, p1, g.questions[0], 6)
	f.note(g.caller, p1, g.questions[1], 5)
	f.note(secondCaller, p1, g.questions[0], 5)
	f.note(secondCaller, p1, g.questions[1], 5)
	_, err := f.scoring().SetFavorite(context.Background(), secondCaller, g.gala.Id, p1.Id)
	require.NoError(t, err)
	return g, second, secondCaller
}

func TestResultsScenario(t *testing.T) {
	f := newFixture(t)
	g, second, _ := scenarioGala(t, f)

	results, err := NewResultService(f.db, f.cache).GetResults(context.Background(), f.admin(), g.gala.Id, nil)
	require.NoError(t, err)

	require.Len(t, results.Categories, 1)
	category := results.Categories[0]
	assert.Equal(t, "Innovation", category.Name)
	assert.Equal(t, 2, category.QuestionCount)
	assert.Equal(t, 2, category.ParticipantCount)
	assert.Equal(t, 2, category.JudgeCount)
	assert.Equal(t, 2.0, category.TotalWeight)
	assert.Equal(t, 4, category.Progress.Recorded)
	assert.Equal(t, 8, category.Progress.Expected)
	assert.Equal(t, 50.0, category.Progress.ProgressPercent)
	assert.Equal(t, scoring.StatusInProgress, category.Status)
	assert.Equal(t, 1, category.FavoritesCount)

	require.Len(t, category.Participants, 2)
	first := category.Participants[0]
	assert.Equal(t, g.participants[0].Id, first.Id)
	assert.Equal(t, "Alpha", first.Company.Name)
	require.NotNil(t, first.ScoreBase)
	assert.InDelta(t, 5.25, *first.ScoreBase, 1e-9)
	assert.InDelta(t, 0.5, first.ScoreBonus, 1e-9)
	require.NotNil(t, first.ScoreFinal)
	assert.InDelta(t, 5.75, *first.ScoreFinal, 1e-9)
	require.NotNil(t, first.Rank)
	assert.Equal(t, 1, *first.Rank)
	assert.Equal(t, []string{"Bruno Juge"}, first.Favorites)
	assert.Equal(t, 2, first.JudgesAnswered)
	assert.Equal(t, 4, first.Notes.Recorded)
	assert.Equal(t, 4, first.Notes.Expected)
	assert.Equal(t, scoring.StatusComplete, first.Status)

	unscored := category.Participants[1]
	assert.Nil(t, unscored.ScoreBase)
	assert.Nil(t, unscored.ScoreFinal)
	assert.Nil(t, unscored.Rank)
	assert.Equal(t, scoring.StatusPending, unscored.Status)

	require.NotNil(t, category.TopParticipant)
	assert.Equal(t, first.Id, category.TopParticipant.Id)

	assert.Equal(t, scoring.FavoriteBonus, results.Meta.FavoriteBonus)
	assert.Equal(t, 2, results.Meta.JudgesTotal)
	assert.Equal(t, 0, results.Meta.JudgesSubmitted)
	assert.Equal(t, 2, results.Meta.ParticipantsTotal)
	assert.Equal(t, 1, results.Meta.CategoriesTotal)
	assert.Equal(t, 50.0, results.Meta.OverallCompletionPercent)

	require.Len(t, results.Judges, 2)
	for _, judge := range results.Judges {
		assert.Equal(t, 2, judge.AnsweredNotes)
		assert.Equal(t, 4, judge.ExpectedNotes)
		assert.Equal(t, 50.0, judge.ProgressPercent)
		assert.Equal(t, scoring.StatusInProgress, judge.Status)
		assert.False(t, judge.Submitted)
	}
	assert.Equal(t, second.Id, results.Judges[1].Id)
	assert.Equal(t, "Bruno", results.Judges[1].FirstName)
}

func TestResultsFiltersAndErrors(t *testing.T) {
	f := newFixture(t)
	g := f.scoringGala()
	other := f.category(g.gala, "Export", false)
	results := NewResultService(f.db, f.cache)
	admin := f.admin()

	all, err := results.GetResults(context.Background(), admin, g.gala.Id, nil)
	require.NoError(t, err)
	assert.Len(t, all.Categories, 2)
	assert.Len(t, all.Filters.Categories, 2)
	assert.Len(t, all.Filters.Galas, 1)

	filtered, err := results.GetResults(context.Background(), admin, g.gala.Id, &other.Id)
	require.NoError(t, err)
	require.Len(t, filtered.Categories, 1)
	assert.Equal(t, other.Id, filtered.Categories[0].Id)
	require.NotNil(t, filtered.Filters.Selected.CategoryId)
	assert.Equal(t, other.Id, *filtered.Filters.Selected.CategoryId)

	unknown := 9999
	fallback, err := results.GetResults(context.Background(), admin, g.gala.Id, &unknown)
	require.NoError(t, err)
	assert.Len(t, fallback.Categories, 2)
	assert.Nil(t, fallback.Filters.Selected.CategoryId)

	_, err = results.GetResults(context.Background(), admin, 4242, nil)
	assert.True(t, app_error.Is(err, app_error.KindNotFound))

	_, err = results.GetResults(context.Background(), g.caller, g.gala.Id, nil)
	assert.True(t, app_error.Is(err, app_error.KindForbidden))
}

func TestResultsReflectSubmissionsInRoster(t *testing.T) {
	f := newFixture(t)
	g := f.scoringGala()
	for _, participant := range g.participants {
		for _, question := range g.questions {
			f.note(g.caller, participant, question, 8)
		}
	}
	_, err := f.scoring().SubmitGala(context.Background(), g.caller, g.gala.Id)
	require.NoError(t, err)

	results, err := NewResultService(f.db, f.cache).GetResults(context.Background(), f.admin(), g.gala.Id, nil)
	require.NoError(t, err)
	require.Len(t, results.Judges, 1)
	assert.True(t, results.Judges[0].Submitted)
	assert.NotNil(t, results.Judges[0].SubmittedAt)
	assert.Equal(t, scoring.StatusSubmitted, results.Judges[0].Status)
	assert.Equal(t, 1, results.Meta.JudgesSubmitted)
	assert.Equal(t, scoring.StatusComplete, results.Categories[0].Status)

	ranked := results.Categories[0].Participants
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, *ranked[0].Rank)
	assert.Equal(t, 1, *ranked[1].Rank)
	assert.Equal(t, "Alpha", ranked[0].Company.Name)
}

func TestResultsCacheIsInvalidatedByMutations(t *testing.T) {
	f := newFixture(t)
	g := f.scoringGala()
	results := NewResultService(f.db, f.cache)
	admin := f.admin()

	invalidated := make([]int, 0)
	f.cache.OnInvalidate(func(galaId int) {
		invalidated = append(invalidated, galaId)
	})

	before, err := results.GetResults(context.Background(), admin, g.gala.Id, nil)
	require.NoError(t, err)
	assert.Nil(t, before.Categories[0].Participants[0].ScoreFinal)

	cached, err := results.GetResults(context.Background(), admin, g.gala.Id, nil)
	require.NoError(t, err)
	assert.Same(t, before, cached)

	f.note(g.caller, g.participants[0], g.questions[0], 9)
	assert.Equal(t, []int{g.gala.Id}, invalidated)

	after, err := results.GetResults(context.Background(), admin, g.gala.Id, nil)
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	require.NotNil(t, after.Categories[0].Participants[0].ScoreFinal)
	assert.InDelta(t, 9.0, *after.Categories[0].Participants[0].ScoreFinal, 1e-9)
}
