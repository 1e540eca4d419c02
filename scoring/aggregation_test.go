package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(v float64) *float64 {
	return &v
}

func scored(id int, name string, final float64) *ParticipantScore {
	return &ParticipantScore{ParticipantId: id, CompanyName: name, FinalScore: value(final)}
}

func ranks(ranked []*ParticipantScore) []*int {
	out := make([]*int, len(ranked))
	for i, score := range ranked {
		out[i] = score.Rank
	}
	return out
}

func TestScoreParticipantTwoJudges(t *testing.T) {
	notes := []WeightedNote{
		{JudgeId: 1, QuestionId: 1, Value: value(6), Weight: 1},
		{JudgeId: 1, QuestionId: 2, Value: value(5), Weight: 1},
	}
	score := ScoreParticipant(1, "Alpha", notes, nil)
	require.NotNil(t, score.BaseScore)
	assert.InDelta(t, 5.5, *score.BaseScore, 1e-9)

	notes = append(notes,
		WeightedNote{JudgeId: 2, QuestionId: 1, Value: value(5), Weight: 1},
		WeightedNote{JudgeId: 2, QuestionId: 2, Value: value(5), Weight: 1},
	)
	score = ScoreParticipant(1, "Alpha", notes, []int{2})
	assert.InDelta(t, 21.0, score.WeightedSum, 1e-9)
	assert.InDelta(t, 4.0, score.AnsweredWeight, 1e-9)
	assert.InDelta(t, 5.25, *score.BaseScore, 1e-9)
	assert.InDelta(t, 0.5, score.Bonus, 1e-9)
	assert.InDelta(t, 5.75, *score.FinalScore, 1e-9)
	assert.Equal(t, 2, score.JudgesAnswered)
	assert.Equal(t, 4, score.NotesRecorded)
}

func TestScoreParticipantWeights(t *testing.T) {
	notes := []WeightedNote{
		{JudgeId: 1, QuestionId: 1, Value: value(10), Weight: 3},
		{JudgeId: 1, QuestionId: 2, Value: value(2), Weight: 1},
		{JudgeId: 1, QuestionId: 3, Value: nil, Weight: 5},
	}
	score := ScoreParticipant(1, "Alpha", notes, nil)
	assert.InDelta(t, 8.0, *score.BaseScore, 1e-9)
	assert.Equal(t, 2, score.NotesRecorded)
}

func TestScoreParticipantWithoutAnsweredWeight(t *testing.T) {
	score := ScoreParticipant(1, "Alpha", []WeightedNote{{JudgeId: 1, QuestionId: 1, Weight: 1}}, []int{3, 4})
	assert.Nil(t, score.BaseScore)
	assert.Nil(t, score.FinalScore)
	assert.InDelta(t, 1.0, score.Bonus, 1e-9)
}

func TestFavoriteBonusCountsDistinctJudges(t *testing.T) {
	notes := []WeightedNote{{JudgeId: 1, QuestionId: 1, Value: value(4), Weight: 1}}
	score := ScoreParticipant(1, "Alpha", notes, []int{7, 8, 7})
	assert.InDelta(t, 1.0, score.Bonus, 1e-9)
	assert.InDelta(t, 5.0, *score.FinalScore, 1e-9)
	assert.Equal(t, []int{7, 8}, score.FavoriteJudgeIds)
}

func TestRankParticipantsCompetitionRanking(t *testing.T) {
	ranked := RankParticipants([]*ParticipantScore{
		scored(1, "Delta", 8),
		scored(2, "Bravo", 10),
		scored(3, "Charlie", 9),
		scored(4, "Alpha", 10),
	})
	assert.Equal(t, []int{4, 2, 3, 1}, []int{ranked[0].ParticipantId, ranked[1].ParticipantId, ranked[2].ParticipantId, ranked[3].ParticipantId})
	assert.Equal(t, []*int{intPtr(1), intPtr(1), intPtr(3), intPtr(4)}, ranks(ranked))
}

func TestRankParticipantsTolerance(t *testing.T) {
	ranked := RankParticipants([]*ParticipantScore{
		scored(1, "A", 10),
		scored(2, "B", 10+1e-8),
		scored(3, "C", 9),
	})
	assert.Equal(t, []*int{intPtr(1), intPtr(1), intPtr(3)}, ranks(ranked))
}

func TestRankParticipantsOrdersToleranceTiesByName(t *testing.T) {
	ranked := RankParticipants([]*ParticipantScore{
		scored(1, "Bravo", 10+1e-8),
		scored(2, "alpha", 10),
		scored(3, "Charlie", 9),
	})
	assert.Equal(t, []int{2, 1, 3}, []int{ranked[0].ParticipantId, ranked[1].ParticipantId, ranked[2].ParticipantId})
	assert.Equal(t, []*int{intPtr(1), intPtr(1), intPtr(3)}, ranks(ranked))
	assert.Equal(t, 2, Leader(ranked).ParticipantId)
}

func TestRankParticipantsUnscoredLast(t *testing.T) {
	ranked := RankParticipants([]*ParticipantScore{
		{ParticipantId: 1, CompanyName: "zeta"},
		{ParticipantId: 2, CompanyName: "Beta"},
		scored(3, "Omega", 2),
	})
	assert.Equal(t, 3, ranked[0].ParticipantId)
	assert.Equal(t, 2, ranked[1].ParticipantId)
	assert.Equal(t, 1, ranked[2].ParticipantId)
	assert.Equal(t, 1, *ranked[0].Rank)
	assert.Nil(t, ranked[1].Rank)
	assert.Nil(t, ranked[2].Rank)
}

func TestLeaderPicksFirstOfTiedWinners(t *testing.T) {
	ranked := RankParticipants([]*ParticipantScore{
		scored(1, "Bravo", 7),
		scored(2, "Alpha", 7),
	})
	leader := Leader(ranked)
	require.NotNil(t, leader)
	assert.Equal(t, 2, leader.ParticipantId)

	assert.Nil(t, Leader(RankParticipants([]*ParticipantScore{{ParticipantId: 1}})))
}

func intPtr(i int) *int {
	return &i
}
