package scoring

import (
	"math"
	"sort"
	"strings"
)

// FavoriteBonus is added to a participant's final score once per favoriting judge.
const FavoriteBonus = 0.5

const scoreTolerance = 1e-6

type WeightedNote struct {
	JudgeId    int
	QuestionId int
	Value      *float64
	Weight     float64
}

type ParticipantScore struct {
	ParticipantId    int
	CompanyName      string
	WeightedSum      float64
	AnsweredWeight   float64
	BaseScore        *float64
	FavoriteJudgeIds []int
	Bonus            float64
	FinalScore       *float64
	JudgesAnswered   int
	NotesRecorded    int
	Rank             *int
}

// ScoreParticipant averages the notes over answered weight only, so partial scoring
// does not depress the mean. Without any answered weight the participant has no score.
func ScoreParticipant(participantId int, companyName string, notes []WeightedNote, favoriteJudgeIds []int) *ParticipantScore {
	score := &ParticipantScore{
		ParticipantId: participantId,
		CompanyName:   companyName,
	}
	judges := make(map[int]bool)
	answered := make(map[[2]int]bool)
	for _, note := range notes {
		if note.Value == nil {
			continue
		}
		score.WeightedSum += *note.Value * note.Weight
		score.AnsweredWeight += note.Weight
		judges[note.JudgeId] = true
		answered[[2]int{note.QuestionId, note.JudgeId}] = true
	}
	score.JudgesAnswered = len(judges)
	score.NotesRecorded = len(answered)

	favorites := make(map[int]bool)
	for _, judgeId := range favoriteJudgeIds {
		if !favorites[judgeId] {
			favorites[judgeId] = true
			score.FavoriteJudgeIds = append(score.FavoriteJudgeIds, judgeId)
		}
	}
	score.Bonus = float64(len(score.FavoriteJudgeIds)) * FavoriteBonus

	if score.AnsweredWeight > 0 {
		base := score.WeightedSum / score.AnsweredWeight
		final := base + score.Bonus
		score.BaseScore = &base
		score.FinalScore = &final
	}
	return score
}

// RankParticipants sorts by final score descending with unscored participants last,
// company name breaking ties, and assigns standard competition ranks (1, 1, 3).
// Unscored participants keep a nil rank.
func RankParticipants(scores []*ParticipantScore) []*ParticipantScore {
	ranked := make([]*ParticipantScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if (a.FinalScore == nil) != (b.FinalScore == nil) {
			return a.FinalScore != nil
		}
		if a.FinalScore != nil && math.Abs(*a.FinalScore-*b.FinalScore) > scoreTolerance {
			return *a.FinalScore > *b.FinalScore
		}
		return strings.ToLower(a.CompanyName) < strings.ToLower(b.CompanyName)
	})

	counter := 0
	current := 0
	var previous *float64
	for _, score := range ranked {
		score.Rank = nil
		if score.FinalScore == nil {
			continue
		}
		counter++
		if previous == nil || math.Abs(*score.FinalScore-*previous) > scoreTolerance {
			current = counter
			previous = score.FinalScore
		}
		rank := current
		score.Rank = &rank
	}
	return ranked
}

// Leader returns the first rank-1 participant in ranking order, or nil.
// TODO: expose every rank-1 participant once product decides how true ties are announced.
func Leader(ranked []*ParticipantScore) *ParticipantScore {
	for _, score := range ranked {
		if score.Rank != nil && *score.Rank == 1 {
			return score
		}
	}
	return nil
}
