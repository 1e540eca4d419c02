package scoring

import "math"

type Status string

const (
	StatusUnavailable Status = "non_disponible"
	StatusPending     Status = "en_attente"
	StatusInProgress  Status = "en_cours"
	StatusDone        Status = "termine"
	StatusComplete    Status = "complet"
	StatusLocked      Status = "verrouille"
	StatusSubmitted   Status = "soumis"
)

// Round rounds half away from zero to the given number of decimals.
func Round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// Percent is recorded/total as a percentage with one decimal; a zero total yields 0.
func Percent(recorded int, total int) float64 {
	if total <= 0 {
		return 0.0
	}
	return Round(float64(recorded)/float64(total)*100, 1)
}

func judgeStatus(recorded int, total int) Status {
	switch {
	case total <= 0:
		return StatusUnavailable
	case recorded <= 0:
		return StatusPending
	case recorded < total:
		return StatusInProgress
	default:
		return StatusDone
	}
}

func adminStatus(recorded int, expected int) Status {
	switch {
	case expected <= 0, recorded <= 0:
		return StatusPending
	case recorded < expected:
		return StatusInProgress
	default:
		return StatusComplete
	}
}

type ParticipantProgress struct {
	Percent   float64
	Completed int
	Total     int
	Status    Status
}

// ParticipantLevel is one judge's progress on one participant.
func ParticipantLevel(questionCount int, notes int) ParticipantProgress {
	completed := min(notes, questionCount)
	return ParticipantProgress{
		Percent:   Percent(completed, questionCount),
		Completed: completed,
		Total:     questionCount,
		Status:    judgeStatus(completed, questionCount),
	}
}

type CategoryProgress struct {
	Percent               float64
	CompletedParticipants int
	TotalParticipants     int
	Recorded              int
	Total                 int
	Status                Status
}

// CategoryLevel is one judge's progress over one assigned gala category. Note counts
// above the question count of a participant are capped so they never exceed 100%.
func CategoryLevel(questionCount int, participantIds []int, noteCounts map[int]int) CategoryProgress {
	progress := CategoryProgress{
		TotalParticipants: len(participantIds),
		Total:             questionCount * len(participantIds),
	}
	for _, participantId := range participantIds {
		notes := noteCounts[participantId]
		progress.Recorded += min(notes, questionCount)
		if questionCount > 0 && notes >= questionCount {
			progress.CompletedParticipants++
		}
	}
	progress.Percent = Percent(progress.Recorded, progress.Total)
	progress.Status = judgeStatus(progress.Recorded, progress.Total)
	return progress
}

type GalaProgress struct {
	Percent  float64
	Recorded int
	Total    int
	Status   Status
}

// GalaLevel sums a judge's category progress; a lock overrides every other status,
// a submission overrides everything but the lock.
func GalaLevel(categories []CategoryProgress, locked bool, submitted bool) GalaProgress {
	progress := GalaProgress{}
	for _, category := range categories {
		progress.Recorded += category.Recorded
		progress.Total += category.Total
	}
	progress.Percent = Percent(progress.Recorded, progress.Total)
	switch {
	case locked:
		progress.Status = StatusLocked
	case submitted:
		progress.Status = StatusSubmitted
	default:
		progress.Status = judgeStatus(progress.Recorded, progress.Total)
	}
	return progress
}

type AggregateProgress struct {
	Percent  float64
	Recorded int
	Expected int
	Status   Status
}

// AggregateLevel is the admin view across all judges: expected = questions × participants × judges.
func AggregateLevel(questionCount int, participantCount int, judgeCount int, recorded int) AggregateProgress {
	expected := questionCount * participantCount * judgeCount
	return AggregateProgress{
		Percent:  Percent(recorded, expected),
		Recorded: recorded,
		Expected: expected,
		Status:   adminStatus(recorded, expected),
	}
}

type JudgeProgress struct {
	Percent  float64
	Answered int
	Expected int
	Status   Status
}

// JudgeLevel is the roster entry for one judge in the admin results.
func JudgeLevel(answered int, expected int, submitted bool) JudgeProgress {
	progress := JudgeProgress{
		Percent:  Percent(answered, expected),
		Answered: answered,
		Expected: expected,
		Status:   StatusPending,
	}
	if submitted {
		progress.Status = StatusSubmitted
	} else if answered > 0 {
		progress.Status = StatusInProgress
	}
	return progress
}
