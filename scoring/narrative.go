package scoring

const SourceNarrative = "narratif"

type QuestionRow struct {
	QuestionId int
	Text       string
	Weight     float64
	Value      *float64
	Comment    *string
}

type QuestionView struct {
	QuestionId         int
	Order              int
	Text               string
	Weight             float64
	Value              *float64
	Comment            *string
	Source             *string
	Shared             bool
	ScopeParticipantId int
	CountsForProgress  bool
}

// MergeQuestionViews lists the participant's own questions followed by the company's
// narrative questions. Narrative entries point at the narrative participant, which is
// where their notes live, and never count toward the category's progress.
func MergeQuestionViews(base []QuestionRow, participantId int, narrative []QuestionRow, narrativeParticipantId int) []*QuestionView {
	views := make([]*QuestionView, 0, len(base)+len(narrative))
	seen := make(map[int]*QuestionView)
	collect := func(rows []QuestionRow, source *string, scopeParticipantId int) {
		for _, row := range rows {
			if existing, ok := seen[row.QuestionId]; ok {
				if existing.Value == nil && row.Value != nil {
					existing.Value = row.Value
				}
				if (existing.Comment == nil || *existing.Comment == "") && row.Comment != nil && *row.Comment != "" {
					existing.Comment = row.Comment
				}
				continue
			}
			view := &QuestionView{
				QuestionId:         row.QuestionId,
				Text:               row.Text,
				Weight:             row.Weight,
				Value:              row.Value,
				Comment:            row.Comment,
				Source:             source,
				Shared:             source != nil,
				ScopeParticipantId: scopeParticipantId,
				CountsForProgress:  source == nil,
			}
			views = append(views, view)
			seen[row.QuestionId] = view
		}
	}
	collect(base, nil, participantId)
	if len(narrative) > 0 {
		source := SourceNarrative
		collect(narrative, &source, narrativeParticipantId)
	}
	for i, view := range views {
		view.Order = i + 1
	}
	return views
}

type ViewProgress struct {
	Percent   float64
	Completed int
	Total     int
	Extra     int
}

// QuestionViewProgress counts only the questions that count for progress; shared ones are reported as extra.
func QuestionViewProgress(views []*QuestionView) ViewProgress {
	progress := ViewProgress{}
	for _, view := range views {
		if !view.CountsForProgress {
			progress.Extra++
			continue
		}
		progress.Total++
		if view.Value != nil {
			progress.Completed++
		}
	}
	progress.Percent = Percent(progress.Completed, progress.Total)
	return progress
}
