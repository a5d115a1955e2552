package dataset

import "github.com/spigell/affinity/internal/matching"

// Summary is a compact per-match row for logs and the interactive browser.
type Summary struct {
	Rank        int      `json:"rank"`
	CandidateID string   `json:"candidate_id"`
	Score       float64  `json:"score"`
	RiskLevel   float64  `json:"risk_level"`
	RiskAreas   []string `json:"risk_areas,omitempty"`
	Starter     string   `json:"starter,omitempty"`
}

// Summarize returns one row per match in rank order.
func Summarize(outcome *matching.Outcome) []Summary {
	if outcome == nil {
		return nil
	}

	rows := make([]Summary, 0, len(outcome.Matches))
	for i, m := range outcome.Matches {
		row := Summary{
			Rank:        i + 1,
			CandidateID: m.Candidate.ID,
			Score:       m.Score,
			RiskLevel:   m.Risk.Level,
			RiskAreas:   m.Risk.Areas,
		}
		if len(m.ConversationStarters) > 0 {
			row.Starter = m.ConversationStarters[0]
		}
		rows = append(rows, row)
	}
	return rows
}
