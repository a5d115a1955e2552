package matching

import (
	"github.com/spigell/affinity/internal/filtering"
	"github.com/spigell/affinity/internal/profile"
	"github.com/spigell/affinity/internal/risk"
)

// StageLowConfidence marks exclusions caused by PolicyExclude.
const StageLowConfidence = "low_confidence"

// Breakdown explains a composite score.
type Breakdown struct {
	Base        float64 `json:"base"`
	Personality float64 `json:"personality"`
	MBTI        float64 `json:"mbti"`
	BigFive     float64 `json:"big_five"`
	Values      float64 `json:"values"`
	DistanceKm  float64 `json:"distance_km"`
	AgeGap      int     `json:"age_gap"`
}

// MatchResult is the evaluation of one eligible candidate.
type MatchResult struct {
	Candidate            *profile.UserProfile `json:"candidate"`
	Score                float64              `json:"compatibility_score"`
	Breakdown            Breakdown            `json:"breakdown"`
	UniqueConnections    []string             `json:"unique_connections"`
	ConversationStarters []string             `json:"conversation_starters"`
	Risk                 risk.Analysis        `json:"risk_analysis"`
	// LowConfidence is set when the personality score was replaced by
	// NeutralPersonality.
	LowConfidence bool `json:"low_confidence,omitempty"`
}

// Exclusion records a candidate dropped by a filter or by the low-confidence
// policy.
type Exclusion struct {
	CandidateID string `json:"candidate_id"`
	Stage       string `json:"stage"`
	Reason      string `json:"reason"`
	Err         error  `json:"-"`
}

// CandidateError records a candidate that could not be evaluated.
type CandidateError struct {
	CandidateID string `json:"candidate_id"`
	Err         error  `json:"-"`
	Message     string `json:"error"`
}

func (e CandidateError) Error() string { return e.Message }

func (e CandidateError) Unwrap() error { return e.Err }

// Outcome is the result of a batch. Matches are sorted by descending score
// with ties broken by ascending candidate ID.
type Outcome struct {
	BatchID   string           `json:"batch_id"`
	Matches   []MatchResult    `json:"matches"`
	Excluded  []Exclusion      `json:"excluded"`
	Rejected  []CandidateError `json:"rejected"`
	Abandoned []string         `json:"abandoned,omitempty"`
	Steps     []filtering.Step `json:"steps"`
}

func newOutcome(batchID string) *Outcome {
	return &Outcome{
		BatchID:   batchID,
		Matches:   []MatchResult{},
		Excluded:  []Exclusion{},
		Rejected:  []CandidateError{},
		Abandoned: []string{},
		Steps:     []filtering.Step{},
	}
}

func newCandidateError(id string, err error) CandidateError {
	return CandidateError{CandidateID: id, Err: err, Message: err.Error()}
}
