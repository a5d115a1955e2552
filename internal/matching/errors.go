package matching

import (
	"fmt"

	"github.com/spigell/affinity/internal/scoring"
)

// InsufficientConfidenceError names the candidate whose pair had no mutual
// confidence. It matches scoring.ErrInsufficientConfidence with errors.Is.
type InsufficientConfidenceError struct {
	CandidateID string
}

func (e *InsufficientConfidenceError) Error() string {
	return fmt.Sprintf("candidate %q: %s", e.CandidateID, scoring.ErrInsufficientConfidence)
}

func (e *InsufficientConfidenceError) Unwrap() error { return scoring.ErrInsufficientConfidence }
