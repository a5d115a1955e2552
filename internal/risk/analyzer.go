// Package risk derives relationship friction areas from value and lifestyle
// differences between two users.
package risk

import (
	"fmt"
	"math"

	"github.com/spigell/affinity/internal/profile"
	"github.com/spigell/affinity/internal/scoring"
)

const (
	AreaValueConflict = "value_conflict"

	StrategyValueConflict = "Focus on shared experiences rather than philosophical discussions initially"
	StrategyLifestyle     = "Discuss expectations and boundaries early"
)

const (
	// DefaultSignificanceThreshold is close to the 75th percentile of the RMS
	// difference between two independent uniform value vectors.
	DefaultSignificanceThreshold = 0.45
	DefaultLifestyleIncrement    = 0.1
)

// Analysis is the friction report of a pair. Level is an unbounded sum and is
// meant to be compared between pairs, not read as a probability.
type Analysis struct {
	Areas                []string `json:"risk_areas"`
	Level                float64  `json:"risk_level"`
	MitigationStrategies []string `json:"mitigation_strategies"`
}

// Config tunes the analyzer. Values are taken as given: a zero threshold
// flags any divergence and a zero increment makes lifestyle conflicts free.
type Config struct {
	SignificanceThreshold float64
	LifestyleIncrement    float64
	Rules                 []RuleSpec
}

// DefaultConfig returns the reference thresholds without custom rules.
func DefaultConfig() Config {
	return Config{
		SignificanceThreshold: DefaultSignificanceThreshold,
		LifestyleIncrement:    DefaultLifestyleIncrement,
	}
}

type Analyzer struct {
	threshold float64
	increment float64
	checks    []check
}

// New builds an analyzer with the built-in lifestyle heuristics followed by
// the custom rules of cfg.
func New(cfg Config) (*Analyzer, error) {
	threshold := cfg.SignificanceThreshold
	increment := cfg.LifestyleIncrement

	if threshold < 0 || math.IsNaN(threshold) {
		return nil, fmt.Errorf("risk significance threshold must be non-negative, got %v", threshold)
	}
	if increment < 0 || math.IsNaN(increment) {
		return nil, fmt.Errorf("lifestyle increment must be non-negative, got %v", increment)
	}

	checks := builtinChecks()
	if len(cfg.Rules) > 0 {
		rules, err := CompileRules(cfg.Rules)
		if err != nil {
			return nil, err
		}
		for _, r := range rules {
			checks = append(checks, r)
		}
	}

	return &Analyzer{threshold: threshold, increment: increment, checks: checks}, nil
}

// ValueDivergence is the RMS difference between two value vectors, in [0,1].
func ValueDivergence(a, b profile.Values) float64 {
	d, _ := scoring.NormalizedDistance(a.Vector(), b.Vector())
	return d
}

// Analyze reports the friction areas between a and b. It only fails when a
// custom rule cannot be evaluated.
func (an *Analyzer) Analyze(a, b *profile.UserProfile) (Analysis, error) {
	result := Analysis{
		Areas:                []string{},
		MitigationStrategies: []string{},
	}

	if divergence := ValueDivergence(a.Values, b.Values); divergence > an.threshold {
		result.Areas = append(result.Areas, AreaValueConflict)
		result.MitigationStrategies = append(result.MitigationStrategies, StrategyValueConflict)
		result.Level += divergence
	}

	conflicts, err := an.lifestyleConflicts(a, b)
	if err != nil {
		return Analysis{}, err
	}
	if len(conflicts) > 0 {
		result.Areas = append(result.Areas, conflicts...)
		result.MitigationStrategies = append(result.MitigationStrategies, StrategyLifestyle)
		result.Level += float64(len(conflicts)) * an.increment
	}

	return result, nil
}

func (an *Analyzer) lifestyleConflicts(a, b *profile.UserProfile) ([]string, error) {
	var conflicts []string
	seen := make(map[string]struct{}, len(an.checks))

	for _, c := range an.checks {
		if _, dup := seen[c.Tag()]; dup {
			continue
		}
		hit, err := c.Conflict(a, b)
		if err != nil {
			return nil, fmt.Errorf("lifestyle rule %q: %w", c.Tag(), err)
		}
		if hit {
			conflicts = append(conflicts, c.Tag())
			seen[c.Tag()] = struct{}{}
		}
	}

	return conflicts, nil
}
