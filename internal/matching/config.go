package matching

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spigell/affinity/internal/connections"
	"github.com/spigell/affinity/internal/risk"
	"github.com/spigell/affinity/internal/scoring"
)

// LowConfidencePolicy decides what happens to a candidate whose personality
// score cannot be computed because no framework has mutual confidence.
type LowConfidencePolicy string

const (
	// PolicyExclude drops the candidate and records the exclusion.
	PolicyExclude LowConfidencePolicy = "exclude"
	// PolicyNeutral substitutes NeutralPersonality and flags the result.
	PolicyNeutral LowConfidencePolicy = "neutral"

	NeutralPersonality = 0.5

	weightTolerance = 1e-9
)

// Config is the engine policy. Nil limits mean unrestricted.
type Config struct {
	MaxDistanceKm             *float64            `mapstructure:"max-distance-km"`
	MaxAgeGap                 *int                `mapstructure:"max-age-gap"`
	RiskSignificanceThreshold float64             `mapstructure:"risk-significance-threshold"`
	LowConfidencePolicy       LowConfidencePolicy `mapstructure:"low-confidence-policy"`

	BaseWeight         float64             `mapstructure:"base-weight"`
	PersonalityWeight  float64             `mapstructure:"personality-weight"`
	LifestyleIncrement float64             `mapstructure:"lifestyle-increment"`
	Decay              scoring.DecayPolicy `mapstructure:"decay"`
	RarityThreshold    float64             `mapstructure:"rarity-threshold"`
	RiskRules          []risk.RuleSpec     `mapstructure:"risk-rules"`
	// SkipFilters names filters to disable for this engine, e.g. deal_breakers.
	SkipFilters []string `mapstructure:"skip-filters"`

	// Workers bounds concurrent candidate evaluation. Zero means GOMAXPROCS.
	Workers int `mapstructure:"workers"`
	// Timeout bounds a whole batch. Zero disables it.
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the reference policy.
func DefaultConfig() Config {
	return Config{
		RiskSignificanceThreshold: risk.DefaultSignificanceThreshold,
		LowConfidencePolicy:       PolicyNeutral,
		BaseWeight:                0.3,
		PersonalityWeight:         0.7,
		LifestyleIncrement:        risk.DefaultLifestyleIncrement,
		Decay:                     scoring.DefaultDecayPolicy(),
		RarityThreshold:           connections.DefaultRarityThreshold,
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	switch c.LowConfidencePolicy {
	case PolicyExclude, PolicyNeutral:
	case "":
		errs = append(errs, errors.New("low-confidence-policy is required"))
	default:
		errs = append(errs, fmt.Errorf("unknown low-confidence-policy %q", c.LowConfidencePolicy))
	}

	if c.BaseWeight < 0 || c.PersonalityWeight < 0 {
		errs = append(errs, fmt.Errorf("weights must be non-negative, got base=%v personality=%v", c.BaseWeight, c.PersonalityWeight))
	} else if math.Abs(c.BaseWeight+c.PersonalityWeight-1) > weightTolerance {
		errs = append(errs, fmt.Errorf("base-weight and personality-weight must sum to 1, got %v", c.BaseWeight+c.PersonalityWeight))
	}

	if c.MaxDistanceKm != nil && (*c.MaxDistanceKm < 0 || math.IsNaN(*c.MaxDistanceKm)) {
		errs = append(errs, fmt.Errorf("max-distance-km must be non-negative, got %v", *c.MaxDistanceKm))
	}
	if c.MaxAgeGap != nil && *c.MaxAgeGap < 0 {
		errs = append(errs, fmt.Errorf("max-age-gap must be non-negative, got %d", *c.MaxAgeGap))
	}
	if c.RiskSignificanceThreshold < 0 {
		errs = append(errs, fmt.Errorf("risk-significance-threshold must be non-negative, got %v", c.RiskSignificanceThreshold))
	}
	if c.LifestyleIncrement < 0 {
		errs = append(errs, fmt.Errorf("lifestyle-increment must be non-negative, got %v", c.LifestyleIncrement))
	}
	if c.RarityThreshold < 0 || c.RarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("rarity-threshold must be in [0,1], got %v", c.RarityThreshold))
	}
	if err := c.Decay.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("decay: %w", err))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative, got %d", c.Workers))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must be non-negative, got %s", c.Timeout))
	}

	return errors.Join(errs...)
}
