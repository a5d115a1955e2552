package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/affinity/internal/logger"
	"github.com/spigell/affinity/internal/profile"
)

// Filter represents a single hard-eligibility step applied to candidates.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	// Admit reports whether candidate stays eligible for seeker. The reason
	// is filled when the candidate is rejected.
	Admit(seeker, candidate *profile.UserProfile) (bool, string)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

// Rejection records why a candidate was dropped.
type Rejection struct {
	CandidateID string
	Filter      string
	Reason      string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Config carries the optional hard limits. Nil means unrestricted.
type Config struct {
	MaxDistanceKm *float64
	MaxAgeGap     *int
}

type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, log *zap.Logger) *Filtering {
	return &Filtering{
		steps:  steps,
		logger: logger.WithFields(log),
	}
}

// Default returns the standard pipeline: deal-breakers first, then the
// optional distance and age limits.
func Default(cfg Config, log *zap.Logger) *Filtering {
	return New([]Filter{
		NewDealBreakers(),
		NewMaxDistance(cfg.MaxDistanceKm),
		NewMaxAgeGap(cfg.MaxAgeGap),
	}, log)
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func (f *Filtering) DisableByName(name, reason string) error {
	found := false
	for _, step := range f.steps {
		if step.Name() == name {
			step.Disable(reason)
			found = true
		}
	}
	if !found {
		return fmt.Errorf("unknown filter %q", name)
	}
	f.logger.Info("filter disabled by request", zap.String("name", name), zap.String("reason", reason))
	return nil
}

// Validate checks every enabled step.
func (f *Filtering) Validate() error {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}
	return nil
}

// IsEligible reports whether candidate passes every enabled step.
func (f *Filtering) IsEligible(seeker, candidate *profile.UserProfile) bool {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			continue
		}
		if ok, _ := step.Admit(seeker, candidate); !ok {
			return false
		}
	}
	return true
}

// RunFilters executes the enabled steps sequentially and returns the
// surviving candidates in their original order.
func (f *Filtering) RunFilters(ctx context.Context, seeker *profile.UserProfile, candidates []*profile.UserProfile) ([]*profile.UserProfile, []Rejection, []Step, error) {
	if err := f.Validate(); err != nil {
		return nil, nil, nil, err
	}

	var (
		rejections []Rejection
		steps      []Step
	)

	for _, step := range f.steps {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, fmt.Errorf("filtering interrupted: %w", err)
		}

		if !step.IsEnabled() {
			f.logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, dropped := apply(step, seeker, candidates)
		info := Step{
			Name:    step.Name(),
			Initial: len(candidates),
			Dropped: len(dropped),
			Left:    len(next),
		}

		f.logger.Info("filter step",
			zap.String("name", info.Name),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		candidates = next
		rejections = append(rejections, dropped...)
		steps = append(steps, info)
	}

	return candidates, rejections, steps, nil
}

// Describe returns status entries for the configured filters.
func (f *Filtering) Describe() []Status {
	statuses := make([]Status, 0, len(f.steps))
	for _, step := range f.steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

func apply(step Filter, seeker *profile.UserProfile, candidates []*profile.UserProfile) ([]*profile.UserProfile, []Rejection) {
	kept := make([]*profile.UserProfile, 0, len(candidates))
	var dropped []Rejection

	for _, candidate := range candidates {
		ok, reason := step.Admit(seeker, candidate)
		if ok {
			kept = append(kept, candidate)
			continue
		}
		dropped = append(dropped, Rejection{
			CandidateID: candidate.ID,
			Filter:      step.Name(),
			Reason:      reason,
		})
	}

	return kept, dropped
}

// toggle carries the enable/disable state shared by the optional filters.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }
