package filtering

import (
	"fmt"
	"strconv"

	"github.com/spigell/affinity/internal/profile"
)

type maxAgeGapFilter struct {
	toggle
	maxGap int
}

// NewMaxAgeGap creates a filter that drops candidates whose age differs from
// the seeker's by more than maxGap years. A nil limit leaves it disabled.
func NewMaxAgeGap(maxGap *int) Filter {
	f := &maxAgeGapFilter{}
	if maxGap == nil {
		f.Disable(unrestricted)
		return f
	}
	f.maxGap = *maxGap
	return f
}

func (f *maxAgeGapFilter) Name() string { return "max_age_gap" }

func (f *maxAgeGapFilter) Validate() error {
	if f.maxGap < 0 {
		return fmt.Errorf("max age gap must not be negative, got %d", f.maxGap)
	}
	return nil
}

func (f *maxAgeGapFilter) Admit(seeker, candidate *profile.UserProfile) (bool, string) {
	gap := AgeGap(seeker, candidate)
	if gap <= f.maxGap {
		return true, ""
	}
	return false, fmt.Sprintf("age gap %d exceeds %d", gap, f.maxGap)
}

func (f *maxAgeGapFilter) Status() Status {
	details := map[string]string{}
	if f.IsEnabled() {
		details["max_age_gap"] = strconv.Itoa(f.maxGap)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

// AgeGap is the absolute age difference in years.
func AgeGap(a, b *profile.UserProfile) int {
	gap := a.Age - b.Age
	if gap < 0 {
		return -gap
	}
	return gap
}
