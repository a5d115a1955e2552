package filtering

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spigell/affinity/internal/geo"
	"github.com/spigell/affinity/internal/profile"
)

const unrestricted = "unrestricted"

type maxDistanceFilter struct {
	toggle
	maxKm float64
}

// NewMaxDistance creates a filter that drops candidates farther than maxKm.
// A nil limit leaves the filter disabled.
func NewMaxDistance(maxKm *float64) Filter {
	f := &maxDistanceFilter{}
	if maxKm == nil {
		f.Disable(unrestricted)
		return f
	}
	f.maxKm = *maxKm
	return f
}

func (f *maxDistanceFilter) Name() string { return "max_distance" }

func (f *maxDistanceFilter) Validate() error {
	if f.maxKm < 0 || math.IsNaN(f.maxKm) {
		return fmt.Errorf("max distance must be a non-negative number, got %v", f.maxKm)
	}
	return nil
}

func (f *maxDistanceFilter) Admit(seeker, candidate *profile.UserProfile) (bool, string) {
	d := geo.Distance(seeker.Coordinates(), candidate.Coordinates())
	if d <= f.maxKm {
		return true, ""
	}
	return false, fmt.Sprintf("distance %.1f km exceeds %.1f km", d, f.maxKm)
}

func (f *maxDistanceFilter) Status() Status {
	details := map[string]string{}
	if f.IsEnabled() {
		details["max_distance_km"] = strconv.FormatFloat(f.maxKm, 'f', -1, 64)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
