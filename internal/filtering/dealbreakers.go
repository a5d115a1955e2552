package filtering

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/affinity/internal/profile"
)

type dealBreakersFilter struct {
	toggle
}

// NewDealBreakers creates a filter that drops candidates sharing any
// deal-breaker tag with the seeker. The check is symmetric.
func NewDealBreakers() Filter {
	return &dealBreakersFilter{}
}

func (f *dealBreakersFilter) Name() string { return "deal_breakers" }

func (f *dealBreakersFilter) Validate() error { return nil }

func (f *dealBreakersFilter) Admit(seeker, candidate *profile.UserProfile) (bool, string) {
	conflicts := ConflictingDealBreakers(seeker, candidate)
	if len(conflicts) == 0 {
		return true, ""
	}
	return false, fmt.Sprintf("conflicting deal-breakers: %s", strings.Join(conflicts, ","))
}

func (f *dealBreakersFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

// ConflictingDealBreakers returns the sorted normalized tags present in both
// users' deal-breaker sets.
func ConflictingDealBreakers(a, b *profile.UserProfile) []string {
	if len(a.DealBreakers) == 0 || len(b.DealBreakers) == 0 {
		return nil
	}

	other := profile.TagSet(b.DealBreakers)
	var conflicts []string
	for tag := range profile.TagSet(a.DealBreakers) {
		if _, ok := other[tag]; ok {
			conflicts = append(conflicts, tag)
		}
	}
	sort.Strings(conflicts)
	return conflicts
}
