package filtering

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/affinity/internal/profile"
	"github.com/spigell/affinity/internal/profile/profiletest"
)

func ptr[T any](v T) *T { return &v }

func TestDealBreakersAreSymmetric(t *testing.T) {
	t.Parallel()

	seeker := profiletest.New("seeker", 30, profiletest.WithDealBreakers("smoking"))
	candidate := profiletest.New("c1", 32, profiletest.WithDealBreakers(" Smoking", "pets"))

	f := NewDealBreakers()
	if ok, reason := f.Admit(seeker, candidate); ok || !strings.Contains(reason, "smoking") {
		t.Fatalf("expected rejection mentioning smoking, got ok=%v reason=%q", ok, reason)
	}
	if ok, _ := f.Admit(candidate, seeker); ok {
		t.Fatalf("expected rejection in the reverse direction")
	}

	other := profiletest.New("c2", 32, profiletest.WithDealBreakers("pets"))
	if ok, _ := f.Admit(seeker, other); !ok {
		t.Fatalf("expected candidate without overlap to be admitted")
	}
}

func TestConflictingDealBreakersSorted(t *testing.T) {
	t.Parallel()

	a := profiletest.New("a", 30, profiletest.WithDealBreakers("smoking", "pets", "kids"))
	b := profiletest.New("b", 30, profiletest.WithDealBreakers("PETS", "smoking"))

	got := ConflictingDealBreakers(a, b)
	if len(got) != 2 || got[0] != "pets" || got[1] != "smoking" {
		t.Fatalf("unexpected conflicts: %q", got)
	}
}

func TestOptionalFiltersDisabledWhenUnrestricted(t *testing.T) {
	t.Parallel()

	filters := Default(Config{}, nil)
	for _, status := range filters.Describe() {
		switch status.Name {
		case "deal_breakers":
			if !status.Enabled {
				t.Fatalf("deal breakers must always be enabled")
			}
		default:
			if status.Enabled || status.Reason != unrestricted {
				t.Fatalf("expected %s to be disabled as unrestricted, got %+v", status.Name, status)
			}
		}
	}

	seeker := profiletest.User("seeker", 20)
	far := profiletest.New("far", 70, profiletest.WithLocation(-33.9, 151.2))
	if !filters.IsEligible(seeker, far) {
		t.Fatalf("expected distant and older candidate to stay eligible without limits")
	}
}

func TestMaxDistanceAndAgeGap(t *testing.T) {
	t.Parallel()

	filters := Default(Config{MaxDistanceKm: ptr(50.0), MaxAgeGap: ptr(5)}, nil)
	seeker := profiletest.User("seeker", 30)

	tests := []struct {
		name      string
		candidate *profile.UserProfile
		eligible  bool
	}{
		{"same place, close age", profiletest.User("ok", 34), true},
		{"too old", profiletest.User("old", 36), false},
		{"too far", profiletest.New("far", 30, profiletest.WithLocation(31.2, 121.5)), false},
		{"boundary age gap", profiletest.User("edge", 25), true},
	}

	for _, tt := range tests {
		if got := filters.IsEligible(seeker, tt.candidate); got != tt.eligible {
			t.Fatalf("%s: expected eligible=%v, got %v", tt.name, tt.eligible, got)
		}
	}
}

func TestRunFiltersReportsSteps(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	filters := Default(Config{MaxAgeGap: ptr(10)}, zap.New(core))

	seeker := profiletest.New("seeker", 30, profiletest.WithDealBreakers("smoking"))
	candidates := []*profile.UserProfile{
		profiletest.User("a", 31),
		profiletest.New("b", 29, profiletest.WithDealBreakers("smoking")),
		profiletest.User("c", 55),
		profiletest.User("d", 35),
	}

	kept, rejected, steps, err := filters.RunFilters(context.Background(), seeker, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 2 || kept[0].ID != "a" || kept[1].ID != "d" {
		t.Fatalf("unexpected survivors: %+v", kept)
	}

	if len(rejected) != 2 || rejected[0].CandidateID != "b" || rejected[0].Filter != "deal_breakers" || rejected[1].CandidateID != "c" {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}

	if len(steps) != 2 {
		t.Fatalf("expected 2 enabled steps, got %d", len(steps))
	}
	if steps[0].Initial != 4 || steps[0].Dropped != 1 || steps[0].Left != 3 {
		t.Fatalf("unexpected first step: %+v", steps[0])
	}

	if got := observed.FilterMessage("filter step").Len(); got != 2 {
		t.Fatalf("expected 2 filter step log entries, got %d", got)
	}
}

func TestRunFiltersValidatesLimits(t *testing.T) {
	t.Parallel()

	filters := Default(Config{MaxAgeGap: ptr(-1)}, nil)
	_, _, _, err := filters.RunFilters(context.Background(), profiletest.User("s", 30), nil)
	if err == nil || !strings.Contains(err.Error(), "max_age_gap") {
		t.Fatalf("expected validation error for negative age gap, got %v", err)
	}
}

func TestRunFiltersHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := Default(Config{}, nil).RunFilters(ctx, profiletest.User("s", 30), []*profile.UserProfile{profiletest.User("a", 30)})
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestDisableByName(t *testing.T) {
	t.Parallel()

	filters := Default(Config{}, nil)
	if err := filters.DisableByName("deal_breakers", "testing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := filters.DisableByName("max_height", "testing"); err == nil {
		t.Fatalf("expected error for an unknown filter")
	}

	seeker := profiletest.New("s", 30, profiletest.WithDealBreakers("smoking"))
	candidate := profiletest.New("c", 30, profiletest.WithDealBreakers("smoking"))
	if !filters.IsEligible(seeker, candidate) {
		t.Fatalf("expected disabled deal breaker filter to admit candidate")
	}
}
