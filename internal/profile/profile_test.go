package profile_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/spigell/affinity/internal/profile"
	"github.com/spigell/affinity/internal/profile/profiletest"
)

func TestValidMBTIType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect bool
	}{
		{"INFJ", true},
		{"estp", true},
		{"ENTP", true},
		{"NIFJ", false},
		{"INF", false},
		{"INFJX", false},
		{"IXFJ", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := profile.ValidMBTIType(tt.input); got != tt.expect {
			t.Fatalf("ValidMBTIType(%q) = %v, expected %v", tt.input, got, tt.expect)
		}
	}
}

func TestValidateAcceptsValidProfile(t *testing.T) {
	t.Parallel()

	if err := profile.Validate(profiletest.User("u1", 30)); err != nil {
		t.Fatalf("expected valid profile, got %v", err)
	}
}

func TestValidateReportsViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(u *profile.UserProfile)
		field  string
	}{
		{
			name:   "openness above range",
			mutate: func(u *profile.UserProfile) { u.BigFive.Openness = 1.2 },
			field:  "big_five.openness",
		},
		{
			name:   "negative value dimension",
			mutate: func(u *profile.UserProfile) { u.Values.Power = -0.1 },
			field:  "values.power",
		},
		{
			name:   "bad mbti code",
			mutate: func(u *profile.UserProfile) { u.MBTI.Type = "XXXX" },
			field:  "mbti.type",
		},
		{
			name:   "confidence out of range",
			mutate: func(u *profile.UserProfile) { u.Confidence.Values = 2 },
			field:  "confidence.values",
		},
		{
			name:   "zero age",
			mutate: func(u *profile.UserProfile) { u.Age = 0 },
			field:  "age",
		},
		{
			name:   "missing id",
			mutate: func(u *profile.UserProfile) { u.ID = "" },
			field:  "id",
		},
		{
			name:   "nan emotional need",
			mutate: func(u *profile.UserProfile) { u.EmotionalNeeds.Growth = math.NaN() },
			field:  "emotional_needs.growth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := profiletest.User("u1", 30)
			tt.mutate(u)

			err := profile.Validate(u)
			var invalid *profile.InvalidProfileError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidProfileError, got %v", err)
			}

			found := false
			for _, v := range invalid.Violations {
				if strings.EqualFold(v.Field, tt.field) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected violation on %s, got %+v", tt.field, invalid.Violations)
			}
		})
	}
}

func TestValidateLocation(t *testing.T) {
	t.Parallel()

	u := profiletest.New("u1", 30, profiletest.WithLocation(95, 10))
	err := profile.ValidateLocation(u)

	var malformed *profile.MalformedCoordinateError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedCoordinateError, got %v", err)
	}
	if malformed.UserID != "u1" {
		t.Fatalf("expected user id u1, got %q", malformed.UserID)
	}

	if err := profile.ValidateLocation(profiletest.User("u2", 30)); err != nil {
		t.Fatalf("expected valid location, got %v", err)
	}
}

func TestSharedTags(t *testing.T) {
	t.Parallel()

	shared := profile.SharedTags(
		[]string{" Photography", "hiking", "photography", "chess"},
		[]string{"CHESS", "photography "},
	)

	if len(shared) != 2 || shared[0] != "Photography" || shared[1] != "chess" {
		t.Fatalf("unexpected shared tags: %q", shared)
	}

	if got := profile.SharedTags(nil, []string{"a"}); len(got) != 0 {
		t.Fatalf("expected no shared tags, got %q", got)
	}
}

func TestConfidenceFor(t *testing.T) {
	t.Parallel()

	c := profile.ConfidenceScores{MBTI: 0.1, BigFive: 0.2, Values: 0.3}
	if c.For(profile.FrameworkMBTI) != 0.1 || c.For(profile.FrameworkBigFive) != 0.2 || c.For(profile.FrameworkValues) != 0.3 {
		t.Fatalf("unexpected framework lookup for %+v", c)
	}
	if c.For("unknown") != 0 {
		t.Fatalf("expected 0 for unknown framework")
	}
}
