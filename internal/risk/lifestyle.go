package risk

import (
	"math"
	"strings"

	"github.com/spigell/affinity/internal/profile"
)

const (
	AreaScheduleConflict  = "schedule_conflict"
	AreaNoSharedInterests = "no_shared_interests"
	AreaSocialEnergyGap   = "social_energy_gap"
	AreaIndependenceGap   = "independence_gap"
	AreaStabilityGap      = "stability_gap"

	// gapThreshold is the trait difference treated as a lifestyle mismatch.
	gapThreshold = 0.5
)

// check is a single lifestyle conflict detector.
type check interface {
	Tag() string
	Conflict(a, b *profile.UserProfile) (bool, error)
}

type funcCheck struct {
	tag string
	fn  func(a, b *profile.UserProfile) bool
}

func (c funcCheck) Tag() string { return c.tag }

func (c funcCheck) Conflict(a, b *profile.UserProfile) (bool, error) {
	return c.fn(a, b), nil
}

func builtinChecks() []check {
	return []check{
		funcCheck{tag: AreaScheduleConflict, fn: scheduleConflict},
		funcCheck{tag: AreaNoSharedInterests, fn: noSharedInterests},
		funcCheck{tag: AreaSocialEnergyGap, fn: func(a, b *profile.UserProfile) bool {
			return math.Abs(a.BigFive.Extraversion-b.BigFive.Extraversion) > gapThreshold
		}},
		funcCheck{tag: AreaIndependenceGap, fn: func(a, b *profile.UserProfile) bool {
			return math.Abs(a.EmotionalNeeds.Independence-b.EmotionalNeeds.Independence) > gapThreshold
		}},
		funcCheck{tag: AreaStabilityGap, fn: func(a, b *profile.UserProfile) bool {
			return math.Abs(a.EmotionalNeeds.Stability-b.EmotionalNeeds.Stability) > gapThreshold
		}},
	}
}

// scheduleConflict compares the time-of-day buckets of the social media
// activity patterns. Unknown patterns never conflict.
func scheduleConflict(a, b *profile.UserProfile) bool {
	if a.SocialMedia == nil || b.SocialMedia == nil {
		return false
	}
	ba := TimeBucket(a.SocialMedia.ActivityPattern)
	bb := TimeBucket(b.SocialMedia.ActivityPattern)
	return ba != "" && bb != "" && ba != bb
}

func noSharedInterests(a, b *profile.UserProfile) bool {
	if len(profile.TagSet(a.Interests)) == 0 || len(profile.TagSet(b.Interests)) == 0 {
		return false
	}
	return len(profile.SharedTags(a.Interests, b.Interests)) == 0
}

var bucketWords = map[string]string{
	"morning":   "morning",
	"early":     "morning",
	"daytime":   "daytime",
	"afternoon": "daytime",
	"midday":    "daytime",
	"evening":   "evening",
	"night":     "night",
	"late":      "night",
	"nocturnal": "night",
}

// TimeBucket extracts a time-of-day bucket from an activity pattern such as
// "regular-evening". It returns "" when no known word is present.
func TimeBucket(pattern string) string {
	words := strings.FieldsFunc(strings.ToLower(pattern), func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '/'
	})
	for _, w := range words {
		if bucket, ok := bucketWords[w]; ok {
			return bucket
		}
	}
	return ""
}
