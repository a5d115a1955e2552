// Package profile holds the immutable inputs of the matching engine: the
// personality frameworks, per-framework confidence and the matchable
// attributes of a user.
package profile

import (
	"strings"

	"github.com/spigell/affinity/internal/geo"
)

// Framework names a personality framework that carries a confidence score.
type Framework string

const (
	FrameworkMBTI    Framework = "mbti"
	FrameworkBigFive Framework = "bigFive"
	FrameworkValues  Framework = "values"
)

// Frameworks lists the scored frameworks in aggregation order.
var Frameworks = []Framework{FrameworkMBTI, FrameworkBigFive, FrameworkValues}

// PersonalityProfile is a snapshot of the four personality sub-vectors.
type PersonalityProfile struct {
	MBTI           MBTI           `json:"mbti" mapstructure:"mbti"`
	BigFive        BigFive        `json:"big_five" mapstructure:"big_five"`
	Values         Values         `json:"values" mapstructure:"values"`
	EmotionalNeeds EmotionalNeeds `json:"emotional_needs" mapstructure:"emotional_needs"`
}

type MBTI struct {
	Type   string     `json:"type" mapstructure:"type" validate:"mbti"`
	Scores MBTIScores `json:"scores" mapstructure:"scores"`
}

// MBTIScores are the continuous axis positions. A value of 1 leans fully to
// the first letter of the axis (E, N, T, J).
type MBTIScores struct {
	Extraversion float64 `json:"extraversion" mapstructure:"extraversion" validate:"gte=0,lte=1"`
	Intuition    float64 `json:"intuition" mapstructure:"intuition" validate:"gte=0,lte=1"`
	Thinking     float64 `json:"thinking" mapstructure:"thinking" validate:"gte=0,lte=1"`
	Judging      float64 `json:"judging" mapstructure:"judging" validate:"gte=0,lte=1"`
}

func (m MBTI) Vector() []float64 {
	return []float64{m.Scores.Extraversion, m.Scores.Intuition, m.Scores.Thinking, m.Scores.Judging}
}

// Letter returns the upper-cased type letter for the given axis (0..3), or 0
// when the type is malformed.
func (m MBTI) Letter(axis int) byte {
	t := strings.ToUpper(strings.TrimSpace(m.Type))
	if len(t) != 4 || axis < 0 || axis > 3 {
		return 0
	}
	return t[axis]
}

func (m MBTI) IsExtravert() bool { return m.Letter(0) == 'E' }

func (m MBTI) IsIntrovert() bool { return m.Letter(0) == 'I' }

type BigFive struct {
	Openness          float64 `json:"openness" mapstructure:"openness" validate:"gte=0,lte=1"`
	Conscientiousness float64 `json:"conscientiousness" mapstructure:"conscientiousness" validate:"gte=0,lte=1"`
	Extraversion      float64 `json:"extraversion" mapstructure:"extraversion" validate:"gte=0,lte=1"`
	Agreeableness     float64 `json:"agreeableness" mapstructure:"agreeableness" validate:"gte=0,lte=1"`
	Neuroticism       float64 `json:"neuroticism" mapstructure:"neuroticism" validate:"gte=0,lte=1"`
}

func (b BigFive) Vector() []float64 {
	return []float64{b.Openness, b.Conscientiousness, b.Extraversion, b.Agreeableness, b.Neuroticism}
}

type Values struct {
	Tradition     float64 `json:"tradition" mapstructure:"tradition" validate:"gte=0,lte=1"`
	Security      float64 `json:"security" mapstructure:"security" validate:"gte=0,lte=1"`
	Power         float64 `json:"power" mapstructure:"power" validate:"gte=0,lte=1"`
	Achievement   float64 `json:"achievement" mapstructure:"achievement" validate:"gte=0,lte=1"`
	Hedonism      float64 `json:"hedonism" mapstructure:"hedonism" validate:"gte=0,lte=1"`
	Stimulation   float64 `json:"stimulation" mapstructure:"stimulation" validate:"gte=0,lte=1"`
	SelfDirection float64 `json:"self_direction" mapstructure:"self_direction" validate:"gte=0,lte=1"`
	Universalism  float64 `json:"universalism" mapstructure:"universalism" validate:"gte=0,lte=1"`
	Benevolence   float64 `json:"benevolence" mapstructure:"benevolence" validate:"gte=0,lte=1"`
}

// ValueDimensions names the entries of Values.Vector in order.
var ValueDimensions = []string{
	"tradition", "security", "power", "achievement", "hedonism",
	"stimulation", "self-direction", "universalism", "benevolence",
}

func (v Values) Vector() []float64 {
	return []float64{
		v.Tradition, v.Security, v.Power, v.Achievement, v.Hedonism,
		v.Stimulation, v.SelfDirection, v.Universalism, v.Benevolence,
	}
}

type EmotionalNeeds struct {
	Affection    float64 `json:"affection" mapstructure:"affection" validate:"gte=0,lte=1"`
	Independence float64 `json:"independence" mapstructure:"independence" validate:"gte=0,lte=1"`
	Stability    float64 `json:"stability" mapstructure:"stability" validate:"gte=0,lte=1"`
	Growth       float64 `json:"growth" mapstructure:"growth" validate:"gte=0,lte=1"`
	Recognition  float64 `json:"recognition" mapstructure:"recognition" validate:"gte=0,lte=1"`
}

func (e EmotionalNeeds) Vector() []float64 {
	return []float64{e.Affection, e.Independence, e.Stability, e.Growth, e.Recognition}
}

// ConfidenceScores reflect how much evidence backs each framework.
type ConfidenceScores struct {
	MBTI    float64 `json:"mbti" mapstructure:"mbti" validate:"gte=0,lte=1"`
	BigFive float64 `json:"big_five" mapstructure:"big_five" validate:"gte=0,lte=1"`
	Values  float64 `json:"values" mapstructure:"values" validate:"gte=0,lte=1"`
}

// For returns the confidence of the given framework, 0 for unknown names.
func (c ConfidenceScores) For(f Framework) float64 {
	switch f {
	case FrameworkMBTI:
		return c.MBTI
	case FrameworkBigFive:
		return c.BigFive
	case FrameworkValues:
		return c.Values
	default:
		return 0
	}
}

type Location struct {
	City      string  `json:"city,omitempty" mapstructure:"city"`
	Country   string  `json:"country,omitempty" mapstructure:"country"`
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
}

func (l Location) Coordinates() geo.Coordinates {
	return geo.Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}

// SocialMediaSummary is derived by the inference collaborator from public posts.
type SocialMediaSummary struct {
	Sentiment       float64  `json:"sentiment" mapstructure:"sentiment" validate:"gte=-1,lte=1"`
	Topics          []string `json:"topics,omitempty" mapstructure:"topics"`
	ActivityPattern string   `json:"activity_pattern,omitempty" mapstructure:"activity_pattern"`
}

// VoiceSummary is derived by the inference collaborator from a voice sample.
type VoiceSummary struct {
	Pitch            float64  `json:"pitch" mapstructure:"pitch" validate:"gte=0,lte=1"`
	Tempo            float64  `json:"tempo" mapstructure:"tempo" validate:"gte=0,lte=1"`
	EmotionalMarkers []string `json:"emotional_markers,omitempty" mapstructure:"emotional_markers"`
}

// UserProfile is a matchable user. The engine never mutates it.
type UserProfile struct {
	ID           string              `json:"id" mapstructure:"id" validate:"required"`
	Age          int                 `json:"age" mapstructure:"age" validate:"gt=0"`
	Location     Location            `json:"location" mapstructure:"location"`
	DealBreakers []string            `json:"deal_breakers,omitempty" mapstructure:"deal_breakers"`
	Interests    []string            `json:"interests,omitempty" mapstructure:"interests"`
	SocialMedia  *SocialMediaSummary `json:"social_media,omitempty" mapstructure:"social_media"`
	Voice        *VoiceSummary       `json:"voice,omitempty" mapstructure:"voice"`
	Confidence   ConfidenceScores    `json:"confidence" mapstructure:"confidence"`

	PersonalityProfile `mapstructure:",squash"`
}

// Coordinates returns the user's location as a geo primitive.
func (u *UserProfile) Coordinates() geo.Coordinates {
	return u.Location.Coordinates()
}

// NormalizeTag canonicalizes deal-breaker, interest and topic tags for comparison.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// TagSet builds a set of normalized, non-empty tags.
func TagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if n := NormalizeTag(tag); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// SharedTags returns the tags of a (in a's order, a's spelling) that also
// appear in b. Duplicates in a are reported once.
func SharedTags(a, b []string) []string {
	other := TagSet(b)
	seen := make(map[string]struct{}, len(a))
	shared := make([]string, 0)
	for _, tag := range a {
		n := NormalizeTag(tag)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if _, ok := other[n]; ok {
			shared = append(shared, strings.TrimSpace(tag))
		}
	}
	return shared
}
