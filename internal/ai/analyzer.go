// Package ai defines the personality inference collaborator that turns raw
// user signals into a personality snapshot with per-framework confidence.
package ai

import (
	"context"
	"errors"
	"time"

	"github.com/spigell/affinity/internal/profile"
)

// ErrNoSignals is returned when there is nothing to analyze.
var ErrNoSignals = errors.New("no responses or social media posts to analyze")

// Post is a single public social media post.
type Post struct {
	Text      string    `json:"text" mapstructure:"text"`
	Timestamp time.Time `json:"timestamp,omitempty" mapstructure:"timestamp"`
}

// VoiceFeatures are pre-extracted acoustic features of a voice sample,
// normalized to [0,1].
type VoiceFeatures struct {
	Pitch            float64  `json:"pitch" mapstructure:"pitch"`
	Tempo            float64  `json:"tempo" mapstructure:"tempo"`
	EmotionalMarkers []string `json:"emotional_markers,omitempty" mapstructure:"emotional_markers"`
}

// Signals are the raw inputs of one user.
type Signals struct {
	UserID      string         `json:"user_id" mapstructure:"user_id"`
	Responses   []string       `json:"responses" mapstructure:"responses"`
	SocialMedia []Post         `json:"social_media,omitempty" mapstructure:"social_media"`
	Voice       *VoiceFeatures `json:"voice,omitempty" mapstructure:"voice"`
}

// Empty reports whether there is no non-blank response or post to analyze.
func (s *Signals) Empty() bool {
	return s == nil || (len(nonBlank(s.Responses)) == 0 && len(postTexts(s.SocialMedia)) == 0)
}

// Analysis is the inferred part of a user profile.
type Analysis struct {
	Personality profile.PersonalityProfile  `json:"personality"`
	Confidence  profile.ConfidenceScores    `json:"confidence"`
	SocialMedia *profile.SocialMediaSummary `json:"social_media,omitempty"`
	Voice       *profile.VoiceSummary       `json:"voice,omitempty"`
}

// Apply copies the analysis into u. It is meant for building a profile
// before it is handed to the matching engine.
func (a *Analysis) Apply(u *profile.UserProfile) {
	u.PersonalityProfile = a.Personality
	u.Confidence = a.Confidence
	if a.SocialMedia != nil {
		sm := *a.SocialMedia
		u.SocialMedia = &sm
	}
	if a.Voice != nil {
		v := *a.Voice
		u.Voice = &v
	}
}

// Analyzer infers personality from signals. Implementations must be safe for
// concurrent use.
type Analyzer interface {
	Analyze(ctx context.Context, signals *Signals) (*Analysis, error)
}
