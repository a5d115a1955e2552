// Package profiletest builds valid profiles for tests across the module.
package profiletest

import "github.com/spigell/affinity/internal/profile"

// Personality returns a balanced INFJ-like personality snapshot.
func Personality() profile.PersonalityProfile {
	return profile.PersonalityProfile{
		MBTI: profile.MBTI{
			Type: "INFJ",
			Scores: profile.MBTIScores{
				Extraversion: 0.4,
				Intuition:    0.8,
				Thinking:     0.3,
				Judging:      0.7,
			},
		},
		BigFive: profile.BigFive{
			Openness:          0.8,
			Conscientiousness: 0.7,
			Extraversion:      0.4,
			Agreeableness:     0.9,
			Neuroticism:       0.3,
		},
		Values: profile.Values{
			Tradition:     0.5,
			Security:      0.7,
			Power:         0.3,
			Achievement:   0.8,
			Hedonism:      0.4,
			Stimulation:   0.6,
			SelfDirection: 0.9,
			Universalism:  0.8,
			Benevolence:   0.7,
		},
		EmotionalNeeds: profile.EmotionalNeeds{
			Affection:    0.8,
			Independence: 0.7,
			Stability:    0.6,
			Growth:       0.9,
			Recognition:  0.5,
		},
	}
}

// FullConfidence has confidence 1 for every framework.
func FullConfidence() profile.ConfidenceScores {
	return profile.ConfidenceScores{MBTI: 1, BigFive: 1, Values: 1}
}

// User returns a valid user located in Beijing with the default personality.
func User(id string, age int) *profile.UserProfile {
	return &profile.UserProfile{
		ID:  id,
		Age: age,
		Location: profile.Location{
			City:      "Beijing",
			Country:   "CN",
			Latitude:  39.9,
			Longitude: 116.4,
		},
		Interests:          []string{},
		DealBreakers:       []string{},
		Confidence:         FullConfidence(),
		PersonalityProfile: Personality(),
	}
}

// Option mutates a user built by New.
type Option func(u *profile.UserProfile)

// New returns User(id, age) with the options applied in order.
func New(id string, age int, opts ...Option) *profile.UserProfile {
	u := User(id, age)
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func WithInterests(interests ...string) Option {
	return func(u *profile.UserProfile) { u.Interests = interests }
}

func WithDealBreakers(tags ...string) Option {
	return func(u *profile.UserProfile) { u.DealBreakers = tags }
}

func WithLocation(lat, lon float64) Option {
	return func(u *profile.UserProfile) {
		u.Location.Latitude = lat
		u.Location.Longitude = lon
	}
}

func WithConfidence(c profile.ConfidenceScores) Option {
	return func(u *profile.UserProfile) { u.Confidence = c }
}

func WithMBTI(t string, extraversion float64) Option {
	return func(u *profile.UserProfile) {
		u.MBTI.Type = t
		u.MBTI.Scores.Extraversion = extraversion
	}
}

func WithValues(v profile.Values) Option {
	return func(u *profile.UserProfile) { u.Values = v }
}

func WithBigFive(b profile.BigFive) Option {
	return func(u *profile.UserProfile) { u.BigFive = b }
}

func WithEmotionalNeeds(e profile.EmotionalNeeds) Option {
	return func(u *profile.UserProfile) { u.EmotionalNeeds = e }
}

func WithSocialMedia(s *profile.SocialMediaSummary) Option {
	return func(u *profile.UserProfile) { u.SocialMedia = s }
}

// UniformValues sets every value dimension to x.
func UniformValues(x float64) profile.Values {
	return profile.Values{
		Tradition: x, Security: x, Power: x, Achievement: x, Hedonism: x,
		Stimulation: x, SelfDirection: x, Universalism: x, Benevolence: x,
	}
}
