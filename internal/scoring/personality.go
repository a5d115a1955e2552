// Package scoring turns pairs of profiles into bounded compatibility scores.
package scoring

import (
	"errors"
	"math"

	"github.com/spigell/affinity/internal/profile"
)

// ErrInsufficientConfidence is returned when no framework carries any mutual
// confidence, so no personality score can be derived.
var ErrInsufficientConfidence = errors.New("insufficient confidence: every framework has zero mutual confidence")

// Subject is what the personality scorer needs from a user.
type Subject struct {
	Personality profile.PersonalityProfile
	Confidence  profile.ConfidenceScores
}

// SubjectOf extracts the scoring subject of a user.
func SubjectOf(u *profile.UserProfile) Subject {
	return Subject{Personality: u.PersonalityProfile, Confidence: u.Confidence}
}

// FrameworkScore is the outcome for a single framework.
type FrameworkScore struct {
	Framework profile.Framework
	Score     float64
	Weight    float64
}

// PersonalityResult explains a personality score.
type PersonalityResult struct {
	Score      float64
	Frameworks []FrameworkScore
}

// Of returns the sub-score of the given framework.
func (r PersonalityResult) Of(f profile.Framework) float64 {
	for _, fs := range r.Frameworks {
		if fs.Framework == f {
			return fs.Score
		}
	}
	return 0
}

// Personality combines the per-framework compatibilities into one score.
// Each framework is weighted by the product of both sides' confidence, so a
// framework nobody is sure about loses influence instead of biasing the
// result.
func Personality(a, b Subject) (PersonalityResult, error) {
	subscores := map[profile.Framework]float64{
		profile.FrameworkMBTI:    MBTICompatibility(a.Personality.MBTI, b.Personality.MBTI),
		profile.FrameworkBigFive: BigFiveCompatibility(a.Personality.BigFive, b.Personality.BigFive),
		profile.FrameworkValues:  ValuesCompatibility(a.Personality.Values, b.Personality.Values),
	}

	result := PersonalityResult{Frameworks: make([]FrameworkScore, 0, len(profile.Frameworks))}
	var weighted, total float64
	for _, f := range profile.Frameworks {
		w := a.Confidence.For(f) * b.Confidence.For(f)
		s := subscores[f]
		result.Frameworks = append(result.Frameworks, FrameworkScore{Framework: f, Score: s, Weight: w})
		weighted += s * w
		total += w
	}

	if total <= 0 {
		return result, ErrInsufficientConfidence
	}

	result.Score = clamp01(weighted / total)
	return result, nil
}

// MBTICompatibility compares the continuous axis positions of two types.
func MBTICompatibility(a, b profile.MBTI) float64 {
	return Similarity(a.Vector(), b.Vector())
}

// BigFiveCompatibility compares two Big Five trait vectors.
func BigFiveCompatibility(a, b profile.BigFive) float64 {
	return Similarity(a.Vector(), b.Vector())
}

// ValuesCompatibility compares two value vectors.
func ValuesCompatibility(a, b profile.Values) float64 {
	return Similarity(a.Vector(), b.Vector())
}

// Similarity is 1 minus the normalized euclidean distance of two [0,1]
// vectors of equal length. Mismatched or empty vectors score 0.
func Similarity(a, b []float64) float64 {
	d, ok := NormalizedDistance(a, b)
	if !ok {
		return 0
	}
	return clamp01(1 - d)
}

// NormalizedDistance is the euclidean distance divided by sqrt(n), the
// largest distance two [0,1] vectors of length n can have. It equals the root
// mean square of the per-dimension differences.
func NormalizedDistance(a, b []float64) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return clamp01(math.Sqrt(sum / float64(len(a)))), true
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Min(1, math.Max(0, x))
}
