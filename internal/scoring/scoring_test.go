package scoring

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/affinity/internal/profile"
	"github.com/spigell/affinity/internal/profile/profiletest"
)

func subject(p profile.PersonalityProfile, c profile.ConfidenceScores) Subject {
	return Subject{Personality: p, Confidence: c}
}

func randomPersonality(r *rand.Rand) profile.PersonalityProfile {
	return profile.PersonalityProfile{
		MBTI: profile.MBTI{Type: "ENTP", Scores: profile.MBTIScores{
			Extraversion: r.Float64(), Intuition: r.Float64(), Thinking: r.Float64(), Judging: r.Float64(),
		}},
		BigFive: profile.BigFive{
			Openness: r.Float64(), Conscientiousness: r.Float64(), Extraversion: r.Float64(),
			Agreeableness: r.Float64(), Neuroticism: r.Float64(),
		},
		Values: profile.Values{
			Tradition: r.Float64(), Security: r.Float64(), Power: r.Float64(), Achievement: r.Float64(),
			Hedonism: r.Float64(), Stimulation: r.Float64(), SelfDirection: r.Float64(),
			Universalism: r.Float64(), Benevolence: r.Float64(),
		},
	}
}

func TestSimilarityBounds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, Similarity([]float64{0.2, 0.4}, []float64{0.2, 0.4}))
	assert.Equal(t, 0.0, Similarity([]float64{0, 0, 0}, []float64{1, 1, 1}))
	assert.Equal(t, 0.0, Similarity([]float64{0.1}, []float64{0.1, 0.2}), "mismatched lengths")
	assert.Equal(t, 0.0, Similarity(nil, nil), "empty vectors")
	assert.InDelta(t, 0.5, Similarity([]float64{0, 0}, []float64{0.5, 0.5}), 1e-9)
}

func TestIdenticalProfilesScoreOne(t *testing.T) {
	t.Parallel()

	p := profiletest.Personality()
	res, err := Personality(subject(p, profiletest.FullConfidence()), subject(p, profiletest.FullConfidence()))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Score, 1e-9)
	for _, fs := range res.Frameworks {
		assert.InDelta(t, 1.0, fs.Score, 1e-9, fs.Framework)
		assert.InDelta(t, 1.0, fs.Weight, 1e-9, fs.Framework)
	}
}

func TestScoresStayInUnitInterval(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		a := subject(randomPersonality(r), profile.ConfidenceScores{MBTI: r.Float64(), BigFive: r.Float64(), Values: r.Float64()})
		b := subject(randomPersonality(r), profile.ConfidenceScores{MBTI: r.Float64(), BigFive: r.Float64(), Values: r.Float64()})

		res, err := Personality(a, b)
		require.NoError(t, err)
		require.GreaterOrEqual(t, res.Score, 0.0)
		require.LessOrEqual(t, res.Score, 1.0)
		for _, fs := range res.Frameworks {
			require.GreaterOrEqual(t, fs.Score, 0.0)
			require.LessOrEqual(t, fs.Score, 1.0)
		}
	}
}

func TestZeroConfidenceFails(t *testing.T) {
	t.Parallel()

	p := profiletest.Personality()
	zero := profile.ConfidenceScores{}

	_, err := Personality(subject(p, zero), subject(p, zero))
	require.ErrorIs(t, err, ErrInsufficientConfidence)

	// one side fully confident is still not enough when the other side has nothing
	_, err = Personality(subject(p, profiletest.FullConfidence()), subject(p, zero))
	require.ErrorIs(t, err, ErrInsufficientConfidence)
}

func TestSingleFrameworkConfidenceYieldsThatSubScore(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(7))
	a, b := randomPersonality(r), randomPersonality(r)
	onlyValues := profile.ConfidenceScores{Values: 0.6}

	res, err := Personality(subject(a, onlyValues), subject(b, onlyValues))
	require.NoError(t, err)
	assert.InDelta(t, ValuesCompatibility(a.Values, b.Values), res.Score, 1e-9)
	assert.InDelta(t, res.Of(profile.FrameworkValues), res.Score, 1e-9)
}

func TestConfidenceMonotonicity(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(99))
	for i := 0; i < 200; i++ {
		a, b := randomPersonality(r), randomPersonality(r)
		base := profile.ConfidenceScores{MBTI: 0.3 + 0.2*r.Float64(), BigFive: 0.5, Values: 0.5}

		before, err := Personality(subject(a, base), subject(b, base))
		require.NoError(t, err)

		raised := base
		raised.MBTI = 1
		after, err := Personality(subject(a, raised), subject(b, base))
		require.NoError(t, err)

		target := before.Of(profile.FrameworkMBTI)
		assert.LessOrEqual(t, math.Abs(after.Score-target), math.Abs(before.Score-target)+1e-12)
		if target > before.Score {
			assert.GreaterOrEqual(t, after.Score, before.Score-1e-12)
		} else {
			assert.LessOrEqual(t, after.Score, before.Score+1e-12)
		}
	}
}

func TestDecay(t *testing.T) {
	t.Parallel()

	d := Decay{Soft: 10, Span: 100}
	assert.Equal(t, 1.0, d.Apply(0))
	assert.Equal(t, 1.0, d.Apply(10))
	assert.InDelta(t, 0.5, d.Apply(60), 1e-9)
	assert.Equal(t, 0.0, d.Apply(110))
	assert.Equal(t, 0.0, d.Apply(1e6))

	step := Decay{Soft: 3}
	assert.Equal(t, 1.0, step.Apply(3))
	assert.Equal(t, 0.0, step.Apply(3.1))

	assert.Error(t, Decay{Soft: -1}.Validate())
	assert.NoError(t, DefaultDecayPolicy().Validate())
}

func TestBaseCompatibility(t *testing.T) {
	t.Parallel()

	policy := DefaultDecayPolicy()
	assert.Equal(t, 1.0, BaseCompatibility(2, 0, policy))
	assert.InDelta(t, 0.5, BaseCompatibility(30, 0, policy), 1e-9)
	assert.InDelta(t, 0.0, BaseCompatibility(40, 5000, policy), 1e-9)

	// monotonic decreasing in both inputs
	prev := 2.0
	for gap := 0; gap <= 30; gap++ {
		cur := BaseCompatibility(gap, 50, policy)
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
}
