// Package connections finds meaningful shared ground between two users and
// turns it into conversation starters.
package connections

import (
	"fmt"
	"math"
	"strings"

	"github.com/spigell/affinity/internal/profile"
)

const (
	DefaultRarityThreshold = 0.05

	strongValue     = 0.8
	highTrait       = 0.7
	ConnectionStyle = "Complementary communication styles"
	ConnectionPlan  = "Planner and explorer balance"
)

// FrequencyTable reports how common an interest is in the user population.
type FrequencyTable interface {
	// Frequency returns the share of users listing the normalized interest,
	// and false when the interest is unknown.
	Frequency(interest string) (float64, bool)
}

// MapFrequencyTable is a static FrequencyTable keyed by normalized interest.
type MapFrequencyTable map[string]float64

func (m MapFrequencyTable) Frequency(interest string) (float64, bool) {
	f, ok := m[profile.NormalizeTag(interest)]
	return f, ok
}

// commonInterests are never considered rare when no frequency table is set.
var commonInterests = map[string]struct{}{
	"music": {}, "movies": {}, "travel": {}, "reading": {}, "food": {},
	"cooking": {}, "sports": {}, "fitness": {}, "gym": {}, "netflix": {},
	"tv": {}, "games": {}, "gaming": {}, "hiking": {}, "coffee": {},
	"dogs": {}, "cats": {}, "art": {}, "dancing": {}, "shopping": {},
}

// Config holds the rarity policy. RarityThreshold is taken as given; zero
// means no tabled interest counts as rare.
type Config struct {
	RarityThreshold float64
	Frequencies     FrequencyTable
}

func DefaultConfig() Config {
	return Config{RarityThreshold: DefaultRarityThreshold}
}

// Generator is stateless apart from its configuration and is safe for
// concurrent use.
type Generator struct {
	threshold float64
	freq      FrequencyTable
}

func New(cfg Config) (*Generator, error) {
	threshold := cfg.RarityThreshold
	if threshold < 0 || threshold > 1 || math.IsNaN(threshold) {
		return nil, fmt.Errorf("rarity threshold must be in [0,1], got %v", threshold)
	}
	return &Generator{threshold: threshold, freq: cfg.Frequencies}, nil
}

// IsRare reports whether a shared interest is unusual enough to be a
// connection.
func (g *Generator) IsRare(interest string) bool {
	n := profile.NormalizeTag(interest)
	if g.freq != nil {
		if f, ok := g.freq.Frequency(n); ok {
			return f < g.threshold
		}
	}
	_, common := commonInterests[n]
	return !common
}

// Connections lists the unique connections between a and b. The result is
// never nil.
func (g *Generator) Connections(a, b *profile.UserProfile) []string {
	out := []string{}

	if complementaryStyles(a.MBTI, b.MBTI) {
		out = append(out, ConnectionStyle)
	}

	var rare []string
	for _, interest := range profile.SharedTags(a.Interests, b.Interests) {
		if g.IsRare(interest) {
			rare = append(rare, interest)
		}
	}
	if len(rare) > 0 {
		out = append(out, "Shared unusual interests: "+strings.Join(rare, ", "))
	}

	if dim, ok := sharedStrongValue(a.Values, b.Values); ok {
		out = append(out, "Both strongly value "+dim)
	}

	if plannerExplorer(a.BigFive, b.BigFive) {
		out = append(out, ConnectionPlan)
	}

	return out
}

// complementaryStyles: one extravert and one introvert who perceive the
// world the same way.
func complementaryStyles(a, b profile.MBTI) bool {
	mixed := (a.IsExtravert() && b.IsIntrovert()) || (a.IsIntrovert() && b.IsExtravert())
	return mixed && a.Letter(1) != 0 && a.Letter(1) == b.Letter(1)
}

func sharedStrongValue(a, b profile.Values) (string, bool) {
	va, vb := a.Vector(), b.Vector()
	for i, dim := range profile.ValueDimensions {
		if va[i] >= strongValue && vb[i] >= strongValue {
			return dim, true
		}
	}
	return "", false
}

func plannerExplorer(a, b profile.BigFive) bool {
	forward := a.Conscientiousness >= highTrait && b.Openness >= highTrait
	reverse := b.Conscientiousness >= highTrait && a.Openness >= highTrait
	return forward != reverse
}
