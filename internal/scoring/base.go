package scoring

import (
	"fmt"
	"math"
)

// Decay maps a non-negative quantity to [0,1]: 1 up to Soft, then a linear
// fall to 0 over Span.
type Decay struct {
	Soft float64 `mapstructure:"soft"`
	Span float64 `mapstructure:"span"`
}

func (d Decay) Apply(x float64) float64 {
	if x <= d.Soft {
		return 1
	}
	if d.Span <= 0 {
		return 0
	}
	return clamp01(1 - (x-d.Soft)/d.Span)
}

func (d Decay) Validate() error {
	if d.Soft < 0 || d.Span < 0 || math.IsNaN(d.Soft) || math.IsNaN(d.Span) {
		return fmt.Errorf("soft threshold and span must be non-negative, got soft=%v span=%v", d.Soft, d.Span)
	}
	return nil
}

// DecayPolicy configures the base compatibility normalization.
type DecayPolicy struct {
	AgeGap   Decay `mapstructure:"age-gap"`
	Distance Decay `mapstructure:"distance"`
}

// DefaultDecayPolicy: full score up to 5 years and 10 km, zero at 20 years
// and 200 km.
func DefaultDecayPolicy() DecayPolicy {
	return DecayPolicy{
		AgeGap:   Decay{Soft: 5, Span: 15},
		Distance: Decay{Soft: 10, Span: 190},
	}
}

func (p DecayPolicy) Validate() error {
	if err := p.AgeGap.Validate(); err != nil {
		return fmt.Errorf("age gap decay: %w", err)
	}
	if err := p.Distance.Validate(); err != nil {
		return fmt.Errorf("distance decay: %w", err)
	}
	return nil
}

// BaseCompatibility is the mean of the age-gap and distance scores.
func BaseCompatibility(ageGap int, distanceKm float64, p DecayPolicy) float64 {
	age := p.AgeGap.Apply(math.Abs(float64(ageGap)))
	dist := p.Distance.Apply(distanceKm)
	return clamp01((age + dist) / 2)
}
