package risk

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/spigell/affinity/internal/profile"
)

// RuleSpec declares a custom lifestyle conflict as a CEL expression over the
// variables seeker and candidate. The expression must evaluate to a bool.
//
//	tag: tradition_clash
//	expr: seeker.values.tradition > 0.8 && candidate.values.tradition < 0.2
type RuleSpec struct {
	Tag  string `mapstructure:"tag"`
	Expr string `mapstructure:"expr"`
}

// Rule is a compiled RuleSpec.
type Rule struct {
	tag     string
	program cel.Program
}

func newRuleEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("seeker", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("candidate", cel.MapType(cel.StringType, cel.DynType)),
	)
}

// CompileRules type-checks every rule and fails on the first invalid one.
func CompileRules(specs []RuleSpec) ([]*Rule, error) {
	env, err := newRuleEnv()
	if err != nil {
		return nil, fmt.Errorf("create rule environment: %w", err)
	}

	rules := make([]*Rule, 0, len(specs))
	for i, spec := range specs {
		tag := strings.TrimSpace(spec.Tag)
		if tag == "" {
			return nil, fmt.Errorf("rule #%d: tag is required", i)
		}

		ast, iss := env.Compile(spec.Expr)
		if iss.Err() != nil {
			return nil, fmt.Errorf("rule %q: compile: %w", tag, iss.Err())
		}

		out := ast.OutputType()
		if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
			return nil, fmt.Errorf("rule %q: expression must return bool, got %s", tag, out)
		}

		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %q: program: %w", tag, err)
		}

		rules = append(rules, &Rule{tag: tag, program: prg})
	}

	return rules, nil
}

func (r *Rule) Tag() string { return r.tag }

func (r *Rule) Conflict(a, b *profile.UserProfile) (bool, error) {
	out, _, err := r.program.Eval(map[string]any{
		"seeker":    Activation(a),
		"candidate": Activation(b),
	})
	if err != nil {
		return false, err
	}

	hit, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expected bool result, got %T", out.Value())
	}
	return hit, nil
}

// Activation flattens a profile into the map visible to rule expressions.
// Every key is always present so that expressions never hit a missing field.
func Activation(u *profile.UserProfile) map[string]any {
	social := map[string]any{"sentiment": 0.0, "topics": []string{}, "activity_pattern": ""}
	if u.SocialMedia != nil {
		social["sentiment"] = u.SocialMedia.Sentiment
		social["topics"] = lowered(u.SocialMedia.Topics)
		social["activity_pattern"] = u.SocialMedia.ActivityPattern
	}

	return map[string]any{
		"id":            u.ID,
		"age":           int64(u.Age),
		"interests":     lowered(u.Interests),
		"deal_breakers": lowered(u.DealBreakers),
		"mbti":          strings.ToUpper(u.MBTI.Type),
		"big_five": map[string]any{
			"openness":          u.BigFive.Openness,
			"conscientiousness": u.BigFive.Conscientiousness,
			"extraversion":      u.BigFive.Extraversion,
			"agreeableness":     u.BigFive.Agreeableness,
			"neuroticism":       u.BigFive.Neuroticism,
		},
		"values": map[string]any{
			"tradition":      u.Values.Tradition,
			"security":       u.Values.Security,
			"power":          u.Values.Power,
			"achievement":    u.Values.Achievement,
			"hedonism":       u.Values.Hedonism,
			"stimulation":    u.Values.Stimulation,
			"self_direction": u.Values.SelfDirection,
			"universalism":   u.Values.Universalism,
			"benevolence":    u.Values.Benevolence,
		},
		"emotional_needs": map[string]any{
			"affection":    u.EmotionalNeeds.Affection,
			"independence": u.EmotionalNeeds.Independence,
			"stability":    u.EmotionalNeeds.Stability,
			"growth":       u.EmotionalNeeds.Growth,
			"recognition":  u.EmotionalNeeds.Recognition,
		},
		"social_media": social,
	}
}

func lowered(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := profile.NormalizeTag(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}
