package ai

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/spigell/affinity/internal/logger"
	"github.com/spigell/affinity/internal/profile"
)

const (
	ProviderRule = "rule"

	// evidenceScale is the word count at which confidence reaches 1-1/e.
	evidenceScale = 150.0
	// smoothing keeps scores near the midpoint when only a few cue words match.
	smoothing  = 2.0
	maxTopics  = 3
	regularish = 0.5
)

// RuleBased infers personality from cue-word lexicons. It is deterministic
// and needs no external service.
type RuleBased struct {
	logger *zap.Logger
}

func NewRuleBased(log *zap.Logger) *RuleBased {
	return &RuleBased{logger: logger.WithAnalyzerFields(log, ProviderRule, "")}
}

func (r *RuleBased) Analyze(ctx context.Context, signals *Signals) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if signals.Empty() {
		return nil, ErrNoSignals
	}

	responses := tokenize(nonBlank(signals.Responses)...)
	posts := tokenize(postTexts(signals.SocialMedia)...)
	all := append(slices.Clone(responses), posts...)

	counts := countWords(all)
	personality := inferPersonality(counts)

	analysis := &Analysis{
		Personality: personality,
		Confidence: profile.ConfidenceScores{
			MBTI:    confidence(len(responses)),
			BigFive: confidence(len(responses)),
			Values:  confidence(len(responses) + len(posts)),
		},
	}

	if len(signals.SocialMedia) > 0 {
		analysis.SocialMedia = summarizeSocial(signals.SocialMedia, posts)
	}
	if signals.Voice != nil {
		analysis.Voice = summarizeVoice(signals.Voice)
	}

	if err := profile.ValidatePersonality(signals.UserID, analysis.Personality, analysis.Confidence); err != nil {
		return nil, fmt.Errorf("rule based analysis produced an invalid profile: %w", err)
	}

	r.logger.Debug("signals analyzed",
		zap.String("user_id", signals.UserID),
		zap.Int("response_words", len(responses)),
		zap.Int("post_words", len(posts)),
		zap.String("mbti", personality.MBTI.Type),
	)

	return analysis, nil
}

func inferPersonality(counts wordCounts) profile.PersonalityProfile {
	scores := profile.MBTIScores{
		Extraversion: counts.score(extraversionCue),
		Intuition:    counts.score(intuitionCue),
		Thinking:     counts.score(thinkingCue),
		Judging:      counts.score(judgingCue),
	}

	return profile.PersonalityProfile{
		MBTI: profile.MBTI{Type: mbtiType(scores), Scores: scores},
		BigFive: profile.BigFive{
			Openness:          counts.score(opennessCue),
			Conscientiousness: counts.score(conscientiousnessCue),
			Extraversion:      scores.Extraversion,
			Agreeableness:     counts.score(agreeablenessCue),
			Neuroticism:       counts.score(neuroticismCue),
		},
		Values: profile.Values{
			Tradition:     counts.score(valueCues["tradition"]),
			Security:      counts.score(valueCues["security"]),
			Power:         counts.score(valueCues["power"]),
			Achievement:   counts.score(valueCues["achievement"]),
			Hedonism:      counts.score(valueCues["hedonism"]),
			Stimulation:   counts.score(valueCues["stimulation"]),
			SelfDirection: counts.score(valueCues["self_direction"]),
			Universalism:  counts.score(valueCues["universalism"]),
			Benevolence:   counts.score(valueCues["benevolence"]),
		},
		EmotionalNeeds: profile.EmotionalNeeds{
			Affection:    counts.score(needCues["affection"]),
			Independence: counts.score(needCues["independence"]),
			Stability:    counts.score(needCues["stability"]),
			Growth:       counts.score(needCues["growth"]),
			Recognition:  counts.score(needCues["recognition"]),
		},
	}
}

func mbtiType(s profile.MBTIScores) string {
	letter := func(v float64, hi, lo byte) byte {
		if v >= 0.5 {
			return hi
		}
		return lo
	}
	return string([]byte{
		letter(s.Extraversion, 'E', 'I'),
		letter(s.Intuition, 'N', 'S'),
		letter(s.Thinking, 'T', 'F'),
		letter(s.Judging, 'J', 'P'),
	})
}

// confidence grows with the amount of text and saturates at 1.
func confidence(words int) float64 {
	return 1 - math.Exp(-float64(words)/evidenceScale)
}

type wordCounts map[string]int

func countWords(words []string) wordCounts {
	counts := make(wordCounts, len(words))
	for _, w := range words {
		counts[w]++
	}
	return counts
}

// score maps cue hits to (0,1) with 0.5 meaning no evidence either way.
func (c wordCounts) score(q cue) float64 {
	up, down := c.hits(q.up), c.hits(q.down)
	return 0.5 + 0.5*(up-down)/(up+down+smoothing)
}

func (c wordCounts) hits(words []string) float64 {
	var n int
	for _, w := range words {
		n += c[w]
	}
	return float64(n)
}

func summarizeSocial(posts []Post, words []string) *profile.SocialMediaSummary {
	counts := countWords(words)
	up, down := counts.hits(sentimentCue.up), counts.hits(sentimentCue.down)

	sentiment := 0.0
	if up+down > 0 {
		sentiment = (up - down) / (up + down)
	}

	return &profile.SocialMediaSummary{
		Sentiment:       sentiment,
		Topics:          topics(words),
		ActivityPattern: activityPattern(posts),
	}
}

func topics(words []string) []string {
	counts := map[string]int{}
	for _, w := range words {
		if topic, ok := topicWords[w]; ok {
			counts[topic]++
		}
	}

	out := make([]string, 0, len(counts))
	for topic := range counts {
		out = append(out, topic)
	}
	slices.SortFunc(out, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	if len(out) > maxTopics {
		out = out[:maxTopics]
	}
	return out
}

// activityPattern is "regular-<bucket>" when at least half of the dated posts
// fall into one time-of-day bucket, "irregular" otherwise and "" without
// timestamps.
func activityPattern(posts []Post) string {
	buckets := map[string]int{}
	var dated int
	for _, p := range posts {
		if p.Timestamp.IsZero() {
			continue
		}
		dated++
		buckets[hourBucket(p.Timestamp.Hour())]++
	}
	if dated == 0 {
		return ""
	}

	best, bestCount := "", 0
	for _, name := range []string{"morning", "daytime", "evening", "night"} {
		if buckets[name] > bestCount {
			best, bestCount = name, buckets[name]
		}
	}
	if float64(bestCount)/float64(dated) < regularish {
		return "irregular"
	}
	return "regular-" + best
}

func hourBucket(hour int) string {
	switch {
	case hour >= 5 && hour < 11:
		return "morning"
	case hour >= 11 && hour < 17:
		return "daytime"
	case hour >= 17 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

func summarizeVoice(v *VoiceFeatures) *profile.VoiceSummary {
	return &profile.VoiceSummary{
		Pitch:            min(max(v.Pitch, 0), 1),
		Tempo:            min(max(v.Tempo, 0), 1),
		EmotionalMarkers: slices.Clone(v.EmotionalMarkers),
	}
}

func tokenize(texts ...string) []string {
	var words []string
	for _, text := range texts {
		words = append(words, strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && r != '\''
		})...)
	}
	return words
}

func nonBlank(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}

func postTexts(posts []Post) []string {
	texts := make([]string, 0, len(posts))
	for _, p := range posts {
		texts = append(texts, p.Text)
	}
	return nonBlank(texts)
}
