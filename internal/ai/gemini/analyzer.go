package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/affinity/internal/ai"
	"github.com/spigell/affinity/internal/logger"
	"github.com/spigell/affinity/internal/profile"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Analyzer is the LLM-backed ai.Analyzer.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var systemPrompt string

const defaultMaxLogLength = 200

var _ ai.Analyzer = (*Analyzer)(nil)

func NewAnalyzer(generator contentGenerator, maxLogLength int, log *zap.Logger) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Analyzer{
		generator: generator,
		logger:    logger.WithAnalyzerFields(log, "gemini", generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, signals *ai.Signals) (*ai.Analysis, error) {
	if signals.Empty() {
		return nil, ai.ErrNoSignals
	}

	message, err := buildMessage(signals)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini analyze request",
		append(logger.Preview("message_preview", message, a.maxLogLen), zap.String("user_id", signals.UserID))...,
	)

	raw, err := a.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini analyze response",
		append(logger.Preview("response_preview", raw, a.maxLogLen), zap.String("user_id", signals.UserID))...,
	)

	analysis, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if err := profile.ValidatePersonality(signals.UserID, analysis.Personality, analysis.Confidence); err != nil {
		return nil, fmt.Errorf("gemini returned an invalid personality: %w", err)
	}

	if len(signals.SocialMedia) == 0 {
		analysis.SocialMedia = nil
	}
	if signals.Voice == nil {
		analysis.Voice = nil
	}

	return analysis, nil
}

func buildMessage(signals *ai.Signals) (string, error) {
	payload, err := json.MarshalIndent(signals, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal signals: %w", err)
	}
	return "[Inputs]\n" + string(payload) + "\n\nJSON Response:", nil
}

// response mirrors the JSON object requested by the system prompt.
type response struct {
	Personality profile.PersonalityProfile  `mapstructure:"personality"`
	Confidence  profile.ConfidenceScores    `mapstructure:"confidence"`
	SocialMedia *profile.SocialMediaSummary `mapstructure:"social_media"`
	Voice       *profile.VoiceSummary       `mapstructure:"voice"`
}

func parseResponse(raw string) (*ai.Analysis, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var resp response
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &resp,
	})
	if err != nil {
		return nil, fmt.Errorf("create response decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	resp.Personality.MBTI.Type = strings.ToUpper(strings.TrimSpace(resp.Personality.MBTI.Type))
	if resp.SocialMedia != nil {
		resp.SocialMedia.Sentiment = min(max(resp.SocialMedia.Sentiment, -1), 1)
	}
	if resp.Voice != nil {
		resp.Voice.Pitch = min(max(resp.Voice.Pitch, 0), 1)
		resp.Voice.Tempo = min(max(resp.Voice.Tempo, 0), 1)
	}

	return &ai.Analysis{
		Personality: resp.Personality,
		Confidence:  resp.Confidence,
		SocialMedia: resp.SocialMedia,
		Voice:       resp.Voice,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
