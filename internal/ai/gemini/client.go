package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/affinity/internal/logger"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 3
	defaultBackoff    = time.Second
	// maxQuotaDelay is the longest server-requested delay worth waiting for.
	maxQuotaDelay = 10 * time.Second
)

var retryDelayPattern = regexp.MustCompile(`(?i)retry(?:delay)?\D{0,12}(\d+(?:\.\d+)?)\s*s`)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Generator sends a system instruction and a single user message to Gemini
// and returns the textual answer. Transient API errors are retried.
type Generator struct {
	chats      chatCreator
	model      string
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

type GeneratorConfig struct {
	APIKey     string
	Model      string
	MaxRetries int
}

// NewGenerator creates a Generator for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg GeneratorConfig, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}

	return &Generator{
		chats:      genaiChats{chats: client.Chats},
		model:      model,
		maxRetries: retries,
		backoff:    defaultBackoff,
		logger:     logger.WithAnalyzerFields(log, "gemini", model),
	}, nil
}

// GenerateContent sends message with the given system instruction and
// returns the joined text parts of the response.
func (g *Generator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: system}},
		}
	}

	attempts := max(g.maxRetries, 1)
	backoff := g.backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	policy := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(backoff))

	log := logger.WithFields(g.logger)

	var (
		output  string
		attempt int
	)
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		attempt++

		chat, err := g.chats.Create(ctx, g.model, config, nil)
		if err != nil {
			return fmt.Errorf("create chat: %w", err)
		}

		resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
		if err != nil {
			if isRetryable(err) {
				log.Warn("gemini request failed, retrying",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", attempts),
					zap.Error(err),
				)
				return retry.RetryableError(err)
			}
			return err
		}

		output, err = responseText(resp)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("generate content after %d attempt(s): %w", attempt, err)
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned no response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func isRetryable(err error) bool {
	apiErr, ok := asAPIError(err)
	if !ok {
		return false
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		delay, found := retryDelay(apiErr)
		return !found || delay <= maxQuotaDelay
	case apiErr.Code >= http.StatusInternalServerError:
		return true
	default:
		return false
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var value genai.APIError
	if errors.As(err, &value) {
		return value, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return genai.APIError{}, false
}

// retryDelay extracts a server-requested delay from the error message or
// details.
func retryDelay(apiErr genai.APIError) (time.Duration, bool) {
	sources := []string{apiErr.Message}
	for _, detail := range apiErr.Details {
		if v, ok := detail["retryDelay"]; ok {
			sources = append(sources, fmt.Sprintf("retryDelay %v", v))
		}
	}

	for _, src := range sources {
		m := retryDelayPattern.FindStringSubmatch(src)
		if m == nil {
			continue
		}
		secs, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return time.Duration(secs * float64(time.Second)), true
	}
	return 0, false
}
