package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"
)

// scriptedChats replays one reply per created chat and records every request.
type scriptedChats struct {
	mu       sync.Mutex
	replies  []reply
	requests []request
}

type reply struct {
	text string
	err  error
}

type request struct {
	model   string
	config  *genai.GenerateContentConfig
	message string
}

type scriptedSession struct {
	owner *scriptedChats
	req   request
	reply reply
}

func (s *scriptedSession) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	var texts []string
	for _, p := range parts {
		texts = append(texts, p.Text)
	}
	s.req.message = strings.Join(texts, "")

	s.owner.mu.Lock()
	s.owner.requests = append(s.owner.requests, s.req)
	s.owner.mu.Unlock()

	if s.reply.err != nil {
		return nil, s.reply.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: s.reply.text}}},
		}},
	}, nil
}

func (c *scriptedChats) Create(_ context.Context, model string, config *genai.GenerateContentConfig, _ []*genai.Content) (chatSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.replies) == 0 {
		return nil, errors.New("no scripted reply left")
	}
	next := c.replies[0]
	c.replies = c.replies[1:]
	return &scriptedSession{owner: c, req: request{model: model, config: config}, reply: next}, nil
}

func newTestGenerator(chats chatCreator, retries int, log *zap.Logger) *Generator {
	return &Generator{
		chats:      chats,
		model:      "gemini-test",
		maxRetries: retries,
		backoff:    time.Millisecond,
		logger:     log,
	}
}

var (
	errUnavailable = genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	errLongQuota   = genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}
	errBadRequest = &genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}
)

func TestGeneratorRetryPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		retries   int
		replies   []reply
		want      string
		wantCode  int
		wantCalls int
	}{
		{
			name:      "first attempt",
			retries:   3,
			replies:   []reply{{text: `{"mbti":{"type":"INTJ"}}`}},
			want:      `{"mbti":{"type":"INTJ"}}`,
			wantCalls: 1,
		},
		{
			name:      "recovers after unavailable",
			retries:   3,
			replies:   []reply{{err: errUnavailable}, {err: errUnavailable}, {text: "{}"}},
			want:      "{}",
			wantCalls: 3,
		},
		{
			name:      "gives up when attempts are spent",
			retries:   2,
			replies:   []reply{{err: errUnavailable}, {err: errUnavailable}, {text: "{}"}},
			wantCode:  http.StatusServiceUnavailable,
			wantCalls: 2,
		},
		{
			name:      "long quota delay is not retried",
			retries:   3,
			replies:   []reply{{err: errLongQuota}, {text: "{}"}},
			wantCode:  http.StatusTooManyRequests,
			wantCalls: 1,
		},
		{
			name:      "client error is not retried",
			retries:   3,
			replies:   []reply{{err: errBadRequest}, {text: "{}"}},
			wantCode:  http.StatusBadRequest,
			wantCalls: 1,
		},
		{
			name:      "zero retries still makes one attempt",
			retries:   0,
			replies:   []reply{{text: "{}"}},
			want:      "{}",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chats := &scriptedChats{replies: tt.replies}
			g := newTestGenerator(chats, tt.retries, zap.NewNop())

			got, err := g.GenerateContent(context.Background(), "infer a personality", "[Inputs]\n{}")
			if tt.wantCode != 0 {
				apiErr, ok := asAPIError(err)
				if !ok || apiErr.Code != tt.wantCode {
					t.Fatalf("expected api error %d, got %v", tt.wantCode, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
			if len(chats.requests) != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, len(chats.requests))
			}
		})
	}
}

func TestGeneratorRequestShape(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	chats := &scriptedChats{replies: []reply{{err: errUnavailable}, {text: "{}"}}}
	g := newTestGenerator(chats, 2, zap.New(core))

	if _, err := g.GenerateContent(context.Background(), "  infer a personality  ", "  [Inputs]\n{}  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, req := range chats.requests {
		if req.model != "gemini-test" {
			t.Fatalf("request %d: unexpected model %q", i, req.model)
		}
		if req.config.ResponseMIMEType != "application/json" {
			t.Fatalf("request %d: expected json response type, got %q", i, req.config.ResponseMIMEType)
		}
		if req.config.SystemInstruction == nil || req.config.SystemInstruction.Parts[0].Text != "infer a personality" {
			t.Fatalf("request %d: unexpected system instruction %+v", i, req.config.SystemInstruction)
		}
		if req.message != "[Inputs]\n{}" {
			t.Fatalf("request %d: unexpected message %q", i, req.message)
		}
	}

	retries := logs.FilterMessage("gemini request failed, retrying").All()
	if len(retries) != 1 {
		t.Fatalf("expected one retry log, got %d", len(retries))
	}
	if attempt := retries[0].ContextMap()["attempt"]; attempt != int64(1) {
		t.Fatalf("expected attempt 1 in retry log, got %v", attempt)
	}
}

func TestGeneratorEdgeCases(t *testing.T) {
	t.Parallel()

	if _, err := newTestGenerator(&scriptedChats{}, 1, zap.NewNop()).GenerateContent(context.Background(), "sys", "   "); err == nil {
		t.Fatal("expected error for a blank message")
	}

	var nilGenerator *Generator
	if _, err := nilGenerator.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for an uninitialized generator")
	}
	if nilGenerator.Model() != "" {
		t.Fatal("expected empty model for nil generator")
	}

	blank := &scriptedChats{replies: []reply{{text: "   "}}}
	if _, err := newTestGenerator(blank, 1, zap.NewNop()).GenerateContent(context.Background(), "sys", "msg"); err == nil ||
		!strings.Contains(err.Error(), "empty response") {
		t.Fatalf("expected empty response error, got %v", err)
	}

	if _, err := NewGenerator(context.Background(), GeneratorConfig{APIKey: "  "}, nil); err == nil {
		t.Fatal("expected error for a missing api key")
	}
}

func TestResponseTextJoinsParts(t *testing.T) {
	t.Parallel()

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: &genai.Content{Parts: []*genai.Part{{Text: " {\"a\":1} "}, nil, {Text: ""}}}},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "tail"}}}},
		},
	}

	got, err := responseText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "{\"a\":1}\ntail" {
		t.Fatalf("unexpected text %q", got)
	}

	if _, err := responseText(nil); err == nil {
		t.Fatal("expected error for nil response")
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unavailable", err: errUnavailable, want: true},
		{name: "bad gateway pointer", err: &genai.APIError{Code: http.StatusBadGateway}, want: true},
		{name: "quota without delay", err: genai.APIError{Code: http.StatusTooManyRequests}, want: true},
		{name: "quota short delay", err: genai.APIError{Code: http.StatusTooManyRequests, Message: "please retry in 2s"}, want: true},
		{name: "quota long delay in message", err: errLongQuota, want: false},
		{
			name: "quota long delay in details",
			err: genai.APIError{
				Code:    http.StatusTooManyRequests,
				Details: []map[string]any{{"retryDelay": "45s"}},
			},
			want: false,
		},
		{name: "bad request", err: errBadRequest, want: false},
		{name: "plain error", err: errors.New("connection reset"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isRetryable(tt.err); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
