package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  seeker  ", Value: "  u1  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "seeker" || fields[0].String != "u1" {
		t.Fatalf("unexpected seeker field: %+v", fields[0])
	}

	empty := StringFields()
	if len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	if got := WithFields(base); got != base {
		t.Fatal("expected the same logger when no fields are given")
	}

	WithFields(base, PairFields("seeker-1", "cand-7")...).Debug("scored")

	entries := observed.FilterMessage("scored").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields[FieldSeeker] != "seeker-1" || fields[FieldCandidate] != "cand-7" {
		t.Fatalf("unexpected pair fields: %v", fields)
	}

	nop := WithFields(nil, zap.String(FieldBatch, "b1"))
	if nop == nil {
		t.Fatal("expected a no-op logger for nil input")
	}
	nop.Info("dropped")
}

func TestPairFields(t *testing.T) {
	fields := PairFields(" seeker-1 ", "")
	if len(fields) != 1 {
		t.Fatalf("expected empty candidate to be dropped, got %d fields", len(fields))
	}
	if fields[0].Key != FieldSeeker || fields[0].String != "seeker-1" {
		t.Fatalf("unexpected seeker field: %+v", fields[0])
	}

	fields = PairFields("a", "b")
	if len(fields) != 2 || fields[1].Key != FieldCandidate || fields[1].String != "b" {
		t.Fatalf("unexpected pair fields: %+v", fields)
	}
}

func TestWithAnalyzerFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithAnalyzerFields(logger, "gemini", "model-x")
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" {
		t.Fatalf("expected provider field to be gemini, got %q", ctx[FieldProvider])
	}

	if ctx[FieldModel] != "model-x" {
		t.Fatalf("expected model field to be model-x, got %q", ctx[FieldModel])
	}

	if empty := AnalyzerFields("", ""); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}

	enriched = WithAnalyzerFields(nil, "rule", "")
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	// Ensure logging with the fallback logger does not panic.
	enriched.Info("another log")
}

func TestConfig(t *testing.T) {
	cfg := Config(true, true)
	if cfg.Encoding != "json" {
		t.Fatalf("expected json encoding, got %s", cfg.Encoding)
	}
	if cfg.Level.Level() != zapcore.DebugLevel {
		t.Fatalf("expected debug level, got %s", cfg.Level.Level())
	}

	cfg = Config(false, false)
	if cfg.Encoding != "console" || cfg.Level.Level() != zapcore.InfoLevel {
		t.Fatalf("unexpected default config: %s/%s", cfg.Encoding, cfg.Level.Level())
	}
}
