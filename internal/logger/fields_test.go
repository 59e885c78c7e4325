package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCommonFields(zap.New(core), "  gemini  ", "model-x").Info("test log")
	WithCommonFields(zap.New(core), "", "").Info("bare")

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" {
		t.Fatalf("expected provider field to be gemini, got %q", ctx[FieldProvider])
	}
	if ctx[FieldModel] != "model-x" {
		t.Fatalf("expected model field to be model-x, got %q", ctx[FieldModel])
	}

	if bare := entries[1].ContextMap(); len(bare) != 0 {
		t.Fatalf("blank values must be omitted: %+v", bare)
	}

	// Ensure logging with the fallback logger does not panic.
	WithCommonFields(nil, "gemini", "model-x").Info("another log")
}

func TestWithRequest(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithRequest(zap.New(core), "req-1", " cv.pdf ").Info("extracted")
	WithRequest(zap.New(core), "req-2", "").Info("health")

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0].ContextMap()
	if first[FieldRequestID] != "req-1" || first[FieldFilename] != "cv.pdf" {
		t.Fatalf("unexpected request fields: %+v", first)
	}

	second := entries[1].ContextMap()
	if _, ok := second[FieldFilename]; ok {
		t.Fatalf("empty filename must be omitted: %+v", second)
	}
}
