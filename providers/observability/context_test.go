package observability

import (
	"context"
	"testing"
)

type recordingLogger struct {
	nopProvider
	name string
}

func TestLoggerFromContext_Nil(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract under test
	if logger := LoggerFromContext(nil); logger != nil {
		t.Errorf("Expected nil logger from nil context, got %v", logger)
	}
}

func TestLoggerFromContext_Empty(t *testing.T) {
	if logger := LoggerFromContext(context.Background()); logger != nil {
		t.Errorf("Expected nil logger from empty context, got %v", logger)
	}
}

func TestContextWithLogger_RoundTrip(t *testing.T) {
	want := &recordingLogger{name: "test"}
	ctx := ContextWithLogger(context.Background(), want)

	got, ok := LoggerFromContext(ctx).(*recordingLogger)
	if !ok {
		t.Fatalf("Expected *recordingLogger, got %T", LoggerFromContext(ctx))
	}
	if got != want {
		t.Errorf("Expected the attached logger back, got %v", got)
	}
}

func TestContextWithLogger_NilParent(t *testing.T) {
	//nolint:staticcheck // nil parent is part of the contract under test
	ctx := ContextWithLogger(nil, Nop())
	if ctx == nil {
		t.Fatal("ContextWithLogger returned nil context")
	}
	if LoggerFromContext(ctx) == nil {
		t.Error("Expected logger to be attached")
	}
}
