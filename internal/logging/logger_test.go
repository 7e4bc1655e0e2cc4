package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Spok95/vocab-scale/internal/ctxutil"
)

func TestInitFallsBackToInfo(t *testing.T) {
	l, err := Init("nonsense", "prod")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Closer()
	if got := l.Level.Level(); got != zap.InfoLevel {
		t.Fatalf("level = %v, want info", got)
	}
}

func TestWithAddsContextFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := zap.New(core)

	ctx := ctxutil.WithOp(ctxutil.WithUserID(context.Background(), "u-1"), "quiz.submit")
	With(ctx, base).Info("answer saved")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["user_id"] != "u-1" || fields["op"] != "quiz.submit" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields["chat_id"]; ok {
		t.Fatalf("chat_id set without a chat in context: %v", fields)
	}
}
