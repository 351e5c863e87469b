package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedaction(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Info("store configured", "backend", "mongo", "database_url", "mongodb://user:pw@host")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["database_url"] != "[REDACTED]" {
		t.Fatalf("database_url not redacted: %v", ctx["database_url"])
	}
	if ctx["backend"] != "mongo" {
		t.Fatalf("expected backend=mongo, got %v", ctx["backend"])
	}
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "production"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.Debug("hello")
	}
}
