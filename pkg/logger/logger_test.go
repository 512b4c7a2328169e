package logger

import (
	"context"
	"testing"
)

func TestInitAndGet(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	l := Get()
	if l == nil {
		t.Fatal("logger is nil after initialization")
	}

	named := l.Named("test")
	if named == nil {
		t.Fatal("named logger is nil")
	}

	// Exercise each level; output goes to stdout and is not asserted.
	ctx := context.Background()
	named.Debug(ctx, "debug message", String("key", "value"))
	named.Info(ctx, "info message", Int("count", 3), Bool("flag", true))
	named.Warn(ctx, "warn message", Float64("ratio", 0.5))
	named.Error(ctx, "error message", Error(nil))
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, level := range []string{"debug", "info", "warn", "warning", "error", ""} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("SetLevelString(%q) failed: %v", level, err)
		}
	}

	if err := SetLevelString("bogus"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Info(context.Background(), "should not appear")
}
