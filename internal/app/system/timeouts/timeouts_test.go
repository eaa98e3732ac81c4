package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 7 * time.Second})
	if Short() != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", Short())
	}
	if Ping() != DefaultPing {
		t.Errorf("Ping() = %v, zero field should keep default", Ping())
	}

	Reset()
	if Current() != (Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong}) {
		t.Errorf("Reset() left %+v", Current())
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.New(core), "slow query")
	<-ctx.Done()
	cancel()

	if logs.Len() != 1 {
		t.Fatalf("warnings = %d, want 1", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["operation"]; got != "slow query" {
		t.Errorf("operation = %v", got)
	}

	ctx, cancel = WithTimeout(context.Background(), time.Second, zap.New(core), "fast")
	cancel()
	_ = ctx
	if logs.Len() != 1 {
		t.Errorf("a canceled context should not log")
	}
}
