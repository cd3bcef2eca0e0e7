package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Short: 7 * time.Second})
	got := timeouts.Current()
	if got.Short != 7*time.Second {
		t.Errorf("Short = %v, want 7s", got.Short)
	}
	if got.Medium != timeouts.DefaultMedium {
		t.Errorf("Medium = %v, want default", got.Medium)
	}

	timeouts.Reset()
	if timeouts.Short() != timeouts.DefaultShort {
		t.Errorf("Short after Reset = %v", timeouts.Short())
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, zap.New(core), "slow query")
	<-ctx.Done()
	cancel()

	if logs.Len() != 1 {
		t.Fatalf("logged %d entries, want 1", logs.Len())
	}
	if op := logs.All()[0].ContextMap()["operation"]; op != "slow query" {
		t.Errorf("operation = %v", op)
	}
}
