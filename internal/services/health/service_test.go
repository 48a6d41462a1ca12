package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStatus(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name         string
		svc          *Service
		wantOK       bool
		wantDegraded bool
	}{
		{"no checks", NewService(), true, false},
		{"all healthy", NewService().Require("database", ok).Observe("backend", ok), true, false},
		{"optional failing", NewService().Require("database", ok).Observe("backend", down), true, true},
		{"critical failing", NewService().Require("database", down).Observe("backend", ok), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.svc.Status(context.Background())
			if r.OK != tt.wantOK || r.Degraded != tt.wantDegraded {
				t.Fatalf("got %+v", r)
			}
		})
	}
}

func TestStatusHonorsTimeout(t *testing.T) {
	svc := NewService().Require("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	svc.Timeout = 10 * time.Millisecond

	start := time.Now()
	r := svc.Status(context.Background())
	if r.OK || r.Checks["slow"] != context.DeadlineExceeded.Error() {
		t.Fatalf("expected deadline failure, got %+v", r)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("status did not respect timeout")
	}
}
