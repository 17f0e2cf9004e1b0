package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"moodtrack/internal/app"
	"moodtrack/internal/domain"
)

func TestJobController_Enable(t *testing.T) {
	js := &mockJobScheduler{}
	worker := app.NewBackgroundIngestJob(stubGate{}, &mockLocation{}, &mockIngestRepo{}, nil)
	c := app.NewJobController(js, worker, nil)

	if err := c.Enable(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(js.enqueued) != 1 {
		t.Fatalf("expected 1 enqueue, got %d", len(js.enqueued))
	}
	w := js.enqueued[0]
	if w.Name != "location-ingest" || w.Policy != domain.KeepExisting {
		t.Fatalf("unexpected identity %q policy %v", w.Name, w.Policy)
	}
	if w.Period != 15*time.Minute {
		t.Fatalf("expected 15m period, got %v", w.Period)
	}
	if !w.Constraints.BatteryNotLow || !w.Constraints.NetworkConnected {
		t.Fatalf("unexpected constraints %+v", w.Constraints)
	}
	if w.Backoff.Initial != 30*time.Second {
		t.Fatalf("expected 30s initial backoff, got %v", w.Backoff.Initial)
	}
	if w.Worker != worker {
		t.Fatal("worker not passed through")
	}
}

func TestJobController_EnqueueError(t *testing.T) {
	boom := errors.New("scheduler stopped")
	js := &mockJobScheduler{enqueueFn: func(context.Context, domain.PeriodicWork) error { return boom }}
	c := app.NewJobController(js, nil, nil)

	if err := c.Enable(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestJobController_Apply(t *testing.T) {
	js := &mockJobScheduler{}
	c := app.NewJobController(js, nil, nil)

	_ = c.Apply(context.Background(), true)
	_ = c.Apply(context.Background(), false)
	_ = c.Apply(context.Background(), false)

	if len(js.enqueued) != 1 {
		t.Fatalf("expected 1 enqueue, got %d", len(js.enqueued))
	}
	if len(js.cancelled) != 2 || js.cancelled[0] != app.IngestWorkName {
		t.Fatalf("unexpected cancels %v", js.cancelled)
	}
}
