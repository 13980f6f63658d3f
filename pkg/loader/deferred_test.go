package loader

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoad_SingleAttempt(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	fetchErr := errors.New("boom")

	d := Load(context.Background(), "abc", func(_ context.Context, id string) (string, error) {
		calls.Add(1)
		<-release
		return "", fetchErr
	})

	if d.Status() != Loading {
		t.Fatalf("expected loading, got %s", d.Status())
	}
	if _, err := d.Result(); !errors.Is(err, ErrPending) {
		t.Fatalf("expected ErrPending before settle, got %v", err)
	}

	close(release)
	if _, err := d.Await(context.Background()); !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if d.Status() != Failed {
		t.Fatalf("expected failed, got %s", d.Status())
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one fetch, got %d", got)
	}
}

func TestUntil_PlaceholderThenReady(t *testing.T) {
	release := make(chan struct{})
	d := Load(context.Background(), "42", func(_ context.Context, id string) (string, error) {
		<-release
		return "item-" + id, nil
	})

	var phases []string
	err := Until(context.Background(), d, Handlers[string]{
		Placeholder: func(context.Context) error {
			phases = append(phases, "placeholder")
			close(release)
			return nil
		},
		Ready: func(_ context.Context, value string) error {
			phases = append(phases, value)
			return nil
		},
	}, 0)
	if err != nil {
		t.Fatalf("until: %v", err)
	}
	if len(phases) != 2 || phases[0] != "placeholder" || phases[1] != "item-42" {
		t.Fatalf("unexpected phases: %v", phases)
	}
}

func TestUntil_SkipsPlaceholderWhenAlreadyResolved(t *testing.T) {
	d := Resolved("1", 7)

	placeholder := false
	var got int
	err := Until(context.Background(), d, Handlers[int]{
		Placeholder: func(context.Context) error {
			placeholder = true
			return nil
		},
		Ready: func(_ context.Context, value int) error {
			got = value
			return nil
		},
	}, 0)
	if err != nil {
		t.Fatalf("until: %v", err)
	}
	if placeholder {
		t.Fatalf("placeholder rendered for a resolved value")
	}
	if got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestUntil_WaitsBeforePlaceholder(t *testing.T) {
	d := Load(context.Background(), "fast", func(context.Context, string) (string, error) {
		return "ok", nil
	})

	placeholder := false
	err := Until(context.Background(), d, Handlers[string]{
		Placeholder: func(context.Context) error {
			placeholder = true
			return nil
		},
		Ready: func(context.Context, string) error { return nil },
	}, time.Second)
	if err != nil {
		t.Fatalf("until: %v", err)
	}
	if placeholder {
		t.Fatalf("placeholder rendered although the value settled in time")
	}
}

func TestUntil_Failed(t *testing.T) {
	d := Load(context.Background(), "x", func(context.Context, string) (string, error) {
		return "", errors.New("not found")
	})

	var failure error
	err := Until(context.Background(), d, Handlers[string]{
		Ready: func(context.Context, string) error {
			t.Fatalf("ready must not run on failure")
			return nil
		},
		Failed: func(_ context.Context, err error) error {
			failure = err
			return nil
		},
	}, 0)
	if err != nil {
		t.Fatalf("until: %v", err)
	}
	if failure == nil {
		t.Fatalf("expected failure handler to receive the load error")
	}

	err = Until(context.Background(), d, Handlers[string]{
		Ready: func(context.Context, string) error { return nil },
	}, 0)
	if err == nil {
		t.Fatalf("expected load error without a failure handler")
	}
}
