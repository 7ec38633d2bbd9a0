package worker

import (
	"context"
	"errors"
	"testing"
	"time"
)

type funcWorker func(ctx context.Context) error

func (f funcWorker) Start(ctx context.Context) error { return f(ctx) }

func TestManagerJoinsEarlyErrors(t *testing.T) {
	boom := errors.New("boom")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	m := NewManager(
		funcWorker(func(context.Context) error { return boom }),
		funcWorker(func(ctx context.Context) error { <-ctx.Done(); return nil }),
	)
	if err := m.Start(ctx); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestManagerCleanShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager(funcWorker(func(ctx context.Context) error { <-ctx.Done(); return nil }))
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("err = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop")
	}
}
