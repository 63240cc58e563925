package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeService struct {
	name     string
	startErr error
	block    bool

	mu      sync.Mutex
	stopped bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	if s.block {
		<-ctx.Done()
	}
	return nil
}

func (s *fakeService) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *fakeService) wasStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	boom := errors.New("listen failed")
	failing := &fakeService{name: "http", startErr: boom}
	blocking := &fakeService{name: "worker", block: true}

	hookCalls := 0
	runner := NewRunner(failing, blocking)
	runner.OnShutdown(func() { hookCalls++ })

	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("run error want %v got %v", boom, err)
	}
	if !failing.wasStopped() || !blocking.wasStopped() {
		t.Fatalf("all services should be stopped")
	}
	if hookCalls != 1 {
		t.Fatalf("shutdown hook calls want 1 got %d", hookCalls)
	}
}

func TestRunnerCancelledContextIsCleanExit(t *testing.T) {
	svc := &fakeService{name: "http", block: true}
	runner := NewRunner(svc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancelled run should return nil, got %v", err)
	}
	if !svc.wasStopped() {
		t.Fatalf("service should be stopped")
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]string{"": ModeAll, " API ": ModeAPI, "worker": ModeWorker, "all": ModeAll}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) want %s got %s err=%v", raw, want, got, err)
		}
	}
	if _, err := ParseMode("batch"); err == nil {
		t.Fatalf("unknown mode should be rejected")
	}
}

func TestRunnerRejectsNilService(t *testing.T) {
	if err := NewRunner(&fakeService{name: "http"}, nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("nil service should be rejected")
	}
}

func TestRunnerHooksRunInReverseOrder(t *testing.T) {
	var order []string
	runner := NewRunner(&fakeService{name: "http"})
	runner.OnShutdown(func() { order = append(order, "db") })
	runner.OnShutdown(func() { order = append(order, "queue") })

	if err := runner.Run(context.Background(), time.Second, nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(order) != 2 || order[0] != "queue" || order[1] != "db" {
		t.Fatalf("unexpected hook order: %v", order)
	}
}
