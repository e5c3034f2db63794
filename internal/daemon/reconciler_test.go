package daemon

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/handlers"
	"github.com/1broseidon/tagtile/internal/models"
)

func TestReconciler_DropsVanishedWindows(t *testing.T) {
	fb := newFakeBackend()
	loop := startLoop(t, fb, config.DefaultConfig())

	send(t, fb, handlers.CreateEvent{Window: models.NewWindow(1, "a")})
	send(t, fb, handlers.CreateEvent{Window: models.NewWindow(2, "b")})

	fb.mu.Lock()
	fb.gone[2] = true
	fb.mu.Unlock()

	r := NewReconciler(ReconcilerConfig{Logger: discardLogger()}, loop, fb.ExistingWindows)
	removed := r.ReconcileNow(testContext(t))
	if !slices.Equal(removed, []models.WindowHandle{2}) {
		t.Fatalf("removed = %v, want [2]", removed)
	}

	handles, err := loop.ManagedHandles(testContext(t))
	if err != nil {
		t.Fatalf("ManagedHandles() error: %v", err)
	}
	if !slices.Equal(handles, []models.WindowHandle{1}) {
		t.Fatalf("handles = %v, want [1]", handles)
	}
}

func TestReconciler_NothingManaged(t *testing.T) {
	fb := newFakeBackend()
	loop := startLoop(t, fb, config.DefaultConfig())

	called := false
	r := NewReconciler(ReconcilerConfig{Logger: discardLogger()}, loop, func(h []models.WindowHandle) ([]models.WindowHandle, error) {
		called = true
		return h, nil
	})
	if removed := r.ReconcileNow(testContext(t)); len(removed) != 0 {
		t.Fatalf("removed = %v, want none", removed)
	}
	if called {
		t.Fatal("display server should not be queried with no managed windows")
	}
}

type stubTarget struct {
	handles  []models.WindowHandle
	injected []handlers.Event
}

func (s *stubTarget) ManagedHandles(context.Context) ([]models.WindowHandle, error) {
	return s.handles, nil
}

func (s *stubTarget) Inject(_ context.Context, ev handlers.Event) error {
	s.injected = append(s.injected, ev)
	return nil
}

func TestReconciler_QueryFailureKeepsWindows(t *testing.T) {
	target := &stubTarget{handles: []models.WindowHandle{1, 2}}
	r := NewReconciler(ReconcilerConfig{Logger: discardLogger()}, target, func([]models.WindowHandle) ([]models.WindowHandle, error) {
		return nil, errors.New("connection lost")
	})

	if removed := r.ReconcileNow(context.Background()); len(removed) != 0 {
		t.Fatalf("removed = %v, want none", removed)
	}
	if len(target.injected) != 0 {
		t.Fatalf("injected = %v, want none", target.injected)
	}
}

func TestReconciler_RecoversFromPanic(t *testing.T) {
	target := &stubTarget{handles: []models.WindowHandle{1}}
	r := NewReconciler(ReconcilerConfig{Logger: discardLogger()}, target, func([]models.WindowHandle) ([]models.WindowHandle, error) {
		panic("checker exploded")
	})

	if removed := r.ReconcileNow(context.Background()); removed != nil {
		t.Fatalf("removed = %v, want nil", removed)
	}
}

func TestReconciler_StoppedLoop(t *testing.T) {
	fb := newFakeBackend()
	loop, err := NewLoop(fb, config.DefaultConfig(), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	close(fb.events)
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	r := NewReconciler(ReconcilerConfig{Logger: discardLogger()}, loop, fb.ExistingWindows)
	if removed := r.ReconcileNow(context.Background()); len(removed) != 0 {
		t.Fatalf("removed = %v, want none", removed)
	}
}
