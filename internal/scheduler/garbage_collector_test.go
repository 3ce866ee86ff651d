package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/favtube/internal/logger"
)

type fakeCollector struct {
	calls atomic.Int32
	ratio atomic.Value
	err   error
}

func (f *fakeCollector) CollectGarbage(discardRatio float64) (int, error) {
	f.calls.Add(1)
	f.ratio.Store(discardRatio)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func TestGarbageCollector_Collect(t *testing.T) {
	fc := &fakeCollector{}
	gc := NewGarbageCollector(fc, logger.NewNop(), time.Hour, 0.7)

	if err := gc.Collect(context.Background()); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if fc.calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", fc.calls.Load())
	}
	if r := fc.ratio.Load().(float64); r != 0.7 {
		t.Errorf("discard ratio = %v, want 0.7", r)
	}
}

func TestGarbageCollector_DefaultRatio(t *testing.T) {
	for _, ratio := range []float64{0, -1, 1, 3} {
		gc := NewGarbageCollector(&fakeCollector{}, logger.NewNop(), time.Hour, ratio)
		if gc.discardRatio != DefaultDiscardRatio {
			t.Errorf("ratio %v: discardRatio = %v, want %v", ratio, gc.discardRatio, DefaultDiscardRatio)
		}
	}
}

func TestGarbageCollector_CollectError(t *testing.T) {
	boom := errors.New("disk on fire")
	gc := NewGarbageCollector(&fakeCollector{err: boom}, logger.NewNop(), time.Hour, 0.5)

	if err := gc.Collect(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Collect() error = %v, want %v", err, boom)
	}
}

func TestGarbageCollector_CanceledContext(t *testing.T) {
	fc := &fakeCollector{}
	gc := NewGarbageCollector(fc, logger.NewNop(), time.Hour, 0.5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := gc.Collect(ctx); err == nil {
		t.Error("Collect() should fail on a canceled context")
	}
	if fc.calls.Load() != 0 {
		t.Errorf("collector should not run, got %d calls", fc.calls.Load())
	}
}

func TestGarbageCollector_StartStop(t *testing.T) {
	fc := &fakeCollector{}
	gc := NewGarbageCollector(fc, logger.NewNop(), 10*time.Millisecond, 0.5)

	if err := gc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for fc.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	gc.Stop()
	gc.Stop()

	if fc.calls.Load() < 3 {
		t.Fatalf("expected periodic collections, got %d", fc.calls.Load())
	}

	// No more runs once stopped.
	time.Sleep(30 * time.Millisecond)
	after := fc.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if fc.calls.Load() != after {
		t.Errorf("collector kept running after Stop: %d -> %d", after, fc.calls.Load())
	}
}

func TestGarbageCollector_InvalidInterval(t *testing.T) {
	gc := NewGarbageCollector(&fakeCollector{}, logger.NewNop(), 0, 0.5)
	if err := gc.Start(context.Background()); err == nil {
		t.Error("Start() should reject a zero interval")
	}
}
