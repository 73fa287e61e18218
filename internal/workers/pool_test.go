package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestForEach_VisitsEveryItem(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i + 1
	}
	out := make([]int, len(items))
	var running, peak atomic.Int32

	err := ForEach(context.Background(), "test", 3, items, func(_ context.Context, i int, v int) error {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		out[i] = v * 2
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	for i, v := range out {
		if v != (i+1)*2 {
			t.Fatalf("out[%d] = %d, want %d", i, v, (i+1)*2)
		}
	}
	if p := peak.Load(); p > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", p)
	}
}

func TestForEach_FirstErrorStops(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	err := ForEach(context.Background(), "test", 1, make([]struct{}, 50), func(_ context.Context, i int, _ struct{}) error {
		calls.Add(1)
		if i == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if n := calls.Load(); n >= 50 {
		t.Errorf("fn called %d times after an error", n)
	}
}

func TestForEach_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int32
	err := ForEach(ctx, "test", 4, make([]int, 10), func(context.Context, int, int) error {
		calls.Add(1)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls.Load() != 0 {
		t.Errorf("fn called %d times on a cancelled context", calls.Load())
	}
}
