package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCacheGetMissing(t *testing.T) {
	c := New[string, int]()
	if v, ok := c.Get("absent"); ok || v != 0 {
		t.Errorf("Get(absent) = (%d, %v), want (0, false)", v, ok)
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int]()

	calls := 0
	create := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := c.GetOrCreate("key", create)
	if err != nil {
		t.Fatalf("GetOrCreate() = %v", err)
	}
	if v != 42 {
		t.Errorf("GetOrCreate() = %d, want 42", v)
	}

	// Second call must reuse the stored value.
	v, err = c.GetOrCreate("key", create)
	if err != nil {
		t.Fatalf("GetOrCreate() = %v", err)
	}
	if v != 42 || calls != 1 {
		t.Errorf("second GetOrCreate() = %d with %d creations, want 42 with 1", v, calls)
	}

	if got, ok := c.Get("key"); !ok || got != 42 {
		t.Errorf("Get(key) = (%d, %v), want (42, true)", got, ok)
	}
}

func TestCacheGetOrCreateError(t *testing.T) {
	c := New[string, int]()

	fail := errors.New("create failed")
	calls := 0

	_, err := c.GetOrCreate("key", func() (int, error) {
		calls++
		return 0, fail
	})
	if !errors.Is(err, fail) {
		t.Fatalf("GetOrCreate() = %v, want wrapped create error", err)
	}
	if c.Len() != 0 {
		t.Errorf("failed creation was stored, Len() = %d", c.Len())
	}

	// The failure is not memoized: the next call retries.
	v, err := c.GetOrCreate("key", func() (int, error) {
		calls++
		return 7, nil
	})
	if err != nil || v != 7 {
		t.Errorf("retry GetOrCreate() = (%d, %v), want (7, nil)", v, err)
	}
	if calls != 2 {
		t.Errorf("create ran %d times, want 2", calls)
	}
}

func TestCacheClear(t *testing.T) {
	c := New[int, string]()
	for i := range 5 {
		_, _ = c.GetOrCreate(i, func() (string, error) { return "v", nil })
	}
	if c.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestCacheConcurrentGetOrCreate(t *testing.T) {
	c := New[int, int]()

	const goroutines = 100
	var creations atomic.Int64
	var wg sync.WaitGroup

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrCreate(1, func() (int, error) {
				creations.Add(1)
				return 99, nil
			})
			if err != nil || v != 99 {
				t.Errorf("GetOrCreate() = (%d, %v), want (99, nil)", v, err)
			}
		}()
	}
	wg.Wait()

	if got := creations.Load(); got != 1 {
		t.Errorf("create ran %d times under contention, want 1", got)
	}
}

func BenchmarkCacheHit(b *testing.B) {
	c := New[int, int]()
	_, _ = c.GetOrCreate(1, func() (int, error) { return 42, nil })

	b.ReportAllocs()
	for b.Loop() {
		_, _ = c.GetOrCreate(1, func() (int, error) { return 0, nil })
	}
}
