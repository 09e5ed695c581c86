package redislock

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLocalLockSerializesSameKey(t *testing.T) {
	l := NewLocal()
	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(context.Background(), "user-1")
			if err != nil {
				t.Errorf("Lock: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Fatalf("expected exclusive access, saw %d holders", maxSeen)
	}
	if n := l.(*keyedMutex).size(); n != 0 {
		t.Fatalf("expected lock table drained, got %d", n)
	}
}

func TestLocalLockRespectsContext(t *testing.T) {
	l := NewLocal()
	release, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, "k"); err == nil {
		t.Fatalf("expected timeout while key held")
	}
	release()

	again, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	again()
}

func TestLocalLockIndependentKeys(t *testing.T) {
	l := NewLocal()
	a, err := l.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("Lock a: %v", err)
	}
	defer a()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	b, err := l.Lock(ctx, "b")
	if err != nil {
		t.Fatalf("Lock b should not block on a: %v", err)
	}
	b()
}
