package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions int32

	const callers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, _ := g.Do("live-scoreboard", func() (any, error) {
				atomic.AddInt32(&executions, 1)
				time.Sleep(20 * time.Millisecond)
				return 7, nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if got, ok := val.(int); !ok || got != 7 {
				t.Errorf("unexpected shared value: %v", val)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Fatalf("expected one execution, got %d", got)
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	var g SingleFlight

	a, err, shared := g.Do("a", func() (any, error) { return "first", nil })
	if err != nil || shared {
		t.Fatalf("unexpected result: err=%v shared=%v", err, shared)
	}
	b, err, shared := g.Do("b", func() (any, error) { return "second", nil })
	if err != nil || shared {
		t.Fatalf("unexpected result: err=%v shared=%v", err, shared)
	}
	if a == b {
		t.Fatalf("expected independent results, got %v and %v", a, b)
	}
}
