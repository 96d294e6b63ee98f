package utils

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolRunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(3)

	var counter int64
	for i := 0; i < 50; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
	}
	pool.Wait()

	if counter != 50 {
		t.Errorf("jobs run = %d, want 50", counter)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	const maxWorkers = 4
	pool := NewWorkerPool(maxWorkers)

	var running, peak int64
	for i := 0; i < 40; i++ {
		pool.Submit(func() {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			atomic.AddInt64(&running, -1)
		})
	}
	pool.Wait()

	if peak > maxWorkers {
		t.Errorf("peak concurrency = %d, want at most %d", peak, maxWorkers)
	}
}

func TestWorkerPoolMinimumOfOne(t *testing.T) {
	pool := NewWorkerPool(0)

	ran := false
	pool.Submit(func() { ran = true })
	pool.Wait()

	if !ran {
		t.Error("job did not run with clamped worker count")
	}
}

func TestURLSetAdd(t *testing.T) {
	set := NewURLSet()

	if !set.Add("https://example.com/a") {
		t.Error("first add should report new")
	}
	if set.Add("https://example.com/a") {
		t.Error("second add should report duplicate")
	}
	if !set.Contains("https://example.com/a") {
		t.Error("added URL not found")
	}
	if set.Contains("https://example.com/b") {
		t.Error("unknown URL reported present")
	}
	if set.Size() != 1 {
		t.Errorf("size = %d, want 1", set.Size())
	}
}

func TestURLSetConcurrentAdds(t *testing.T) {
	set := NewURLSet()

	var added int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if set.Add("https://example.com/shared") {
				atomic.AddInt64(&added, 1)
			}
		}()
	}
	wg.Wait()

	if added != 1 {
		t.Errorf("adds reported new = %d, want exactly 1", added)
	}
}
