package param

import (
	"sync"
	"testing"
)

type voiceParams struct {
	cutoff, drive, mix float64
}

func TestLoadNeverTornAcrossConcurrentPublish(t *testing.T) {
	known := []voiceParams{
		{cutoff: 100, drive: 1, mix: 0},
		{cutoff: 2000, drive: 2, mix: 0.5},
		{cutoff: 18000, drive: 4, mix: 1},
	}
	s := NewSnapshot(known[0])

	var wg sync.WaitGroup
	wg.Add(1)
	stop := make(chan struct{})
	go func() {
		defer wg.Done()
		i := 0
		for {
			select {
			case <-stop:
				return
			default:
				s.Publish(known[i%len(known)])
				i++
			}
		}
	}()

	isKnown := func(v voiceParams) bool {
		for _, k := range known {
			if v == k {
				return true
			}
		}
		return false
	}
	for i := 0; i < 100000; i++ {
		v := s.Load()
		if !isKnown(v) {
			close(stop)
			wg.Wait()
			t.Fatalf("observed torn/unknown record: %+v", v)
		}
	}
	close(stop)
	wg.Wait()
}

func TestLoadReturnsInitialValueBeforeAnyPublish(t *testing.T) {
	s := NewSnapshot(42)
	if got := s.Load(); got != 42 {
		t.Fatalf("Load() = %d, want 42", got)
	}
}
