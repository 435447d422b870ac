package camera

import (
	"errors"
	"sync"
	"testing"
)

func TestAcquireIsExclusive(t *testing.T) {
	first, err := Acquire("cam-1", 10)
	if err != nil {
		t.Fatal(err)
	}
	defer first.Release()

	if _, err := Acquire("cam-1", 20); !errors.Is(err, ErrCameraBusy) {
		t.Fatalf("second acquire err = %v, want ErrCameraBusy", err)
	}
	// A different camera ID is not affected
	other, err := Acquire("cam-2", 20)
	if err != nil {
		t.Fatal(err)
	}
	other.Release()
}

func TestReleaseAllowsReacquire(t *testing.T) {
	session, err := Acquire("cam-3", 1)
	if err != nil {
		t.Fatal(err)
	}
	session.Release()
	again, err := Acquire("cam-3", 2)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again.Release()
}

func TestConcurrentAcquireSingleWinner(t *testing.T) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := []*Session{}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			if s, err := Acquire("cam-race", userID); err == nil {
				mu.Lock()
				winners = append(winners, s)
				mu.Unlock()
			}
		}(uint64(i))
	}
	wg.Wait()
	if len(winners) != 1 {
		t.Fatalf("winners = %d, want exactly 1", len(winners))
	}
	winners[0].Release()
}
