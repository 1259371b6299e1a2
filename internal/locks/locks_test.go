package locks

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Two goroutines hammering the same auction id must never overlap inside the
// critical section.
func TestAuctionLocks_MutualExclusion(t *testing.T) {
	t.Parallel()

	l := NewAuctionLocks()

	const goroutines = 16
	const iterations = 200

	counter := 0
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				unlock := l.Lock(1)
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, goroutines*iterations, counter)
}

// Locks for distinct auctions are independent: holding one must not block
// another.
func TestAuctionLocks_IndependentAuctions(t *testing.T) {
	t.Parallel()

	l := NewAuctionLocks()

	unlock1 := l.Lock(1)
	defer unlock1()

	done := make(chan struct{})
	go func() {
		unlock2 := l.Lock(2)
		unlock2()
		close(done)
	}()

	<-done // deadlocks here if auction 2 waited on auction 1
}

// The same unlock can be taken and released repeatedly.
func TestAuctionLocks_Reentry(t *testing.T) {
	t.Parallel()

	l := NewAuctionLocks()
	for i := 0; i < 10; i++ {
		unlock := l.Lock(7)
		unlock()
	}
}
