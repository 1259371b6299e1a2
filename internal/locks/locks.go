package locks

import "sync"

// AuctionLocks serializes the read-check-write sequences that run against a
// single auction: bid admission/update/delete and settlement. Two concurrent
// admissions could otherwise both read the same current highest before either
// writes; taking the per-auction lock makes the monotonicity check race-free.
type AuctionLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewAuctionLocks() *AuctionLocks {
	return &AuctionLocks{locks: make(map[uint]*sync.Mutex)}
}

// Lock acquires the mutex for the given auction id and returns its unlock
// function. Mutexes are created on first use and kept for the process
// lifetime; the map grows with the number of distinct auctions touched.
func (l *AuctionLocks) Lock(auctionID uint) func() {
	l.mu.Lock()
	m, ok := l.locks[auctionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[auctionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
