package store

import "sync"

// unitLocks hands out one mutex per unit id. Entries are dropped when the
// last holder releases them.
type unitLocks struct {
	mu    sync.Mutex
	locks map[uint]*unitLock
}

type unitLock struct {
	sync.Mutex
	refs int
}

func newUnitLocks() *unitLocks {
	return &unitLocks{locks: make(map[uint]*unitLock)}
}

// Lock blocks until the unit is free and returns the release func.
func (l *unitLocks) Lock(unitID uint) func() {
	l.mu.Lock()
	lk, ok := l.locks[unitID]
	if !ok {
		lk = &unitLock{}
		l.locks[unitID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.Lock()
	return func() {
		lk.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, unitID)
		}
		l.mu.Unlock()
	}
}
