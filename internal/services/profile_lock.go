package services

import "sync"

// profileLocks serializes read-modify-write cycles on one profile's state.
type profileLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// lock blocks until profileID is free and returns its unlock func.
func (p *profileLocks) lock(profileID int64) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[int64]*sync.Mutex)
	}
	l, ok := p.locks[profileID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[profileID] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
