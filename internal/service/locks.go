package service

import "sync"

// userLocks hands out one mutex per user. The zero value is ready to use.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *userLocks) get(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}
