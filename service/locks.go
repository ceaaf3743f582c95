package services

import "sync"

// userLocks serializes checklist mutations per client. Regeneration is a
// multi-statement diff and uploads link against its result, so a
// concurrent upload racing a regeneration could link to an item that is
// deleted a moment later. Holding the user's lock across both removes
// the race.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

func (u *userLocks) forUser(userID string) *sync.Mutex {
	u.mu.Lock()
	defer u.mu.Unlock()
	if l, ok := u.locks[userID]; ok {
		return l
	}
	l := &sync.Mutex{}
	u.locks[userID] = l
	return l
}
