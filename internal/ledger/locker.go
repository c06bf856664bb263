package ledger

import (
	"sort"
	"sync"
)

// Locker hands out one mutex per key. Keys are locked in sorted order so
// that two callers locking overlapping sets cannot deadlock.
type Locker struct {
	mapMu sync.Mutex
	muMap map[string]*sync.Mutex
}

func NewLocker() *Locker {
	return &Locker{muMap: make(map[string]*sync.Mutex)}
}

func (l *Locker) get(key string) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	mu, ok := l.muMap[key]
	if !ok {
		mu = &sync.Mutex{}
		l.muMap[key] = mu
	}
	return mu
}

// Lock acquires every distinct key and returns a function releasing them.
func (l *Locker) Lock(keys ...string) func() {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			unique = append(unique, k)
		}
	}
	sort.Strings(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, k := range unique {
		mu := l.get(k)
		mu.Lock()
		held = append(held, mu)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
