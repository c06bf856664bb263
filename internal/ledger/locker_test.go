package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockerDuplicateKeys(t *testing.T) {
	l := NewLocker()
	unlock := l.Lock("a", "a", "b")
	unlock()

	// Locking again proves nothing was left held.
	l.Lock("b", "a")()
}

func TestLockerOppositeOrder(t *testing.T) {
	l := NewLocker()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			defer l.Lock("x", "y")()
			counter++
		}()
		go func() {
			defer wg.Done()
			defer l.Lock("y", "x")()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 200, counter)
}
