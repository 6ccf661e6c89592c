package watch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedger_MarkIfNew(t *testing.T) {
	l := NewLedger()

	assert.True(t, l.MarkIfNew("n-1"))
	assert.False(t, l.MarkIfNew("n-1"))
	assert.True(t, l.MarkIfNew("n-2"))
	assert.Equal(t, 2, l.Len())
}

func TestLedger_SeenAndMark(t *testing.T) {
	l := NewLedger()

	assert.False(t, l.Seen("n-1"))
	l.Mark("n-1")
	assert.True(t, l.Seen("n-1"))
}

func TestLedger_Reset(t *testing.T) {
	l := NewLedger()
	l.Mark("n-1")
	l.Mark("n-2")

	l.Reset()

	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Seen("n-1"))
	// IDs are new again after a reset.
	assert.True(t, l.MarkIfNew("n-1"))
}

func TestLedger_MarkIfNewConcurrent(t *testing.T) {
	l := NewLedger()

	var wg sync.WaitGroup
	wins := make(chan struct{}, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.MarkIfNew("contested") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count, "exactly one goroutine may claim an id")
}
