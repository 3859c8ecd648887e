package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/ahluxe/internal/messaging"
)

var _ messaging.IDGenerator = (*SequentialIDs)(nil)

func TestSequentialIDs(t *testing.T) {
	g := NewSequentialIDs("")
	assert.Equal(t, "msg-0001", g.Generate())
	assert.Equal(t, "msg-0002", g.Generate())

	g.Reset()
	assert.Equal(t, "msg-0001", g.Generate())
}

func TestSequentialIDs_Prefix(t *testing.T) {
	g := NewSequentialIDs("order")
	assert.Equal(t, "order-0001", g.Generate())
}

func TestSequentialIDs_Concurrent(t *testing.T) {
	g := NewSequentialIDs("msg")
	seen := sync.Map{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, dup := seen.LoadOrStore(g.Generate(), true)
			assert.False(t, dup)
		}()
	}
	wg.Wait()

	assert.Equal(t, "msg-0051", g.Generate())
}
