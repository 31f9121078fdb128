package counter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	c := New(5)
	assert.Equal(t, 6, c.Increment())
	assert.Equal(t, 5, c.Decrement())
	assert.Equal(t, 4, c.Decrement())
	assert.Equal(t, 0, c.Reset())
	assert.Equal(t, -1, c.Decrement())
	assert.Equal(t, -1, c.Value())
}

func TestCounterConcurrent(t *testing.T) {
	c := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Increment()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Value())
}
