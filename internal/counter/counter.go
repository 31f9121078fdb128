package counter

import "sync"

// Counter is an integer that can be stepped up, down, or reset to zero.
type Counter struct {
	mu    sync.Mutex
	value int
}

// New returns a counter starting at start.
func New(start int) *Counter {
	return &Counter{value: start}
}

// Increment adds one and returns the new value.
func (c *Counter) Increment() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value++
	return c.value
}

// Decrement subtracts one and returns the new value.
func (c *Counter) Decrement() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value--
	return c.value
}

// Reset sets the value to zero and returns it.
func (c *Counter) Reset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = 0
	return c.value
}

// Value returns the current value.
func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
