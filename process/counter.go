package process

// Counter hands out the ids used for generated names. Each generation owns
// its own counter, so concurrent generations never share a sequence.
type Counter struct {
	next int
}

func NewCounter(start int) *Counter {
	return &Counter{next: start}
}

// Next returns the current id and advances the counter.
func (c *Counter) Next() int {
	id := c.next
	c.next++
	return id
}

// Reset makes start the next id handed out.
func (c *Counter) Reset(start int) {
	c.next = start
}
