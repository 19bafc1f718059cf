package submission

import "sync/atomic"

// counter is the process-scoped submission counter. It starts at zero, is
// incremented exactly once per successful submission, and offers no reset or
// decrement. Callers observe the count only through the returned value.
type counter struct {
	n atomic.Int64
}

// increment adds one and returns the post-increment value. The add is atomic
// so concurrent embedders cannot lose updates.
func (c *counter) increment() int64 {
	return c.n.Add(1)
}
