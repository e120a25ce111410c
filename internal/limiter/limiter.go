// Package limiter gates the web surface so one operation runs at a time.
package limiter

// Gate admits a bounded number of concurrent holders without blocking.
type Gate struct {
	sem chan struct{}
}

// New returns a gate admitting n concurrent holders. Anything below one
// means a single holder.
func New(n int) *Gate {
	if n < 1 {
		n = 1
	}
	return &Gate{sem: make(chan struct{}, n)}
}

// TryAcquire reserves a slot. It returns a release function and true, or
// a no-op function and false when every slot is held.
func (g *Gate) TryAcquire() (func(), bool) {
	select {
	case g.sem <- struct{}{}:
		return func() { <-g.sem }, true
	default:
		return func() {}, false
	}
}

// Busy reports whether every slot is currently held.
func (g *Gate) Busy() bool {
	return len(g.sem) == cap(g.sem)
}
