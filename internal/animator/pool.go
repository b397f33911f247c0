package animator

// Pool recycles the state of destroyed controllers so that heavy
// register/destroy churn does not allocate it again. A Pool is not safe for
// concurrent use; share one only between animators driven by the same
// goroutine.
type Pool struct {
	free    []*slot
	maxSize int
}

// NewPool creates a pool that retains at most maxSize released entries.
// maxSize <= 0 means unbounded.
func NewPool(maxSize int) *Pool {
	return &Pool{maxSize: maxSize}
}

// acquire returns a reset slot, reusing a released one when available.
func (p *Pool) acquire() *slot {
	if n := len(p.free); n > 0 {
		s := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return s
	}
	return &slot{index: -1}
}

// release resets s and keeps it for reuse. Slots still attached to an
// animator are ignored.
func (p *Pool) release(s *slot) {
	if s == nil || s.owner != nil {
		return
	}
	s.reset()
	if p.maxSize > 0 && len(p.free) >= p.maxSize {
		return
	}
	p.free = append(p.free, s)
}

// Len returns the number of entries waiting for reuse.
func (p *Pool) Len() int {
	return len(p.free)
}
