package core

// IDPool hands out small uint32 identifiers and recycles released ones.
// Backends whose native objects are not integers (WebGL, the null driver)
// use it to key their handle tables. Zero is never handed out; it is the
// reserved "no resource" value.
type IDPool struct {
	next uint32
	free []uint32
}

func NewIDPool() *IDPool {
	return &IDPool{next: 1}
}

// Acquire returns a fresh or recycled identifier.
func (p *IDPool) Acquire() uint32 {
	if n := len(p.free); n > 0 {
		id := p.free[n-1]
		p.free = p.free[:n-1]
		return id
	}
	id := p.next
	p.next++
	return id
}

// Release puts an identifier back into the pool. Releasing zero is a no-op.
func (p *IDPool) Release(id uint32) {
	if id == 0 {
		return
	}
	p.free = append(p.free, id)
}
