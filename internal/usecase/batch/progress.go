package batch

// progress tracks the low-water mark of finished pair indices. Workers
// finish out of order, so indices past a gap are held until it closes.
type progress struct {
	next int64
	done map[int64]struct{}
}

func newProgress(start int64) *progress {
	return &progress{next: start, done: make(map[int64]struct{})}
}

func (p *progress) mark(index int64) {
	if index < p.next {
		return
	}
	p.done[index] = struct{}{}
	for {
		if _, ok := p.done[p.next]; !ok {
			return
		}
		delete(p.done, p.next)
		p.next++
	}
}

// watermark is the highest index with every index up to it finished, or
// start-1 when nothing contiguous has finished yet.
func (p *progress) watermark() int64 {
	return p.next - 1
}
