package sched

import "krtos/internal/readylist"

// roundRobin advances to the next ring member on every tick, ignoring
// state and period entirely (spec.md §4.3). There is no PENDING
// concept under this policy, so Yield behaves the same as Tick: the
// only notion of "someone else" it has is the next ring slot.
type roundRobin struct{}

func (p *roundRobin) Tick(r *readylist.Ring) {
	p.advance(r)
}

func (p *roundRobin) Yield(r *readylist.Ring) {
	p.advance(r)
}

func (p *roundRobin) advance(r *readylist.Ring) {
	current := r.Current()
	r.SetCurrent(r.At(current).Next)
}
