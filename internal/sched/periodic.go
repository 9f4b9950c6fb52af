package sched

import (
	"krtos/internal/kutil"
	"krtos/internal/readylist"
	"krtos/internal/tcb"
)

// tickCounterLimit is the modulus the monotonic tick counter wraps at
// (spec.md §3 invariant: "tick_counter modulo 1000 is always in
// [0, 999]").
const tickCounterLimit = 1000

// periodic marks TCBs PENDING when the tick counter lines up with
// their period, then dispatches the first PENDING TCB found walking
// the ring in order, falling back to the pool's last slot (spec.md
// §4.3).
type periodic struct {
	tickCounter uint32
}

func (p *periodic) Tick(r *readylist.Ring) {
	p.tickCounter = kutil.WrapIncrement(p.tickCounter, tickCounterLimit)
	markPending(r, p.tickCounter)
	p.dispatch(r)
}

func (p *periodic) Yield(r *readylist.Ring) {
	p.dispatch(r)
}

func (p *periodic) dispatch(r *readylist.Ring) {
	start := r.At(r.Current()).Next
	if found := walkForFirstPending(r, start); found >= 0 {
		r.At(found).State = tcb.Inactive
		r.SetCurrent(found)
		return
	}
	r.SetCurrent(r.Fallback())
}

// markPending sets State=Pending on every TCB whose period divides
// tickCounter (spec.md §4.3: "For each TCB i, if tick_counter %
// tcb[i].period == 0, set tcb[i].state = PENDING").
func markPending(r *readylist.Ring, tickCounter uint32) {
	r.ForEach(func(idx int) {
		t := r.At(idx)
		if tickCounter%uint32(t.Period) == 0 {
			t.State = tcb.Pending
		}
	})
}
