package sched

import (
	"krtos/internal/kutil"
	"krtos/internal/readylist"
	"krtos/internal/tcb"
)

// preemptive uses the same tick-counter/PENDING-marking logic as
// periodic, but dispatches by highest priority among PENDING TCBs
// instead of ring order, tie-breaking by ring order (spec.md §4.3).
// Init pre-sorts the ring by descending priority
// (readylist.Ring.CloseSortedByPriority), so a single ring walk
// visiting PENDING candidates in priority order already resolves ties
// in favor of the earlier (higher- or equal-priority) entry.
type preemptive struct {
	tickCounter uint32
}

func (p *preemptive) Tick(r *readylist.Ring) {
	p.tickCounter = kutil.WrapIncrement(p.tickCounter, tickCounterLimit)
	markPending(r, p.tickCounter)
	p.dispatch(r)
}

func (p *preemptive) Yield(r *readylist.Ring) {
	p.dispatch(r)
}

// dispatch selects the highest-priority PENDING TCB within one
// revolution starting at current.Next, per spec.md §9's resolution of
// the source's assignment typo: "select tcb[i] as current." Ties are
// broken by whichever candidate the walk reaches first, which is ring
// order — descending-priority ring order after Init's pre-sort.
func (p *preemptive) dispatch(r *readylist.Ring) {
	start := r.At(r.Current()).Next
	best := -1
	var bestPriority uint8
	r.Walk(start, func(idx int) bool {
		t := r.At(idx)
		if t.State == tcb.Pending && (best < 0 || t.Priority > bestPriority) {
			best = idx
			bestPriority = t.Priority
		}
		return true
	})

	if best < 0 {
		r.SetCurrent(r.Fallback())
		return
	}
	r.At(best).State = tcb.Inactive
	r.SetCurrent(best)
}
