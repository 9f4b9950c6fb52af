// Package readylist implements the circular, index-based ready-list
// over a fixed TCB pool (spec.md §4.2), grounded on
// original_source/RTOS/KRTOS/src/osKernel.c's osKernel_ThreadCreate
// (append-and-link) and osKernel_init (ring-closing loop). Following
// spec.md's Design Notes §9, the ring is threaded through array
// indices rather than pointers.
package readylist

import (
	"fmt"
	"sort"

	"krtos/internal/tcb"
)

// Ring owns every TCB it holds. The backing array is always sized
// tcb.MaxTasks (the hard, build-time ceiling); cap further restricts
// how many of those slots Append will actually use, so a caller's
// Config.MaxTasks can shrink the effective pool without touching the
// package-wide constant.
type Ring struct {
	tasks        [tcb.MaxTasks]tcb.TCB
	cap          int
	liveCount    int
	current      int
	lastAppended int
	fallback     int
	closed       bool
}

// New returns an empty ring whose Append accepts at most cap threads.
// current is -1 until the first Append. A cap outside
// [1, tcb.MaxTasks] is replaced by tcb.MaxTasks.
func New(cap int) *Ring {
	if cap <= 0 || cap > tcb.MaxTasks {
		cap = tcb.MaxTasks
	}
	return &Ring{cap: cap, current: tcb.NoNext, lastAppended: tcb.NoNext}
}

// Len reports the number of live TCBs.
func (r *Ring) Len() int { return r.liveCount }

// Closed reports whether Close has linked the ring shut.
func (r *Ring) Closed() bool { return r.closed }

// At returns the TCB at index idx. Callers must only use indices
// returned by Append or reached via Next / ForEach.
func (r *Ring) At(idx int) *tcb.TCB { return &r.tasks[idx] }

// Current returns the index of the current thread.
func (r *Ring) Current() int { return r.current }

// SetCurrent moves the current-thread pointer to idx. Scheduler
// policies are the only callers.
func (r *Ring) SetCurrent(idx int) { r.current = idx }

// Append claims a free slot, seeds it from cfg, and links it after the
// last-appended slot (spec.md §4.2: "O(1) when the last-appended TCB
// is tracked"). It returns the new slot's index. FAIL (a non-nil
// error) if the pool is full or cfg is invalid; no slot is consumed on
// failure.
func (r *Ring) Append(cfg tcb.Config) (int, error) {
	if r.liveCount >= r.cap {
		return 0, fmt.Errorf("readylist: pool full (%d/%d)", r.liveCount, r.cap)
	}

	idx := r.freeSlot()
	if idx < 0 {
		return 0, fmt.Errorf("readylist: no free slot despite liveCount=%d", r.liveCount)
	}

	seeded, err := tcb.New(cfg)
	if err != nil {
		return 0, err
	}

	r.tasks[idx] = *seeded
	r.liveCount++

	if r.lastAppended != tcb.NoNext {
		r.tasks[r.lastAppended].Next = idx
	}
	r.lastAppended = idx

	if r.current == tcb.NoNext {
		r.current = idx
	}

	return idx, nil
}

func (r *Ring) freeSlot() int {
	for i := range r.tasks {
		if !r.tasks[i].InUse() {
			return i
		}
	}
	return -1
}

// Close links the last-appended slot back to slot 0, turning the flat
// array into a true ring. Init calls this once, after all Creates
// (spec.md §4.2). The slot that was last appended before Close becomes
// the dispatcher's fall-back target — conventionally the background/
// idle task, which Init always appends last (spec.md §4.3).
func (r *Ring) Close() error {
	if r.liveCount == 0 {
		return fmt.Errorf("readylist: cannot close an empty ring")
	}
	r.tasks[r.lastAppended].Next = 0
	r.fallback = r.lastAppended
	r.closed = true
	return nil
}

// Fallback returns the dispatcher's fall-back index: the slot that was
// last appended before Close (spec.md §4.3: "fall back to the last TCB
// in the pool").
func (r *Ring) Fallback() int { return r.fallback }

// CloseSortedByPriority re-links the ring in descending-priority order
// instead of append order, then closes it exactly like Close. The
// preemptive build uses this so its dispatcher's priority search is a
// trivial ring walk (spec.md §4.3: "the init routine pre-sorts the TCB
// array in descending priority to make this search trivial"). Ties
// keep pool-index order, which is append order unless a Remove freed a
// slot that a later Append reused.
func (r *Ring) CloseSortedByPriority() error {
	if r.liveCount == 0 {
		return fmt.Errorf("readylist: cannot close an empty ring")
	}

	order := make([]int, 0, r.liveCount)
	for i := range r.tasks {
		if r.tasks[i].InUse() {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return r.tasks[order[a]].Priority > r.tasks[order[b]].Priority
	})

	for i, idx := range order {
		next := order[(i+1)%len(order)]
		r.tasks[idx].Next = next
	}

	r.current = order[0]
	r.fallback = order[len(order)-1]
	r.lastAppended = order[len(order)-1]
	r.closed = true
	return nil
}

// Remove walks the ring from Current until it finds idx, splices it
// out, and frees its stack (spec.md §4.2). If idx == current, current
// advances to idx's successor first. FAIL if idx is unreachable from
// Current.
func (r *Ring) Remove(idx int) error {
	if idx < 0 || idx >= len(r.tasks) || !r.tasks[idx].InUse() {
		return fmt.Errorf("readylist: index %d is not a live TCB", idx)
	}
	if r.liveCount == 1 {
		return fmt.Errorf("readylist: cannot remove the only remaining thread")
	}

	prev, err := r.predecessorOf(idx)
	if err != nil {
		return err
	}

	if idx == r.current {
		r.current = r.tasks[idx].Next
	}

	r.tasks[prev].Next = r.tasks[idx].Next
	r.tasks[idx] = tcb.TCB{Next: tcb.NoNext}
	r.liveCount--
	if r.lastAppended == idx {
		r.lastAppended = prev
	}
	return nil
}

// predecessorOf walks from current until it finds the slot whose Next
// is idx, per spec.md §4.2: "Walk from the current TCB until
// next == tcb."
func (r *Ring) predecessorOf(idx int) (int, error) {
	start := r.current
	walker := start
	for i := 0; i < tcb.MaxTasks; i++ {
		next := r.tasks[walker].Next
		if next == idx {
			return walker, nil
		}
		walker = next
		if walker == start || walker == tcb.NoNext {
			break
		}
	}
	return 0, fmt.Errorf("readylist: index %d is not reachable from current", idx)
}

// Walk visits up to tcb.MaxTasks slots starting at start, following
// Next, calling visit(idx) for each. It stops early if visit returns
// false. Used by the periodic/preemptive dispatcher (spec.md §4.3:
// "starting from current.next, walk up to N steps").
func (r *Ring) Walk(start int, visit func(idx int) bool) {
	idx := start
	for i := 0; i < tcb.MaxTasks; i++ {
		if !visit(idx) {
			return
		}
		idx = r.tasks[idx].Next
	}
}

// ForEach calls visit(idx) for every live slot, in pool-index order
// (not ring order). The periodic/preemptive tick handler uses
// index-order iteration to decide which TCBs become PENDING this tick
// (spec.md §4.3: "For each TCB i, if tick_counter % tcb[i].period == 0").
func (r *Ring) ForEach(visit func(idx int)) {
	for i := range r.tasks {
		if r.tasks[i].InUse() {
			visit(i)
		}
	}
}
