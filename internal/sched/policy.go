// Package sched implements the three scheduler policies of spec.md
// §4.3 behind a common interface, selected by a discriminant — the
// same Instruction/DecodeInstruction shape internal/mips32/instructions.go
// uses to pick a concrete instruction type and then call its shared
// interface method.
package sched

import (
	"krtos/internal/readylist"
	"krtos/internal/tcb"
)

// Policy decides which TCB is current, on every tick and on every
// voluntary yield (spec.md §4.3, §4.4).
type Policy interface {
	// Tick runs the policy's per-tick logic: for periodic/preemptive,
	// advance the tick counter and mark eligible TCBs PENDING, then
	// dispatch; for round-robin, just advance to the next ring member.
	Tick(r *readylist.Ring)

	// Yield runs the dispatcher only, without any tick-counter or
	// state-transition side effects — spec.md §4.4: yield "dispatches
	// the next PENDING thread (not the next ring member)".
	Yield(r *readylist.Ring)
}

// New builds the Policy selected by kind.
func New(kind Kind) Policy {
	switch kind {
	case RoundRobin:
		return &roundRobin{}
	case Periodic:
		return &periodic{}
	case Preemptive:
		return &preemptive{}
	default:
		return &roundRobin{}
	}
}

// walkForFirstPending starts at r.At(start's Next... (caller passes
// the first candidate index) and walks the ring looking for the first
// PENDING TCB, per spec.md §4.3's dispatcher: "starting from
// current.next, walk up to N steps looking for the first TCB whose
// state is PENDING." It returns -1 if none was found within one
// revolution.
func walkForFirstPending(r *readylist.Ring, start int) int {
	found := -1
	r.Walk(start, func(idx int) bool {
		if r.At(idx).State == tcb.Pending {
			found = idx
			return false
		}
		return true
	})
	return found
}
