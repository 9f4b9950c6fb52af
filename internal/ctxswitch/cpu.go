// Package ctxswitch orchestrates the tick and yield (PendSV) handlers
// around a Policy call (spec.md §4.4), against a small CPU interface
// standing in for the parts of the Cortex-M exception contract that
// must be expressed in assembly on real hardware (spec.md §9,
// "Assembly-only context switch"). The interface is shaped after
// internal/mips/cop.go's Coprocessor interface: a handful of
// narrowly-named operations a collaborator subsystem must support,
// documented per method against the real instruction it mirrors.
package ctxswitch

// CPU is the external collaborator spec.md §6 calls "CPU interface":
// mask/unmask global interrupts, set the PendSV pending bit, and
// spill/restore the callee-saved half of a thread's register frame.
// The hardware-auto-stacked half (R0-R3, R12, LR, PC, xPSR) is never
// touched by software on real hardware — it is pushed by interrupt
// entry and popped by exception return — so it has no method here;
// internal/cortexm seeds it once at thread creation and it is never
// touched again until the thread's first (and only, on real hardware)
// exception return.
type CPU interface {
	// MaskIRQ corresponds to CPSID I: disable global interrupts.
	MaskIRQ()

	// UnmaskIRQ corresponds to CPSIE I: enable global interrupts.
	UnmaskIRQ()

	// RequestYield corresponds to setting PendSV's pending bit in the
	// interrupt controller (spec.md §4.4's yield()).
	RequestYield()

	// SpillCalleeSaved corresponds to "PUSH {R4-R11}": spill the
	// outgoing thread's callee-saved registers onto stack at sp,
	// returning the new (decremented) stack pointer.
	SpillCalleeSaved(stack []uint32, sp int) (newSP int)

	// RestoreCalleeSaved corresponds to "POP {R4-R11}": reload the
	// incoming thread's callee-saved registers from stack at sp,
	// returning the new (incremented) stack pointer.
	RestoreCalleeSaved(stack []uint32, sp int) (newSP int)

	// Launch corresponds to the bootstrap epilogue's final "BX LR":
	// load sp, pop the full seeded frame, and branch to entry. Called
	// exactly once, synchronously, at the end of Init (spec.md §4.4,
	// "Bootstrap").
	Launch(entry func(), sp int)

	// Activate corresponds to resuming the incoming thread once its
	// callee-saved registers are restored. Real hardware resumes mid-
	// function at the saved PC; this simulator has no suspended call
	// stack to resume (spec.md's Design Notes: "a hardware-triggered
	// interrupt ... do not attempt to model it with language-level
	// suspension primitives"), so resumption is approximated by running
	// entry again. Called on every dispatch a Tick/Yield lands on, not
	// just Bootstrap's first one — the only way a thread that becomes
	// current solely through the scheduler's fallback path, such as the
	// background/idle task, ever runs its body at all.
	Activate(entry func())
}
