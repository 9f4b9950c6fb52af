package ctxswitch

import (
	"krtos/internal/readylist"
	"krtos/internal/sched"
)

// Switch ties a Policy to a CPU and drives the prologue/
// scheduler-call/epilogue sequence spec.md §4.4 describes, grounded on
// original_source/RTOS/KRTOS/src/osKernel.c's SysTick_Handler
// (prologue, then choose-next-thread, then epilogue) and
// osSchedular_Launch (the same epilogue, run synchronously once as the
// bootstrap).
type Switch struct {
	Policy sched.Policy
	CPU    CPU
}

// TickHandler runs the tick interrupt's full prologue/Policy.Tick/
// epilogue sequence.
func (s *Switch) TickHandler(r *readylist.Ring) {
	s.CPU.MaskIRQ()
	s.spillCurrent(r)
	s.Policy.Tick(r)
	s.restoreCurrent(r)
	s.CPU.UnmaskIRQ()
}

// YieldHandler runs the PendSV handler's prologue/Policy.Yield/
// epilogue sequence. Per spec.md §4.4, the scheduler call here
// dispatches the next PENDING thread rather than simply advancing, so
// it goes through Policy.Yield rather than Policy.Tick.
func (s *Switch) YieldHandler(r *readylist.Ring) {
	s.CPU.MaskIRQ()
	s.spillCurrent(r)
	s.Policy.Yield(r)
	s.restoreCurrent(r)
	s.CPU.UnmaskIRQ()
}

// RequestYield sets the PendSV pending bit; the caller (krtos.Yield)
// returns immediately, same as spec.md §4.4 describes — the switch
// itself happens whenever interrupts are next unmasked.
func (s *Switch) RequestYield() {
	s.CPU.RequestYield()
}

// Bootstrap runs the epilogue once, synchronously, against whichever
// TCB is current when Init finishes setting up the ring (spec.md
// §4.4's "Bootstrap"). Like restoreCurrent it pops the callee-saved
// half, so the first TCB's StackPointer ends where a later spill
// expects it; Launch is given the seeded stack pointer.
func (s *Switch) Bootstrap(r *readylist.Ring) {
	first := r.At(r.Current())
	sp := first.StackPointer
	first.StackPointer = s.CPU.RestoreCalleeSaved(first.Stack, sp)
	s.CPU.Launch(first.Entry, sp)
}

func (s *Switch) spillCurrent(r *readylist.Ring) {
	out := r.At(r.Current())
	out.StackPointer = s.CPU.SpillCalleeSaved(out.Stack, out.StackPointer)
}

// restoreCurrent pops the incoming thread's callee-saved registers and
// then activates it (runs its entry function). Every tick/yield that
// lands on a new current reaches Activate, not only Bootstrap's first
// dispatch — see ctxswitch.CPU.Activate.
func (s *Switch) restoreCurrent(r *readylist.Ring) {
	in := r.At(r.Current())
	in.StackPointer = s.CPU.RestoreCalleeSaved(in.Stack, in.StackPointer)
	s.CPU.Activate(in.Entry)
}
