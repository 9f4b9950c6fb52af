package kutil

import "sync"

// IRQGuard stands in for "mask/unmask global interrupts" (spec.md §5,
// §6) on a host where there is no real interrupt controller: Create
// and Remove must still serialize against a concurrent context switch,
// so "disable interrupts" becomes "take the one lock guarding kernel
// state," matching original_source's __disable_irq()/__enable_irq()
// bracketing of osKernel_ThreadCreate.
type IRQGuard struct {
	mu sync.Mutex
}

// Disable masks interrupts for the critical section that follows.
func (g *IRQGuard) Disable() { g.mu.Lock() }

// Enable unmasks interrupts, ending the critical section.
func (g *IRQGuard) Enable() { g.mu.Unlock() }
