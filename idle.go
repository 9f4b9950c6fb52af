package krtos

import "krtos/internal/tcb"

// idleStackWords is generous relative to the default user StackWords:
// the idle loop itself needs very little of its own stack, but a
// seeded frame needs at least cortexm.FrameWords regardless.
const idleStackWords = 64

// newIdleConfig builds the background/idle TCB's configuration
// (spec.md §4.6): period 1001 so it becomes PENDING only on the tick
// where the periodic/preemptive tick counter wraps to 0 (see
// tcb.IdlePeriod), lowest priority, running callback if
// one was installed via SetBackgroundTask or a no-op otherwise.
func newIdleConfig(callback func()) tcb.Config {
	run := callback
	if run == nil {
		run = func() {}
	}
	return tcb.Config{
		Entry:      run,
		StackWords: idleStackWords,
		Period:     tcb.IdlePeriod,
		Priority:   0,
	}
}
