// Package tcb is the thread-control-block data model (spec.md §3),
// field-for-field translated from original_source/RTOS/KRTOS/inc/osKernel.h's
// TCB_s struct.
package tcb

import (
	"fmt"

	"krtos/internal/cortexm"
	"krtos/internal/kutil"
)

// MaxTasks is the hard ceiling on TCB slots (spec §6, MAX_TASKS).
const MaxTasks = 10

// NoNext marks a TCB not yet linked into a ring.
const NoNext = -1

// IdlePeriod is the background/idle thread's period. The tick counter
// runs 1..999 and then wraps to 0, so tick_counter % IdlePeriod is 0
// only on the wrapping tick (every 1000th), when every TCB, idle
// included, is marked PENDING; on all other ticks the idle task runs
// only as the dispatcher's fall-back (spec §4.3).
const IdlePeriod = 1001

// Config is the input to Create: the fields an application supplies
// when registering a thread (spec §4.1).
type Config struct {
	Entry      func()
	StackWords int
	Period     int  // ticks between activations; 1 means "every tick"
	Priority   uint8 // preemptive policy only
}

// TCB is one thread control block.
type TCB struct {
	Stack        []uint32
	StackPointer int
	Entry        func()
	Period       int
	State        State
	Priority     uint8
	Next         int

	inUse bool
}

// InUse reports whether this slot currently holds a live thread.
func (t *TCB) InUse() bool { return t.inUse }

// New validates cfg and seeds a fresh TCB. It does not touch any ring
// or pool bookkeeping — that's internal/readylist's job.
func New(cfg Config) (*TCB, error) {
	if cfg.Entry == nil {
		return nil, fmt.Errorf("tcb: entry_point must not be nil")
	}
	if cfg.StackWords < cortexm.FrameWords {
		return nil, fmt.Errorf("tcb: stack_words must be >= %d, got %d", cortexm.FrameWords, cfg.StackWords)
	}
	if cfg.Period < 1 {
		return nil, fmt.Errorf("tcb: period must be >= 1, got %d", cfg.Period)
	}
	if bytesOverflowUint32(cfg.StackWords) {
		return nil, fmt.Errorf("tcb: stack_words %d overflows a uint32 byte count", cfg.StackWords)
	}

	stack := make([]uint32, cfg.StackWords)
	sp, err := cortexm.Seed(stack, cfg.Entry)
	if err != nil {
		return nil, err
	}

	return &TCB{
		Stack:        stack,
		StackPointer: sp,
		Entry:        cfg.Entry,
		Period:       cfg.Period,
		State:        Pending,
		Priority:     cfg.Priority,
		Next:         NoNext,
		inUse:        true,
	}, nil
}

// bytesOverflowUint32 reports whether stackWords*4 (the byte count a
// real target would compute) would overflow a uint32. See spec.md §9's
// REDESIGN FLAG about two source revisions byte-scaling stack_size
// before indexing; this module never byte-scales for indexing, but
// still rejects a stack_words that couldn't be expressed as a byte
// count on the target MCU.
func bytesOverflowUint32(stackWords int) bool {
	if stackWords < 0 {
		return true
	}
	w := uint32(stackWords)
	doubled := w + w
	if kutil.AddOverflows(w, w) {
		return true
	}
	return kutil.AddOverflows(doubled, doubled)
}
