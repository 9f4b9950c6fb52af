package krtos

import (
	"krtos/internal/ctxswitch"
	"krtos/internal/sched"
	"krtos/internal/tcb"
	"krtos/internal/timebase"
)

// Scheduler re-exports internal/sched.Kind so callers never need to
// import an internal package to configure a Kernel.
type Scheduler = sched.Kind

const (
	RoundRobin = sched.RoundRobin
	Periodic   = sched.Periodic
	Preemptive = sched.Preemptive
)

// Config is the build-time configuration spec.md §6 lists. NumThreads
// is the number of *user* threads a caller intends to Create; the
// kernel always adds one more slot for the background/idle thread.
type Config struct {
	NumThreads      int // default 3
	StackWords      int // default 100 (100 words = 400 bytes)
	Scheduler       Scheduler
	MaxTasks        int    // default tcb.MaxTasks; clamped to [1, tcb.MaxTasks]
	SystemClkHz     uint32 // default 8_000_000
	MillisPrescaler uint32 // default 1000

	// CPU and TimerDevice are the two out-of-scope collaborators
	// spec.md §6 names (the CPU interface and the time base). Nil
	// selects internal/hostsim's implementations — the "host simulator
	// that emulates the CPU interrupts and register file" spec.md §8
	// scenario 6 presupposes. A real firmware port supplies its own
	// internal/cortexm-backed CPU and a SysTick-backed TimerDevice.
	CPU         ctxswitch.CPU
	TimerDevice timebase.Device
}

// DefaultConfig mirrors original_source/RTOS/Inc/KRTOS_cfg.h's defaults:
// NUM_OF_THREADS=3, STACK_SIZE=100, SCHEDULER_TYPE=ROUND_ROBIN.
func DefaultConfig() Config {
	return Config{
		NumThreads:      3,
		StackWords:      100,
		Scheduler:       RoundRobin,
		MaxTasks:        tcb.MaxTasks,
		SystemClkHz:     timebase.DefaultSystemClkHz,
		MillisPrescaler: timebase.DefaultMillisPrescaler,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.NumThreads <= 0 {
		c.NumThreads = d.NumThreads
	}
	if c.StackWords <= 0 {
		c.StackWords = d.StackWords
	}
	if c.MaxTasks <= 0 {
		c.MaxTasks = d.MaxTasks
	}
	if c.SystemClkHz == 0 {
		c.SystemClkHz = d.SystemClkHz
	}
	if c.MillisPrescaler == 0 {
		c.MillisPrescaler = d.MillisPrescaler
	}
	return c
}

// ThreadConfig is the input to Create (spec.md §4.1).
type ThreadConfig struct {
	Entry      func()
	StackWords int   // <= 0 falls back to Config.StackWords
	Period     int   // ticks between activations; 1 means "every tick"; ignored under RoundRobin
	Priority   uint8 // preemptive policy only
}
