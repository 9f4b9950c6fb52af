// Package krtos is the kernel facade (spec.md §4.5): Init, Create,
// Yield, Remove, Suspend, SetBackgroundTask. It encapsulates the ring,
// the scheduler policy, the time base, and the CPU collaborator behind
// a single Kernel value, per spec.md's Design Notes §9 ("encapsulate
// all such state behind the kernel module; do not expose it to
// application code") — application code sees a Kernel and
// ThreadHandles, never a TCB index or the ring itself.
package krtos

import (
	"log"
	"sync"
	"time"

	"krtos/internal/ctxswitch"
	"krtos/internal/hostsim"
	"krtos/internal/kutil"
	"krtos/internal/readylist"
	"krtos/internal/sched"
	"krtos/internal/tcb"
	"krtos/internal/timebase"
)

// ThreadHandle identifies a thread created by Create, for later Remove
// or Suspend calls. spec.md's facade signatures name a bare "tcb" for
// these operations; ThreadHandle is this module's realization of that
// reference, since Create's own return type in spec.md is PASS/FAIL
// only and a caller otherwise has no way to name the thread it just
// created (see DESIGN.md, "open questions").
type ThreadHandle int

// Kernel is one kernel instance: a ring of up to Config.MaxTasks TCBs,
// a scheduler policy, a time base, and a CPU collaborator.
type Kernel struct {
	cfg   Config
	ring  *readylist.Ring
	sw    *ctxswitch.Switch
	tb    *timebase.TimeBase
	guard kutil.IRQGuard

	idleCallback func()
	booted       bool

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New returns a Kernel configured per cfg (zero-valued fields take
// DefaultConfig's values).
func New(cfg Config) *Kernel {
	cfg = cfg.withDefaults()

	cpu := cfg.CPU
	if cpu == nil {
		cpu = hostsim.NewCPU()
	}
	device := cfg.TimerDevice
	if device == nil {
		device = hostsim.NewTimer()
	}

	return &Kernel{
		cfg:    cfg,
		ring:   readylist.New(cfg.MaxTasks),
		sw:     &ctxswitch.Switch{Policy: sched.New(cfg.Scheduler), CPU: cpu},
		tb:     timebase.New(device, cfg.SystemClkHz, cfg.MillisPrescaler),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// SetBackgroundTask installs the idle callback (spec.md §4.5). FAIL if
// fn is nil, or if Init has already booted (the idle TCB is seeded
// once, at boot).
func (k *Kernel) SetBackgroundTask(fn func()) Result {
	if fn == nil {
		return Fail
	}
	if k.booted {
		return Fail
	}
	k.idleCallback = fn
	return Pass
}

// Create appends a new thread to the ring and seeds its stack (spec.md
// §4.1). cfg.StackWords <= 0 falls back to Config.StackWords. FAIL if
// the pool is full, cfg.Entry is nil, or the resolved StackWords is
// too small; no slot is consumed on failure.
func (k *Kernel) Create(cfg ThreadConfig) (ThreadHandle, Result) {
	k.guard.Disable()
	defer k.guard.Enable()

	period := cfg.Period
	if period < 1 {
		period = 1
	}
	stackWords := cfg.StackWords
	if stackWords <= 0 {
		stackWords = k.cfg.StackWords
	}

	idx, err := k.ring.Append(tcb.Config{
		Entry:      cfg.Entry,
		StackWords: stackWords,
		Period:     period,
		Priority:   cfg.Priority,
	})
	if err != nil {
		log.Printf("krtos: create failed: %v", err)
		return 0, Fail
	}
	return ThreadHandle(idx), Pass
}

// Remove unlinks tcb from the ring and frees its stack (spec.md §4.2).
// Removing the current thread elects its successor as current first.
func (k *Kernel) Remove(h ThreadHandle) Result {
	k.guard.Disable()
	defer k.guard.Enable()

	if err := k.ring.Remove(int(h)); err != nil {
		log.Printf("krtos: remove failed: %v", err)
		return Fail
	}
	return Pass
}

// Suspend marks a thread SUSPENDED (spec.md §4.5). Per spec.md §9's
// open question, this module implements exactly that and nothing more
// — no automatic resume path exists.
func (k *Kernel) Suspend(h ThreadHandle) Result {
	k.guard.Disable()
	defer k.guard.Enable()

	idx := int(h)
	if idx < 0 || idx >= tcb.MaxTasks || !k.ring.At(idx).InUse() {
		return Fail
	}
	if idx == k.ring.Current() {
		log.Printf("krtos: refusing to suspend the current thread; yield first")
		return Fail
	}
	k.ring.At(idx).State = tcb.Suspended
	return Pass
}

// Yield requests a voluntary context switch (spec.md §4.4) by setting
// the PendSV pending bit. When the CPU exposes PendingYield (as
// internal/hostsim's does), Yield then delivers the pending yield
// itself before returning, without consulting the interrupt mask;
// Tick does not deliver pending yields.
func (k *Kernel) Yield() {
	k.sw.RequestYield()
	k.deliverPendingYield()
}

func (k *Kernel) deliverPendingYield() {
	if cpu, ok := k.sw.CPU.(interface{ PendingYield() bool }); ok {
		if cpu.PendingYield() {
			k.guard.Disable()
			k.sw.YieldHandler(k.ring)
			k.guard.Enable()
		}
	}
}

// Tick delivers one SysTick interrupt: the prologue/Policy.Tick/
// epilogue sequence of spec.md §4.4. Exported so tests and the
// interactive demo can drive ticks without a real hardware timer.
func (k *Kernel) Tick() {
	k.guard.Disable()
	k.sw.TickHandler(k.ring)
	k.guard.Enable()
}

// Current returns the handle of the currently-scheduled thread.
func (k *Kernel) Current() ThreadHandle {
	return ThreadHandle(k.ring.Current())
}

// Init appends the background/idle thread, arms the time base for
// quantumMs, bootstraps the first thread, and then blocks (spec.md
// §4.5: "Never returns") — on the host, by running a quantum-paced
// ticker loop on the calling goroutine until Stop is called. FAIL if the
// ring is empty or has already been booted.
func (k *Kernel) Init(quantumMs uint32) Result {
	if result := k.Boot(quantumMs); result == Fail {
		return Fail
	}

	ticker := time.NewTicker(time.Duration(quantumMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			k.Tick()
		case <-k.stopCh:
			close(k.doneCh)
			return Pass
		}
	}
}

// Boot performs everything Init does up to (and including) the
// bootstrap branch, without blocking afterward. Scenario tests that
// drive Tick manually call this instead of Init.
func (k *Kernel) Boot(quantumMs uint32) Result {
	if k.booted {
		return Fail
	}
	if k.ring.Len() == 0 {
		return Fail
	}

	if _, err := k.ring.Append(newIdleConfig(k.idleCallback)); err != nil {
		log.Printf("krtos: failed to append idle thread: %v", err)
		return Fail
	}

	var closeErr error
	if k.cfg.Scheduler == sched.Preemptive {
		closeErr = k.ring.CloseSortedByPriority()
	} else {
		closeErr = k.ring.Close()
	}
	if result := resultOf(closeErr); result == Fail {
		log.Printf("krtos: failed to close ring: %v", closeErr)
		return Fail
	}

	k.tb.Arm(quantumMs)
	k.sw.Bootstrap(k.ring)
	k.booted = true
	return Pass
}

// Stop asks a blocking Init to return. Safe to call once; later calls
// are no-ops.
func (k *Kernel) Stop() {
	k.stopOnce.Do(func() {
		close(k.stopCh)
	})
	<-k.doneCh
}
