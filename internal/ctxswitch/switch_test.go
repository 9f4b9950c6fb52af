package ctxswitch_test

import (
	"testing"

	"krtos/internal/cortexm"
	"krtos/internal/ctxswitch"
	"krtos/internal/hostsim"
	"krtos/internal/readylist"
	"krtos/internal/sched"
	"krtos/internal/tcb"
)

// These rings are ticked without Bootstrap, so the current thread is
// spilled from its seeded stack pointer to below the seeded frame; the
// stacks leave room for that.
func ringOfTwo(t *testing.T) *readylist.Ring {
	t.Helper()
	r := readylist.New(tcb.MaxTasks)
	for i := 0; i < 2; i++ {
		if _, err := r.Append(tcb.Config{
			Entry:      func() {},
			StackWords: 2 * cortexm.FrameWords,
			Period:     1,
			Priority:   0,
		}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return r
}

func TestTickHandlerMasksAndRestoresIRQ(t *testing.T) {
	r := ringOfTwo(t)
	cpu := hostsim.NewCPU()
	cpu.UnmaskIRQ()
	sw := &ctxswitch.Switch{Policy: sched.New(sched.RoundRobin), CPU: cpu}

	sw.TickHandler(r)

	if cpu.IRQMasked() {
		t.Error("IRQMasked() = true after TickHandler returns, want false")
	}
}

func TestTickHandlerAdvancesCurrentAndSpillsStack(t *testing.T) {
	r := ringOfTwo(t)
	first := r.Current()
	cpu := hostsim.NewCPU()
	sw := &ctxswitch.Switch{Policy: sched.New(sched.RoundRobin), CPU: cpu}

	spBefore := r.At(first).StackPointer
	sw.TickHandler(r)

	if r.Current() == first {
		t.Error("Current() unchanged after a round-robin tick")
	}
	if r.At(first).StackPointer == spBefore {
		t.Error("outgoing TCB's StackPointer unchanged, want it spilled below the seeded frame")
	}
}

func TestBootstrapLaunchesCurrentThread(t *testing.T) {
	r := readylist.New(tcb.MaxTasks)
	ran := false
	if _, err := r.Append(tcb.Config{
		Entry:      func() { ran = true },
		StackWords: cortexm.FrameWords,
		Period:     1,
		Priority:   0,
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	_ = r.Close()

	cpu := hostsim.NewCPU()
	sw := &ctxswitch.Switch{Policy: sched.New(sched.RoundRobin), CPU: cpu}

	sw.Bootstrap(r)

	if !ran {
		t.Error("Bootstrap did not invoke the current thread's entry function")
	}
	if !cpu.Launched {
		t.Error("Launched = false after Bootstrap")
	}
}

// A tick activates the incoming thread's entry function, not only the
// thread Bootstrap originally launched — this is what makes a thread
// reachable only through a scheduler's fallback path (the
// background/idle task) ever run at all.
func TestTickHandlerActivatesIncomingThread(t *testing.T) {
	r := readylist.New(tcb.MaxTasks)
	aRan, bRan := 0, 0
	if _, err := r.Append(tcb.Config{Entry: func() { aRan++ }, StackWords: 2 * cortexm.FrameWords, Period: 1, Priority: 0}); err != nil {
		t.Fatalf("Append a: %v", err)
	}
	if _, err := r.Append(tcb.Config{Entry: func() { bRan++ }, StackWords: 2 * cortexm.FrameWords, Period: 1, Priority: 0}); err != nil {
		t.Fatalf("Append b: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	cpu := hostsim.NewCPU()
	sw := &ctxswitch.Switch{Policy: sched.New(sched.RoundRobin), CPU: cpu}

	sw.TickHandler(r)

	if bRan != 1 {
		t.Errorf("bRan = %d after one tick from a, want 1", bRan)
	}
	if aRan != 0 {
		t.Errorf("aRan = %d after one tick away from a, want 0", aRan)
	}
	if cpu.Activations != 1 {
		t.Errorf("Activations = %d, want 1", cpu.Activations)
	}
}

func TestRequestYieldSetsPendingBit(t *testing.T) {
	cpu := hostsim.NewCPU()
	sw := &ctxswitch.Switch{Policy: sched.New(sched.RoundRobin), CPU: cpu}

	sw.RequestYield()

	if !cpu.PendingYield() {
		t.Error("PendingYield() = false after RequestYield")
	}
}
