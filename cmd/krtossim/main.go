// Command krtossim is an interactive demo of krtos running on
// internal/hostsim: it creates a handful of threads, arms a quantum,
// and runs until Ctrl-C/SIGTERM. When stdin is a terminal, a console
// installed as the background/idle task reads single keystrokes; with
// -v, thread runs and console actions are logged.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"

	"krtos"
)

func main() {
	verbose := flag.Bool("v", false, "enable verbose logging")
	numThreads := flag.Int("threads", 3, "number of demo threads to create")
	quantumMs := flag.Uint("quantum", 10, "tick quantum in milliseconds")
	schedulerFlag := flag.String("scheduler", "roundrobin", "roundrobin | periodic | preemptive")
	flag.Parse()

	printIfVerbose(*verbose, "Starting krtossim...")

	scheduler, err := parseScheduler(*schedulerFlag)
	if err != nil {
		log.Fatal(err)
	}

	k := krtos.New(krtos.Config{
		NumThreads: *numThreads,
		Scheduler:  scheduler,
	})

	for i := 0; i < *numThreads; i++ {
		i := i
		_, result := k.Create(krtos.ThreadConfig{
			Entry:    func() { printIfVerbose(*verbose, "thread %d ran", i) },
			Period:   i + 1,
			Priority: uint8(*numThreads - i),
		})
		if result == krtos.Fail {
			log.Fatalf("failed to create demo thread %d", i)
		}
	}

	console := newConsole(k, *verbose)
	if result := k.SetBackgroundTask(console.poll); result == krtos.Fail {
		log.Fatal("failed to install background console task")
	}

	printIfVerbose(*verbose, "Running kernel (quantum=%dms)...", *quantumMs)
	start := time.Now()

	done := make(chan struct{})
	go func() {
		k.Init(uint32(*quantumMs))
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		printIfVerbose(*verbose, "Signal received, stopping kernel...")
		k.Stop()
	case <-done:
	}

	printIfVerbose(*verbose, "Kernel stopped. Total run time: %s", time.Since(start))
}

func parseScheduler(name string) (krtos.Scheduler, error) {
	switch name {
	case "roundrobin", "":
		return krtos.RoundRobin, nil
	case "periodic":
		return krtos.Periodic, nil
	case "preemptive":
		return krtos.Preemptive, nil
	default:
		return krtos.RoundRobin, fmt.Errorf("unknown scheduler %q", name)
	}
}

// console is the idle-thread body: a single keypress read per
// activation, dispatched against the running kernel. This mirrors the
// LC-3 prototype's TRAP_GETC/TRAP_IN single-key reads, here repurposed
// from a blocking VM trap into a read the idle thread makes once per
// activation instead of once per instruction.
type console struct {
	kernel  *krtos.Kernel
	verbose bool
	raw     bool
	created []krtos.ThreadHandle
}

func newConsole(k *krtos.Kernel, verbose bool) *console {
	return &console{
		kernel:  k,
		verbose: verbose,
		raw:     term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// poll handles one keystroke: c creates a demo thread, y yields, s
// suspends the most recently created thread, r removes it, q (or
// Ctrl-C) asks the process to stop.
func (c *console) poll() {
	if !c.raw {
		return
	}
	ch, key, err := keyboard.GetKey()
	if err != nil {
		return
	}

	switch {
	case key == keyboard.KeyCtrlC || ch == 'q':
		c.requestStop()
	case ch == 'c':
		h, result := c.kernel.Create(krtos.ThreadConfig{
			Entry:  func() {},
			Period: 1,
		})
		if result == krtos.Pass {
			c.created = append(c.created, h)
			printIfVerbose(c.verbose, "console: created thread %v", h)
		}
	case ch == 'y':
		c.kernel.Yield()
		printIfVerbose(c.verbose, "console: yielded")
	case ch == 's':
		if h, ok := c.lastCreated(); ok {
			printIfVerbose(c.verbose, "console: suspend(%v) = %v", h, c.kernel.Suspend(h))
		}
	case ch == 'r':
		if h, ok := c.popLastCreated(); ok {
			printIfVerbose(c.verbose, "console: remove(%v) = %v", h, c.kernel.Remove(h))
		}
	}
}

func (c *console) lastCreated() (krtos.ThreadHandle, bool) {
	if len(c.created) == 0 {
		return 0, false
	}
	return c.created[len(c.created)-1], true
}

func (c *console) popLastCreated() (krtos.ThreadHandle, bool) {
	h, ok := c.lastCreated()
	if ok {
		c.created = c.created[:len(c.created)-1]
	}
	return h, ok
}

func (c *console) requestStop() {
	printIfVerbose(c.verbose, "console: stop requested")
	proc, err := os.FindProcess(os.Getpid())
	if err == nil {
		proc.Signal(os.Interrupt)
	}
}

func printIfVerbose(verbose bool, format string, v ...interface{}) {
	if verbose {
		log.Printf(format, v...)
	}
}
