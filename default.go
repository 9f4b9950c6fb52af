package krtos

import "sync"

// defaultKernel is the package-level Kernel the top-level functions
// operate on, mirroring http.DefaultServeMux: most firmware images
// want exactly one kernel, and the instance-based Kernel type exists
// mainly so tests can run several independently.
var (
	defaultOnce sync.Once
	defaultK    *Kernel
)

func defaultKernel() *Kernel {
	defaultOnce.Do(func() {
		defaultK = New(DefaultConfig())
	})
	return defaultK
}

// Configure replaces the default kernel's configuration. Call it, if
// at all, before any other package-level function.
func Configure(cfg Config) {
	defaultK = New(cfg)
}

func SetBackgroundTask(fn func()) Result {
	return defaultKernel().SetBackgroundTask(fn)
}

func Create(cfg ThreadConfig) (ThreadHandle, Result) {
	return defaultKernel().Create(cfg)
}

func Remove(h ThreadHandle) Result {
	return defaultKernel().Remove(h)
}

func Suspend(h ThreadHandle) Result {
	return defaultKernel().Suspend(h)
}

func Yield() {
	defaultKernel().Yield()
}

func Init(quantumMs uint32) Result {
	return defaultKernel().Init(quantumMs)
}

func Stop() {
	defaultKernel().Stop()
}
