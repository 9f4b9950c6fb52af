// Package timebase converts a requested quantum into a tick-timer
// reload value and owns the tick-timer device contract (spec.md §6),
// grounded on original_source/RTOS/Src/Time_Base.c's
// timebase_ReloadTimeChange and on internal/mips/cop0.go's
// count/compare reload-and-fire timer registers (narrowed here to just
// the reload/enable/disable subset — the TLB and exception-cause parts
// of cop0.go have no analogue in a tick timer and are not ported).
package timebase

// Default build-time constants (spec.md §6).
const (
	DefaultSystemClkHz     uint32 = 8_000_000
	DefaultMillisPrescaler uint32 = 1000
)

// Device is the out-of-scope SysTick collaborator (spec.md §6): program
// the periodic interrupt for a cycle count, and enable/disable it.
type Device interface {
	ReloadTimer(cycles uint32)
	Enable()
	Disable()
}

// Convert turns a quantum in milliseconds into a CPU-cycle reload
// value, per spec.md §6: cycles = quantum_ms * (systemClkHz / millisPrescaler).
func Convert(quantumMs uint32, systemClkHz, millisPrescaler uint32) uint32 {
	if millisPrescaler == 0 {
		millisPrescaler = DefaultMillisPrescaler
	}
	return quantumMs * (systemClkHz / millisPrescaler)
}

// TimeBase programs a Device for a given quantum and exposes the
// enable/disable lifecycle Init needs.
type TimeBase struct {
	device          Device
	systemClkHz     uint32
	millisPrescaler uint32
}

// New returns a TimeBase driving device, using systemClkHz and
// millisPrescaler for quantum conversion (0 selects the defaults).
func New(device Device, systemClkHz, millisPrescaler uint32) *TimeBase {
	if systemClkHz == 0 {
		systemClkHz = DefaultSystemClkHz
	}
	if millisPrescaler == 0 {
		millisPrescaler = DefaultMillisPrescaler
	}
	return &TimeBase{device: device, systemClkHz: systemClkHz, millisPrescaler: millisPrescaler}
}

// Arm reloads the timer for quantumMs and enables it. Mirrors
// timebase_ReloadTimeChange's disable/reload/enable steps; Device has
// no counter-reset operation, so its reset step has no counterpart.
func (t *TimeBase) Arm(quantumMs uint32) {
	t.device.Disable()
	cycles := Convert(quantumMs, t.systemClkHz, t.millisPrescaler)
	t.device.ReloadTimer(cycles)
	t.device.Enable()
}

// Disable stops tick delivery.
func (t *TimeBase) Disable() {
	t.device.Disable()
}
