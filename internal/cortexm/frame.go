// Package cortexm encodes the ABI-specific contract of spec.md §4.1:
// given a thread's stack region and entry point, produce a stack
// pointer that, exception-returned, resumes at the entry point with
// interrupts enabled and the Thumb bit set. This is the "per-architecture
// module" spec.md's Design Notes (§9) require; a real firmware port
// backs internal/ctxswitch.CPU with assembly that trusts this exact
// layout.
package cortexm

// FrameWords is the size in words of a seeded exception frame: 8
// callee-saved registers (R4-R11) plus the 8 hardware-auto-stacked
// registers (R0-R3, R12, LR, PC, xPSR).
const FrameWords = 16

// calleeSavedWords is the portion of the frame a context switch spills
// and reloads explicitly (R4-R11); the rest is popped by the CPU's own
// exception-return sequence.
const calleeSavedWords = 8

// PSRThumbBit is the Thumb-mode bit of the seeded xPSR word. Every
// Cortex-M instruction is Thumb(2), so this bit must always be set in
// a seeded frame or the target will hard-fault on first dispatch.
const PSRThumbBit = 0x01000000

// Sentinel register values written into a seeded frame so a memory
// dump names which register a given word belongs to. Values are
// arbitrary but deterministic, per spec.md §4.1.
const (
	sentinelLR  = 0xCCCCCCCC
	sentinelR12 = 0xDEADC0DE
)

// sentinelReg returns a recognizable filler for general-purpose
// register n, tagged with the register number in its low byte.
func sentinelReg(n uint32) uint32 {
	return 0xE0000000 | n
}

// Frame offsets from the top of a seeded stack, matching the layout
// table in spec.md §4.1. Offset -1 is the top word.
const (
	offXPSR = -1
	offPC   = -2
	offLR   = -3
	offR12  = -4
	offR3   = -5
	offR2   = -6
	offR1   = -7
	offR0   = -8
	offR11  = -9
	offR10  = -10
	offR9   = -11
	offR8   = -12
	offR7   = -13
	offR6   = -14
	offR5   = -15
	offR4   = -16
)
