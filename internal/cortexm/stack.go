package cortexm

import (
	"fmt"
	"reflect"
)

// Seed writes a synthetic exception frame into the high end of stack
// and returns the word index of the saved R4 slot — the stack pointer
// value a context restore (or the bootstrap epilogue) should load.
//
// stack must have at least FrameWords words; callers (internal/tcb)
// are expected to have already rejected a too-small stack_words at
// Create time, so Seed treats a short stack as a programming error.
func Seed(stack []uint32, entry func()) (sp int, err error) {
	if len(stack) < FrameWords {
		return 0, fmt.Errorf("cortexm: stack has %d words, need at least %d", len(stack), FrameWords)
	}

	top := len(stack)
	set := func(offset int, value uint32) {
		stack[top+offset] = value
	}

	set(offXPSR, PSRThumbBit)
	set(offPC, EntryTag(entry))
	set(offLR, sentinelLR)
	set(offR12, sentinelR12)
	set(offR3, sentinelReg(3))
	set(offR2, sentinelReg(2))
	set(offR1, sentinelReg(1))
	set(offR0, sentinelReg(0))
	set(offR11, sentinelReg(11))
	set(offR10, sentinelReg(10))
	set(offR9, sentinelReg(9))
	set(offR8, sentinelReg(8))
	set(offR7, sentinelReg(7))
	set(offR6, sentinelReg(6))
	set(offR5, sentinelReg(5))
	set(offR4, sentinelReg(4))

	return top + offR4, nil
}

// EntryTag derives the host-only diagnostic word seeded at the
// return-PC offset. On real target hardware this word is the thread's
// actual code address; on the host there is no linker-assigned address
// for a Go func value, so Seed stashes a truncated pointer purely so
// invariant checks (spec.md §8 property 2: "entry_point at offset -2")
// can confirm seeding happened. internal/hostsim never branches
// through this value — it calls the TCB's entry function directly.
func EntryTag(entry func()) uint32 {
	return uint32(reflect.ValueOf(entry).Pointer())
}

// TopWord returns the index, into stack, of the frame's top (xPSR)
// word — the mirror image of Seed's top bookkeeping, used by tests
// that want to read back individual seeded words without
// re-deriving the offsets.
func TopWord(stack []uint32) int {
	return len(stack) - 1
}

// WordAt reads the word at offset from the top of stack, returning
// ok=false if offset places it out of range.
func WordAt(stack []uint32, offset int) (word uint32, ok bool) {
	idx := len(stack) + offset
	if idx < 0 || idx >= len(stack) {
		return 0, false
	}
	return stack[idx], true
}
