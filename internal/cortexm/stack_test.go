package cortexm

import "testing"

func TestSeedLayout(t *testing.T) {
	stack := make([]uint32, FrameWords)
	entry := func() {}

	sp, err := Seed(stack, entry)
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if sp != 0 {
		t.Errorf("sp = %d, want 0 (R4 sits at the bottom of a minimal frame)", sp)
	}

	xpsr, _ := WordAt(stack, offXPSR)
	if xpsr != PSRThumbBit {
		t.Errorf("xPSR = 0x%x, want Thumb bit 0x%x set", xpsr, PSRThumbBit)
	}

	pc, _ := WordAt(stack, offPC)
	if pc != EntryTag(entry) {
		t.Errorf("PC word = 0x%x, want EntryTag(entry) = 0x%x", pc, EntryTag(entry))
	}

	lr, _ := WordAt(stack, offLR)
	if lr != sentinelLR {
		t.Errorf("LR = 0x%x, want sentinel 0x%x", lr, sentinelLR)
	}

	r4, _ := WordAt(stack, offR4)
	if r4 != sentinelReg(4) {
		t.Errorf("R4 = 0x%x, want sentinel 0x%x", r4, sentinelReg(4))
	}
}

func TestSeedRejectsShortStack(t *testing.T) {
	stack := make([]uint32, FrameWords-1)
	if _, err := Seed(stack, func() {}); err == nil {
		t.Error("Seed succeeded on a too-short stack, want an error")
	}
}

func TestWordAtOutOfRange(t *testing.T) {
	stack := make([]uint32, FrameWords)
	if _, ok := WordAt(stack, -(FrameWords + 1)); ok {
		t.Error("WordAt reported ok for an out-of-range offset")
	}
	if _, ok := WordAt(stack, 1); ok {
		t.Error("WordAt reported ok for a positive offset past the top")
	}
}
