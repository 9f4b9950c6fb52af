package readylist

import (
	"testing"

	"krtos/internal/cortexm"
	"krtos/internal/tcb"
)

func cfgWithPriority(p uint8) tcb.Config {
	return tcb.Config{
		Entry:      func() {},
		StackWords: cortexm.FrameWords,
		Period:     1,
		Priority:   p,
	}
}

func TestAppendLinksInOrder(t *testing.T) {
	r := New(tcb.MaxTasks)

	a, err := r.Append(cfgWithPriority(0))
	if err != nil {
		t.Fatalf("Append a: %v", err)
	}
	b, err := r.Append(cfgWithPriority(0))
	if err != nil {
		t.Fatalf("Append b: %v", err)
	}

	if r.Current() != a {
		t.Errorf("Current() = %d, want first-appended index %d", r.Current(), a)
	}
	if r.At(a).Next != b {
		t.Errorf("a.Next = %d, want %d", r.At(a).Next, b)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestClosePointsLastBackToFirst(t *testing.T) {
	r := New(tcb.MaxTasks)
	a, _ := r.Append(cfgWithPriority(0))
	b, _ := r.Append(cfgWithPriority(0))

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if r.At(b).Next != a {
		t.Errorf("last.Next = %d, want first %d", r.At(b).Next, a)
	}
	if r.Fallback() != b {
		t.Errorf("Fallback() = %d, want last-appended %d", r.Fallback(), b)
	}
}

func TestAppendFailsWhenPoolFull(t *testing.T) {
	r := New(tcb.MaxTasks)
	for i := 0; i < tcb.MaxTasks; i++ {
		if _, err := r.Append(cfgWithPriority(0)); err != nil {
			t.Fatalf("Append %d: unexpected error %v", i, err)
		}
	}
	if _, err := r.Append(cfgWithPriority(0)); err == nil {
		t.Error("Append succeeded past MaxTasks, want an error")
	}
}

// A cap smaller than tcb.MaxTasks rejects Appends past that cap, even
// though the backing array has room for more.
func TestAppendFailsPastConfiguredCap(t *testing.T) {
	r := New(2)
	for i := 0; i < 2; i++ {
		if _, err := r.Append(cfgWithPriority(0)); err != nil {
			t.Fatalf("Append %d: unexpected error %v", i, err)
		}
	}
	if _, err := r.Append(cfgWithPriority(0)); err == nil {
		t.Error("Append succeeded past the configured cap of 2, want an error")
	}
}

// New clamps an out-of-range cap to tcb.MaxTasks instead of silently
// accepting zero/negative/too-large values.
func TestNewClampsCap(t *testing.T) {
	r := New(0)
	for i := 0; i < tcb.MaxTasks; i++ {
		if _, err := r.Append(cfgWithPriority(0)); err != nil {
			t.Fatalf("Append %d: unexpected error %v", i, err)
		}
	}
	if _, err := r.Append(cfgWithPriority(0)); err == nil {
		t.Error("Append succeeded past tcb.MaxTasks after New(0), want an error")
	}
}

func TestRemoveReusesFreedSlot(t *testing.T) {
	r := New(tcb.MaxTasks)
	a, _ := r.Append(cfgWithPriority(0))
	b, _ := r.Append(cfgWithPriority(0))
	c, _ := r.Append(cfgWithPriority(0))

	if err := r.Remove(b); err != nil {
		t.Fatalf("Remove(b): %v", err)
	}
	if r.At(b).InUse() {
		t.Error("removed slot still reports InUse")
	}
	if r.At(a).Next != c {
		t.Errorf("a.Next = %d, want splice straight to c %d", r.At(a).Next, c)
	}

	reused, err := r.Append(cfgWithPriority(0))
	if err != nil {
		t.Fatalf("Append after Remove: %v", err)
	}
	if reused != b {
		t.Errorf("Append after Remove reused slot %d, want freed slot %d", reused, b)
	}
	if r.At(c).Next != reused {
		t.Errorf("c.Next (last-appended before Remove) = %d, want newly appended slot %d", r.At(c).Next, reused)
	}
}

func TestRemoveAdvancesCurrentWhenRemovingCurrent(t *testing.T) {
	r := New(tcb.MaxTasks)
	a, _ := r.Append(cfgWithPriority(0))
	b, _ := r.Append(cfgWithPriority(0))
	_ = r.Close()

	r.SetCurrent(a)
	if err := r.Remove(a); err != nil {
		t.Fatalf("Remove(a): %v", err)
	}
	if r.Current() != b {
		t.Errorf("Current() = %d after removing current, want successor %d", r.Current(), b)
	}
}

func TestRemoveRefusesLastThread(t *testing.T) {
	r := New(tcb.MaxTasks)
	a, _ := r.Append(cfgWithPriority(0))
	if err := r.Remove(a); err == nil {
		t.Error("Remove succeeded on the only remaining thread, want an error")
	}
}

func TestCloseSortedByPriorityDescending(t *testing.T) {
	r := New(tcb.MaxTasks)
	low, _ := r.Append(cfgWithPriority(1))
	high, _ := r.Append(cfgWithPriority(9))
	mid, _ := r.Append(cfgWithPriority(5))

	if err := r.CloseSortedByPriority(); err != nil {
		t.Fatalf("CloseSortedByPriority: %v", err)
	}

	if r.Current() != high {
		t.Errorf("Current() = %d, want highest-priority slot %d", r.Current(), high)
	}
	if r.At(high).Next != mid {
		t.Errorf("high.Next = %d, want mid %d", r.At(high).Next, mid)
	}
	if r.At(mid).Next != low {
		t.Errorf("mid.Next = %d, want low %d", r.At(mid).Next, low)
	}
	if r.At(low).Next != high {
		t.Errorf("low.Next = %d, want wrap back to high %d", r.At(low).Next, high)
	}
}

func TestWalkStopsEarly(t *testing.T) {
	r := New(tcb.MaxTasks)
	a, _ := r.Append(cfgWithPriority(0))
	b, _ := r.Append(cfgWithPriority(0))
	_ = r.Close()

	var visited []int
	r.Walk(a, func(idx int) bool {
		visited = append(visited, idx)
		return idx != b
	})

	if len(visited) != 2 || visited[0] != a || visited[1] != b {
		t.Errorf("Walk visited %v, want [%d %d]", visited, a, b)
	}
}

func TestForEachIndexOrder(t *testing.T) {
	r := New(tcb.MaxTasks)
	_, _ = r.Append(cfgWithPriority(0))
	b, _ := r.Append(cfgWithPriority(0))
	_ = r.Remove(b)
	reused, _ := r.Append(cfgWithPriority(0))

	var visited []int
	r.ForEach(func(idx int) { visited = append(visited, idx) })

	if len(visited) != 2 {
		t.Fatalf("ForEach visited %d slots, want 2", len(visited))
	}
	if visited[1] != reused {
		t.Errorf("ForEach visited %v, want reused slot %d last", visited, reused)
	}
}
