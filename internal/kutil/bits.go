// Package kutil holds small generic numeric helpers shared by the
// scheduler's tick counter and the TCB pool's stack-size validation.
package kutil

// WrapIncrement adds 1 to counter and wraps back to 0 once it reaches
// limit. Used for the tick counter, which resets at 1000 (spec §3
// invariant: "tick_counter modulo 1000 is always in [0, 999]").
func WrapIncrement[T ~uint32 | ~uint64 | ~int](counter, limit T) T {
	next := counter + 1
	if next >= limit {
		return 0
	}
	return next
}
