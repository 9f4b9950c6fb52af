package sched

// Kind selects one of the three scheduler policies spec.md §4.3
// describes as chosen "at compile time." Go has no compile-time
// #if, so krtos.Config pins a Kind once at Init and never reconsiders
// it afterward — the closest idiomatic stand-in.
type Kind int

const (
	RoundRobin Kind = iota
	Periodic
	Preemptive
)

func (k Kind) String() string {
	switch k {
	case RoundRobin:
		return "round-robin"
	case Periodic:
		return "periodic"
	case Preemptive:
		return "preemptive"
	default:
		return "unknown"
	}
}
