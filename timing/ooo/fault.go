package ooo

import "fmt"

// FaultKind classifies a fatal datapath error per the specification's
// error-handling design: all three kinds abort the simulator, there is no
// recovery path. Precise exceptions and branch mispredictions are not
// faults — they are modeled control flow (see the rewind, restart and
// gotoPC results of Datapath.Tick).
type FaultKind uint8

const (
	// StructuralPortViolation means a component was queried or acted on
	// more times in one cycle than its configured port count allows —
	// the configuration is not synthesizable.
	StructuralPortViolation FaultKind = iota
	// InvariantViolation covers size overflow, duplicate live tags, two
	// branches resolving in a cycle, retire-before-complete, a query in
	// the commit phase or an action in the combinational phase, etc.
	InvariantViolation
	// ModelingDivergence means the OoO result disagreed with the
	// golden-reference cookie: a rename or forwarding bug.
	ModelingDivergence
)

func (k FaultKind) String() string {
	switch k {
	case StructuralPortViolation:
		return "structural port violation"
	case InvariantViolation:
		return "invariant violation"
	case ModelingDivergence:
		return "modeling divergence"
	default:
		return "unknown fault"
	}
}

// Fault is the diagnostic raised for any of the three fatal error
// categories. Components panic with a *Fault; the top-level driver
// recovers exactly once to print the diagnostic line and exit nonzero.
type Fault struct {
	Kind      FaultKind
	Component string
	Op        string
	Msg       string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s.%s: %s", f.Kind, f.Component, f.Op, f.Msg)
}

// assertf panics with an InvariantViolation Fault if cond is false.
func assertf(component, op string, cond bool, format string, args ...any) {
	if !cond {
		panic(&Fault{
			Kind:      InvariantViolation,
			Component: component,
			Op:        op,
			Msg:       fmt.Sprintf(format, args...),
		})
	}
}
