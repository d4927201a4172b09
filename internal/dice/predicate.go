package dice

import "context"

// KeepGoing is asked "may evaluation continue?" at every evaluation step.
// One step is taken per term and one per die.
type KeepGoing func() bool

// Always never halts evaluation.
func Always() KeepGoing {
	return func() bool { return true }
}

// MaxSteps allows at most n evaluation steps. The returned predicate keeps a
// counter, so build a new one for every evaluation and do not share it
// between goroutines.
func MaxSteps(n int) KeepGoing {
	remaining := n
	return func() bool {
		if remaining <= 0 {
			return false
		}
		remaining--
		return true
	}
}

// UntilDone halts evaluation once ctx is cancelled or its deadline passes.
func UntilDone(ctx context.Context) KeepGoing {
	return func() bool {
		return ctx.Err() == nil
	}
}

// All continues only while every predicate agrees. Nil predicates are
// skipped.
func All(predicates ...KeepGoing) KeepGoing {
	return func() bool {
		for _, predicate := range predicates {
			if predicate != nil && !predicate() {
				return false
			}
		}
		return true
	}
}
