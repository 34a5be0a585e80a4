package coverpdf

import "errors"

// Path tags which branch of a fallback chain produced a value.
type Path string

// Fallback paths.
const (
	PathPrimary  Path = "primary"
	PathFallback Path = "fallback"
	PathFailed   Path = "failed"
)

// Outcome records how a fallback chain resolved.
// Strategy names the attempt that succeeded, or the last one tried on failure.
// Err holds the error of the first attempt when a later one succeeded, or the
// joined errors of every attempt when all failed.
type Outcome struct {
	Path     Path
	Strategy string
	Err      error
}

// OK reports whether any strategy succeeded.
func (o Outcome) OK() bool { return o.Path != PathFailed }

// strategy is one named attempt in a fallback chain.
type strategy[T any] struct {
	name string
	try  func() (T, error)
}

func attempt[T any](name string, try func() (T, error)) strategy[T] {
	return strategy[T]{name: name, try: try}
}

// firstOf evaluates strategies in order and returns the first success.
// The first strategy is the primary path; any later one is a fallback.
func firstOf[T any](strategies ...strategy[T]) (T, Outcome) {
	var zero T
	var errs []error
	for i, s := range strategies {
		v, err := s.try()
		if err == nil {
			out := Outcome{Path: PathPrimary, Strategy: s.name}
			if i > 0 {
				out.Path = PathFallback
				out.Err = errs[0]
			}
			return v, out
		}
		errs = append(errs, err)
	}
	out := Outcome{Path: PathFailed, Err: errors.Join(errs...)}
	if n := len(strategies); n > 0 {
		out.Strategy = strategies[n-1].name
	}
	return zero, out
}
