// Package module implements the noise-module graph: generators that draw on a
// noise.Source, combinators that merge child outputs, and point transforms
// that remap coordinates before delegating to a child.
//
// Every module is immutable once constructed and evaluating it is a pure
// function of the input point, so a graph can be shared by any number of
// goroutines without locking.
package module

import (
	"errors"
	"fmt"
	"math"
)

// ErrConfig is wrapped by every configuration error in the graph, builder and
// renderer constructors.
var ErrConfig = errors.New("invalid configuration")

// MaxOctaves bounds the octave count of fractal generators.
const MaxOctaves = 30

// Module is a node in a noise graph.
//
// Implementations must be comparable (pointer types) because graph walks key
// on node identity.
type Module interface {
	// Value evaluates the module at a point.
	Value(x, y, z float64) float64
	// Sources returns the direct children in a fixed order.
	Sources() []Module
}

func configErr(kind, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrConfig, kind, fmt.Sprintf(format, args...))
}

func requireSources(kind string, sources ...Module) error {
	for i, s := range sources {
		if s == nil {
			return configErr(kind, "source %d is nil", i)
		}
	}
	return nil
}

// positive reports whether v is a finite number greater than zero.
func positive(v float64) bool {
	return v > 0 && v <= math.MaxFloat64
}
