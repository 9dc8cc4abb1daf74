package module

import "fmt"

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	done
)

// Walk visits every distinct module reachable from roots exactly once, always
// after all of its sources (post-order). A module referenced by several
// parents is visited once. A cycle is reported as a configuration error.
func Walk(roots []Module, visit func(Module) error) error {
	state := make(map[Module]visitState)

	var walk func(m Module, depth int) error
	walk = func(m Module, depth int) error {
		if m == nil {
			return configErr("graph", "nil module at depth %d", depth)
		}
		switch state[m] {
		case done:
			return nil
		case visiting:
			return configErr("graph", "cycle detected at %T", m)
		}

		state[m] = visiting
		for _, src := range m.Sources() {
			if err := walk(src, depth+1); err != nil {
				return err
			}
		}
		state[m] = done

		if visit != nil {
			if err := visit(m); err != nil {
				return fmt.Errorf("failed to visit %T: %w", m, err)
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := walk(root, 0); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that the graph under root is acyclic and has no nil sources.
func Validate(root Module) error {
	return Walk([]Module{root}, nil)
}

// Count returns the number of distinct modules reachable from roots.
func Count(roots ...Module) (int, error) {
	n := 0
	err := Walk(roots, func(Module) error {
		n++
		return nil
	})
	return n, err
}
