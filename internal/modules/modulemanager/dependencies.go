package modulemanager

import (
	"fmt"
	"sort"
	"strings"
)

// initializationOrder sorts modules so every module comes after the modules
// it depends on. Ties are broken by id to keep startup deterministic.
func initializationOrder(modules map[string]Module) ([]Module, error) {
	deps := make(map[string][]string, len(modules))
	for id, module := range modules {
		if provider, ok := module.(DependencyProvider); ok {
			for _, depID := range provider.Dependencies() {
				if _, exists := modules[depID]; !exists {
					return nil, fmt.Errorf("module %s depends on non-existent module %s", id, depID)
				}
				deps[id] = append(deps[id], depID)
			}
		}
	}

	ids := make([]string, 0, len(modules))
	for id := range modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	const (
		unvisited = iota
		inStack
		done
	)
	state := make(map[string]int, len(modules))
	order := make([]Module, 0, len(modules))

	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		switch state[id] {
		case done:
			return nil
		case inStack:
			return fmt.Errorf("dependency cycle detected: %s", strings.Join(append(path, id), " -> "))
		}

		state[id] = inStack
		children := append([]string(nil), deps[id]...)
		sort.Strings(children)
		for _, depID := range children {
			if err := visit(depID, append(path, id)); err != nil {
				return err
			}
		}
		state[id] = done
		order = append(order, modules[id])
		return nil
	}

	for _, id := range ids {
		if err := visit(id, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}
