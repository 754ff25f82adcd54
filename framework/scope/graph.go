package scope

import (
	"fmt"
	"strings"
)

// sortDescriptors orders descs so that every descriptor appears after all
// descriptors it depends on (Kahn's algorithm). The ready queue is FIFO
// and seeded in registration order, so ties among simultaneously-ready
// keys resolve deterministically.
//
// It fails with ErrUnresolvedDependency if a declared dependency has no
// descriptor in descs, and with ErrCyclicDependency if the graph contains
// a cycle. Both are detected before any factory runs.
func sortDescriptors(descs []Descriptor) ([]Descriptor, error) {
	byKey := make(map[Key]int, len(descs))
	indegree := make(map[Key]int, len(descs))
	for i, d := range descs {
		byKey[d.Key] = i
		indegree[d.Key] = 0
	}

	// key → keys that depend on it.
	dependents := make(map[Key][]Key, len(descs))
	for _, d := range descs {
		for _, dep := range d.DependsOn {
			if _, ok := byKey[dep]; !ok {
				return nil, fmt.Errorf("%w: %q required by %q", ErrUnresolvedDependency, dep, d.Key)
			}
			dependents[dep] = append(dependents[dep], d.Key)
			indegree[d.Key]++
		}
	}

	queue := make([]Key, 0, len(descs))
	for _, d := range descs {
		if indegree[d.Key] == 0 {
			queue = append(queue, d.Key)
		}
	}

	sorted := make([]Descriptor, 0, len(descs))
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		sorted = append(sorted, descs[byKey[key]])

		for _, next := range dependents[key] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sorted) < len(descs) {
		return nil, fmt.Errorf("%w: %s", ErrCyclicDependency, cycleMembers(descs, sorted))
	}
	return sorted, nil
}

// cycleMembers names the keys left unvisited by the sort, in registration
// order, for the ErrCyclicDependency message.
func cycleMembers(descs, sorted []Descriptor) string {
	visited := make(map[Key]bool, len(sorted))
	for _, d := range sorted {
		visited[d.Key] = true
	}
	var left []string
	for _, d := range descs {
		if !visited[d.Key] {
			left = append(left, string(d.Key))
		}
	}
	return strings.Join(left, " -> ")
}
