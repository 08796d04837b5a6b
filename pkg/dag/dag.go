// Package dag provides a directed acyclic graph over comparable vertex IDs,
// with deterministic topological ordering. Vertices carry an integer Order
// used to break ties between vertices that have no dependency relation, so
// that the same graph always sorts to the same sequence.
package dag

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Vertex is a node in the graph together with its outgoing dependency edges.
type Vertex[T comparable] struct {
	// ID uniquely identifies the vertex.
	ID T

	// Order breaks ties between vertices with no dependency relation.
	// Lower orders sort first.
	Order int

	// DependsOn holds the IDs this vertex depends on (edges vertex -> dependency).
	DependsOn map[T]struct{}
}

// DirectedAcyclicGraph holds vertices keyed by ID. The graph refuses edge
// insertions that would introduce a cycle, so a graph built exclusively
// through AddVertex/AddDependencies is acyclic by construction. Vertices is
// exported for read access; callers that mutate it directly bypass that
// guarantee and are caught by the sort operations instead.
type DirectedAcyclicGraph[T comparable] struct {
	Vertices map[T]*Vertex[T]
}

// NewDirectedAcyclicGraph returns an empty graph.
func NewDirectedAcyclicGraph[T comparable]() *DirectedAcyclicGraph[T] {
	return &DirectedAcyclicGraph[T]{
		Vertices: make(map[T]*Vertex[T]),
	}
}

// CycleError reports a dependency cycle. Cycle holds one closed walk through
// the offending vertices, first vertex repeated at the end.
type CycleError[T comparable] struct {
	Cycle []T
}

func (e *CycleError[T]) Error() string {
	parts := make([]string, 0, len(e.Cycle))
	for _, id := range e.Cycle {
		parts = append(parts, fmt.Sprintf("%v", id))
	}
	return fmt.Sprintf("graph contains a cycle: %s", strings.Join(parts, " -> "))
}

// AsCycleError returns the CycleError in err's chain, or nil if there is none.
func AsCycleError[T comparable](err error) *CycleError[T] {
	var cycleErr *CycleError[T]
	if errors.As(err, &cycleErr) {
		return cycleErr
	}
	return nil
}

// AddVertex adds a vertex with the given tie-break order. Adding an ID twice
// is an error.
func (d *DirectedAcyclicGraph[T]) AddVertex(id T, order int) error {
	if _, exists := d.Vertices[id]; exists {
		return fmt.Errorf("vertex %v already exists in the graph", id)
	}
	d.Vertices[id] = &Vertex[T]{
		ID:        id,
		Order:     order,
		DependsOn: make(map[T]struct{}),
	}
	return nil
}

// AddDependencies records that from depends on each of dependencies. Both
// endpoints must already be vertices. Self references and edges that would
// close a cycle are rejected with a CycleError describing the cycle. The call
// is all-or-nothing: on any error the edges inserted earlier in the same call
// are removed again, leaving the vertex as it was.
func (d *DirectedAcyclicGraph[T]) AddDependencies(from T, dependencies []T) error {
	fromVertex, ok := d.Vertices[from]
	if !ok {
		return fmt.Errorf("vertex %v not found in the graph", from)
	}

	var added []T
	rollback := func() {
		for _, dep := range added {
			delete(fromVertex.DependsOn, dep)
		}
	}

	for _, dep := range dependencies {
		if dep == from {
			rollback()
			return fmt.Errorf("vertex %v cannot depend on itself", from)
		}
		if _, ok := d.Vertices[dep]; !ok {
			rollback()
			return fmt.Errorf("dependency %v of vertex %v not found in the graph", dep, from)
		}
		if _, exists := fromVertex.DependsOn[dep]; exists {
			continue
		}

		fromVertex.DependsOn[dep] = struct{}{}
		added = append(added, dep)
		if cyclic, cycle := d.hasCycle(); cyclic {
			rollback()
			return &CycleError[T]{Cycle: cycle}
		}
	}
	return nil
}

// Dependencies returns the immediate dependency IDs of the given vertex,
// sorted by vertex order. Unknown IDs yield nil.
func (d *DirectedAcyclicGraph[T]) Dependencies(id T) []T {
	v, ok := d.Vertices[id]
	if !ok {
		return nil
	}
	return d.sortedDeps(v)
}

// Dependents returns the IDs of vertices that directly depend on the given
// vertex, sorted by vertex order. This is an O(V) walk; graphs here are small.
func (d *DirectedAcyclicGraph[T]) Dependents(id T) []T {
	var out []T
	for _, v := range d.sortedVertices() {
		if _, ok := v.DependsOn[id]; ok {
			out = append(out, v.ID)
		}
	}
	return out
}

// TopologicalSort returns all vertex IDs in dependency order: every vertex
// appears after everything it depends on. Ties are broken by vertex Order, so
// the result is identical across runs for the same graph. Fails with a
// CycleError if the graph is cyclic.
func (d *DirectedAcyclicGraph[T]) TopologicalSort() ([]T, error) {
	levels, err := d.TopologicalSortLevels()
	if err != nil {
		return nil, err
	}
	order := make([]T, 0, len(d.Vertices))
	for _, level := range levels {
		order = append(order, level...)
	}
	return order, nil
}

// TopologicalSortLevels returns the vertices grouped into levels: every
// vertex's dependencies live in strictly earlier levels, and vertices within
// a level have no edges between them. Within a level, vertices are sorted by
// Order. Concatenating the levels yields exactly TopologicalSort's result.
func (d *DirectedAcyclicGraph[T]) TopologicalSortLevels() ([][]T, error) {
	if cyclic, cycle := d.hasCycle(); cyclic {
		return nil, &CycleError[T]{Cycle: cycle}
	}

	remaining := make(map[T]int, len(d.Vertices))
	dependents := make(map[T][]T)
	for id, v := range d.Vertices {
		remaining[id] = len(v.DependsOn)
		for dep := range v.DependsOn {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var levels [][]T
	for len(remaining) > 0 {
		var frontier []T
		for id, missing := range remaining {
			if missing == 0 {
				frontier = append(frontier, id)
			}
		}
		// hasCycle above guarantees the frontier is never empty here.
		sort.Slice(frontier, func(i, j int) bool {
			return d.Vertices[frontier[i]].Order < d.Vertices[frontier[j]].Order
		})

		for _, id := range frontier {
			delete(remaining, id)
			for _, dependent := range dependents[id] {
				if _, ok := remaining[dependent]; ok {
					remaining[dependent]--
				}
			}
		}
		levels = append(levels, frontier)
	}
	return levels, nil
}

// hasCycle reports whether the graph contains a cycle and, if so, returns one
// closed walk through it. Traversal visits vertices and edges in Order, so
// the reported cycle is stable for a given graph.
func (d *DirectedAcyclicGraph[T]) hasCycle() (bool, []T) {
	visited := make(map[T]bool, len(d.Vertices))
	inStack := make(map[T]bool, len(d.Vertices))
	var stack []T

	var visit func(id T) []T
	visit = func(id T) []T {
		if inStack[id] {
			for i, v := range stack {
				if v == id {
					cycle := append([]T{}, stack[i:]...)
					return append(cycle, id)
				}
			}
			return []T{id, id}
		}
		if visited[id] {
			return nil
		}
		visited[id] = true
		inStack[id] = true
		stack = append(stack, id)

		for _, dep := range d.sortedDeps(d.Vertices[id]) {
			if cycle := visit(dep); cycle != nil {
				return cycle
			}
		}

		stack = stack[:len(stack)-1]
		inStack[id] = false
		return nil
	}

	for _, v := range d.sortedVertices() {
		if cycle := visit(v.ID); cycle != nil {
			return true, cycle
		}
	}
	return false, nil
}

func (d *DirectedAcyclicGraph[T]) sortedVertices() []*Vertex[T] {
	out := make([]*Vertex[T], 0, len(d.Vertices))
	for _, v := range d.Vertices {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (d *DirectedAcyclicGraph[T]) sortedDeps(v *Vertex[T]) []T {
	out := make([]T, 0, len(v.DependsOn))
	for dep := range v.DependsOn {
		out = append(out, dep)
	}
	sort.Slice(out, func(i, j int) bool {
		return d.Vertices[out[i]].Order < d.Vertices[out[j]].Order
	})
	return out
}
