package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/pulsenet/internal/ir"
)

// Loop is a feedback loop in the wiring graph.
//
// Loops are what make a pulse network stateful over presses: binary
// counters are flip-flop chains closed through a conjunction.
type Loop struct {
	Modules []string `json:"modules"` // SCC members in declaration order
	Path    []string `json:"path"`    // one traversal, first module repeated at the end
	Message string   `json:"message"`
}

// wiringGraph maps module name -> declared destinations.
type wiringGraph map[string][]string

// AnalyzeLoops returns the strongly connected components of the wiring
// graph that contain a cycle, ordered by the declaration index of their
// first member.
//
// The algorithm:
//  1. Build name -> destinations from declarations (sinks have no edges)
//  2. Run Tarjan's algorithm, visiting roots in declaration order
//  3. Keep each SCC with size > 1, or a single module wired to itself
func AnalyzeLoops(decls []ir.Declaration) []Loop {
	if len(decls) == 0 {
		return []Loop{}
	}

	order := make(map[string]int, len(decls))
	graph := make(wiringGraph, len(decls))
	roots := make([]string, 0, len(decls))
	for i, d := range decls {
		order[d.Name] = i
		graph[d.Name] = d.Destinations
		roots = append(roots, d.Name)
	}

	sccs := tarjanSCC(graph, roots)

	loops := []Loop{}
	for _, scc := range sccs {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			sortByOrder(scc, order)
			loops = append(loops, sccToLoop(scc, graph))
		}
	}
	sortLoops(loops, order)
	return loops
}

func hasSelfLoop(node string, graph wiringGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes that only appear as destinations (sinks) are visited but form
// singleton components without edges.
func tarjanSCC(graph wiringGraph, roots []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range roots {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

func sccToLoop(scc []string, graph wiringGraph) Loop {
	if len(scc) == 1 {
		name := scc[0]
		return Loop{
			Modules: scc,
			Path:    []string{name, name},
			Message: fmt.Sprintf("module %s feeds itself", name),
		}
	}

	path := loopPath(scc, graph)
	return Loop{
		Modules: scc,
		Path:    path,
		Message: fmt.Sprintf("feedback loop: %s", strings.Join(path, " -> ")),
	}
}

// loopPath walks from the first SCC member along edges that stay inside
// the SCC until it returns to the start or runs out of unvisited members.
func loopPath(scc []string, graph wiringGraph) []string {
	members := make(map[string]bool, len(scc))
	for _, node := range scc {
		members[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && !visited[neighbor] {
				next = neighbor
				break
			}
		}
		if next == "" {
			// Close the loop if the current module wires back to the start.
			for _, neighbor := range graph[current] {
				if neighbor == start {
					path = append(path, start)
					break
				}
			}
			break
		}

		path = append(path, next)
		current = next
	}

	return path
}

func sortByOrder(names []string, order map[string]int) {
	slices.SortFunc(names, func(a, b string) int {
		return order[a] - order[b]
	})
}

func sortLoops(loops []Loop, order map[string]int) {
	slices.SortFunc(loops, func(a, b Loop) int {
		return order[a.Modules[0]] - order[b.Modules[0]]
	})
}
