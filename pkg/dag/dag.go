// Package dag runs a set of named tasks connected by dependencies.
// A task starts once all its dependencies succeeded, independent tasks
// run concurrently on a bounded pool of workers. Failing tasks are retried
// a configured number of times, the first definitive failure cancels the
// whole run.
package dag

import (
	"context"
	"slices"
	"time"
)

// Task is a unit of work in a graph.
type Task struct {
	// Name identifies the task, it must be unique in a graph.
	Name string

	// Deps are the names of tasks that must succeed before this one starts.
	Deps []string

	// Retries is the number of extra attempts after a failure.
	Retries int

	// Run does the work. It must return when ctx is cancelled.
	Run func(ctx context.Context) error
}

// Result describes the final outcome of a task.
type Result struct {
	Name     string
	Attempts int
	Duration time.Duration
	Err      error
}

// Graph is a validated acyclic set of tasks.
type Graph struct {
	tasks      []Task
	idx        map[string]int
	dependents [][]int
}

// New validates tasks and builds a graph. Names must be unique and non
// empty, dependencies must exist and there must be no cycles.
func New(tasks ...Task) (*Graph, error) {
	g := &Graph{
		tasks: slices.Clone(tasks),
		idx:   make(map[string]int, len(tasks)),
	}
	for i, t := range g.tasks {
		if t.Name == "" {
			return nil, EmptyNameError(i)
		}
		if _, ok := g.idx[t.Name]; ok {
			return nil, DuplicateTaskError(t.Name)
		}
		if t.Run == nil {
			return nil, NoRunError(t.Name)
		}
		g.idx[t.Name] = i
	}

	g.dependents = make([][]int, len(g.tasks))
	for i, t := range g.tasks {
		for _, d := range t.Deps {
			di, ok := g.idx[d]
			if !ok {
				return nil, UnknownDependencyError(t.Name, d)
			}
			g.dependents[di] = append(g.dependents[di], i)
		}
	}

	if _, err := g.order(); err != nil {
		return nil, err
	}
	return g, nil
}

// Len returns the number of tasks.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// Order returns task names in a valid execution order. Ties keep the
// order in which tasks were given to New.
func (g *Graph) Order() []string {
	idx, _ := g.order()
	res := make([]string, len(idx))
	for i, v := range idx {
		res[i] = g.tasks[v].Name
	}
	return res
}

func (g *Graph) indegrees() []int {
	res := make([]int, len(g.tasks))
	for i, t := range g.tasks {
		res[i] = len(t.Deps)
	}
	return res
}

func (g *Graph) order() ([]int, error) {
	indeg := g.indegrees()
	var queue, res []int
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		res = append(res, i)
		for _, c := range g.dependents[i] {
			indeg[c]--
			if indeg[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if len(res) < len(g.tasks) {
		var stuck []string
		for i, d := range indeg {
			if d > 0 {
				stuck = append(stuck, g.tasks[i].Name)
			}
		}
		return nil, CycleError(stuck)
	}
	return res, nil
}
