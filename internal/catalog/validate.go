// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

package catalog

import (
	"fmt"
	"strings"
)

// IssueKind distinguishes the two classes of validation findings.
type IssueKind int

const (
	// MissingPrerequisite means a course lists a prerequisite number that
	// is absent from the catalog.
	MissingPrerequisite IssueKind = iota
	// CircularDependency means the prerequisite graph contains a directed
	// cycle through the listed courses.
	CircularDependency
)

// Issue is one validation finding. For MissingPrerequisite, Course and
// Missing are set; for CircularDependency, Cycle holds the members in path
// order starting at the lexicographically smallest one.
type Issue struct {
	Kind    IssueKind
	Course  string
	Missing string
	Cycle   []string
}

// String renders the issue for display.
func (i Issue) String() string {
	switch i.Kind {
	case MissingPrerequisite:
		return fmt.Sprintf("missing prerequisite: %s requires %s, which is not in the catalog", i.Course, i.Missing)
	case CircularDependency:
		if len(i.Cycle) == 1 {
			return fmt.Sprintf("circular dependency: %s lists itself as a prerequisite", i.Cycle[0])
		}
		return fmt.Sprintf("circular dependency: %s -> %s", strings.Join(i.Cycle, " -> "), i.Cycle[0])
	}
	return "unknown issue"
}

// Report is the outcome of validating one catalog.
type Report struct {
	Issues []Issue
}

// OK reports whether validation found no issues.
func (r Report) OK() bool {
	return len(r.Issues) == 0
}

// Cycles returns only the circular-dependency issues.
func (r Report) Cycles() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Kind == CircularDependency {
			out = append(out, i)
		}
	}
	return out
}

// visitState tags a course during the cycle search: unvisited, on the
// active path, or fully explored.
type visitState int

const (
	unvisited visitState = iota
	inProgress
	done
)

// Validate runs both prerequisite checks over the catalog: a single pass
// for references to absent courses, then a depth-first search over the
// prerequisite graph for cycles. Missing-prerequisite issues come first,
// grouped by declaring course in catalog order; cycle issues follow in
// discovery order. Each distinct cycle is reported exactly once regardless
// of where the traversal enters it.
func Validate(c *Catalog) Report {
	var report Report
	courses := c.SortedList()

	for _, course := range courses {
		for _, p := range course.Prerequisites {
			if _, ok := c.Lookup(p); !ok {
				report.Issues = append(report.Issues, Issue{
					Kind:    MissingPrerequisite,
					Course:  course.Number,
					Missing: p,
				})
			}
		}
	}

	state := make(map[string]visitState, c.Len())
	reported := make(map[string]struct{})
	var stack []string

	var visit func(number string)
	visit = func(number string) {
		state[number] = inProgress
		stack = append(stack, number)

		course, _ := c.Lookup(number)
		for _, p := range course.Prerequisites {
			if _, ok := c.Lookup(p); !ok {
				continue // absent course, already reported above
			}
			switch state[p] {
			case done:
				// proven acyclic from there
			case inProgress:
				// The edge closes a cycle: the path segment from p's
				// position on the stack down to the current course.
				start := 0
				for i, n := range stack {
					if n == p {
						start = i
						break
					}
				}
				cycle := canonicalCycle(stack[start:])
				sig := strings.Join(cycle, "->")
				if _, seen := reported[sig]; !seen {
					reported[sig] = struct{}{}
					report.Issues = append(report.Issues, Issue{Kind: CircularDependency, Cycle: cycle})
				}
			default:
				visit(p)
			}
		}

		stack = stack[:len(stack)-1]
		state[number] = done
	}

	for _, course := range courses {
		if state[course.Number] == unvisited {
			visit(course.Number)
		}
	}
	return report
}

// canonicalCycle rotates a cycle so it starts at its lexicographically
// smallest member. Cycle members are unique (the search stack never holds a
// course twice), so the rotation is a collision-free canonical form for
// cycles of any length.
func canonicalCycle(cycle []string) []string {
	min := 0
	for i, n := range cycle {
		if n < cycle[min] {
			min = i
		}
	}
	out := make([]string, 0, len(cycle))
	out = append(out, cycle[min:]...)
	out = append(out, cycle[:min]...)
	return out
}
