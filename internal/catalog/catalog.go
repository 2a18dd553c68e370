// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

// Package catalog provides the in-memory course index and the prerequisite
// graph validator. A Catalog is built fresh on every load; it is owned by a
// single caller and is not safe for concurrent mutation.
package catalog

import (
	"sort"
	"strings"

	"github.com/nvalles/courseplanner/internal/model"
)

// Catalog is an indexed set of courses for one load session, keyed by the
// normalized course number for O(1) lookup.
type Catalog struct {
	index map[string]model.Course
}

// SkippedRow records one input row that was rejected during Load.
type SkippedRow struct {
	Line   int
	Reason string
}

// LoadReport summarizes a Load: how many courses made it into the index,
// how many rows replaced an earlier course with the same number, and which
// rows were skipped as malformed. Skipped rows are data-quality findings,
// not errors; the load continues past them.
type LoadReport struct {
	Loaded     int
	Overwrites int
	Skipped    []SkippedRow
}

// Load builds a new Catalog from already-tokenized rows. Rows that cannot
// yield a course number and name are skipped and reported; blank rows are
// skipped silently. A later row with an already-seen number overwrites the
// earlier course. Load never mutates a previously built catalog.
func Load(rows [][]string) (*Catalog, *LoadReport) {
	c := &Catalog{index: make(map[string]model.Course, len(rows))}
	report := &LoadReport{}

	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		course, err := model.ParseRow(row)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{Line: i + 1, Reason: err.Error()})
			continue
		}
		if _, exists := c.index[course.Number]; exists {
			report.Overwrites++
		}
		c.index[course.Number] = course
	}
	report.Loaded = len(c.index)
	return c, report
}

func blankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Lookup returns the course for a number, normalizing the input first.
func (c *Catalog) Lookup(number string) (model.Course, bool) {
	course, ok := c.index[model.NormalizeNumber(number)]
	return course, ok
}

// Len returns the number of courses in the catalog.
func (c *Catalog) Len() int {
	return len(c.index)
}

// Numbers returns all course numbers in ordinal order.
func (c *Catalog) Numbers() []string {
	nums := make([]string, 0, len(c.index))
	for n := range c.index {
		nums = append(nums, n)
	}
	sort.Strings(nums)
	return nums
}

// SortedList returns the courses ordered by course number using ordinal
// string comparison. The underlying index is not mutated; the result is a
// fresh slice on every call.
func (c *Catalog) SortedList() []model.Course {
	out := make([]model.Course, 0, len(c.index))
	for _, n := range c.Numbers() {
		out = append(out, c.index[n])
	}
	return out
}

// Reader is the read contract shared by the in-memory catalog and the
// durable store, so callers can serve lookups from either backend through
// one code path.
type Reader interface {
	Find(number string) (*model.Course, error)
	List() ([]model.Course, error)
	Count() (int, error)
}

// Find implements Reader over the in-memory index. A miss returns
// (nil, nil); the in-memory path has no failure mode.
func (c *Catalog) Find(number string) (*model.Course, error) {
	course, ok := c.Lookup(number)
	if !ok {
		return nil, nil
	}
	return &course, nil
}

// List implements Reader, returning courses in sorted order.
func (c *Catalog) List() ([]model.Course, error) {
	return c.SortedList(), nil
}

// Count implements Reader.
func (c *Catalog) Count() (int, error) {
	return len(c.index), nil
}
