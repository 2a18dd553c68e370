// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

// Package migrate moves a validated in-memory catalog into the relational
// store. The whole batch runs in one transaction: either every course and
// edge lands, or the database is untouched.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/nvalles/courseplanner/internal/catalog"
	"github.com/nvalles/courseplanner/internal/db"
	"github.com/nvalles/courseplanner/internal/model"
)

// Skip records one course or edge that was left out of the batch, with the
// reason a human can act on.
type Skip struct {
	Course string
	Edge   string // prerequisite number when an edge was skipped, empty for a course skip
	Reason string
}

func (s Skip) String() string {
	if s.Edge != "" {
		return fmt.Sprintf("%s -> %s: %s", s.Course, s.Edge, s.Reason)
	}
	return fmt.Sprintf("%s: %s", s.Course, s.Reason)
}

// Result summarizes one migration run.
type Result struct {
	CoursesMigrated int
	EdgesMigrated   int
	Skipped         []Skip
}

// Run migrates every course in the catalog into the store. Courses with an
// unusable number or an empty name are skipped and reported, not failed;
// edges pointing outside the batch are skipped the same way. Rerunning
// over the same catalog is idempotent: existing courses are updated in
// place and existing edges are left alone.
func Run(cat *catalog.Catalog, store *db.Store) (*Result, error) {
	res := &Result{}
	courses := cat.SortedList()

	// Transform up front so the transaction only sees clean rows.
	batch := make([]model.Course, 0, len(courses))
	inBatch := make(map[string]bool, len(courses))
	for _, c := range courses {
		if !model.ValidNumber(c.Number) {
			res.Skipped = append(res.Skipped, Skip{Course: c.Number, Reason: "course number is not usable"})
			continue
		}
		if strings.TrimSpace(c.Name) == "" {
			res.Skipped = append(res.Skipped, Skip{Course: c.Number, Reason: "course name is empty"})
			continue
		}
		batch = append(batch, c)
		inBatch[c.Number] = true
	}

	err := store.WithTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		ids := make(map[string]int, len(batch))

		for _, c := range batch {
			_, id, err := db.UpsertCourseBun(tx, c.Number, c.Name)
			if err != nil {
				return fmt.Errorf("failed to migrate course %s: %w", c.Number, err)
			}
			ids[c.Number] = id
			res.CoursesMigrated++
		}

		for _, c := range batch {
			for _, p := range c.Prerequisites {
				p = model.NormalizeNumber(p)
				if !inBatch[p] {
					res.Skipped = append(res.Skipped, Skip{Course: c.Number, Edge: p, Reason: "prerequisite not in batch"})
					continue
				}
				err := db.AddEdgeBun(tx, ids[c.Number], ids[p])
				if errors.Is(err, db.ErrDuplicate) {
					// Edge already present from an earlier run.
					res.EdgesMigrated++
					continue
				}
				if err != nil {
					return fmt.Errorf("failed to migrate edge %s -> %s: %w", c.Number, p, err)
				}
				res.EdgesMigrated++
			}
		}
		return nil
	})
	if err != nil {
		// Counters reflect work that was rolled back; zero them so the
		// caller never reports phantom progress.
		return &Result{Skipped: res.Skipped}, err
	}
	return res, nil
}
