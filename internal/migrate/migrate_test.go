// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

package migrate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nvalles/courseplanner/internal/catalog"
	"github.com/nvalles/courseplanner/internal/db"
)

func newTestStore(t *testing.T) *db.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := db.NewStoreFromDSN("sqlite", "file:migrate_"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var scenarioRows = [][]string{
	{"CS100", "Introduction to Computer Science"},
	{"MATH101", "Calculus I"},
	{"CS101", "Programming Fundamentals", "CS100"},
	{"CS102", "Data Structures", "CS100", "MATH101"},
	{"CS103", "Discrete Mathematics", "CS102"},
}

func TestRunMigratesCatalog(t *testing.T) {
	cat, _ := catalog.Load(scenarioRows)
	s := newTestStore(t)

	res, err := Run(cat, s)
	if err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	if res.CoursesMigrated != 5 {
		t.Errorf("courses migrated = %d, want 5", res.CoursesMigrated)
	}
	if res.EdgesMigrated != 4 {
		t.Errorf("edges migrated = %d, want 4", res.EdgesMigrated)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("unexpected skips: %v", res.Skipped)
	}

	// Edges must be queryable through the relational side afterwards.
	prereqs, err := s.GetPrerequisites("CS103")
	if err != nil {
		t.Fatalf("get prerequisites failed: %v", err)
	}
	if want := []string{"CS102"}; !reflect.DeepEqual(prereqs, want) {
		t.Fatalf("CS103 prerequisites = %v, want %v", prereqs, want)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cat, _ := catalog.Load(scenarioRows)
	s := newTestStore(t)

	if _, err := Run(cat, s); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	res, err := Run(cat, s)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if res.CoursesMigrated != 5 || res.EdgesMigrated != 4 {
		t.Fatalf("second run counts = %d courses, %d edges; want 5, 4", res.CoursesMigrated, res.EdgesMigrated)
	}

	n, err := s.CountCourses()
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 5 {
		t.Fatalf("count after rerun = %d, want 5", n)
	}
}

func TestRunSkipsUnusableRows(t *testing.T) {
	rows := [][]string{
		{"CS100", "Introduction to Computer Science"},
		// The loader accepts any non-empty identifier; the migration
		// transform rejects numbers that are not letters-then-digits.
		{"CS-101", "Programming Fundamentals", "CS100"},
		{"CS102", "Data Structures", "CS200"}, // prerequisite missing from batch
	}
	cat, _ := catalog.Load(rows)
	s := newTestStore(t)

	res, err := Run(cat, s)
	if err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	if res.CoursesMigrated != 2 {
		t.Errorf("courses migrated = %d, want 2", res.CoursesMigrated)
	}
	if res.EdgesMigrated != 0 {
		t.Errorf("edges migrated = %d, want 0", res.EdgesMigrated)
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("skips = %v, want 2 entries", res.Skipped)
	}

	var sawNumber, sawEdge bool
	for _, sk := range res.Skipped {
		switch {
		case sk.Course == "CS-101" && sk.Edge == "":
			sawNumber = true
		case sk.Course == "CS102" && sk.Edge == "CS200":
			sawEdge = true
		}
	}
	if !sawNumber || !sawEdge {
		t.Fatalf("skip reasons incomplete: %v", res.Skipped)
	}
}

func TestSkipString(t *testing.T) {
	if got := (Skip{Course: "CS101", Reason: "course name is empty"}).String(); got != "CS101: course name is empty" {
		t.Errorf("unexpected course skip string: %s", got)
	}
	if got := (Skip{Course: "CS102", Edge: "CS200", Reason: "prerequisite not in batch"}).String(); got != "CS102 -> CS200: prerequisite not in batch" {
		t.Errorf("unexpected edge skip string: %s", got)
	}
}
