// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model contains the core data types shared across the course
// planner. A Course is a plain value; all cleaning happens at construction
// time so the rest of the code can rely on normalized fields.
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedRow is returned by ParseRow for rows that cannot yield at
// least a course number and a name.
var ErrMalformedRow = errors.New("malformed course row")

// numberPattern describes a well-formed course number after normalization:
// letters followed by digits, e.g. CS101 or CSCI2270.
var numberPattern = regexp.MustCompile(`^[A-Z]+[0-9]+$`)

// Course represents one course in the catalog. Number is the sole identity:
// two courses with the same number are the same entity.
type Course struct {
	Number        string
	Name          string
	Prerequisites []string
}

// NormalizeNumber trims surrounding whitespace and uppercases a course
// number so lookups are case-insensitive.
func NormalizeNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidNumber reports whether a normalized course number is well-formed.
// Used by the migration transform step; the in-memory loader is laxer and
// only requires a non-empty identifier.
func ValidNumber(s string) bool {
	return numberPattern.MatchString(s)
}

// ParseRow builds a Course from an already-tokenized input row of the form
// [number, name, prereq...]. It returns ErrMalformedRow when fewer than two
// non-empty leading fields are present. Empty prerequisite fields are
// dropped; order of the remaining ones is preserved.
func ParseRow(fields []string) (Course, error) {
	if len(fields) < 2 {
		return Course{}, fmt.Errorf("%w: need at least course number and name, got %d field(s)", ErrMalformedRow, len(fields))
	}
	number := NormalizeNumber(fields[0])
	name := strings.TrimSpace(fields[1])
	if number == "" || name == "" {
		return Course{}, fmt.Errorf("%w: empty course number or name", ErrMalformedRow)
	}

	var prereqs []string
	for _, p := range fields[2:] {
		if p = NormalizeNumber(p); p != "" {
			prereqs = append(prereqs, p)
		}
	}
	return Course{Number: number, Name: name, Prerequisites: prereqs}, nil
}

// HasPrerequisites reports whether the course declares any prerequisites.
func (c Course) HasPrerequisites() bool {
	return len(c.Prerequisites) > 0
}

// String returns the "NUMBER, Name" representation used in listings.
func (c Course) String() string {
	return fmt.Sprintf("%s, %s", c.Number, c.Name)
}
