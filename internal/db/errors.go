// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db contains shared database errors and helpers.
package db

import (
	"errors"
	"strings"
)

// ErrDuplicate is returned when attempting to insert a record that already
// exists (duplicate course number or duplicate prerequisite pair).
var ErrDuplicate = errors.New("duplicate record")

// ErrNotFound is returned when an operation references a course or
// prerequisite relationship that does not exist.
var ErrNotFound = errors.New("record not found")

// ErrBusy is returned when the store is locked by another process. The
// operation failed fast and is safe to retry.
var ErrBusy = errors.New("store is busy or locked")

// MapDBError inspects low-level driver errors and maps common constraint
// and lock failures to package-level sentinel errors. This is a
// conservative, string-based mapping to avoid importing SQL driver
// packages into this package file.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	le := strings.ToLower(err.Error())
	// MySQL duplicate entry (1062), Postgres unique violation (23505),
	// SQLite unique constraint.
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return ErrDuplicate
	}
	// SQLite busy/locked (5, 6), MySQL lock wait timeout (1205), Postgres
	// lock_not_available (55P03).
	if strings.Contains(le, "database is locked") || strings.Contains(le, "busy") || strings.Contains(le, "1205") || strings.Contains(le, "55p03") {
		return ErrBusy
	}
	return err
}
