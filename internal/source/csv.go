// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

// Package source reads raw course files and hands already-tokenized rows to
// the catalog loader. The loader itself never touches the filesystem.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadRows reads a CSV course file and returns its rows. Rows carry a
// variable number of fields (number, name, zero or more prerequisites), so
// per-record field count checks are disabled here; the loader decides what
// is malformed.
func ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open course file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parse(f)
}

func parse(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV input: %w", err)
	}
	return rows, nil
}
