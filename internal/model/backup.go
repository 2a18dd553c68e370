// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

package model

// BackupSchemaVersion identifies the layout of exported catalog snapshots.
// Bump it when the snapshot format changes incompatibly.
const BackupSchemaVersion = 1

// BackupCourse is one course in a catalog snapshot. Prerequisites are
// stored by number so a snapshot restores cleanly into a database with
// different surrogate ids.
type BackupCourse struct {
	Number        string   `json:"number"`
	Name          string   `json:"name"`
	Prerequisites []string `json:"prerequisites,omitempty"`
}

// BackupData is the container for a full catalog snapshot.
type BackupData struct {
	SchemaVersion int            `json:"schema_version"`
	Courses       []BackupCourse `json:"courses"`
}
