// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/nvalles/courseplanner/internal/model"
)

// ExportForBackup reads the whole catalog inside one transaction and
// returns it as a snapshot suitable for serialization.
func (s *Store) ExportForBackup() (*model.BackupData, error) {
	var courses []model.Course
	err := WithTx(context.Background(), s.bun, func(ctx context.Context, tx bun.Tx) error {
		cs, err := GetAllCoursesBun(tx)
		if err != nil {
			return err
		}
		courses = cs
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export catalog: %w", err)
	}

	out := &model.BackupData{SchemaVersion: model.BackupSchemaVersion, Courses: make([]model.BackupCourse, 0, len(courses))}
	for _, c := range courses {
		out.Courses = append(out.Courses, model.BackupCourse{
			Number:        c.Number,
			Name:          c.Name,
			Prerequisites: c.Prerequisites,
		})
	}
	return out, nil
}

// ImportFromBackup loads a snapshot into the database in one transaction.
// With full set the existing catalog is wiped first, giving an exact
// restore. Without it the snapshot is integrated: courses and edges that
// already exist are left alone, everything else is added.
func (s *Store) ImportFromBackup(b *model.BackupData, full bool) error {
	if b == nil {
		return errors.New("nil backup data")
	}
	if b.SchemaVersion > model.BackupSchemaVersion {
		return fmt.Errorf("unsupported backup schema version %d", b.SchemaVersion)
	}

	return WithTx(context.Background(), s.bun, func(ctx context.Context, tx bun.Tx) error {
		if full {
			if _, err := tx.NewDelete().Model((*PrerequisiteModel)(nil)).Where("1=1").Exec(ctx); err != nil {
				return MapDBError(err)
			}
			if _, err := tx.NewDelete().Model((*CourseModel)(nil)).Where("1=1").Exec(ctx); err != nil {
				return MapDBError(err)
			}
		}

		// Pass 1: courses, so every edge target exists before pass 2.
		ids := make(map[string]int, len(b.Courses))
		for _, c := range b.Courses {
			number := model.NormalizeNumber(c.Number)
			if number == "" {
				continue
			}
			_, id, err := UpsertCourseBun(tx, number, c.Name)
			if err != nil {
				return fmt.Errorf("failed to import course %s: %w", number, err)
			}
			ids[number] = id
		}

		// Pass 2: edges. Targets outside the snapshot may still exist in
		// the database when integrating, so fall back to a lookup.
		for _, c := range b.Courses {
			cid, ok := ids[model.NormalizeNumber(c.Number)]
			if !ok {
				continue
			}
			for _, p := range c.Prerequisites {
				p = model.NormalizeNumber(p)
				pid, ok := ids[p]
				if !ok {
					var err error
					pid, err = CourseIDByNumberBun(tx, p)
					if err != nil {
						return err
					}
					if pid == 0 {
						return fmt.Errorf("backup references unknown prerequisite %s: %w", p, ErrNotFound)
					}
				}
				if err := AddEdgeBun(tx, cid, pid); err != nil {
					if errors.Is(err, ErrDuplicate) {
						continue
					}
					return err
				}
			}
		}
		return nil
	})
}
