// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/nvalles/courseplanner/internal/model"
)

// Store is the single data access object for the catalog tables. All
// methods normalize course numbers on the way in, so callers may pass
// numbers in any case.
type Store struct {
	bun *bun.DB
}

// NewStore wraps an existing *bun.DB. Most callers should use
// NewStoreFromDSN instead; this constructor exists for tests that build
// their own connection.
func NewStore(bdb *bun.DB) *Store {
	return &Store{bun: bdb}
}

// BunDB exposes the underlying *bun.DB for raw queries.
func (s *Store) BunDB() *bun.DB { return s.bun }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.bun.Close()
}

// WithTx runs fn inside a transaction on the store's connection.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return WithTx(ctx, s.bun, fn)
}

// AddCourse creates a course and attaches its prerequisite edges in a
// single transaction. Every prerequisite must already exist as a course;
// an absent prerequisite rolls the whole insert back with ErrNotFound.
func (s *Store) AddCourse(number, name string, prereqs []string) error {
	number = model.NormalizeNumber(number)
	return WithTx(context.Background(), s.bun, func(ctx context.Context, tx bun.Tx) error {
		id, err := InsertCourseBun(tx, number, name)
		if err != nil {
			return err
		}
		for _, p := range prereqs {
			p = model.NormalizeNumber(p)
			pid, err := CourseIDByNumberBun(tx, p)
			if err != nil {
				return err
			}
			if pid == 0 {
				return fmt.Errorf("prerequisite %s: %w", p, ErrNotFound)
			}
			if err := AddEdgeBun(tx, id, pid); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateCourseName renames a course. Returns ErrNotFound when no course
// carries the given number.
func (s *Store) UpdateCourseName(number, name string) error {
	return UpdateCourseNameBun(s.bun, model.NormalizeNumber(number), name)
}

// DeleteCourse removes a course. Junction rows referencing it, in either
// direction, are removed by the cascade on the foreign keys. Returns
// ErrNotFound when the course does not exist.
func (s *Store) DeleteCourse(number string) error {
	return DeleteCourseBun(s.bun, model.NormalizeNumber(number))
}

// FindByNumber returns the course with the given number including its
// prerequisite numbers, or (nil, nil) when absent. The course row and its
// edges are read inside one transaction so the result is a consistent
// snapshot.
func (s *Store) FindByNumber(number string) (*model.Course, error) {
	number = model.NormalizeNumber(number)
	var out *model.Course
	err := WithTx(context.Background(), s.bun, func(ctx context.Context, tx bun.Tx) error {
		c, err := GetCourseBun(tx, number)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every course with prerequisites attached, ordered by
// course number.
func (s *Store) ListAll() ([]model.Course, error) {
	var out []model.Course
	err := WithTx(context.Background(), s.bun, func(ctx context.Context, tx bun.Tx) error {
		cs, err := GetAllCoursesBun(tx)
		if err != nil {
			return err
		}
		out = cs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountCourses returns the number of courses in the catalog.
func (s *Store) CountCourses() (int, error) {
	return CountCoursesBun(s.bun)
}

// AddPrerequisite attaches prereq as a prerequisite of course. Both
// courses must exist; a duplicate edge returns ErrDuplicate.
func (s *Store) AddPrerequisite(course, prereq string) error {
	course = model.NormalizeNumber(course)
	prereq = model.NormalizeNumber(prereq)
	return WithTx(context.Background(), s.bun, func(ctx context.Context, tx bun.Tx) error {
		cid, err := CourseIDByNumberBun(tx, course)
		if err != nil {
			return err
		}
		if cid == 0 {
			return fmt.Errorf("course %s: %w", course, ErrNotFound)
		}
		pid, err := CourseIDByNumberBun(tx, prereq)
		if err != nil {
			return err
		}
		if pid == 0 {
			return fmt.Errorf("prerequisite %s: %w", prereq, ErrNotFound)
		}
		return AddEdgeBun(tx, cid, pid)
	})
}

// RemovePrerequisite detaches prereq from course. Returns ErrNotFound
// when the edge (or either course) does not exist.
func (s *Store) RemovePrerequisite(course, prereq string) error {
	course = model.NormalizeNumber(course)
	prereq = model.NormalizeNumber(prereq)
	return WithTx(context.Background(), s.bun, func(ctx context.Context, tx bun.Tx) error {
		cid, err := CourseIDByNumberBun(tx, course)
		if err != nil {
			return err
		}
		if cid == 0 {
			return fmt.Errorf("course %s: %w", course, ErrNotFound)
		}
		pid, err := CourseIDByNumberBun(tx, prereq)
		if err != nil {
			return err
		}
		if pid == 0 {
			return fmt.Errorf("prerequisite %s: %w", prereq, ErrNotFound)
		}
		return RemoveEdgeBun(tx, cid, pid)
	})
}

// GetPrerequisites returns the direct prerequisite numbers of a course,
// ordered by number. Returns ErrNotFound when the course does not exist.
func (s *Store) GetPrerequisites(course string) ([]string, error) {
	course = model.NormalizeNumber(course)
	var out []string
	err := WithTx(context.Background(), s.bun, func(ctx context.Context, tx bun.Tx) error {
		cid, err := CourseIDByNumberBun(tx, course)
		if err != nil {
			return err
		}
		if cid == 0 {
			return fmt.Errorf("course %s: %w", course, ErrNotFound)
		}
		out, err = PrerequisiteNumbersBun(tx, cid)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetDependents returns the numbers of courses that list course as a
// direct prerequisite, ordered by number. Returns ErrNotFound when the
// course does not exist.
func (s *Store) GetDependents(course string) ([]string, error) {
	course = model.NormalizeNumber(course)
	var out []string
	err := WithTx(context.Background(), s.bun, func(ctx context.Context, tx bun.Tx) error {
		cid, err := CourseIDByNumberBun(tx, course)
		if err != nil {
			return err
		}
		if cid == 0 {
			return fmt.Errorf("course %s: %w", course, ErrNotFound)
		}
		out, err = DependentNumbersBun(tx, cid)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PrerequisiteChain returns the full transitive prerequisite closure of a
// course using a recursive query, each entry tagged with its depth.
// Returns ErrNotFound when the course does not exist.
func (s *Store) PrerequisiteChain(course string) ([]ChainEntry, error) {
	course = model.NormalizeNumber(course)
	var out []ChainEntry
	err := WithTx(context.Background(), s.bun, func(ctx context.Context, tx bun.Tx) error {
		cid, err := CourseIDByNumberBun(tx, course)
		if err != nil {
			return err
		}
		if cid == 0 {
			return fmt.Errorf("course %s: %w", course, ErrNotFound)
		}
		out, err = PrerequisiteChainBun(tx, course)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Clear removes every course and, via cascade, every prerequisite edge.
func (s *Store) Clear() error {
	return WithTx(context.Background(), s.bun, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*PrerequisiteModel)(nil)).Where("1=1").Exec(ctx)
		if err != nil {
			return MapDBError(err)
		}
		_, err = tx.NewDelete().Model((*CourseModel)(nil)).Where("1=1").Exec(ctx)
		return MapDBError(err)
	})
}
