package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nvalles/courseplanner/internal/model"
	"github.com/uptrace/bun"
)

// CourseModel maps the `courses` table for Bun queries.
type CourseModel struct {
	bun.BaseModel `bun:"table:courses"`
	ID            int       `bun:"course_id,pk,autoincrement"`
	Number        string    `bun:"course_number"`
	Name          string    `bun:"course_name"`
	CreatedAt     time.Time `bun:"created_at,nullzero"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero"`
}

// PrerequisiteModel maps the `prerequisites` junction table.
type PrerequisiteModel struct {
	bun.BaseModel        `bun:"table:prerequisites"`
	ID                   int       `bun:"prerequisite_id,pk,autoincrement"`
	CourseID             int       `bun:"course_id"`
	PrerequisiteCourseID int       `bun:"prerequisite_course_id"`
	CreatedAt            time.Time `bun:"created_at,nullzero"`
}

// CourseIDByNumberBun resolves a course number to its row ID. It returns
// (0, nil) when no course has that number; absence is a state, not an
// error.
func CourseIDByNumberBun(idb bun.IDB, number string) (int, error) {
	ctx := context.Background()
	var id int
	err := idb.NewSelect().Model((*CourseModel)(nil)).Column("course_id").
		Where("course_number = ?", number).Limit(1).Scan(ctx, &id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, MapDBError(err)
	}
	return id, nil
}

// InsertCourseBun inserts a new course row and returns its ID. A duplicate
// course number surfaces as ErrDuplicate.
func InsertCourseBun(idb bun.IDB, number, name string) (int, error) {
	ctx := context.Background()
	cm := &CourseModel{Number: number, Name: name}
	if _, err := idb.NewInsert().Model(cm).Column("course_number", "course_name").Returning("course_id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return cm.ID, nil
}

// UpdateCourseNameBun renames an existing course and refreshes its
// updated_at timestamp. Returns ErrNotFound when the course is absent.
func UpdateCourseNameBun(idb bun.IDB, number, name string) error {
	ctx := context.Background()
	res, err := idb.NewUpdate().Model((*CourseModel)(nil)).
		Set("course_name = ?", name).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("course_number = ?", number).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: course %s", ErrNotFound, number)
	}
	return nil
}

// UpsertCourseBun inserts the course if absent, otherwise updates its name
// and timestamp. It reports whether a new row was created and always
// returns the row ID. The caller is expected to run this inside a
// transaction; the select-then-write pair is not atomic on its own.
func UpsertCourseBun(idb bun.IDB, number, name string) (created bool, id int, err error) {
	id, err = CourseIDByNumberBun(idb, number)
	if err != nil {
		return false, 0, err
	}
	if id == 0 {
		id, err = InsertCourseBun(idb, number, name)
		return err == nil, id, err
	}
	return false, id, UpdateCourseNameBun(idb, number, name)
}

// DeleteCourseBun removes a course by number. Junction rows referencing it
// on either side go with it via ON DELETE CASCADE. Returns ErrNotFound
// when no such course exists.
func DeleteCourseBun(idb bun.IDB, number string) error {
	ctx := context.Background()
	res, err := idb.NewDelete().Model((*CourseModel)(nil)).
		Where("course_number = ?", number).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: course %s", ErrNotFound, number)
	}
	return nil
}

// AddEdgeBun inserts one prerequisite edge by row IDs. The unique pair
// constraint maps duplicates to ErrDuplicate.
func AddEdgeBun(idb bun.IDB, courseID, prereqID int) error {
	ctx := context.Background()
	pm := &PrerequisiteModel{CourseID: courseID, PrerequisiteCourseID: prereqID}
	_, err := idb.NewInsert().Model(pm).Column("course_id", "prerequisite_course_id").Exec(ctx)
	return MapDBError(err)
}

// RemoveEdgeBun deletes one prerequisite edge by row IDs. Returns
// ErrNotFound when the pair does not exist.
func RemoveEdgeBun(idb bun.IDB, courseID, prereqID int) error {
	ctx := context.Background()
	res, err := idb.NewDelete().Model((*PrerequisiteModel)(nil)).
		Where("course_id = ?", courseID).
		Where("prerequisite_course_id = ?", prereqID).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// PrerequisiteNumbersBun returns the prerequisite course numbers for a
// course ID, ordered by number.
func PrerequisiteNumbersBun(idb bun.IDB, courseID int) ([]string, error) {
	ctx := context.Background()
	var numbers []string
	err := QueryRawInto(ctx, idb, &numbers, `
		SELECT c.course_number
		FROM prerequisites p
		JOIN courses c ON p.prerequisite_course_id = c.course_id
		WHERE p.course_id = ?
		ORDER BY c.course_number`, courseID)
	if err != nil {
		return nil, MapDBError(err)
	}
	return numbers, nil
}

// DependentNumbersBun returns the numbers of courses that list the given
// course ID as a prerequisite, ordered by number.
func DependentNumbersBun(idb bun.IDB, prereqID int) ([]string, error) {
	ctx := context.Background()
	var numbers []string
	err := QueryRawInto(ctx, idb, &numbers, `
		SELECT c.course_number
		FROM prerequisites p
		JOIN courses c ON p.course_id = c.course_id
		WHERE p.prerequisite_course_id = ?
		ORDER BY c.course_number`, prereqID)
	if err != nil {
		return nil, MapDBError(err)
	}
	return numbers, nil
}

// edgeRow is a scan target for the joined edge listing.
type edgeRow struct {
	CourseNumber string `bun:"course_number"`
	PrereqNumber string `bun:"prereq_number"`
}

// GetAllCoursesBun returns every course with its ordered prerequisite
// numbers. Two queries, grouped in memory, to avoid an N+1 walk over the
// junction table.
func GetAllCoursesBun(idb bun.IDB) ([]model.Course, error) {
	ctx := context.Background()

	var cms []CourseModel
	if err := idb.NewSelect().Model(&cms).Order("course_number").Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}

	var edges []edgeRow
	err := QueryRawInto(ctx, idb, &edges, `
		SELECT c.course_number AS course_number, p2.course_number AS prereq_number
		FROM prerequisites p
		JOIN courses c ON p.course_id = c.course_id
		JOIN courses p2 ON p.prerequisite_course_id = p2.course_id
		ORDER BY c.course_number, p2.course_number`)
	if err != nil {
		return nil, MapDBError(err)
	}

	byNumber := make(map[string][]string, len(cms))
	for _, e := range edges {
		byNumber[e.CourseNumber] = append(byNumber[e.CourseNumber], e.PrereqNumber)
	}

	out := make([]model.Course, 0, len(cms))
	for _, cm := range cms {
		out = append(out, model.Course{
			Number:        cm.Number,
			Name:          cm.Name,
			Prerequisites: byNumber[cm.Number],
		})
	}
	return out, nil
}

// GetCourseBun returns one course with its prerequisites, or (nil, nil)
// when the number is absent.
func GetCourseBun(idb bun.IDB, number string) (*model.Course, error) {
	ctx := context.Background()

	var cm CourseModel
	err := idb.NewSelect().Model(&cm).Where("course_number = ?", number).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, MapDBError(err)
	}

	prereqs, err := PrerequisiteNumbersBun(idb, cm.ID)
	if err != nil {
		return nil, err
	}
	return &model.Course{Number: cm.Number, Name: cm.Name, Prerequisites: prereqs}, nil
}

// CountCoursesBun returns the number of course rows.
func CountCoursesBun(idb bun.IDB) (int, error) {
	ctx := context.Background()
	n, err := idb.NewSelect().Model((*CourseModel)(nil)).Count(ctx)
	if err != nil {
		return 0, MapDBError(err)
	}
	return n, nil
}

// ChainEntry is one row of the transitive prerequisite walk: Level 1 holds
// direct prerequisites, level 2 their prerequisites, and so on.
type ChainEntry struct {
	Level  int    `bun:"level"`
	Number string `bun:"course_number"`
	Name   string `bun:"course_name"`
}

// PrerequisiteChainBun walks the full prerequisite tree below a course
// using a recursive CTE, returning direct and indirect prerequisites
// ordered by level then number. The starting course itself is excluded.
// Recursion depth is capped so a cycle that slipped past validation cannot
// make the query run unboundedly.
func PrerequisiteChainBun(idb bun.IDB, number string) ([]ChainEntry, error) {
	ctx := context.Background()
	var entries []ChainEntry
	err := QueryRawInto(ctx, idb, &entries, `
		WITH RECURSIVE prerequisite_tree(level, course_id) AS (
			SELECT 0, c.course_id
			FROM courses c
			WHERE c.course_number = ?
			UNION ALL
			SELECT pt.level + 1, p.prerequisite_course_id
			FROM prerequisite_tree pt
			JOIN prerequisites p ON pt.course_id = p.course_id
			WHERE pt.level < 64
		)
		SELECT DISTINCT pt.level AS level, c.course_number AS course_number, c.course_name AS course_name
		FROM prerequisite_tree pt
		JOIN courses c ON pt.course_id = c.course_id
		WHERE pt.level > 0
		ORDER BY level, course_number`, number)
	if err != nil {
		return nil, MapDBError(err)
	}
	return entries, nil
}
