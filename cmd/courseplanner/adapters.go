// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvalles/courseplanner/internal/catalog"
	"github.com/nvalles/courseplanner/internal/db"
	"github.com/nvalles/courseplanner/internal/i18n"
	"github.com/nvalles/courseplanner/internal/model"
)

// storeReader adapts the relational store to the catalog.Reader interface
// so list and find work identically against memory and database.
type storeReader struct {
	store *db.Store
}

func (r storeReader) Find(number string) (*model.Course, error) {
	return r.store.FindByNumber(number)
}

func (r storeReader) List() ([]model.Course, error) {
	return r.store.ListAll()
}

func (r storeReader) Count() (int, error) {
	return r.store.CountCourses()
}

// readerFor returns the catalog.Reader a read command should use: the
// relational store when --from-db is set, otherwise the CSV catalog.
func readerFor(cmd *cobra.Command, args []string) (catalog.Reader, error) {
	fromDB, _ := cmd.Flags().GetBool("from-db")
	if fromDB {
		if !db.IsInitialized() {
			return nil, errors.New(i18n.T("errors.db_not_initialized"))
		}
		return storeReader{store: db.Default()}, nil
	}
	cat, _, err := loadCatalog(sourceFile(args))
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func joinNumbers(numbers []string) string {
	return strings.Join(numbers, ", ")
}

// sentinelMessages maps the store's classified errors to their locale keys.
var sentinelMessages = []struct {
	sentinel error
	id       string
}{
	{db.ErrDuplicate, "errors.duplicate"},
	{db.ErrNotFound, "errors.not_found"},
	{db.ErrBusy, "errors.busy"},
}

// storeErr swaps the sentinel portion of a classified store error for its
// translated phrase, keeping the operation context that wraps it.
// Unclassified errors pass through unchanged.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range sentinelMessages {
		if errors.Is(err, m.sentinel) {
			return errors.New(strings.Replace(err.Error(), m.sentinel.Error(), i18n.T(m.id), 1))
		}
	}
	return err
}
