// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/nvalles/courseplanner/internal/catalog"
	"github.com/nvalles/courseplanner/internal/i18n"
	"github.com/nvalles/courseplanner/internal/source"
)

// loadCatalog reads the CSV source and builds the in-memory catalog,
// printing skipped rows on the way.
func loadCatalog(path string) (*catalog.Catalog, *catalog.LoadReport, error) {
	rows, err := source.ReadRows(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	cat, report := catalog.Load(rows)
	return cat, report, nil
}

// loadCmd builds the in-memory catalog from CSV and reports what was
// loaded and what was skipped.
var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load the course catalog from CSV and report skipped rows",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, report, err := loadCatalog(sourceFile(args))
		if err != nil {
			return err
		}
		for _, sk := range report.Skipped {
			fmt.Println(i18n.T("load.skipped_row", sk.Line, sk.Reason))
		}
		if report.Overwrites > 0 {
			fmt.Println(i18n.T("load.overwrites", report.Overwrites))
		}
		fmt.Println(i18n.T("load.summary", cat.Len(), len(report.Skipped)))
		return nil
	},
}

// listCmd prints every course, sorted by number. With --from-db the
// listing comes from the relational store instead of the CSV catalog.
var listCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "Print the sorted course list",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := readerFor(cmd, args)
		if err != nil {
			return err
		}
		courses, err := reader.List()
		if err != nil {
			return storeErr(err)
		}
		if len(courses) == 0 {
			fmt.Println(i18n.T("list.empty"))
			return nil
		}
		fmt.Println(i18n.T("list.header"))
		for _, c := range courses {
			fmt.Println(c.String())
		}
		return nil
	},
}

// findCmd looks up one course by number and prints it with its
// prerequisites.
var findCmd = &cobra.Command{
	Use:   "find <course-number> [file]",
	Short: "Look up a course and its prerequisites",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := readerFor(cmd, args[1:])
		if err != nil {
			return err
		}
		c, err := reader.Find(args[0])
		if err != nil {
			return storeErr(err)
		}
		if c == nil {
			log.Fatalf("%s", i18n.T("find.not_found", args[0]))
		}
		fmt.Println(c.String())
		if c.HasPrerequisites() {
			fmt.Println(i18n.T("find.prerequisites", joinNumbers(c.Prerequisites)))
		} else {
			fmt.Println(i18n.T("find.no_prerequisites"))
		}
		return nil
	},
}

// validateCmd checks the catalog's prerequisite graph for missing courses
// and circular dependencies. It exits nonzero when issues are found so
// scripts can gate a migration on it.
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check the catalog for missing prerequisites and cycles",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, _, err := loadCatalog(sourceFile(args))
		if err != nil {
			return err
		}
		report := catalog.Validate(cat)
		if report.OK() {
			fmt.Println(i18n.T("validate.ok"))
			return nil
		}
		fmt.Println(i18n.T("validate.issues", len(report.Issues)))
		for _, issue := range report.Issues {
			fmt.Println("  " + issue.String())
		}
		return fmt.Errorf("%d issue(s) found", len(report.Issues))
	},
}

func init() {
	listCmd.Flags().Bool("from-db", false, "Read from the database instead of the CSV catalog")
	findCmd.Flags().Bool("from-db", false, "Read from the database instead of the CSV catalog")
}
