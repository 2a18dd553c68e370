// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvalles/courseplanner/internal/catalog"
	"github.com/nvalles/courseplanner/internal/db"
	"github.com/nvalles/courseplanner/internal/i18n"
	"github.com/nvalles/courseplanner/internal/migrate"
)

var forceMigrate bool

// migrateCmd runs the one-shot ETL: extract the CSV catalog, validate it,
// and land it in the database in a single transaction.
var migrateCmd = &cobra.Command{
	Use:   "migrate [file]",
	Short: "Migrate the CSV catalog into the database",
	Long: `Loads the CSV catalog, validates the prerequisite graph, and writes
courses and prerequisite edges into the relational store in one
transaction. A catalog with circular dependencies is refused unless
--force is given; rerunning over the same file is idempotent.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, _, err := loadCatalog(sourceFile(args))
		if err != nil {
			return err
		}

		report := catalog.Validate(cat)
		if len(report.Cycles()) > 0 && !forceMigrate {
			log.Fatalf("%s", i18n.T("migrate.refused"))
		}

		res, err := migrate.Run(cat, db.Default())
		if err != nil {
			return storeErr(fmt.Errorf("migration failed: %w", err))
		}
		for _, sk := range res.Skipped {
			fmt.Println(i18n.T("migrate.skipped", sk.String()))
		}
		fmt.Println(i18n.T("migrate.summary", res.CoursesMigrated, res.EdgesMigrated, len(res.Skipped)))
		return nil
	},
}

// addCourseCmd inserts one course, optionally with prerequisites that must
// already exist.
var addCourseCmd = &cobra.Command{
	Use:   "add-course <number> <name> [prereq...]",
	Short: "Add a course to the database",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Default().AddCourse(args[0], args[1], args[2:]); err != nil {
			return storeErr(err)
		}
		fmt.Println(i18n.T("course.added", strings.ToUpper(args[0])))
		return nil
	},
}

var renameCourseCmd = &cobra.Command{
	Use:   "rename-course <number> <new-name>",
	Short: "Rename a course",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Default().UpdateCourseName(args[0], args[1]); err != nil {
			return storeErr(err)
		}
		fmt.Println(i18n.T("course.renamed", strings.ToUpper(args[0])))
		return nil
	},
}

var deleteCourseCmd = &cobra.Command{
	Use:   "delete-course <number>",
	Short: "Delete a course and all edges referencing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Default().DeleteCourse(args[0]); err != nil {
			return storeErr(err)
		}
		fmt.Println(i18n.T("course.deleted", strings.ToUpper(args[0])))
		return nil
	},
}

var addPrereqCmd = &cobra.Command{
	Use:   "add-prereq <course> <prereq>",
	Short: "Attach a prerequisite to a course",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Default().AddPrerequisite(args[0], args[1]); err != nil {
			return storeErr(err)
		}
		fmt.Println(i18n.T("prereq.added", strings.ToUpper(args[1]), strings.ToUpper(args[0])))
		return nil
	},
}

var removePrereqCmd = &cobra.Command{
	Use:   "remove-prereq <course> <prereq>",
	Short: "Detach a prerequisite from a course",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Default().RemovePrerequisite(args[0], args[1]); err != nil {
			return storeErr(err)
		}
		fmt.Println(i18n.T("prereq.removed", strings.ToUpper(args[1]), strings.ToUpper(args[0])))
		return nil
	},
}

// chainCmd prints the transitive prerequisite closure of a course, grouped
// and indented by depth.
var chainCmd = &cobra.Command{
	Use:   "chain <course-number>",
	Short: "Print the full prerequisite chain of a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := db.Default().PrerequisiteChain(args[0])
		if err != nil {
			return storeErr(err)
		}
		number := strings.ToUpper(args[0])
		if len(entries) == 0 {
			fmt.Println(i18n.T("chain.empty", number))
			return nil
		}
		fmt.Println(i18n.T("chain.header", number))
		for _, e := range entries {
			fmt.Printf("%s%s, %s\n", strings.Repeat("  ", e.Level), e.Number, e.Name)
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every course and prerequisite edge from the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Default().Clear(); err != nil {
			return storeErr(err)
		}
		fmt.Println(i18n.T("clear.done"))
		return nil
	},
}

// maintenanceCmd opens its own connection so it can run engine-level
// statements like VACUUM outside the pooled store.
var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Run engine-specific database maintenance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.RunMaintenance(appConfig.Database.Type, appConfig.Database.DSN); err != nil {
			return err
		}
		fmt.Println(i18n.T("maintenance.done"))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&forceMigrate, "force", false, "Migrate even when validation found cycles")
}
