// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the course planner
// using the Cobra library. It defines the root command, subcommands (like
// load, validate, migrate), flags, and the main entry point for execution.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvalles/courseplanner/buildvars"
	"github.com/nvalles/courseplanner/internal/config"
	"github.com/nvalles/courseplanner/internal/db"
	"github.com/nvalles/courseplanner/internal/i18n"
	"github.com/nvalles/courseplanner/internal/logging"
)

var cfgFile string

// appConfig holds the merged configuration for the command being run. It
// is populated by setupServices before any command logic executes.
var appConfig config.Config

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	rootCmd = newRootCmd()
}

// newRootCmd creates and configures a new root cobra command. This function
// is used to create the main application command as well as fresh instances
// for isolated testing.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courseplanner",
		Short: "Course catalog loader, validator and migration tool",
		Long: `Courseplanner keeps a course catalog honest. It loads courses and
their prerequisites from CSV, validates the prerequisite graph for
missing courses and circular dependencies, and migrates clean catalogs
into a relational database (SQLite, PostgreSQL or MySQL) where the
courses and prerequisites tables become the source of truth.`,
		PersistentPreRunE: setupServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(loadCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(findCmd)
	cmd.AddCommand(validateCmd)
	cmd.AddCommand(migrateCmd)
	cmd.AddCommand(addCourseCmd)
	cmd.AddCommand(renameCourseCmd)
	cmd.AddCommand(deleteCourseCmd)
	cmd.AddCommand(addPrereqCmd)
	cmd.AddCommand(removePrereqCmd)
	cmd.AddCommand(chainCmd)
	cmd.AddCommand(clearCmd)
	cmd.AddCommand(exportCmd)
	cmd.AddCommand(restoreCmd)
	cmd.AddCommand(maintenanceCmd)
	cmd.AddCommand(versionCmd)

	cmd.Version = buildvars.VersionOrDefault("dev")

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is courseplanner.yaml in the user config dir or current dir)")
	cmd.PersistentFlags().String("db-type", "sqlite", "Database type (sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("db-dsn", "./course_catalog.db", "Database connection string (DSN)")
	cmd.PersistentFlags().String("file", "", "CSV catalog file (overrides source.file)")
	cmd.PersistentFlags().String("lang", "en", `Output language ("en", "de")`)
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return cmd
}

// configDefaults are used when neither config file, environment nor flags
// set a value.
func configDefaults() map[string]any {
	return map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./course_catalog.db",
		"source.file":   "data/courses.csv",
		"language":      "en",
		"debug":         false,
	}
}

// setupServices loads the configuration and initializes i18n, logging and
// the database for the command about to run.
func setupServices(cmd *cobra.Command, args []string) error {
	var err error
	appConfig, err = config.LoadConfig[config.Config](cmd, configDefaults(), &cfgFile)
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}
	applyFlagOverrides(cmd)
	writeDefaultConfigOnFirstRun()

	i18n.Init(appConfig.Language)
	logging.SetDebug(appConfig.Debug)
	db.SetDebug(appConfig.Debug)

	if skipDBInit(cmd) {
		return nil
	}
	if err := db.InitDB(appConfig.Database.Type, appConfig.Database.DSN); err != nil {
		return fmt.Errorf("could not initialize database: %w", err)
	}
	return nil
}

// applyFlagOverrides maps the short flag names onto their nested config
// keys. Viper binds flags by name, so a changed db-type would otherwise
// land under the key "db-type" instead of replacing database.type.
func applyFlagOverrides(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("db-type"); f != nil && f.Changed {
		appConfig.Database.Type = f.Value.String()
	}
	if f := cmd.Flags().Lookup("db-dsn"); f != nil && f.Changed {
		appConfig.Database.DSN = f.Value.String()
	}
	if f := cmd.Flags().Lookup("file"); f != nil && f.Changed {
		appConfig.Source.File = f.Value.String()
	}
	if f := cmd.Flags().Lookup("lang"); f != nil && f.Changed {
		appConfig.Language = f.Value.String()
	}
}

// writeDefaultConfigOnFirstRun persists the defaults to the user config
// location when no config file exists yet, making the settings
// discoverable. Failure to write is not fatal; the in-memory defaults
// still apply.
func writeDefaultConfigOnFirstRun() {
	if cfgFile != "" {
		return
	}
	path, err := config.GetConfigPath(false)
	if err != nil {
		return
	}
	if _, err := os.Stat(path); err == nil {
		return
	}
	if _, err := os.Stat("courseplanner.yaml"); err == nil {
		return
	}
	if err := config.WriteConfigFile(&appConfig, false); err != nil {
		logging.Warnf("could not write default config file: %v", err)
	}
}

// skipDBInit reports whether a command works purely on the in-memory
// catalog and therefore must not require a reachable database.
func skipDBInit(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "load", "validate", "maintenance", "help", "completion", "version":
		return true
	}
	// list/find only touch the database when asked to read from it.
	if cmd.Name() == "list" || cmd.Name() == "find" {
		fromDB, _ := cmd.Flags().GetBool("from-db")
		return !fromDB
	}
	return false
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the courseplanner version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(i18n.T("version.line", buildvars.VersionOrDefault("dev")))
	},
}

// sourceFile resolves the CSV path for catalog commands: a positional
// argument wins, then the --file flag or config.
func sourceFile(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return appConfig.Source.File
}
