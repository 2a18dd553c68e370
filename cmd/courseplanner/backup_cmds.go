// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/nvalles/courseplanner/internal/db"
	"github.com/nvalles/courseplanner/internal/i18n"
	"github.com/nvalles/courseplanner/internal/model"
)

var fullRestore bool // Flag for the restore command

// exportCmd dumps the whole catalog into a zstd-compressed JSON snapshot.
var exportCmd = &cobra.Command{
	Use:   "export [output-file]",
	Short: "Create a compressed (zstd) JSON snapshot of the catalog",
	Long: `Dumps every course and prerequisite edge into a single
Zstandard-compressed JSON file. The snapshot stores prerequisites by
course number, so it restores cleanly into any supported database
backend.

If no output file is specified, a default filename
'courseplanner-export-YYYY-MM-DD.json.zst' is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var outputFile string
		if len(args) == 0 {
			outputFile = fmt.Sprintf("courseplanner-export-%s.json.zst", time.Now().Format("2006-01-02"))
		} else {
			outputFile = args[0]
			if !strings.HasSuffix(outputFile, ".zst") {
				outputFile += ".zst"
			}
		}

		data, err := db.Default().ExportForBackup()
		if err != nil {
			return storeErr(err)
		}
		if err := writeCompressedBackup(outputFile, data); err != nil {
			return err
		}
		fmt.Println(i18n.T("export.done", len(data.Courses), outputFile))
		return nil
	},
}

// restoreCmd loads a snapshot back into the database. By default the
// snapshot is integrated into the existing catalog; --full wipes the
// catalog first for an exact restore.
var restoreCmd = &cobra.Command{
	Use:   "restore <snapshot-file>",
	Short: "Restore the catalog from a compressed snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readCompressedBackup(args[0])
		if err != nil {
			return err
		}
		if err := db.Default().ImportFromBackup(data, fullRestore); err != nil {
			return storeErr(err)
		}
		fmt.Println(i18n.T("restore.done", len(data.Courses), args[0]))
		return nil
	},
}

// readCompressedBackup handles reading and decoding a zstd-compressed JSON snapshot file.
func readCompressedBackup(filename string) (*model.BackupData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdReader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var backupData model.BackupData
	if err := json.NewDecoder(zstdReader).Decode(&backupData); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}

	return &backupData, nil
}

// writeCompressedBackup streams the JSON encoding directly to the zstd
// writer for memory efficiency.
func writeCompressedBackup(filename string, data *model.BackupData) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdWriter, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	defer func() { _ = zstdWriter.Close() }()

	encoder := json.NewEncoder(zstdWriter)
	encoder.SetIndent("", "  ") // Pretty-print the JSON inside the compressed file

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}

	return nil
}

func init() {
	restoreCmd.Flags().BoolVar(&fullRestore, "full", false, "Wipe the catalog before restoring for an exact copy")
}
