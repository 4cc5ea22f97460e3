package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ukaji3/xltutor-go/pkg/xltutor"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/output"
)

var (
	outputPath string
	sheetsDir  string
	configsDir string
	configFmt  string
	noTables   bool
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <input.xlsx>",
		Short: "Read a workbook's sheets as practice sheet data",
		Long: `Reads every worksheet of an xlsx file (cells, formulas, table candidates
and print areas) and outputs JSON. --configs-dir writes one sandbox config
per sheet that eval and sandbox accept.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&area, "area", string(xltutor.AreaAuto), "Sheet sizing: auto, data, print")
	cmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet JSON files")
	cmd.Flags().StringVar(&configsDir, "configs-dir", "", "Directory for per-sheet sandbox configs")
	cmd.Flags().StringVar(&configFmt, "config-format", "yaml", "Format of --configs-dir files: yaml or json")
	cmd.Flags().BoolVar(&noTables, "no-tables", false, "Skip table candidate detection")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	mode, err := parseArea(area)
	if err != nil {
		return err
	}
	if configFmt != "yaml" && configFmt != "json" {
		return fmt.Errorf("invalid config format: %s (must be yaml or json)", configFmt)
	}
	opts := xltutor.DefaultOptions()
	opts.Area = mode
	if noTables {
		includeTables := false
		opts.IncludeTables = &includeTables
	}

	wb, err := xltutor.Import(inputPath, opts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	jsonData, err := output.ToJSON(wb, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else if sheetsDir == "" && configsDir == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	}

	if sheetsDir != "" {
		if err := writeSheetFiles(wb, sheetsDir); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
	}

	if configsDir != "" {
		if err := writeConfigFiles(wb, configsDir); err != nil {
			return fmt.Errorf("failed to write config files: %w", err)
		}
	}

	return nil
}

func writeSheetFiles(wb *models.WorkbookData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for name, sheet := range wb.Sheets {
		jsonData, err := output.SheetToJSON(&sheet, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, name+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

// writeConfigFiles skips empty sheets, which have no valid sandbox size.
func writeConfigFiles(wb *models.WorkbookData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for name, sheet := range wb.Sheets {
		if sheet.Rows == 0 || sheet.Cols == 0 {
			continue
		}
		cfg := sheet.Config()
		cfg.Instructions = fmt.Sprintf("Imported from %s, sheet %s (%s).", wb.BookName, name, sheet.Area)

		var data []byte
		var err error
		if configFmt == "json" {
			data, err = output.ConfigToJSON(&cfg, true)
		} else {
			data, err = output.ConfigToYAML(&cfg)
		}
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, name+"."+configFmt)
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return err
		}
	}

	return nil
}
