package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukaji3/xltutor-go/internal/content"
	"github.com/ukaji3/xltutor-go/pkg/xltutor"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/lookup"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/output"
)

var (
	table       string
	xlsxPath    string
	tableRange  string
	columnIndex int
	approximate bool
	skipHeader  bool
)

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <value>",
		Short: "Simulate an XLOOKUP/VLOOKUP search step by step",
		Long: `Searches the first column of a table for value and prints the matched
row's column together with a narrated trace of the search. The table is one
of the built-in samples (employees, products) or a range of an xlsx file.`,
		Args: cobra.ExactArgs(1),
		RunE: runLookup,
	}

	cmd.Flags().StringVar(&table, "table", "employees", "Built-in table: employees or products")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Read the table from this workbook instead")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet of --xlsx (default: first)")
	cmd.Flags().StringVar(&tableRange, "range", "", "Table range of --xlsx, e.g. A1:D6 (default: data bounds)")
	cmd.Flags().BoolVar(&skipHeader, "skip-header", true, "Drop the first row of an --xlsx table")
	cmd.Flags().IntVar(&columnIndex, "column", 2, "1-based column to return")
	cmd.Flags().BoolVar(&approximate, "approximate", false, "Approximate match (range lookup)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	return cmd
}

func runLookup(cmd *cobra.Command, args []string) error {
	rows, err := lookupTable()
	if err != nil {
		return err
	}

	res := lookup.Simulate(models.LookupRequest{
		LookupValue: args[0],
		TableData:   rows,
		ColumnIndex: columnIndex,
		RangeLookup: approximate,
	})

	jsonData, err := output.LookupResultToJSON(&res, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}

func lookupTable() ([][]interface{}, error) {
	if xlsxPath != "" {
		rows, err := xltutor.LoadLookupTable(xlsxPath, sheetName, tableRange)
		if err != nil {
			return nil, fmt.Errorf("failed to read table: %w", err)
		}
		if skipHeader && len(rows) > 0 {
			rows = rows[1:]
		}
		return rows, nil
	}

	lib, err := content.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	samples := lib.Samples()
	switch table {
	case "employees":
		return content.EmployeeTable(samples.Employees), nil
	case "products":
		return content.ProductTable(samples.Products), nil
	default:
		return nil, fmt.Errorf("invalid table: %s (must be employees or products)", table)
	}
}
