package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.alis.build/alog"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/xltutor-go/internal/content"
	"github.com/ukaji3/xltutor-go/internal/service"
	"github.com/ukaji3/xltutor-go/internal/tui"
	"github.com/ukaji3/xltutor-go/pkg/xltutor"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/output"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/sheet"
)

var (
	challengeID string
	sheetName   string
	edits       []string
	area        string
	maxDepth    int
	pretty      bool
	savePath    string
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [config.yaml|config.json|book.xlsx]",
		Short: "Evaluate a sheet and print its display values",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEval,
	}
	addSheetFlags(cmd)
	cmd.Flags().StringArrayVar(&edits, "set", nil, "Edit a cell before evaluating, e.g. --set B6==SUM(B1:B5)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func newSandboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandbox [config.yaml|config.json|book.xlsx]",
		Short: "Edit a sheet interactively in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSandbox,
	}
	addSheetFlags(cmd)
	cmd.Flags().StringVar(&savePath, "save", "", "Write the sheet to this xlsx file on exit")
	cmd.Flags().StringVar(&envFile, "env", ".env", "Optional .env file naming the progress store")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [config.yaml|config.json|book.xlsx] output.xlsx",
		Short: "Write a sheet's raw cells to a new workbook",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runExport,
	}
	addSheetFlags(cmd)
	cmd.Flags().StringArrayVar(&edits, "set", nil, "Edit a cell before exporting, e.g. --set A1=Total")
	return cmd
}

func addSheetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&challengeID, "challenge", "", "Use a built-in sandbox challenge instead of a file")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet to read from an xlsx file (default: first)")
	cmd.Flags().StringVar(&area, "area", string(xltutor.AreaAuto), "Sizing of xlsx sheets: auto, data, print")
	cmd.Flags().IntVar(&maxDepth, "max-depth", sheet.DefaultMaxDepth, "Longest formula reference chain")
}

func runEval(cmd *cobra.Command, args []string) error {
	s, cfg, err := loadSheet(args)
	if err != nil {
		return err
	}
	if err := applyEdits(s, edits); err != nil {
		return err
	}

	jsonData, err := output.RowsToJSON(s.CellRows(), pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))

	if len(cfg.TargetValues) > 0 {
		p := s.Progress(cfg.TargetValues)
		fmt.Fprintf(cmd.OutOrStdout(), "progress: %d/%d complete=%v\n", p.Correct, p.Total, p.Complete)
	}
	return nil
}

func runSandbox(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, cfg, err := loadSheet(args)
	if err != nil {
		return err
	}

	app := tui.NewApp(s, cfg.TargetValues, cfg.Instructions)
	if challengeID != "" {
		conf, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(ctx, conf)
		if err != nil {
			return err
		}
		defer store.Close()

		app.OnComplete = func(models.Progress) {
			if err := store.Set(ctx, "challenge:"+challengeID, service.ProgressComplete); err != nil {
				app.Message = "could not save progress: " + err.Error()
			}
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("cannot create screen: %w", err)
	}
	if err := tui.Run(screen, app); err != nil {
		return err
	}

	if savePath != "" {
		if err := xltutor.Export(savePath, "Sandbox", s); err != nil {
			return fmt.Errorf("failed to save sheet: %w", err)
		}
		alog.Infof(ctx, "sheet saved to %s", savePath)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	src, dst := args[:len(args)-1], args[len(args)-1]
	if filepath.Ext(dst) != ".xlsx" {
		return fmt.Errorf("output must be an .xlsx file: %s", dst)
	}

	s, _, err := loadSheet(src)
	if err != nil {
		return err
	}
	if err := applyEdits(s, edits); err != nil {
		return err
	}

	name := sheetName
	if name == "" {
		name = "Sheet1"
	}
	if err := xltutor.Export(dst, name, s); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}

// loadSheet builds the sheet named by --challenge or by the single file
// argument. Workbooks yield a fully editable sheet with no targets.
func loadSheet(args []string) (*sheet.Sheet, models.SheetConfig, error) {
	opts, err := sheetOptions()
	if err != nil {
		return nil, models.SheetConfig{}, err
	}

	switch {
	case challengeID != "" && len(args) > 0:
		return nil, models.SheetConfig{}, fmt.Errorf("use either --challenge or a file, not both")
	case challengeID != "":
		lib, err := content.Load()
		if err != nil {
			return nil, models.SheetConfig{}, fmt.Errorf("failed to load content: %w", err)
		}
		c, ok := lib.Challenge(challengeID)
		if !ok {
			return nil, models.SheetConfig{}, fmt.Errorf("unknown challenge: %s", challengeID)
		}
		if c.Sheet == nil {
			return nil, models.SheetConfig{}, fmt.Errorf("challenge %s has no sheet", challengeID)
		}
		s, err := sheet.New(*c.Sheet, opts.SheetOptions()...)
		return s, *c.Sheet, err
	case len(args) == 0:
		return nil, models.SheetConfig{}, fmt.Errorf("a file or --challenge is required")
	}

	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, models.SheetConfig{}, fmt.Errorf("file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		s, err := xltutor.LoadSheet(path, sheetName, opts)
		if err != nil {
			return nil, models.SheetConfig{}, fmt.Errorf("import failed: %w", err)
		}
		return s, models.SheetConfig{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, models.SheetConfig{}, err
	}
	// JSON configs parse as YAML too
	var cfg models.SheetConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, models.SheetConfig{}, fmt.Errorf("invalid sheet config %s: %w", path, err)
	}
	s, err := sheet.New(cfg, opts.SheetOptions()...)
	if err != nil {
		return nil, models.SheetConfig{}, err
	}
	return s, cfg, nil
}

func sheetOptions() (xltutor.Options, error) {
	opts := xltutor.DefaultOptions()
	opts.MaxDepth = maxDepth

	mode, err := parseArea(area)
	if err != nil {
		return opts, err
	}
	opts.Area = mode
	return opts, nil
}

func parseArea(v string) (xltutor.AreaMode, error) {
	switch mode := xltutor.AreaMode(strings.ToLower(v)); mode {
	case xltutor.AreaAuto, xltutor.AreaData, xltutor.AreaPrint:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid area: %s (must be auto, data, or print)", v)
	}
}

// applyEdits applies ADDR=VALUE pairs in address order.
func applyEdits(s *sheet.Sheet, pairs []string) error {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		addr, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q (want ADDR=VALUE)", pair)
		}
		values[strings.TrimSpace(addr)] = value
	}

	addrs := make([]string, 0, len(values))
	for addr := range values {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	for _, addr := range addrs {
		if err := s.Edit(addr, values[addr]); err != nil {
			return err
		}
	}
	return nil
}
