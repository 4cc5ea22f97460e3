package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ukaji3/xltutor-go/pkg/xltutor"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/sheet"
)

func TestParseArea(t *testing.T) {
	tests := []struct {
		in      string
		want    xltutor.AreaMode
		wantErr bool
	}{
		{"auto", xltutor.AreaAuto, false},
		{"DATA", xltutor.AreaData, false},
		{"print", xltutor.AreaPrint, false},
		{"page", "", true},
	}

	for _, tt := range tests {
		got, err := parseArea(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseArea(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseArea(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyEdits(t *testing.T) {
	s, err := sheet.New(models.SheetConfig{Rows: 3, Cols: 2})
	if err != nil {
		t.Fatalf("sheet.New failed: %v", err)
	}

	if err := applyEdits(s, []string{"A1=2", "a2=3", "B1==A1*A2"}); err != nil {
		t.Fatalf("applyEdits failed: %v", err)
	}
	if got := s.DisplayText("B1"); got != "6" {
		t.Errorf("B1 = %q, expected 6", got)
	}

	if err := applyEdits(s, []string{"A1"}); err == nil {
		t.Error("expected error for a pair without =")
	}
}

func TestLoadSheetFromConfigFile(t *testing.T) {
	challengeID, sheetName, area, maxDepth = "", "", "auto", sheet.DefaultMaxDepth

	path := filepath.Join(t.TempDir(), "budget.json")
	cfg := `{"rows":3,"cols":2,"initialData":{"B1":"3.50","B2":"2"},"targetValues":{"B3":"5.5"}}`
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s, got, err := loadSheet([]string{path})
	if err != nil {
		t.Fatalf("loadSheet failed: %v", err)
	}
	if err := s.Edit("B3", "=SUM(B1:B2)"); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if p := s.Progress(got.TargetValues); !p.Complete {
		t.Errorf("expected complete progress, got %+v", p)
	}
}

func TestLoadSheetFromChallenge(t *testing.T) {
	challengeID, sheetName, area, maxDepth = "shopping-budget", "", "auto", sheet.DefaultMaxDepth
	defer func() { challengeID = "" }()

	s, cfg, err := loadSheet(nil)
	if err != nil {
		t.Fatalf("loadSheet failed: %v", err)
	}
	if s.Rows() != 7 || s.Cols() != 2 || cfg.TargetValues["B6"] != "18" {
		t.Errorf("unexpected challenge sheet %dx%d targets %v", s.Rows(), s.Cols(), cfg.TargetValues)
	}

	if _, _, err := loadSheet([]string{"extra.json"}); err == nil {
		t.Error("expected error when both --challenge and a file are given")
	}
}

func TestLookupCommand(t *testing.T) {
	cmd := newLookupCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"p103", "--table", "products", "--column", "3"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !strings.Contains(out.String(), `"result":199.99`) || !strings.Contains(out.String(), `"success":true`) {
		t.Errorf("unexpected output: %s", out.String())
	}
}
