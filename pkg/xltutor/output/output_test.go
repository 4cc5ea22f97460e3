package output

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
)

func TestToJSON(t *testing.T) {
	wb := &models.WorkbookData{
		BookName: "book.xlsx",
		Sheets: map[string]models.SheetData{
			"Sheet1": {Rows: 2, Cols: 2, Area: "A1:B2", Cells: map[string]string{"A1": "x"}},
		},
	}

	compact, err := ToJSON(wb, false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if strings.Contains(string(compact), "\n") {
		t.Errorf("compact output should be a single line: %s", compact)
	}
	if !strings.Contains(string(compact), `"book_name":"book.xlsx"`) {
		t.Errorf("missing book_name: %s", compact)
	}

	pretty, err := ToJSON(wb, true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"sheets\"") {
		t.Errorf("pretty output should be indented: %s", pretty)
	}
}

func TestConfigToYAML(t *testing.T) {
	cfg := &models.SheetConfig{
		Rows:          3,
		Cols:          2,
		InitialData:   map[string]string{"A1": "007"},
		EditableCells: []string{"B1"},
	}

	data, err := ConfigToYAML(cfg)
	if err != nil {
		t.Fatalf("ConfigToYAML failed: %v", err)
	}

	var back models.SheetConfig
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v", err)
	}
	if back.InitialData["A1"] != "007" || len(back.EditableCells) != 1 {
		t.Errorf("unexpected config after YAML: %+v", back)
	}
}

func TestLookupResultToJSON(t *testing.T) {
	row := 1
	res := &models.LookupResult{Result: "Bob", MatchedRow: &row, Steps: []string{"step"}, Success: true}

	data, err := LookupResultToJSON(res, false)
	if err != nil {
		t.Fatalf("LookupResultToJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"matchedRow":1`) {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestRowsToJSONEmpty(t *testing.T) {
	data, err := RowsToJSON(nil, false)
	if err != nil {
		t.Fatalf("RowsToJSON failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("RowsToJSON(nil) = %s, expected []", data)
	}
}

func TestConfigToJSONKeepsNilEditable(t *testing.T) {
	data, err := ConfigToJSON(&models.SheetConfig{Rows: 1, Cols: 1}, false)
	if err != nil {
		t.Fatalf("ConfigToJSON failed: %v", err)
	}
	// null editableCells means every cell is editable
	if !strings.Contains(string(data), `"editableCells":null`) {
		t.Errorf("unexpected JSON: %s", data)
	}
}
