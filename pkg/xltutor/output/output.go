// Package output serializes workbook data, sheet configurations and lookup
// traces for the CLI.
package output

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
)

// ToJSON serializes imported workbook data.
func ToJSON(wb *models.WorkbookData, pretty bool) ([]byte, error) {
	return marshal(wb, pretty)
}

// SheetToJSON serializes one imported sheet.
func SheetToJSON(sheet *models.SheetData, pretty bool) ([]byte, error) {
	return marshal(sheet, pretty)
}

// ConfigToJSON serializes a sandbox configuration.
func ConfigToJSON(cfg *models.SheetConfig, pretty bool) ([]byte, error) {
	return marshal(cfg, pretty)
}

// ConfigToYAML serializes a sandbox configuration in the format challenge
// content is authored in.
func ConfigToYAML(cfg *models.SheetConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// LookupResultToJSON serializes a lookup simulation result.
func LookupResultToJSON(res *models.LookupResult, pretty bool) ([]byte, error) {
	return marshal(res, pretty)
}

// RowsToJSON serializes evaluated sheet rows.
func RowsToJSON(rows []models.CellRow, pretty bool) ([]byte, error) {
	if rows == nil {
		rows = []models.CellRow{}
	}
	return marshal(rows, pretty)
}

func marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
