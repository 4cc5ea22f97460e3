// Package lookup simulates XLOOKUP/VLOOKUP over a small in-memory table and
// narrates each step of the search.
package lookup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
)

// NotFoundStep is appended to the trace when an exact search finds nothing.
const NotFoundStep = "No exact match found. XLOOKUP returns #N/A error."

// Simulate scans req.TableData top to bottom for a first-column value equal
// to req.LookupValue, ignoring case, and returns the requested column of the
// first matching row.
//
// Approximate mode (RangeLookup) performs the same equality test; only the
// wording of the trace differs. A match whose requested cell is null fails
// like a miss but keeps MatchedRow.
func Simulate(req models.LookupRequest) models.LookupResult {
	res := models.LookupResult{Steps: []string{}}
	exact := !req.RangeLookup

	if len(req.TableData) > 0 {
		if width := len(req.TableData[0]); req.ColumnIndex < 1 || req.ColumnIndex > width {
			return outOfRange(res, req.ColumnIndex, width)
		}
	} else if req.ColumnIndex < 1 {
		return outOfRange(res, req.ColumnIndex, 0)
	}

	want := strings.ToLower(req.LookupValue)
	for i, row := range req.TableData {
		var first string
		if len(row) > 0 {
			first = CellString(row[0])
		}
		if strings.ToLower(first) != want {
			if exact {
				res.Steps = append(res.Steps, fmt.Sprintf("Checked row %d: \"%s\" - no match", i+1, first))
			}
			continue
		}

		if exact {
			res.Steps = append(res.Steps, fmt.Sprintf("Found exact match in row %d: \"%s\"", i+1, first))
		} else {
			res.Steps = append(res.Steps, fmt.Sprintf("Found match in row %d: \"%s\"", i+1, first))
		}
		if req.ColumnIndex > len(row) {
			return outOfRange(res, req.ColumnIndex, len(row))
		}
		matched := i
		res.MatchedRow = &matched
		res.Result = row[req.ColumnIndex-1]
		if res.Result == nil {
			// a matched row with a null cell still reports where it matched
			break
		}
		res.Success = true
		return res
	}

	if exact {
		res.Steps = append(res.Steps, NotFoundStep)
	}
	res.Error = models.ErrorNoMatchFound
	return res
}

func outOfRange(res models.LookupResult, index, width int) models.LookupResult {
	res.Steps = append(res.Steps, fmt.Sprintf("Column index %d is outside the table width of %d. XLOOKUP returns #REF! error.", index, width))
	res.Error = models.ErrorColumnIndexOutOfRange
	return res
}

// CellString renders a table value the way it is compared and narrated.
// Numbers decoded from JSON print without a trailing ".0" or exponent.
func CellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
