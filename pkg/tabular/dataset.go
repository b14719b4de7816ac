package tabular

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Missing is the sentinel stored for a CSV field that is absent from a short
// row. It is distinct from the empty string, which is a genuinely empty value.
const Missing = "-"

// Record maps column names to values. CSV values are strings; JSON values
// keep their decoded types (json.Number, string, bool, nil, nested values);
// static datasets keep whatever the caller stored.
type Record map[string]any

// Dataset is a parsed tabular result: the ordered column names and the
// records in source order. Cached datasets are shared across queries, so
// callers must treat records as read-only.
type Dataset struct {
	Columns []string
	Records []Record
}

// FromRows builds a static dataset from positional rows. Short rows are
// padded with the Missing sentinel so every record has one entry per column,
// matching CSV parse behavior.
func FromRows(columns []string, rows [][]string) *Dataset {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := make(Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = Missing
			}
		}
		records = append(records, rec)
	}
	return &Dataset{Columns: columns, Records: records}
}

// FormatValue renders a stored value as a string for filtering and display.
// The stored value itself is never mutated.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any, []any:
		// Nested JSON values render as compact JSON text.
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
