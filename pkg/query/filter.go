package query

import (
	"strings"

	"github.com/Genty83/SimplifyTable/pkg/tabular"
)

// filterRecords returns the records matching every filter. The input
// slice is never mutated.
func filterRecords(records []tabular.Record, filters map[string]string) []tabular.Record {
	if len(filters) == 0 {
		out := make([]tabular.Record, len(records))
		copy(out, records)
		return out
	}

	out := make([]tabular.Record, 0, len(records))
	for _, rec := range records {
		if matchRecord(rec, filters) {
			out = append(out, rec)
		}
	}
	return out
}

// matchRecord reports whether rec satisfies all filters. Absent columns
// stringify to the empty string, so only an empty pattern matches them.
func matchRecord(rec tabular.Record, filters map[string]string) bool {
	for key, pattern := range filters {
		if Reserved(key) {
			continue
		}
		value := strings.ToLower(tabular.FormatValue(rec[key]))
		if !strings.Contains(value, strings.ToLower(pattern)) {
			return false
		}
	}
	return true
}

// pageSlice returns the 1-based page of size limit. Pages past the end
// are empty, never an error.
func pageSlice(records []tabular.Record, page, limit int) []tabular.Record {
	start := (page - 1) * limit
	if start >= len(records) {
		return []tabular.Record{}
	}
	end := min(start+limit, len(records))
	return records[start:end]
}
