// Package tabular converts raw response bodies into a uniform tabular shape:
// an ordered sequence of records plus the ordered list of column names.
//
// Two wire formats are supported:
//
//   - JSON (application/json): a top-level array of objects, or an object
//     carrying a "results" array of objects
//   - CSV (text/csv): first line is the header, double-quoted fields may
//     embed commas, short rows are padded with the "-" sentinel
//
// # Basic Usage
//
//	format, err := tabular.DetectFormat(resp.ContentType)
//	if err != nil {
//		return err // *UnsupportedFormatError
//	}
//
//	dataset, err := tabular.Parse(resp.Body, format)
//	if err != nil {
//		return err // *ParseError
//	}
//
//	for _, rec := range dataset.Records {
//		fmt.Println(tabular.FormatValue(rec["name"]))
//	}
//
// # Value Types
//
// CSV fields are stored as strings. JSON values keep their decoded types,
// with numbers held as json.Number so the original lexeme survives display
// and filtering. FormatValue renders any stored value for comparison or
// display without mutating it.
//
// # Static Datasets
//
// Callers with in-memory data build a Dataset directly or via FromRows:
//
//	ds := tabular.FromRows(
//		[]string{"id", "name"},
//		[][]string{{"1", "Atlas"}, {"2", "Vega"}},
//	)
package tabular
