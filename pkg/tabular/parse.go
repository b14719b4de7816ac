package tabular

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Parse converts a raw body into a dataset, dispatching on the declared
// format tag. A failed parse discards the whole body.
func Parse(body []byte, format Format) (*Dataset, error) {
	switch format {
	case FormatJSON:
		return parseJSON(body)
	case FormatCSV:
		return parseCSV(body)
	default:
		return nil, &UnsupportedFormatError{ContentType: string(format)}
	}
}

// parseJSON decodes a top-level array, or an object carrying a "results"
// array, into records. Column order follows the first record's document
// order; numbers are kept as json.Number so the original lexeme survives.
func parseJSON(body []byte) (*Dataset, error) {
	raw, err := recordSlice(body)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(raw))
	for i, r := range raw {
		rec, err := decodeRecord(r)
		if err != nil {
			return nil, &ParseError{
				Format:  FormatJSON,
				Message: fmt.Sprintf("record %d is not an object", i),
				Err:     err,
			}
		}
		records = append(records, rec)
	}

	var columns []string
	if len(raw) > 0 {
		columns, err = objectKeys(raw[0])
		if err != nil {
			return nil, &ParseError{Format: FormatJSON, Message: "read column order", Err: err}
		}
	}

	return &Dataset{Columns: columns, Records: records}, nil
}

// recordSlice locates the record sequence in a JSON body without decoding
// record contents yet.
func recordSlice(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &ParseError{Format: FormatJSON, Message: "empty body"}
	}

	switch trimmed[0] {
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return nil, &ParseError{Format: FormatJSON, Message: "invalid json array", Err: err}
		}
		return arr, nil

	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, &ParseError{Format: FormatJSON, Message: "invalid json object", Err: err}
		}
		results, ok := wrapper["results"]
		if !ok {
			return nil, &ParseError{Format: FormatJSON, Message: "object body has no results array"}
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(results, &arr); err != nil {
			return nil, &ParseError{Format: FormatJSON, Message: "results field is not an array", Err: err}
		}
		return arr, nil

	default:
		return nil, &ParseError{Format: FormatJSON, Message: "body is neither an array nor an object"}
	}
}

// decodeRecord decodes one record with numbers preserved as json.Number.
func decodeRecord(raw json.RawMessage) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("null record")
	}
	return rec, nil
}

// objectKeys returns an object's keys in document order, deduplicated on
// first occurrence. encoding/json maps lose key order, so the raw object is
// tokenized once more.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("not an object")
	}

	var keys []string
	seen := make(map[string]struct{})
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", keyTok)
		}
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}

		// Skip the value.
		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// parseCSV splits the body into lines, reads the header as the column set,
// and tokenizes each non-blank data line quote-aware. Short rows are padded
// with the Missing sentinel; fields past the header width are dropped.
func parseCSV(body []byte) (*Dataset, error) {
	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	if strings.TrimSpace(lines[0]) == "" {
		return nil, &ParseError{Format: FormatCSV, Message: "missing header line"}
	}
	columns := splitLine(lines[0])

	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitLine(line)

		rec := make(Record, len(columns))
		for i, col := range columns {
			if i < len(fields) {
				rec[col] = fields[i]
			} else {
				rec[col] = Missing
			}
		}
		records = append(records, rec)
	}

	return &Dataset{Columns: columns, Records: records}, nil
}

// splitLine tokenizes one CSV line. A double-quoted span counts as a single
// field even when it embeds commas; each field is trimmed and one layer of
// surrounding quotes is stripped.
func splitLine(line string) []string {
	var fields []string
	var buf strings.Builder
	inQuote := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			buf.WriteRune(r)
		case r == ',' && !inQuote:
			fields = append(fields, cleanField(buf.String()))
			buf.Reset()
		default:
			buf.WriteRune(r)
		}
	}
	fields = append(fields, cleanField(buf.String()))

	return fields
}

// cleanField trims surrounding whitespace, then strips one layer of
// surrounding quotes.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return s
}
