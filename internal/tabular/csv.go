// Package tabular encodes flattened rows as CSV and produces previews,
// validation reports, and aggregate summaries over them. It never inspects
// the original feed document; rows arrive as column-keyed maps and nothing
// here mutates them.
package tabular

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/petereliason/green-button-web/internal/espi"
)

// Row is one flattened record keyed by column name. Absent values are nil;
// everything else stringifies for output.
type Row = map[string]any

// ErrEmptyData indicates an encode attempt on zero rows.
var ErrEmptyData = errors.New("no rows to encode")

// Records converts flattened rows into encoder input.
func Records(rows []espi.FlatRow) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Record()
	}
	return out
}

// ToCSV encodes rows as comma-separated text with \n line endings and the
// header row first. When headers is empty the header set is derived from
// the first row's keys: known columns in canonical order, any extra keys
// appended sorted (maps carry no encounter order), with the canonical list
// as fallback for a keyless first row. Fields are quoted per RFC 4180,
// plus quoting on leading or trailing whitespace.
func ToCSV(rows []Row, headers []string) (string, error) {
	if len(rows) == 0 {
		return "", ErrEmptyData
	}
	if len(headers) == 0 {
		headers = deriveHeaders(rows[0])
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, encodeRecord(headers))

	for _, row := range rows {
		fields := make([]string, len(headers))
		for i, h := range headers {
			fields[i] = FormatValue(row[h])
		}
		lines = append(lines, encodeRecord(fields))
	}

	return strings.Join(lines, "\n"), nil
}

func deriveHeaders(first Row) []string {
	if len(first) == 0 {
		out := make([]string, len(espi.FlatColumns))
		copy(out, espi.FlatColumns)
		return out
	}

	seen := make(map[string]bool, len(first))
	headers := make([]string, 0, len(first))
	for _, col := range espi.FlatColumns {
		if _, ok := first[col]; ok {
			headers = append(headers, col)
			seen[col] = true
		}
	}

	var extras []string
	for key := range first {
		if !seen[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	return append(headers, extras...)
}

func encodeRecord(fields []string) string {
	encoded := make([]string, len(fields))
	for i, f := range fields {
		encoded[i] = encodeField(f)
	}
	return strings.Join(encoded, ",")
}

// encodeField wraps the field in double quotes, doubling internal quotes,
// when it contains a comma, quote, CR, LF, or leading/trailing whitespace.
func encodeField(s string) string {
	if s == "" {
		return s
	}
	needsQuoting := strings.ContainsAny(s, ",\"\r\n") || strings.TrimSpace(s) != s
	if !needsQuoting {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FormatValue stringifies one cell. Nil renders as the empty string.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
