package tabular

// PreviewResult is a bounded view over the row set for display.
type PreviewResult struct {
	Headers   []string `json:"headers"`
	Rows      []Row    `json:"rows"`
	TotalRows int      `json:"totalRows"`
	IsPreview bool     `json:"isPreview"`
}

// Preview returns the first maxRows rows without mutating the input.
func Preview(rows []Row, maxRows int) PreviewResult {
	if maxRows < 0 {
		maxRows = 0
	}

	var headers []string
	if len(rows) > 0 {
		headers = deriveHeaders(rows[0])
	}

	limit := maxRows
	if limit > len(rows) {
		limit = len(rows)
	}

	out := make([]Row, limit)
	copy(out, rows[:limit])

	return PreviewResult{
		Headers:   headers,
		Rows:      out,
		TotalRows: len(rows),
		IsPreview: len(rows) > maxRows,
	}
}
