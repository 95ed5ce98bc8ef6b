package tabular

// export.go orchestrates the full document-to-CSV path: flatten, validate,
// encode, and optionally prepend a metadata comment block. On any failure
// the result carries only an error message, never partial output.

import (
	"fmt"
	"strings"
	"time"

	"github.com/petereliason/green-button-web/internal/espi"
	"github.com/petereliason/green-button-web/internal/parser"
)

// ExportOptions controls one export run.
type ExportOptions struct {
	// Filename overrides the generated green_button_data_<timestamp>.csv name.
	Filename string
	// IncludeMetadataComments prepends #-prefixed feed metadata lines
	// ahead of the CSV body.
	IncludeMetadataComments bool
}

// ExportResult is the outcome of an export run.
type ExportResult struct {
	Success    bool             `json:"success"`
	Filename   string           `json:"filename,omitempty"`
	CSV        string           `json:"-"`
	ByteSize   int              `json:"byteSize,omitempty"`
	RowCount   int              `json:"rowCount,omitempty"`
	Validation ValidationReport `json:"validation,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Export flattens the document, validates the rows, and encodes them as
// CSV. Validation failure aborts with a descriptive error and no output.
func Export(doc *espi.Document, opts ExportOptions) ExportResult {
	rows := Records(parser.Flatten(doc))

	report := Validate(rows)
	if !report.IsValid {
		return ExportResult{
			Validation: report,
			Error:      "export aborted: " + strings.Join(report.Errors, "; "),
		}
	}

	csvText, err := ToCSV(rows, espi.FlatColumns)
	if err != nil {
		return ExportResult{Validation: report, Error: err.Error()}
	}

	if opts.IncludeMetadataComments {
		csvText = metadataComments(doc.Feed, len(rows)) + csvText
	}

	filename := opts.Filename
	if filename == "" {
		filename = DefaultFilename(time.Now().UTC())
	}

	return ExportResult{
		Success:    true,
		Filename:   filename,
		CSV:        csvText,
		ByteSize:   len(csvText),
		RowCount:   len(rows),
		Validation: report,
	}
}

// DefaultFilename builds the suggested export name from a UTC timestamp
// with colons stripped.
func DefaultFilename(t time.Time) string {
	return fmt.Sprintf("green_button_data_%s.csv", t.UTC().Format("20060102T150405Z"))
}

func metadataComments(feed espi.FeedMetadata, rowCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Green Button export\n")
	fmt.Fprintf(&b, "# Feed ID: %s\n", feed.ID)
	fmt.Fprintf(&b, "# Feed title: %s\n", feed.Title)
	fmt.Fprintf(&b, "# Feed entries: %d\n", feed.TotalEntries)
	fmt.Fprintf(&b, "# Rows: %d\n", rowCount)
	return b.String()
}
