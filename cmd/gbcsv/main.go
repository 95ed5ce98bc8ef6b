// Command gbcsv converts a Green Button Atom+XML feed file into a flat CSV
// table from the command line. It runs the same pipeline as the web
// service: parse, flatten, validate, encode.
//
// Usage:
//
//	gbcsv -in feed.xml [-out data.csv] [-comments] [-preview 10] [-summary]
//
// Without -out the CSV goes to stdout. -preview and -summary print an
// inspection instead of writing the full CSV.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/petereliason/green-button-web/internal/espi"
	"github.com/petereliason/green-button-web/internal/parser"
	"github.com/petereliason/green-button-web/internal/tabular"
)

func main() {
	in := flag.String("in", "", "path to the Green Button XML feed (required)")
	out := flag.String("out", "", "output CSV path (default: stdout)")
	comments := flag.Bool("comments", false, "prepend #-prefixed feed metadata to the CSV")
	previewRows := flag.Int("preview", 0, "print the first N rows instead of exporting")
	summary := flag.Bool("summary", false, "print summary statistics instead of exporting")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "gbcsv: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*in, *out, *comments, *previewRows, *summary); err != nil {
		fmt.Fprintf(os.Stderr, "gbcsv: %v\n", err)
		os.Exit(1)
	}
}

func run(in, out string, comments bool, previewRows int, summary bool) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	doc, err := parser.Parse(string(data))
	if err != nil {
		return err
	}

	rows := tabular.Records(parser.Flatten(doc))

	if summary {
		printSummary(doc, rows)
		return nil
	}

	if previewRows > 0 {
		return printPreview(rows, previewRows)
	}

	result := tabular.Export(doc, tabular.ExportOptions{
		Filename:                out,
		IncludeMetadataComments: comments,
	})
	if !result.Success {
		return fmt.Errorf("%s", result.Error)
	}

	if out == "" {
		fmt.Println(result.CSV)
		return nil
	}

	if err := os.WriteFile(out, []byte(result.CSV), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d rows, %d bytes)\n", out, result.RowCount, result.ByteSize)
	return nil
}

func printPreview(rows []tabular.Row, n int) error {
	p := tabular.Preview(rows, n)
	if p.TotalRows == 0 {
		fmt.Println("feed contains no interval readings")
		return nil
	}

	csvText, err := tabular.ToCSV(p.Rows, p.Headers)
	if err != nil {
		return err
	}
	fmt.Println(csvText)
	if p.IsPreview {
		fmt.Fprintf(os.Stderr, "... %d of %d rows shown\n", len(p.Rows), p.TotalRows)
	}
	return nil
}

func printSummary(doc *espi.Document, rows []tabular.Row) {
	s := tabular.Summarize(rows)

	fmt.Printf("Feed:            %s\n", doc.Feed.Title)
	fmt.Printf("Feed ID:         %s\n", doc.Feed.ID)
	fmt.Printf("Entries:         %d\n", doc.Feed.TotalEntries)
	fmt.Printf("Usage points:    %d\n", s.UsagePoints)
	fmt.Printf("Meter readings:  %d\n", s.MeterReadings)
	fmt.Printf("Intervals:       %d\n", s.TotalIntervals)
	fmt.Printf("Total energy:    %g\n", s.TotalEnergyValue)
	fmt.Printf("Total cost:      %.2f\n", s.TotalCost)
	if s.DateRange != nil {
		fmt.Printf("Date range:      %s .. %s\n",
			s.DateRange.Min.Format("2006-01-02T15:04:05Z"),
			s.DateRange.Max.Format("2006-01-02T15:04:05Z"))
	}
	if len(s.Commodities) > 0 {
		fmt.Printf("Commodities:     %s\n", strings.Join(s.Commodities, ", "))
	}
}
