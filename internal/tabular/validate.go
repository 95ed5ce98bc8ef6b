package tabular

// validate.go checks row data for structural consistency before encoding.
// Ragged rows are tolerated in output but reported as warnings; only a
// missing or shapeless row set fails validation outright.

import (
	"fmt"
	"strings"
)

// qualityWarnThreshold is the null/empty cell rate above which a
// data-quality warning is emitted.
const qualityWarnThreshold = 0.10

// ValidationStats counts rows, columns, and problem cells.
type ValidationStats struct {
	TotalRows    int `json:"totalRows"`
	TotalColumns int `json:"totalColumns"`
	EmptyValues  int `json:"emptyValues"`
	NullValues   int `json:"nullValues"`
}

// ValidationReport is the outcome of validating a row set.
type ValidationReport struct {
	IsValid  bool            `json:"isValid"`
	Errors   []string        `json:"errors"`
	Warnings []string        `json:"warnings"`
	Stats    ValidationStats `json:"stats"`
}

// Validate scans every row for schema consistency and null/empty density.
// A nil or empty row set, or a first row that is not a structured record,
// fails validation with empty stats.
func Validate(rows []Row) ValidationReport {
	report := ValidationReport{}

	if rows == nil {
		report.Errors = append(report.Errors, "no data provided")
		return report
	}
	if len(rows) == 0 {
		report.Errors = append(report.Errors, "data contains no rows")
		return report
	}
	if rows[0] == nil || len(rows[0]) == 0 {
		report.Errors = append(report.Errors, "first row is not a structured record")
		return report
	}

	report.IsValid = true
	expectedColumns := len(rows[0])
	report.Stats.TotalRows = len(rows)
	report.Stats.TotalColumns = expectedColumns

	for i, row := range rows {
		if len(row) != expectedColumns {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("row %d has %d columns, expected %d", i+1, len(row), expectedColumns))
		}
		for _, v := range row {
			if v == nil {
				report.Stats.NullValues++
				continue
			}
			if strings.TrimSpace(FormatValue(v)) == "" {
				report.Stats.EmptyValues++
			}
		}
	}

	totalCells := report.Stats.TotalRows * report.Stats.TotalColumns
	if totalCells > 0 {
		nullRate := float64(report.Stats.NullValues) / float64(totalCells)
		emptyRate := float64(report.Stats.EmptyValues) / float64(totalCells)
		if nullRate > qualityWarnThreshold {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("high null rate: %.1f%% of cells have no value", nullRate*100))
		}
		if emptyRate > qualityWarnThreshold {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("high empty rate: %.1f%% of cells are blank", emptyRate*100))
		}
	}

	return report
}
