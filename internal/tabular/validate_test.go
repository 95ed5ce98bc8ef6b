package tabular

import (
	"strings"
	"testing"
)

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		rows    []Row
		wantErr string
	}{
		{"nil rows", nil, "no data provided"},
		{"empty rows", []Row{}, "data contains no rows"},
		{"nil first row", []Row{nil, {"a": 1}}, "first row is not a structured record"},
		{"empty first row", []Row{{}}, "first row is not a structured record"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Validate(tt.rows)
			if report.IsValid {
				t.Error("IsValid = true, want false")
			}
			if len(report.Errors) != 1 || report.Errors[0] != tt.wantErr {
				t.Errorf("Errors = %v, want [%q]", report.Errors, tt.wantErr)
			}
			if report.Stats != (ValidationStats{}) {
				t.Errorf("Stats = %+v, want zero stats on failure", report.Stats)
			}
		})
	}
}

func TestValidate_CleanData(t *testing.T) {
	rows := []Row{
		{"a": "1", "b": int64(2)},
		{"a": "3", "b": int64(4)},
	}

	report := Validate(rows)
	if !report.IsValid {
		t.Fatalf("IsValid = false, errors = %v", report.Errors)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", report.Warnings)
	}
	if report.Stats.TotalRows != 2 || report.Stats.TotalColumns != 2 {
		t.Errorf("Stats = %+v", report.Stats)
	}
	if report.Stats.NullValues != 0 || report.Stats.EmptyValues != 0 {
		t.Errorf("problem cells = %d null / %d empty, want 0/0",
			report.Stats.NullValues, report.Stats.EmptyValues)
	}
}

func TestValidate_RaggedRows(t *testing.T) {
	rows := []Row{
		{"a": "1", "b": "2"},
		{"a": "3"},
		{"a": "4", "b": "5", "c": "6"},
	}

	report := Validate(rows)
	if !report.IsValid {
		t.Fatal("ragged rows must stay valid")
	}
	if len(report.Warnings) != 2 {
		t.Fatalf("Warnings = %v, want 2 ragged-row warnings", report.Warnings)
	}
	if report.Warnings[0] != "row 2 has 1 columns, expected 2" {
		t.Errorf("Warnings[0] = %q", report.Warnings[0])
	}
	if report.Warnings[1] != "row 3 has 3 columns, expected 2" {
		t.Errorf("Warnings[1] = %q", report.Warnings[1])
	}
}

func TestValidate_NullAndEmptyRates(t *testing.T) {
	// 5 rows x 2 columns = 10 cells. Two nulls and two blanks put both
	// rates at 20%, past the 10% warning threshold.
	rows := []Row{
		{"a": nil, "b": "x"},
		{"a": nil, "b": "x"},
		{"a": " ", "b": "x"},
		{"a": "", "b": "x"},
		{"a": "ok", "b": "x"},
	}

	report := Validate(rows)
	if !report.IsValid {
		t.Fatal("IsValid = false")
	}
	if report.Stats.NullValues != 2 {
		t.Errorf("NullValues = %d, want 2", report.Stats.NullValues)
	}
	if report.Stats.EmptyValues != 2 {
		t.Errorf("EmptyValues = %d, want 2", report.Stats.EmptyValues)
	}

	var sawNull, sawEmpty bool
	for _, w := range report.Warnings {
		if strings.HasPrefix(w, "high null rate") {
			sawNull = true
		}
		if strings.HasPrefix(w, "high empty rate") {
			sawEmpty = true
		}
	}
	if !sawNull || !sawEmpty {
		t.Errorf("Warnings = %v, want high null and high empty rate warnings", report.Warnings)
	}
}

func TestValidate_RatesAtThresholdDoNotWarn(t *testing.T) {
	// Exactly 10% nulls: 1 null cell out of 10. The threshold is strict.
	rows := []Row{
		{"a": nil, "b": "x"},
		{"a": "1", "b": "x"},
		{"a": "2", "b": "x"},
		{"a": "3", "b": "x"},
		{"a": "4", "b": "x"},
	}

	report := Validate(rows)
	for _, w := range report.Warnings {
		if strings.HasPrefix(w, "high null rate") {
			t.Errorf("unexpected warning at exactly 10%%: %q", w)
		}
	}
}
