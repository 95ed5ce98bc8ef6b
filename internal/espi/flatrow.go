package espi

// FlatRow is the denormalized output unit: one row per interval reading,
// carrying its own identifiers, descriptive fields joined from the related
// ReadingType and UsagePoint, raw and derived value/cost fields, and timing
// fields. Rows are immutable once produced.
//
// Optional fields use pointers (numbers) or empty strings (text); Record
// maps both to nil so downstream validation can count true nulls.
type FlatRow struct {
	UsagePointID    string
	MeterReadingID  string
	IntervalBlockID string
	ReadingTypeID   string

	ServiceCategory string
	Commodity       string
	UOM             string
	PowerMultiplier int64

	StartTime string // ISO-8601 UTC with milliseconds, "" when absent
	Duration  *int64 // seconds
	EndTime   string // set only when both start and duration are present

	Value        *int64
	Cost         *int64 // smallest currency subunit
	QualityFlags string

	IntervalLength  *int64
	CalculatedValue *float64 // value × 10^PowerMultiplier
	CalculatedCost  string   // fixed two-decimal major-unit amount, "" when absent
}

// FlatColumns is the canonical CSV column order for flattened rows.
var FlatColumns = []string{
	"usage_point_id",
	"meter_reading_id",
	"interval_block_id",
	"reading_type_id",
	"service_category",
	"commodity",
	"uom",
	"power_multiplier",
	"start_time",
	"duration",
	"end_time",
	"value",
	"cost",
	"quality_flags",
	"interval_length",
	"calculated_value",
	"calculated_cost",
}

// Record returns the row as a column-keyed map. Every canonical column is
// present; absent optional fields map to nil rather than zero values.
func (r FlatRow) Record() map[string]any {
	return map[string]any{
		"usage_point_id":    r.UsagePointID,
		"meter_reading_id":  r.MeterReadingID,
		"interval_block_id": r.IntervalBlockID,
		"reading_type_id":   textOrNil(r.ReadingTypeID),
		"service_category":  textOrNil(r.ServiceCategory),
		"commodity":         textOrNil(r.Commodity),
		"uom":               textOrNil(r.UOM),
		"power_multiplier":  r.PowerMultiplier,
		"start_time":        textOrNil(r.StartTime),
		"duration":          int64OrNil(r.Duration),
		"end_time":          textOrNil(r.EndTime),
		"value":             int64OrNil(r.Value),
		"cost":              int64OrNil(r.Cost),
		"quality_flags":     textOrNil(r.QualityFlags),
		"interval_length":   int64OrNil(r.IntervalLength),
		"calculated_value":  float64OrNil(r.CalculatedValue),
		"calculated_cost":   textOrNil(r.CalculatedCost),
	}
}

func textOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func int64OrNil(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func float64OrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
