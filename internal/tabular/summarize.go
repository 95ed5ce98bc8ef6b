package tabular

// summarize.go accumulates aggregate statistics over flattened rows in a
// single pass.

import (
	"strconv"
	"time"
)

// DateRange bounds the start timestamps present in the row set.
type DateRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// Summary holds aggregate statistics for a row set.
type Summary struct {
	TotalIntervals   int        `json:"totalIntervals"`
	UsagePoints      int        `json:"usagePoints"`
	MeterReadings    int        `json:"meterReadings"`
	TotalEnergyValue float64    `json:"totalEnergyValue"`
	TotalCost        float64    `json:"totalCost"`
	DateRange        *DateRange `json:"dateRange"`
	Commodities      []string   `json:"commodities"`
}

// Summarize computes totals, distinct counts, and the start-time range in
// one accumulation pass. DateRange is nil when no row carries a start time.
// Energy totals sum the scaled calculated_value; cost totals sum the
// derived major-unit calculated_cost.
func Summarize(rows []Row) Summary {
	s := Summary{Commodities: []string{}}

	usagePoints := make(map[string]bool)
	meterReadings := make(map[string]bool)
	commodities := make(map[string]bool)

	for _, row := range rows {
		s.TotalIntervals++

		if id, ok := row["usage_point_id"].(string); ok && id != "" {
			usagePoints[id] = true
		}
		if id, ok := row["meter_reading_id"].(string); ok && id != "" {
			meterReadings[id] = true
		}
		if c, ok := row["commodity"].(string); ok && c != "" && !commodities[c] {
			commodities[c] = true
			s.Commodities = append(s.Commodities, c)
		}

		if v, ok := row["calculated_value"].(float64); ok {
			s.TotalEnergyValue += v
		}
		if c, ok := row["calculated_cost"].(string); ok && c != "" {
			if amount, err := strconv.ParseFloat(c, 64); err == nil {
				s.TotalCost += amount
			}
		}

		if raw, ok := row["start_time"].(string); ok && raw != "" {
			if t, err := time.Parse("2006-01-02T15:04:05.000Z", raw); err == nil {
				if s.DateRange == nil {
					s.DateRange = &DateRange{Min: t, Max: t}
				} else {
					if t.Before(s.DateRange.Min) {
						s.DateRange.Min = t
					}
					if t.After(s.DateRange.Max) {
						s.DateRange.Max = t
					}
				}
			}
		}
	}

	s.UsagePoints = len(usagePoints)
	s.MeterReadings = len(meterReadings)
	return s
}
