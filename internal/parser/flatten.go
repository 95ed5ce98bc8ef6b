package parser

// flatten.go denormalizes a parsed document into one row per interval
// reading. Iteration order is stable at every level: usage points in
// document order, then related meter readings, then related interval
// blocks, then readings within a block. Containers that yield no rows
// contribute nothing; rows are never padded for missing parents.

import (
	"math"
	"strconv"
	"time"

	"github.com/petereliason/green-button-web/internal/espi"
)

// isoMillis mirrors the ISO-8601 shape of JavaScript's toISOString, the
// format existing consumers of these exports expect.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Flatten emits one FlatRow per interval reading reachable from a usage
// point. Only the first related ReadingType is joined; any further related
// reading types are ignored.
func Flatten(doc *espi.Document) []espi.FlatRow {
	rows := make([]espi.FlatRow, 0)

	for _, up := range doc.UsagePoints.Items() {
		for _, mrID := range doc.Rel.UsagePointMeterReadings[up.ID] {
			mr, ok := doc.MeterReadings.Get(mrID)
			if !ok {
				continue
			}

			var rt *espi.ReadingType
			if related := doc.Rel.MeterReadingReadingTypes[mr.ID]; len(related) > 0 {
				if found, ok := doc.ReadingTypes.Get(related[0]); ok {
					rt = found
				}
			}

			for _, ibID := range doc.Rel.MeterReadingIntervalBlocks[mr.ID] {
				ib, ok := doc.IntervalBlocks.Get(ibID)
				if !ok {
					continue
				}
				for _, reading := range ib.Readings {
					rows = append(rows, buildRow(up, mr, ib, rt, reading))
				}
			}
		}
	}

	return rows
}

func buildRow(up *espi.UsagePoint, mr *espi.MeterReading, ib *espi.IntervalBlock, rt *espi.ReadingType, reading espi.IntervalReading) espi.FlatRow {
	row := espi.FlatRow{
		UsagePointID:    up.ID,
		MeterReadingID:  mr.ID,
		IntervalBlockID: ib.ID,
		QualityFlags:    reading.QualityFlags,
		Value:           reading.Value,
		Cost:            reading.Cost,
	}

	if up.ServiceCategory != nil {
		row.ServiceCategory = up.ServiceCategory.Description
	}

	var multiplier int64
	if rt != nil {
		row.ReadingTypeID = rt.ID
		multiplier = rt.PowerOfTenMultiplier
		row.IntervalLength = rt.IntervalLength
		if rt.Commodity != nil {
			row.Commodity = rt.Commodity.Description
		}
		if rt.UOM != nil {
			row.UOM = rt.UOM.Description
		}
	}
	row.PowerMultiplier = multiplier

	if tp := reading.TimePeriod; tp != nil {
		row.Duration = tp.Duration
		if tp.Start != nil {
			row.StartTime = formatEpoch(*tp.Start)
			if tp.Duration != nil {
				row.EndTime = formatEpoch(*tp.Start + *tp.Duration)
			}
		}
	}

	scale := math.Pow10(int(multiplier))
	if reading.Value != nil {
		v := float64(*reading.Value) * scale
		row.CalculatedValue = &v
	}
	if reading.Cost != nil {
		// Apply the scale multiplier first, then convert currency subunits
		// to major units. The order matters for correctness.
		withMultiplier := float64(*reading.Cost) * scale
		row.CalculatedCost = formatMoney(withMultiplier / 100)
	}

	return row
}

// formatEpoch renders epoch seconds as an ISO-8601 UTC timestamp.
func formatEpoch(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(isoMillis)
}

// formatMoney rounds to two decimal places and renders a fixed-point
// major-unit amount, e.g. 2563.47.
func formatMoney(amount float64) string {
	return strconv.FormatFloat(math.Round(amount*100)/100, 'f', 2, 64)
}
