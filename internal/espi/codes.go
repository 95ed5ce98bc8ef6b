package espi

// codes.go holds the static lookup tables translating ESPI integer codes to
// human-readable labels. The maps are built once at process start and never
// written afterwards; parsers only read them. Codes absent from a table
// resolve to "Unknown" while the numeric code is preserved by the caller.

// UnknownLabel is returned for any code missing from a lookup table.
const UnknownLabel = "Unknown"

// serviceCategoryNames maps ServiceCategory kind codes (NAESB ServiceKind).
var serviceCategoryNames = map[int64]string{
	0: "Electricity",
	1: "Gas",
	2: "Water",
	3: "Time",
	4: "Heat",
	5: "Refuse",
}

// commodityNames maps ReadingType commodity codes (NAESB CommodityKind).
var commodityNames = map[int64]string{
	0:  "None",
	1:  "Electricity (secondary metered)",
	2:  "Electricity (primary metered)",
	3:  "Communication",
	4:  "Air",
	5:  "Insulative Gas",
	6:  "Insulative Oil",
	7:  "Natural Gas",
	8:  "Propane",
	9:  "Potable Water",
	10: "Steam",
	11: "Waste Water",
	12: "Heating Fluid",
	13: "Cooling Fluid",
}

// uomNames maps ReadingType uom codes (NAESB UnitSymbolKind). Only the
// units that appear in Green Button exports are listed.
var uomNames = map[int64]string{
	0:   "None",
	5:   "A",
	29:  "V",
	31:  "J",
	33:  "Hz",
	38:  "W",
	42:  "m³",
	61:  "VA",
	63:  "VAr",
	71:  "VAh",
	72:  "Wh",
	73:  "VArh",
	106: "Ah",
	119: "ft³",
	122: "ft³/h",
	125: "m³/h",
	128: "US gal",
	132: "BTU",
	134: "L",
	169: "therm",
}

// ServiceCategoryName returns the label for a ServiceCategory kind code.
func ServiceCategoryName(code int64) string {
	return lookupLabel(serviceCategoryNames, code)
}

// CommodityName returns the label for a commodity code.
func CommodityName(code int64) string {
	return lookupLabel(commodityNames, code)
}

// UOMName returns the label for a unit-of-measure code.
func UOMName(code int64) string {
	return lookupLabel(uomNames, code)
}

func lookupLabel(table map[int64]string, code int64) string {
	if name, ok := table[code]; ok {
		return name
	}
	return UnknownLabel
}
