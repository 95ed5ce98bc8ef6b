// Package espi defines the domain model for Green Button (NAESB ESPI)
// energy-usage feeds: the resource types carried by Atom entries, the
// parsed-document container, and the flattened row produced for export.
// This package has no parsing or encoding logic and no I/O dependencies.
package espi

// Interval is a time window expressed in epoch seconds.
// Either field may be absent in the source feed.
type Interval struct {
	Start    *int64
	Duration *int64
}

// CodedValue pairs an integer code from the feed with its human-readable
// label. Codes missing from the static tables keep their numeric value and
// carry the label "Unknown".
type CodedValue struct {
	Code        int64
	Description string
}

// LinkSet groups an entry's link hrefs by their rel attribute.
type LinkSet map[string][]string

// FeedMetadata is the feed-level header information. Immutable once parsed.
type FeedMetadata struct {
	ID           string
	Title        string
	Updated      string // raw timestamp text from the feed, not normalized
	TotalEntries int    // count of entry elements seen, including skipped ones
}

// UsagePoint is a physical point of measurement (a meter or service
// delivery point).
type UsagePoint struct {
	ID              string
	ServiceCategory *CodedValue
	Description     string
	Links           LinkSet
}

// MeterReading is a container resource. It carries no measurement data,
// only relationships to IntervalBlocks and ReadingTypes.
type MeterReading struct {
	ID    string
	Links LinkSet
}

// ReadingType describes how a set of readings should be interpreted.
// All attributes are optional integer codes in the source; absent or
// unparseable values stay nil. PowerOfTenMultiplier defaults to 0.
type ReadingType struct {
	ID                    string
	AccumulationBehaviour *int64
	Commodity             *CodedValue
	Currency              *int64
	DataQualifier         *int64
	FlowDirection         *int64
	IntervalLength        *int64 // seconds
	Kind                  *int64
	Phase                 *int64
	PowerOfTenMultiplier  int64
	TimeAttribute         *int64
	UOM                   *CodedValue
	Links                 LinkSet
}

// IntervalReading is one timestamped measurement within an IntervalBlock.
// Cost is an integer amount in the smallest currency subunit.
type IntervalReading struct {
	Value        *int64
	Cost         *int64
	TimePeriod   *Interval
	QualityFlags string
}

// IntervalBlock holds the raw measurements for a span of time.
type IntervalBlock struct {
	ID       string
	Interval *Interval
	Readings []IntervalReading
	Links    LinkSet
}

// LocalTimeParameters carries timezone and DST metadata. It is parsed into
// its collection but not joined into flattened rows.
type LocalTimeParameters struct {
	ID           string
	DSTEndRule   string
	DSTOffset    *int64
	DSTStartRule string
	TZOffset     *int64
}

// SummaryMeasurement is a scaled measurement inside a UsageSummary.
type SummaryMeasurement struct {
	PowerOfTenMultiplier *int64
	UOM                  *int64
	Value                *int64
}

// UsageSummary carries billing-period aggregates. Parsed but not joined
// into flattened rows.
type UsageSummary struct {
	ID                           string
	BillingPeriod                *Interval
	BillLastPeriod               *int64
	BillToDate                   *int64
	OverallConsumptionLastPeriod *SummaryMeasurement
	Currency                     *int64
}

// Relationships holds the three inferred one-to-many mappings between
// resources. A source id with no qualifying link has no key at all,
// never an empty list.
type Relationships struct {
	UsagePointMeterReadings    map[string][]string
	MeterReadingIntervalBlocks map[string][]string
	MeterReadingReadingTypes   map[string][]string
}

// Document is the normalized in-memory form of one parsed feed: five typed
// collections keyed by entry id, the inferred relationships, and feed-level
// metadata. A Document is built once per parse call and never mutated
// afterwards.
type Document struct {
	Feed FeedMetadata

	UsagePoints    Collection[*UsagePoint]
	MeterReadings  Collection[*MeterReading]
	ReadingTypes   Collection[*ReadingType]
	IntervalBlocks Collection[*IntervalBlock]
	LocalTimes     Collection[*LocalTimeParameters]
	UsageSummaries Collection[*UsageSummary]

	Rel Relationships
}
