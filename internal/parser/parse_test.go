package parser

import (
	"errors"
	"strings"
	"testing"
)

// sampleFeed is a minimal but realistic Green Button export: one usage
// point, one meter reading, one reading type, one interval block with two
// readings, one contentless entry, and espi-prefixed resource elements.
const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:espi="http://naesb.org/espi">
  <id>urn:uuid:feed-0001</id>
  <title>Green Button Usage Feed</title>
  <updated>2021-01-02T00:00:00Z</updated>
  <entry>
    <id>urn:uuid:up-1</id>
    <title>Front yard meter</title>
    <link rel="self" href="/espi/1_1/resource/UsagePoint/1"/>
    <link rel="related" href="/espi/1_1/resource/UsagePoint/1/MeterReading"/>
    <content>
      <espi:UsagePoint>
        <espi:ServiceCategory>
          <espi:kind>0</espi:kind>
        </espi:ServiceCategory>
      </espi:UsagePoint>
    </content>
  </entry>
  <entry>
    <id>urn:uuid:mr-1</id>
    <link rel="self" href="/espi/1_1/resource/MeterReading/1"/>
    <link rel="related" href="/espi/1_1/resource/MeterReading/1/IntervalBlock"/>
    <link rel="related" href="/espi/1_1/resource/ReadingType/1"/>
    <content>
      <espi:MeterReading/>
    </content>
  </entry>
  <entry>
    <id>urn:uuid:rt-1</id>
    <content>
      <espi:ReadingType>
        <espi:commodity>1</espi:commodity>
        <espi:intervalLength>900</espi:intervalLength>
        <espi:powerOfTenMultiplier>-3</espi:powerOfTenMultiplier>
        <espi:uom>72</espi:uom>
      </espi:ReadingType>
    </content>
  </entry>
  <entry>
    <id>urn:uuid:ib-1</id>
    <content>
      <espi:IntervalBlock>
        <espi:interval>
          <espi:duration>1800</espi:duration>
          <espi:start>1609459200</espi:start>
        </espi:interval>
        <espi:IntervalReading>
          <espi:cost>256347</espi:cost>
          <espi:timePeriod>
            <espi:duration>900</espi:duration>
            <espi:start>1609459200</espi:start>
          </espi:timePeriod>
          <espi:value>1500</espi:value>
        </espi:IntervalReading>
        <espi:IntervalReading>
          <espi:timePeriod>
            <espi:duration>900</espi:duration>
            <espi:start>1609460100</espi:start>
          </espi:timePeriod>
          <espi:value>1750</espi:value>
        </espi:IntervalReading>
      </espi:IntervalBlock>
    </content>
  </entry>
  <entry>
    <id>urn:uuid:skip-1</id>
    <title>entry without content</title>
  </entry>
</feed>`

func TestParse_Collections(t *testing.T) {
	doc, err := Parse(sampleFeed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Feed.ID != "urn:uuid:feed-0001" {
		t.Errorf("Feed.ID = %q, want %q", doc.Feed.ID, "urn:uuid:feed-0001")
	}
	if doc.Feed.Title != "Green Button Usage Feed" {
		t.Errorf("Feed.Title = %q", doc.Feed.Title)
	}
	if doc.Feed.TotalEntries != 5 {
		t.Errorf("Feed.TotalEntries = %d, want 5", doc.Feed.TotalEntries)
	}

	if got := doc.UsagePoints.Len(); got != 1 {
		t.Errorf("UsagePoints.Len() = %d, want 1", got)
	}
	if got := doc.MeterReadings.Len(); got != 1 {
		t.Errorf("MeterReadings.Len() = %d, want 1", got)
	}
	if got := doc.ReadingTypes.Len(); got != 1 {
		t.Errorf("ReadingTypes.Len() = %d, want 1", got)
	}
	if got := doc.IntervalBlocks.Len(); got != 1 {
		t.Errorf("IntervalBlocks.Len() = %d, want 1", got)
	}

	up, ok := doc.UsagePoints.Get("urn:uuid:up-1")
	if !ok {
		t.Fatal("usage point urn:uuid:up-1 not found")
	}
	if up.ServiceCategory == nil || up.ServiceCategory.Code != 0 {
		t.Errorf("ServiceCategory = %+v, want code 0", up.ServiceCategory)
	}
	if up.ServiceCategory.Description != "Electricity" {
		t.Errorf("ServiceCategory.Description = %q, want Electricity", up.ServiceCategory.Description)
	}
	if up.Description != "Front yard meter" {
		t.Errorf("Description = %q, want entry title fallback", up.Description)
	}

	rt, ok := doc.ReadingTypes.Get("urn:uuid:rt-1")
	if !ok {
		t.Fatal("reading type urn:uuid:rt-1 not found")
	}
	if rt.PowerOfTenMultiplier != -3 {
		t.Errorf("PowerOfTenMultiplier = %d, want -3", rt.PowerOfTenMultiplier)
	}
	if rt.IntervalLength == nil || *rt.IntervalLength != 900 {
		t.Errorf("IntervalLength = %v, want 900", rt.IntervalLength)
	}
	if rt.UOM == nil || rt.UOM.Description != "Wh" {
		t.Errorf("UOM = %+v, want Wh", rt.UOM)
	}
	if rt.Commodity == nil || rt.Commodity.Description != "Electricity (secondary metered)" {
		t.Errorf("Commodity = %+v", rt.Commodity)
	}

	ib, ok := doc.IntervalBlocks.Get("urn:uuid:ib-1")
	if !ok {
		t.Fatal("interval block urn:uuid:ib-1 not found")
	}
	if len(ib.Readings) != 2 {
		t.Fatalf("len(Readings) = %d, want 2", len(ib.Readings))
	}
	first := ib.Readings[0]
	if first.Value == nil || *first.Value != 1500 {
		t.Errorf("Readings[0].Value = %v, want 1500", first.Value)
	}
	if first.Cost == nil || *first.Cost != 256347 {
		t.Errorf("Readings[0].Cost = %v, want 256347", first.Cost)
	}
	if first.TimePeriod == nil || first.TimePeriod.Start == nil || *first.TimePeriod.Start != 1609459200 {
		t.Errorf("Readings[0].TimePeriod = %+v", first.TimePeriod)
	}
	if ib.Readings[1].Cost != nil {
		t.Errorf("Readings[1].Cost = %v, want nil", ib.Readings[1].Cost)
	}
}

func TestParse_Relationships(t *testing.T) {
	doc, err := Parse(sampleFeed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	mrs := doc.Rel.UsagePointMeterReadings["urn:uuid:up-1"]
	if len(mrs) != 1 || mrs[0] != "urn:uuid:mr-1" {
		t.Errorf("UsagePointMeterReadings = %v", mrs)
	}

	ibs := doc.Rel.MeterReadingIntervalBlocks["urn:uuid:mr-1"]
	if len(ibs) != 1 || ibs[0] != "urn:uuid:ib-1" {
		t.Errorf("MeterReadingIntervalBlocks = %v", ibs)
	}

	rts := doc.Rel.MeterReadingReadingTypes["urn:uuid:mr-1"]
	if len(rts) != 1 || rts[0] != "urn:uuid:rt-1" {
		t.Errorf("MeterReadingReadingTypes = %v", rts)
	}
}

func TestParse_NoQualifyingLinkMeansAbsentKey(t *testing.T) {
	const feed = `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>up-solo</id>
    <link rel="self" href="/resource/UsagePoint/1"/>
    <content><UsagePoint/></content>
  </entry>
  <entry>
    <id>mr-solo</id>
    <content><MeterReading/></content>
  </entry>
</feed>`

	doc, err := Parse(feed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if _, ok := doc.Rel.UsagePointMeterReadings["up-solo"]; ok {
		t.Error("usage point without related link must have no relationship key")
	}
	if _, ok := doc.Rel.MeterReadingIntervalBlocks["mr-solo"]; ok {
		t.Error("meter reading without related link must have no relationship key")
	}
}

// Presence of one qualifying link associates the source with every target
// of that type, not just the linked one.
func TestParse_PresenceAssociatesAllTargets(t *testing.T) {
	const feed = `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>up-1</id>
    <link rel="related" href="/resource/UsagePoint/1/MeterReading"/>
    <content><UsagePoint/></content>
  </entry>
  <entry><id>mr-1</id><content><MeterReading/></content></entry>
  <entry><id>mr-2</id><content><MeterReading/></content></entry>
</feed>`

	doc, err := Parse(feed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	mrs := doc.Rel.UsagePointMeterReadings["up-1"]
	if len(mrs) != 2 || mrs[0] != "mr-1" || mrs[1] != "mr-2" {
		t.Errorf("UsagePointMeterReadings = %v, want [mr-1 mr-2]", mrs)
	}
}

func TestParse_UnprefixedElements(t *testing.T) {
	// Some exporters emit resource elements without a namespace prefix.
	const feed = `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>rt-plain</id>
    <content>
      <ReadingType>
        <commodity>999</commodity>
        <powerOfTenMultiplier>3</powerOfTenMultiplier>
      </ReadingType>
    </content>
  </entry>
</feed>`

	doc, err := Parse(feed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	rt, ok := doc.ReadingTypes.Get("rt-plain")
	if !ok {
		t.Fatal("reading type rt-plain not found")
	}
	if rt.Commodity == nil {
		t.Fatal("Commodity = nil, want code 999")
	}
	if rt.Commodity.Code != 999 {
		t.Errorf("Commodity.Code = %d, want 999", rt.Commodity.Code)
	}
	if rt.Commodity.Description != "Unknown" {
		t.Errorf("Commodity.Description = %q, want Unknown", rt.Commodity.Description)
	}
	if rt.PowerOfTenMultiplier != 3 {
		t.Errorf("PowerOfTenMultiplier = %d, want 3", rt.PowerOfTenMultiplier)
	}
}

func TestParse_MalformedXML(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated", `<feed><entry>`},
		{"mismatched close", `<feed></entryfeed>`},
		{"empty input", ``},
		{"plain text", `this is not xml`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("Parse() expected error")
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			var malformed *MalformedXMLError
			if !errors.As(err, &malformed) {
				t.Errorf("cause type = %T, want *MalformedXMLError", parseErr.Cause)
			}
		})
	}
}

func TestParse_InvalidFeedRoot(t *testing.T) {
	_, err := Parse(`<rss version="2.0"><channel/></rss>`)
	if err == nil {
		t.Fatal("Parse() expected error for non-feed root")
	}
	if !errors.Is(err, ErrInvalidFeed) {
		t.Errorf("error = %v, want ErrInvalidFeed in chain", err)
	}
}

func TestParse_UnparseableFieldDegradesToNil(t *testing.T) {
	const feed = `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>rt-bad</id>
    <content>
      <ReadingType>
        <commodity>not-a-number</commodity>
        <kind>12</kind>
      </ReadingType>
    </content>
  </entry>
</feed>`

	doc, err := Parse(feed)
	if err != nil {
		t.Fatalf("Parse() error = %v, malformed fields must not abort ingestion", err)
	}

	rt, _ := doc.ReadingTypes.Get("rt-bad")
	if rt.Commodity != nil {
		t.Errorf("Commodity = %+v, want nil for unparseable code", rt.Commodity)
	}
	if rt.Kind == nil || *rt.Kind != 12 {
		t.Errorf("Kind = %v, want 12", rt.Kind)
	}
}

func TestParse_FirstMatchWinsClassification(t *testing.T) {
	// An entry carrying both a UsagePoint and a MeterReading is classified
	// as the higher-priority UsagePoint; the rest is ignored.
	const feed = `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>both-1</id>
    <content>
      <UsagePoint/>
      <MeterReading/>
    </content>
  </entry>
</feed>`

	doc, err := Parse(feed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.UsagePoints.Len() != 1 {
		t.Errorf("UsagePoints.Len() = %d, want 1", doc.UsagePoints.Len())
	}
	if doc.MeterReadings.Len() != 0 {
		t.Errorf("MeterReadings.Len() = %d, want 0", doc.MeterReadings.Len())
	}
}

func TestParse_DuplicateEntryIDLastWriteWins(t *testing.T) {
	const feed = `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>rt-dup</id>
    <content><ReadingType><kind>1</kind></ReadingType></content>
  </entry>
  <entry>
    <id>rt-dup</id>
    <content><ReadingType><kind>2</kind></ReadingType></content>
  </entry>
</feed>`

	doc, err := Parse(feed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.ReadingTypes.Len() != 1 {
		t.Fatalf("ReadingTypes.Len() = %d, want 1", doc.ReadingTypes.Len())
	}
	rt, _ := doc.ReadingTypes.Get("rt-dup")
	if rt.Kind == nil || *rt.Kind != 2 {
		t.Errorf("Kind = %v, want 2 (last write wins)", rt.Kind)
	}
}

func TestParse_LocalTimeAndUsageSummary(t *testing.T) {
	const feed = `<feed xmlns="http://www.w3.org/2005/Atom" xmlns:espi="http://naesb.org/espi">
  <entry>
    <id>ltp-1</id>
    <content>
      <espi:LocalTimeParameters>
        <espi:dstEndRule>B40E2000</espi:dstEndRule>
        <espi:dstOffset>3600</espi:dstOffset>
        <espi:dstStartRule>360E2000</espi:dstStartRule>
        <espi:tzOffset>-18000</espi:tzOffset>
      </espi:LocalTimeParameters>
    </content>
  </entry>
  <entry>
    <id>us-1</id>
    <content>
      <espi:UsageSummary>
        <espi:billingPeriod>
          <espi:duration>2592000</espi:duration>
          <espi:start>1606780800</espi:start>
        </espi:billingPeriod>
        <espi:billToDate>242938</espi:billToDate>
        <espi:currency>840</espi:currency>
        <espi:overallConsumptionLastPeriod>
          <espi:powerOfTenMultiplier>0</espi:powerOfTenMultiplier>
          <espi:uom>72</espi:uom>
          <espi:value>482103</espi:value>
        </espi:overallConsumptionLastPeriod>
      </espi:UsageSummary>
    </content>
  </entry>
</feed>`

	doc, err := Parse(feed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	ltp, ok := doc.LocalTimes.Get("ltp-1")
	if !ok {
		t.Fatal("local time parameters ltp-1 not found")
	}
	if ltp.TZOffset == nil || *ltp.TZOffset != -18000 {
		t.Errorf("TZOffset = %v, want -18000", ltp.TZOffset)
	}
	if ltp.DSTEndRule != "B40E2000" {
		t.Errorf("DSTEndRule = %q", ltp.DSTEndRule)
	}

	us, ok := doc.UsageSummaries.Get("us-1")
	if !ok {
		t.Fatal("usage summary us-1 not found")
	}
	if us.BillToDate == nil || *us.BillToDate != 242938 {
		t.Errorf("BillToDate = %v, want 242938", us.BillToDate)
	}
	if us.BillingPeriod == nil || us.BillingPeriod.Start == nil || *us.BillingPeriod.Start != 1606780800 {
		t.Errorf("BillingPeriod = %+v", us.BillingPeriod)
	}
	if us.OverallConsumptionLastPeriod == nil || *us.OverallConsumptionLastPeriod.Value != 482103 {
		t.Errorf("OverallConsumptionLastPeriod = %+v", us.OverallConsumptionLastPeriod)
	}
}

func TestParse_LinkGrouping(t *testing.T) {
	const feed = `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>up-links</id>
    <link rel="self" href="/resource/UsagePoint/1"/>
    <link rel="related" href="/resource/UsagePoint/1/MeterReading"/>
    <link rel="related" href="/resource/UsagePoint/1/UsageSummary"/>
    <content><UsagePoint/></content>
  </entry>
</feed>`

	doc, err := Parse(feed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	up, _ := doc.UsagePoints.Get("up-links")
	if len(up.Links["related"]) != 2 {
		t.Errorf("related links = %v, want 2 entries", up.Links["related"])
	}
	if len(up.Links["self"]) != 1 {
		t.Errorf("self links = %v, want 1 entry", up.Links["self"])
	}
}

func TestParse_ErrorMessagePreservesCause(t *testing.T) {
	_, err := Parse(`<feed><broken`)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "green button parse failed") {
		t.Errorf("error = %q, want wrapped top-level message", err.Error())
	}
}
