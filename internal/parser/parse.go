// Package parser turns raw Green Button Atom+XML text into the normalized
// espi.Document and flattens documents into export rows. Parsing is a
// single synchronous pass with no shared state: each call builds its own
// document, so concurrent calls on independent inputs need no coordination.
package parser

import (
	"strconv"
	"strings"

	"github.com/petereliason/green-button-web/internal/espi"
)

// resourceKind tags the one resource type an entry was classified as.
type resourceKind int

const (
	kindNone resourceKind = iota
	kindUsagePoint
	kindMeterReading
	kindIntervalBlock
	kindReadingType
	kindLocalTimeParameters
	kindUsageSummary
)

// classificationOrder is the fixed priority in which resource elements are
// probed inside an entry's content. The first hit wins; any further
// resource-shaped content in the same entry is ignored. This encodes the
// ESPI convention that one entry carries one resource.
var classificationOrder = []struct {
	element string
	kind    resourceKind
}{
	{"UsagePoint", kindUsagePoint},
	{"MeterReading", kindMeterReading},
	{"IntervalBlock", kindIntervalBlock},
	{"ReadingType", kindReadingType},
	{"LocalTimeParameters", kindLocalTimeParameters},
	{"UsageSummary", kindUsageSummary},
}

// parsedEntity is the tagged union produced by classifying one entry.
type parsedEntity struct {
	kind resourceKind
	node *xmlNode
}

// Parse consumes raw XML text and produces a normalized document. Any
// failure is returned as a single *ParseError wrapping the cause
// (*MalformedXMLError for non-well-formed input, ErrInvalidFeed for a
// missing feed root); no partial document is ever returned.
func Parse(xmlText string) (*espi.Document, error) {
	doc, err := parseFeed(xmlText)
	if err != nil {
		return nil, &ParseError{Cause: err}
	}
	return doc, nil
}

func parseFeed(xmlText string) (*espi.Document, error) {
	root, err := decodeTree(xmlText)
	if err != nil {
		return nil, &MalformedXMLError{Cause: err}
	}
	if root.local() != "feed" {
		return nil, ErrInvalidFeed
	}

	doc := &espi.Document{
		Feed: espi.FeedMetadata{
			ID:      root.childText("id"),
			Title:   root.childText("title"),
			Updated: root.childText("updated"),
		},
	}

	for _, entry := range root.findAll("entry") {
		doc.Feed.TotalEntries++
		parseEntry(doc, entry)
	}

	doc.Rel = buildRelationships(doc)
	return doc, nil
}

// parseEntry classifies one entry and adds the resource to its collection.
// Entries without a content payload are silently skipped.
func parseEntry(doc *espi.Document, entry *xmlNode) {
	content := entry.child("content")
	if content == nil {
		return
	}

	entity := classify(content)
	if entity.kind == kindNone {
		return
	}

	id := entry.childText("id")
	title := entry.childText("title")
	links := extractLinks(entry)

	switch entity.kind {
	case kindUsagePoint:
		doc.UsagePoints.Put(id, parseUsagePoint(id, title, entity.node, links))
	case kindMeterReading:
		doc.MeterReadings.Put(id, &espi.MeterReading{ID: id, Links: links})
	case kindIntervalBlock:
		doc.IntervalBlocks.Put(id, parseIntervalBlock(id, entity.node, links))
	case kindReadingType:
		doc.ReadingTypes.Put(id, parseReadingType(id, entity.node, links))
	case kindLocalTimeParameters:
		doc.LocalTimes.Put(id, parseLocalTimeParameters(id, entity.node))
	case kindUsageSummary:
		doc.UsageSummaries.Put(id, parseUsageSummary(id, entity.node))
	}
}

// classify probes the content element for known resource types in fixed
// priority order and returns the first match.
func classify(content *xmlNode) parsedEntity {
	for _, probe := range classificationOrder {
		if n := content.find(probe.element); n != nil {
			return parsedEntity{kind: probe.kind, node: n}
		}
	}
	return parsedEntity{kind: kindNone}
}

// extractLinks groups every link element's href by its rel attribute.
func extractLinks(entry *xmlNode) espi.LinkSet {
	links := make(espi.LinkSet)
	for _, l := range entry.findAll("link") {
		rel := l.attr("rel")
		href := l.attr("href")
		if rel == "" || href == "" {
			continue
		}
		links[rel] = append(links[rel], href)
	}
	return links
}

func parseUsagePoint(id, title string, n *xmlNode, links espi.LinkSet) *espi.UsagePoint {
	up := &espi.UsagePoint{ID: id, Links: links}

	if sc := n.find("ServiceCategory"); sc != nil {
		if kind := parseInt(sc.findText("kind")); kind != nil {
			up.ServiceCategory = &espi.CodedValue{
				Code:        *kind,
				Description: espi.ServiceCategoryName(*kind),
			}
		}
	}

	up.Description = n.findText("description")
	if up.Description == "" {
		up.Description = title
	}
	return up
}

func parseReadingType(id string, n *xmlNode, links espi.LinkSet) *espi.ReadingType {
	rt := &espi.ReadingType{ID: id, Links: links}

	rt.AccumulationBehaviour = parseInt(n.findText("accumulationBehaviour"))
	if code := parseInt(n.findText("commodity")); code != nil {
		rt.Commodity = &espi.CodedValue{Code: *code, Description: espi.CommodityName(*code)}
	}
	rt.Currency = parseInt(n.findText("currency"))
	rt.DataQualifier = parseInt(n.findText("dataQualifier"))
	rt.FlowDirection = parseInt(n.findText("flowDirection"))
	rt.IntervalLength = parseInt(n.findText("intervalLength"))
	rt.Kind = parseInt(n.findText("kind"))
	rt.Phase = parseInt(n.findText("phase"))
	if mult := parseInt(n.findText("powerOfTenMultiplier")); mult != nil {
		rt.PowerOfTenMultiplier = *mult
	}
	rt.TimeAttribute = parseInt(n.findText("timeAttribute"))
	if code := parseInt(n.findText("uom")); code != nil {
		rt.UOM = &espi.CodedValue{Code: *code, Description: espi.UOMName(*code)}
	}
	return rt
}

func parseIntervalBlock(id string, n *xmlNode, links espi.LinkSet) *espi.IntervalBlock {
	ib := &espi.IntervalBlock{ID: id, Links: links}

	if iv := n.child("interval"); iv != nil {
		ib.Interval = parseInterval(iv)
	}

	for _, rn := range n.findAll("IntervalReading") {
		reading := espi.IntervalReading{
			Value: parseInt(rn.findText("value")),
			Cost:  parseInt(rn.findText("cost")),
		}
		if tp := rn.find("timePeriod"); tp != nil {
			reading.TimePeriod = parseInterval(tp)
		}
		reading.QualityFlags = readingQuality(rn)
		ib.Readings = append(ib.Readings, reading)
	}
	return ib
}

// readingQuality joins every quality code on the reading with ";".
func readingQuality(rn *xmlNode) string {
	var flags []string
	for _, q := range rn.findAll("ReadingQuality") {
		if v := q.findText("quality"); v != "" {
			flags = append(flags, v)
		}
	}
	return strings.Join(flags, ";")
}

func parseLocalTimeParameters(id string, n *xmlNode) *espi.LocalTimeParameters {
	return &espi.LocalTimeParameters{
		ID:           id,
		DSTEndRule:   n.findText("dstEndRule"),
		DSTOffset:    parseInt(n.findText("dstOffset")),
		DSTStartRule: n.findText("dstStartRule"),
		TZOffset:     parseInt(n.findText("tzOffset")),
	}
}

func parseUsageSummary(id string, n *xmlNode) *espi.UsageSummary {
	us := &espi.UsageSummary{ID: id}

	if bp := n.find("billingPeriod"); bp != nil {
		us.BillingPeriod = parseInterval(bp)
	}
	us.BillLastPeriod = parseInt(n.findText("billLastPeriod"))
	us.BillToDate = parseInt(n.findText("billToDate"))
	us.Currency = parseInt(n.findText("currency"))

	if oc := n.find("overallConsumptionLastPeriod"); oc != nil {
		us.OverallConsumptionLastPeriod = &espi.SummaryMeasurement{
			PowerOfTenMultiplier: parseInt(oc.findText("powerOfTenMultiplier")),
			UOM:                  parseInt(oc.findText("uom")),
			Value:                parseInt(oc.findText("value")),
		}
	}
	return us
}

func parseInterval(n *xmlNode) *espi.Interval {
	return &espi.Interval{
		Start:    parseInt(n.findText("start")),
		Duration: parseInt(n.findText("duration")),
	}
}

// parseInt decodes an integer-coded field. Absent or unparseable text
// degrades to nil rather than failing the parse.
func parseInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
