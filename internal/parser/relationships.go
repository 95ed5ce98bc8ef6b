package parser

// relationships.go infers the three resource mappings from link presence.
// Green Button feeds express relationships as hrefs pointing at sibling
// collection URLs rather than entry ids, so exact target resolution is not
// possible from the feed alone. The policy here is presence-only matching:
// a qualifying "related" link associates the source with every resource of
// the target type in the feed. This over-associates in feeds with multiple
// independent usage points or meters; it is kept intentionally for
// compatibility with existing exports.

import (
	"strings"

	"github.com/petereliason/green-button-web/internal/espi"
)

const relatedRel = "related"

func buildRelationships(doc *espi.Document) espi.Relationships {
	rel := espi.Relationships{
		UsagePointMeterReadings:    make(map[string][]string),
		MeterReadingIntervalBlocks: make(map[string][]string),
		MeterReadingReadingTypes:   make(map[string][]string),
	}

	for _, up := range doc.UsagePoints.Items() {
		if hasRelatedLink(up.Links, "MeterReading") {
			rel.UsagePointMeterReadings[up.ID] = doc.MeterReadings.IDs()
		}
	}

	for _, mr := range doc.MeterReadings.Items() {
		if hasRelatedLink(mr.Links, "IntervalBlock") {
			rel.MeterReadingIntervalBlocks[mr.ID] = doc.IntervalBlocks.IDs()
		}
		if hasRelatedLink(mr.Links, "ReadingType") {
			rel.MeterReadingReadingTypes[mr.ID] = doc.ReadingTypes.IDs()
		}
	}

	return rel
}

// hasRelatedLink reports whether any "related" href mentions the target
// resource type by name.
func hasRelatedLink(links espi.LinkSet, target string) bool {
	for _, href := range links[relatedRel] {
		if strings.Contains(href, target) {
			return true
		}
	}
	return false
}
