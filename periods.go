package findash

import (
	"sort"
)

// CanonicalPeriodRecord is one reporting period with every cataloged metric resolved
type CanonicalPeriodRecord struct {
	Year    int                 `json:"year"`
	Quarter *int                `json:"quarter"`
	Metrics map[string]*float64 `json:"metrics"`
}

// Metric returns the value for key, or nil if it was not reported
func (r CanonicalPeriodRecord) Metric(key string) *float64 {
	return r.Metrics[key]
}

// Diagnostics describes how a payload was interpreted by the normalizer
type Diagnostics struct {
	EnvelopeDepth int  `json:"envelopeDepth"`
	DataFound     bool `json:"dataFound"`
	Entries       int  `json:"entries"`
	Dropped       int  `json:"dropped"`

	// UnmappedConcepts lists reported concepts no cataloged metric reads, first seen first
	UnmappedConcepts []string `json:"unmappedConcepts,omitempty"`
}

// Recognized reports whether the payload had the expected data sequence
func (d Diagnostics) Recognized() bool {
	return d.DataFound
}

// Normalizer turns raw report payloads into canonical period records
type Normalizer struct {
	catalog *Catalog
}

// NewNormalizer returns a normalizer resolving the metrics of c.
// A nil catalog means the default catalog.
func NewNormalizer(c *Catalog) *Normalizer {
	if c == nil {
		c = DefaultCatalog()
	}
	return &Normalizer{catalog: c}
}

// Normalize is Normalizer.Normalize with the default catalog
func Normalize(payload any) []CanonicalPeriodRecord {
	return NewNormalizer(nil).Normalize(payload)
}

// NormalizeJSON decodes a response body and normalizes it
func NormalizeJSON(data []byte) ([]CanonicalPeriodRecord, error) {
	payload, err := DecodePayload(data)
	if err != nil {
		return nil, err
	}
	return Normalize(payload), nil
}

// Normalize returns one record per period that carried a report, sorted by year.
// It never fails: payloads of an unexpected shape produce an empty result.
func (n *Normalizer) Normalize(payload any) []CanonicalPeriodRecord {
	records, _ := n.NormalizeWithDiagnostics(payload)
	return records
}

// NormalizeWithDiagnostics is Normalize plus a description of the payload shape
func (n *Normalizer) NormalizeWithDiagnostics(payload any) ([]CanonicalPeriodRecord, Diagnostics) {
	var diag Diagnostics

	body, depth := UnwrapEnvelope(payload)
	diag.EnvelopeDepth = depth

	obj, ok := asObject(body)
	if !ok {
		return []CanonicalPeriodRecord{}, diag
	}
	entries, ok := asSlice(obj["data"])
	if !ok {
		return []CanonicalPeriodRecord{}, diag
	}
	diag.DataFound = true
	diag.Entries = len(entries)

	defs := n.catalog.definitions
	seen := make(map[string]bool)
	records := make([]CanonicalPeriodRecord, 0, len(entries))
	for _, raw := range entries {
		entry, ok := asObject(raw)
		if !ok || !truthy(entry["report"]) {
			diag.Dropped++
			continue
		}

		report := ParsePeriodReport(entry["report"])
		for _, items := range report.Sections() {
			for _, item := range items {
				if seen[item.Concept] {
					continue
				}
				seen[item.Concept] = true
				if n.catalog.MetricForConcept(item.Concept) == "" {
					diag.UnmappedConcepts = append(diag.UnmappedConcepts, item.Concept)
				}
			}
		}
		record := CanonicalPeriodRecord{
			Metrics: make(map[string]*float64, len(defs)),
		}
		record.Year, _ = intValue(entry["year"])
		if q, ok := intValue(entry["quarter"]); ok {
			record.Quarter = &q
		}
		for _, def := range defs {
			record.Metrics[def.Key] = Resolve(report, def)
		}
		records = append(records, record)
	}

	// Year only; periods within the same year keep payload order.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Year < records[j].Year
	})

	return records, diag
}
