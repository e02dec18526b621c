package findash

import "math"

// SummaryMetric is the latest value of a metric and its change from the prior period
type SummaryMetric struct {
	Key           string   `json:"key"`
	LatestValue   *float64 `json:"latestValue"`
	PercentChange *float64 `json:"percentChange"`
}

// Summarize computes the latest-period summary for every metric in the default catalog
func Summarize(records []CanonicalPeriodRecord) map[string]SummaryMetric {
	return SummarizeWith(DefaultCatalog(), records)
}

// SummarizeWith computes the latest-period summary for every metric in c.
// Records must already be sorted ascending; nil is returned when there are none.
func SummarizeWith(c *Catalog, records []CanonicalPeriodRecord) map[string]SummaryMetric {
	if len(records) == 0 {
		return nil
	}

	latest := records[len(records)-1]
	var previous *CanonicalPeriodRecord
	if len(records) > 1 {
		previous = &records[len(records)-2]
	}

	summary := make(map[string]SummaryMetric, c.Len())
	for _, key := range c.Keys() {
		m := SummaryMetric{
			Key:         key,
			LatestValue: latest.Metric(key),
		}
		if previous != nil {
			m.PercentChange = PercentChange(previous.Metric(key), m.LatestValue)
		}
		summary[key] = m
	}
	return summary
}

// PercentChange returns (latest-previous)/|previous|*100, or nil when either
// value is missing or previous is zero.
func PercentChange(previous, latest *float64) *float64 {
	if previous == nil || latest == nil || *previous == 0 {
		return nil
	}
	change := (*latest - *previous) / math.Abs(*previous) * 100
	return &change
}
