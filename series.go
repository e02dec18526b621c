package findash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Window is a trailing time filter applied to chart data
type Window string

const (
	Window1Y  Window = "1y"
	Window3Y  Window = "3y"
	Window5Y  Window = "5y"
	WindowAll Window = "all"
)

// ParseWindow parses a window selector. An empty selector means "all".
func ParseWindow(s string) (Window, error) {
	w := Window(strings.ToLower(strings.TrimSpace(s)))
	if w == "" {
		return WindowAll, nil
	}
	if _, ok := w.Years(); !ok && w != WindowAll {
		return "", fmt.Errorf("%w: %q", ErrUnknownWindow, s)
	}
	return w, nil
}

// Years returns the trailing year count; ok is false for "all" (unbounded)
func (w Window) Years() (years int, ok bool) {
	switch w {
	case Window1Y:
		return 1, true
	case Window3Y:
		return 3, true
	case Window5Y:
		return 5, true
	}
	return 0, false
}

// Contains reports whether a period of the given year falls inside the window
// as seen from currentYear. A record exactly Years() old is outside.
func (w Window) Contains(year, currentYear int) bool {
	years, bounded := w.Years()
	if !bounded {
		return true
	}
	return currentYear-year < years
}

// ChartSeriesPoint is one period projected onto the selected metrics.
// It marshals flat: {"year":2022,"quarter":null,"revenue":1500,...}
type ChartSeriesPoint struct {
	Year    int
	Quarter *int
	Keys    []string
	Values  map[string]*float64
}

// Value returns the value of a selected metric
func (p ChartSeriesPoint) Value(key string) *float64 {
	return p.Values[key]
}

// MarshalJSON writes year, quarter, then one field per selected key in selection order
func (p ChartSeriesPoint) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"year":`)
	fmt.Fprintf(&buf, "%d", p.Year)
	buf.WriteString(`,"quarter":`)
	if p.Quarter == nil {
		buf.WriteString("null")
	} else {
		fmt.Fprintf(&buf, "%d", *p.Quarter)
	}
	for _, key := range p.Keys {
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.Values[key])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// BuildSeries filters records to the trailing window ending in now's year and
// projects each onto selectedKeys. Input order is preserved. An empty
// selection yields points carrying only year and quarter.
func BuildSeries(records []CanonicalPeriodRecord, window Window, selectedKeys []string, now time.Time) []ChartSeriesPoint {
	currentYear := now.Year()
	keys := uniqueKeys(selectedKeys)

	points := make([]ChartSeriesPoint, 0, len(records))
	for _, record := range records {
		if !window.Contains(record.Year, currentYear) {
			continue
		}
		point := ChartSeriesPoint{
			Year:    record.Year,
			Quarter: record.Quarter,
			Keys:    keys,
			Values:  make(map[string]*float64, len(keys)),
		}
		for _, key := range keys {
			point.Values[key] = record.Metric(key)
		}
		points = append(points, point)
	}
	return points
}

// uniqueKeys drops repeated keys, keeping first-seen order
func uniqueKeys(keys []string) []string {
	if keys == nil {
		return nil
	}
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}
