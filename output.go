package findash

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FormatJSON returns pretty-printed JSON
func FormatJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// SaveJSON writes v as pretty-printed JSON to path, creating parent directories
func SaveJSON(path string, v any) error {
	data, err := FormatJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to save JSON output: %w", err)
	}
	return nil
}

// ReportFilename builds a default output name, e.g. AAPL_report.json
func ReportFilename(symbol, ext string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "report." + ext
	}
	return fmt.Sprintf("%s_report.%s", symbol, ext)
}

// WriteSummaryTable prints the latest-period cards of a report as a text table
func WriteSummaryTable(w io.Writer, c *Catalog, report *Report) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s (%s)\n", report.Name, report.Symbol)
	if latest := report.Latest(); latest != nil {
		if latest.Quarter != nil && *latest.Quarter > 0 {
			fmt.Fprintf(w, "  Latest period: %d Q%d\n", latest.Year, *latest.Quarter)
		} else {
			fmt.Fprintf(w, "  Latest period: FY%d\n", latest.Year)
		}
	}
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "%-26s %18s %14s\n", "Metric", "Value", "Change")
	fmt.Fprintf(w, "%-26s %18s %14s\n", "──────", "─────", "──────")

	for _, def := range c.Definitions() {
		m, ok := report.Summary[def.Key]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%-26s %18s %14s\n",
			def.Label,
			FormatMetric(m.LatestValue, def.Unit),
			FormatChange(m.PercentChange))
	}
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
}
