package findash

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,14}$`)

// Report is the normalized financial history of one company
type Report struct {
	Symbol      string                   `json:"symbol"`
	Name        string                   `json:"name"`
	Periods     []CanonicalPeriodRecord  `json:"periods"`
	Summary     map[string]SummaryMetric `json:"summary"`
	Diagnostics Diagnostics              `json:"diagnostics"`
}

// Latest returns the most recent period, or nil for an empty report
func (r *Report) Latest() *CanonicalPeriodRecord {
	if r == nil || len(r.Periods) == 0 {
		return nil
	}
	return &r.Periods[len(r.Periods)-1]
}

// NormalizeSymbol trims and uppercases a ticker
func NormalizeSymbol(symbol string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return "", ErrInvalidSymbol
	}
	if !symbolPattern.MatchString(sym) {
		return "", fmt.Errorf("%w: %q is not a ticker", ErrInvalidSymbol, symbol)
	}
	return sym, nil
}

// ReportService fetches report payloads from the report webhook
type ReportService struct {
	Client   *Client
	Endpoint string
	Catalog  *Catalog
	Logger   *slog.Logger
}

// Fetch retrieves and normalizes the report for symbol.
// A payload without any usable period returns ErrNoData.
func (s *ReportService) Fetch(ctx context.Context, symbol string) (*Report, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	client := s.Client
	if client == nil {
		client = NewClient()
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	body, err := client.GetJSON(ctx, s.Endpoint, url.Values{"symbol": {sym}})
	if err != nil {
		return nil, err
	}
	payload, err := DecodePayload(body)
	if err != nil {
		return nil, err
	}

	catalog := s.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	records, diag := NewNormalizer(catalog).NormalizeWithDiagnostics(payload)
	if !diag.Recognized() {
		logger.Warn("unrecognized report payload shape",
			"symbol", sym,
			"envelope_depth", diag.EnvelopeDepth)
	} else if diag.Dropped > 0 {
		logger.Debug("report periods without statements dropped",
			"symbol", sym,
			"dropped", diag.Dropped,
			"entries", diag.Entries)
	}
	if len(diag.UnmappedConcepts) > 0 {
		logger.Debug("report concepts not in catalog",
			"symbol", sym,
			"count", len(diag.UnmappedConcepts),
			"concepts", diag.UnmappedConcepts)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, sym)
	}

	return &Report{
		Symbol:      sym,
		Name:        companyName(payload, sym),
		Periods:     records,
		Summary:     SummarizeWith(catalog, records),
		Diagnostics: diag,
	}, nil
}

func companyName(payload any, fallback string) string {
	body, _ := UnwrapEnvelope(payload)
	obj, ok := asObject(body)
	if !ok {
		return fallback
	}
	for _, key := range []string{"name", "companyName"} {
		if name := strings.TrimSpace(stringField(obj, key)); name != "" {
			return name
		}
	}
	return fallback
}
