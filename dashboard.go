package findash

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// OverviewIPODays is how far ahead the overview looks for offerings
const OverviewIPODays = 14

// Dashboard owns the upstream services and the state of each view.
// Views share nothing; a failure in one never touches another.
type Dashboard struct {
	News    *NewsService
	Reports *ReportService
	IPOs    *IPOService
	Catalog *Catalog

	// DefaultMetrics is the chart selection used when a caller selects none
	DefaultMetrics []string

	NewsView   *View[[]Article]
	ReportView *View[*Report]
	IPOView    *View[[]IPOEvent]

	logger *slog.Logger
	now    func() time.Time
}

// NewDashboard wires services from cfg sharing one rate-limited client
func NewDashboard(cfg Config, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	client := NewClient(
		WithHTTPClient(newHTTPClient(cfg.RequestTimeout)),
		WithUserAgent(cfg.UserAgentString()),
		WithRateLimit(cfg.RateLimit),
		WithLogger(logger),
	)
	catalog := DefaultCatalog()

	return &Dashboard{
		News:           &NewsService{Client: client, Endpoint: cfg.NewsWebhookURL, Logger: logger},
		Reports:        &ReportService{Client: client, Endpoint: cfg.ReportWebhookURL, Catalog: catalog, Logger: logger},
		IPOs:           &IPOService{Client: client, Endpoint: cfg.IPOEndpoint, Token: cfg.FinnhubToken},
		Catalog:        catalog,
		DefaultMetrics: append([]string(nil), cfg.DefaultMetrics...),
		NewsView:       NewView[[]Article](),
		ReportView:     NewView[*Report](),
		IPOView:        NewView[[]IPOEvent](),
		logger:         logger,
		now:            time.Now,
	}
}

// SetClock overrides the wall clock used for trailing windows
func (d *Dashboard) SetClock(now func() time.Time) {
	d.now = now
}

// FetchNews loads news into the news view
func (d *Dashboard) FetchNews(ctx context.Context, q NewsQuery, requestID string) ([]Article, error) {
	t := d.NewsView.Begin(requestID)
	articles, err := d.News.Fetch(ctx, q)
	d.finish("news", t, d.NewsView.Finish(t, articles, err), err)
	return articles, err
}

// FetchReport loads a company report into the report view
func (d *Dashboard) FetchReport(ctx context.Context, symbol, requestID string) (*Report, error) {
	t := d.ReportView.Begin(requestID)
	report, err := d.Reports.Fetch(ctx, symbol)
	d.finish("reports", t, d.ReportView.Finish(t, report, err), err)
	return report, err
}

// FetchIPOs loads the IPO calendar into the IPO view
func (d *Dashboard) FetchIPOs(ctx context.Context, q IPOQuery, requestID string) ([]IPOEvent, error) {
	t := d.IPOView.Begin(requestID)
	events, err := d.IPOs.Fetch(ctx, q)
	d.finish("ipo", t, d.IPOView.Finish(t, events, err), err)
	return events, err
}

func (d *Dashboard) finish(view string, t Ticket, applied bool, err error) {
	if !applied {
		d.logger.Info("stale response discarded",
			"view", view,
			"generation", t.Generation,
			"request_id", t.RequestID)
		return
	}
	if err != nil && !errors.Is(err, ErrNoData) {
		d.logger.Warn("view request failed",
			"view", view,
			"request_id", t.RequestID,
			"error", err)
	}
}

// Chart rebuilds the chart series from the report currently in the report
// view. Nothing is refetched. A nil selection means DefaultMetrics; an
// empty non-nil selection is passed through.
func (d *Dashboard) Chart(window Window, keys []string) ([]ChartSeriesPoint, error) {
	snap := d.ReportView.Snapshot()
	if snap.Data == nil {
		return nil, ErrNoReport
	}
	if keys == nil {
		keys = d.DefaultMetrics
	}
	if err := d.Catalog.ValidateKeys(keys); err != nil {
		return nil, err
	}
	return BuildSeries(snap.Data.Periods, window, keys, d.now()), nil
}

// Overview is the landing data: latest general news and upcoming IPOs
type Overview struct {
	News      []Article  `json:"news"`
	NewsError string     `json:"newsError,omitempty"`
	IPOs      []IPOEvent `json:"ipos"`
	IPOError  string     `json:"ipoError,omitempty"`
}

// Overview fetches news and upcoming IPOs concurrently. Each side fails
// independently; the errors are reported in the result, not returned.
func (d *Dashboard) Overview(ctx context.Context) (*Overview, error) {
	out := &Overview{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		articles, err := d.News.Fetch(gctx, NewsQuery{Category: "general"})
		if err != nil {
			out.NewsError = err.Error()
			return nil
		}
		out.News = articles
		return nil
	})
	g.Go(func() error {
		events, err := d.IPOs.Fetch(gctx, UpcomingIPOQuery(d.now(), OverviewIPODays))
		if err != nil {
			out.IPOError = err.Error()
			return nil
		}
		out.IPOs = events
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
