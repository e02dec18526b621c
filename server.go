package findash

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestIDFromContext returns the request ID set by the server middleware
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// apiResponse is the JSON envelope of every API answer
type apiResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// reportResponse carries a freshly fetched report with its initial chart
type reportResponse struct {
	Report *Report             `json:"report"`
	Window Window              `json:"window"`
	Keys   []string            `json:"metrics"`
	Series []ChartSeriesPoint  `json:"series"`
	Cards  map[string]cardView `json:"cards"`
}

type cardView struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change,omitempty"`
}

// Server exposes the dashboard over HTTP
type Server struct {
	dash       *Dashboard
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// NewServer creates a server for dash bound to addr
func NewServer(addr string, dash *Dashboard, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{dash: dash, logger: logger}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * DefaultTimeout))

	r.Get("/", s.handleHome)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/metrics", s.handleMetrics)
		r.Get("/news", s.handleNews)
		r.Get("/reports", s.handleReport)
		r.Get("/reports/chart", s.handleChart)
		r.Get("/ipo", s.handleIPO)
		r.Get("/overview", s.handleOverview)
		r.Get("/views/{view}", s.handleView)
	})
	s.router = r

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", RequestIDFromContext(r.Context()))
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeOK(w http.ResponseWriter, r *http.Request, data any) {
	s.writeJSON(w, http.StatusOK, apiResponse{
		Status:    "ok",
		RequestID: RequestIDFromContext(r.Context()),
		Data:      data,
	})
}

// writeError maps an error onto a status code. ErrNoData is not an error
// for the client: it is answered 200 with status "empty".
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := apiResponse{
		Status:    "error",
		Message:   err.Error(),
		RequestID: RequestIDFromContext(r.Context()),
	}

	var statusErr *StatusError
	code := http.StatusBadGateway
	switch {
	case errors.Is(err, ErrNoData):
		resp.Status = "empty"
		code = http.StatusOK
	case IsValidation(err):
		code = http.StatusBadRequest
	case errors.Is(err, ErrNoReport):
		code = http.StatusNotFound
	case errors.Is(err, ErrNotConfigured):
		code = http.StatusServiceUnavailable
	case errors.As(err, &statusErr):
		code = http.StatusBadGateway
	}
	s.writeJSON(w, code, resp)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := WriteHomePage(w); err != nil {
		s.logger.Error("failed to render home page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeOK(w, r, map[string]string{"status": "ok", "version": VERSION})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeOK(w, r, s.dash.Catalog.Definitions())
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	articles, err := s.dash.FetchNews(r.Context(), NewsQuery{
		Category: q.Get("category"),
		MinID:    q.Get("minId"),
	}, RequestIDFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, articles)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	window, err := ParseWindow(q.Get("window"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	keys := selectedMetrics(r)
	if keys == nil {
		keys = s.dash.DefaultMetrics
	}
	if err := s.dash.Catalog.ValidateKeys(keys); err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.dash.FetchReport(r.Context(), q.Get("symbol"), RequestIDFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, r, reportResponse{
		Report: report,
		Window: window,
		Keys:   keys,
		Series: BuildSeries(report.Periods, window, keys, s.dash.now()),
		Cards:  s.cards(report),
	})
}

func (s *Server) cards(report *Report) map[string]cardView {
	cards := make(map[string]cardView, len(report.Summary))
	for key, m := range report.Summary {
		def, ok := s.dash.Catalog.Lookup(key)
		if !ok {
			continue
		}
		cards[key] = cardView{
			Label:  def.Label,
			Value:  FormatMetric(m.LatestValue, def.Unit),
			Change: FormatChange(m.PercentChange),
		}
	}
	return cards
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	window, err := ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	series, err := s.dash.Chart(window, selectedMetrics(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, series)
}

func (s *Server) handleIPO(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := s.dash.FetchIPOs(r.Context(), IPOQuery{
		From: q.Get("from"),
		To:   q.Get("to"),
	}, RequestIDFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, events)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.dash.Overview(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, overview)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "view") {
	case "news":
		s.writeOK(w, r, s.dash.NewsView.Snapshot())
	case "reports":
		s.writeOK(w, r, s.dash.ReportView.Snapshot())
	case "ipo":
		s.writeOK(w, r, s.dash.IPOView.Snapshot())
	default:
		s.writeJSON(w, http.StatusNotFound, apiResponse{
			Status:    "error",
			Message:   "unknown view",
			RequestID: RequestIDFromContext(r.Context()),
		})
	}
}

// selectedMetrics returns nil when the metrics parameter is absent and an
// empty, non-nil slice when it is present but blank.
func selectedMetrics(r *http.Request) []string {
	q := r.URL.Query()
	if _, ok := q["metrics"]; !ok {
		return nil
	}
	return uniqueKeys(splitList(q["metrics"]))
}
