package findash

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "aapl", want: "AAPL"},
		{in: "  msft ", want: "MSFT"},
		{in: "brk.b", want: "BRK.B"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "AAPL; DROP", wantErr: true},
		{in: ".X", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeSymbol(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSymbol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func reportServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var symbol string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol = r.URL.Query().Get("symbol")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &symbol
}

func TestReportServiceFetch(t *testing.T) {
	srv, symbol := reportServer(t, http.StatusOK,
		`[{"body": {"name": "Apple Inc.", "data": [
			{"year": 2022, "report": {"ic": [{"concept": "us-gaap_Revenues", "value": 1500}]}},
			{"year": 2021, "report": {"ic": [{"concept": "us-gaap_Revenues", "value": 1000}]}},
			{"year": 2020}
		]}}]`)

	svc := &ReportService{Client: NewClient(WithRateLimit(0)), Endpoint: srv.URL}
	report, err := svc.Fetch(context.Background(), " aapl ")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", *symbol)
	assert.Equal(t, "AAPL", report.Symbol)
	assert.Equal(t, "Apple Inc.", report.Name)
	assert.Equal(t, []int{2021, 2022}, years(report.Periods))
	assert.Equal(t, Diagnostics{EnvelopeDepth: 2, DataFound: true, Entries: 3, Dropped: 1}, report.Diagnostics)
	assert.Equal(t, 2022, report.Latest().Year)

	revenue := report.Summary["revenue"]
	require.NotNil(t, revenue.PercentChange)
	assert.InDelta(t, 50.0, *revenue.PercentChange, 1e-9)
}

func TestReportServiceFetchErrors(t *testing.T) {
	t.Run("invalid symbol never calls upstream", func(t *testing.T) {
		srv, symbol := reportServer(t, http.StatusOK, `{}`)
		svc := &ReportService{Client: NewClient(WithRateLimit(0)), Endpoint: srv.URL}
		_, err := svc.Fetch(context.Background(), "")
		assert.ErrorIs(t, err, ErrInvalidSymbol)
		assert.Empty(t, *symbol)
	})

	t.Run("no periods", func(t *testing.T) {
		srv, _ := reportServer(t, http.StatusOK, `{"data": []}`)
		svc := &ReportService{Client: NewClient(WithRateLimit(0)), Endpoint: srv.URL}
		_, err := svc.Fetch(context.Background(), "AAPL")
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("unrecognized shape", func(t *testing.T) {
		srv, _ := reportServer(t, http.StatusOK, `{"rows": [1, 2]}`)
		svc := &ReportService{Client: NewClient(WithRateLimit(0)), Endpoint: srv.URL}
		_, err := svc.Fetch(context.Background(), "AAPL")
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv, _ := reportServer(t, http.StatusInternalServerError, `oops`)
		svc := &ReportService{Client: NewClient(WithRateLimit(0)), Endpoint: srv.URL}
		_, err := svc.Fetch(context.Background(), "AAPL")
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 500, statusErr.StatusCode)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		srv, _ := reportServer(t, http.StatusOK, `<html>`)
		svc := &ReportService{Client: NewClient(WithRateLimit(0)), Endpoint: srv.URL}
		_, err := svc.Fetch(context.Background(), "AAPL")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoData)
	})

	t.Run("not configured", func(t *testing.T) {
		svc := &ReportService{}
		_, err := svc.Fetch(context.Background(), "AAPL")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestCompanyNameFallback(t *testing.T) {
	assert.Equal(t, "AAPL", companyName(nil, "AAPL"))
	assert.Equal(t, "Apple", companyName(map[string]any{"companyName": " Apple "}, "AAPL"))
	assert.Equal(t, "AAPL", companyName(map[string]any{"name": ""}, "AAPL"))
}
