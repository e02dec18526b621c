package findash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefinition() MetricDefinition {
	return MetricDefinition{
		Key:              "revenue",
		Label:            "Revenue",
		Unit:             UnitUSD,
		PrimaryConcept:   "primary",
		FallbackConcepts: []string{"fallback1", "fallback2"},
	}
}

func TestResolve(t *testing.T) {
	def := testDefinition()

	tests := []struct {
		name   string
		report *PeriodReport
		want   *float64
	}{
		{
			name:   "nil report",
			report: nil,
			want:   nil,
		},
		{
			name:   "empty report",
			report: &PeriodReport{},
			want:   nil,
		},
		{
			name: "primary in income statement",
			report: &PeriodReport{
				IncomeStatement: []LineItem{{Concept: "primary", Value: 10}},
			},
			want: ptr(10),
		},
		{
			name: "balance sheet checked before income statement",
			report: &PeriodReport{
				BalanceSheet:    []LineItem{{Concept: "primary", Value: 1}},
				IncomeStatement: []LineItem{{Concept: "primary", Value: 2}},
				CashFlow:        []LineItem{{Concept: "primary", Value: 3}},
			},
			want: ptr(1),
		},
		{
			name: "income statement checked before cash flow",
			report: &PeriodReport{
				IncomeStatement: []LineItem{{Concept: "primary", Value: 2}},
				CashFlow:        []LineItem{{Concept: "primary", Value: 3}},
			},
			want: ptr(2),
		},
		{
			name: "primary anywhere beats fallback earlier",
			report: &PeriodReport{
				BalanceSheet: []LineItem{{Concept: "fallback1", Value: 5}},
				CashFlow:     []LineItem{{Concept: "primary", Value: 7}},
			},
			want: ptr(7),
		},
		{
			name: "fallbacks in declared order",
			report: &PeriodReport{
				BalanceSheet: []LineItem{{Concept: "fallback2", Value: 22}},
				CashFlow:     []LineItem{{Concept: "fallback1", Value: 11}},
			},
			want: ptr(11),
		},
		{
			name: "first matching item within a section",
			report: &PeriodReport{
				IncomeStatement: []LineItem{
					{Concept: "other", Value: 99},
					{Concept: "primary", Value: 4},
					{Concept: "primary", Value: 8},
				},
			},
			want: ptr(4),
		},
		{
			name: "zero is a value",
			report: &PeriodReport{
				CashFlow: []LineItem{{Concept: "fallback2", Value: 0}},
			},
			want: ptr(0),
		},
		{
			name: "no match",
			report: &PeriodReport{
				IncomeStatement: []LineItem{{Concept: "unrelated", Value: 1}},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.report, def)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParsePeriodReportTolerance(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"nil", nil},
		{"string", "not a report"},
		{"number", 42.0},
		{"sections of wrong type", map[string]any{"bs": "x", "ic": 3.0, "cf": map[string]any{}}},
		{"items of wrong type", map[string]any{"ic": []any{"x", 1.0, nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ParsePeriodReport(tt.raw)
			require.NotNil(t, report)
			assert.Nil(t, Resolve(report, testDefinition()))
		})
	}
}

func TestParsePeriodReportSkipsBadItems(t *testing.T) {
	payload, err := DecodePayload([]byte(`{
		"bs": [{"concept": "primary", "value": "12"}, {"value": 3}],
		"ic": [{"concept": "primary", "value": 1500, "unit": "usd", "label": "Revenue"}]
	}`))
	require.NoError(t, err)

	report := ParsePeriodReport(payload)
	assert.Empty(t, report.BalanceSheet)
	require.Len(t, report.IncomeStatement, 1)

	got := Resolve(report, testDefinition())
	require.NotNil(t, got)
	assert.Equal(t, 1500.0, *got)
}

func ptr(v float64) *float64 {
	return &v
}
