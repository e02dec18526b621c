package findash

// LineItem is one reported value in a financial statement
type LineItem struct {
	Concept string  `json:"concept"`
	Value   float64 `json:"value"`
}

// PeriodReport holds the three statements of one reporting period
type PeriodReport struct {
	BalanceSheet    []LineItem `json:"bs"`
	IncomeStatement []LineItem `json:"ic"`
	CashFlow        []LineItem `json:"cf"`
}

// Sections returns the statements in lookup order: balance sheet, income statement, cash flow
func (r *PeriodReport) Sections() [][]LineItem {
	if r == nil {
		return nil
	}
	return [][]LineItem{r.BalanceSheet, r.IncomeStatement, r.CashFlow}
}

// ParsePeriodReport reads a report object out of a decoded payload.
// Missing sections, sections that are not arrays, and items without a string
// concept or a numeric value are all treated as absent.
func ParsePeriodReport(v any) *PeriodReport {
	obj, ok := asObject(v)
	if !ok {
		return &PeriodReport{}
	}
	return &PeriodReport{
		BalanceSheet:    parseLineItems(obj["bs"]),
		IncomeStatement: parseLineItems(obj["ic"]),
		CashFlow:        parseLineItems(obj["cf"]),
	}
}

func parseLineItems(v any) []LineItem {
	arr, ok := asSlice(v)
	if !ok {
		return nil
	}
	items := make([]LineItem, 0, len(arr))
	for _, raw := range arr {
		obj, ok := asObject(raw)
		if !ok {
			continue
		}
		concept, ok := obj["concept"].(string)
		if !ok {
			continue
		}
		value, ok := numberValue(obj["value"])
		if !ok {
			continue
		}
		items = append(items, LineItem{Concept: concept, Value: value})
	}
	return items
}

// Resolve finds the value of a metric in one period's report.
//
// Each concept (primary first, then fallbacks in declared order) is searched
// across the sections in order bs, ic, cf; the first hit wins. Returns nil
// when no concept matches anywhere or the report is nil.
func Resolve(report *PeriodReport, def MetricDefinition) *float64 {
	sections := report.Sections()
	for _, concept := range def.Concepts() {
		for _, items := range sections {
			for _, item := range items {
				if item.Concept == concept {
					value := item.Value
					return &value
				}
			}
		}
	}
	return nil
}
