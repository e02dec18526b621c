package findash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultIPOEndpoint is Finnhub's IPO calendar
const DefaultIPOEndpoint = "https://finnhub.io/api/v1/calendar/ipo"

const dateLayout = "2006-01-02"

// IPOStatus is the lifecycle stage of an offering
type IPOStatus string

const (
	IPOPriced    IPOStatus = "priced"
	IPOExpected  IPOStatus = "expected"
	IPOFiled     IPOStatus = "filed"
	IPOWithdrawn IPOStatus = "withdrawn"
	IPOOther     IPOStatus = "other"
)

// ParseIPOStatus classifies a status string, case-insensitively
func ParseIPOStatus(s string) IPOStatus {
	switch st := IPOStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case IPOPriced, IPOExpected, IPOFiled, IPOWithdrawn:
		return st
	}
	return IPOOther
}

// FlexString decodes from either a JSON string or a JSON number.
// Finnhub sends prices as "10.00", "14.00-16.00" or 10.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price is neither string nor number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// IPOEvent is one entry of the IPO calendar
type IPOEvent struct {
	Date             string     `json:"date"`
	Symbol           string     `json:"symbol"`
	Name             string     `json:"name"`
	Exchange         string     `json:"exchange"`
	Price            FlexString `json:"price"`
	NumberOfShares   float64    `json:"numberOfShares"`
	TotalSharesValue float64    `json:"totalSharesValue"`
	Status           string     `json:"status"`
}

// Stage returns the classified status
func (e IPOEvent) Stage() IPOStatus {
	return ParseIPOStatus(e.Status)
}

type ipoCalendarResponse struct {
	IPOCalendar []IPOEvent `json:"ipoCalendar"`
}

// IPOQuery is an inclusive date range, both ends YYYY-MM-DD
type IPOQuery struct {
	From string
	To   string
}

// Validate checks that both dates are present, well formed and ordered
func (q IPOQuery) Validate() error {
	if strings.TrimSpace(q.From) == "" || strings.TrimSpace(q.To) == "" {
		return ErrMissingDates
	}
	from, err := time.Parse(dateLayout, strings.TrimSpace(q.From))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, q.From)
	}
	to, err := time.Parse(dateLayout, strings.TrimSpace(q.To))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, q.To)
	}
	if from.After(to) {
		return ErrDateOrder
	}
	return nil
}

// UpcomingIPOQuery covers the days from now through now+days
func UpcomingIPOQuery(now time.Time, days int) IPOQuery {
	return IPOQuery{
		From: now.Format(dateLayout),
		To:   now.AddDate(0, 0, days).Format(dateLayout),
	}
}

// IPOService queries the IPO calendar
type IPOService struct {
	Client   *Client
	Endpoint string
	Token    string
}

// Fetch returns the calendar entries in the query range. An empty calendar returns ErrNoData.
func (s *IPOService) Fetch(ctx context.Context, query IPOQuery) ([]IPOEvent, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, fmt.Errorf("%w: finnhub token", ErrNotConfigured)
	}

	client := s.Client
	if client == nil {
		client = NewClient()
	}
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultIPOEndpoint
	}

	body, err := client.GetJSON(ctx, endpoint, url.Values{
		"from":  {strings.TrimSpace(query.From)},
		"to":    {strings.TrimSpace(query.To)},
		"token": {s.Token},
	})
	if err != nil {
		return nil, err
	}

	var resp ipoCalendarResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse IPO calendar JSON: %w", err)
	}
	if len(resp.IPOCalendar) == 0 {
		return nil, fmt.Errorf("%w: no IPO data found for the selected date range", ErrNoData)
	}
	return resp.IPOCalendar, nil
}
