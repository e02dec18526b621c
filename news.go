package findash

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// NewsCategories lists the categories the news webhook understands
var NewsCategories = []string{"general", "forex", "crypto", "merger"}

// Article is one news item
type Article struct {
	ID       string `json:"id,omitempty"`
	Category string `json:"category,omitempty"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	Datetime int64  `json:"datetime,omitempty"`
	URL      string `json:"url,omitempty"`
	Image    string `json:"image,omitempty"`
	Related  string `json:"related,omitempty"`
}

// Published returns the publication time, or the zero time when unknown
func (a Article) Published() time.Time {
	if a.Datetime <= 0 {
		return time.Time{}
	}
	return time.Unix(a.Datetime, 0).UTC()
}

// NewsQuery selects a page of news
type NewsQuery struct {
	Category string
	MinID    string
}

// Normalize validates the category (empty means "general") and trims MinID
func (q NewsQuery) Normalize() (NewsQuery, error) {
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	q.MinID = strings.TrimSpace(q.MinID)
	if q.Category == "" {
		q.Category = "general"
	}
	for _, c := range NewsCategories {
		if c == q.Category {
			return q, nil
		}
	}
	return q, fmt.Errorf("%w: %q", ErrInvalidCategory, q.Category)
}

// NewsService fetches articles from the news webhook
type NewsService struct {
	Client   *Client
	Endpoint string
	Logger   *slog.Logger
}

// Fetch returns the articles for query. No articles returns ErrNoData.
func (s *NewsService) Fetch(ctx context.Context, query NewsQuery) ([]Article, error) {
	q, err := query.Normalize()
	if err != nil {
		return nil, err
	}

	client := s.Client
	if client == nil {
		client = NewClient()
	}

	params := url.Values{"category": {q.Category}}
	if q.MinID != "" {
		params.Set("minId", q.MinID)
	}

	body, err := client.GetJSON(ctx, s.Endpoint, params)
	if err != nil {
		return nil, err
	}
	payload, err := DecodePayload(body)
	if err != nil {
		return nil, err
	}

	raw, shape := extractArticles(payload)
	if s.Logger != nil {
		s.Logger.Debug("news payload", "shape", shape, "articles", len(raw))
	}

	articles := make([]Article, 0, len(raw))
	for _, item := range raw {
		obj, ok := asObject(item)
		if !ok {
			continue
		}
		articles = append(articles, parseArticle(obj))
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w for category %s", ErrNoData, q.Category)
	}
	return articles, nil
}

// extractArticles locates the article array. Checked in order:
// [{body: [...]}], {body: [...]}, a bare array of articles,
// {news: [...]}, {data: [...]}.
func extractArticles(payload any) ([]any, string) {
	if arr, ok := asSlice(payload); ok && len(arr) > 0 {
		if first, ok := asObject(arr[0]); ok {
			if body, ok := asSlice(first["body"]); ok {
				return body, "enveloped-array"
			}
		}
	}
	if obj, ok := asObject(payload); ok {
		if body, ok := asSlice(obj["body"]); ok {
			return body, "enveloped"
		}
	}
	if arr, ok := asSlice(payload); ok && len(arr) > 0 {
		if first, ok := asObject(arr[0]); ok && truthy(first["headline"]) {
			return arr, "array"
		}
	}
	if obj, ok := asObject(payload); ok {
		if news, ok := asSlice(obj["news"]); ok {
			return news, "news"
		}
		if data, ok := asSlice(obj["data"]); ok {
			return data, "data"
		}
	}
	return nil, "unrecognized"
}

func parseArticle(obj map[string]any) Article {
	a := Article{
		ID:       stringField(obj, "id"),
		Category: stringField(obj, "category"),
		Headline: CleanText(stringField(obj, "headline")),
		Summary:  CleanText(stringField(obj, "summary")),
		Source:   strings.TrimSpace(stringField(obj, "source")),
		URL:      strings.TrimSpace(stringField(obj, "url")),
		Image:    strings.TrimSpace(stringField(obj, "image")),
		Related:  stringField(obj, "related"),
	}
	if ts, ok := numberValue(obj["datetime"]); ok {
		a.Datetime = int64(ts)
	}
	return a
}
