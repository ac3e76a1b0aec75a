package backend

import (
	"context"
	"net/url"
	"strconv"
)

// SearchSummary holds the shared Search Console metrics.
type SearchSummary struct {
	Clicks          int     `json:"clicks"`
	Impressions     int     `json:"impressions"`
	CTRPercent      float64 `json:"ctr_percent"`
	AveragePosition float64 `json:"average_position"`
}

// DailySearch is one per-day Search Console row.
type DailySearch struct {
	SearchSummary
	Date string `json:"date"`
}

// KeywordSearch is one per-keyword Search Console row.
type KeywordSearch struct {
	SearchSummary
	Keyword string `json:"keyword"`
}

// CountrySearch is one per-country Search Console row.
type CountrySearch struct {
	SearchSummary
	Country string `json:"country"`
}

var searchFields = []string{"clicks", "impressions", "ctr_percent", "average_position"}

// SearchConsoleClient talks to the Google Search Console data service.
type SearchConsoleClient struct {
	client
}

// NewSearchConsoleClient creates a client scoped to one request's bearer token.
func NewSearchConsoleClient(baseURL, token string) *SearchConsoleClient {
	return &SearchConsoleClient{client: newClient(baseURL, token, "search-console")}
}

// FetchOverall returns aggregate search metrics for the date range.
func (c *SearchConsoleClient) FetchOverall(ctx context.Context, startDate, endDate string) (*SearchSummary, error) {
	data, err := c.getData(ctx, "/google-search-console/overall", dateRangeParams(startDate, endDate))
	if err != nil {
		return nil, err
	}
	var out SearchSummary
	if err := parseObject(data, searchFields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchDaily returns the day-by-day search metrics for the date range.
func (c *SearchConsoleClient) FetchDaily(ctx context.Context, startDate, endDate string) ([]DailySearch, error) {
	data, err := c.getData(ctx, "/google-search-console/daily", dateRangeParams(startDate, endDate))
	if err != nil {
		return nil, err
	}
	return parseList[DailySearch](data, append(searchFields, "date"))
}

// FetchKeywords returns search queries ranked by clicks/impressions.
func (c *SearchConsoleClient) FetchKeywords(ctx context.Context, startDate, endDate string, limit int, search string) ([]KeywordSearch, error) {
	params := dateRangeParams(startDate, endDate)
	params.Set("limit", strconv.Itoa(limit))
	if search != "" {
		params.Set("search", search)
	}
	data, err := c.getData(ctx, "/google-search-console/keywords", params)
	if err != nil {
		return nil, err
	}
	return parseList[KeywordSearch](data, append(searchFields, "keyword"))
}

// FetchKeywordDetail returns the daily breakdown for one exact keyword.
func (c *SearchConsoleClient) FetchKeywordDetail(ctx context.Context, keyword, startDate, endDate string) ([]DailySearch, error) {
	endpoint := "/google-search-console/keywords/" + url.PathEscape(keyword)
	data, err := c.getData(ctx, endpoint, dateRangeParams(startDate, endDate))
	if err != nil {
		return nil, err
	}
	return parseList[DailySearch](data, append(searchFields, "date"))
}

// FetchCountries returns countries ranked by search metrics.
func (c *SearchConsoleClient) FetchCountries(ctx context.Context, startDate, endDate string, limit int, search string) ([]CountrySearch, error) {
	params := dateRangeParams(startDate, endDate)
	params.Set("limit", strconv.Itoa(limit))
	if search != "" {
		params.Set("search", search)
	}
	data, err := c.getData(ctx, "/google-search-console/countries", params)
	if err != nil {
		return nil, err
	}
	return parseList[CountrySearch](data, append(searchFields, "country"))
}

// FetchCountryDetail returns the daily breakdown for one country. The path
// may be a unique partial match; disambiguation is the service's call.
func (c *SearchConsoleClient) FetchCountryDetail(ctx context.Context, country, startDate, endDate string) ([]DailySearch, error) {
	endpoint := "/google-search-console/countries/" + url.PathEscape(country)
	data, err := c.getData(ctx, endpoint, dateRangeParams(startDate, endDate))
	if err != nil {
		return nil, err
	}
	return parseList[DailySearch](data, append(searchFields, "date"))
}
