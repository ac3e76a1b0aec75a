package backend

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// TrafficSummary holds the shared Google Analytics metrics. Field names
// follow the service's camelCase wire format.
type TrafficSummary struct {
	Sessions               int     `json:"sessions"`
	ScreenPageViews        int     `json:"screenPageViews"`
	BounceRate             float64 `json:"bounceRate"`
	AverageSessionDuration float64 `json:"averageSessionDuration"`
	ActiveUsers            int     `json:"activeUsers"`
}

// DailyTraffic is one per-day analytics row.
type DailyTraffic struct {
	TrafficSummary
	Date string `json:"date"`
}

// CountryTraffic is one per-country analytics row.
type CountryTraffic struct {
	TrafficSummary
	Country string `json:"country"`
}

// PageTraffic is one per-page analytics row.
type PageTraffic struct {
	TrafficSummary
	Page  string `json:"page"`
	Title string `json:"title"`
}

var trafficFields = []string{"sessions", "screenPageViews", "bounceRate", "averageSessionDuration", "activeUsers"}

// AnalyticsClient talks to the Google Analytics data service.
type AnalyticsClient struct {
	client
}

// NewAnalyticsClient creates a client scoped to one request's bearer token.
func NewAnalyticsClient(baseURL, token string) *AnalyticsClient {
	return &AnalyticsClient{client: newClient(baseURL, token, "analytics")}
}

// FetchOverall returns aggregate traffic for the date range. organicOnly
// selects the organic-traffic endpoint variant.
func (c *AnalyticsClient) FetchOverall(ctx context.Context, startDate, endDate string, organicOnly bool) (*TrafficSummary, error) {
	endpoint := "/google/analytics/overall"
	if organicOnly {
		endpoint = "/google/analytics/overall-organic-traffic"
	}
	data, err := c.getData(ctx, endpoint, dateRangeParams(startDate, endDate))
	if err != nil {
		return nil, err
	}
	var out TrafficSummary
	if err := parseObject(data, trafficFields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchDaily returns the day-by-day traffic breakdown for the date range.
func (c *AnalyticsClient) FetchDaily(ctx context.Context, startDate, endDate string, organicOnly bool) ([]DailyTraffic, error) {
	endpoint := "/google/analytics/daily"
	if organicOnly {
		endpoint = "/google/analytics/daily-organic-traffic"
	}
	data, err := c.getData(ctx, endpoint, dateRangeParams(startDate, endDate))
	if err != nil {
		return nil, err
	}
	return parseList[DailyTraffic](data, append(trafficFields, "date"))
}

// FetchCountries returns countries ranked by traffic. search is an optional
// case-insensitive substring filter applied by the service.
func (c *AnalyticsClient) FetchCountries(ctx context.Context, startDate, endDate string, limit int, search string) ([]CountryTraffic, error) {
	params := dateRangeParams(startDate, endDate)
	params.Set("limit", strconv.Itoa(limit))
	if search != "" {
		params.Set("search", search)
	}
	data, err := c.getData(ctx, "/google/analytics/countries", params)
	if err != nil {
		return nil, err
	}
	return parseList[CountryTraffic](data, append(trafficFields, "country"))
}

// FetchCountryDetail returns the daily breakdown for one country. The
// service resolves partial names as long as they are unique; the path
// segment is lowercased to match its routing.
func (c *AnalyticsClient) FetchCountryDetail(ctx context.Context, country, startDate, endDate string) ([]DailyTraffic, error) {
	endpoint := "/google/analytics/countries/" + url.PathEscape(strings.ToLower(country))
	data, err := c.getData(ctx, endpoint, dateRangeParams(startDate, endDate))
	if err != nil {
		return nil, err
	}
	return parseList[DailyTraffic](data, append(trafficFields, "date"))
}

// FetchPages returns pages ranked by traffic.
func (c *AnalyticsClient) FetchPages(ctx context.Context, startDate, endDate string, limit int, search string) ([]PageTraffic, error) {
	params := dateRangeParams(startDate, endDate)
	params.Set("limit", strconv.Itoa(limit))
	if search != "" {
		params.Set("search", search)
	}
	data, err := c.getData(ctx, "/google/analytics/pages", params)
	if err != nil {
		return nil, err
	}
	return parseList[PageTraffic](data, append(trafficFields, "page"))
}

// FetchPageDetail returns the daily breakdown for one page path.
func (c *AnalyticsClient) FetchPageDetail(ctx context.Context, pagePath, startDate, endDate string) ([]DailyTraffic, error) {
	endpoint := "/google/analytics/pages/" + url.PathEscape(pagePath)
	data, err := c.getData(ctx, endpoint, dateRangeParams(startDate, endDate))
	if err != nil {
		return nil, err
	}
	return parseList[DailyTraffic](data, append(trafficFields, "date"))
}
