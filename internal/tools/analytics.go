package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/growthagent/internal/backend"
)

// Schema fragments shared by the data tools. Descriptions are the model's
// only guidance for mapping user phrasing onto parameters, so they spell out
// the relative-date and "top N" conventions.
const (
	startDateSchema = `"start_date": {"type": "string", "description": "Start date in YYYY-MM-DD. Must be <= end_date. If the user used a relative date, resolve to an absolute date via get_current_datetime first."}`
	endDateSchema   = `"end_date": {"type": "string", "description": "End date in YYYY-MM-DD. Must be >= start_date. Resolve relative dates via get_current_datetime first."}`
	limitSchema     = `"limit": {"type": "integer", "description": "Max rows to return (maps from 'top N' or 'list N'). Sane range: 1-50; defaults to 10 if unspecified."}`
)

func dateRangeSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {` + startDateSchema + `, ` + endDateSchema + `},
		"required": ["start_date", "end_date"]
	}`)
}

// AnalyticsOverall fetches aggregate Google Analytics traffic.
type AnalyticsOverall struct {
	baseURL string
}

func NewAnalyticsOverall(baseURL string) *AnalyticsOverall { return &AnalyticsOverall{baseURL} }

func (t *AnalyticsOverall) Name() string { return "get_google_analytics_overall_traffic" }
func (t *AnalyticsOverall) Description() string {
	return "Source: Google Analytics. Fetches the total, aggregated traffic data (sessions, page views, users, bounce rate) for a date range. Use for high-level summaries."
}
func (t *AnalyticsOverall) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {` + startDateSchema + `, ` + endDateSchema + `,
			"organic_only": {"type": "boolean", "description": "Set true to restrict to organic traffic only (maps from phrases like 'organic only')."}
		},
		"required": ["start_date", "end_date"]
	}`)
}

func (t *AnalyticsOverall) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
	var params trafficArgs
	if err := decodeArgs(args, &params); err != nil {
		return "", err
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	if token == "" {
		return missingTokenResult, nil
	}
	data, err := backend.NewAnalyticsClient(t.baseURL, token).FetchOverall(ctx, params.StartDate, params.EndDate, params.OrganicOnly)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching overall traffic: %s", apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// AnalyticsDaily fetches the day-by-day Google Analytics breakdown.
type AnalyticsDaily struct {
	baseURL string
}

func NewAnalyticsDaily(baseURL string) *AnalyticsDaily { return &AnalyticsDaily{baseURL} }

func (t *AnalyticsDaily) Name() string { return "get_google_analytics_daily_traffic" }
func (t *AnalyticsDaily) Description() string {
	return "Source: Google Analytics. Fetches a day-by-day breakdown of traffic data for a date range. Use for trends and daily performance."
}
func (t *AnalyticsDaily) Parameters() json.RawMessage {
	return (&AnalyticsOverall{}).Parameters()
}

func (t *AnalyticsDaily) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
	var params trafficArgs
	if err := decodeArgs(args, &params); err != nil {
		return "", err
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	if token == "" {
		return missingTokenResult, nil
	}
	data, err := backend.NewAnalyticsClient(t.baseURL, token).FetchDaily(ctx, params.StartDate, params.EndDate, params.OrganicOnly)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching daily traffic: %s", apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// AnalyticsByCountries ranks countries by traffic.
type AnalyticsByCountries struct {
	baseURL string
}

func NewAnalyticsByCountries(baseURL string) *AnalyticsByCountries {
	return &AnalyticsByCountries{baseURL}
}

func (t *AnalyticsByCountries) Name() string { return "get_google_analytics_traffic_by_countries" }
func (t *AnalyticsByCountries) Description() string {
	return "Source: Google Analytics. Fetches a list of countries ranked by traffic metrics for a date range. Mapping: 'top N' -> limit=N; 'filter by <term>' -> search='<term>' (case-insensitive contains on the country name)."
}
func (t *AnalyticsByCountries) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {` + startDateSchema + `, ` + endDateSchema + `, ` + limitSchema + `,
			"search": {"type": "string", "description": "Case-insensitive contains filter on the country name (e.g., 'United' matches 'United States')."}
		},
		"required": ["start_date", "end_date"]
	}`)
}

func (t *AnalyticsByCountries) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
	var params dimensionArgs
	if err := decodeArgs(args, &params); err != nil {
		return "", err
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	if token == "" {
		return missingTokenResult, nil
	}
	data, err := backend.NewAnalyticsClient(t.baseURL, token).FetchCountries(ctx, params.StartDate, params.EndDate, params.Limit, params.Search)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching traffic by country: %s", apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// AnalyticsCountryDetail fetches the daily breakdown for one country.
type AnalyticsCountryDetail struct {
	baseURL string
}

func NewAnalyticsCountryDetail(baseURL string) *AnalyticsCountryDetail {
	return &AnalyticsCountryDetail{baseURL}
}

func (t *AnalyticsCountryDetail) Name() string {
	return "get_google_analytics_daily_traffic_for_country"
}
func (t *AnalyticsCountryDetail) Description() string {
	return "Source: Google Analytics. Fetches a day-by-day traffic breakdown for a single, specific country."
}
func (t *AnalyticsCountryDetail) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"country": {"type": "string", "description": "The specific country to get data for (e.g., 'spain')."},
			` + startDateSchema + `, ` + endDateSchema + `
		},
		"required": ["country", "start_date", "end_date"]
	}`)
}

func (t *AnalyticsCountryDetail) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
	var params struct {
		dateRangeArgs
		Country string `json:"country"`
	}
	if err := decodeArgs(args, &params); err != nil {
		return "", err
	}
	if params.Country == "" {
		return "", fmt.Errorf("country is required")
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	if token == "" {
		return missingTokenResult, nil
	}
	data, err := backend.NewAnalyticsClient(t.baseURL, token).FetchCountryDetail(ctx, params.Country, params.StartDate, params.EndDate)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching traffic for %s: %s", params.Country, apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// AnalyticsByPages ranks pages by traffic.
type AnalyticsByPages struct {
	baseURL string
}

func NewAnalyticsByPages(baseURL string) *AnalyticsByPages { return &AnalyticsByPages{baseURL} }

func (t *AnalyticsByPages) Name() string { return "get_google_analytics_traffic_by_pages" }
func (t *AnalyticsByPages) Description() string {
	return "Source: Google Analytics. Fetches a list of website pages ranked by traffic metrics for a date range. Mapping: 'top N' -> limit=N; keyword filter -> search (case-insensitive contains on page path/title)."
}
func (t *AnalyticsByPages) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {` + startDateSchema + `, ` + endDateSchema + `, ` + limitSchema + `,
			"search": {"type": "string", "description": "Case-insensitive contains filter on the page path or title (maps from user keywords like 'BMW')."}
		},
		"required": ["start_date", "end_date"]
	}`)
}

func (t *AnalyticsByPages) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
	var params dimensionArgs
	if err := decodeArgs(args, &params); err != nil {
		return "", err
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	if token == "" {
		return missingTokenResult, nil
	}
	data, err := backend.NewAnalyticsClient(t.baseURL, token).FetchPages(ctx, params.StartDate, params.EndDate, params.Limit, params.Search)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching traffic by page: %s", apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// AnalyticsPageDetail fetches the daily breakdown for one page path.
type AnalyticsPageDetail struct {
	baseURL string
}

func NewAnalyticsPageDetail(baseURL string) *AnalyticsPageDetail {
	return &AnalyticsPageDetail{baseURL}
}

func (t *AnalyticsPageDetail) Name() string { return "get_google_analytics_daily_traffic_for_page" }
func (t *AnalyticsPageDetail) Description() string {
	return "Source: Google Analytics. Fetches a day-by-day traffic breakdown for a single, specific page path."
}
func (t *AnalyticsPageDetail) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"page_path": {"type": "string", "description": "The page path without dns name to get data for (e.g., '/home' or '/renting-bmw-x8/details')."},
			` + startDateSchema + `, ` + endDateSchema + `
		},
		"required": ["page_path", "start_date", "end_date"]
	}`)
}

func (t *AnalyticsPageDetail) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
	var params struct {
		dateRangeArgs
		PagePath string `json:"page_path"`
	}
	if err := decodeArgs(args, &params); err != nil {
		return "", err
	}
	if params.PagePath == "" {
		return "", fmt.Errorf("page_path is required")
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	if token == "" {
		return missingTokenResult, nil
	}
	data, err := backend.NewAnalyticsClient(t.baseURL, token).FetchPageDetail(ctx, params.PagePath, params.StartDate, params.EndDate)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching traffic for page %s: %s", params.PagePath, apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}
