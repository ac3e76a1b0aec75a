package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/growthagent/internal/backend"
)

// SearchConsoleOverall fetches aggregate Search Console metrics.
type SearchConsoleOverall struct {
	baseURL string
}

func NewSearchConsoleOverall(baseURL string) *SearchConsoleOverall {
	return &SearchConsoleOverall{baseURL}
}

func (t *SearchConsoleOverall) Name() string { return "get_search_console_overall" }
func (t *SearchConsoleOverall) Description() string {
	return "Source: Google Search Console. High-level totals (clicks, impressions, ctr_percent, average_position) for a date range."
}
func (t *SearchConsoleOverall) Parameters() json.RawMessage { return dateRangeSchema() }

func (t *SearchConsoleOverall) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
	var params dateRangeArgs
	if err := decodeArgs(args, &params); err != nil {
		return "", err
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	if token == "" {
		return missingTokenResult, nil
	}
	data, err := backend.NewSearchConsoleClient(t.baseURL, token).FetchOverall(ctx, params.StartDate, params.EndDate)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching Search Console overall: %s", apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// SearchConsoleDaily fetches the daily Search Console time series.
type SearchConsoleDaily struct {
	baseURL string
}

func NewSearchConsoleDaily(baseURL string) *SearchConsoleDaily { return &SearchConsoleDaily{baseURL} }

func (t *SearchConsoleDaily) Name() string { return "get_search_console_daily" }
func (t *SearchConsoleDaily) Description() string {
	return "Source: Google Search Console. Daily time series of clicks/impressions/ctr_percent/average_position for a date range."
}
func (t *SearchConsoleDaily) Parameters() json.RawMessage { return dateRangeSchema() }

func (t *SearchConsoleDaily) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
	var params dateRangeArgs
	if err := decodeArgs(args, &params); err != nil {
		return "", err
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	if token == "" {
		return missingTokenResult, nil
	}
	data, err := backend.NewSearchConsoleClient(t.baseURL, token).FetchDaily(ctx, params.StartDate, params.EndDate)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching Search Console daily: %s", apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// SearchConsoleKeywords ranks search queries by clicks/impressions.
type SearchConsoleKeywords struct {
	baseURL string
}

func NewSearchConsoleKeywords(baseURL string) *SearchConsoleKeywords {
	return &SearchConsoleKeywords{baseURL}
}

func (t *SearchConsoleKeywords) Name() string { return "get_search_console_keywords" }
func (t *SearchConsoleKeywords) Description() string {
	return "Source: Google Search Console. Rank search queries (keywords) by clicks/impressions for a date range. Mapping: 'top N' -> limit=N; 'filter by <term>' -> search='<term>' (case-insensitive contains)."
}
func (t *SearchConsoleKeywords) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {` + startDateSchema + `, ` + endDateSchema + `, ` + limitSchema + `,
			"search": {"type": "string", "description": "Case-insensitive contains filter on the query term substring."}
		},
		"required": ["start_date", "end_date"]
	}`)
}

func (t *SearchConsoleKeywords) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
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
	data, err := backend.NewSearchConsoleClient(t.baseURL, token).FetchKeywords(ctx, params.StartDate, params.EndDate, params.Limit, params.Search)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching Search Console keywords: %s", apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// SearchConsoleKeywordDetail fetches the daily breakdown for one keyword.
type SearchConsoleKeywordDetail struct {
	baseURL string
}

func NewSearchConsoleKeywordDetail(baseURL string) *SearchConsoleKeywordDetail {
	return &SearchConsoleKeywordDetail{baseURL}
}

func (t *SearchConsoleKeywordDetail) Name() string { return "get_search_console_daily_for_keyword" }
func (t *SearchConsoleKeywordDetail) Description() string {
	return "Source: Google Search Console. Daily breakdown for a single exact keyword over a date range."
}
func (t *SearchConsoleKeywordDetail) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"keyword": {"type": "string", "description": "Exact keyword (query) for the path param. Must match the service's keyword exactly."},
			` + startDateSchema + `, ` + endDateSchema + `
		},
		"required": ["keyword", "start_date", "end_date"]
	}`)
}

func (t *SearchConsoleKeywordDetail) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
	var params struct {
		dateRangeArgs
		Keyword string `json:"keyword"`
	}
	if err := decodeArgs(args, &params); err != nil {
		return "", err
	}
	if params.Keyword == "" {
		return "", fmt.Errorf("keyword is required")
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	if token == "" {
		return missingTokenResult, nil
	}
	data, err := backend.NewSearchConsoleClient(t.baseURL, token).FetchKeywordDetail(ctx, params.Keyword, params.StartDate, params.EndDate)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching Search Console for keyword '%s': %s", params.Keyword, apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// SearchConsoleCountries ranks countries by search metrics.
type SearchConsoleCountries struct {
	baseURL string
}

func NewSearchConsoleCountries(baseURL string) *SearchConsoleCountries {
	return &SearchConsoleCountries{baseURL}
}

func (t *SearchConsoleCountries) Name() string { return "get_search_console_countries" }
func (t *SearchConsoleCountries) Description() string {
	return "Source: Google Search Console. Rank countries by clicks/impressions/ctr_percent/average_position. Mapping: 'top N' -> limit=N; filter by substring -> search (case-insensitive contains on the country name)."
}
func (t *SearchConsoleCountries) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {` + startDateSchema + `, ` + endDateSchema + `, ` + limitSchema + `,
			"search": {"type": "string", "description": "Case-insensitive contains filter on the country name (e.g., 'es' matches 'Spain', 'United States')."}
		},
		"required": ["start_date", "end_date"]
	}`)
}

func (t *SearchConsoleCountries) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
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
	data, err := backend.NewSearchConsoleClient(t.baseURL, token).FetchCountries(ctx, params.StartDate, params.EndDate, params.Limit, params.Search)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching Search Console countries: %s", apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// SearchConsoleCountryDetail fetches the daily breakdown for one country.
type SearchConsoleCountryDetail struct {
	baseURL string
}

func NewSearchConsoleCountryDetail(baseURL string) *SearchConsoleCountryDetail {
	return &SearchConsoleCountryDetail{baseURL}
}

func (t *SearchConsoleCountryDetail) Name() string { return "get_search_console_daily_for_country" }
func (t *SearchConsoleCountryDetail) Description() string {
	return "Source: Google Search Console. Daily breakdown for a single country over a date range. The path can be a unique partial per service rules (e.g., 'spain')."
}
func (t *SearchConsoleCountryDetail) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"country": {"type": "string", "description": "Country path param. Service allows partial but it must uniquely identify a country (e.g., 'spain' or a unique substring per service rules)."},
			` + startDateSchema + `, ` + endDateSchema + `
		},
		"required": ["country", "start_date", "end_date"]
	}`)
}

func (t *SearchConsoleCountryDetail) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
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
	data, err := backend.NewSearchConsoleClient(t.baseURL, token).FetchCountryDetail(ctx, params.Country, params.StartDate, params.EndDate)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching Search Console for country '%s': %s", params.Country, apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}
