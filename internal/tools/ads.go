package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/growthagent/internal/backend"
)

// AdsOverall fetches aggregate Google Ads metrics.
type AdsOverall struct {
	baseURL string
}

func NewAdsOverall(baseURL string) *AdsOverall { return &AdsOverall{baseURL} }

func (t *AdsOverall) Name() string { return "get_google_ads_overall" }
func (t *AdsOverall) Description() string {
	return "Source: Google Ads. High-level totals for a date range (impressions, currency, spend, conversion_rate_percent, ctr_percent, roi_percent)."
}
func (t *AdsOverall) Parameters() json.RawMessage { return dateRangeSchema() }

func (t *AdsOverall) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
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
	data, err := backend.NewAdsClient(t.baseURL, token).FetchOverall(ctx, params.StartDate, params.EndDate)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching Google Ads overall: %s", apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// AdsDaily fetches the daily Google Ads time series.
type AdsDaily struct {
	baseURL string
}

func NewAdsDaily(baseURL string) *AdsDaily { return &AdsDaily{baseURL} }

func (t *AdsDaily) Name() string { return "get_google_ads_daily" }
func (t *AdsDaily) Description() string {
	return "Source: Google Ads. Daily time series for a date range (impressions, currency, spend, conversion_rate_percent, ctr_percent, roi_percent)."
}
func (t *AdsDaily) Parameters() json.RawMessage { return dateRangeSchema() }

func (t *AdsDaily) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
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
	data, err := backend.NewAdsClient(t.baseURL, token).FetchDaily(ctx, params.StartDate, params.EndDate)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching Google Ads daily: %s", apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// AdsCampaigns lists campaigns with their metrics.
type AdsCampaigns struct {
	baseURL string
}

func NewAdsCampaigns(baseURL string) *AdsCampaigns { return &AdsCampaigns{baseURL} }

func (t *AdsCampaigns) Name() string { return "get_google_ads_campaigns" }
func (t *AdsCampaigns) Description() string {
	return "Source: Google Ads. List campaigns (id, name, status) with metrics (impressions, currency, spend, conversion_rate_percent, ctr_percent, roi_percent) for a date range."
}
func (t *AdsCampaigns) Parameters() json.RawMessage { return dateRangeSchema() }

func (t *AdsCampaigns) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
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
	data, err := backend.NewAdsClient(t.baseURL, token).FetchCampaigns(ctx, params.StartDate, params.EndDate)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching Google Ads campaigns: %s", apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}

// AdsCampaignDetail fetches the daily breakdown for one campaign.
type AdsCampaignDetail struct {
	baseURL string
}

func NewAdsCampaignDetail(baseURL string) *AdsCampaignDetail { return &AdsCampaignDetail{baseURL} }

func (t *AdsCampaignDetail) Name() string { return "get_google_ads_daily_for_campaign" }
func (t *AdsCampaignDetail) Description() string {
	return "Source: Google Ads. Daily breakdown for a single campaign over a date range. Requires the exact campaign id."
}
func (t *AdsCampaignDetail) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"campaign_id": {"type": "string", "description": "Exact Google Ads campaign id (path param)."},
			` + startDateSchema + `, ` + endDateSchema + `
		},
		"required": ["campaign_id", "start_date", "end_date"]
	}`)
}

func (t *AdsCampaignDetail) Execute(ctx context.Context, args json.RawMessage, token string) (string, error) {
	var params struct {
		dateRangeArgs
		CampaignID string `json:"campaign_id"`
	}
	if err := decodeArgs(args, &params); err != nil {
		return "", err
	}
	if params.CampaignID == "" {
		return "", fmt.Errorf("campaign_id is required")
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	if token == "" {
		return missingTokenResult, nil
	}
	data, err := backend.NewAdsClient(t.baseURL, token).FetchCampaignDetail(ctx, params.CampaignID, params.StartDate, params.EndDate)
	if apiErr, ok := asAPIError(err); ok {
		return fmt.Sprintf("Error fetching Google Ads for campaign '%s': %s", params.CampaignID, apiErr.Message()), nil
	}
	if err != nil {
		return "", err
	}
	return formatResponse(data), nil
}
