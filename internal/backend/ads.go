package backend

import (
	"context"
	"net/url"
)

// AdsSummary holds the shared Google Ads metrics.
type AdsSummary struct {
	Impressions           int     `json:"impressions"`
	Currency              string  `json:"currency"`
	Spend                 float64 `json:"spend"`
	ConversionRatePercent float64 `json:"conversion_rate_percent"`
	CTRPercent            float64 `json:"ctr_percent"`
	ROIPercent            float64 `json:"roi_percent"`
}

// DailyAds is one per-day ads row.
type DailyAds struct {
	AdsSummary
	Date string `json:"date"`
}

// Campaign is one campaign row with identity and metrics.
type Campaign struct {
	AdsSummary
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

var adsFields = []string{"impressions", "currency", "spend", "conversion_rate_percent", "ctr_percent", "roi_percent"}

// AdsClient talks to the Google Ads data service.
type AdsClient struct {
	client
}

// NewAdsClient creates a client scoped to one request's bearer token.
func NewAdsClient(baseURL, token string) *AdsClient {
	return &AdsClient{client: newClient(baseURL, token, "ads")}
}

// FetchOverall returns aggregate ads metrics for the date range.
func (c *AdsClient) FetchOverall(ctx context.Context, startDate, endDate string) (*AdsSummary, error) {
	data, err := c.getData(ctx, "/google-ads/overall", dateRangeParams(startDate, endDate))
	if err != nil {
		return nil, err
	}
	var out AdsSummary
	if err := parseObject(data, adsFields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchDaily returns the day-by-day ads metrics for the date range.
func (c *AdsClient) FetchDaily(ctx context.Context, startDate, endDate string) ([]DailyAds, error) {
	data, err := c.getData(ctx, "/google-ads/daily", dateRangeParams(startDate, endDate))
	if err != nil {
		return nil, err
	}
	return parseList[DailyAds](data, append(adsFields, "date"))
}

// FetchCampaigns lists campaigns with their metrics for the date range.
func (c *AdsClient) FetchCampaigns(ctx context.Context, startDate, endDate string) ([]Campaign, error) {
	data, err := c.getData(ctx, "/google-ads/campaigns", dateRangeParams(startDate, endDate))
	if err != nil {
		return nil, err
	}
	return parseList[Campaign](data, append(adsFields, "id", "name", "status"))
}

// FetchCampaignDetail returns the daily breakdown for one campaign id.
func (c *AdsClient) FetchCampaignDetail(ctx context.Context, campaignID, startDate, endDate string) ([]DailyAds, error) {
	endpoint := "/google-ads/campaigns/" + url.PathEscape(campaignID)
	data, err := c.getData(ctx, endpoint, dateRangeParams(startDate, endDate))
	if err != nil {
		return nil, err
	}
	return parseList[DailyAds](data, append(adsFields, "date"))
}
