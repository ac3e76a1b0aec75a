package tools

// NewCatalog builds the full fixed tool registry against one data-service
// base URL: the time utility plus the analytics, search-console, and ads
// families. Name uniqueness is checked here, at startup.
func NewCatalog(dataServiceBaseURL string) (*Registry, error) {
	r := NewRegistry()
	catalog := []Tool{
		NewCurrentDatetime(),

		NewAnalyticsOverall(dataServiceBaseURL),
		NewAnalyticsDaily(dataServiceBaseURL),
		NewAnalyticsByCountries(dataServiceBaseURL),
		NewAnalyticsCountryDetail(dataServiceBaseURL),
		NewAnalyticsByPages(dataServiceBaseURL),
		NewAnalyticsPageDetail(dataServiceBaseURL),

		NewSearchConsoleOverall(dataServiceBaseURL),
		NewSearchConsoleDaily(dataServiceBaseURL),
		NewSearchConsoleKeywords(dataServiceBaseURL),
		NewSearchConsoleKeywordDetail(dataServiceBaseURL),
		NewSearchConsoleCountries(dataServiceBaseURL),
		NewSearchConsoleCountryDetail(dataServiceBaseURL),

		NewAdsOverall(dataServiceBaseURL),
		NewAdsDaily(dataServiceBaseURL),
		NewAdsCampaigns(dataServiceBaseURL),
		NewAdsCampaignDetail(dataServiceBaseURL),
	}
	for _, t := range catalog {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}
