package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchCampaigns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/google-ads/campaigns" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"data": [
			{"id": "123", "name": "Summer Sale", "status": "ENABLED",
			 "impressions": 1000, "currency": "EUR", "spend": 250.5,
			 "conversion_rate_percent": 2.1, "ctr_percent": 3.4, "roi_percent": 180.0}
		]}`))
	}))
	defer server.Close()

	c := NewAdsClient(server.URL, "tok")
	rows, err := c.FetchCampaigns(context.Background(), "2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 campaign, got %d", len(rows))
	}
	got := rows[0]
	if got.ID != "123" || got.Name != "Summer Sale" || got.Status != "ENABLED" {
		t.Errorf("unexpected identity fields %+v", got)
	}
	if got.Spend != 250.5 || got.Currency != "EUR" {
		t.Errorf("unexpected metrics %+v", got)
	}
}

func TestFetchCampaignDetailPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data": [
			{"date": "2025-01-01", "impressions": 10, "currency": "EUR", "spend": 1.5,
			 "conversion_rate_percent": 0.5, "ctr_percent": 1.0, "roi_percent": 20.0}
		]}`))
	}))
	defer server.Close()

	c := NewAdsClient(server.URL, "tok")
	rows, err := c.FetchCampaignDetail(context.Background(), "987654", "2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/google-ads/campaigns/987654" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if len(rows) != 1 || rows[0].Date != "2025-01-01" {
		t.Errorf("unexpected rows %+v", rows)
	}
}
