package agent

import (
	"strings"
	"testing"
	"time"
)

func TestSystemPrompt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got := systemPrompt(now, []string{"get_current_datetime", "get_google_ads_overall"})

	if !strings.Contains(got, "2025-06-01T12:00:00Z") {
		t.Error("prompt missing the current time")
	}
	if !strings.Contains(got, "get_current_datetime, get_google_ads_overall") {
		t.Error("prompt missing the tool list")
	}
	if !strings.Contains(got, "growth analyst") {
		t.Error("prompt missing the role framing")
	}
}
