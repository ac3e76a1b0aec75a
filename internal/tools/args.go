package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/user/growthagent/internal/backend"
)

const dateLayout = "2006-01-02"

// dateRangeArgs is the base argument set every data tool takes.
type dateRangeArgs struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// validate checks both dates parse as YYYY-MM-DD and that the range is not
// inverted. Inverted ranges are rejected here rather than forwarded, so the
// model gets an actionable message instead of whatever the backend does.
func (a *dateRangeArgs) validate() error {
	if a.StartDate == "" {
		return fmt.Errorf("start_date is required")
	}
	if a.EndDate == "" {
		return fmt.Errorf("end_date is required")
	}
	start, err := time.Parse(dateLayout, a.StartDate)
	if err != nil {
		return fmt.Errorf("start_date must be YYYY-MM-DD, got %q", a.StartDate)
	}
	end, err := time.Parse(dateLayout, a.EndDate)
	if err != nil {
		return fmt.Errorf("end_date must be YYYY-MM-DD, got %q", a.EndDate)
	}
	if start.After(end) {
		return fmt.Errorf("start_date %s is after end_date %s", a.StartDate, a.EndDate)
	}
	return nil
}

// trafficArgs adds the organic-only switch used by the analytics traffic tools.
type trafficArgs struct {
	dateRangeArgs
	OrganicOnly bool `json:"organic_only"`
}

// dimensionArgs adds ranking controls for the by-dimension tools.
type dimensionArgs struct {
	dateRangeArgs
	Limit  int    `json:"limit"`
	Search string `json:"search"`
}

const defaultLimit = 10

func (a *dimensionArgs) validate() error {
	if err := a.dateRangeArgs.validate(); err != nil {
		return err
	}
	if a.Limit < 0 {
		return fmt.Errorf("limit must be positive, got %d", a.Limit)
	}
	if a.Limit == 0 {
		a.Limit = defaultLimit
	}
	return nil
}

func decodeArgs(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse args: %w", err)
	}
	return nil
}

// asAPIError unwraps a classified data-service failure. Those are absorbed
// into tool-result text; anything else propagates as a plain error.
func asAPIError(err error) (*backend.APIError, bool) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// formatResponse serializes typed records to indented JSON for the model.
// Numeric fields round-trip exactly through encoding/json.
func formatResponse(data any) string {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error formatting response: %v", err)
	}
	return string(out)
}
