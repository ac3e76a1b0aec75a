package tools

import (
	"context"
	"encoding/json"
	"time"
)

// CurrentDatetime reports the current instant so the model can ground
// relative phrases ("yesterday", "last week") into absolute dates before
// calling any data tool. The date arithmetic is the model's job.
type CurrentDatetime struct {
	now func() time.Time
}

// NewCurrentDatetime creates the time utility tool.
func NewCurrentDatetime() *CurrentDatetime {
	return &CurrentDatetime{now: time.Now}
}

func (t *CurrentDatetime) Name() string { return "get_current_datetime" }
func (t *CurrentDatetime) Description() string {
	return "Returns the current date and time in ISO 8601 format. Use this to know the current time or today's date."
}
func (t *CurrentDatetime) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *CurrentDatetime) Execute(_ context.Context, _ json.RawMessage, _ string) (string, error) {
	return t.now().Format(time.RFC3339), nil
}
