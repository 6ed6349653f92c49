package server

import (
	"encoding/json"
	"time"

	"github.com/raysh454/sentaku/internal/backend"
	"github.com/raysh454/sentaku/internal/parser"
	"github.com/raysh454/sentaku/internal/selector"
)

// ValidateRequest is the payload for a validation run. HTML is optional;
// without it only classification happens. Backend optionally overrides the
// server default ("static" or "chromedp").
type ValidateRequest struct {
	Selectors parser.ArticleSelectors `json:"selectors"`
	HTML      string                  `json:"html" example:"<h1 class=\"title\">Hello</h1>"`
	Backend   string                  `json:"backend" example:"static"`
}

// ValidateResponse wraps a completed run with its persisted ID.
type ValidateResponse struct {
	RunID  string          `json:"run_id"`
	Result json.RawMessage `json:"result"`
}

// RunSummary is one row of the run listing, without the full result payload.
type RunSummary struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	AllValid  bool      `json:"all_valid"`
}

// FieldUpdate is one streamed frame on the validation websocket: the
// classified record for a field plus its probe outcome (null when no
// document was provided).
type FieldUpdate struct {
	Field  string               `json:"field"`
	Record *selector.Record     `json:"record"`
	Probe  *backend.ProbeResult `json:"probe,omitempty"`
}

// StreamSummary terminates a websocket validation stream.
type StreamSummary struct {
	Done     bool   `json:"done"`
	AllValid bool   `json:"all_valid"`
	RunID    string `json:"run_id"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"run not found"`
}
