// Package parser orchestrates a full validation pass: decode a selector
// payload, classify and normalize every field, and optionally probe each
// selector against an HTML document through a query backend.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/raysh454/sentaku/internal/backend"
	"github.com/raysh454/sentaku/internal/document"
	"github.com/raysh454/sentaku/internal/logging"
	"github.com/raysh454/sentaku/internal/selector"
)

// ArticleSelectors is the canonical selector payload: the four fields an
// extraction prompt asks the model to locate in an article page.
type ArticleSelectors struct {
	TitleSelector   string `json:"title_selector"`
	AuthorSelector  string `json:"author_selector"`
	DateSelector    string `json:"date_selector"`
	ContentSelector string `json:"content_selector"`
}

// Fields returns the selectors in their canonical order.
func (a ArticleSelectors) Fields() []selector.Field {
	return []selector.Field{
		{Name: "title_selector", Selector: a.TitleSelector},
		{Name: "author_selector", Selector: a.AuthorSelector},
		{Name: "date_selector", Selector: a.DateSelector},
		{Name: "content_selector", Selector: a.ContentSelector},
	}
}

// ParseError reports a payload that could not be decoded or a document that
// could not be loaded.
type ParseError struct {
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *ParseError) Unwrap() error { return e.Err }

// Result is the outcome of one validation pass. HTMLValidation is only
// populated when a document was probed; its keys mirror Batch.Order. The
// full probe results are kept for streaming consumers, but the JSON form
// reduces each to its found bit.
type Result struct {
	Batch          *selector.BatchResult
	HTMLValidation map[string]*backend.ProbeResult
}

// MarshalJSON extends the batch JSON with an html_validation object of
// per-field booleans, keyed in field order, when probing happened.
func (r *Result) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(r.Batch)
	if err != nil {
		return nil, err
	}
	if r.HTMLValidation == nil {
		return base, nil
	}

	var buf bytes.Buffer
	// splice before the closing brace of the batch object
	buf.Write(base[:len(base)-1])
	buf.WriteString(`,"html_validation":{`)
	first := true
	for _, name := range r.Batch.Order {
		probe, ok := r.HTMLValidation[name]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("marshaling field name %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		if probe.Found {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// Observer is notified after each field is classified and probed. Used to
// stream per-field progress over a websocket.
type Observer func(field string, rec *selector.Record, probe *backend.ProbeResult)

// Parser validates selector payloads, optionally against a live document.
type Parser struct {
	backend backend.Backend
	logger  logging.Logger
}

// New creates a Parser. The backend may be nil, in which case only
// classification runs and no document is probed.
func New(b backend.Backend, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Parser{backend: b, logger: logger}
}

// ParseJSONString decodes a selector payload from a JSON string.
func (p *Parser) ParseJSONString(data string) (*ArticleSelectors, error) {
	var sels ArticleSelectors
	if err := json.Unmarshal([]byte(data), &sels); err != nil {
		return nil, &ParseError{Detail: "invalid selector JSON", Err: err}
	}
	return &sels, nil
}

// ParseJSONFile decodes a selector payload from a JSON file.
func (p *Parser) ParseJSONFile(path string) (*ArticleSelectors, error) {
	if !document.IsValidFilePath(path) {
		return nil, &ParseError{Detail: fmt.Sprintf("selector file %q does not exist or is not a regular file", path)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Detail: fmt.Sprintf("reading selector file %q", path), Err: err}
	}
	return p.ParseJSONString(string(data))
}

// ProcessSelectors classifies and normalizes a payload without touching any
// document.
func (p *Parser) ProcessSelectors(sels *ArticleSelectors) *Result {
	batch := selector.ProcessAll(sels.Fields())
	p.logger.Debug("processed selector batch",
		logging.Field{Key: "fields", Value: len(batch.Order)},
		logging.Field{Key: "all_valid", Value: batch.AllValid})
	return &Result{Batch: batch}
}

// ParseAndValidate runs the full pass. source is either a path to a selector
// JSON file or an inline JSON string; htmlSource, when non-empty, is either a
// path to an HTML file or inline HTML. Probing requires a backend. observe
// may be nil.
func (p *Parser) ParseAndValidate(ctx context.Context, source, htmlSource string, observe Observer) (*Result, error) {
	var sels *ArticleSelectors
	var err error
	if document.IsValidFilePath(source) {
		sels, err = p.ParseJSONFile(source)
	} else {
		sels, err = p.ParseJSONString(source)
	}
	if err != nil {
		return nil, err
	}

	res := p.ProcessSelectors(sels)

	if htmlSource == "" || p.backend == nil {
		if observe != nil {
			for _, name := range res.Batch.Order {
				observe(name, res.Batch.Records[name], nil)
			}
		}
		return res, nil
	}

	htmlContent := htmlSource
	if document.IsValidFilePath(htmlSource) {
		htmlContent, err = document.ReadFile(htmlSource)
		if err != nil {
			return nil, &ParseError{Detail: fmt.Sprintf("reading HTML file %q", htmlSource), Err: err}
		}
	}
	if !document.IsValidHTML(htmlContent) {
		return nil, &ParseError{Detail: "content does not look like HTML", Err: document.ErrInvalidHTML}
	}

	sess, err := p.backend.Load(ctx, document.WrapPage(htmlContent))
	if err != nil {
		return nil, &ParseError{Detail: "loading document", Err: err}
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			p.logger.Warn("failed to close probe session",
				logging.Field{Key: "error", Value: cerr.Error()})
		}
	}()

	res.HTMLValidation = make(map[string]*backend.ProbeResult, len(res.Batch.Order))
	for _, name := range res.Batch.Order {
		rec := res.Batch.Records[name]
		probe := sess.Probe(ctx, rec)
		res.HTMLValidation[name] = probe
		p.logger.Debug("probed selector",
			logging.Field{Key: "field", Value: name},
			logging.Field{Key: "status", Value: probe.Status})
		if observe != nil {
			observe(name, rec, probe)
		}
	}

	return res, nil
}

// MergeResults unions two results without mutating either. Field order is
// a's order followed by b's unseen fields; on a name collision b wins.
// AllValid is the AND of both.
func MergeResults(a, b *Result) *Result {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	merged := &Result{
		Batch: &selector.BatchResult{
			Records:  make(map[string]*selector.Record, len(a.Batch.Records)+len(b.Batch.Records)),
			AllValid: a.Batch.AllValid && b.Batch.AllValid,
		},
	}
	for _, name := range a.Batch.Order {
		merged.Batch.Order = append(merged.Batch.Order, name)
		merged.Batch.Records[name] = a.Batch.Records[name]
	}
	for _, name := range b.Batch.Order {
		if _, seen := merged.Batch.Records[name]; !seen {
			merged.Batch.Order = append(merged.Batch.Order, name)
		}
		merged.Batch.Records[name] = b.Batch.Records[name]
	}

	if a.HTMLValidation != nil || b.HTMLValidation != nil {
		merged.HTMLValidation = make(map[string]*backend.ProbeResult)
		for name, probe := range a.HTMLValidation {
			merged.HTMLValidation[name] = probe
		}
		for name, probe := range b.HTMLValidation {
			merged.HTMLValidation[name] = probe
		}
	}
	return merged
}

// IsParseError reports whether err is a payload/document level failure as
// opposed to an internal one.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
