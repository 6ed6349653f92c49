package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/raysh454/sentaku/internal/logging"
	"github.com/raysh454/sentaku/internal/selector"
)

// StaticBackend probes selectors against a parsed document without a
// browser: goquery/cascadia for CSS-shaped kinds, htmlquery for XPath.
type StaticBackend struct {
	logger logging.Logger
}

func NewStaticBackend(logger logging.Logger) *StaticBackend {
	return &StaticBackend{logger: logger}
}

func (b *StaticBackend) Load(_ context.Context, htmlContent string) (Session, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	root, err := htmlquery.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parsing document for xpath: %w", err)
	}
	return &staticSession{doc: doc, root: root}, nil
}

func (b *StaticBackend) Close() error { return nil }

type staticSession struct {
	doc  *goquery.Document
	root *html.Node
}

func (s *staticSession) Probe(_ context.Context, rec *selector.Record) *ProbeResult {
	if rec == nil || rec.Kind == selector.KindEmpty || rec.Processed == "" {
		return &ProbeResult{Found: true, Status: statusEmpty}
	}
	if !rec.Valid {
		return &ProbeResult{Found: false, Status: statusInvalid}
	}

	if rec.Kind == selector.KindXPath {
		nodes, err := htmlquery.QueryAll(s.root, rec.Processed)
		if err != nil {
			return &ProbeResult{Found: false, Status: fmt.Sprintf("%s: %v", statusErrorPrefix, err)}
		}
		if len(nodes) == 0 {
			return &ProbeResult{Found: false, Status: statusNotFound}
		}
		return &ProbeResult{
			Found:   true,
			Status:  statusFound,
			Content: strings.TrimSpace(htmlquery.InnerText(nodes[0])),
		}
	}

	// css selector, tag name, id and class name kinds all probe through the
	// same selector engine; the processed form is already query-ready.
	matcher, err := cascadia.Compile(rec.Processed)
	if err != nil {
		return &ProbeResult{Found: false, Status: fmt.Sprintf("%s: %v", statusErrorPrefix, err)}
	}
	matched := s.doc.FindMatcher(matcher)
	if matched.Length() == 0 {
		return &ProbeResult{Found: false, Status: statusNotFound}
	}
	return &ProbeResult{
		Found:   true,
		Status:  statusFound,
		Content: strings.TrimSpace(matched.First().Text()),
	}
}

func (s *staticSession) Close() error { return nil }
