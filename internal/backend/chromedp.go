package backend

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/sentaku/internal/logging"
	"github.com/raysh454/sentaku/internal/selector"
)

// ChromedpBackend probes selectors inside a headless Chrome instance. It
// checks real rendering visibility (computed style), which the static
// backend cannot see.
type ChromedpBackend struct {
	cfg    *Config
	logger logging.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewChromedpBackend(cfg *Config, logger logging.Logger) (*ChromedpBackend, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpBackend{
		cfg:         cfg,
		logger:      logger,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// Load writes the document to a temp file and navigates a fresh tab to it.
// Chrome needs a real URL; data: URIs truncate large documents.
func (b *ChromedpBackend) Load(ctx context.Context, htmlContent string) (Session, error) {
	tmp, err := os.CreateTemp("", "sentaku-*.html")
	if err != nil {
		return nil, fmt.Errorf("creating temp page file: %w", err)
	}
	if _, err := tmp.WriteString(htmlContent); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("writing temp page file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("closing temp page file: %w", err)
	}

	tabCtx, tabCancel := chromedp.NewContext(b.allocCtx)

	loadCtx, loadCancel := context.WithTimeout(tabCtx, b.cfg.LoadTimeout)
	defer loadCancel()

	if err := chromedp.Run(loadCtx,
		chromedp.Navigate("file://"+tmp.Name()),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		tabCancel()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("loading document in browser: %w", err)
	}

	if b.logger != nil {
		b.logger.Debug("loaded document in browser tab",
			logging.Field{Key: "page_file", Value: tmp.Name()})
	}

	return &chromedpSession{
		backend:   b,
		tabCtx:    tabCtx,
		tabCancel: tabCancel,
		pageFile:  tmp.Name(),
	}, nil
}

func (b *ChromedpBackend) Close() error {
	if b.allocCancel != nil {
		b.allocCancel()
	}
	return nil
}

type chromedpSession struct {
	backend   *ChromedpBackend
	tabCtx    context.Context
	tabCancel context.CancelFunc
	pageFile  string
}

// probeEval is the shape returned by the in-page probe script.
type probeEval struct {
	Found   bool   `json:"found"`
	Visible bool   `json:"visible"`
	Text    string `json:"text"`
}

func (s *chromedpSession) Probe(ctx context.Context, rec *selector.Record) *ProbeResult {
	if rec == nil || rec.Kind == selector.KindEmpty || rec.Processed == "" {
		return &ProbeResult{Found: true, Status: statusEmpty}
	}
	if !rec.Valid {
		return &ProbeResult{Found: false, Status: statusInvalid}
	}

	probeCtx, cancel := context.WithTimeout(s.tabCtx, s.backend.cfg.ProbeTimeout)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var tighter context.CancelFunc
		probeCtx, tighter = context.WithDeadline(probeCtx, deadline)
		defer tighter()
	}

	queryOpt := chromedp.ByQueryAll
	if rec.Kind == selector.KindXPath {
		queryOpt = chromedp.BySearch
	}

	var nodes []*cdp.Node
	if err := chromedp.Run(probeCtx,
		chromedp.Nodes(rec.Processed, &nodes, chromedp.AtLeast(0), queryOpt),
	); err != nil {
		return &ProbeResult{Found: false, Status: fmt.Sprintf("%s: %v", statusErrorPrefix, err)}
	}
	if len(nodes) == 0 {
		return &ProbeResult{Found: false, Status: statusNotFound}
	}

	var eval probeEval
	if err := chromedp.Run(probeCtx,
		chromedp.Evaluate(buildProbeScript(rec), &eval),
	); err != nil {
		return &ProbeResult{Found: false, Status: fmt.Sprintf("%s: %v", statusErrorPrefix, err)}
	}
	if !eval.Found {
		return &ProbeResult{Found: false, Status: statusNotFound}
	}
	if !eval.Visible {
		return &ProbeResult{Found: false, Status: statusFoundHidden, Content: strings.TrimSpace(eval.Text)}
	}
	return &ProbeResult{Found: true, Status: statusFoundVisible, Content: strings.TrimSpace(eval.Text)}
}

func (s *chromedpSession) Close() error {
	s.tabCancel()
	if err := os.Remove(s.pageFile); err != nil && !os.IsNotExist(err) {
		if s.backend.logger != nil {
			s.backend.logger.Warn("failed to remove temp page file",
				logging.Field{Key: "page_file", Value: s.pageFile},
				logging.Field{Key: "error", Value: err.Error()})
		}
	}
	return nil
}

// buildProbeScript returns a script that locates the record's element and
// reports presence, computed-style visibility and trimmed text content.
func buildProbeScript(rec *selector.Record) string {
	var locate string
	if rec.Kind == selector.KindXPath {
		locate = fmt.Sprintf(
			`document.evaluate(%q, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`,
			rec.Processed)
	} else {
		locate = fmt.Sprintf(`document.querySelector(%q)`, rec.Processed)
	}
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) {
		return { found: false, visible: false, text: "" };
	}
	const style = window.getComputedStyle(el);
	const visible = style.display !== "none" && style.visibility !== "hidden" &&
		el.getClientRects().length > 0;
	return { found: true, visible: visible, text: (el.textContent || "").trim() };
})()`, locate)
}
