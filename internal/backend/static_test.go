package backend_test

import (
	"context"
	"strings"
	"testing"

	"github.com/raysh454/sentaku/internal/backend"
	"github.com/raysh454/sentaku/internal/document"
	"github.com/raysh454/sentaku/internal/logging"
	"github.com/raysh454/sentaku/internal/selector"
)

const testFragment = `
<article>
	<h1 class="title">Breaking News</h1>
	<div class="author">Jane Doe</div>
	<time class="date" datetime="2024-01-15">January 15, 2024</time>
	<div id="content">
		<p>First paragraph.</p>
		<p>Second paragraph.</p>
	</div>
</article>
`

func loadStaticSession(t *testing.T) backend.Session {
	t.Helper()
	b := backend.NewStaticBackend(logging.NewNopLogger())
	sess, err := b.Load(context.Background(), document.WrapPage(testFragment))
	if err != nil {
		t.Fatalf("loading document: %v", err)
	}
	t.Cleanup(func() {
		sess.Close()
		b.Close()
	})
	return sess
}

func classify(t *testing.T, raw string) *selector.Record {
	t.Helper()
	rec, err := selector.Classify(raw)
	if err != nil {
		t.Fatalf("classifying %q: %v", raw, err)
	}
	return rec
}

func TestStaticProbe_CSSSelector(t *testing.T) {
	t.Parallel()
	sess := loadStaticSession(t)

	res := sess.Probe(context.Background(), classify(t, "h1.title"))
	if !res.Found {
		t.Fatalf("expected h1.title to be found, status=%q", res.Status)
	}
	if res.Status != "Element found" {
		t.Errorf("status = %q, want %q", res.Status, "Element found")
	}
	if res.Content != "Breaking News" {
		t.Errorf("content = %q, want %q", res.Content, "Breaking News")
	}
}

func TestStaticProbe_IDAndClass(t *testing.T) {
	t.Parallel()
	sess := loadStaticSession(t)

	res := sess.Probe(context.Background(), classify(t, "#content"))
	if !res.Found {
		t.Fatalf("expected #content to be found, status=%q", res.Status)
	}
	if !strings.Contains(res.Content, "First paragraph.") {
		t.Errorf("content = %q, expected it to contain the first paragraph", res.Content)
	}

	res = sess.Probe(context.Background(), classify(t, ".author"))
	if !res.Found || res.Content != "Jane Doe" {
		t.Errorf("probe .author = found=%v content=%q, want found with %q",
			res.Found, res.Content, "Jane Doe")
	}
}

func TestStaticProbe_TagName(t *testing.T) {
	t.Parallel()
	sess := loadStaticSession(t)

	res := sess.Probe(context.Background(), classify(t, "time"))
	if !res.Found {
		t.Fatalf("expected time tag to be found, status=%q", res.Status)
	}
	if res.Content != "January 15, 2024" {
		t.Errorf("content = %q, want %q", res.Content, "January 15, 2024")
	}
}

func TestStaticProbe_XPath(t *testing.T) {
	t.Parallel()
	sess := loadStaticSession(t)

	res := sess.Probe(context.Background(), classify(t, `//div[@class="author"]`))
	if !res.Found {
		t.Fatalf("expected xpath to match, status=%q", res.Status)
	}
	if res.Content != "Jane Doe" {
		t.Errorf("content = %q, want %q", res.Content, "Jane Doe")
	}

	res = sess.Probe(context.Background(), classify(t, `//div[@class="missing"]`))
	if res.Found {
		t.Error("expected xpath with no matches to report not found")
	}
	if res.Status != "Element not found" {
		t.Errorf("status = %q, want %q", res.Status, "Element not found")
	}
}

func TestStaticProbe_NotFound(t *testing.T) {
	t.Parallel()
	sess := loadStaticSession(t)

	res := sess.Probe(context.Background(), classify(t, ".no-such-class"))
	if res.Found {
		t.Error("expected missing selector to report not found")
	}
	if res.Status != "Element not found" {
		t.Errorf("status = %q, want %q", res.Status, "Element not found")
	}
}

func TestStaticProbe_InvalidRecord(t *testing.T) {
	t.Parallel()
	sess := loadStaticSession(t)

	rec := &selector.Record{
		Kind:      selector.KindInvalid,
		Processed: "[broken[",
		Valid:     false,
	}
	res := sess.Probe(context.Background(), rec)
	if res.Found {
		t.Error("expected invalid record to report not found")
	}
	if res.Status != "Selector is not valid" {
		t.Errorf("status = %q, want %q", res.Status, "Selector is not valid")
	}
}

func TestStaticProbe_EmptyRecord(t *testing.T) {
	t.Parallel()
	sess := loadStaticSession(t)

	res := sess.Probe(context.Background(), classify(t, ""))
	if !res.Found {
		t.Error("expected empty selector to be treated as found")
	}
	if res.Status != "Empty selector" {
		t.Errorf("status = %q, want %q", res.Status, "Empty selector")
	}

	res = sess.Probe(context.Background(), nil)
	if !res.Found || res.Status != "Empty selector" {
		t.Errorf("nil record probe = found=%v status=%q, want empty-selector handling",
			res.Found, res.Status)
	}
}

func TestBackendRegistry(t *testing.T) {
	backend.RegisterDefaults()

	cfg := backend.DefaultConfig()
	b, err := backend.New(cfg, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("constructing default backend: %v", err)
	}
	defer b.Close()

	if _, ok := b.(*backend.StaticBackend); !ok {
		t.Errorf("default backend is %T, want *backend.StaticBackend", b)
	}

	cfg.Backend = "does-not-exist"
	if _, err := backend.New(cfg, logging.NewNopLogger()); err == nil {
		t.Error("expected error for unregistered backend name")
	}
}
