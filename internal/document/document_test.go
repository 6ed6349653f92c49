package document_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raysh454/sentaku/internal/document"
)

func TestIsValidFilePath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte("<div>x</div>"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	if !document.IsValidFilePath(path) {
		t.Error("expected existing file to be valid")
	}
	if document.IsValidFilePath(filepath.Join(dir, "nonexistent.json")) {
		t.Error("expected missing file to be invalid")
	}
	if document.IsValidFilePath(dir) {
		t.Error("expected directory to be invalid")
	}
	if document.IsValidFilePath("") {
		t.Error("expected empty path to be invalid")
	}
}

func TestIsValidHTML_WellFormedDocument(t *testing.T) {
	t.Parallel()
	content := `
	<!DOCTYPE html>
	<html>
		<body>
			<div>Content</div>
		</body>
	</html>
	`
	if !document.IsValidHTML(content) {
		t.Error("expected well-formed document to validate")
	}
}

func TestIsValidHTML_Fragment(t *testing.T) {
	t.Parallel()
	if !document.IsValidHTML(`<h1 class="title">Test</h1><div id="content">Body</div>`) {
		t.Error("expected fragment with block tags to validate")
	}
}

func TestIsValidHTML_BareText(t *testing.T) {
	t.Parallel()
	content := `
	This is not HTML content
	Just some random text
	`
	if document.IsValidHTML(content) {
		t.Error("expected bare text to be rejected")
	}
}

func TestIsValidHTML_Empty(t *testing.T) {
	t.Parallel()
	if document.IsValidHTML("") || document.IsValidHTML("   \n") {
		t.Error("expected empty content to be rejected")
	}
}

func TestIsValidHTML_Malformed(t *testing.T) {
	t.Parallel()
	if document.IsValidHTML("<invalid<html>") {
		t.Error("expected markup with a tag opened inside a tag to be rejected")
	}
}

func TestWrapPage(t *testing.T) {
	t.Parallel()
	page := document.WrapPage("  <div id=\"content\">x</div>  ")

	if !strings.HasPrefix(page, "<!DOCTYPE html>") {
		t.Error("expected doctype prefix")
	}
	if !strings.Contains(page, `<div id="content">x</div>`) {
		t.Error("expected trimmed fragment inside the body")
	}
	if !strings.Contains(page, "<title>Test Page</title>") {
		t.Error("expected test page title")
	}
}
