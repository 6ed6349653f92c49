// Package report renders human-readable summaries of validation results,
// including raw-vs-normalized selector diffs.
package report

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/raysh454/sentaku/internal/parser"
)

// Diff returns a terminal-friendly diff between the raw and normalized form
// of one selector. Identical strings produce "".
func Diff(raw, normalized string) string {
	if raw == normalized {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(raw, normalized, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs)
}

// Diffs collects the per-field normalization diffs of a result, keyed by
// field name, skipping fields whose raw form was already canonical.
func Diffs(res *parser.Result) map[string]string {
	out := make(map[string]string)
	for _, name := range res.Batch.Order {
		rec := res.Batch.Records[name]
		if d := Diff(rec.Raw, rec.Processed); d != "" {
			out[name] = d
		}
	}
	return out
}

// Summary renders a one-line-per-field overview of a result.
func Summary(res *parser.Result) string {
	var b strings.Builder
	for _, name := range res.Batch.Order {
		rec := res.Batch.Records[name]
		state := "valid"
		if !rec.Valid {
			state = "invalid"
		}
		fmt.Fprintf(&b, "%s: %s (%s) %s\n", name, rec.Processed, rec.Kind, state)
		if probe, ok := res.HTMLValidation[name]; ok {
			fmt.Fprintf(&b, "  %s\n", probe.Status)
		}
	}
	if res.Batch.AllValid {
		b.WriteString("all selectors valid\n")
	} else {
		b.WriteString("some selectors invalid\n")
	}
	return b.String()
}
