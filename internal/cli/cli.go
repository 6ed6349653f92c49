package cli

import (
	"flag"
	"fmt"
	"strings"
)

// CLIArgs are the command-line arguments for a single validation run or the
// API server. Keep this small for now — add fields as modules need them.
type CLIArgs struct {
	// Selectors is a JSON string or a path to a JSON file with the selector
	// payload (required unless -serve).
	Selectors string

	// HTML is optional inline HTML or a path to an HTML file to probe the
	// selectors against.
	HTML string

	// Backend names the query backend: static|chromedp.
	Backend string

	// ShowDiff prints a raw-vs-normalized diff per selector to stderr.
	ShowDiff bool

	// Pretty indents the result JSON.
	Pretty bool

	// Serve starts the HTTP API server instead of a one-shot run.
	Serve bool

	// Addr is the listen address when serving.
	Addr string

	// Storage overrides the run history storage root when serving.
	Storage string

	// Verbose enables debug logging on stderr-safe paths.
	Verbose bool

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("sentaku", flag.ContinueOnError)
	var (
		selectors = fs.String("selectors", "", "Selector JSON string or path to a JSON file (required)")
		html      = fs.String("html", "", "Inline HTML or path to an HTML file to validate against")
		backend   = fs.String("backend", "static", "Query backend: static|chromedp")
		showDiff  = fs.Bool("show-diff", false, "Print raw vs normalized selector diffs to stderr")
		pretty    = fs.Bool("pretty", false, "Indent the result JSON")
		serve     = fs.Bool("serve", false, "Run the HTTP API server")
		addr      = fs.String("addr", ":8474", "Listen address for -serve")
		storage   = fs.String("storage", "~/.config/sentaku", "Run history storage root for -serve")
		verbose   = fs.Bool("verbose", false, "Enable debug logging")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(nil)

	if err := fs.Parse(args); err != nil {
		// Flag parsing errors are useful to return to caller
		return nil, err
	}

	if !*serve && strings.TrimSpace(*selectors) == "" {
		return nil, fmt.Errorf("missing required -selectors argument")
	}

	return &CLIArgs{
		Selectors: *selectors,
		HTML:      *html,
		Backend:   *backend,
		ShowDiff:  *showDiff,
		Pretty:    *pretty,
		Serve:     *serve,
		Addr:      *addr,
		Storage:   *storage,
		Verbose:   *verbose,
		RawArgs:   args,
	}, nil
}
