package selector

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/xpath"
)

// htmlTags is the fixed allow-list of element names recognized as bare tag
// selectors. Read-only process-wide data.
var htmlTags = map[string]struct{}{
	"div": {}, "span": {}, "p": {}, "a": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"article": {}, "section": {}, "nav": {}, "header": {}, "footer": {},
	"main": {}, "aside": {}, "time": {}, "figure": {}, "figcaption": {},
	"img": {}, "ul": {}, "ol": {}, "li": {},
	"table": {}, "tr": {}, "td": {}, "th": {}, "thead": {}, "tbody": {},
	"form": {}, "input": {}, "button": {}, "textarea": {},
}

// classifyRule inspects a normalized selector and either claims it or passes.
// Rules run in declaration order and the first claim wins; the order is
// load-bearing because the categories overlap structurally (a lone "#id" is
// also a parseable general CSS selector).
type classifyRule func(sel string, parts Parts) (*Record, bool, error)

var classifyRules = []classifyRule{
	classifyXPath,
	classifyTag,
	classifyID,
	classifyClass,
	classifyCSS,
}

// Classify normalizes a raw selector, determines its kind and validates it.
// Empty (or whitespace-only) input yields a valid record of kind "empty".
// The only error returned is *InvalidSelectorError, when the selector fails
// every applicable grammar check.
func Classify(raw string) (*Record, error) {
	sel := Normalize(raw)
	if sel == "" {
		return &Record{Raw: raw, Kind: KindEmpty, Valid: true}, nil
	}

	parts := ExtractParts(sel)
	for _, rule := range classifyRules {
		rec, ok, err := rule(sel, parts)
		if err != nil {
			return nil, err
		}
		if ok {
			rec.Raw = raw
			return rec, nil
		}
	}

	// classifyCSS claims everything that reaches it; not reachable.
	return nil, &InvalidSelectorError{Detail: "unclassifiable selector"}
}

func classifyXPath(sel string, _ Parts) (*Record, bool, error) {
	if !strings.HasPrefix(sel, "//") && !strings.HasPrefix(sel, "(//") {
		return nil, false, nil
	}
	if _, err := xpath.Compile(sel); err != nil {
		return nil, false, &InvalidSelectorError{
			Detail: fmt.Sprintf("Invalid XPath expression: %v", err),
		}
	}
	return &Record{Kind: KindXPath, Processed: sel, Valid: true}, true, nil
}

func classifyTag(sel string, _ Parts) (*Record, bool, error) {
	lower := strings.ToLower(sel)
	if _, ok := htmlTags[lower]; !ok || strings.ContainsAny(sel, ".#") {
		return nil, false, nil
	}
	return &Record{
		Kind:        KindTag,
		Processed:   lower,
		Valid:       true,
		Specificity: Specificity{0, 0, 1},
	}, true, nil
}

func classifyID(_ string, parts Parts) (*Record, bool, error) {
	if parts.ID == "" || len(parts.Classes) > 0 || len(parts.Attributes) > 0 || parts.Tag != "" {
		return nil, false, nil
	}
	return &Record{
		Kind:        KindID,
		Processed:   "#" + parts.ID,
		Valid:       true,
		Specificity: Specificity{1, 0, 0},
	}, true, nil
}

// classifyClass keeps only the first class of a multi-class selector
// (".b.c" folds to ".b"). Known narrowing, preserved for compatibility with
// the systems consuming these records.
func classifyClass(_ string, parts Parts) (*Record, bool, error) {
	if len(parts.Classes) == 0 || parts.ID != "" || len(parts.Attributes) > 0 || parts.Tag != "" {
		return nil, false, nil
	}
	return &Record{
		Kind:        KindClass,
		Processed:   "." + parts.Classes[0],
		Valid:       true,
		Specificity: Specificity{0, 1, 0},
	}, true, nil
}

func classifyCSS(sel string, _ Parts) (*Record, bool, error) {
	if _, err := cascadia.ParseGroup(sel); err != nil {
		return nil, false, &InvalidSelectorError{
			Detail: fmt.Sprintf("Invalid CSS selector: %v", err),
		}
	}
	return &Record{
		Kind:        KindCSS,
		Processed:   sel,
		Valid:       true,
		Specificity: ComputeSpecificity(sel),
	}, true, nil
}
