// Package selector turns raw selector strings (CSS or XPath, typically
// produced by an LLM) into validated, normalized, classified records that a
// DOM query backend can act on.
package selector

// Kind is the closed set of selector categories. The string values are the
// wire tokens emitted in JSON results.
type Kind string

const (
	KindCSS     Kind = "css selector"
	KindXPath   Kind = "xpath"
	KindTag     Kind = "tag name"
	KindID      Kind = "id"
	KindClass   Kind = "class name"
	KindEmpty   Kind = "empty"
	KindInvalid Kind = "invalid"
)

// Specificity is the CSS three-component score (id count, class-like count,
// element count). Class selectors, attribute predicates and pseudo selectors
// share the middle slot. It is a structural descriptor only, never used for
// rule tie-breaking.
type Specificity [3]int

// Compare orders two scores lexicographically. Returns -1, 0 or 1.
func (s Specificity) Compare(other Specificity) int {
	for i := range s {
		switch {
		case s[i] < other[i]:
			return -1
		case s[i] > other[i]:
			return 1
		}
	}
	return 0
}

// Record is the outcome of classifying one raw selector. It is constructed
// once and never mutated afterwards.
type Record struct {
	// Raw is the selector exactly as supplied by the caller.
	Raw string `json:"-"`

	Kind Kind `json:"type"`

	// Processed is the canonical form handed to query backends.
	Processed string `json:"processed"`

	Valid bool `json:"is_valid"`

	// Message carries the validation diagnostic when the selector failed, or
	// "Empty selector" for empty fields in a batch.
	Message string `json:"message"`

	Specificity Specificity `json:"specificity"`
}

// InvalidSelectorError reports a selector that failed every applicable
// grammar check. Classify is the only producer; ProcessAll absorbs it into
// an invalid record instead of propagating it.
type InvalidSelectorError struct {
	Detail string
}

func (e *InvalidSelectorError) Error() string { return e.Detail }
