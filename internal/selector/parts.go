package selector

import "regexp"

// Parts is the purely structural decomposition of a CSS-like selector.
// Extraction is regexp-driven and does not validate the CSS grammar: a
// selector can have non-empty parts and still fail validation downstream.
type Parts struct {
	// Tag is the leading element name, empty when the selector starts with
	// '.', '#', '[' or ':'.
	Tag string

	// ID is the first #id occurrence, without the '#'.
	ID string

	// Classes are all .class occurrences, in order of appearance.
	Classes []string

	// Attributes are bracketed predicates without their brackets, e.g.
	// "data-test=value".
	Attributes []string

	// Pseudo are pseudo-class/element names, arguments discarded.
	Pseudo []string
}

var (
	partID     = regexp.MustCompile(`#([\w-]+)`)
	partClass  = regexp.MustCompile(`\.([\w-]+)`)
	partAttr   = regexp.MustCompile(`\[([\w-]+(?:[~|^$*]?=[\w-]+)?)\]`)
	partPseudo = regexp.MustCompile(`:([\w-]+)(?:\([^)]*\))?`)
	partTag    = regexp.MustCompile(`^([\w-]+)`)
)

// ExtractParts decomposes a selector into its structural pieces. The fields
// are independent, so extraction order does not matter.
func ExtractParts(sel string) Parts {
	var p Parts

	if m := partID.FindStringSubmatch(sel); m != nil {
		p.ID = m[1]
	}
	for _, m := range partClass.FindAllStringSubmatch(sel, -1) {
		p.Classes = append(p.Classes, m[1])
	}
	for _, m := range partAttr.FindAllStringSubmatch(sel, -1) {
		p.Attributes = append(p.Attributes, m[1])
	}
	for _, m := range partPseudo.FindAllStringSubmatch(sel, -1) {
		p.Pseudo = append(p.Pseudo, m[1])
	}
	if m := partTag.FindStringSubmatch(sel); m != nil {
		p.Tag = m[1]
	}

	return p
}
