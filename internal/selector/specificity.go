package selector

import "regexp"

var specIDs = regexp.MustCompile(`#[\w-]+`)

// ComputeSpecificity derives the three-component score from the structural
// parts of a selector. Id occurrences are counted, not deduplicated, matching
// how real CSS specificity is additive. The count is structural, not
// grammar-validated; it is only meaningful for selectors that already passed
// CSS validation.
func ComputeSpecificity(sel string) Specificity {
	parts := ExtractParts(sel)

	idCount := len(specIDs.FindAllString(sel, -1))
	classLike := len(parts.Classes) + len(parts.Attributes) + len(parts.Pseudo)
	elements := 0
	if parts.Tag != "" {
		elements = 1
	}

	return Specificity{idCount, classLike, elements}
}
