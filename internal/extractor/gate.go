package extractor

import "unicode/utf8"

// qualityThreshold is the minimum content markup length, in characters,
// for an extraction to count as a real article.
const qualityThreshold = 500

// passesQualityGate reports whether extracted content markup is long
// enough to be a real article rather than a stub, paywalled, or error
// page. Empty content never passes; the comparison is strict.
func passesQualityGate(html string) bool {
	return utf8.RuneCountInString(html) > qualityThreshold
}
