// Package experience infers a candidate's years of experience from free text.
package experience

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Each pattern captures the years in "num" and, for ranges, the upper bound in
// "num2". The text is lowercased before matching.
var patterns = []*regexp.Regexp{
	// "5 years of experience", "7+ years experience", "5-7 yrs exp"
	regexp.MustCompile(`(?P<num>\d+(?:\.\d+)?)(?:\s*[\+]?)(?:\s*-\s*(?P<num2>\d+(?:\.\d+)?))?\s*(?:\+|years?|yrs?)\s*(?:of\s*)?(?:experience|exp)\b`),
	// "over 10 years"
	regexp.MustCompile(`over\s*(?P<num>\d+(?:\.\d+)?)\s*(?:years?|yrs?)\b`),
	// "10+ years"
	regexp.MustCompile(`(?P<num>\d+(?:\.\d+)?)\s*\+\s*(?:years?|yrs?)\b`),
}

// Candidates returns one value per phrase match across the whole text, in
// pattern order. A range contributes the mean of its bounds.
func Candidates(text string) []float64 {
	lower := strings.ToLower(text)

	var candidates []float64
	for _, re := range patterns {
		numIdx := re.SubexpIndex("num")
		num2Idx := re.SubexpIndex("num2")

		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			value, err := strconv.ParseFloat(m[numIdx], 64)
			if err != nil {
				continue
			}

			if num2Idx >= 0 && m[num2Idx] != "" {
				upper, err := strconv.ParseFloat(m[num2Idx], 64)
				if err != nil {
					continue
				}
				value = (value + upper) / 2
			}

			candidates = append(candidates, value)
		}
	}

	return candidates
}

// Estimate returns the median of all candidates. ok is false when the text
// holds no recognised phrase, which is different from an estimate of zero.
func Estimate(text string) (years float64, ok bool) {
	return Median(Candidates(text))
}

// Median returns the median of values, averaging the two middle values for an
// even count. The input slice is not modified.
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}
