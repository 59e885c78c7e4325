package experience

// Seniority labels ordered from least to most experienced.
const (
	SeniorityEntry     = "Intern / Entry Level"
	SeniorityJunior    = "Junior"
	SeniorityMid       = "Mid-level"
	SenioritySenior    = "Senior"
	SeniorityPrincipal = "Principal / Lead / Architect"

	// SeniorityUnknown is used when no experience estimate exists.
	SeniorityUnknown = "Unknown"
)

// Classify maps years to a seniority label. Lower bounds are inclusive.
func Classify(years float64) string {
	switch {
	case years < 1:
		return SeniorityEntry
	case years < 3:
		return SeniorityJunior
	case years < 6:
		return SeniorityMid
	case years < 10:
		return SenioritySenior
	default:
		return SeniorityPrincipal
	}
}

// ClassifyEstimate classifies an optional estimate.
func ClassifyEstimate(years *float64) string {
	if years == nil {
		return SeniorityUnknown
	}
	return Classify(*years)
}
