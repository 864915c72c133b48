package geoscore

// Grade is the presentation tier of a composite score.
type Grade struct {
	Tier  string `json:"tier"`
	Label string `json:"label"`
}

// GradeFor buckets a composite score for display.
func GradeFor(score int) Grade {
	switch {
	case score >= 72:
		return Grade{Tier: "excellent", Label: "Excellent Location"}
	case score >= 60:
		return Grade{Tier: "good", Label: "Good Location"}
	default:
		return Grade{Tier: "risky", Label: "Risky for Credit"}
	}
}
