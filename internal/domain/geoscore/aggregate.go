package geoscore

import (
	"fmt"
	"math"
)

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var (
	restaurantTypes = typeSet("restaurant", "cafe")
	hospitalTypes   = typeSet("hospital", "doctor")
	schoolTypes     = typeSet("school", "university")
	shoppingTypes   = typeSet("shopping_mall", "department_store")
)

// Evaluate runs the four scorers and builds the composite result.
// competitorTags selects which places count as competitors.
func Evaluate(in ScoreInput, competitorTags []string) ScoreResult {
	origin := in.Coordinates
	competitors := Competitors(in.Places, competitorTags)

	factors := Factors{
		FootTraffic:   FootTrafficScore(origin, in.Places),
		Safety:        SafetyScore(origin, in.Places),
		Competition:   CompetitionScore(origin, len(competitors)),
		Accessibility: AccessibilityScore(origin, in.Transit),
	}

	return ScoreResult{
		Score:   Composite(factors),
		Factors: factors,
		DetailedAnalysis: DetailedAnalysis{
			HourlyTraffic:      hourlyProfile(origin, factors.FootTraffic),
			WeeklyTrends:       weeklyProfile(origin, factors.FootTraffic),
			CompetitorAnalysis: analyzeCompetitors(competitors),
			SafetyMetrics:      deriveSafetyMetrics(factors.Safety, len(in.Transit)),
			LocationFactors:    countLocationFactors(in.Places, len(in.Transit)),
		},
	}
}

// Composite is the unweighted mean of the four factors, rounded half up.
func Composite(f Factors) int {
	sum := f.FootTraffic + f.Safety + f.Competition + f.Accessibility
	return int(math.Round(float64(sum) / 4))
}

func hourlyMultiplier(hour int) float64 {
	switch {
	case hour < 6:
		return 0.3
	case hour < 10:
		return 0.7
	case hour < 17:
		return 0.9
	case hour < 21:
		return 1.0
	default:
		return 0.6
	}
}

func hourlyProfile(origin Coordinate, footTraffic int) []HourlyTraffic {
	rnd := newJitter(origin, saltHourly)
	base := float64(footTraffic)
	out := make([]HourlyTraffic, 0, 24)
	for h := 0; h < 24; h++ {
		mult := hourlyMultiplier(h)
		penalty := 0.0
		if h >= 22 || h <= 5 {
			penalty = 15
		}
		out = append(out, HourlyTraffic{
			Hour:        fmt.Sprintf("%02d:00", h),
			Pedestrians: nonNegative(base*mult + rnd.noise(-6, 6)),
			Vehicles:    nonNegative(base*0.8*mult + rnd.noise(-5, 5)),
			Safety:      nonNegative(85 - penalty + rnd.noise(-4, 4)),
		})
	}
	return out
}

func weeklyMultiplier(day string) float64 {
	switch day {
	case "Sat":
		return 1.2
	case "Sun":
		return 0.85
	case "Fri":
		return 1.1
	case "Mon":
		return 0.9
	default:
		return 1.0
	}
}

func weeklyProfile(origin Coordinate, footTraffic int) []WeeklyTrend {
	rnd := newJitter(origin, saltWeekly)
	base := float64(footTraffic)
	out := make([]WeeklyTrend, 0, len(weekdays))
	for _, day := range weekdays {
		mult := weeklyMultiplier(day)
		out = append(out, WeeklyTrend{
			Day:         day,
			Traffic:     nonNegative(base*mult + rnd.noise(-3, 3)),
			Sales:       nonNegative(base*mult*0.7 + rnd.noise(-2, 3)),
			Competition: nonNegative(70 + rnd.noise(-7, 8)),
		})
	}
	return out
}

func analyzeCompetitors(competitors []PointRecord) CompetitorAnalysis {
	types := make(map[string]int)
	for _, c := range competitors {
		types[c.PrimaryType()]++
	}
	return CompetitorAnalysis{
		Total:   len(competitors),
		Density: competitorDensity(len(competitors)),
		Types:   types,
	}
}

func competitorDensity(total int) string {
	switch {
	case total > 20:
		return "High"
	case total > 10:
		return "Medium"
	default:
		return "Low"
	}
}

func deriveSafetyMetrics(safety, transitStops int) SafetyMetrics {
	lighting := "Poor"
	switch {
	case safety > 80:
		lighting = "Excellent"
	case safety > 60:
		lighting = "Good"
	}
	surveillance := "Low"
	switch {
	case transitStops > 2:
		surveillance = "High"
	case transitStops > 0:
		surveillance = "Medium"
	}
	return SafetyMetrics{
		CrimeRate:    100 - safety,
		Lighting:     lighting,
		Surveillance: surveillance,
	}
}

func countLocationFactors(places []PointRecord, transitStops int) LocationFactors {
	var lf LocationFactors
	for _, p := range places {
		if restaurantTypes.matches(p) {
			lf.Restaurants++
		}
		if hospitalTypes.matches(p) {
			lf.Hospitals++
		}
		if schoolTypes.matches(p) {
			lf.Schools++
		}
		if shoppingTypes.matches(p) {
			lf.Shopping++
		}
	}
	lf.Transit = transitStops
	return lf
}

func nonNegative(v float64) int {
	rounded := int(math.Round(v))
	if rounded < 0 {
		return 0
	}
	return rounded
}
