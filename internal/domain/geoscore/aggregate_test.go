package geoscore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComposite(t *testing.T) {
	cases := []struct {
		in   Factors
		want int
	}{
		{Factors{90, 40, 90, 35}, 64},
		{Factors{85, 30, 95, 30}, 60},
		{Factors{86, 31, 95, 30}, 61},
		{Factors{0, 0, 0, 0}, 0},
		{Factors{95, 95, 95, 95}, 95},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Composite(tc.in), "%+v", tc.in)
	}
}

func TestEvaluateRestaurantScenario(t *testing.T) {
	in := ScoreInput{
		Coordinates: testOrigin,
		Places:      []PointRecord{placeAt(northOf(testOrigin, 150), "restaurant")},
	}
	tags, known := DefaultConfig().CompetitorTags("")
	require.False(t, known)

	result := Evaluate(in, tags)
	f := result.Factors
	require.GreaterOrEqual(t, f.FootTraffic, 85)
	require.LessOrEqual(t, f.FootTraffic, 95)
	require.GreaterOrEqual(t, f.Safety, 30)
	require.LessOrEqual(t, f.Safety, 45)
	require.GreaterOrEqual(t, f.Accessibility, 30)
	require.LessOrEqual(t, f.Accessibility, 40)
	require.Equal(t, CompetitionScore(testOrigin, 1), f.Competition)
	require.InDelta(t, 90, f.Competition, 6)
	require.Equal(t, int(math.Round(float64(f.FootTraffic+f.Safety+f.Competition+f.Accessibility)/4)), result.Score)

	ca := result.DetailedAnalysis.CompetitorAnalysis
	require.Equal(t, 1, ca.Total)
	require.Equal(t, "Low", ca.Density)
	require.Equal(t, map[string]int{"restaurant": 1}, ca.Types)
}

func TestEvaluateEmptyScenario(t *testing.T) {
	result := Evaluate(ScoreInput{Coordinates: testOrigin}, DefaultGenericCompetitors())

	f := result.Factors
	require.GreaterOrEqual(t, f.FootTraffic, 25)
	require.LessOrEqual(t, f.FootTraffic, 45)
	require.GreaterOrEqual(t, f.Safety, 30)
	require.LessOrEqual(t, f.Safety, 45)
	require.GreaterOrEqual(t, f.Accessibility, 30)
	require.LessOrEqual(t, f.Accessibility, 40)
	require.GreaterOrEqual(t, f.Competition, 89)
	require.LessOrEqual(t, f.Competition, 95)
	require.Equal(t, Composite(f), result.Score)
	require.Empty(t, result.DetailedAnalysis.CompetitorAnalysis.Types)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	in := ScoreInput{
		Coordinates: Coordinate{Lat: 1.3521, Lng: 103.8198},
		Places: []PointRecord{
			placeAt(Coordinate{Lat: 1.3525, Lng: 103.8199}, "cafe"),
			placeAt(Coordinate{Lat: 1.3540, Lng: 103.8190}, "hospital"),
		},
		Transit: make([]PointRecord, 4),
	}
	tags := []string{"cafe"}

	require.Equal(t, Evaluate(in, tags), Evaluate(in, tags))
}

func TestHourlyAndWeeklyProfiles(t *testing.T) {
	result := Evaluate(ScoreInput{Coordinates: testOrigin, Transit: make([]PointRecord, 3)}, nil)
	hourly := result.DetailedAnalysis.HourlyTraffic
	weekly := result.DetailedAnalysis.WeeklyTrends

	require.Len(t, hourly, 24)
	require.Equal(t, "00:00", hourly[0].Hour)
	require.Equal(t, "23:00", hourly[23].Hour)
	for _, h := range hourly {
		require.GreaterOrEqual(t, h.Pedestrians, 0)
		require.GreaterOrEqual(t, h.Vehicles, 0)
		require.GreaterOrEqual(t, h.Safety, 0)
	}
	// Night hours carry the 15 point safety penalty.
	require.Less(t, hourly[23].Safety, hourly[12].Safety)

	require.Len(t, weekly, 7)
	require.Equal(t, "Mon", weekly[0].Day)
	require.Equal(t, "Sun", weekly[6].Day)
	for _, w := range weekly {
		require.GreaterOrEqual(t, w.Competition, 63)
		require.LessOrEqual(t, w.Competition, 78)
	}
}

func TestCompetitorDensity(t *testing.T) {
	require.Equal(t, "Low", competitorDensity(0))
	require.Equal(t, "Low", competitorDensity(10))
	require.Equal(t, "Medium", competitorDensity(11))
	require.Equal(t, "Medium", competitorDensity(20))
	require.Equal(t, "High", competitorDensity(21))
}

func TestDeriveSafetyMetrics(t *testing.T) {
	require.Equal(t, SafetyMetrics{CrimeRate: 10, Lighting: "Excellent", Surveillance: "High"}, deriveSafetyMetrics(90, 3))
	require.Equal(t, SafetyMetrics{CrimeRate: 35, Lighting: "Good", Surveillance: "Medium"}, deriveSafetyMetrics(65, 1))
	require.Equal(t, SafetyMetrics{CrimeRate: 60, Lighting: "Poor", Surveillance: "Low"}, deriveSafetyMetrics(40, 0))
	require.Equal(t, "Good", deriveSafetyMetrics(80, 0).Lighting)
	require.Equal(t, "Poor", deriveSafetyMetrics(60, 0).Lighting)
}

func TestCountLocationFactors(t *testing.T) {
	places := []PointRecord{
		{Types: []string{"restaurant"}},
		{Types: []string{"cafe", "bakery"}},
		{Types: []string{"hospital", "doctor"}},
		{Types: []string{"university"}},
		{Types: []string{"department_store"}},
		{Types: []string{"park"}},
	}
	got := countLocationFactors(places, 5)
	require.Equal(t, LocationFactors{Restaurants: 2, Transit: 5, Hospitals: 1, Schools: 1, Shopping: 1}, got)
}
