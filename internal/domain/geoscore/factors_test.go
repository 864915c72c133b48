package geoscore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testOrigin = Coordinate{Lat: 40.0, Lng: -73.0}

func TestClassifyFootTraffic(t *testing.T) {
	cases := []struct {
		name   string
		places []PointRecord
		want   string
	}{
		{"empty", nil, "low"},
		{"restaurant close", []PointRecord{placeAt(northOf(testOrigin, 150), "restaurant")}, "high"},
		{"transit close", []PointRecord{placeAt(northOf(testOrigin, 100), "subway_station")}, "high"},
		{"bank nearby", []PointRecord{placeAt(northOf(testOrigin, 250), "bank")}, "medium"},
		{"restaurant outer ring", []PointRecord{placeAt(northOf(testOrigin, 350), "restaurant")}, "extended"},
		{"medium wins over extended", []PointRecord{
			placeAt(northOf(testOrigin, 350), "cafe"),
			placeAt(northOf(testOrigin, 250), "pharmacy"),
		}, "medium"},
		{"high wins over medium", []PointRecord{
			placeAt(northOf(testOrigin, 250), "bank"),
			placeAt(northOf(testOrigin, 190), "store"),
		}, "high"},
		{"too far", []PointRecord{placeAt(northOf(testOrigin, 450), "restaurant")}, "low"},
		{"missing geometry skipped", []PointRecord{{Types: []string{"restaurant"}}, {Types: []string{"cafe"}, Geometry: &Geometry{}}}, "low"},
		{"unrelated type", []PointRecord{placeAt(testOrigin, "church")}, "low"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyFootTraffic(testOrigin, tc.places).Zone)
		})
	}
}

func TestClassifySafety(t *testing.T) {
	cases := []struct {
		name   string
		places []PointRecord
		want   string
	}{
		{"empty", nil, "default"},
		{"hospital in major radius", []PointRecord{placeAt(northOf(testOrigin, 450), "hospital")}, "safe"},
		{"school in minor radius", []PointRecord{placeAt(northOf(testOrigin, 300), "school")}, "safe"},
		{"school beyond minor radius", []PointRecord{placeAt(northOf(testOrigin, 450), "school")}, "extended"},
		{"bus stop counts as safety", []PointRecord{placeAt(northOf(testOrigin, 100), "bus_station")}, "safe"},
		{"bar nearby", []PointRecord{placeAt(northOf(testOrigin, 200), "bar")}, "risk"},
		{"safe wins over risk", []PointRecord{
			placeAt(northOf(testOrigin, 100), "night_club"),
			placeAt(northOf(testOrigin, 480), "police"),
		}, "safe"},
		{"risk wins over extended", []PointRecord{
			placeAt(northOf(testOrigin, 700), "university"),
			placeAt(northOf(testOrigin, 240), "liquor_store"),
		}, "risk"},
		{"all too far", []PointRecord{
			placeAt(northOf(testOrigin, 900), "fire_station"),
			placeAt(northOf(testOrigin, 300), "bar"),
		}, "default"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifySafety(testOrigin, tc.places).Zone)
		})
	}
}

func TestClassifyAccessibility(t *testing.T) {
	cases := map[int]string{0: "poor", 2: "poor", 3: "limited", 5: "limited", 6: "fair", 9: "fair", 10: "good", 14: "good", 15: "excellent", 40: "excellent"}
	for stops, want := range cases {
		require.Equal(t, want, ClassifyAccessibility(stops).Zone, "stops=%d", stops)
	}
}

func TestFactorScoresStayInBand(t *testing.T) {
	for i := 0; i < 200; i++ {
		origin := Coordinate{Lat: -60 + float64(i)*0.6, Lng: 170 - float64(i)*1.3}
		near := []PointRecord{placeAt(northOf(origin, 150), "restaurant")}

		ft := FootTrafficScore(origin, near)
		require.GreaterOrEqual(t, ft, 85)
		require.LessOrEqual(t, ft, 95)

		safety := SafetyScore(origin, near)
		require.GreaterOrEqual(t, safety, 30)
		require.LessOrEqual(t, safety, 45)

		acc := AccessibilityScore(origin, nil)
		require.GreaterOrEqual(t, acc, 30)
		require.LessOrEqual(t, acc, 40)
	}
}

func TestFactorScoresAreDeterministic(t *testing.T) {
	places := []PointRecord{
		placeAt(northOf(testOrigin, 250), "bank"),
		placeAt(northOf(testOrigin, 200), "bar"),
	}
	transit := make([]PointRecord, 7)

	require.Equal(t, FootTrafficScore(testOrigin, places), FootTrafficScore(testOrigin, places))
	require.Equal(t, SafetyScore(testOrigin, places), SafetyScore(testOrigin, places))
	require.Equal(t, AccessibilityScore(testOrigin, transit), AccessibilityScore(testOrigin, transit))
	require.Equal(t, CompetitionScore(testOrigin, 4), CompetitionScore(testOrigin, 4))
}

func TestAccessibilityMonotoneInStops(t *testing.T) {
	prev := -1
	for stops := 0; stops <= 30; stops++ {
		score := AccessibilityScore(testOrigin, make([]PointRecord, stops))
		require.GreaterOrEqual(t, score, prev, "stops=%d", stops)
		prev = score
	}
}

func TestAccessibilityIgnoresStopDistance(t *testing.T) {
	far := make([]PointRecord, 16)
	for i := range far {
		far[i] = placeAt(northOf(testOrigin, 50000), "bus_station")
	}
	score := AccessibilityScore(testOrigin, far)
	require.GreaterOrEqual(t, score, 85)
	require.LessOrEqual(t, score, 95)
}

func TestCompetitors(t *testing.T) {
	places := []PointRecord{
		{Name: "A", Types: []string{"cafe", "restaurant"}},
		{Name: "B", Types: []string{"bank"}},
		{Name: "C", Types: []string{"bakery"}},
		{Name: "D"},
	}
	tags := []string{"restaurant", "cafe", "bakery"}

	got := Competitors(places, tags)
	require.Len(t, got, 2)
	require.Equal(t, "A", got[0].Name)
	require.Equal(t, "C", got[1].Name)
	require.Equal(t, 2, CountCompetitors(places, tags))
	require.Zero(t, CountCompetitors(places, nil))
}

func TestCompetitionScore(t *testing.T) {
	bases := map[int]int{0: 95, 1: 90, 2: 90, 3: 75, 5: 75, 6: 60, 10: 60, 11: 45, 20: 45, 21: 30, 100: 30}
	for count, base := range bases {
		require.Equal(t, base, competitionBase(count), "count=%d", count)
	}

	for i := 0; i < 200; i++ {
		origin := Coordinate{Lat: float64(i) * 0.37, Lng: -float64(i) * 0.91}
		for count, base := range bases {
			score := CompetitionScore(origin, count)
			require.GreaterOrEqual(t, score, 0)
			require.LessOrEqual(t, score, 95)
			require.InDelta(t, base, score, 6)
		}
	}
}

func TestCompetitionJitterRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		j := competitionJitter(Coordinate{Lat: float64(i) * 0.11, Lng: float64(i) * -0.07})
		require.GreaterOrEqual(t, j, -6.0)
		require.LessOrEqual(t, j, 6.0)
	}
}
