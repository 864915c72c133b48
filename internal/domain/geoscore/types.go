package geoscore

import (
	"time"

	"github.com/yanqian/geoscore/pkg/metrics"
)

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry mirrors the provider's place geometry block.
type Geometry struct {
	Location *Coordinate `json:"location,omitempty"`
}

// PointRecord is a place or transit stop returned by the maps provider.
// Types is ordered; the first entry is the primary type.
type PointRecord struct {
	Name             string    `json:"name"`
	Vicinity         string    `json:"vicinity,omitempty"`
	Types            []string  `json:"types,omitempty"`
	Geometry         *Geometry `json:"geometry,omitempty"`
	Rating           *float64  `json:"rating,omitempty"`
	UserRatingsTotal *int      `json:"user_ratings_total,omitempty"`
	PriceLevel       *int      `json:"price_level,omitempty"`
}

// Location returns the point coordinate and whether one is present.
func (p PointRecord) Location() (Coordinate, bool) {
	if p.Geometry == nil || p.Geometry.Location == nil {
		return Coordinate{}, false
	}
	return *p.Geometry.Location, true
}

// PrimaryType returns the first declared type or "other".
func (p PointRecord) PrimaryType() string {
	if len(p.Types) == 0 || p.Types[0] == "" {
		return "other"
	}
	return p.Types[0]
}

// Factors holds the four sub-scores, each within [0,100].
type Factors struct {
	FootTraffic   int `json:"footTraffic"`
	Safety        int `json:"safety"`
	Competition   int `json:"competition"`
	Accessibility int `json:"accessibility"`
}

// HourlyTraffic is one synthetic hour of the daily profile.
type HourlyTraffic struct {
	Hour        string `json:"hour"`
	Pedestrians int    `json:"pedestrians"`
	Vehicles    int    `json:"vehicles"`
	Safety      int    `json:"safety"`
}

// WeeklyTrend is one synthetic day of the weekly profile.
type WeeklyTrend struct {
	Day         string `json:"day"`
	Traffic     int    `json:"traffic"`
	Sales       int    `json:"sales"`
	Competition int    `json:"competition"`
}

// CompetitorAnalysis summarizes the competitors found around the location.
type CompetitorAnalysis struct {
	Total   int            `json:"total"`
	Density string         `json:"density"`
	Types   map[string]int `json:"types"`
}

// SafetyMetrics are labels derived from the safety factor and transit count.
type SafetyMetrics struct {
	CrimeRate    int    `json:"crimeRate"`
	Lighting     string `json:"lighting"`
	Surveillance string `json:"surveillance"`
}

// LocationFactors counts nearby places per display category.
type LocationFactors struct {
	Restaurants int `json:"restaurants"`
	Transit     int `json:"transit"`
	Hospitals   int `json:"hospitals"`
	Schools     int `json:"schools"`
	Shopping    int `json:"shopping"`
}

// DetailedAnalysis is derived once per scoring run and never mutated.
type DetailedAnalysis struct {
	HourlyTraffic      []HourlyTraffic    `json:"hourlyTraffic"`
	WeeklyTrends       []WeeklyTrend      `json:"weeklyTrends"`
	CompetitorAnalysis CompetitorAnalysis `json:"competitorAnalysis"`
	SafetyMetrics      SafetyMetrics      `json:"safetyMetrics"`
	LocationFactors    LocationFactors    `json:"locationFactors"`
}

// ScoreInput is everything a scoring run reads.
type ScoreInput struct {
	Coordinates  Coordinate    `json:"coordinates"`
	BusinessType string        `json:"businessType,omitempty"`
	Places       []PointRecord `json:"places"`
	Transit      []PointRecord `json:"transit"`
}

// ScoreResult is the output of a scoring run.
type ScoreResult struct {
	Score            int              `json:"score"`
	Factors          Factors          `json:"factors"`
	DetailedAnalysis DetailedAnalysis `json:"detailedAnalysis"`
}

// LocationRecord is the cached unit, keyed by NormalizeKey(Location).
type LocationRecord struct {
	RunID            string           `json:"runId"`
	Location         string           `json:"location"`
	Coordinates      Coordinate       `json:"coordinates"`
	Score            int              `json:"score"`
	Factors          Factors          `json:"factors"`
	LastUpdated      time.Time        `json:"lastUpdated"`
	NearbyPlaces     []PointRecord    `json:"nearbyPlaces"`
	DetailedAnalysis DetailedAnalysis `json:"detailedAnalysis"`
	Seeded           bool             `json:"isSeeded,omitempty"`
}

// AnalyzeRequest asks for the cached or freshly computed analysis of an address.
type AnalyzeRequest struct {
	Address      string        `json:"address"`
	Coordinates  Coordinate    `json:"coordinates"`
	BusinessType string        `json:"businessType,omitempty"`
	Places       []PointRecord `json:"places"`
	Transit      []PointRecord `json:"transit"`
	Seeded       bool          `json:"seeded,omitempty"`
	Refresh      bool          `json:"refresh,omitempty"`
}

// Source tells callers where an analysis came from.
type Source string

const (
	// SourceCache marks a record served from the location cache.
	SourceCache Source = "cache"
	// SourceEngine marks a record computed by this request.
	SourceEngine Source = "engine"
)

// Analysis is returned to the HTTP transport.
type Analysis struct {
	Key          string              `json:"key"`
	Source       Source              `json:"source"`
	Stored       bool                `json:"stored"`
	Grade        Grade               `json:"grade"`
	RadiusMeters float64             `json:"radiusMeters"`
	Record       LocationRecord      `json:"record"`
	Inputs       *metrics.InputUsage `json:"inputs,omitempty"`
}

// BusinessType is one row of the competitor classification table.
type BusinessType struct {
	ID          string   `json:"id"`
	Competitors []string `json:"competitors"`
}
