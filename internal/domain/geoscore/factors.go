package geoscore

import "math"

// Band is a closed score range assigned by zone classification.
type Band struct {
	Zone string
	Min  int
	Max  int
}

var (
	footTrafficHigh     = Band{Zone: "high", Min: 85, Max: 95}
	footTrafficMedium   = Band{Zone: "medium", Min: 50, Max: 60}
	footTrafficExtended = Band{Zone: "extended", Min: 50, Max: 60}
	footTrafficLow      = Band{Zone: "low", Min: 25, Max: 45}

	safetySafe     = Band{Zone: "safe", Min: 85, Max: 95}
	safetyRisk     = Band{Zone: "risk", Min: 50, Max: 60}
	safetyExtended = Band{Zone: "extended", Min: 75, Max: 85}
	safetyDefault  = Band{Zone: "default", Min: 30, Max: 45}

	accessibilityBands = []struct {
		minStops int
		band     Band
	}{
		{minStops: 15, band: Band{Zone: "excellent", Min: 85, Max: 95}},
		{minStops: 10, band: Band{Zone: "good", Min: 75, Max: 84}},
		{minStops: 6, band: Band{Zone: "fair", Min: 65, Max: 74}},
		{minStops: 3, band: Band{Zone: "limited", Min: 55, Max: 64}},
		{minStops: 0, band: Band{Zone: "poor", Min: 30, Max: 40}},
	}
)

// Zone radii in meters.
const (
	footTrafficHighRadius     = 200.0
	footTrafficMediumRadius   = 300.0
	footTrafficExtendedRadius = 400.0

	safetyMajorRadius    = 500.0
	safetyMinorRadius    = 350.0
	safetyRiskRadius     = 250.0
	safetyExtendedRadius = 800.0
)

var (
	transitTypes = typeSet("transit_station", "bus_station", "train_station", "subway_station", "light_rail_station")

	highTrafficTypes   = typeSet("restaurant", "cafe", "shopping_mall", "store").union(transitTypes)
	mediumTrafficTypes = typeSet("bank", "pharmacy", "gas_station", "convenience_store")

	majorSafetyTypes = typeSet("hospital", "police", "fire_station")
	safetyTypes      = typeSet("school", "university").union(majorSafetyTypes).union(transitTypes)
	riskTypes        = typeSet("night_club", "bar", "liquor_store")
)

type tagSet map[string]struct{}

func typeSet(tags ...string) tagSet {
	set := make(tagSet, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

func (s tagSet) union(other tagSet) tagSet {
	out := make(tagSet, len(s)+len(other))
	for t := range s {
		out[t] = struct{}{}
	}
	for t := range other {
		out[t] = struct{}{}
	}
	return out
}

func (s tagSet) matches(p PointRecord) bool {
	for _, t := range p.Types {
		if _, ok := s[t]; ok {
			return true
		}
	}
	return false
}

// anyWithin walks points in order and reports whether a located point of the
// given class lies inside radius(point) of origin.
func anyWithin(origin Coordinate, points []PointRecord, class tagSet, radius func(PointRecord) float64) bool {
	for _, p := range points {
		if !class.matches(p) {
			continue
		}
		loc, ok := p.Location()
		if !ok {
			continue
		}
		if WithinRadius(origin, loc, radius(p)) {
			return true
		}
	}
	return false
}

func fixedRadius(meters float64) func(PointRecord) float64 {
	return func(PointRecord) float64 { return meters }
}

func safetyRadius(p PointRecord) float64 {
	if majorSafetyTypes.matches(p) {
		return safetyMajorRadius
	}
	return safetyMinorRadius
}

// ClassifyFootTraffic returns the first matching foot traffic band.
func ClassifyFootTraffic(origin Coordinate, places []PointRecord) Band {
	switch {
	case anyWithin(origin, places, highTrafficTypes, fixedRadius(footTrafficHighRadius)):
		return footTrafficHigh
	case anyWithin(origin, places, mediumTrafficTypes, fixedRadius(footTrafficMediumRadius)):
		return footTrafficMedium
	case anyWithin(origin, places, highTrafficTypes, fixedRadius(footTrafficExtendedRadius)):
		return footTrafficExtended
	default:
		return footTrafficLow
	}
}

// ClassifySafety returns the first matching safety band.
func ClassifySafety(origin Coordinate, places []PointRecord) Band {
	switch {
	case anyWithin(origin, places, safetyTypes, safetyRadius):
		return safetySafe
	case anyWithin(origin, places, riskTypes, fixedRadius(safetyRiskRadius)):
		return safetyRisk
	case anyWithin(origin, places, safetyTypes, fixedRadius(safetyExtendedRadius)):
		return safetyExtended
	default:
		return safetyDefault
	}
}

// ClassifyAccessibility maps a transit stop count to its band.
func ClassifyAccessibility(stops int) Band {
	for _, tier := range accessibilityBands {
		if stops >= tier.minStops {
			return tier.band
		}
	}
	return accessibilityBands[len(accessibilityBands)-1].band
}

// FootTrafficScore scores pedestrian activity around origin.
func FootTrafficScore(origin Coordinate, places []PointRecord) int {
	return newJitter(origin, saltFootTraffic).pick(ClassifyFootTraffic(origin, places))
}

// SafetyScore scores perceived safety around origin.
func SafetyScore(origin Coordinate, places []PointRecord) int {
	return newJitter(origin, saltSafety).pick(ClassifySafety(origin, places))
}

// AccessibilityScore scores transit access from the stop count alone.
func AccessibilityScore(origin Coordinate, transit []PointRecord) int {
	return newJitter(origin, saltAccessibility).pick(ClassifyAccessibility(len(transit)))
}

// CountCompetitors counts places carrying any of the competitor tags.
func CountCompetitors(places []PointRecord, tags []string) int {
	return len(Competitors(places, tags))
}

// Competitors returns the places carrying any of the competitor tags, in order.
func Competitors(places []PointRecord, tags []string) []PointRecord {
	set := typeSet(tags...)
	out := make([]PointRecord, 0)
	for _, p := range places {
		if set.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func competitionBase(count int) int {
	switch {
	case count == 0:
		return 95
	case count <= 2:
		return 90
	case count <= 5:
		return 75
	case count <= 10:
		return 60
	case count <= 20:
		return 45
	default:
		return 30
	}
}

// CompetitionScore turns a competitor count into a score in [0,95].
func CompetitionScore(origin Coordinate, count int) int {
	raw := math.Round(float64(competitionBase(count)) + competitionJitter(origin))
	return clamp(int(raw), 0, 95)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
