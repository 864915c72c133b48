package geoscore

import (
	"sort"
	"strings"
)

// DefaultSearchRadiusMeters is the provider search radius callers use.
const DefaultSearchRadiusMeters = 2000.0

// Config holds runtime knobs for the scoring service.
type Config struct {
	// BusinessTypes maps a business type id to the tags of its competitors.
	BusinessTypes map[string][]string
	// GenericCompetitors is used when no known business type is active.
	GenericCompetitors []string
	// SearchRadiusMeters is echoed to callers as the analysis radius.
	SearchRadiusMeters float64
}

// DefaultBusinessTypes returns the built-in competitor classification table.
func DefaultBusinessTypes() map[string][]string {
	return map[string][]string{
		"food_service": {"restaurant", "cafe", "bakery", "meal_takeaway", "food"},
		"retail":       {"store", "clothing_store", "shoe_store", "book_store", "electronics_store"},
		"grocery":      {"grocery_or_supermarket", "supermarket", "convenience_store"},
		"electronics":  {"electronics_store", "computer_store", "phone_store"},
		"health":       {"pharmacy", "hospital", "doctor", "dentist", "physiotherapist"},
		"automotive":   {"car_dealer", "car_repair", "gas_station", "car_wash"},
		"beauty":       {"beauty_salon", "hair_care", "spa", "nail_salon"},
		"fitness":      {"gym", "fitness_center", "sports_club", "yoga_studio"},
		"education":    {"school", "university", "library", "tutoring"},
	}
}

// DefaultGenericCompetitors is the competitor set for an unknown business type.
func DefaultGenericCompetitors() []string {
	return []string{"store", "restaurant", "shop", "establishment", "shopping_mall", "gym", "fitness_center"}
}

// DefaultConfig returns a Config populated with the built-in tables.
func DefaultConfig() Config {
	return Config{
		BusinessTypes:      DefaultBusinessTypes(),
		GenericCompetitors: DefaultGenericCompetitors(),
		SearchRadiusMeters: DefaultSearchRadiusMeters,
	}
}

// CompetitorTags resolves the competitor tags for businessType. The second
// return value is false when the generic set was used.
func (c Config) CompetitorTags(businessType string) ([]string, bool) {
	id := strings.ToLower(strings.TrimSpace(businessType))
	if id != "" {
		if tags, ok := c.BusinessTypes[id]; ok && len(tags) > 0 {
			return tags, true
		}
	}
	if len(c.GenericCompetitors) == 0 {
		return DefaultGenericCompetitors(), false
	}
	return c.GenericCompetitors, false
}

// Table lists the configured business types sorted by id.
func (c Config) Table() []BusinessType {
	out := make([]BusinessType, 0, len(c.BusinessTypes))
	for id, tags := range c.BusinessTypes {
		out = append(out, BusinessType{ID: id, Competitors: append([]string(nil), tags...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c Config) radius() float64 {
	if c.SearchRadiusMeters <= 0 {
		return DefaultSearchRadiusMeters
	}
	return c.SearchRadiusMeters
}
