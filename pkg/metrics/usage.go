package metrics

// InputUsage captures how many provider points a scoring run consumed.
type InputUsage struct {
	Places       int `json:"places"`
	TransitStops int `json:"transitStops"`
	Unlocated    int `json:"unlocated,omitempty"`
}

// IsZero reports whether usage data is absent.
func (u InputUsage) IsZero() bool {
	return u.Places == 0 && u.TransitStops == 0 && u.Unlocated == 0
}
