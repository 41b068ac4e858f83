package osrm

// osrmResponse represents the OSRM route service response.
type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Routes  []osrmRoute `json:"routes"`
}

// osrmRoute represents a single route in the OSRM response.
type osrmRoute struct {
	Geometry osrmGeometry `json:"geometry"`
	Distance float64      `json:"distance"` // meters
	Duration float64      `json:"duration"` // seconds
	Legs     []osrmLeg    `json:"legs,omitempty"`
}

// osrmGeometry is the GeoJSON LineString geometry of a route.
type osrmGeometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"` // (lng, lat) pairs
}

// osrmLeg represents a leg between two waypoints.
type osrmLeg struct {
	Distance float64    `json:"distance"`
	Duration float64    `json:"duration"`
	Steps    []osrmStep `json:"steps,omitempty"`
}

// osrmStep represents a single routing step with its maneuver.
type osrmStep struct {
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
	Name     string       `json:"name"`
	Maneuver osrmManeuver `json:"maneuver"`
}

// osrmManeuver describes the action at the start of a step.
type osrmManeuver struct {
	Type     string `json:"type"`
	Modifier string `json:"modifier,omitempty"`
}

// OSRM response codes.
const (
	codeOK      = "Ok"
	codeNoRoute = "NoRoute"
	codeNoMatch = "NoSegment"
)
