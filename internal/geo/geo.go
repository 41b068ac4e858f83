// Package geo provides geometry helpers for route candidate generation and
// zone proximity checks. All functions are pure; distances are great-circle,
// waypoint offsets use a planar lat/lng approximation which is acceptable for
// the short, local detours they produce.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for haversine distances.
const EarthRadiusKm = 6371.0

// Side selects the rotation direction for perpendicular offsets.
type Side string

const (
	// SideLeft rotates the start->end vector +90 degrees.
	SideLeft Side = "left"
	// SideRight rotates the start->end vector -90 degrees.
	SideRight Side = "right"
)

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Valid reports whether the point is within the valid lat/lng ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Haversine returns the great-circle distance between two points in kilometers.
func Haversine(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// Bearing returns the initial bearing from a to b in degrees [0, 360).
func Bearing(a, b Point) float64 {
	dLng := radians(b.Lng - a.Lng)
	y := math.Sin(dLng) * math.Cos(radians(b.Lat))
	x := math.Cos(radians(a.Lat))*math.Sin(radians(b.Lat)) -
		math.Sin(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Cos(dLng)
	brng := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(brng+360, 360)
}

// OffsetWaypoint computes a waypoint displaced perpendicular to the direct
// start->end path, producing a "bow" shaped detour when routed through.
// The midpoint is displaced by ratio times the start->end length along the
// perpendicular selected by side. If start and end coincide the midpoint is
// returned unchanged.
func OffsetWaypoint(start, end Point, ratio float64, side Side) Point {
	dLat := end.Lat - start.Lat
	dLng := end.Lng - start.Lng

	mid := Point{
		Lat: start.Lat + dLat*0.5,
		Lng: start.Lng + dLng*0.5,
	}

	var perpLat, perpLng float64
	if side == SideLeft {
		perpLat = -dLng
		perpLng = dLat
	} else {
		perpLat = dLng
		perpLng = -dLat
	}

	mag := math.Sqrt(perpLat*perpLat + perpLng*perpLng)
	if mag == 0 {
		return mid
	}

	// Offset distance scales with the direct path length in degree space.
	total := math.Sqrt(dLat*dLat + dLng*dLng)
	offset := total * ratio

	return Point{
		Lat: mid.Lat + (perpLat/mag)*offset,
		Lng: mid.Lng + (perpLng/mag)*offset,
	}
}

// DetourWaypoint computes a waypoint positioned to route around a circular
// zone. The zone center is offset 1.5 radii perpendicular to the dominant
// travel axis: east/west travel detours north, north/south travel detours
// west.
func DetourWaypoint(center Point, radiusKm float64, start, end Point) Point {
	latDiff := math.Abs(end.Lat - start.Lat)
	lngDiff := math.Abs(end.Lng - start.Lng)

	offsetDeg := (radiusKm * 1.5) / 111.0 // rough km to degrees at the equator

	if latDiff > lngDiff {
		return Point{Lat: center.Lat, Lng: center.Lng - offsetDeg}
	}
	return Point{Lat: center.Lat + offsetDeg, Lng: center.Lng}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
