package geo

import (
	"math"
	"testing"
)

func TestHaversine_KnownDistance(t *testing.T) {
	// Delhi to Mumbai, roughly 1150 km.
	delhi := Point{Lat: 28.6139, Lng: 77.2090}
	mumbai := Point{Lat: 19.0760, Lng: 72.8777}

	d := Haversine(delhi, mumbai)
	if d < 1100 || d > 1200 {
		t.Errorf("expected ~1150km, got %.1f", d)
	}
}

func TestHaversine_ZeroDistance(t *testing.T) {
	p := Point{Lat: 12.9716, Lng: 77.5946}
	if d := Haversine(p, p); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a := Point{Lat: 12.97, Lng: 77.59}
	b := Point{Lat: 13.08, Lng: 80.27}
	if ab, ba := Haversine(a, b), Haversine(b, a); math.Abs(ab-ba) > 1e-9 {
		t.Errorf("haversine not symmetric: %f vs %f", ab, ba)
	}
}

func TestBearing(t *testing.T) {
	// Due north along a meridian.
	b := Bearing(Point{Lat: 10, Lng: 77}, Point{Lat: 11, Lng: 77})
	if math.Abs(b-0) > 0.01 && math.Abs(b-360) > 0.01 {
		t.Errorf("expected bearing ~0, got %f", b)
	}

	// Due east at the equator.
	b = Bearing(Point{Lat: 0, Lng: 77}, Point{Lat: 0, Lng: 78})
	if math.Abs(b-90) > 0.01 {
		t.Errorf("expected bearing ~90, got %f", b)
	}
}

func TestOffsetWaypoint_Symmetry(t *testing.T) {
	start := Point{Lat: 12.9716, Lng: 77.5946}
	end := Point{Lat: 13.0827, Lng: 77.7085}

	left := OffsetWaypoint(start, end, 0.3, SideLeft)
	right := OffsetWaypoint(start, end, 0.3, SideRight)

	mid := Point{
		Lat: (start.Lat + end.Lat) / 2,
		Lng: (start.Lng + end.Lng) / 2,
	}

	// Both offsets sit at the same degree-space distance from the midpoint.
	dl := math.Hypot(left.Lat-mid.Lat, left.Lng-mid.Lng)
	dr := math.Hypot(right.Lat-mid.Lat, right.Lng-mid.Lng)
	if math.Abs(dl-dr) > 1e-9 {
		t.Errorf("offset distances differ: %f vs %f", dl, dr)
	}

	// And in exactly opposite directions.
	if math.Abs((left.Lat-mid.Lat)+(right.Lat-mid.Lat)) > 1e-9 {
		t.Errorf("lat offsets are not mirrored: %f, %f", left.Lat-mid.Lat, right.Lat-mid.Lat)
	}
	if math.Abs((left.Lng-mid.Lng)+(right.Lng-mid.Lng)) > 1e-9 {
		t.Errorf("lng offsets are not mirrored: %f, %f", left.Lng-mid.Lng, right.Lng-mid.Lng)
	}
}

func TestOffsetWaypoint_DegenerateSegment(t *testing.T) {
	p := Point{Lat: 12.9716, Lng: 77.5946}
	wp := OffsetWaypoint(p, p, 0.3, SideLeft)
	if wp != p {
		t.Errorf("expected midpoint for zero-length segment, got %+v", wp)
	}
}

func TestOffsetWaypoint_ScalesWithRatio(t *testing.T) {
	start := Point{Lat: 10, Lng: 70}
	end := Point{Lat: 10, Lng: 71}
	mid := Point{Lat: 10, Lng: 70.5}

	small := OffsetWaypoint(start, end, 0.1, SideLeft)
	big := OffsetWaypoint(start, end, 0.3, SideLeft)

	ds := math.Hypot(small.Lat-mid.Lat, small.Lng-mid.Lng)
	db := math.Hypot(big.Lat-mid.Lat, big.Lng-mid.Lng)
	if math.Abs(db-3*ds) > 1e-9 {
		t.Errorf("expected offset to scale linearly with ratio: %f vs %f", ds, db)
	}
}

func TestDetourWaypoint_DominantAxis(t *testing.T) {
	center := Point{Lat: 12.5, Lng: 77.5}

	// North/south travel detours west of the zone.
	wp := DetourWaypoint(center, 2.0, Point{Lat: 12, Lng: 77.5}, Point{Lat: 13, Lng: 77.5})
	if wp.Lng >= center.Lng || wp.Lat != center.Lat {
		t.Errorf("expected westward detour, got %+v", wp)
	}

	// East/west travel detours north of the zone.
	wp = DetourWaypoint(center, 2.0, Point{Lat: 12.5, Lng: 77}, Point{Lat: 12.5, Lng: 78})
	if wp.Lat <= center.Lat || wp.Lng != center.Lng {
		t.Errorf("expected northward detour, got %+v", wp)
	}

	// Offset magnitude is 1.5 radii converted to degrees.
	want := (2.0 * 1.5) / 111.0
	if math.Abs((wp.Lat-center.Lat)-want) > 1e-9 {
		t.Errorf("expected offset %f deg, got %f", want, wp.Lat-center.Lat)
	}
}

func TestPointValid(t *testing.T) {
	cases := []struct {
		p    Point
		want bool
	}{
		{Point{Lat: 0, Lng: 0}, true},
		{Point{Lat: 90, Lng: 180}, true},
		{Point{Lat: -90, Lng: -180}, true},
		{Point{Lat: 91, Lng: 0}, false},
		{Point{Lat: 0, Lng: -181}, false},
	}
	for _, c := range cases {
		if got := c.p.Valid(); got != c.want {
			t.Errorf("Valid(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}
