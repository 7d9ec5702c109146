package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"github.com/perktap/perktap/internal/model"
)

// HalfWidthDeg is the fixed half-width of a "search this area" box:
// ~5 km at the equator. A flat-latitude approximation — longitude width
// is not corrected away from the equator, matching production behavior.
const HalfWidthDeg = 0.045

const milesPerMeter = 1.0 / 1609.344

// BoundsAround derives the query box centered on the given point.
func BoundsAround(center model.Coordinates) model.MapBounds {
	return model.MapBounds{
		Northeast: model.Coordinates{Lat: center.Lat + HalfWidthDeg, Lng: center.Lng + HalfWidthDeg},
		Southwest: model.Coordinates{Lat: center.Lat - HalfWidthDeg, Lng: center.Lng - HalfWidthDeg},
	}
}

// Center returns the midpoint of a bounds box.
func Center(b model.MapBounds) model.Coordinates {
	return model.Coordinates{
		Lat: (b.Northeast.Lat + b.Southwest.Lat) / 2,
		Lng: (b.Northeast.Lng + b.Southwest.Lng) / 2,
	}
}

// ToBound converts to an orb bound for geometry operations.
func ToBound(b model.MapBounds) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Southwest.Lng, b.Southwest.Lat},
		Max: orb.Point{b.Northeast.Lng, b.Northeast.Lat},
	}
}

// Contains reports whether the point falls inside the bounds.
func Contains(b model.MapBounds, c model.Coordinates) bool {
	return ToBound(b).Contains(orb.Point{c.Lng, c.Lat})
}

// MilesBetween returns the great-circle distance between two points in miles.
func MilesBetween(a, b model.Coordinates) float64 {
	m := orbgeo.Distance(orb.Point{a.Lng, a.Lat}, orb.Point{b.Lng, b.Lat})
	return m * milesPerMeter
}

// FillDistances computes distances from the search center for results the
// gateway returned without one. Server-provided values are left alone.
func FillDistances(center model.Coordinates, results []model.Business) {
	for i := range results {
		if results[i].DistanceFromSearch != nil {
			continue
		}
		d := MilesBetween(center, results[i].Location.Coordinates)
		results[i].DistanceFromSearch = &d
	}
}
