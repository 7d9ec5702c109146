package geo

import (
	"math"
	"testing"

	"github.com/perktap/perktap/internal/model"
)

func TestBoundsAround(t *testing.T) {
	tests := []struct {
		name   string
		center model.Coordinates
		wantNE model.Coordinates
		wantSW model.Coordinates
	}{
		{
			name:   "teesside",
			center: model.Coordinates{Lat: 54.50, Lng: -1.25},
			wantNE: model.Coordinates{Lat: 54.545, Lng: -1.205},
			wantSW: model.Coordinates{Lat: 54.455, Lng: -1.295},
		},
		{
			name:   "equator origin",
			center: model.Coordinates{Lat: 0, Lng: 0},
			wantNE: model.Coordinates{Lat: 0.045, Lng: 0.045},
			wantSW: model.Coordinates{Lat: -0.045, Lng: -0.045},
		},
		{
			name:   "southern hemisphere",
			center: model.Coordinates{Lat: -33.87, Lng: 151.21},
			wantNE: model.Coordinates{Lat: -33.825, Lng: 151.255},
			wantSW: model.Coordinates{Lat: -33.915, Lng: 151.165},
		},
	}

	const eps = 1e-9
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BoundsAround(tt.center)
			if math.Abs(got.Northeast.Lat-tt.wantNE.Lat) > eps ||
				math.Abs(got.Northeast.Lng-tt.wantNE.Lng) > eps {
				t.Errorf("northeast = %+v, want %+v", got.Northeast, tt.wantNE)
			}
			if math.Abs(got.Southwest.Lat-tt.wantSW.Lat) > eps ||
				math.Abs(got.Southwest.Lng-tt.wantSW.Lng) > eps {
				t.Errorf("southwest = %+v, want %+v", got.Southwest, tt.wantSW)
			}
			if !got.Valid() {
				t.Errorf("derived bounds %+v not valid", got)
			}
		})
	}
}

func TestContains(t *testing.T) {
	b := BoundsAround(model.Coordinates{Lat: 54.50, Lng: -1.25})

	if !Contains(b, model.Coordinates{Lat: 54.50, Lng: -1.25}) {
		t.Error("center should be inside its own bounds")
	}
	if !Contains(b, model.Coordinates{Lat: 54.52, Lng: -1.27}) {
		t.Error("point within half-width should be inside")
	}
	if Contains(b, model.Coordinates{Lat: 54.60, Lng: -1.25}) {
		t.Error("point north of bounds should be outside")
	}
}

func TestCenter(t *testing.T) {
	c := model.Coordinates{Lat: 54.50, Lng: -1.25}
	got := Center(BoundsAround(c))
	if math.Abs(got.Lat-c.Lat) > 1e-9 || math.Abs(got.Lng-c.Lng) > 1e-9 {
		t.Errorf("Center() = %+v, want %+v", got, c)
	}
}

func TestMilesBetween(t *testing.T) {
	// London -> Paris is roughly 213 miles.
	london := model.Coordinates{Lat: 51.5074, Lng: -0.1278}
	paris := model.Coordinates{Lat: 48.8566, Lng: 2.3522}

	d := MilesBetween(london, paris)
	if d < 205 || d > 220 {
		t.Errorf("MilesBetween(london, paris) = %.1f, want ~213", d)
	}

	if d := MilesBetween(london, london); d != 0 {
		t.Errorf("zero distance expected, got %f", d)
	}
}

func TestFillDistances(t *testing.T) {
	center := model.Coordinates{Lat: 54.50, Lng: -1.25}
	served := 3.2
	results := []model.Business{
		{
			Name:               "has distance",
			Location:           model.BusinessLocation{Coordinates: model.Coordinates{Lat: 54.60, Lng: -1.25}},
			DistanceFromSearch: &served,
		},
		{
			Name:     "needs distance",
			Location: model.BusinessLocation{Coordinates: model.Coordinates{Lat: 54.52, Lng: -1.25}},
		},
	}

	FillDistances(center, results)

	if results[0].DistanceFromSearch == nil || *results[0].DistanceFromSearch != 3.2 {
		t.Error("server-provided distance must not be overwritten")
	}
	if results[1].DistanceFromSearch == nil {
		t.Fatal("missing distance should be filled")
	}
	// 0.02 degrees of latitude is ~1.4 miles.
	if d := *results[1].DistanceFromSearch; d < 1.2 || d > 1.6 {
		t.Errorf("filled distance = %.2f, want ~1.4", d)
	}
}
