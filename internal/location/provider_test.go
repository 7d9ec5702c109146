package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/perktap/perktap/internal/config"
)

func TestFromConfig(t *testing.T) {
	tests := []struct {
		mode        string
		wantGranted bool
	}{
		{"static", true},
		{"off", false},
		{"ip", true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			p := FromConfig(config.Location{Mode: tt.mode, StaticLat: 1, StaticLng: 2})
			granted, err := p.RequestPermission(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if granted != tt.wantGranted {
				t.Errorf("granted = %v, want %v", granted, tt.wantGranted)
			}
		})
	}
}

func TestStaticCurrentLocation(t *testing.T) {
	p := Static{}
	p.Coords.Lat = 54.5
	p.Coords.Lng = -1.25

	got, err := p.CurrentLocation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Lat != 54.5 || got.Lng != -1.25 {
		t.Errorf("coords = %+v", got)
	}
}

func TestDisabledCurrentLocationErrors(t *testing.T) {
	if _, err := (Disabled{}).CurrentLocation(context.Background()); err == nil {
		t.Error("disabled provider must not resolve a location")
	}
}

func TestIPLocator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"latitude": 54.57, "longitude": -1.23, "city": "Middlesbrough"}`))
	}))
	defer srv.Close()

	l := NewIPLocator(srv.URL)
	got, err := l.CurrentLocation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Lat != 54.57 || got.Lng != -1.23 {
		t.Errorf("coords = %+v", got)
	}
}

func TestIPLocatorRejectsZeroCoords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": true}`))
	}))
	defer srv.Close()

	if _, err := NewIPLocator(srv.URL).CurrentLocation(context.Background()); err == nil {
		t.Error("missing coordinates must be an error, not (0,0)")
	}
}

func TestIPLocatorBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := NewIPLocator(srv.URL).CurrentLocation(context.Background()); err == nil {
		t.Error("non-200 must be an error")
	}
}
