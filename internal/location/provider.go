package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/perktap/perktap/internal/config"
	"github.com/perktap/perktap/internal/model"
)

// Provider is the device-location collaborator. Both calls may block;
// bounds derivation waits on them.
type Provider interface {
	RequestPermission(ctx context.Context) (bool, error)
	CurrentLocation(ctx context.Context) (*model.Coordinates, error)
}

// FromConfig picks a provider for the configured location mode.
func FromConfig(cfg config.Location) Provider {
	switch cfg.Mode {
	case "static":
		return Static{Coords: model.Coordinates{Lat: cfg.StaticLat, Lng: cfg.StaticLng}}
	case "off":
		return Disabled{}
	default:
		return NewIPLocator(cfg.IPEndpoint)
	}
}

// Static serves pinned coordinates; used for tests and config-pinned
// setups.
type Static struct {
	Coords model.Coordinates
}

func (s Static) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

func (s Static) CurrentLocation(ctx context.Context) (*model.Coordinates, error) {
	c := s.Coords
	return &c, nil
}

// Disabled always denies permission.
type Disabled struct{}

func (Disabled) RequestPermission(ctx context.Context) (bool, error) {
	return false, nil
}

func (Disabled) CurrentLocation(ctx context.Context) (*model.Coordinates, error) {
	return nil, fmt.Errorf("location is disabled")
}

const defaultIPEndpoint = "https://ipapi.co/json"

// IPLocator approximates the device position from the public IP. Coarse,
// but good enough to center a ~5 km search box without platform location
// services.
type IPLocator struct {
	endpoint string
	http     *http.Client
}

func NewIPLocator(endpoint string) *IPLocator {
	if endpoint == "" {
		endpoint = defaultIPEndpoint
	}
	return &IPLocator{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (l *IPLocator) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

type ipResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l *IPLocator) CurrentLocation(ctx context.Context) (*model.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "perktap/0.1 (location lookup)")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("location request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("location lookup returned status %d", resp.StatusCode)
	}

	var result ipResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding location response: %w", err)
	}
	if result.Latitude == 0 && result.Longitude == 0 {
		return nil, fmt.Errorf("location lookup returned no coordinates")
	}

	return &model.Coordinates{Lat: result.Latitude, Lng: result.Longitude}, nil
}
