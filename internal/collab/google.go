package collab

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/uppa/uppa_core/internal/models"
)

// GoogleMaps implements RouteFetcher and Geocoder against the Google
// Maps Platform APIs.
type GoogleMaps struct {
	client *maps.Client
}

// NewGoogleMaps creates a client with the given API key
func NewGoogleMaps(apiKey string) (*GoogleMaps, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleMaps{client: client}, nil
}

func travelMode(mode models.TravelMode) maps.Mode {
	switch mode {
	case models.TravelBicycle:
		return maps.TravelModeBicycling
	case models.TravelWalk:
		return maps.TravelModeWalking
	default:
		return maps.TravelModeDriving
	}
}

// FetchRoute requests directions and condenses the first route into a
// RouteResult. A request that yields no routes is reported inside the
// result, not as an error, so it can be dispatched to the store as-is.
func (g *GoogleMaps) FetchRoute(ctx context.Context, origin, destination models.Coordinates, mode models.TravelMode) (*models.RouteResult, error) {
	req := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", destination.Lat, destination.Lng),
		Mode:        travelMode(mode),
	}

	routes, _, err := g.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return &models.RouteResult{Error: "No se encontró una ruta."}, nil
	}

	route := routes[0]
	leg := route.Legs[0]
	return &models.RouteResult{
		Duration: leg.Duration.String(),
		Distance: leg.Distance.HumanReadable,
		Polyline: route.OverviewPolyline.Points,
		Warnings: route.Warnings,
	}, nil
}

// ReverseGeocode returns the formatted address of the first geocoding
// match, or an empty string when the point resolves to nothing.
func (g *GoogleMaps) ReverseGeocode(ctx context.Context, location models.Coordinates) (string, error) {
	req := &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: location.Lat, Lng: location.Lng},
	}

	results, err := g.client.ReverseGeocode(ctx, req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode failed: %w", err)
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].FormattedAddress, nil
}
