// Package collab defines the external collaborators the core depends on
// and their concrete implementations. The store never calls these
// directly; callers invoke them and feed the results back as actions.
package collab

import (
	"context"

	"github.com/uppa/uppa_core/internal/models"
)

// Classifier resolves the sentiment of a piece of user text
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Sentiment, error)
}

// RouteFetcher plans a trip between two points
type RouteFetcher interface {
	FetchRoute(ctx context.Context, origin, destination models.Coordinates, mode models.TravelMode) (*models.RouteResult, error)
}

// Geocoder turns coordinates into a human-readable address
type Geocoder interface {
	ReverseGeocode(ctx context.Context, location models.Coordinates) (string, error)
}

// WeatherSource reports current conditions near a point
type WeatherSource interface {
	Current(ctx context.Context, location models.Coordinates) (models.WeatherInfo, error)
}

// Assistant answers free-text questions about a line and summarizes
// planned routes. No default implementation ships; deployments plug in
// their own generative backend.
type Assistant interface {
	Ask(ctx context.Context, busLineID, question string) (string, error)
	SummarizeRoute(ctx context.Context, result models.RouteResult) (string, error)
}
