package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uppa/uppa_core/internal/models"
)

func TestDistance(t *testing.T) {
	t.Run("Identical points are zero apart", func(t *testing.T) {
		p := models.Coordinates{Lat: -34.6037, Lng: -58.3816}
		assert.Equal(t, 0.0, Distance(p, p))
	})

	t.Run("One degree of latitude is about 111 km", func(t *testing.T) {
		a := models.Coordinates{Lat: -34.0, Lng: -58.0}
		b := models.Coordinates{Lat: -35.0, Lng: -58.0}
		assert.InDelta(t, 111.0, Distance(a, b), 1e-9)
	})

	t.Run("Both axes contribute", func(t *testing.T) {
		a := models.Coordinates{Lat: 0, Lng: 0}
		b := models.Coordinates{Lat: 3, Lng: 4}
		// sqrt((3*111)^2 + (4*111)^2) = 5*111
		assert.InDelta(t, 555.0, Distance(a, b), 1e-9)
	})

	t.Run("Distance is symmetric", func(t *testing.T) {
		a := models.Coordinates{Lat: -34.60, Lng: -58.38}
		b := models.Coordinates{Lat: -34.09, Lng: -59.02}
		assert.Equal(t, Distance(a, b), Distance(b, a))
	})
}

func TestNearestStop(t *testing.T) {
	stops := []models.BusStop{
		{ID: "s1", Location: models.Coordinates{Lat: -34.60, Lng: -58.38}},
		{ID: "s2", Location: models.Coordinates{Lat: -34.50, Lng: -58.48}},
		{ID: "s3", Location: models.Coordinates{Lat: -34.10, Lng: -59.02}},
	}

	t.Run("Empty slice gives nil", func(t *testing.T) {
		assert.Nil(t, NearestStop(models.Coordinates{}, nil))
	})

	t.Run("Closest stop wins", func(t *testing.T) {
		got := NearestStop(models.Coordinates{Lat: -34.09, Lng: -59.03}, stops)
		assert.Equal(t, "s3", got.ID)
	})

	t.Run("Exact match wins", func(t *testing.T) {
		got := NearestStop(stops[1].Location, stops)
		assert.Equal(t, "s2", got.ID)
	})

	t.Run("Ties keep the earliest stop", func(t *testing.T) {
		tied := []models.BusStop{
			{ID: "a", Location: models.Coordinates{Lat: 1, Lng: 0}},
			{ID: "b", Location: models.Coordinates{Lat: -1, Lng: 0}},
		}
		got := NearestStop(models.Coordinates{Lat: 0, Lng: 0}, tied)
		assert.Equal(t, "a", got.ID)
	})

	t.Run("Result is a copy", func(t *testing.T) {
		got := NearestStop(models.Coordinates{Lat: -34.60, Lng: -58.38}, stops)
		got.ID = "mutated"
		assert.Equal(t, "s1", stops[0].ID)
	})
}
