package geo

import (
	"math"

	"github.com/uppa/uppa_core/internal/models"
)

// kmPerDegree is the approximate length of one degree at Buenos Aires
// latitudes. An equirectangular approximation is plenty for ranking
// stops a few kilometers apart.
const kmPerDegree = 111.0

// Distance returns the approximate planar distance between two points
// in kilometers.
func Distance(a, b models.Coordinates) float64 {
	dx := (b.Lng - a.Lng) * kmPerDegree
	dy := (b.Lat - a.Lat) * kmPerDegree
	return math.Sqrt(dx*dx + dy*dy)
}

// NearestStop returns the stop closest to the given location. Ties keep
// the earliest stop in the slice, so the result is stable for a fixed
// input order. Returns nil for an empty slice.
func NearestStop(location models.Coordinates, stops []models.BusStop) *models.BusStop {
	if len(stops) == 0 {
		return nil
	}

	best := 0
	bestDist := Distance(location, stops[0].Location)
	for i := 1; i < len(stops); i++ {
		if d := Distance(location, stops[i].Location); d < bestDist {
			best = i
			bestDist = d
		}
	}

	stop := stops[best]
	return &stop
}
