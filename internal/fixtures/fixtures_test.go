package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uppa/uppa_core/internal/models"
)

func TestBusLines(t *testing.T) {
	t.Run("Every line has a location and empty history", func(t *testing.T) {
		for id, bus := range BusLines() {
			assert.Equal(t, id, bus.ID)
			assert.NotNil(t, bus.CurrentLocation)
			assert.NotNil(t, bus.StatusEvents)
			assert.Empty(t, bus.StatusEvents)
		}
	})

	t.Run("Callers own the returned map", func(t *testing.T) {
		a := BusLines()
		bus := a["LINEA_39"]
		bus.LineName = "mutated"
		a["LINEA_39"] = bus

		b := BusLines()
		assert.Equal(t, "Línea 39", b["LINEA_39"].LineName)
	})
}

func TestBusStops(t *testing.T) {
	t.Run("Every line has stops", func(t *testing.T) {
		stops := BusStops()
		for id := range BusLines() {
			assert.NotEmpty(t, stops[id], "line %s has no stops", id)
		}
	})

	t.Run("Stops reference their own line", func(t *testing.T) {
		for lineID, stops := range BusStops() {
			for _, stop := range stops {
				assert.Contains(t, stop.BusLineIDs, lineID)
			}
		}
	})

	t.Run("Unknown line gives nil", func(t *testing.T) {
		assert.Nil(t, BusStops()["LINEA_999"])
	})
}

func TestPricing(t *testing.T) {
	pricing := Pricing()

	t.Run("Moto tiers", func(t *testing.T) {
		assert.Equal(t, 2000, pricing[models.ServiceMoto][1])
		assert.Equal(t, 10000, pricing[models.ServiceMoto][5])
	})

	t.Run("Remis tiers cost more", func(t *testing.T) {
		for hours := 1; hours <= 5; hours++ {
			assert.Greater(t, pricing[models.ServiceRemis][hours], pricing[models.ServiceMoto][hours])
		}
	})
}

func TestValidateStops(t *testing.T) {
	valid := models.BusStop{ID: "ok", Location: models.Coordinates{Lat: -34.6, Lng: -58.4}}

	tests := []struct {
		name  string
		stops []models.BusStop
		want  int
	}{
		{"Valid stop passes", []models.BusStop{valid}, 1},
		{"Latitude out of range", []models.BusStop{{ID: "bad", Location: models.Coordinates{Lat: 91, Lng: 0.1}}}, 0},
		{"Longitude out of range", []models.BusStop{{ID: "bad", Location: models.Coordinates{Lat: 0.1, Lng: -181}}}, 0},
		{"Null island dropped", []models.BusStop{{ID: "bad", Location: models.Coordinates{Lat: 0, Lng: 0}}}, 0},
		{"Mixed input keeps valid", []models.BusStop{valid, {ID: "bad", Location: models.Coordinates{Lat: 100, Lng: 0}}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ValidateStops(tt.stops), tt.want)
		})
	}

	t.Run("Fixture stops are all valid", func(t *testing.T) {
		for lineID, stops := range BusStops() {
			assert.Len(t, ValidateStops(stops), len(stops), "line %s", lineID)
		}
	})
}
