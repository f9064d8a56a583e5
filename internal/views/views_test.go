package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uppa/uppa_core/internal/fixtures"
	"github.com/uppa/uppa_core/internal/models"
	"github.com/uppa/uppa_core/internal/store"
)

func testState() store.AppState {
	return store.NewState(fixtures.BusLines())
}

func service(id string, active, available, occupied bool) models.MicromobilityService {
	return models.MicromobilityService{
		ID:          id,
		ServiceName: "Servicio " + id,
		Type:        models.ServiceMoto,
		Location:    models.Coordinates{Lat: -34.09, Lng: -59.02},
		IsActive:    active,
		IsAvailable: available,
		IsOccupied:  occupied,
	}
}

func TestMapEvents(t *testing.T) {
	t.Run("Reports without location are skipped", func(t *testing.T) {
		s := testState()
		s.Buses = map[string]models.Bus{}
		s.Reports = []models.Report{
			{ID: "r1", Type: models.ReportDelay},
			{ID: "r2", Type: models.ReportDelay, Location: &models.Coordinates{Lat: 1, Lng: 2}},
		}

		events := MapEvents(s)
		assert.Len(t, events, 1)
		assert.Equal(t, "r2", events[0].ID)
		assert.Equal(t, models.EventReport, events[0].Type)
	})

	t.Run("Only active and available services appear", func(t *testing.T) {
		s := testState()
		s.Buses = map[string]models.Bus{}
		s.Services = []models.MicromobilityService{
			service("visible", true, true, false),
			service("inactive", false, true, false),
			service("unavailable", true, false, false),
		}

		events := MapEvents(s)
		assert.Len(t, events, 1)
		assert.Equal(t, "service_visible", events[0].ID)
	})

	t.Run("Occupied but available services still appear", func(t *testing.T) {
		s := testState()
		s.Buses = map[string]models.Bus{}
		s.Services = []models.MicromobilityService{
			service("busy", true, true, true),
		}

		events := MapEvents(s)
		assert.Len(t, events, 1)
		assert.True(t, events[0].IsOccupied)
	})

	t.Run("Remis services get the remis event type", func(t *testing.T) {
		s := testState()
		s.Buses = map[string]models.Bus{}
		svc := service("remis1", true, true, false)
		svc.Type = models.ServiceRemis
		s.Services = []models.MicromobilityService{svc}

		events := MapEvents(s)
		assert.Equal(t, models.EventRemis, events[0].Type)
		assert.Equal(t, "fas fa-car", events[0].Icon)
	})

	t.Run("Buses come last in id order", func(t *testing.T) {
		s := testState()
		s.Reports = []models.Report{
			{ID: "r1", Type: models.ReportDelay, Location: &models.Coordinates{Lat: 1, Lng: 2}},
		}

		events := MapEvents(s)
		assert.Equal(t, "r1", events[0].ID)

		busIDs := []string{}
		for _, e := range events[1:] {
			assert.True(t, e.IsBus)
			busIDs = append(busIDs, e.BusLineID)
		}
		assert.Equal(t, []string{"LINEA_152", "LINEA_194", "LINEA_228CB", "LINEA_39"}, busIDs)
	})

	t.Run("Same state gives the same events", func(t *testing.T) {
		s := testState()
		s.Services = []models.MicromobilityService{service("svc1", true, true, false)}
		assert.Equal(t, MapEvents(s), MapEvents(s))
	})
}

func TestFilteredReports(t *testing.T) {
	s := testState()
	s.Reports = []models.Report{
		{ID: "r3", BusLineID: "LINEA_39", Sentiment: models.SentimentNegative},
		{ID: "r2", BusLineID: "LINEA_152", Sentiment: models.SentimentPositive},
		{ID: "r1", BusLineID: "LINEA_152", Sentiment: models.SentimentNegative},
	}

	t.Run("Line filter narrows, order is preserved", func(t *testing.T) {
		got := FilteredReports(s, "LINEA_152", models.FilterAll)
		assert.Len(t, got, 2)
		assert.Equal(t, "r2", got[0].ID)
		assert.Equal(t, "r1", got[1].ID)
	})

	t.Run("Sentiment filter composes with line filter", func(t *testing.T) {
		got := FilteredReports(s, "LINEA_152", models.FilterNegative)
		assert.Len(t, got, 1)
		assert.Equal(t, "r1", got[0].ID)
	})

	t.Run("Empty line matches every line", func(t *testing.T) {
		got := FilteredReports(s, "", models.FilterNegative)
		assert.Len(t, got, 2)
	})

	t.Run("No match gives an empty slice", func(t *testing.T) {
		got := FilteredReports(s, "LINEA_999", models.FilterAll)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestRanking(t *testing.T) {
	t.Run("Inactive services are excluded", func(t *testing.T) {
		s := testState()
		s.Services = []models.MicromobilityService{
			service("active", true, true, false),
			service("inactive", false, false, false),
		}

		ranked := Ranking(s)
		assert.Len(t, ranked, 1)
		assert.Equal(t, "active", ranked[0].ID)
	})

	t.Run("Rating descends, trips break ties", func(t *testing.T) {
		a := service("a", true, true, false)
		a.Rating = 4.5
		a.CompletedTrips = 10
		b := service("b", true, true, false)
		b.Rating = 4.8
		b.CompletedTrips = 2
		c := service("c", true, true, false)
		c.Rating = 4.5
		c.CompletedTrips = 30

		s := testState()
		s.Services = []models.MicromobilityService{a, b, c}

		ranked := Ranking(s)
		assert.Equal(t, []string{"b", "c", "a"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID})
	})

	t.Run("Full ties keep registration order", func(t *testing.T) {
		first := service("first", true, true, false)
		second := service("second", true, true, false)

		s := testState()
		s.Services = []models.MicromobilityService{first, second}

		ranked := Ranking(s)
		assert.Equal(t, "first", ranked[0].ID)
		assert.Equal(t, "second", ranked[1].ID)
	})

	t.Run("Source slice is untouched", func(t *testing.T) {
		a := service("a", true, true, false)
		b := service("b", true, true, false)
		b.Rating = 5

		s := testState()
		s.Services = []models.MicromobilityService{a, b}

		_ = Ranking(s)
		assert.Equal(t, "a", s.Services[0].ID)
	})
}

func TestServicesForProvider(t *testing.T) {
	mine := service("mine", true, true, false)
	mine.ProviderUserID = "u1"
	other := service("other", true, true, false)
	other.ProviderUserID = "u2"

	s := testState()
	s.Services = []models.MicromobilityService{mine, other}

	got := ServicesForProvider(s, "u1")
	assert.Len(t, got, 1)
	assert.Equal(t, "mine", got[0].ID)
}
