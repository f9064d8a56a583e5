package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uppa/uppa_core/internal/collab"
	"github.com/uppa/uppa_core/internal/fixtures"
	"github.com/uppa/uppa_core/internal/models"
	"github.com/uppa/uppa_core/internal/session"
	"github.com/uppa/uppa_core/internal/store"
)

func testSession(userName string) *session.Session {
	st := store.New(store.NewState(fixtures.BusLines()), store.DefaultConfig())
	st.Dispatch(store.Login{UserName: userName})
	return &session.Session{Token: "test-token", UserName: userName, Store: st}
}

// testApp mounts a handler behind a stub that injects the session the
// way the auth middleware does.
func testApp(h *Handler, sess *session.Session) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("session", sess)
		return c.Next()
	})
	app.Get("/v2/stops/nearest", h.NearestStop)
	app.Get("/v2/dashboard", h.Dashboard)
	return app
}

func TestNearestStopHandler(t *testing.T) {
	// A line that only exists in the injected network proves the
	// handler serves the loaded stops, not a hardcoded set.
	stops := map[string][]models.BusStop{
		"LINEA_TEST": {
			{ID: "s1", Name: "Cerca", Location: models.Coordinates{Lat: -34.60, Lng: -58.38}, BusLineIDs: []string{"LINEA_TEST"}},
			{ID: "s2", Name: "Lejos", Location: models.Coordinates{Lat: -34.90, Lng: -58.70}, BusLineIDs: []string{"LINEA_TEST"}},
		},
	}
	sess := testSession("Ana")
	app := testApp(&Handler{Stops: stops}, sess)

	t.Run("Serves the loaded stop network", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/v2/stops/nearest?line=LINEA_TEST&lat=-34.601&lng=-58.381", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var info models.NearestStopInfo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
		assert.Equal(t, "s1", info.Stop.ID)
		assert.Equal(t, "LINEA_TEST", info.ForBusLineID)

		state := sess.Store.State()
		require.NotNil(t, state.NearestStop)
		assert.Equal(t, "s1", state.NearestStop.Stop.ID)
	})

	t.Run("Unknown line is a 404", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/v2/stops/nearest?line=LINEA_39&lat=-34.6&lng=-58.4", nil))
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("Missing coordinates are a 400", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/v2/stops/nearest?line=LINEA_TEST", nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestDashboardHandler(t *testing.T) {
	h := &Handler{
		Weather: collab.NewSimulatedWeather(1),
		Stops:   fixtures.BusStops(),
	}

	t.Run("Defaults to the map center without coordinates", func(t *testing.T) {
		app := testApp(h, testSession("Ana"))
		resp, err := app.Test(httptest.NewRequest("GET", "/v2/dashboard", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body, "weather")
		assert.Contains(t, body, "nearby_reports")
	})

	t.Run("Malformed coordinates are a 400", func(t *testing.T) {
		app := testApp(h, testSession("Ana"))
		resp, err := app.Test(httptest.NewRequest("GET", "/v2/dashboard?lat=abc&lng=-58.4", nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Nearby reports stay within the radius", func(t *testing.T) {
		sess := testSession("Ana")
		sess.Store.Dispatch(store.AddReport{Report: models.Report{
			ID: "near", BusLineID: "LINEA_152", Type: models.ReportDelay,
			Location: &models.Coordinates{Lat: -34.6040, Lng: -58.3820},
		}})
		sess.Store.Dispatch(store.AddReport{Report: models.Report{
			ID: "far", BusLineID: "LINEA_152", Type: models.ReportDelay,
			Location: &models.Coordinates{Lat: -34.0925, Lng: -59.0260},
		}})

		app := testApp(h, sess)
		resp, err := app.Test(httptest.NewRequest("GET", "/v2/dashboard?lat=-34.6037&lng=-58.3816", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body struct {
			NearbyReports []models.Report `json:"nearby_reports"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.NearbyReports, 1)
		assert.Equal(t, "near", body.NearbyReports[0].ID)
	})
}
