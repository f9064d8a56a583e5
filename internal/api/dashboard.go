package api

import (
	"log"
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/uppa/uppa_core/internal/fixtures"
	"github.com/uppa/uppa_core/internal/geo"
	"github.com/uppa/uppa_core/internal/middleware"
	"github.com/uppa/uppa_core/internal/models"
)

// nearbyReportRadiusKm bounds the dashboard's nearby-report list
const nearbyReportRadiusKm = 2.0

// Profile handles GET /v2/profile
func (h *Handler) Profile(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	state := sess.Store.State()

	return c.JSON(fiber.Map{
		"profile":                   state.CurrentUser,
		"connected_users":           state.ConnectedUsers,
		"pending_review_service_id": state.PendingReviewServiceID,
	})
}

// Dashboard handles GET /v2/dashboard: a location snapshot combining
// the reverse geocoder, the weather source and the session state.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	// Without coordinates the snapshot centers on the default map view
	location := fixtures.DefaultMapCenter
	if c.Query("lat") != "" || c.Query("lng") != "" {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			return c.Status(400).JSON(fiber.Map{
				"error": "lat and lng must both be valid coordinates",
			})
		}
		location = models.Coordinates{Lat: lat, Lng: lng}
	}

	address := ""
	if h.Geocoder != nil {
		resolved, err := h.Geocoder.ReverseGeocode(c.Context(), location)
		if err != nil {
			log.Printf("Warning: dashboard reverse geocode failed: %v", err)
		} else {
			address = resolved
		}
	}

	weather, err := h.Weather.Current(c.Context(), location)
	if err != nil {
		log.Printf("Warning: weather lookup failed: %v", err)
	}

	state := sess.Store.State()

	nearby := []models.Report{}
	for _, r := range state.Reports {
		if r.Location != nil && geo.Distance(location, *r.Location) <= nearbyReportRadiusKm {
			nearby = append(nearby, r)
		}
	}

	resp := fiber.Map{
		"address":         address,
		"weather":         weather,
		"connected_users": state.ConnectedUsers,
		"selected_line":   state.SelectedBusLineID,
		"nearest_stop":    state.NearestStop,
		"nearby_reports":  nearby,
	}
	if details, ok := fixtures.LineDetails()[state.SelectedBusLineID]; ok {
		resp["schedule"] = details.Schedule
	}

	return c.JSON(resp)
}

// ListLines handles GET /v2/lines
func (h *Handler) ListLines(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	state := sess.Store.State()

	ids := make([]string, 0, len(state.Buses))
	for id := range state.Buses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]models.Bus, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, state.Buses[id])
	}

	return c.JSON(fiber.Map{
		"lines": lines,
		"total": len(lines),
	})
}

// LineDetails handles GET /v2/lines/:id/details
func (h *Handler) LineDetails(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	lineID := c.Params("id")

	state := sess.Store.State()
	bus, ok := state.Buses[lineID]
	if !ok {
		return c.Status(404).JSON(fiber.Map{
			"error": "unknown bus line",
		})
	}

	resp := fiber.Map{
		"line":  bus,
		"stops": h.Stops[lineID],
	}
	if details, ok := fixtures.LineDetails()[lineID]; ok {
		resp["details"] = details
	}

	return c.JSON(resp)
}
