package api

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/uppa/uppa_core/internal/middleware"
	"github.com/uppa/uppa_core/internal/models"
	"github.com/uppa/uppa_core/internal/store"
)

// StartRouteRequest is the trip-planning payload
type StartRouteRequest struct {
	Origin      models.Coordinates `json:"origin"`
	Destination models.Coordinates `json:"destination"`
	Mode        models.TravelMode  `json:"mode"`
}

// RouteStateResponse mirrors the route-planning slice of the state
type RouteStateResponse struct {
	Origin      *models.Coordinates `json:"origin,omitempty"`
	Destination *models.Coordinates `json:"destination,omitempty"`
	Mode        models.TravelMode   `json:"mode"`
	Loading     bool                `json:"loading"`
	Result      *models.RouteResult `json:"result,omitempty"`
	Summary     string              `json:"summary,omitempty"`
}

// StartRoute handles POST /v2/route: it records the request in the
// session state, asks the route fetcher and feeds the outcome back.
func (h *Handler) StartRoute(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	var req StartRouteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	switch req.Mode {
	case models.TravelDrive, models.TravelBicycle, models.TravelWalk:
	case "":
		req.Mode = models.TravelDrive
	default:
		return c.Status(400).JSON(fiber.Map{
			"error": "mode must be DRIVE, BICYCLE or WALK",
		})
	}

	sess.Store.Dispatch(store.StartRoute{
		Origin:      req.Origin,
		Destination: req.Destination,
		Mode:        req.Mode,
	})

	if h.Routes == nil {
		next := sess.Store.Dispatch(store.SetRouteResult{
			Result: &models.RouteResult{Error: "El planificador de rutas no está disponible."},
		})
		return c.Status(503).JSON(routeState(next))
	}

	result, err := h.Routes.FetchRoute(c.Context(), req.Origin, req.Destination, req.Mode)
	if err != nil {
		log.Printf("Route fetch failed: %v", err)
		result = &models.RouteResult{Error: "No se pudo calcular la ruta."}
	}
	next := sess.Store.Dispatch(store.SetRouteResult{Result: result})

	return c.JSON(routeState(next))
}

// GetRoute handles GET /v2/route
func (h *Handler) GetRoute(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	return c.JSON(routeState(sess.Store.State()))
}

// ClearRoute handles DELETE /v2/route
func (h *Handler) ClearRoute(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	next := sess.Store.Dispatch(store.ClearRoute{})
	return c.JSON(routeState(next))
}

func routeState(s store.AppState) RouteStateResponse {
	return RouteStateResponse{
		Origin:      s.RouteOrigin,
		Destination: s.RouteDestination,
		Mode:        s.TravelMode,
		Loading:     s.RouteLoading,
		Result:      s.RouteResult,
		Summary:     s.RouteSummary,
	}
}
