package api

import (
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/uppa/uppa_core/internal/cache"
	"github.com/uppa/uppa_core/internal/collab"
	"github.com/uppa/uppa_core/internal/db"
	"github.com/uppa/uppa_core/internal/fixtures"
	"github.com/uppa/uppa_core/internal/geo"
	"github.com/uppa/uppa_core/internal/middleware"
	"github.com/uppa/uppa_core/internal/models"
	"github.com/uppa/uppa_core/internal/session"
	"github.com/uppa/uppa_core/internal/store"
	"github.com/uppa/uppa_core/internal/views"
)

// Handler wires the HTTP surface to the session manager and the
// external collaborators. Routes and Geocoder may be nil when no Maps
// API key is configured; Assistant may be nil when no generative
// backend is plugged in. Stops holds the per-line stop network, loaded
// from PostgreSQL at startup with the embedded fixtures as fallback.
type Handler struct {
	Sessions  *session.Manager
	Routes    collab.RouteFetcher
	Geocoder  collab.Geocoder
	Weather   collab.WeatherSource
	Assistant collab.Assistant
	Stops     map[string][]models.BusStop
}

// LoginRequest is the session login payload
type LoginRequest struct {
	UserName string `json:"user_name"`
}

// LoginResponse returns the bearer token and the fresh profile
type LoginResponse struct {
	Token   string              `json:"token"`
	Profile *models.UserProfile `json:"profile"`
}

// Login handles POST /v2/session/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.UserName == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "user_name is required",
		})
	}

	sess := h.Sessions.Login(c.Context(), req.UserName)
	state := sess.Store.State()

	return c.Status(201).JSON(LoginResponse{
		Token:   sess.Token,
		Profile: state.CurrentUser,
	})
}

// Logout handles POST /v2/session/logout
func (h *Handler) Logout(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	h.Sessions.Logout(c.Context(), sess.Token)
	return c.JSON(fiber.Map{
		"status": "logged_out",
	})
}

// CreateReportRequest is the report submission payload
type CreateReportRequest struct {
	BusLineID   string                `json:"bus_line_id"`
	Type        models.ReportType     `json:"type"`
	Description string                `json:"description"`
	Location    *models.Coordinates   `json:"location,omitempty"`
	Details     *models.ReportDetails `json:"details,omitempty"`
}

// CreateReport handles POST /v2/reports
func (h *Handler) CreateReport(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	var req CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.BusLineID == "" || req.Type == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "bus_line_id and type are required",
		})
	}

	state := sess.Store.State()
	if _, ok := state.Buses[req.BusLineID]; !ok {
		return c.Status(404).JSON(fiber.Map{
			"error": "unknown bus line",
		})
	}

	report := models.Report{
		ID:          uuid.NewString(),
		UserID:      state.CurrentUser.ID,
		UserName:    state.CurrentUser.Name,
		BusLineID:   req.BusLineID,
		Type:        req.Type,
		Timestamp:   time.Now().UnixMilli(),
		Location:    req.Location,
		Description: req.Description,
		Details:     req.Details,
		Sentiment:   models.SentimentUnknown,
	}

	// Best effort: the report is just as useful without an address
	if report.Location != nil && h.Geocoder != nil {
		address, err := h.Geocoder.ReverseGeocode(c.Context(), *report.Location)
		if err != nil {
			log.Printf("Warning: reverse geocode failed for report %s: %v", report.ID, err)
		} else {
			report.Address = address
		}
	}

	next := sess.Store.Dispatch(store.AddReport{Report: report})

	return c.Status(201).JSON(fiber.Map{
		"report":  report,
		"profile": next.CurrentUser,
	})
}

// ListReports handles GET /v2/reports
func (h *Handler) ListReports(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	line := c.Query("line")
	filter := models.SentimentFilter(c.Query("sentiment", string(models.FilterAll)))
	switch filter {
	case models.FilterAll, models.FilterPositive, models.FilterNegative, models.FilterNeutral:
	default:
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid sentiment filter",
		})
	}

	reports := views.FilteredReports(sess.Store.State(), line, filter)
	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   len(reports),
	})
}

// UpvoteReport handles POST /v2/reports/:id/upvote
func (h *Handler) UpvoteReport(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	reportID := c.Params("id")

	next := sess.Store.Dispatch(store.UpvoteReport{ReportID: reportID})
	for _, r := range next.Reports {
		if r.ID == reportID {
			return c.JSON(r)
		}
	}

	return c.Status(404).JSON(fiber.Map{
		"error": "report not found",
	})
}

// PostMessageRequest is the chat message payload
type PostMessageRequest struct {
	Text  string `json:"text"`
	Emoji string `json:"emoji,omitempty"`
}

// PostChatMessage handles POST /v2/chat/:lineId/messages
func (h *Handler) PostChatMessage(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	lineID := c.Params("lineId")

	var req PostMessageRequest
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "text is required",
		})
	}

	state := sess.Store.State()
	if _, ok := state.Buses[lineID]; !ok {
		return c.Status(404).JSON(fiber.Map{
			"error": "unknown bus line",
		})
	}

	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    state.CurrentUser.ID,
		UserName:  state.CurrentUser.Name,
		BusLineID: lineID,
		Timestamp: time.Now().UnixMilli(),
		Text:      req.Text,
		Emoji:     req.Emoji,
		Sentiment: models.SentimentUnknown,
	}
	sess.Store.Dispatch(store.AddChatMessage{Message: msg})

	return c.Status(201).JSON(msg)
}

// ListChatMessages handles GET /v2/chat/:lineId/messages
func (h *Handler) ListChatMessages(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	lineID := c.Params("lineId")

	state := sess.Store.State()
	if _, ok := state.Buses[lineID]; !ok {
		return c.Status(404).JSON(fiber.Map{
			"error": "unknown bus line",
		})
	}

	msgs := state.ChatMessages[lineID]
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	return c.JSON(fiber.Map{
		"messages": msgs,
	})
}

// PostGlobalChatMessage handles POST /v2/micromobility/chat
func (h *Handler) PostGlobalChatMessage(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	var req PostMessageRequest
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "text is required",
		})
	}

	state := sess.Store.State()
	msg := models.GlobalChatMessage{
		ID:        uuid.NewString(),
		UserID:    state.CurrentUser.ID,
		UserName:  state.CurrentUser.Name,
		Timestamp: time.Now().UnixMilli(),
		Text:      req.Text,
		Emoji:     req.Emoji,
		Sentiment: models.SentimentUnknown,
	}
	sess.Store.Dispatch(store.AddGlobalChatMessage{Message: msg})

	return c.Status(201).JSON(msg)
}

// ListGlobalChatMessages handles GET /v2/micromobility/chat
func (h *Handler) ListGlobalChatMessages(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	return c.JSON(fiber.Map{
		"messages": sess.Store.State().GlobalChatMessages,
	})
}

// RegisterServiceRequest is the service registration payload. An ID is
// only present when updating an existing service.
type RegisterServiceRequest struct {
	ID                string             `json:"id,omitempty"`
	ServiceName       string             `json:"service_name"`
	Type              models.ServiceType `json:"type"`
	VehicleModel      string             `json:"vehicle_model"`
	VehicleColor      string             `json:"vehicle_color"`
	WhatsApp          string             `json:"whatsapp"`
	Location          models.Coordinates `json:"location"`
	SubscriptionHours int                `json:"subscription_hours"`
}

// RegisterService handles POST /v2/micromobility/services
func (h *Handler) RegisterService(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	var req RegisterServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Type != models.ServiceMoto && req.Type != models.ServiceRemis {
		return c.Status(400).JSON(fiber.Map{
			"error": "type must be Moto or Remis",
		})
	}
	if req.ServiceName == "" || req.SubscriptionHours < 1 || req.SubscriptionHours > 5 {
		return c.Status(400).JSON(fiber.Map{
			"error": "service_name is required and subscription_hours must be 1-5",
		})
	}

	state := sess.Store.State()
	svc := models.MicromobilityService{
		ID:                req.ID,
		ProviderUserID:    state.CurrentUser.ID,
		ProviderName:      state.CurrentUser.Name,
		ServiceName:       req.ServiceName,
		Type:              req.Type,
		VehicleModel:      req.VehicleModel,
		VehicleColor:      req.VehicleColor,
		WhatsApp:          req.WhatsApp,
		Location:          req.Location,
		IsPendingPayment:  true,
		RegisteredAt:      time.Now().UnixMilli(),
		SubscriptionHours: req.SubscriptionHours,
		RatingHistory:     []models.RatingHistoryEntry{},
		EcoScore:          40 + rand.Intn(40),
	}
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	} else if idx := findOwnedService(state, svc.ID, state.CurrentUser.ID); idx >= 0 {
		// Updates keep the earned reputation and lifecycle flags
		prev := state.Services[idx]
		svc.IsActive = prev.IsActive
		svc.IsPendingPayment = prev.IsPendingPayment
		svc.IsAvailable = prev.IsAvailable
		svc.IsOccupied = prev.IsOccupied
		svc.RegisteredAt = prev.RegisteredAt
		svc.SubscriptionExpiry = prev.SubscriptionExpiry
		svc.CompletedTrips = prev.CompletedTrips
		svc.Rating = prev.Rating
		svc.TotalRatingPoints = prev.TotalRatingPoints
		svc.NumberOfRatings = prev.NumberOfRatings
		svc.RatingHistory = prev.RatingHistory
		svc.AvgPunctuality = prev.AvgPunctuality
		svc.AvgSafety = prev.AvgSafety
		svc.AvgCleanliness = prev.AvgCleanliness
		svc.AvgKindness = prev.AvgKindness
		svc.EcoScore = prev.EcoScore
	} else {
		return c.Status(404).JSON(fiber.Map{
			"error": "service not found",
		})
	}

	next := sess.Store.Dispatch(store.RegisterService{Service: svc})
	if next.Error != "" {
		return c.Status(422).JSON(fiber.Map{
			"error": next.Error,
		})
	}

	return c.Status(201).JSON(svc)
}

// ConfirmPayment handles POST /v2/micromobility/services/:id/payment
func (h *Handler) ConfirmPayment(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	serviceID := c.Params("id")

	state := sess.Store.State()
	if findOwnedService(state, serviceID, state.CurrentUser.ID) < 0 {
		return c.Status(404).JSON(fiber.Map{
			"error": "service not found",
		})
	}

	next := sess.Store.Dispatch(store.ConfirmServicePayment{
		ServiceID: serviceID,
		Now:       time.Now().UnixMilli(),
	})
	if next.Error != "" {
		return c.Status(402).JSON(fiber.Map{
			"error": next.Error,
		})
	}

	return c.JSON(fiber.Map{
		"service": serviceByID(next, serviceID),
		"profile": next.CurrentUser,
	})
}

// ToggleAvailability handles POST /v2/micromobility/services/:id/availability
func (h *Handler) ToggleAvailability(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	serviceID := c.Params("id")

	state := sess.Store.State()
	if findOwnedService(state, serviceID, state.CurrentUser.ID) < 0 {
		return c.Status(404).JSON(fiber.Map{
			"error": "service not found",
		})
	}

	next := sess.Store.Dispatch(store.ToggleServiceAvailability{ServiceID: serviceID})
	return c.JSON(serviceByID(next, serviceID))
}

// ToggleOccupied handles POST /v2/micromobility/services/:id/occupied
func (h *Handler) ToggleOccupied(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	serviceID := c.Params("id")

	state := sess.Store.State()
	if findOwnedService(state, serviceID, state.CurrentUser.ID) < 0 {
		return c.Status(404).JSON(fiber.Map{
			"error": "service not found",
		})
	}

	next := sess.Store.Dispatch(store.ToggleServiceOccupied{ServiceID: serviceID})
	return c.JSON(fiber.Map{
		"service":                   serviceByID(next, serviceID),
		"profile":                   next.CurrentUser,
		"pending_review_service_id": next.PendingReviewServiceID,
	})
}

// SubmitReviewRequest is the post-trip review payload
type SubmitReviewRequest struct {
	OverallRating int                 `json:"overall_rating"`
	Scores        models.RatingScores `json:"scores"`
	Comment       string              `json:"comment,omitempty"`
	MediaURL      string              `json:"media_url,omitempty"`
}

// SubmitReview handles POST /v2/micromobility/services/:id/reviews
func (h *Handler) SubmitReview(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	serviceID := c.Params("id")

	var req SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if !validScore(req.OverallRating) || !validScore(req.Scores.Punctuality) ||
		!validScore(req.Scores.Safety) || !validScore(req.Scores.Cleanliness) ||
		!validScore(req.Scores.Kindness) {
		return c.Status(400).JSON(fiber.Map{
			"error": "all scores must be between 1 and 5",
		})
	}

	state := sess.Store.State()
	if idx := findServiceInState(state, serviceID); idx < 0 {
		return c.Status(404).JSON(fiber.Map{
			"error": "service not found",
		})
	}

	next := sess.Store.Dispatch(store.SubmitTripReview{
		ServiceID:     serviceID,
		Timestamp:     time.Now().UnixMilli(),
		OverallRating: req.OverallRating,
		Scores:        req.Scores,
		Comment:       req.Comment,
		MediaURL:      req.MediaURL,
	})

	return c.Status(201).JSON(fiber.Map{
		"service": serviceByID(next, serviceID),
		"profile": next.CurrentUser,
	})
}

// Ranking handles GET /v2/micromobility/ranking. The snapshot is cached
// in Redis per session; the rebuild runs under a SetNX lock so
// concurrent misses don't stampede, late arrivals wait for the holder's
// result instead.
func (h *Handler) Ranking(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	ctx := c.Context()
	cfg := cache.LoadConfigFromEnv()

	cacheKey := cache.RankingKey(sess.Token)
	if cached, err := cache.GetRanking(ctx, cacheKey); err == nil && cached != nil {
		return c.JSON(fiber.Map{
			"ranking": cached,
			"cached":  true,
		})
	}

	lockKey := cache.LockKey(cacheKey)
	acquired, err := cache.AcquireLock(ctx, lockKey, cfg.MutexTTL)
	if err != nil {
		// Redis down: recompute locally, skip the cache
		log.Printf("Warning: ranking lock unavailable: %v", err)
	} else if !acquired {
		if cached, err := cache.WaitForRanking(ctx, cacheKey, cfg.MutexTTL); err == nil && cached != nil {
			return c.JSON(fiber.Map{
				"ranking": cached,
				"cached":  true,
			})
		}
		// Holder never published; fall through and rebuild ourselves
	} else {
		defer func() {
			if err := cache.ReleaseLock(ctx, lockKey); err != nil {
				log.Printf("Warning: failed to release ranking lock: %v", err)
			}
		}()
	}

	ranking := views.Ranking(sess.Store.State())
	if err := cache.SetRanking(ctx, cacheKey, ranking, cfg.RankingTTL); err != nil {
		log.Printf("Warning: failed to cache ranking: %v", err)
	}

	return c.JSON(fiber.Map{
		"ranking": ranking,
	})
}

// MapEvents handles GET /v2/map/events
func (h *Handler) MapEvents(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	events := views.MapEvents(sess.Store.State())
	return c.JSON(fiber.Map{
		"events": events,
		"total":  len(events),
	})
}

// NearestStop handles GET /v2/stops/nearest
func (h *Handler) NearestStop(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	lineID := c.Query("line")
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if lineID == "" || errLat != nil || errLng != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "line, lat and lng are required",
		})
	}

	stops, ok := h.Stops[lineID]
	if !ok {
		return c.Status(404).JSON(fiber.Map{
			"error": "unknown bus line",
		})
	}

	stop := geo.NearestStop(models.Coordinates{Lat: lat, Lng: lng}, fixtures.ValidateStops(stops))
	if stop == nil {
		return c.Status(404).JSON(fiber.Map{
			"error": "no stops found for line",
		})
	}

	info := &models.NearestStopInfo{Stop: *stop, ForBusLineID: lineID}
	sess.Store.Dispatch(store.SetNearestStop{Info: info})

	return c.JSON(info)
}

func validScore(v int) bool {
	return v >= 1 && v <= 5
}

func findOwnedService(s store.AppState, serviceID, userID string) int {
	for i := range s.Services {
		if s.Services[i].ID == serviceID && s.Services[i].ProviderUserID == userID {
			return i
		}
	}
	return -1
}

func findServiceInState(s store.AppState, serviceID string) int {
	for i := range s.Services {
		if s.Services[i].ID == serviceID {
			return i
		}
	}
	return -1
}

func serviceByID(s store.AppState, serviceID string) *models.MicromobilityService {
	if idx := findServiceInState(s, serviceID); idx >= 0 {
		svc := s.Services[idx]
		return &svc
	}
	return nil
}

// Health handles the /health endpoint
func Health(c *fiber.Ctx) error {
	ctx := c.Context()

	dbErr := db.HealthCheck(ctx)
	dbStatus := "ok"
	if dbErr != nil {
		dbStatus = dbErr.Error()
	}

	redisErr := cache.HealthCheck(ctx)
	redisStatus := "ok"
	if redisErr != nil {
		redisStatus = redisErr.Error()
	}

	status := "healthy"
	httpStatus := 200
	if dbErr != nil || redisErr != nil {
		status = "unhealthy"
		httpStatus = 503
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
