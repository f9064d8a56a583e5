package store

import (
	"fmt"
	"net/url"

	"github.com/uppa/uppa_core/internal/fixtures"
	"github.com/uppa/uppa_core/internal/models"
)

// busHistoryCap bounds each bus's rolling report-id history
const busHistoryCap = 5

// Config holds the reducer's business constants
type Config struct {
	Pricing                map[models.ServiceType]map[int]int
	MaxServicesPerProvider int
	StartingTokens         int
	DefaultUserID          string
}

// DefaultConfig returns the production constants from the fixtures package
func DefaultConfig() Config {
	return Config{
		Pricing:                fixtures.Pricing(),
		MaxServicesPerProvider: fixtures.MaxServicesPerProvider,
		StartingTokens:         fixtures.StartingTokens,
		DefaultUserID:          fixtures.DefaultUserID,
	}
}

// Reducer computes state transitions. It is a pure function of
// (state, action) for a fixed configuration: no side effects, no clocks,
// no randomness. Unknown actions return the state unchanged.
type Reducer struct {
	initial AppState
	cfg     Config
}

// NewReducer builds a reducer around the given initial state and config
func NewReducer(initial AppState, cfg Config) *Reducer {
	return &Reducer{initial: initial, cfg: cfg}
}

// Apply computes the next state. It never mutates s; changed collections
// are copied, unchanged ones are shared.
func (r *Reducer) Apply(s AppState, action Action) AppState {
	switch a := action.(type) {
	case Login:
		s.Authenticated = true
		s.CurrentUser = &models.UserProfile{
			ID:            r.cfg.DefaultUserID,
			Name:          a.UserName,
			Avatar:        avatarURL(a.UserName),
			Level:         1,
			XP:            0,
			XPToNextLevel: fixtures.StartingXPToNextLevel,
			Tokens:        r.cfg.StartingTokens,
			Badges:        []string{},
		}
		s.Loading = false
		s.Error = ""
		return s

	case Logout:
		next := r.initial
		next.MapReady = s.MapReady
		next.Loading = false
		return next

	case AddReport:
		if s.CurrentUser == nil {
			return s
		}
		user := applyProgress(*s.CurrentUser, RewardReportXP, RewardReportTokens)

		reports := make([]models.Report, 0, len(s.Reports)+1)
		reports = append(reports, a.Report)
		reports = append(reports, s.Reports...)
		s.Reports = reports

		if bus, ok := s.Buses[a.Report.BusLineID]; ok {
			events := make([]string, 0, len(bus.StatusEvents)+1)
			events = append(events, a.Report.ID)
			events = append(events, bus.StatusEvents...)
			if len(events) > busHistoryCap {
				events = events[:busHistoryCap]
			}
			bus.StatusEvents = events
			if a.Report.Type == models.ReportLocationUpdate && a.Report.Location != nil {
				loc := *a.Report.Location
				bus.CurrentLocation = &loc
			}
			buses := copyBuses(s.Buses)
			buses[a.Report.BusLineID] = bus
			s.Buses = buses
		}

		s.CurrentUser = &user
		s.Error = ""
		return s

	case AddChatMessage:
		if s.CurrentUser == nil {
			return s
		}
		existing := s.ChatMessages[a.Message.BusLineID]
		line := make([]models.ChatMessage, 0, len(existing)+1)
		line = append(line, existing...)
		line = append(line, a.Message)

		chats := copyChats(s.ChatMessages)
		chats[a.Message.BusLineID] = line
		s.ChatMessages = chats
		s.Error = ""
		return s

	case AddGlobalChatMessage:
		if s.CurrentUser == nil {
			return s
		}
		msgs := make([]models.GlobalChatMessage, 0, len(s.GlobalChatMessages)+1)
		msgs = append(msgs, s.GlobalChatMessages...)
		msgs = append(msgs, a.Message)
		s.GlobalChatMessages = msgs
		s.Error = ""
		return s

	case UpvoteReport:
		idx := findReport(s.Reports, a.ReportID)
		if idx < 0 {
			return s
		}
		reports := append([]models.Report(nil), s.Reports...)
		reports[idx].Upvotes++
		s.Reports = reports
		return s

	case SetBusLocation:
		bus, ok := s.Buses[a.BusLineID]
		if !ok {
			return s
		}
		loc := a.Location
		bus.CurrentLocation = &loc
		buses := copyBuses(s.Buses)
		buses[a.BusLineID] = bus
		s.Buses = buses
		return s

	case SelectBusLine:
		s.VehicleFocus = models.FocusBus
		s.SelectedBusLineID = a.BusLineID
		s.AssistantQuestion = ""
		s.AssistantResponse = ""
		s.ReportSentimentFilter = models.FilterAll
		s.NearestStop = nil
		return s

	case SetLoading:
		s.Loading = a.Loading
		return s

	case SetError:
		s.Error = a.Message
		s.Loading = false
		return s

	case SetMapReady:
		s.MapReady = a.Ready
		if !s.Authenticated {
			s.Loading = !a.Ready
		}
		return s

	case SetSentiment:
		return r.applySentiment(s, a)

	case SetReviewSentiment:
		idx := findService(s.Services, a.ServiceID)
		if idx < 0 {
			return s
		}
		svc := s.Services[idx]
		entry := -1
		for i := range svc.RatingHistory {
			if svc.RatingHistory[i].Timestamp == a.Timestamp {
				entry = i
				break
			}
		}
		if entry < 0 {
			return s
		}
		history := append([]models.RatingHistoryEntry(nil), svc.RatingHistory...)
		history[entry].Sentiment = a.Sentiment
		svc.RatingHistory = history

		services := append([]models.MicromobilityService(nil), s.Services...)
		services[idx] = svc
		s.Services = services
		return s

	case SetAssistantQuestion:
		s.AssistantQuestion = a.Text
		return s

	case SetAssistantResponse:
		s.AssistantResponse = a.Text
		s.AssistantLoading = false
		return s

	case SetAssistantLoading:
		s.AssistantLoading = a.Loading
		s.Error = ""
		return s

	case RegisterService:
		if s.CurrentUser == nil {
			return s
		}
		if idx := findService(s.Services, a.Service.ID); idx >= 0 {
			services := append([]models.MicromobilityService(nil), s.Services...)
			services[idx] = a.Service
			s.Services = services
			return s
		}
		owned := 0
		for i := range s.Services {
			if s.Services[i].ProviderUserID == s.CurrentUser.ID {
				owned++
			}
		}
		if owned >= r.cfg.MaxServicesPerProvider {
			s.Error = fmt.Sprintf("No puedes registrar más de %d servicios.", r.cfg.MaxServicesPerProvider)
			return s
		}
		services := make([]models.MicromobilityService, 0, len(s.Services)+1)
		services = append(services, s.Services...)
		services = append(services, a.Service)
		s.Services = services
		return s

	case ConfirmServicePayment:
		idx := findService(s.Services, a.ServiceID)
		if idx < 0 || s.CurrentUser == nil {
			return s
		}
		svc := s.Services[idx]
		price, ok := r.cfg.Pricing[svc.Type][svc.SubscriptionHours]
		if !ok {
			s.Error = "Precio no definido para este abono."
			return s
		}
		if s.CurrentUser.Tokens < price {
			s.Error = fmt.Sprintf("No tienes suficientes Fichas (%d) para activar este servicio.", price)
			return s
		}

		user := *s.CurrentUser
		user.Tokens -= price

		svc.IsPendingPayment = false
		svc.IsActive = true
		svc.IsAvailable = true
		svc.SubscriptionExpiry = a.Now + int64(svc.SubscriptionHours)*60*60*1000

		services := append([]models.MicromobilityService(nil), s.Services...)
		services[idx] = svc
		s.Services = services
		s.CurrentUser = &user
		return s

	case DeactivateExpiredServices:
		changed := false
		for i := range s.Services {
			svc := &s.Services[i]
			if svc.IsActive && svc.SubscriptionExpiry != 0 && svc.SubscriptionExpiry < a.Now {
				changed = true
				break
			}
		}
		if !changed {
			return s
		}
		services := append([]models.MicromobilityService(nil), s.Services...)
		for i := range services {
			if services[i].IsActive && services[i].SubscriptionExpiry != 0 && services[i].SubscriptionExpiry < a.Now {
				services[i].IsActive = false
				services[i].IsAvailable = false
			}
		}
		s.Services = services
		return s

	case ToggleServiceAvailability:
		idx := findService(s.Services, a.ServiceID)
		if idx < 0 {
			return s
		}
		services := append([]models.MicromobilityService(nil), s.Services...)
		svc := &services[idx]
		if svc.IsAvailable {
			svc.IsAvailable = false
			svc.IsOccupied = false
		} else {
			svc.IsAvailable = true
		}
		s.Services = services
		return s

	case ToggleServiceOccupied:
		idx := findService(s.Services, a.ServiceID)
		if idx < 0 || s.CurrentUser == nil {
			return s
		}
		services := append([]models.MicromobilityService(nil), s.Services...)
		svc := &services[idx]

		finishing := svc.IsOccupied
		svc.IsOccupied = !svc.IsOccupied
		if finishing {
			svc.CompletedTrips++
			user := applyProgress(*s.CurrentUser, RewardTripXP, RewardTripTokens)
			s.CurrentUser = &user
			s.PendingReviewServiceID = a.ServiceID
		} else {
			s.PendingReviewServiceID = ""
		}
		s.Services = services
		return s

	case SubmitTripReview:
		if s.CurrentUser == nil {
			return s
		}
		idx := findService(s.Services, a.ServiceID)
		if idx < 0 {
			return s
		}

		entry := models.RatingHistoryEntry{
			UserID:        s.CurrentUser.ID,
			Timestamp:     a.Timestamp,
			OverallRating: a.OverallRating,
			Comment:       a.Comment,
			MediaURL:      a.MediaURL,
			Scores:        a.Scores,
			Sentiment:     models.SentimentUnknown,
		}

		svc := s.Services[idx]
		oldCount := svc.NumberOfRatings
		newCount := oldCount + 1

		history := make([]models.RatingHistoryEntry, 0, len(svc.RatingHistory)+1)
		history = append(history, entry)
		history = append(history, svc.RatingHistory...)

		svc.RatingHistory = history
		svc.TotalRatingPoints += a.OverallRating
		svc.NumberOfRatings = newCount
		svc.Rating = float64(svc.TotalRatingPoints) / float64(newCount)
		svc.AvgPunctuality = runningAvg(svc.AvgPunctuality, oldCount, a.Scores.Punctuality)
		svc.AvgSafety = runningAvg(svc.AvgSafety, oldCount, a.Scores.Safety)
		svc.AvgCleanliness = runningAvg(svc.AvgCleanliness, oldCount, a.Scores.Cleanliness)
		svc.AvgKindness = runningAvg(svc.AvgKindness, oldCount, a.Scores.Kindness)

		services := append([]models.MicromobilityService(nil), s.Services...)
		services[idx] = svc
		s.Services = services

		user := applyProgress(*s.CurrentUser, RewardReviewXP, RewardReviewTokens)
		s.CurrentUser = &user
		s.PendingReviewServiceID = ""
		return s

	case SetReportSentimentFilter:
		s.ReportSentimentFilter = a.Filter
		return s

	case SetNearestStop:
		s.NearestStop = a.Info
		return s

	case UpdateConnectedUsers:
		s.ConnectedUsers = a.Count
		return s

	case StartRoute:
		origin, dest := a.Origin, a.Destination
		s.RouteOrigin = &origin
		s.RouteDestination = &dest
		s.TravelMode = a.Mode
		s.RouteLoading = true
		s.RouteResult = nil
		s.RouteSummary = ""
		return s

	case SetRouteResult:
		s.RouteResult = a.Result
		s.RouteLoading = false
		return s

	case ClearRoute:
		s.RouteOrigin = nil
		s.RouteDestination = nil
		s.RouteResult = nil
		s.RouteLoading = false
		s.RouteSummary = ""
		s.RouteSummaryLoading = false
		return s

	case SetRouteSummary:
		s.RouteSummary = a.Text
		s.RouteSummaryLoading = false
		return s

	case SetRouteSummaryLoading:
		s.RouteSummaryLoading = a.Loading
		return s

	case SetVehicleFocus:
		s.VehicleFocus = a.Focus
		s.SelectedBusLineID = ""
		return s

	case SetPostTripReview:
		s.PendingReviewServiceID = a.ServiceID
		return s

	case ToggleReportModal:
		if a.Show != nil {
			s.ShowReportModal = *a.Show
		} else {
			s.ShowReportModal = !s.ShowReportModal
		}
		return s

	case ToggleRegistrationModal:
		s.ShowRegistrationModal = a.Show
		return s

	case ToggleProviderRankingModal:
		s.ShowProviderRankingModal = a.Show
		return s

	case ToggleRankingModal:
		s.ShowRankingModal = a.Show
		return s

	case ToggleCalculatorModal:
		s.ShowCalculatorModal = a.Show
		return s

	case ToggleRecentReportsModal:
		s.ShowRecentReportsModal = a.Show
		return s

	case ToggleSentimentAnalysisModal:
		s.ShowSentimentAnalysisModal = a.Show
		return s

	case ToggleOperatorInsightsModal:
		s.ShowOperatorInsightsModal = a.Show
		return s
	}

	// Unknown actions leave the state untouched
	return s
}

// applySentiment resolves the sentiment of a report or chat message.
// Chat messages are located by scanning every line's list for the id; a
// miss (the entity was superseded or never existed) is a silent no-op.
func (r *Reducer) applySentiment(s AppState, a SetSentiment) AppState {
	switch a.Target {
	case TargetReport:
		idx := findReport(s.Reports, a.ID)
		if idx < 0 {
			return s
		}
		reports := append([]models.Report(nil), s.Reports...)
		reports[idx].Sentiment = a.Sentiment
		s.Reports = reports
		return s

	case TargetChat:
		for lineID, msgs := range s.ChatMessages {
			for i := range msgs {
				if msgs[i].ID != a.ID {
					continue
				}
				line := append([]models.ChatMessage(nil), msgs...)
				line[i].Sentiment = a.Sentiment
				chats := copyChats(s.ChatMessages)
				chats[lineID] = line
				s.ChatMessages = chats
				return s
			}
		}
		return s

	case TargetGlobalChat:
		for i := range s.GlobalChatMessages {
			if s.GlobalChatMessages[i].ID != a.ID {
				continue
			}
			msgs := append([]models.GlobalChatMessage(nil), s.GlobalChatMessages...)
			msgs[i].Sentiment = a.Sentiment
			s.GlobalChatMessages = msgs
			return s
		}
		return s
	}
	return s
}

// runningAvg folds one new score into a running average
func runningAvg(oldAvg float64, oldCount, score int) float64 {
	return (oldAvg*float64(oldCount) + float64(score)) / float64(oldCount+1)
}

func findReport(reports []models.Report, id string) int {
	for i := range reports {
		if reports[i].ID == id {
			return i
		}
	}
	return -1
}

func findService(services []models.MicromobilityService, id string) int {
	for i := range services {
		if services[i].ID == id {
			return i
		}
	}
	return -1
}

// avatarURL derives a deterministic avatar for a user name
func avatarURL(name string) string {
	return fmt.Sprintf(
		"https://api.dicebear.com/8.x/bottts-neutral/svg?seed=%s&backgroundRotation=0,360&radius=50",
		url.QueryEscape(name),
	)
}
