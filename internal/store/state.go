package store

import (
	"github.com/uppa/uppa_core/internal/models"
)

// AppState is the complete session state. Transitions never mutate it in
// place; the reducer returns a new value sharing unchanged parts.
type AppState struct {
	Reports            []models.Report
	Buses              map[string]models.Bus
	ChatMessages       map[string][]models.ChatMessage
	GlobalChatMessages []models.GlobalChatMessage

	CurrentUser   *models.UserProfile
	Authenticated bool

	SelectedBusLineID string
	Loading           bool
	Error             string
	MapReady          bool

	AssistantQuestion string
	AssistantResponse string
	AssistantLoading  bool

	Services              []models.MicromobilityService
	ReportSentimentFilter models.SentimentFilter
	NearestStop           *models.NearestStopInfo
	ConnectedUsers        int

	RouteOrigin         *models.Coordinates
	RouteDestination    *models.Coordinates
	RouteResult         *models.RouteResult
	RouteLoading        bool
	RouteSummary        string
	RouteSummaryLoading bool
	TravelMode          models.TravelMode

	VehicleFocus           models.VehicleFocus
	PendingReviewServiceID string

	ShowReportModal            bool
	ShowRegistrationModal      bool
	ShowProviderRankingModal   bool
	ShowRankingModal           bool
	ShowCalculatorModal        bool
	ShowRecentReportsModal     bool
	ShowSentimentAnalysisModal bool
	ShowOperatorInsightsModal  bool
}

// NewState builds the pre-login state around the given bus line fixtures.
// The caller hands over ownership of the map.
func NewState(buses map[string]models.Bus) AppState {
	if buses == nil {
		buses = make(map[string]models.Bus)
	}
	return AppState{
		Reports:               []models.Report{},
		Buses:                 buses,
		ChatMessages:          make(map[string][]models.ChatMessage),
		GlobalChatMessages:    []models.GlobalChatMessage{},
		Loading:               true,
		ReportSentimentFilter: models.FilterAll,
		ConnectedUsers:        1,
		TravelMode:            models.TravelDrive,
		VehicleFocus:          models.FocusBus,
	}
}

// copyBuses shallow-copies the bus map so a transition can replace one entry
func copyBuses(buses map[string]models.Bus) map[string]models.Bus {
	out := make(map[string]models.Bus, len(buses))
	for id, b := range buses {
		out[id] = b
	}
	return out
}

// copyChats shallow-copies the per-line chat map
func copyChats(chats map[string][]models.ChatMessage) map[string][]models.ChatMessage {
	out := make(map[string][]models.ChatMessage, len(chats))
	for id, msgs := range chats {
		out[id] = msgs
	}
	return out
}
