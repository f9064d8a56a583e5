package store

import (
	"github.com/uppa/uppa_core/internal/models"
)

// Action is the closed set of state transitions. Each variant carries its
// full payload, including any timestamps, so that applying the same
// (state, action) pair always yields the same result.
type Action interface {
	isAction()
}

// SentimentTarget selects which collection a SetSentiment action addresses
type SentimentTarget string

const (
	TargetReport     SentimentTarget = "report"
	TargetChat       SentimentTarget = "chat"
	TargetGlobalChat SentimentTarget = "globalchat"
)

// Login authenticates the session and grants the initial progression
type Login struct {
	UserName string
}

// Logout resets to the initial state, preserving only map readiness
type Logout struct{}

// AddReport prepends a report, rewards the author and updates the target
// bus's rolling history
type AddReport struct {
	Report models.Report
}

// AddChatMessage appends a message to its line's chat
type AddChatMessage struct {
	Message models.ChatMessage
}

// AddGlobalChatMessage appends a message to the global micromobility chat
type AddGlobalChatMessage struct {
	Message models.GlobalChatMessage
}

// UpvoteReport increments a report's upvote counter
type UpvoteReport struct {
	ReportID string
}

// SetBusLocation replaces a bus's current location
type SetBusLocation struct {
	BusLineID string
	Location  models.Coordinates
}

// SelectBusLine changes the selected line ("" deselects) and resets the
// coupled view state
type SelectBusLine struct {
	BusLineID string
}

// SetLoading sets the global loading flag
type SetLoading struct {
	Loading bool
}

// SetError sets or clears the user-visible error string
type SetError struct {
	Message string
}

// SetMapReady records that the map layer finished initializing
type SetMapReady struct {
	Ready bool
}

// SetSentiment resolves the sentiment of a report or chat message by id.
// Chat messages are found by scanning the per-line lists, since the action
// carries only the message id.
type SetSentiment struct {
	ID        string
	Target    SentimentTarget
	Sentiment models.Sentiment
}

// SetReviewSentiment resolves the sentiment of one rating-history entry,
// addressed by service id and entry timestamp
type SetReviewSentiment struct {
	ServiceID string
	Timestamp int64
	Sentiment models.Sentiment
}

// SetAssistantQuestion stores the draft AI-assistant question
type SetAssistantQuestion struct {
	Text string
}

// SetAssistantResponse stores the assistant answer and clears its loading flag
type SetAssistantResponse struct {
	Text string
}

// SetAssistantLoading toggles the assistant loading flag and clears any
// stale error either way
type SetAssistantLoading struct {
	Loading bool
}

// RegisterService inserts a new micromobility service or replaces an
// existing one by id. Exceeding the per-provider cap yields an error state.
type RegisterService struct {
	Service models.MicromobilityService
}

// ConfirmServicePayment debits the tier price and activates the service.
// Now is the activation instant in unix milliseconds.
type ConfirmServicePayment struct {
	ServiceID string
	Now       int64
}

// DeactivateExpiredServices flips active and available off for every active
// service whose expiry is before Now. Idempotent.
type DeactivateExpiredServices struct {
	Now int64
}

// ToggleServiceAvailability flips a service's availability; going
// unavailable force-clears occupancy
type ToggleServiceAvailability struct {
	ServiceID string
}

// ToggleServiceOccupied flips occupancy. Finishing a trip (occupied to
// unoccupied) counts the trip, rewards the user and opens a post-trip
// review request; starting one clears any pending request.
type ToggleServiceOccupied struct {
	ServiceID string
}

// SubmitTripReview appends a rating-history entry, recomputes the running
// averages, rewards the reviewer and closes the pending review request
type SubmitTripReview struct {
	ServiceID     string
	Timestamp     int64
	OverallRating int
	Scores        models.RatingScores
	Comment       string
	MediaURL      string
}

// SetReportSentimentFilter sets the report-list sentiment filter
type SetReportSentimentFilter struct {
	Filter models.SentimentFilter
}

// SetNearestStop caches the nearest-stop computation (nil clears it)
type SetNearestStop struct {
	Info *models.NearestStopInfo
}

// UpdateConnectedUsers replaces the connected-user count
type UpdateConnectedUsers struct {
	Count int
}

// StartRoute begins a trip-planning request, clearing any prior result
type StartRoute struct {
	Origin      models.Coordinates
	Destination models.Coordinates
	Mode        models.TravelMode
}

// SetRouteResult stores the route fetcher's outcome and stops loading
type SetRouteResult struct {
	Result *models.RouteResult
}

// ClearRoute resets every transient route-planning field
type ClearRoute struct{}

// SetRouteSummary stores the generated route summary and stops its loading
type SetRouteSummary struct {
	Text string
}

// SetRouteSummaryLoading toggles the route-summary loading flag
type SetRouteSummaryLoading struct {
	Loading bool
}

// SetVehicleFocus switches the marketplace tab and clears the selected line
type SetVehicleFocus struct {
	Focus models.VehicleFocus
}

// SetPostTripReview opens ("" closes) the post-trip review request
type SetPostTripReview struct {
	ServiceID string
}

// ToggleReportModal toggles the report modal; nil Show flips the current value
type ToggleReportModal struct {
	Show *bool
}

// ToggleRegistrationModal shows or hides the service registration modal
type ToggleRegistrationModal struct{ Show bool }

// ToggleProviderRankingModal shows or hides the provider ranking modal
type ToggleProviderRankingModal struct{ Show bool }

// ToggleRankingModal shows or hides the pilot ranking modal
type ToggleRankingModal struct{ Show bool }

// ToggleCalculatorModal shows or hides the fare calculator
type ToggleCalculatorModal struct{ Show bool }

// ToggleRecentReportsModal shows or hides the recent-reports modal
type ToggleRecentReportsModal struct{ Show bool }

// ToggleSentimentAnalysisModal shows or hides the sentiment-analysis modal
type ToggleSentimentAnalysisModal struct{ Show bool }

// ToggleOperatorInsightsModal shows or hides the operator insights modal
type ToggleOperatorInsightsModal struct{ Show bool }

func (Login) isAction()                        {}
func (Logout) isAction()                       {}
func (AddReport) isAction()                    {}
func (AddChatMessage) isAction()               {}
func (AddGlobalChatMessage) isAction()         {}
func (UpvoteReport) isAction()                 {}
func (SetBusLocation) isAction()               {}
func (SelectBusLine) isAction()                {}
func (SetLoading) isAction()                   {}
func (SetError) isAction()                     {}
func (SetMapReady) isAction()                  {}
func (SetSentiment) isAction()                 {}
func (SetReviewSentiment) isAction()           {}
func (SetAssistantQuestion) isAction()         {}
func (SetAssistantResponse) isAction()         {}
func (SetAssistantLoading) isAction()          {}
func (RegisterService) isAction()              {}
func (ConfirmServicePayment) isAction()        {}
func (DeactivateExpiredServices) isAction()    {}
func (ToggleServiceAvailability) isAction()    {}
func (ToggleServiceOccupied) isAction()        {}
func (SubmitTripReview) isAction()             {}
func (SetReportSentimentFilter) isAction()     {}
func (SetNearestStop) isAction()               {}
func (UpdateConnectedUsers) isAction()         {}
func (StartRoute) isAction()                   {}
func (SetRouteResult) isAction()               {}
func (ClearRoute) isAction()                   {}
func (SetRouteSummary) isAction()              {}
func (SetRouteSummaryLoading) isAction()       {}
func (SetVehicleFocus) isAction()              {}
func (SetPostTripReview) isAction()            {}
func (ToggleReportModal) isAction()            {}
func (ToggleRegistrationModal) isAction()      {}
func (ToggleProviderRankingModal) isAction()   {}
func (ToggleRankingModal) isAction()           {}
func (ToggleCalculatorModal) isAction()        {}
func (ToggleRecentReportsModal) isAction()     {}
func (ToggleSentimentAnalysisModal) isAction() {}
func (ToggleOperatorInsightsModal) isAction()  {}
