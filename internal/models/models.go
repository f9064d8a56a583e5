package models

// Sentiment is the classification of a piece of free text
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentUnknown  Sentiment = "unknown"
)

// SentimentFilter is a report-list filter value: a sentiment or "all"
type SentimentFilter string

const (
	FilterPositive SentimentFilter = "positive"
	FilterNegative SentimentFilter = "negative"
	FilterNeutral  SentimentFilter = "neutral"
	FilterAll      SentimentFilter = "all"
)

// ReportType categorizes an incident report. Display values are the
// Spanish labels shown to users.
type ReportType string

const (
	ReportDelay           ReportType = "Demora"
	ReportRouteChange     ReportType = "Cambio de Ruta"
	ReportDetour          ReportType = "Desvío"
	ReportWaitTime        ReportType = "Tiempo de Espera"
	ReportSafetyIncident  ReportType = "Incidente de Seguridad"
	ReportMechanicalIssue ReportType = "Problema Mecánico"
	ReportComfortIssue    ReportType = "Problema de Comodidad"
	ReportPriceUpdate     ReportType = "Actualización de Precio"
	ReportLocationUpdate  ReportType = "Actualización de Ubicación"
	ReportCrowded         ReportType = "Aglomeración"
	ReportBusMoving       ReportType = "En Movimiento"
	ReportBusStopped      ReportType = "Detenido"
	ReportFull            ReportType = "Lleno"
	ReportVeryFull        ReportType = "Muy Lleno"
	ReportGoodService     ReportType = "Buen Servicio"
	ReportBadService      ReportType = "Mal Servicio"
)

// Coordinates is a WGS-84 point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ReportDetails holds optional attachments of a report
type ReportDetails struct {
	PhotoBase64      string `json:"photo_base64,omitempty"`
	ReportedWaitTime int    `json:"reported_wait_time,omitempty"` // minutes
	Severity         string `json:"severity,omitempty"`           // low, medium, high
}

// Report is a user-submitted status/incident observation tied to a bus line.
// Immutable after creation except for the upvote counter and the sentiment
// field, which is resolved asynchronously exactly once.
type Report struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	UserName    string         `json:"user_name"`
	BusLineID   string         `json:"bus_line_id"`
	Type        ReportType     `json:"type"`
	Timestamp   int64          `json:"timestamp"` // unix milliseconds
	Location    *Coordinates   `json:"location,omitempty"`
	Address     string         `json:"address,omitempty"`
	Description string         `json:"description"`
	Details     *ReportDetails `json:"details,omitempty"`
	Upvotes     int            `json:"upvotes"`
	Sentiment   Sentiment      `json:"sentiment"`
}

// Bus is a transit line: static metadata plus live state.
// StatusEvents is a rolling history of recent report IDs, capped at 5,
// most recent first.
type Bus struct {
	ID              string       `json:"id"`
	LineName        string       `json:"line_name"`
	Description     string       `json:"description"`
	Color           string       `json:"color"`
	CurrentLocation *Coordinates `json:"current_location,omitempty"`
	StatusEvents    []string     `json:"status_events"`
}

// BusStop is a physical stop served by one or more lines
type BusStop struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Location   Coordinates `json:"location"`
	BusLineIDs []string    `json:"bus_line_ids"`
}

// NearestStopInfo caches the nearest stop computed for a selected line
type NearestStopInfo struct {
	Stop         BusStop `json:"stop"`
	ForBusLineID string  `json:"for_bus_line_id"`
}

// ChatMessage is a per-line chat message
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	BusLineID string    `json:"bus_line_id"`
	Timestamp int64     `json:"timestamp"`
	Text      string    `json:"text"`
	Emoji     string    `json:"emoji,omitempty"`
	Sentiment Sentiment `json:"sentiment"`
}

// GlobalChatMessage is a message in the global micromobility chat
type GlobalChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Timestamp int64     `json:"timestamp"`
	Text      string    `json:"text"`
	Emoji     string    `json:"emoji,omitempty"`
	Sentiment Sentiment `json:"sentiment"`
}

// UserProfile holds identity and gamification progression.
// Invariant at rest: XP < XPToNextLevel (level-up normalizes any excess).
type UserProfile struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Avatar        string   `json:"avatar"`
	Level         int      `json:"level"`
	XP            int      `json:"xp"`
	XPToNextLevel int      `json:"xp_to_next_level"`
	Tokens        int      `json:"tokens"`
	Badges        []string `json:"badges"`
}

// ServiceType is the kind of micromobility offering
type ServiceType string

const (
	ServiceMoto  ServiceType = "Moto"
	ServiceRemis ServiceType = "Remis"
)

// RatingScores holds the four per-category review scores (1-5 each)
type RatingScores struct {
	Punctuality int `json:"punctuality"`
	Safety      int `json:"safety"`
	Cleanliness int `json:"cleanliness"`
	Kindness    int `json:"kindness"`
}

// RatingHistoryEntry is one post-trip review. Immutable once created
// except for the asynchronously resolved sentiment.
type RatingHistoryEntry struct {
	UserID        string       `json:"user_id"`
	Timestamp     int64        `json:"timestamp"`
	OverallRating int          `json:"overall_rating"` // 1-5
	Comment       string       `json:"comment,omitempty"`
	MediaURL      string       `json:"media_url,omitempty"`
	Scores        RatingScores `json:"scores"`
	Sentiment     Sentiment    `json:"sentiment"`
}

// MicromobilityService is a provider-owned moto/remis offering.
//
// Visibility state machine: a freshly registered service is pending
// payment, inactive, unavailable and unoccupied. Payment confirmation
// makes it active and available until its subscription expires. The
// provider toggles availability and occupancy while active.
type MicromobilityService struct {
	ID                 string               `json:"id"`
	ProviderUserID     string               `json:"provider_user_id"`
	ProviderName       string               `json:"provider_name"`
	ServiceName        string               `json:"service_name"`
	Type               ServiceType          `json:"type"`
	VehicleModel       string               `json:"vehicle_model"`
	VehicleColor       string               `json:"vehicle_color"`
	WhatsApp           string               `json:"whatsapp"`
	Location           Coordinates          `json:"location"`
	IsActive           bool                 `json:"is_active"`
	IsPendingPayment   bool                 `json:"is_pending_payment"`
	IsAvailable        bool                 `json:"is_available"`
	IsOccupied         bool                 `json:"is_occupied"`
	RegisteredAt       int64                `json:"registered_at"`
	SubscriptionHours  int                  `json:"subscription_hours"`
	SubscriptionExpiry int64                `json:"subscription_expiry"` // unix ms, 0 when never activated
	CompletedTrips     int                  `json:"completed_trips"`
	Rating             float64              `json:"rating"` // running average, 0-5
	TotalRatingPoints  int                  `json:"total_rating_points"`
	NumberOfRatings    int                  `json:"number_of_ratings"`
	RatingHistory      []RatingHistoryEntry `json:"rating_history"`
	AvgPunctuality     float64              `json:"avg_punctuality"`
	AvgSafety          float64              `json:"avg_safety"`
	AvgCleanliness     float64              `json:"avg_cleanliness"`
	AvgKindness        float64              `json:"avg_kindness"`
	EcoScore           int                  `json:"eco_score"` // 0-100
}

// TravelMode selects the trip-planning profile
type TravelMode string

const (
	TravelDrive   TravelMode = "DRIVE"
	TravelBicycle TravelMode = "BICYCLE"
	TravelWalk    TravelMode = "WALK"
)

// VehicleFocus is the marketplace tab the user is looking at
type VehicleFocus string

const (
	FocusBus   VehicleFocus = "bus"
	FocusMoto  VehicleFocus = "moto"
	FocusRemis VehicleFocus = "remis"
)

// RouteResult is the outcome of a trip-planning request
type RouteResult struct {
	Duration string   `json:"duration,omitempty"`
	Distance string   `json:"distance,omitempty"`
	Polyline string   `json:"polyline,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// MapEventType tags the source of a map marker
type MapEventType string

const (
	EventBusLocation MapEventType = "BUS_LOCATION"
	EventReport      MapEventType = "REPORT"
	EventMoto        MapEventType = "MICROMOBILITY_MOTO"
	EventRemis       MapEventType = "MICROMOBILITY_REMIS"
)

// MapEvent is one marker in the derived map view
type MapEvent struct {
	ID              string       `json:"id"`
	Type            MapEventType `json:"type"`
	ReportType      ReportType   `json:"report_type,omitempty"`
	Location        Coordinates  `json:"location"`
	BusLineID       string       `json:"bus_line_id,omitempty"`
	ServiceID       string       `json:"service_id,omitempty"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Icon            string       `json:"icon"`
	Color           string       `json:"color,omitempty"`
	IsBus           bool         `json:"is_bus,omitempty"`
	IsMicromobility bool         `json:"is_micromobility,omitempty"`
	ContactInfo     string       `json:"contact_info,omitempty"`
	IsOccupied      bool         `json:"is_occupied,omitempty"`
	VehicleModel    string       `json:"vehicle_model,omitempty"`
	VehicleColor    string       `json:"vehicle_color,omitempty"`
	Rating          float64      `json:"rating,omitempty"`
	EcoScore        int          `json:"eco_score,omitempty"`
}

// ScheduleDetail is one row of a line's operating schedule
type ScheduleDetail struct {
	Days           string `json:"days"`
	OperationHours string `json:"operation_hours"`
	Frequency      string `json:"frequency"`
}

// BusLineDetails is the static descriptive sheet of a line
type BusLineDetails struct {
	Operator           string           `json:"operator,omitempty"`
	GeneralDescription string           `json:"general_description,omitempty"`
	MainCoverage       string           `json:"main_coverage,omitempty"`
	Variants           []string         `json:"variants,omitempty"`
	Schedule           []ScheduleDetail `json:"schedule,omitempty"`
}

// WeatherInfo is a current-conditions snapshot from the weather source
type WeatherInfo struct {
	Condition   string `json:"condition"`
	Temperature int    `json:"temperature"` // °C
	Icon        string `json:"icon"`
}
