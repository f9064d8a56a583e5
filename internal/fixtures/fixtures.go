package fixtures

import (
	"log"

	"github.com/uppa/uppa_core/internal/models"
)

// Gameplay and marketplace constants
const (
	DefaultUserID          = "user_default_123"
	StartingTokens         = 50000
	StartingXPToNextLevel  = 100
	MaxServicesPerProvider = 10
)

// Reference points around Buenos Aires and the Zárate-Campana corridor
var (
	baObelisco    = models.Coordinates{Lat: -34.6037, Lng: -58.3816}
	baRecoleta    = models.Coordinates{Lat: -34.5880, Lng: -58.3939}
	baPalermoSoho = models.Coordinates{Lat: -34.5895, Lng: -58.4299}
	baPlazaItalia = models.Coordinates{Lat: -34.5822, Lng: -58.4230}
	zarateCentro  = models.Coordinates{Lat: -34.0925, Lng: -59.0260}
	campanaPlaza  = models.Coordinates{Lat: -34.1670, Lng: -58.9590}
)

// DefaultMapCenter is where the map opens before any line is selected
var DefaultMapCenter = baObelisco

// BusLines returns a fresh copy of the static bus line fixtures.
// Callers own the returned map; mutations never leak back.
func BusLines() map[string]models.Bus {
	lines := []models.Bus{
		{ID: "LINEA_228CB", LineName: "Línea 228CB", Description: "Zarate-Campana", Color: "bg-red-500", CurrentLocation: &models.Coordinates{Lat: zarateCentro.Lat, Lng: zarateCentro.Lng}},
		{ID: "LINEA_194", LineName: "Línea 194", Description: "Plaza Italia (CABA) - Zárate (x Campana)", Color: "bg-blue-500", CurrentLocation: &models.Coordinates{Lat: baPlazaItalia.Lat, Lng: baPlazaItalia.Lng}},
		{ID: "LINEA_152", LineName: "Línea 152", Description: "La Boca - Olivos (x Parque)", Color: "bg-green-500", CurrentLocation: &models.Coordinates{Lat: baRecoleta.Lat, Lng: baRecoleta.Lng}},
		{ID: "LINEA_39", LineName: "Línea 39", Description: "Barracas - Chacarita", Color: "bg-yellow-500", CurrentLocation: &models.Coordinates{Lat: baPalermoSoho.Lat, Lng: baPalermoSoho.Lng}},
	}

	out := make(map[string]models.Bus, len(lines))
	for _, l := range lines {
		l.StatusEvents = []string{}
		out[l.ID] = l
	}
	return out
}

// BusStops returns the per-line stop fixtures, keyed by line id
func BusStops() map[string][]models.BusStop {
	return map[string][]models.BusStop{
		"LINEA_228CB": {
			{ID: "stop_228cb_zarate_centro", Name: "Zárate Centro (Mitre y Justa Lima)", Location: zarateCentro, BusLineIDs: []string{"LINEA_228CB", "LINEA_194"}},
			{ID: "stop_228cb_estacion_zarate", Name: "Estación Zárate", Location: models.Coordinates{Lat: -34.0980, Lng: -59.0275}, BusLineIDs: []string{"LINEA_228CB"}},
			{ID: "stop_228cb_campana_plaza", Name: "Campana Plaza Principal", Location: campanaPlaza, BusLineIDs: []string{"LINEA_228CB", "LINEA_194"}},
			{ID: "stop_228cb_campana_estacion", Name: "Estación Campana", Location: models.Coordinates{Lat: -34.1700, Lng: -58.9550}, BusLineIDs: []string{"LINEA_228CB"}},
		},
		"LINEA_194": {
			{ID: "stop_194_plaza_italia", Name: "Plaza Italia (CABA)", Location: baPlazaItalia, BusLineIDs: []string{"LINEA_194"}},
			{ID: "stop_194_puente_saavedra", Name: "Puente Saavedra", Location: models.Coordinates{Lat: -34.5420, Lng: -58.4800}, BusLineIDs: []string{"LINEA_194"}},
			{ID: "stop_194_campana_plaza", Name: "Campana Plaza Principal", Location: campanaPlaza, BusLineIDs: []string{"LINEA_194", "LINEA_228CB"}},
			{ID: "stop_194_zarate_terminal", Name: "Zárate Terminal", Location: models.Coordinates{Lat: -34.1005, Lng: -59.0300}, BusLineIDs: []string{"LINEA_194"}},
		},
		"LINEA_152": {
			{ID: "stop_152_la_boca", Name: "La Boca (Caminito)", Location: models.Coordinates{Lat: -34.6350, Lng: -58.3640}, BusLineIDs: []string{"LINEA_152"}},
			{ID: "stop_152_retiro", Name: "Retiro (Estación)", Location: models.Coordinates{Lat: -34.5900, Lng: -58.3730}, BusLineIDs: []string{"LINEA_152"}},
			{ID: "stop_152_olivos_puerto", Name: "Olivos (Puerto)", Location: models.Coordinates{Lat: -34.5050, Lng: -58.4750}, BusLineIDs: []string{"LINEA_152"}},
			{ID: "stop_152_congreso", Name: "Congreso", Location: models.Coordinates{Lat: -34.6095, Lng: -58.3920}, BusLineIDs: []string{"LINEA_152"}},
		},
		"LINEA_39": {
			{ID: "stop_39_barracas_parque_lezama", Name: "Barracas (Parque Lezama)", Location: models.Coordinates{Lat: -34.6290, Lng: -58.3700}, BusLineIDs: []string{"LINEA_39"}},
			{ID: "stop_39_constitucion", Name: "Constitución (Plaza)", Location: models.Coordinates{Lat: -34.6270, Lng: -58.3810}, BusLineIDs: []string{"LINEA_39"}},
			{ID: "stop_39_chacarita_cementerio", Name: "Chacarita (Cementerio)", Location: models.Coordinates{Lat: -34.5920, Lng: -58.4570}, BusLineIDs: []string{"LINEA_39"}},
			{ID: "stop_39_palermo_plaza_italia", Name: "Palermo (Plaza Italia)", Location: baPlazaItalia, BusLineIDs: []string{"LINEA_39"}},
		},
	}
}

// Pricing returns the token cost of a subscription, keyed by service
// type and duration in hours
func Pricing() map[models.ServiceType]map[int]int {
	return map[models.ServiceType]map[int]int{
		models.ServiceMoto:  {1: 2000, 2: 4000, 3: 6000, 4: 8000, 5: 10000},
		models.ServiceRemis: {1: 5000, 2: 10000, 3: 15000, 4: 20000, 5: 25000},
	}
}

// ReportTypeIcons maps each report type to its marker icon class
var ReportTypeIcons = map[models.ReportType]string{
	models.ReportDelay:           "fas fa-clock",
	models.ReportRouteChange:     "fas fa-route",
	models.ReportDetour:          "fas fa-random",
	models.ReportWaitTime:        "fas fa-hourglass-half",
	models.ReportSafetyIncident:  "fas fa-shield-alt",
	models.ReportMechanicalIssue: "fas fa-bus-alt",
	models.ReportComfortIssue:    "fas fa-couch",
	models.ReportPriceUpdate:     "fas fa-dollar-sign",
	models.ReportLocationUpdate:  "fas fa-map-marker-alt",
	models.ReportCrowded:         "fas fa-users",
	models.ReportBusMoving:       "fas fa-bus",
	models.ReportBusStopped:      "fas fa-traffic-light",
	models.ReportFull:            "fas fa-user-friends",
	models.ReportVeryFull:        "fas fa-people-carry",
	models.ReportGoodService:     "fas fa-thumbs-up",
	models.ReportBadService:      "fas fa-thumbs-down",
}

// ServiceIcons maps service types to their marker icon class
var ServiceIcons = map[models.ServiceType]string{
	models.ServiceMoto:  "fas fa-motorcycle",
	models.ServiceRemis: "fas fa-car",
}

// LineDetails returns the static descriptive sheets for lines that have one
func LineDetails() map[string]models.BusLineDetails {
	return map[string]models.BusLineDetails{
		"LINEA_228CB": {
			Operator:           "MOTSA",
			GeneralDescription: "La línea de colectivo 228 es operada por MOTSA y cubre varias rutas y horarios en la zona de Buenos Aires. La línea 228CB es una variante principal que se enfoca en el tramo Zárate - Campana.",
			MainCoverage:       "Pte. Saavedra - Est. Garín - Est. Benavidez - Campana - Zárate - Luján",
			Variants:           []string{"Línea 228D: Zárate - Luján"},
			Schedule: []models.ScheduleDetail{
				{Days: "Lunes a Viernes", OperationHours: "05:15 - 21:45", Frequency: "30 minutos"},
				{Days: "Sábado", OperationHours: "05:15 - 21:55", Frequency: "40 minutos"},
				{Days: "Domingo", OperationHours: "05:30 - 21:30", Frequency: "60 minutos"},
			},
		},
	}
}

// ValidateStops removes stops with invalid coordinates
func ValidateStops(stops []models.BusStop) []models.BusStop {
	cleaned := []models.BusStop{}

	for _, stop := range stops {
		if stop.Location.Lat < -90 || stop.Location.Lat > 90 {
			log.Printf("Warning: invalid latitude for stop %s: %f", stop.ID, stop.Location.Lat)
			continue
		}
		if stop.Location.Lng < -180 || stop.Location.Lng > 180 {
			log.Printf("Warning: invalid longitude for stop %s: %f", stop.ID, stop.Location.Lng)
			continue
		}
		if stop.Location.Lat == 0 && stop.Location.Lng == 0 {
			log.Printf("Warning: stop %s has null island coordinates, skipping", stop.ID)
			continue
		}

		cleaned = append(cleaned, stop)
	}

	if len(cleaned) < len(stops) {
		log.Printf("Cleaned stops: removed %d invalid stops", len(stops)-len(cleaned))
	}

	return cleaned
}
