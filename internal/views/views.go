// Package views derives read-only projections from an AppState snapshot.
// Every function is pure: same state in, same slice out.
package views

import (
	"sort"

	"github.com/uppa/uppa_core/internal/fixtures"
	"github.com/uppa/uppa_core/internal/models"
	"github.com/uppa/uppa_core/internal/store"
)

// MapEvents flattens the state into map markers: located reports first,
// then visible micromobility services, then buses in id order.
func MapEvents(s store.AppState) []models.MapEvent {
	events := []models.MapEvent{}

	for _, r := range s.Reports {
		if r.Location == nil {
			continue
		}
		icon, ok := fixtures.ReportTypeIcons[r.Type]
		if !ok {
			icon = "fas fa-info-circle"
		}
		events = append(events, models.MapEvent{
			ID:          r.ID,
			Type:        models.EventReport,
			ReportType:  r.Type,
			Location:    *r.Location,
			BusLineID:   r.BusLineID,
			Title:       string(r.Type),
			Description: r.Description,
			Icon:        icon,
		})
	}

	for _, svc := range s.Services {
		if !svc.IsActive || !svc.IsAvailable {
			continue
		}
		eventType := models.EventMoto
		if svc.Type == models.ServiceRemis {
			eventType = models.EventRemis
		}
		events = append(events, models.MapEvent{
			ID:              "service_" + svc.ID,
			Type:            eventType,
			Location:        svc.Location,
			ServiceID:       svc.ID,
			Title:           svc.ServiceName,
			Description:     svc.VehicleModel + " " + svc.VehicleColor,
			Icon:            fixtures.ServiceIcons[svc.Type],
			IsMicromobility: true,
			ContactInfo:     svc.WhatsApp,
			IsOccupied:      svc.IsOccupied,
			VehicleModel:    svc.VehicleModel,
			VehicleColor:    svc.VehicleColor,
			Rating:          svc.Rating,
			EcoScore:        svc.EcoScore,
		})
	}

	busIDs := make([]string, 0, len(s.Buses))
	for id := range s.Buses {
		busIDs = append(busIDs, id)
	}
	sort.Strings(busIDs)
	for _, id := range busIDs {
		bus := s.Buses[id]
		if bus.CurrentLocation == nil {
			continue
		}
		events = append(events, models.MapEvent{
			ID:          "bus_" + bus.ID,
			Type:        models.EventBusLocation,
			Location:    *bus.CurrentLocation,
			BusLineID:   bus.ID,
			Title:       bus.LineName,
			Description: bus.Description,
			Icon:        "fas fa-bus",
			Color:       bus.Color,
			IsBus:       true,
		})
	}

	return events
}

// FilteredReports returns the reports for one line, newest first,
// optionally narrowed by sentiment. An empty line id matches all lines.
func FilteredReports(s store.AppState, busLineID string, filter models.SentimentFilter) []models.Report {
	out := []models.Report{}
	for _, r := range s.Reports {
		if busLineID != "" && r.BusLineID != busLineID {
			continue
		}
		if filter != models.FilterAll && string(r.Sentiment) != string(filter) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Ranking returns the active services ordered best first: rating
// descending, completed trips breaking ties. The sort is stable, so
// fully tied services keep their registration order.
func Ranking(s store.AppState) []models.MicromobilityService {
	ranked := []models.MicromobilityService{}
	for _, svc := range s.Services {
		if svc.IsActive {
			ranked = append(ranked, svc)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].CompletedTrips > ranked[j].CompletedTrips
	})
	return ranked
}

// ServicesForProvider returns the services owned by one provider,
// in registration order.
func ServicesForProvider(s store.AppState, providerUserID string) []models.MicromobilityService {
	out := []models.MicromobilityService{}
	for _, svc := range s.Services {
		if svc.ProviderUserID == providerUserID {
			out = append(out, svc)
		}
	}
	return out
}
