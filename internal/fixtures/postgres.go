package fixtures

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uppa/uppa_core/internal/models"
)

// Seed creates the fixture tables and upserts the embedded network data.
// Safe to run repeatedly.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS bus_line (
			id TEXT PRIMARY KEY,
			line_name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS bus_stop (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			lng DOUBLE PRECISION NOT NULL,
			line_ids TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range ddl {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	lineCount := 0
	for _, bus := range BusLines() {
		var lat, lng *float64
		if bus.CurrentLocation != nil {
			lat, lng = &bus.CurrentLocation.Lat, &bus.CurrentLocation.Lng
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO bus_line (id, line_name, description, color, lat, lng)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				line_name = EXCLUDED.line_name,
				description = EXCLUDED.description,
				color = EXCLUDED.color,
				lat = EXCLUDED.lat,
				lng = EXCLUDED.lng
		`, bus.ID, bus.LineName, bus.Description, bus.Color, lat, lng)
		if err != nil {
			return fmt.Errorf("failed to insert bus line %s: %w", bus.ID, err)
		}
		lineCount++
	}

	stopCount := 0
	for lineID, stops := range BusStops() {
		for _, stop := range ValidateStops(stops) {
			_, err := tx.Exec(ctx, `
				INSERT INTO bus_stop (id, name, lat, lng, line_ids)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					lat = EXCLUDED.lat,
					lng = EXCLUDED.lng,
					line_ids = EXCLUDED.line_ids
			`, stop.ID, stop.Name, stop.Location.Lat, stop.Location.Lng, strings.Join(stop.BusLineIDs, ","))
			if err != nil {
				return fmt.Errorf("failed to insert stop %s for line %s: %w", stop.ID, lineID, err)
			}
			stopCount++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Seeded %d bus lines and %d stops", lineCount, stopCount)
	return nil
}

// LoadBusLines loads the bus line fixtures from PostgreSQL.
// Falls back to the embedded fixtures when the table is empty.
func LoadBusLines(ctx context.Context, pool *pgxpool.Pool) (map[string]models.Bus, error) {
	startTime := time.Now()

	rows, err := pool.Query(ctx, `SELECT id, line_name, description, color, lat, lng FROM bus_line`)
	if err != nil {
		return nil, fmt.Errorf("failed to load bus lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[string]models.Bus)
	for rows.Next() {
		var bus models.Bus
		var lat, lng *float64
		if err := rows.Scan(&bus.ID, &bus.LineName, &bus.Description, &bus.Color, &lat, &lng); err != nil {
			log.Printf("Warning: failed to scan bus line: %v", err)
			continue
		}
		if lat != nil && lng != nil {
			bus.CurrentLocation = &models.Coordinates{Lat: *lat, Lng: *lng}
		}
		bus.StatusEvents = []string{}
		lines[bus.ID] = bus
	}

	if len(lines) == 0 {
		log.Println("bus_line table is empty, using embedded fixtures")
		return BusLines(), nil
	}

	log.Printf("Loaded %d bus lines in %v", len(lines), time.Since(startTime))
	return lines, nil
}

// LoadBusStops loads the stop fixtures from PostgreSQL, grouped by line.
// Falls back to the embedded fixtures when the table is empty.
func LoadBusStops(ctx context.Context, pool *pgxpool.Pool) (map[string][]models.BusStop, error) {
	rows, err := pool.Query(ctx, `SELECT id, name, lat, lng, line_ids FROM bus_stop ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load bus stops: %w", err)
	}
	defer rows.Close()

	byLine := make(map[string][]models.BusStop)
	total := 0
	for rows.Next() {
		var stop models.BusStop
		var lineIDs string
		if err := rows.Scan(&stop.ID, &stop.Name, &stop.Location.Lat, &stop.Location.Lng, &lineIDs); err != nil {
			log.Printf("Warning: failed to scan bus stop: %v", err)
			continue
		}
		stop.BusLineIDs = strings.Split(lineIDs, ",")
		for _, lineID := range stop.BusLineIDs {
			byLine[lineID] = append(byLine[lineID], stop)
		}
		total++
	}

	if total == 0 {
		log.Println("bus_stop table is empty, using embedded fixtures")
		return BusStops(), nil
	}

	log.Printf("Loaded %d bus stops", total)
	return byLine, nil
}
