package main

import (
	"context"
	"log"
	"time"

	"github.com/uppa/uppa_core/internal/db"
	"github.com/uppa/uppa_core/internal/fixtures"
)

func main() {
	log.Println("Seeding UppA network fixtures...")

	pool, err := db.GetDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✓ Database connection established")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := fixtures.Seed(ctx, pool); err != nil {
		log.Fatalf("Failed to seed fixtures: %v", err)
	}

	log.Println("✓ Seed complete")
}
