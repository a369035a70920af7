// Command generate_demo creates a demo database holding the sample shows.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mrlokans/clipcatalog/internal/database"
	"github.com/mrlokans/clipcatalog/internal/demo"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	cat := db.NewCatalog()
	defer cat.Close(ctx)

	sum, err := demo.Seed(ctx, cat, demo.DefaultDataset())
	if err != nil {
		log.Fatalf("Failed to seed demo database: %v", err)
	}

	log.Printf("Saved %d shows, %d producers, %d clips", sum.Shows, sum.Producers, sum.Clips)
	log.Println("Demo database generated successfully!")
}
