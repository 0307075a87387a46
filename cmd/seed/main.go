package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/demiirawo/cc-academy/config"
	"github.com/demiirawo/cc-academy/database"
)

func main() {
	var (
		migrate = flag.Bool("migrate", false, "Run migration before seeding")
		help    = flag.Bool("help", false, "Show help")
	)

	flag.Parse()

	if *help {
		showHelp()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if *migrate {
		fmt.Println("Running migration first...")
		if err := database.AutoMigrate(database.DB); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}

	if err := database.SeedData(database.DB); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	fmt.Println("Seed completed successfully")
}

func showHelp() {
	log.Print(`
CC Academy Seed Tool

Usage:
  go run cmd/seed/main.go [options]

Options:
  -migrate  Run GORM AutoMigrate before seeding
  -help     Show this help message
`)
}
