package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/demiirawo/cc-academy/config"
	"github.com/demiirawo/cc-academy/database"
)

func main() {
	// Command line flags
	var (
		drop   = flag.Bool("drop", false, "Drop all tables before migration")
		schema = flag.Bool("schema", false, "Create schema only (no migration)")
		help   = flag.Bool("help", false, "Show help")
	)

	flag.Parse()

	if *help {
		showHelp()
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fmt.Println("Starting database migration tool")
	fmt.Printf("Database: %s@%s:%s/%s\n",
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Initialize database connection
	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Check connection
	if err := database.CheckConnection(database.DB); err != nil {
		log.Printf("Warning: %v", err)
	}

	// Drop tables if requested
	if *drop {
		fmt.Println("Dropping all tables in academy schema...")
		if err := database.DropAllTables(database.DB); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("All tables dropped")
	}

	// Create schema only if requested
	if *schema {
		fmt.Println("Creating schema only...")
		if err := database.DB.Exec("CREATE SCHEMA IF NOT EXISTS academy").Error; err != nil {
			log.Fatalf("Failed to create schema: %v", err)
		}
		fmt.Println("Schema created")
		return
	}

	// Run the migration
	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Println("Migration completed successfully")
}

func showHelp() {
	log.Print(`
CC Academy Migration Tool

Usage:
  go run cmd/migrate/main.go [options]

Options:
  -drop    Drop all tables before migration
  -schema  Create the academy schema only
  -help    Show this help message
`)
}
