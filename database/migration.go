package database

import (
	"fmt"
	"log"

	"github.com/demiirawo/cc-academy/models"
	"gorm.io/gorm"
)

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Starting GORM AutoMigrate...")

	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS academy").Error; err != nil {
		log.Printf("Warning: Could not create schema: %v", err)
	}

	if err := db.Exec("SET search_path TO academy").Error; err != nil {
		return fmt.Errorf("failed to set search path: %w", err)
	}

	// gen_random_uuid() needs pgcrypto on Postgres < 13
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		log.Printf("Warning: Could not create pgcrypto extension: %v", err)
	}

	// Models are ordered parent-first so FK targets exist before dependents
	for _, model := range allModelsOrdered(db) {
		if err := db.AutoMigrate(model.value); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", model.table, err)
		}
		log.Printf("  ✓ Migrated table: %s", model.table)
	}

	if err := createIndexes(db); err != nil {
		log.Printf("Warning: Some indexes could not be created: %v", err)
	}

	log.Println("GORM AutoMigrate completed successfully")
	return nil
}

type orderedModel struct {
	table string
	value interface{}
}

func allModelsOrdered(db *gorm.DB) []orderedModel {
	out := make([]orderedModel, 0, len(models.AllModels()))
	for _, m := range models.AllModels() {
		table := ""
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err == nil {
			table = stmt.Schema.Table
		}
		out = append(out, orderedModel{table: table, value: m})
	}
	return out
}

// createIndexes adds the lookup indexes the calculators and matrix lean on
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_pay_records_user_date ON academy.pay_records (user_id, pay_date)",
		"CREATE INDEX IF NOT EXISTS idx_staff_schedules_user_start ON academy.staff_schedules (user_id, start_datetime)",
		"CREATE INDEX IF NOT EXISTS idx_pages_org_parent ON academy.pages (organisation_id, parent_id)",
		"CREATE INDEX IF NOT EXISTS idx_onboarding_steps_org_sort ON academy.onboarding_steps (organisation_id, sort_order)",
	}

	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// CheckConnection verifies the database connection and schema
func CheckConnection(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	var schemaExists bool
	err = db.Raw("SELECT EXISTS(SELECT 1 FROM information_schema.schemata WHERE schema_name = 'academy')").Scan(&schemaExists).Error
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}

	if !schemaExists {
		log.Println("Warning: 'academy' schema does not exist, creating it")
		if err := db.Exec("CREATE SCHEMA IF NOT EXISTS academy").Error; err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// DropAllTables drops every application table in reverse dependency order.
// Used by cmd/migrate -drop.
func DropAllTables(db *gorm.DB) error {
	all := models.AllModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return err
		}
	}
	return nil
}
