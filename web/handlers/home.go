package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/demiirawo/cc-academy/database"
)

// Dashboard returns the organisation's headline numbers
func Dashboard(c *fiber.Ctx) error {
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	db := database.GetDB()

	var stats struct {
		TotalStaff       int64
		TotalPages       int64
		TotalSteps       int64
		Acknowledgements int64
	}

	db.Raw("SELECT COUNT(*) FROM academy.users WHERE organisation_id = ? AND is_active = true", orgID).Scan(&stats.TotalStaff)
	db.Raw("SELECT COUNT(*) FROM academy.pages WHERE organisation_id = ?", orgID).Scan(&stats.TotalPages)
	db.Raw("SELECT COUNT(*) FROM academy.onboarding_steps WHERE organisation_id = ? AND is_active = true", orgID).Scan(&stats.TotalSteps)
	db.Raw(`
		SELECT COUNT(*)
		FROM academy.page_acknowledgements pa
		JOIN academy.pages p ON p.id = pa.page_id
		WHERE p.organisation_id = ?
	`, orgID).Scan(&stats.Acknowledgements)

	var recentPages []struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		UpdatedAt string `json:"updated_at"`
	}
	db.Raw(`
		SELECT id::text, title, TO_CHAR(updated_at, 'YYYY-MM-DD HH24:MI') as updated_at
		FROM academy.pages
		WHERE organisation_id = ?
		ORDER BY updated_at DESC
		LIMIT 5
	`, orgID).Scan(&recentPages)

	return c.JSON(fiber.Map{
		"total_staff":            stats.TotalStaff,
		"total_pages":            stats.TotalPages,
		"total_onboarding_steps": stats.TotalSteps,
		"total_acknowledgements": stats.Acknowledgements,
		"recent_pages":           recentPages,
	})
}

// GetSQLLogs returns recent SQL logs as JSON
func GetSQLLogs(c *fiber.Ctx) error {
	queries := database.SQLLogger.GetRecentQueries(20)
	return c.JSON(queries)
}

// ClearSQLLogs clears all SQL logs
func ClearSQLLogs(c *fiber.Ctx) error {
	database.SQLLogger.Clear()
	return c.SendStatus(fiber.StatusOK)
}
