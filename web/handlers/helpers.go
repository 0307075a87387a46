package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/demiirawo/cc-academy/config"
	"github.com/demiirawo/cc-academy/services"
)

var (
	cfg            *config.Config
	holidayClient  *services.HolidayClient
	exchangeClient *services.ExchangeClient
)

// Init wires the handler package to its configuration and lookup clients.
// Called once from web.NewServer.
func Init(c *config.Config) {
	cfg = c
	holidayClient = services.NewHolidayClient(c.Services.HolidayAPIBase)
	exchangeClient = services.NewExchangeClient(c.Services.ExchangeAPIBase)
}

// currentUserID returns the authenticated user's id from request locals
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("user_id").(string)
	return uuid.Parse(raw)
}

// currentOrgID returns the authenticated tenant's id from request locals
func currentOrgID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("organisation_id").(string)
	return uuid.Parse(raw)
}

func currentRole(c *fiber.Ctx) string {
	role, _ := c.Locals("user_role").(string)
	return role
}

// paramUUID parses a :param route segment as a uuid
func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func dbError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error: " + err.Error()})
}
