package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/demiirawo/cc-academy/database"
)

// QueryCount reports how many SQL statements a request executed via the
// X-Query-Count response header, for the SPA's debug panel.
func QueryCount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		before := database.SQLLogger.Count()

		err := c.Next()

		executed := database.SQLLogger.Count() - before
		c.Set("X-Query-Count", strconv.Itoa(executed))
		return err
	}
}
