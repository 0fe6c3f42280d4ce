package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the generated RayID.
const HeaderName = "X-Ray-Id"

// New creates a middleware that assigns a unique RayID to every request.
// The ID is stored in c.Locals("ray_id") for the logger and echoed in the
// response headers so clients can reference it in error reports.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderName)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("ray_id", id)
		c.Set(HeaderName, id)

		return c.Next()
	}
}
