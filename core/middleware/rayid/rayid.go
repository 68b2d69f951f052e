package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is echoed on every response and honoured when a proxy sets it.
const HeaderName = "X-Ray-ID"

// LocalsKey is where the id is stored in fiber locals.
const LocalsKey = "ray_id"

// New returns a middleware that tags every request with a RayID.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
