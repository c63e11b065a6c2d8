package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kodekamper/api/internal/httperr"
)

// DemoSessionCookie carries the opaque demo-session identifier. It is a
// correlation key, not an authenticated identity.
const DemoSessionCookie = "demo_sid"

// MinSessionIDLength rejects identifiers too short to have come from the
// session endpoint.
const MinSessionIDLength = 16

// RequireDemoSession reads the session cookie and stores it on the context.
// There is no login for demo mode: a missing or malformed cookie is a client
// error, not anonymous access.
func RequireDemoSession(c *fiber.Ctx) error {
	sessionID := c.Cookies(DemoSessionCookie)
	if len(sessionID) < MinSessionIDLength {
		return httperr.BadRequest("demo session required")
	}

	c.Locals("session_id", sessionID)
	return c.Next()
}
