package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

var blockedUserAgents = []string{
	"sqlmap",
	"nikto",
	"acunetix",
	"netsparker",
	"masscan",
	"nmap",
	"zgrab",
	"dirbuster",
	"gobuster",
}

var blockedPaths = []string{
	"/.env",
	"/wp-admin",
	"/wp-login.php",
	"/phpmyadmin",
	"/.git",
	"/.svn",
}

// BotBlocker rejects requests from known scanner user-agents and probes for
// well-known sensitive paths.
func BotBlocker(c *fiber.Ctx) error {
	ua := strings.ToLower(c.Get(fiber.HeaderUserAgent))
	for _, sig := range blockedUserAgents {
		if strings.Contains(ua, sig) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Forbidden",
			})
		}
	}

	path := c.Path()
	for _, prefix := range blockedPaths {
		if strings.HasPrefix(path, prefix) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Not Found",
			})
		}
	}

	return c.Next()
}
