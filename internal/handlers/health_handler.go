package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kodekamper/api/internal/services"
)

func GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    services.GetHealth(c.Context()),
	})
}
