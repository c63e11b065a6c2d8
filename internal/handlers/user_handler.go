package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
	"github.com/kodekamper/api/internal/services"
)

// Admin-only user management handlers.

func GetUsers(c *fiber.Ctx) error {
	result, err := services.ListUsers(c.Context(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func GetUser(c *fiber.Ctx) error {
	user, err := services.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

func CreateUser(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return httperr.BadRequest("invalid request body")
	}
	var body struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httperr.BadRequest("invalid request body")
	}
	user.Password = body.Password

	created, err := services.CreateUser(c.Context(), user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

func UpdateUser(c *fiber.Ctx) error {
	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	user, err := services.UpdateUser(c.Context(), c.Params("id"), payload)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

func DeleteUser(c *fiber.Ctx) error {
	if err := services.DeleteUser(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}
