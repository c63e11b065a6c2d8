package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
	"github.com/kodekamper/api/internal/services"
)

func caller(c *fiber.Ctx) (userID, role string) {
	userID, _ = c.Locals("user_id").(string)
	role, _ = c.Locals("role").(string)
	return userID, role
}

func GetBootcamps(c *fiber.Ctx) error {
	result, err := services.ListBootcamps(c.Context(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func GetBootcamp(c *fiber.Ctx) error {
	bootcamp, err := services.GetBootcamp(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": bootcamp})
}

func CreateBootcamp(c *fiber.Ctx) error {
	var bootcamp models.Bootcamp
	if err := c.BodyParser(&bootcamp); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	userID, role := caller(c)
	created, err := services.CreateBootcamp(c.Context(), userID, role, bootcamp)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

func UpdateBootcamp(c *fiber.Ctx) error {
	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	userID, role := caller(c)
	bootcamp, err := services.UpdateBootcamp(c.Context(), c.Params("id"), userID, role, payload)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": bootcamp})
}

func DeleteBootcamp(c *fiber.Ctx) error {
	userID, role := caller(c)
	if err := services.DeleteBootcamp(c.Context(), c.Params("id"), userID, role); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

func GetBootcampsInRadius(c *fiber.Ctx) error {
	bootcamps, err := services.GetBootcampsInRadius(c.Context(), c.Params("zipcode"), c.Params("distance"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "count": len(bootcamps), "data": bootcamps})
}

func UploadBootcampPhoto(c *fiber.Ctx) error {
	userID, role := caller(c)
	bootcamp, err := services.UploadBootcampPhoto(c, c.Params("id"), userID, role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": bootcamp})
}
