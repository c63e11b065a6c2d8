package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
	"github.com/kodekamper/api/internal/services"
)

// GetCourses lists courses, either all of them (advanced results) or those of
// one bootcamp when nested under /bootcamps/:bootcampId/courses.
func GetCourses(c *fiber.Ctx) error {
	if bootcampID := c.Params("bootcampId"); bootcampID != "" {
		courses, err := services.ListCoursesForBootcamp(c.Context(), bootcampID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "count": len(courses), "data": courses})
	}

	result, err := services.ListCourses(c.Context(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func GetCourse(c *fiber.Ctx) error {
	course, err := services.GetCourse(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": course})
}

func CreateCourse(c *fiber.Ctx) error {
	var course models.Course
	if err := c.BodyParser(&course); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	userID, role := caller(c)
	created, err := services.CreateCourse(c.Context(), c.Params("bootcampId"), userID, role, course)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

func UpdateCourse(c *fiber.Ctx) error {
	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	userID, role := caller(c)
	course, err := services.UpdateCourse(c.Context(), c.Params("id"), userID, role, payload)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": course})
}

func DeleteCourse(c *fiber.Ctx) error {
	userID, role := caller(c)
	if err := services.DeleteCourse(c.Context(), c.Params("id"), userID, role); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}
