package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
	"github.com/kodekamper/api/internal/services"
)

// GetReviews lists reviews, either all of them (advanced results) or those of
// one bootcamp when nested under /bootcamps/:bootcampId/reviews.
func GetReviews(c *fiber.Ctx) error {
	if bootcampID := c.Params("bootcampId"); bootcampID != "" {
		reviews, err := services.ListReviewsForBootcamp(c.Context(), bootcampID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "count": len(reviews), "data": reviews})
	}

	result, err := services.ListReviews(c.Context(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func GetReview(c *fiber.Ctx) error {
	review, err := services.GetReview(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": review})
}

func CreateReview(c *fiber.Ctx) error {
	var review models.Review
	if err := c.BodyParser(&review); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	userID, role := caller(c)
	created, err := services.CreateReview(c.Context(), c.Params("bootcampId"), userID, role, review)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

func UpdateReview(c *fiber.Ctx) error {
	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	userID, role := caller(c)
	review, err := services.UpdateReview(c.Context(), c.Params("id"), userID, role, payload)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": review})
}

func DeleteReview(c *fiber.Ctx) error {
	userID, role := caller(c)
	if err := services.DeleteReview(c.Context(), c.Params("id"), userID, role); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}
