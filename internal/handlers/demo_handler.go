package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kodekamper/api/internal/config"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/middleware"
	"github.com/kodekamper/api/internal/models"
	"github.com/kodekamper/api/internal/services"
)

func sessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals("session_id").(string)
	return sid
}

// GetDemoSession returns the caller's demo session, creating one when the
// cookie is missing or too short. Each call refreshes the cookie TTL.
func GetDemoSession(c *fiber.Ctx) error {
	sid := c.Cookies(middleware.DemoSessionCookie)

	if len(sid) < middleware.MinSessionIDLength {
		var err error
		if sid, err = services.NewDemoSessionID(); err != nil {
			return err
		}
	}

	expiresAt := time.Now().Add(services.DemoSessionTTL)

	c.Cookie(&fiber.Cookie{
		Name:     middleware.DemoSessionCookie,
		Value:    sid,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"session_id":  sid,
			"expires_at":  expiresAt,
			"ttl_minutes": int(services.DemoSessionTTL.Minutes()),
		},
	})
}

func ResetDemoSession(c *fiber.Ctx) error {
	if err := services.ResetDemoSession(c.Context(), sessionID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"message": "demo session reset successfully"},
	})
}

// --- Bootcamps ---

func GetDemoBootcamps(c *fiber.Ctx) error {
	bootcamps, err := services.ListDemoBootcamps(c.Context(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "count": len(bootcamps), "data": bootcamps})
}

func GetDemoBootcamp(c *fiber.Ctx) error {
	bootcamp, err := services.GetDemoBootcamp(c.Context(), sessionID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": bootcamp})
}

func CreateDemoBootcamp(c *fiber.Ctx) error {
	var bootcamp models.DemoBootcamp
	if err := c.BodyParser(&bootcamp); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	created, err := services.CreateDemoBootcamp(c.Context(), sessionID(c), bootcamp)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

func UpdateDemoBootcamp(c *fiber.Ctx) error {
	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	bootcamp, err := services.UpdateDemoBootcamp(c.Context(), sessionID(c), c.Params("id"), payload)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": bootcamp})
}

func DeleteDemoBootcamp(c *fiber.Ctx) error {
	if err := services.DeleteDemoBootcamp(c.Context(), sessionID(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// --- Courses ---

func GetDemoCourses(c *fiber.Ctx) error {
	if bootcampID := c.Params("bootcampId"); bootcampID != "" {
		courses, err := services.ListDemoCoursesForBootcamp(c.Context(), sessionID(c), bootcampID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "count": len(courses), "data": courses})
	}

	courses, err := services.ListDemoCourses(c.Context(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "count": len(courses), "data": courses})
}

func GetDemoCourse(c *fiber.Ctx) error {
	course, err := services.GetDemoCourse(c.Context(), sessionID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": course})
}

func CreateDemoCourse(c *fiber.Ctx) error {
	var course models.DemoCourse
	if err := c.BodyParser(&course); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	created, err := services.CreateDemoCourse(c.Context(), sessionID(c), c.Params("bootcampId"), course)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

func UpdateDemoCourse(c *fiber.Ctx) error {
	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	course, err := services.UpdateDemoCourse(c.Context(), sessionID(c), c.Params("id"), payload)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": course})
}

func DeleteDemoCourse(c *fiber.Ctx) error {
	if err := services.DeleteDemoCourse(c.Context(), sessionID(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// --- Reviews ---

func GetDemoReviews(c *fiber.Ctx) error {
	if bootcampID := c.Params("bootcampId"); bootcampID != "" {
		reviews, err := services.ListDemoReviewsForBootcamp(c.Context(), sessionID(c), bootcampID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "count": len(reviews), "data": reviews})
	}

	reviews, err := services.ListDemoReviews(c.Context(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "count": len(reviews), "data": reviews})
}

func GetDemoReview(c *fiber.Ctx) error {
	review, err := services.GetDemoReview(c.Context(), sessionID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": review})
}

func CreateDemoReview(c *fiber.Ctx) error {
	var review models.DemoReview
	if err := c.BodyParser(&review); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	created, err := services.CreateDemoReview(c.Context(), sessionID(c), c.Params("bootcampId"), review)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

func UpdateDemoReview(c *fiber.Ctx) error {
	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	review, err := services.UpdateDemoReview(c.Context(), sessionID(c), c.Params("id"), payload)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": review})
}

func DeleteDemoReview(c *fiber.Ctx) error {
	if err := services.DeleteDemoReview(c.Context(), sessionID(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}
