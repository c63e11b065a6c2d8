package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kodekamper/api/internal/config"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
	"github.com/kodekamper/api/internal/services"
)

// sendTokenResponse sets the token cookie and returns the token in the body.
func sendTokenResponse(c *fiber.Ctx, status int, token string) error {
	days, err := strconv.Atoi(config.Getenv("JWT_COOKIE_EXPIRE", "30"))
	if err != nil || days <= 0 {
		days = 30
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(time.Duration(days) * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}

func Register(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return httperr.BadRequest("invalid request body")
	}
	// Password arrives in the request body but never serializes back out.
	var body struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httperr.BadRequest("invalid request body")
	}
	user.Password = body.Password

	_, token, err := services.RegisterUser(c.Context(), user)
	if err != nil {
		return err
	}

	return sendTokenResponse(c, fiber.StatusCreated, token)
}

func Login(c *fiber.Ctx) error {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&request); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	token, _, err := services.LoginUser(c.Context(), request.Email, request.Password)
	if err != nil {
		return err
	}

	return sendTokenResponse(c, fiber.StatusOK, token)
}

// Logout clears the token cookie.
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "none",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

func GetMe(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	user, err := services.GetUser(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

func UpdateDetails(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var request struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&request); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	user, err := services.UpdateDetails(c.Context(), userID, request.Name, request.Email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

func UpdatePassword(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var request struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&request); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	token, err := services.UpdatePassword(c.Context(), userID, request.CurrentPassword, request.NewPassword)
	if err != nil {
		return err
	}

	return sendTokenResponse(c, fiber.StatusOK, token)
}

// ForgotPassword issues a reset token. Outside production the raw token is
// returned to the caller directly; no mail transport is wired up.
func ForgotPassword(c *fiber.Ctx) error {
	var request struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&request); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	resetToken, err := services.ForgotPassword(c.Context(), request.Email)
	if err != nil {
		return err
	}

	data := fiber.Map{"message": "reset token issued"}
	if !config.IsProduction() {
		data["reset_token"] = resetToken
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

func ResetPassword(c *fiber.Ctx) error {
	var request struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&request); err != nil {
		return httperr.BadRequest("invalid request body")
	}

	token, err := services.ResetPassword(c.Context(), c.Params("resettoken"), request.Password)
	if err != nil {
		return err
	}

	return sendTokenResponse(c, fiber.StatusOK, token)
}
