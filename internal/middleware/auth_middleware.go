package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kodekamper/api/internal/config"
	"github.com/kodekamper/api/internal/httperr"
)

func jwtSecret() []byte {
	return []byte(config.Getenv("JWT_SECRET", ""))
}

// Protect validates the JWT and stores user id and role on the context.
// The token comes from the Authorization header, falling back to the token
// cookie set at login.
func Protect(c *fiber.Ctx) error {
	tokenString := c.Get("Authorization")
	if tokenString != "" {
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	} else {
		tokenString = c.Cookies("token")
	}
	if tokenString == "" {
		return httperr.Unauthorized("not authorized to access this route")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return httperr.Unauthorized("not authorized to access this route")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return httperr.Unauthorized("not authorized to access this route")
	}

	userID, userExists := claims["user_id"].(string)
	role, roleExists := claims["role"].(string)
	if !userExists || !roleExists {
		return httperr.Unauthorized("not authorized to access this route")
	}

	c.Locals("user_id", userID)
	c.Locals("role", role)

	return c.Next()
}

// Authorize restricts a route to the listed roles. Must run after Protect.
// Authenticated users with the wrong role get a 403.
func Authorize(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return httperr.Forbidden("user role %s is not authorized to access this route", role)
	}
}
