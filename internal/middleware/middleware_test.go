package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/stretchr/testify/assert"
)

func parseBody(t *testing.T, res *http.Response) map[string]interface{} {
	body, _ := io.ReadAll(res.Body)
	var parsed map[string]interface{}
	assert.NoError(t, json.Unmarshal(body, &parsed))
	return parsed
}

func TestBotBlockerRejectsScanners(t *testing.T) {
	app := fiber.New()
	app.Use(BotBlocker)
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 sqlmap/1.7")
	res, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 403, res.StatusCode)
}

func TestBotBlockerRejectsProbePaths(t *testing.T) {
	app := fiber.New()
	app.Use(BotBlocker)
	app.Get("/*", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req, _ := http.NewRequest("GET", "/.env", nil)
	req.Header.Set("User-Agent", "curl/8.0")
	res, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 404, res.StatusCode)
}

func TestBotBlockerPassesNormalTraffic(t *testing.T) {
	app := fiber.New()
	app.Use(BotBlocker)
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	res, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
}

func demoApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httperr.Handler})
	app.Get("/demo/bootcamps", RequireDemoSession, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"session_id": c.Locals("session_id")})
	})
	return app
}

func TestRequireDemoSessionMissingCookie(t *testing.T) {
	req, _ := http.NewRequest("GET", "/demo/bootcamps", nil)
	res, err := demoApp().Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 400, res.StatusCode)

	parsed := parseBody(t, res)
	assert.Equal(t, false, parsed["success"])
	assert.Equal(t, "demo session required", parsed["error"])
}

func TestRequireDemoSessionShortCookie(t *testing.T) {
	req, _ := http.NewRequest("GET", "/demo/bootcamps", nil)
	req.AddCookie(&http.Cookie{Name: DemoSessionCookie, Value: "short"})
	res, err := demoApp().Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 400, res.StatusCode)
}

func TestRequireDemoSessionStoresID(t *testing.T) {
	sid := "0123456789abcdef0123456789abcdef"
	req, _ := http.NewRequest("GET", "/demo/bootcamps", nil)
	req.AddCookie(&http.Cookie{Name: DemoSessionCookie, Value: sid})
	res, err := demoApp().Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)

	parsed := parseBody(t, res)
	assert.Equal(t, sid, parsed["session_id"])
}

func protectedApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httperr.Handler})
	app.Get("/me", Protect, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("role"),
		})
	})
	app.Get("/admin", Protect, Authorize("admin"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func signToken(t *testing.T, secret, userID, role string) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return token
}

func TestProtectMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	req, _ := http.NewRequest("GET", "/me", nil)
	res, err := protectedApp().Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 401, res.StatusCode)
}

func TestProtectValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "test-secret", "64c9a1b2c3d4e5f6a7b8c9d0", "publisher")

	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := protectedApp().Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)

	parsed := parseBody(t, res)
	assert.Equal(t, "64c9a1b2c3d4e5f6a7b8c9d0", parsed["user_id"])
	assert.Equal(t, "publisher", parsed["role"])
}

func TestProtectWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "other-secret", "64c9a1b2c3d4e5f6a7b8c9d0", "user")

	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := protectedApp().Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 401, res.StatusCode)
}

func TestProtectTokenCookieFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "test-secret", "64c9a1b2c3d4e5f6a7b8c9d0", "user")

	req, _ := http.NewRequest("GET", "/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	res, err := protectedApp().Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
}

func TestAuthorizeWrongRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "test-secret", "64c9a1b2c3d4e5f6a7b8c9d0", "user")

	req, _ := http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := protectedApp().Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 403, res.StatusCode)

	parsed := parseBody(t, res)
	assert.Contains(t, parsed["error"], "user role user is not authorized")
}

func TestAuthorizeMatchingRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "test-secret", "64c9a1b2c3d4e5f6a7b8c9d0", "admin")

	req, _ := http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := protectedApp().Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "cache:/api/v1/bootcamps?page=2", CacheKey("/api/v1/bootcamps?page=2"))
}
