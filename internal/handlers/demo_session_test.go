package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/middleware"
	"github.com/stretchr/testify/assert"
)

func sessionApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httperr.Handler})
	app.Get("/api/v1/demo/session", GetDemoSession)
	app.Post("/api/v1/demo/session", GetDemoSession)
	return app
}

func sessionCookie(res *http.Response) *http.Cookie {
	for _, cookie := range res.Cookies() {
		if cookie.Name == middleware.DemoSessionCookie {
			return cookie
		}
	}
	return nil
}

func TestGetDemoSessionIssuesCookie(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/demo/session", nil)
	res, err := sessionApp().Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)

	cookie := sessionCookie(res)
	assert.NotNil(t, cookie)
	assert.Len(t, cookie.Value, 32) // 16 random bytes, hex encoded
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	body, _ := io.ReadAll(res.Body)
	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			SessionID  string `json:"session_id"`
			TTLMinutes int    `json:"ttl_minutes"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(body, &parsed))
	assert.True(t, parsed.Success)
	assert.Equal(t, cookie.Value, parsed.Data.SessionID)
	assert.Equal(t, 120, parsed.Data.TTLMinutes)
}

func TestGetDemoSessionReusesValidCookie(t *testing.T) {
	sid := "feedfacefeedfacefeedfacefeedface"
	req, _ := http.NewRequest("GET", "/api/v1/demo/session", nil)
	req.AddCookie(&http.Cookie{Name: middleware.DemoSessionCookie, Value: sid})

	res, err := sessionApp().Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)

	cookie := sessionCookie(res)
	assert.NotNil(t, cookie)
	assert.Equal(t, sid, cookie.Value)
}

func TestGetDemoSessionReplacesShortCookie(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/demo/session", nil)
	req.AddCookie(&http.Cookie{Name: middleware.DemoSessionCookie, Value: "tooshort"})

	res, err := sessionApp().Test(req, -1)
	assert.NoError(t, err)

	cookie := sessionCookie(res)
	assert.NotNil(t, cookie)
	assert.NotEqual(t, "tooshort", cookie.Value)
	assert.Len(t, cookie.Value, 32)
}

func TestDemoSessionIDsAreUnique(t *testing.T) {
	app := sessionApp()
	seen := map[string]bool{}

	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest("POST", "/api/v1/demo/session", nil)
		res, err := app.Test(req, -1)
		assert.NoError(t, err)

		cookie := sessionCookie(res)
		assert.NotNil(t, cookie)
		assert.False(t, seen[cookie.Value], "session id repeated")
		seen[cookie.Value] = true
	}
}
