package httperr

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func testApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: Handler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App) (int, map[string]interface{}) {
	req, _ := http.NewRequest("GET", "/boom", nil)
	res, err := app.Test(req, -1)
	assert.NoError(t, err)

	body, _ := io.ReadAll(res.Body)
	var parsed map[string]interface{}
	assert.NoError(t, json.Unmarshal(body, &parsed))
	return res.StatusCode, parsed
}

func TestHandlerTranslatesAPIErrors(t *testing.T) {
	tests := []struct {
		err          error
		expectedCode int
		expectedMsg  string
	}{
		{BadRequest("invalid bootcamp id abc"), 400, "invalid bootcamp id abc"},
		{Unauthorized("invalid credentials"), 401, "invalid credentials"},
		{Forbidden("not authorized to update this bootcamp"), 403, "not authorized to update this bootcamp"},
		{NotFound("bootcamp not found with id of %s", "x"), 404, "bootcamp not found with id of x"},
	}

	for _, test := range tests {
		status, parsed := doRequest(t, testApp(test.err))
		assert.Equal(t, test.expectedCode, status)
		assert.Equal(t, false, parsed["success"])
		assert.Equal(t, test.expectedMsg, parsed["error"])
	}
}

func TestHandlerHidesUnexpectedErrors(t *testing.T) {
	status, parsed := doRequest(t, testApp(errors.New("pq: secret connection string leaked")))

	assert.Equal(t, 500, status)
	assert.Equal(t, false, parsed["success"])
	assert.Equal(t, "internal server error", parsed["error"])
}

func TestFromMongoNoDocuments(t *testing.T) {
	err := FromMongo(mongo.ErrNoDocuments, "bootcamp", "deadbeef")

	var apiErr *Error
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Contains(t, apiErr.Message, "bootcamp not found")
}

func TestFromMongoNilAndPassthrough(t *testing.T) {
	assert.NoError(t, FromMongo(nil, "bootcamp", "x"))

	raw := errors.New("network down")
	assert.Equal(t, raw, FromMongo(raw, "bootcamp", "x"))
}
