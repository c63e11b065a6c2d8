package httperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// Error is an API error carrying the HTTP status it should be reported with.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...interface{}) *Error {
	return New(fiber.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(fiber.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(fiber.StatusForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(fiber.StatusNotFound, format, args...)
}

// FromMongo maps a store error on a single-document lookup to the API
// taxonomy: no document is a 404, a uniqueness violation is a 400.
func FromMongo(err error, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return NotFound("%s not found with id of %s", resource, id)
	case mongo.IsDuplicateKeyError(err):
		return BadRequest("duplicate field value entered")
	default:
		return err
	}
}

// Handler is the terminal error-translation stage: every error that escapes a
// handler is turned into the uniform {success:false, error:message} shape.
// Unexpected errors become a generic 500 so internals never leak to clients.
func Handler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var apiErr *Error
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Status
		message = apiErr.Message
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		message = fiberErr.Message
	case mongo.IsDuplicateKeyError(err):
		status = fiber.StatusBadRequest
		message = "duplicate field value entered"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
