package services

import (
	"testing"

	"github.com/kodekamper/api/internal/query"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestScrubUserProjectionWithoutSelect(t *testing.T) {
	projection := scrubUserProjection(nil)

	assert.Equal(t, bson.M{
		"password":              0,
		"reset_password_token":  0,
		"reset_password_expire": 0,
	}, projection)
}

func TestScrubUserProjectionKeepsInclusionMode(t *testing.T) {
	// select=name,email must stay a pure inclusion projection; mixing in
	// exclusions gets rejected by the store.
	params := query.Parse(map[string]string{"select": "name,email"})
	projection := scrubUserProjection(params.Projection)

	assert.Equal(t, bson.M{"name": 1, "email": 1}, projection)
	for _, value := range projection {
		assert.Equal(t, 1, value)
	}
}

func TestScrubUserProjectionDropsSensitiveSelects(t *testing.T) {
	params := query.Parse(map[string]string{"select": "name,password,reset_password_token"})
	projection := scrubUserProjection(params.Projection)

	assert.Equal(t, bson.M{"name": 1}, projection)
}

func TestScrubUserProjectionOnlySensitiveSelectFallsBack(t *testing.T) {
	// Selecting nothing but hidden fields must not degrade to an empty
	// projection, which would return every field.
	params := query.Parse(map[string]string{"select": "password"})
	projection := scrubUserProjection(params.Projection)

	assert.Equal(t, bson.M{
		"password":              0,
		"reset_password_token":  0,
		"reset_password_expire": 0,
	}, projection)
}
