package services

import (
	"context"

	"github.com/kodekamper/api/internal/db"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
	"github.com/kodekamper/api/internal/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Admin-only user management.

// sensitiveUserFields never leave the service regardless of any select
// parameter. List results decode into raw documents, so struct-tag hiding
// does not apply on this route.
var sensitiveUserFields = []string{"password", "reset_password_token", "reset_password_expire"}

// ListUsers runs an advanced-results query over accounts. Password hashes and
// reset-token fields are projected out regardless of any select parameter.
func ListUsers(ctx context.Context, raw map[string]string) (*query.Result, error) {
	params := query.Parse(raw)
	params.Projection = scrubUserProjection(params.Projection)
	return query.Run(ctx, db.GetCollection(db.Users), params, nil)
}

// scrubUserProjection removes the sensitive fields from a select projection.
// The store rejects projections mixing inclusion and exclusion, so an
// inclusion map has the sensitive keys deleted from it; without a select (or
// when the select asked only for sensitive fields) an exclusion projection
// hides them instead.
func scrubUserProjection(projection bson.M) bson.M {
	if projection != nil {
		for _, field := range sensitiveUserFields {
			delete(projection, field)
		}
		if len(projection) > 0 {
			return projection
		}
	}

	projection = bson.M{}
	for _, field := range sensitiveUserFields {
		projection[field] = 0
	}
	return projection
}

// CreateUser creates an account with any role, including admin.
func CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.Role == models.RoleAdmin {
		// Validate everything except the role restriction that applies to
		// self-registration.
		check := user
		check.Role = models.RoleUser
		if err := check.Validate(); err != nil {
			return models.User{}, err
		}
	} else if err := user.Validate(); err != nil {
		return models.User{}, err
	}

	created, _, err := insertUser(ctx, user)
	return created, err
}

// UpdateUser applies a partial update to an account. A non-empty password is
// re-hashed.
func UpdateUser(ctx context.Context, id string, payload map[string]interface{}) (models.User, error) {
	objID, err := parseObjectID("user", id)
	if err != nil {
		return models.User{}, err
	}

	stripForbidden(payload, "reset_password_token", "reset_password_expire")
	if password, ok := payload["password"].(string); ok {
		if len(password) < 6 {
			return models.User{}, httperr.BadRequest("password must be at least 6 characters")
		}
		hashed, err := HashPassword(password)
		if err != nil {
			return models.User{}, err
		}
		payload["password"] = hashed
	}
	if len(payload) == 0 {
		return models.User{}, httperr.BadRequest("nothing to update")
	}

	var user models.User
	err = db.GetCollection(db.Users).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": payload},
		findOneAndUpdateAfter(),
	).Decode(&user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, httperr.BadRequest("email already in use")
		}
		return models.User{}, httperr.FromMongo(err, "user", id)
	}
	return user, nil
}

// DeleteUser removes an account.
func DeleteUser(ctx context.Context, id string) error {
	objID, err := parseObjectID("user", id)
	if err != nil {
		return err
	}

	result, err := db.GetCollection(db.Users).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return httperr.NotFound("user not found with id of %s", id)
	}
	return nil
}
