package services

import (
	"github.com/kodekamper/api/internal/httperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// parseObjectID maps malformed hex ids to a 400 instead of surfacing a driver
// error.
func parseObjectID(resource, id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, httperr.BadRequest("invalid %s id %s", resource, id)
	}
	return objID, nil
}

// findOneAndUpdateAfter makes FindOneAndUpdate return the updated document.
func findOneAndUpdateAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// isOwner reports whether the caller may act on a document owned by ownerHex.
// Admins may act on anything.
func isOwner(ownerHex, userID, role string) bool {
	return role == "admin" || ownerHex == userID
}

// stripForbidden removes client-supplied fields that must never be applied
// from an update payload.
func stripForbidden(payload map[string]interface{}, fields ...string) {
	delete(payload, "_id")
	delete(payload, "id")
	delete(payload, "created_at")
	for _, f := range fields {
		delete(payload, f)
	}
}
