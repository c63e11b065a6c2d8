package services

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/kodekamper/api/internal/db"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
	"github.com/kodekamper/api/internal/query"
	"github.com/kodekamper/api/internal/storage"
	"github.com/kodekamper/api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// earthRadiusMiles converts a distance in miles into radians for
// $centerSphere.
const earthRadiusMiles = 3963.0

// ListBootcamps runs an advanced-results query with courses populated.
func ListBootcamps(ctx context.Context, raw map[string]string) (*query.Result, error) {
	params := query.Parse(raw)
	return query.Run(ctx, db.GetCollection(db.Bootcamps), params, populateCourses(db.Courses))
}

// GetBootcamp loads one bootcamp with its courses attached.
func GetBootcamp(ctx context.Context, id string) (models.Bootcamp, error) {
	objID, err := parseObjectID("bootcamp", id)
	if err != nil {
		return models.Bootcamp{}, err
	}

	var bootcamp models.Bootcamp
	err = db.GetCollection(db.Bootcamps).FindOne(ctx, bson.M{"_id": objID}).Decode(&bootcamp)
	if err != nil {
		return models.Bootcamp{}, httperr.FromMongo(err, "bootcamp", id)
	}

	cursor, err := db.GetCollection(db.Courses).Find(ctx, bson.M{"bootcamp": objID})
	if err != nil {
		return models.Bootcamp{}, err
	}
	courses := []models.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return models.Bootcamp{}, err
	}
	bootcamp.Courses = courses

	return bootcamp, nil
}

// CreateBootcamp creates a bootcamp owned by the caller. Publishers may own
// at most one, enforced by an application pre-check. The pre-check races with
// concurrent creates; the slug unique index catches same-name races, but two
// concurrent creates with different names by one publisher both succeed.
func CreateBootcamp(ctx context.Context, userID, role string, bootcamp models.Bootcamp) (models.Bootcamp, error) {
	if err := bootcamp.Validate(); err != nil {
		return models.Bootcamp{}, err
	}

	ownerID, err := parseObjectID("user", userID)
	if err != nil {
		return models.Bootcamp{}, err
	}

	collection := db.GetCollection(db.Bootcamps)

	if role != models.RoleAdmin {
		count, err := collection.CountDocuments(ctx, bson.M{"user": ownerID})
		if err != nil {
			return models.Bootcamp{}, err
		}
		if count > 0 {
			return models.Bootcamp{}, httperr.BadRequest(
				"the user with ID %s has already published a bootcamp", userID)
		}
	}

	if bootcamp.Address != "" {
		loc, err := GeocodeAddress(bootcamp.Address)
		if err == nil {
			bootcamp.Location = loc
		}
	}

	bootcamp.ID = primitive.NewObjectID()
	bootcamp.Slug = utils.Slugify(bootcamp.Name)
	bootcamp.User = ownerID
	bootcamp.CreatedAt = time.Now()
	bootcamp.AverageRating = 0
	bootcamp.AverageCost = 0

	if _, err := collection.InsertOne(ctx, bootcamp); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Bootcamp{}, httperr.BadRequest("bootcamp with that name already exists")
		}
		return models.Bootcamp{}, err
	}

	return bootcamp, nil
}

// UpdateBootcamp applies a partial update after the ownership check.
func UpdateBootcamp(ctx context.Context, id, userID, role string, payload map[string]interface{}) (models.Bootcamp, error) {
	objID, err := parseObjectID("bootcamp", id)
	if err != nil {
		return models.Bootcamp{}, err
	}

	collection := db.GetCollection(db.Bootcamps)

	var existing models.Bootcamp
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing); err != nil {
		return models.Bootcamp{}, httperr.FromMongo(err, "bootcamp", id)
	}

	if !isOwner(existing.User.Hex(), userID, role) {
		return models.Bootcamp{}, httperr.Forbidden("not authorized to update this bootcamp")
	}

	stripForbidden(payload, "user", "slug", "photo", "average_rating", "average_cost", "location")

	if name, ok := payload["name"].(string); ok && name != "" {
		payload["slug"] = utils.Slugify(name)
	}
	if address, ok := payload["address"].(string); ok && address != "" {
		delete(payload, "address")
		if loc, err := GeocodeAddress(address); err == nil {
			payload["location"] = loc
		}
	}
	if len(payload) == 0 {
		return existing, nil
	}

	var updated models.Bootcamp
	err = collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": payload},
		findOneAndUpdateAfter(),
	).Decode(&updated)
	if err != nil {
		return models.Bootcamp{}, httperr.FromMongo(err, "bootcamp", id)
	}

	return updated, nil
}

// DeleteBootcamp removes a bootcamp after the ownership check, cascading to
// its courses and reviews. The children go first so a failed cascade never
// leaves orphans pointing at a deleted parent.
func DeleteBootcamp(ctx context.Context, id, userID, role string) error {
	objID, err := parseObjectID("bootcamp", id)
	if err != nil {
		return err
	}

	collection := db.GetCollection(db.Bootcamps)

	var bootcamp models.Bootcamp
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&bootcamp); err != nil {
		return httperr.FromMongo(err, "bootcamp", id)
	}

	if !isOwner(bootcamp.User.Hex(), userID, role) {
		return httperr.Forbidden("not authorized to delete this bootcamp")
	}

	_, errs := utils.RunParallelTasks([]utils.ParallelTask{
		func() (interface{}, error) {
			return db.GetCollection(db.Courses).DeleteMany(ctx, bson.M{"bootcamp": objID})
		},
		func() (interface{}, error) {
			return db.GetCollection(db.Reviews).DeleteMany(ctx, bson.M{"bootcamp": objID})
		},
	})
	if err := utils.FirstError(errs); err != nil {
		return err
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		return err
	}

	if bootcamp.Photo != "" {
		if err := storage.RemovePhoto(ctx, bootcamp.Photo); err != nil {
			log.Printf("Warning: failed to remove photo %s: %v", bootcamp.Photo, err)
		}
	}

	return nil
}

// GetBootcampsInRadius finds bootcamps within distance miles of a zipcode.
func GetBootcampsInRadius(ctx context.Context, zipcode, distance string) ([]models.Bootcamp, error) {
	miles, err := strconv.ParseFloat(distance, 64)
	if err != nil || miles <= 0 {
		return nil, httperr.BadRequest("invalid distance %s", distance)
	}

	center, err := Geocoder().Geocode(zipcode)
	if err != nil || center == nil {
		return nil, httperr.BadRequest("could not geocode zipcode %s", zipcode)
	}

	radians := miles / earthRadiusMiles
	filter := bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": []interface{}{
					[]float64{center.Lng, center.Lat},
					radians,
				},
			},
		},
	}

	cursor, err := db.GetCollection(db.Bootcamps).Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	bootcamps := []models.Bootcamp{}
	if err := cursor.All(ctx, &bootcamps); err != nil {
		return nil, err
	}
	return bootcamps, nil
}

// populateCourses attaches each bootcamp's courses from a second query, the
// equivalent of the courses relation eager-load.
func populateCourses(courseColl string) query.Populate {
	return func(ctx context.Context, docs []bson.M) error {
		if len(docs) == 0 {
			return nil
		}

		ids := make([]primitive.ObjectID, 0, len(docs))
		for _, doc := range docs {
			if id, ok := doc["_id"].(primitive.ObjectID); ok {
				ids = append(ids, id)
			}
		}

		cursor, err := db.GetCollection(courseColl).Find(ctx, bson.M{"bootcamp": bson.M{"$in": ids}})
		if err != nil {
			return err
		}
		var courses []bson.M
		if err := cursor.All(ctx, &courses); err != nil {
			return err
		}

		grouped := make(map[primitive.ObjectID][]bson.M)
		for _, course := range courses {
			if parent, ok := course["bootcamp"].(primitive.ObjectID); ok {
				grouped[parent] = append(grouped[parent], course)
			}
		}

		for _, doc := range docs {
			id, ok := doc["_id"].(primitive.ObjectID)
			if !ok {
				continue
			}
			if list := grouped[id]; list != nil {
				doc["courses"] = list
			} else {
				doc["courses"] = []bson.M{}
			}
		}
		return nil
	}
}

// populateBootcampSummary attaches the parent bootcamp's name and description
// to course or review docs.
func populateBootcampSummary(ctx context.Context, docs []bson.M) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	seen := make(map[primitive.ObjectID]bool)
	for _, doc := range docs {
		if id, ok := doc["bootcamp"].(primitive.ObjectID); ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	cursor, err := db.GetCollection(db.Bootcamps).Find(
		ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "description": 1}),
	)
	if err != nil {
		return err
	}
	var parents []bson.M
	if err := cursor.All(ctx, &parents); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]bson.M, len(parents))
	for _, parent := range parents {
		if id, ok := parent["_id"].(primitive.ObjectID); ok {
			byID[id] = parent
		}
	}

	for _, doc := range docs {
		if id, ok := doc["bootcamp"].(primitive.ObjectID); ok {
			if parent, found := byID[id]; found {
				doc["bootcamp_info"] = parent
			}
		}
	}
	return nil
}
