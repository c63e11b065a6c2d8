package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/kodekamper/api/internal/db"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
	"github.com/kodekamper/api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DemoSessionTTL bounds the lifetime of a demo session and every document
// created within it.
const DemoSessionTTL = 2 * time.Hour

// NewDemoSessionID generates a fresh 16-byte hex session identifier.
func NewDemoSessionID() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// sessionFilter scopes a query to one session. Documents past their expiry
// are excluded even when the store has not yet purged them.
func sessionFilter(sessionID string) bson.M {
	return bson.M{
		"session_id": sessionID,
		"expires_at": bson.M{"$gt": time.Now()},
	}
}

func sessionDocFilter(sessionID string, id primitive.ObjectID) bson.M {
	filter := sessionFilter(sessionID)
	filter["_id"] = id
	return filter
}

// ResetDemoSession unconditionally deletes the session's documents from all
// three demo collections in parallel.
func ResetDemoSession(ctx context.Context, sessionID string) error {
	filter := bson.M{"session_id": sessionID}
	_, errs := utils.RunParallelTasks([]utils.ParallelTask{
		func() (interface{}, error) {
			return db.GetCollection(db.DemoBootcamps).DeleteMany(ctx, filter)
		},
		func() (interface{}, error) {
			return db.GetCollection(db.DemoCourses).DeleteMany(ctx, filter)
		},
		func() (interface{}, error) {
			return db.GetCollection(db.DemoReviews).DeleteMany(ctx, filter)
		},
	})
	return utils.FirstError(errs)
}

// --- Bootcamps ---

func ListDemoBootcamps(ctx context.Context, sessionID string) ([]models.DemoBootcamp, error) {
	cursor, err := db.GetCollection(db.DemoBootcamps).Find(
		ctx,
		sessionFilter(sessionID),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	bootcamps := []models.DemoBootcamp{}
	if err := cursor.All(ctx, &bootcamps); err != nil {
		return nil, err
	}
	return bootcamps, nil
}

func GetDemoBootcamp(ctx context.Context, sessionID, id string) (models.DemoBootcamp, error) {
	objID, err := parseObjectID("bootcamp", id)
	if err != nil {
		return models.DemoBootcamp{}, err
	}

	var bootcamp models.DemoBootcamp
	err = db.GetCollection(db.DemoBootcamps).FindOne(ctx, sessionDocFilter(sessionID, objID)).Decode(&bootcamp)
	if err != nil {
		return models.DemoBootcamp{}, httperr.FromMongo(err, "bootcamp", id)
	}

	filter := sessionFilter(sessionID)
	filter["bootcamp"] = objID
	cursor, err := db.GetCollection(db.DemoCourses).Find(ctx, filter)
	if err != nil {
		return models.DemoBootcamp{}, err
	}
	courses := []models.DemoCourse{}
	if err := cursor.All(ctx, &courses); err != nil {
		return models.DemoBootcamp{}, err
	}
	bootcamp.Courses = courses

	return bootcamp, nil
}

func CreateDemoBootcamp(ctx context.Context, sessionID string, bootcamp models.DemoBootcamp) (models.DemoBootcamp, error) {
	if err := bootcamp.Validate(); err != nil {
		return models.DemoBootcamp{}, err
	}

	bootcamp.ID = primitive.NewObjectID()
	bootcamp.SessionID = sessionID
	bootcamp.ExpiresAt = time.Now().Add(DemoSessionTTL)
	bootcamp.CreatedAt = time.Now()

	if _, err := db.GetCollection(db.DemoBootcamps).InsertOne(ctx, bootcamp); err != nil {
		return models.DemoBootcamp{}, err
	}
	return bootcamp, nil
}

func UpdateDemoBootcamp(ctx context.Context, sessionID, id string, payload map[string]interface{}) (models.DemoBootcamp, error) {
	objID, err := parseObjectID("bootcamp", id)
	if err != nil {
		return models.DemoBootcamp{}, err
	}

	// Re-parenting and lifetime extension are not client-settable.
	stripForbidden(payload, "session_id", "expires_at")
	if len(payload) == 0 {
		return GetDemoBootcamp(ctx, sessionID, id)
	}

	var bootcamp models.DemoBootcamp
	err = db.GetCollection(db.DemoBootcamps).FindOneAndUpdate(
		ctx,
		sessionDocFilter(sessionID, objID),
		bson.M{"$set": payload},
		findOneAndUpdateAfter(),
	).Decode(&bootcamp)
	if err != nil {
		return models.DemoBootcamp{}, httperr.FromMongo(err, "bootcamp", id)
	}
	return bootcamp, nil
}

// DeleteDemoBootcamp removes a bootcamp and cascades to its courses and
// reviews within the same session. The cascade is explicit: the store
// enforces no foreign keys.
func DeleteDemoBootcamp(ctx context.Context, sessionID, id string) error {
	objID, err := parseObjectID("bootcamp", id)
	if err != nil {
		return err
	}

	collection := db.GetCollection(db.DemoBootcamps)

	if err := collection.FindOne(ctx, sessionDocFilter(sessionID, objID)).Err(); err != nil {
		return httperr.FromMongo(err, "bootcamp", id)
	}

	childFilter := bson.M{"bootcamp": objID, "session_id": sessionID}
	_, errs := utils.RunParallelTasks([]utils.ParallelTask{
		func() (interface{}, error) {
			return db.GetCollection(db.DemoCourses).DeleteMany(ctx, childFilter)
		},
		func() (interface{}, error) {
			return db.GetCollection(db.DemoReviews).DeleteMany(ctx, childFilter)
		},
	})
	if err := utils.FirstError(errs); err != nil {
		return err
	}

	_, err = collection.DeleteOne(ctx, bson.M{"_id": objID, "session_id": sessionID})
	return err
}

// --- Courses ---

func ListDemoCourses(ctx context.Context, sessionID string) ([]models.DemoCourse, error) {
	cursor, err := db.GetCollection(db.DemoCourses).Find(
		ctx,
		sessionFilter(sessionID),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	courses := []models.DemoCourse{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}

	for i := range courses {
		courses[i].BootcampInfo, _ = demoBootcampSummary(ctx, sessionID, courses[i].Bootcamp)
	}
	return courses, nil
}

func ListDemoCoursesForBootcamp(ctx context.Context, sessionID, bootcampID string) ([]models.DemoCourse, error) {
	objID, err := parseObjectID("bootcamp", bootcampID)
	if err != nil {
		return nil, err
	}

	if err := db.GetCollection(db.DemoBootcamps).FindOne(ctx, sessionDocFilter(sessionID, objID)).Err(); err != nil {
		return nil, httperr.FromMongo(err, "bootcamp", bootcampID)
	}

	filter := sessionFilter(sessionID)
	filter["bootcamp"] = objID
	cursor, err := db.GetCollection(db.DemoCourses).Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	courses := []models.DemoCourse{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func GetDemoCourse(ctx context.Context, sessionID, id string) (models.DemoCourse, error) {
	objID, err := parseObjectID("course", id)
	if err != nil {
		return models.DemoCourse{}, err
	}

	var course models.DemoCourse
	err = db.GetCollection(db.DemoCourses).FindOne(ctx, sessionDocFilter(sessionID, objID)).Decode(&course)
	if err != nil {
		return models.DemoCourse{}, httperr.FromMongo(err, "course", id)
	}

	course.BootcampInfo, _ = demoBootcampSummary(ctx, sessionID, course.Bootcamp)
	return course, nil
}

func CreateDemoCourse(ctx context.Context, sessionID, bootcampID string, course models.DemoCourse) (models.DemoCourse, error) {
	if err := course.Validate(); err != nil {
		return models.DemoCourse{}, err
	}

	parentID, err := parseObjectID("bootcamp", bootcampID)
	if err != nil {
		return models.DemoCourse{}, err
	}

	if err := db.GetCollection(db.DemoBootcamps).FindOne(ctx, sessionDocFilter(sessionID, parentID)).Err(); err != nil {
		return models.DemoCourse{}, httperr.FromMongo(err, "bootcamp", bootcampID)
	}

	course.ID = primitive.NewObjectID()
	course.SessionID = sessionID
	course.Bootcamp = parentID
	course.ExpiresAt = time.Now().Add(DemoSessionTTL)
	course.CreatedAt = time.Now()

	if _, err := db.GetCollection(db.DemoCourses).InsertOne(ctx, course); err != nil {
		return models.DemoCourse{}, err
	}
	return course, nil
}

func UpdateDemoCourse(ctx context.Context, sessionID, id string, payload map[string]interface{}) (models.DemoCourse, error) {
	objID, err := parseObjectID("course", id)
	if err != nil {
		return models.DemoCourse{}, err
	}

	stripForbidden(payload, "session_id", "bootcamp", "expires_at")
	if len(payload) == 0 {
		return GetDemoCourse(ctx, sessionID, id)
	}

	var course models.DemoCourse
	err = db.GetCollection(db.DemoCourses).FindOneAndUpdate(
		ctx,
		sessionDocFilter(sessionID, objID),
		bson.M{"$set": payload},
		findOneAndUpdateAfter(),
	).Decode(&course)
	if err != nil {
		return models.DemoCourse{}, httperr.FromMongo(err, "course", id)
	}
	return course, nil
}

func DeleteDemoCourse(ctx context.Context, sessionID, id string) error {
	objID, err := parseObjectID("course", id)
	if err != nil {
		return err
	}

	result, err := db.GetCollection(db.DemoCourses).DeleteOne(ctx, sessionDocFilter(sessionID, objID))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return httperr.NotFound("course not found with id of %s", id)
	}
	return nil
}

// --- Reviews ---

func ListDemoReviews(ctx context.Context, sessionID string) ([]models.DemoReview, error) {
	cursor, err := db.GetCollection(db.DemoReviews).Find(
		ctx,
		sessionFilter(sessionID),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	reviews := []models.DemoReview{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}

	for i := range reviews {
		reviews[i].BootcampInfo, _ = demoBootcampSummary(ctx, sessionID, reviews[i].Bootcamp)
	}
	return reviews, nil
}

func ListDemoReviewsForBootcamp(ctx context.Context, sessionID, bootcampID string) ([]models.DemoReview, error) {
	objID, err := parseObjectID("bootcamp", bootcampID)
	if err != nil {
		return nil, err
	}

	if err := db.GetCollection(db.DemoBootcamps).FindOne(ctx, sessionDocFilter(sessionID, objID)).Err(); err != nil {
		return nil, httperr.FromMongo(err, "bootcamp", bootcampID)
	}

	filter := sessionFilter(sessionID)
	filter["bootcamp"] = objID
	cursor, err := db.GetCollection(db.DemoReviews).Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	reviews := []models.DemoReview{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func GetDemoReview(ctx context.Context, sessionID, id string) (models.DemoReview, error) {
	objID, err := parseObjectID("review", id)
	if err != nil {
		return models.DemoReview{}, err
	}

	var review models.DemoReview
	err = db.GetCollection(db.DemoReviews).FindOne(ctx, sessionDocFilter(sessionID, objID)).Decode(&review)
	if err != nil {
		return models.DemoReview{}, httperr.FromMongo(err, "review", id)
	}

	review.BootcampInfo, _ = demoBootcampSummary(ctx, sessionID, review.Bootcamp)
	return review, nil
}

func CreateDemoReview(ctx context.Context, sessionID, bootcampID string, review models.DemoReview) (models.DemoReview, error) {
	if err := review.Validate(); err != nil {
		return models.DemoReview{}, err
	}

	parentID, err := parseObjectID("bootcamp", bootcampID)
	if err != nil {
		return models.DemoReview{}, err
	}

	if err := db.GetCollection(db.DemoBootcamps).FindOne(ctx, sessionDocFilter(sessionID, parentID)).Err(); err != nil {
		return models.DemoReview{}, httperr.FromMongo(err, "bootcamp", bootcampID)
	}

	review.ID = primitive.NewObjectID()
	review.SessionID = sessionID
	review.Bootcamp = parentID
	review.ExpiresAt = time.Now().Add(DemoSessionTTL)
	review.CreatedAt = time.Now()

	if _, err := db.GetCollection(db.DemoReviews).InsertOne(ctx, review); err != nil {
		return models.DemoReview{}, err
	}
	return review, nil
}

func UpdateDemoReview(ctx context.Context, sessionID, id string, payload map[string]interface{}) (models.DemoReview, error) {
	objID, err := parseObjectID("review", id)
	if err != nil {
		return models.DemoReview{}, err
	}

	stripForbidden(payload, "session_id", "bootcamp", "expires_at")
	if len(payload) == 0 {
		return GetDemoReview(ctx, sessionID, id)
	}

	if rating, ok := payload["rating"]; ok {
		if !validRating(rating) {
			return models.DemoReview{}, httperr.BadRequest("please add a rating between 1 and 10")
		}
	}

	var review models.DemoReview
	err = db.GetCollection(db.DemoReviews).FindOneAndUpdate(
		ctx,
		sessionDocFilter(sessionID, objID),
		bson.M{"$set": payload},
		findOneAndUpdateAfter(),
	).Decode(&review)
	if err != nil {
		return models.DemoReview{}, httperr.FromMongo(err, "review", id)
	}
	return review, nil
}

func DeleteDemoReview(ctx context.Context, sessionID, id string) error {
	objID, err := parseObjectID("review", id)
	if err != nil {
		return err
	}

	result, err := db.GetCollection(db.DemoReviews).DeleteOne(ctx, sessionDocFilter(sessionID, objID))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return httperr.NotFound("review not found with id of %s", id)
	}
	return nil
}

func demoBootcampSummary(ctx context.Context, sessionID string, id primitive.ObjectID) (*models.BootcampSummary, error) {
	var summary models.BootcampSummary
	err := db.GetCollection(db.DemoBootcamps).FindOne(
		ctx,
		sessionDocFilter(sessionID, id),
		options.FindOne().SetProjection(bson.M{"name": 1, "description": 1}),
	).Decode(&summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
