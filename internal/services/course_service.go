package services

import (
	"context"
	"math"
	"time"

	"github.com/kodekamper/api/internal/db"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
	"github.com/kodekamper/api/internal/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListCourses runs an advanced-results query over all courses with the parent
// bootcamp summary populated.
func ListCourses(ctx context.Context, raw map[string]string) (*query.Result, error) {
	params := query.Parse(raw)
	return query.Run(ctx, db.GetCollection(db.Courses), params, populateBootcampSummary)
}

// ListCoursesForBootcamp returns the courses belonging to one bootcamp,
// newest first.
func ListCoursesForBootcamp(ctx context.Context, bootcampID string) ([]models.Course, error) {
	objID, err := parseObjectID("bootcamp", bootcampID)
	if err != nil {
		return nil, err
	}

	cursor, err := db.GetCollection(db.Courses).Find(
		ctx,
		bson.M{"bootcamp": objID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	courses := []models.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse loads one course with its bootcamp summary.
func GetCourse(ctx context.Context, id string) (models.Course, error) {
	objID, err := parseObjectID("course", id)
	if err != nil {
		return models.Course{}, err
	}

	var course models.Course
	err = db.GetCollection(db.Courses).FindOne(ctx, bson.M{"_id": objID}).Decode(&course)
	if err != nil {
		return models.Course{}, httperr.FromMongo(err, "course", id)
	}

	course.BootcampInfo, _ = bootcampSummary(ctx, course.Bootcamp)
	return course, nil
}

// CreateCourse adds a course under a bootcamp. Only the bootcamp's owner or
// an admin may add courses to it.
func CreateCourse(ctx context.Context, bootcampID, userID, role string, course models.Course) (models.Course, error) {
	if err := course.Validate(); err != nil {
		return models.Course{}, err
	}

	parentID, err := parseObjectID("bootcamp", bootcampID)
	if err != nil {
		return models.Course{}, err
	}
	ownerID, err := parseObjectID("user", userID)
	if err != nil {
		return models.Course{}, err
	}

	var bootcamp models.Bootcamp
	err = db.GetCollection(db.Bootcamps).FindOne(ctx, bson.M{"_id": parentID}).Decode(&bootcamp)
	if err != nil {
		return models.Course{}, httperr.FromMongo(err, "bootcamp", bootcampID)
	}

	if !isOwner(bootcamp.User.Hex(), userID, role) {
		return models.Course{}, httperr.Forbidden("not authorized to add a course to this bootcamp")
	}

	course.ID = primitive.NewObjectID()
	course.Bootcamp = parentID
	course.User = ownerID
	course.CreatedAt = time.Now()

	if _, err := db.GetCollection(db.Courses).InsertOne(ctx, course); err != nil {
		return models.Course{}, err
	}

	if err := recalcAverageCost(ctx, parentID); err != nil {
		return models.Course{}, err
	}

	return course, nil
}

// UpdateCourse applies a partial update after the ownership check.
func UpdateCourse(ctx context.Context, id, userID, role string, payload map[string]interface{}) (models.Course, error) {
	objID, err := parseObjectID("course", id)
	if err != nil {
		return models.Course{}, err
	}

	collection := db.GetCollection(db.Courses)

	var existing models.Course
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing); err != nil {
		return models.Course{}, httperr.FromMongo(err, "course", id)
	}

	if !isOwner(existing.User.Hex(), userID, role) {
		return models.Course{}, httperr.Forbidden("not authorized to update this course")
	}

	stripForbidden(payload, "user", "bootcamp")
	if len(payload) == 0 {
		return existing, nil
	}

	var updated models.Course
	err = collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": payload},
		findOneAndUpdateAfter(),
	).Decode(&updated)
	if err != nil {
		return models.Course{}, httperr.FromMongo(err, "course", id)
	}

	if err := recalcAverageCost(ctx, updated.Bootcamp); err != nil {
		return models.Course{}, err
	}

	return updated, nil
}

// DeleteCourse removes a course after the ownership check.
func DeleteCourse(ctx context.Context, id, userID, role string) error {
	objID, err := parseObjectID("course", id)
	if err != nil {
		return err
	}

	collection := db.GetCollection(db.Courses)

	var course models.Course
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&course); err != nil {
		return httperr.FromMongo(err, "course", id)
	}

	if !isOwner(course.User.Hex(), userID, role) {
		return httperr.Forbidden("not authorized to delete this course")
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		return err
	}

	return recalcAverageCost(ctx, course.Bootcamp)
}

// recalcAverageCost recomputes the parent bootcamp's average tuition,
// rounded up to the nearest ten.
func recalcAverageCost(ctx context.Context, bootcampID primitive.ObjectID) error {
	cursor, err := db.GetCollection(db.Courses).Aggregate(ctx, bson.A{
		bson.M{"$match": bson.M{"bootcamp": bootcampID}},
		bson.M{"$group": bson.M{
			"_id":          "$bootcamp",
			"average_cost": bson.M{"$avg": "$tuition"},
		}},
	})
	if err != nil {
		return err
	}

	var results []struct {
		AverageCost float64 `bson:"average_cost"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return err
	}

	average := 0.0
	if len(results) > 0 {
		average = math.Ceil(results[0].AverageCost/10) * 10
	}

	_, err = db.GetCollection(db.Bootcamps).UpdateByID(ctx, bootcampID, bson.M{
		"$set": bson.M{"average_cost": average},
	})
	return err
}

func bootcampSummary(ctx context.Context, id primitive.ObjectID) (*models.BootcampSummary, error) {
	var summary models.BootcampSummary
	err := db.GetCollection(db.Bootcamps).FindOne(
		ctx,
		bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"name": 1, "description": 1}),
	).Decode(&summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
