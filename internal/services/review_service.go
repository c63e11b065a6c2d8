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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListReviews runs an advanced-results query over all reviews with the parent
// bootcamp summary populated.
func ListReviews(ctx context.Context, raw map[string]string) (*query.Result, error) {
	params := query.Parse(raw)
	return query.Run(ctx, db.GetCollection(db.Reviews), params, populateBootcampSummary)
}

// ListReviewsForBootcamp returns the reviews of one bootcamp, newest first.
func ListReviewsForBootcamp(ctx context.Context, bootcampID string) ([]models.Review, error) {
	objID, err := parseObjectID("bootcamp", bootcampID)
	if err != nil {
		return nil, err
	}

	cursor, err := db.GetCollection(db.Reviews).Find(
		ctx,
		bson.M{"bootcamp": objID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetReview loads one review with its bootcamp summary.
func GetReview(ctx context.Context, id string) (models.Review, error) {
	objID, err := parseObjectID("review", id)
	if err != nil {
		return models.Review{}, err
	}

	var review models.Review
	err = db.GetCollection(db.Reviews).FindOne(ctx, bson.M{"_id": objID}).Decode(&review)
	if err != nil {
		return models.Review{}, httperr.FromMongo(err, "review", id)
	}

	review.BootcampInfo, _ = bootcampSummary(ctx, review.Bootcamp)
	return review, nil
}

// CreateReview adds a review for a bootcamp. A user may review a bootcamp
// once; the unique (bootcamp, user) index turns a concurrent double submit
// into a duplicate-key error mapped to a 400.
func CreateReview(ctx context.Context, bootcampID, userID, role string, review models.Review) (models.Review, error) {
	if err := review.Validate(); err != nil {
		return models.Review{}, err
	}

	parentID, err := parseObjectID("bootcamp", bootcampID)
	if err != nil {
		return models.Review{}, err
	}
	authorID, err := parseObjectID("user", userID)
	if err != nil {
		return models.Review{}, err
	}

	err = db.GetCollection(db.Bootcamps).FindOne(ctx, bson.M{"_id": parentID}).Err()
	if err != nil {
		return models.Review{}, httperr.FromMongo(err, "bootcamp", bootcampID)
	}

	review.ID = primitive.NewObjectID()
	review.Bootcamp = parentID
	review.User = authorID
	review.CreatedAt = time.Now()

	if _, err := db.GetCollection(db.Reviews).InsertOne(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Review{}, httperr.BadRequest("you have already submitted a review for this bootcamp")
		}
		return models.Review{}, err
	}

	if err := recalcAverageRating(ctx, parentID); err != nil {
		return models.Review{}, err
	}

	return review, nil
}

// UpdateReview applies a partial update after the ownership check.
func UpdateReview(ctx context.Context, id, userID, role string, payload map[string]interface{}) (models.Review, error) {
	objID, err := parseObjectID("review", id)
	if err != nil {
		return models.Review{}, err
	}

	collection := db.GetCollection(db.Reviews)

	var existing models.Review
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing); err != nil {
		return models.Review{}, httperr.FromMongo(err, "review", id)
	}

	if !isOwner(existing.User.Hex(), userID, role) {
		return models.Review{}, httperr.Forbidden("not authorized to update this review")
	}

	stripForbidden(payload, "user", "bootcamp")
	if len(payload) == 0 {
		return existing, nil
	}

	if rating, ok := payload["rating"]; ok {
		if !validRating(rating) {
			return models.Review{}, httperr.BadRequest("please add a rating between 1 and 10")
		}
	}

	var updated models.Review
	err = collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": payload},
		findOneAndUpdateAfter(),
	).Decode(&updated)
	if err != nil {
		return models.Review{}, httperr.FromMongo(err, "review", id)
	}

	if err := recalcAverageRating(ctx, updated.Bootcamp); err != nil {
		return models.Review{}, err
	}

	return updated, nil
}

// DeleteReview removes a review after the ownership check.
func DeleteReview(ctx context.Context, id, userID, role string) error {
	objID, err := parseObjectID("review", id)
	if err != nil {
		return err
	}

	collection := db.GetCollection(db.Reviews)

	var review models.Review
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&review); err != nil {
		return httperr.FromMongo(err, "review", id)
	}

	if !isOwner(review.User.Hex(), userID, role) {
		return httperr.Forbidden("not authorized to delete this review")
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		return err
	}

	return recalcAverageRating(ctx, review.Bootcamp)
}

// validRating accepts JSON numbers (decoded as float64) in the 1-10 range.
func validRating(raw interface{}) bool {
	switch v := raw.(type) {
	case float64:
		return v >= 1 && v <= 10 && v == math.Trunc(v)
	case int:
		return v >= 1 && v <= 10
	default:
		return false
	}
}

// recalcAverageRating recomputes the parent bootcamp's average rating to one
// decimal place.
func recalcAverageRating(ctx context.Context, bootcampID primitive.ObjectID) error {
	cursor, err := db.GetCollection(db.Reviews).Aggregate(ctx, bson.A{
		bson.M{"$match": bson.M{"bootcamp": bootcampID}},
		bson.M{"$group": bson.M{
			"_id":            "$bootcamp",
			"average_rating": bson.M{"$avg": "$rating"},
		}},
	})
	if err != nil {
		return err
	}

	var results []struct {
		AverageRating float64 `bson:"average_rating"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return err
	}

	average := 0.0
	if len(results) > 0 {
		average = math.Round(results[0].AverageRating*10) / 10
	}

	_, err = db.GetCollection(db.Bootcamps).UpdateByID(ctx, bootcampID, bson.M{
		"$set": bson.M{"average_rating": average},
	})
	return err
}
