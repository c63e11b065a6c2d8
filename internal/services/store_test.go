package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/kodekamper/api/internal/db"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupStore connects the package to the MongoDB named by TEST_MONGODB_URI
// and points it at a scratch database, dropped before and after the test.
// Store-backed tests skip when the variable is unset.
func setupStore(t *testing.T) context.Context {
	t.Helper()

	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(pingCtx, nil))

	db.MongoClient = client
	db.Mongo = client.Database("kodekamper_test")
	require.NoError(t, db.Mongo.Drop(ctx))
	require.NoError(t, db.EnsureIndexes(ctx))

	t.Cleanup(func() {
		_ = db.Mongo.Drop(ctx)
		_ = client.Disconnect(ctx)
		db.MongoClient = nil
		db.Mongo = nil
	})

	return ctx
}

func requireStatus(t *testing.T, err error, status int) *httperr.Error {
	t.Helper()
	var apiErr *httperr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, status, apiErr.Status)
	return apiErr
}

func TestDemoSessionScopesData(t *testing.T) {
	ctx := setupStore(t)

	sidA, err := NewDemoSessionID()
	require.NoError(t, err)
	sidB, err := NewDemoSessionID()
	require.NoError(t, err)

	alpha, err := CreateDemoBootcamp(ctx, sidA, models.DemoBootcamp{Name: "Alpha Camp"})
	require.NoError(t, err)
	_, err = CreateDemoBootcamp(ctx, sidB, models.DemoBootcamp{Name: "Beta Camp"})
	require.NoError(t, err)

	listA, err := ListDemoBootcamps(ctx, sidA)
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, "Alpha Camp", listA[0].Name)

	// Another session's document is indistinguishable from a missing one.
	_, err = GetDemoBootcamp(ctx, sidB, alpha.ID.Hex())
	requireStatus(t, err, 404)
}

func TestDemoExpiredDocumentsInvisible(t *testing.T) {
	ctx := setupStore(t)

	sid, err := NewDemoSessionID()
	require.NoError(t, err)

	// The TTL monitor purges on a minute cadence; the read path must hide
	// an expired document that is still physically present.
	stale := models.DemoBootcamp{
		ID:        primitive.NewObjectID(),
		SessionID: sid,
		Name:      "Stale Camp",
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-3 * time.Hour),
	}
	_, err = db.GetCollection(db.DemoBootcamps).InsertOne(ctx, stale)
	require.NoError(t, err)

	list, err := ListDemoBootcamps(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = GetDemoBootcamp(ctx, sid, stale.ID.Hex())
	requireStatus(t, err, 404)
}

func TestCreateBootcampOncePerPublisher(t *testing.T) {
	ctx := setupStore(t)

	publisher := primitive.NewObjectID().Hex()
	_, err := CreateBootcamp(ctx, publisher, models.RolePublisher, models.Bootcamp{Name: "Devworks Bootcamp"})
	require.NoError(t, err)

	_, err = CreateBootcamp(ctx, publisher, models.RolePublisher, models.Bootcamp{Name: "Second Camp"})
	apiErr := requireStatus(t, err, 400)
	assert.Contains(t, apiErr.Message, "already published")

	// Admins are exempt from the one-bootcamp rule.
	admin := primitive.NewObjectID().Hex()
	_, err = CreateBootcamp(ctx, admin, models.RoleAdmin, models.Bootcamp{Name: "Admin Camp One"})
	require.NoError(t, err)
	_, err = CreateBootcamp(ctx, admin, models.RoleAdmin, models.Bootcamp{Name: "Admin Camp Two"})
	require.NoError(t, err)
}

func TestReviewUniquePerUserAndBootcamp(t *testing.T) {
	ctx := setupStore(t)

	publisher := primitive.NewObjectID().Hex()
	bootcamp, err := CreateBootcamp(ctx, publisher, models.RolePublisher, models.Bootcamp{Name: "Review Camp"})
	require.NoError(t, err)

	reviewer := primitive.NewObjectID().Hex()
	review := models.Review{Title: "Great bootcamp", Text: "Learned a lot", Rating: 9}

	_, err = CreateReview(ctx, bootcamp.ID.Hex(), reviewer, models.RoleUser, review)
	require.NoError(t, err)

	_, err = CreateReview(ctx, bootcamp.ID.Hex(), reviewer, models.RoleUser, review)
	apiErr := requireStatus(t, err, 400)
	assert.Contains(t, apiErr.Message, "already submitted")

	// A different user may still review the same bootcamp.
	other := primitive.NewObjectID().Hex()
	_, err = CreateReview(ctx, bootcamp.ID.Hex(), other, models.RoleUser, models.Review{Title: "Decent", Text: "ok", Rating: 7})
	require.NoError(t, err)

	updated, err := GetBootcamp(ctx, bootcamp.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 8.0, updated.AverageRating)
}

func TestDeleteBootcampCascades(t *testing.T) {
	ctx := setupStore(t)

	owner := primitive.NewObjectID().Hex()
	bootcamp, err := CreateBootcamp(ctx, owner, models.RolePublisher, models.Bootcamp{Name: "Cascade Camp"})
	require.NoError(t, err)

	_, err = CreateCourse(ctx, bootcamp.ID.Hex(), owner, models.RolePublisher, models.Course{
		Title:        "Front End Web Development",
		Description:  "HTML, CSS, JavaScript",
		Weeks:        8,
		Tuition:      8000,
		MinimumSkill: models.SkillBeginner,
	})
	require.NoError(t, err)

	reviewer := primitive.NewObjectID().Hex()
	_, err = CreateReview(ctx, bootcamp.ID.Hex(), reviewer, models.RoleUser, models.Review{
		Title: "Great bootcamp", Text: "Learned a lot", Rating: 8,
	})
	require.NoError(t, err)

	require.NoError(t, DeleteBootcamp(ctx, bootcamp.ID.Hex(), owner, models.RolePublisher))

	_, err = GetBootcamp(ctx, bootcamp.ID.Hex())
	requireStatus(t, err, 404)

	courses, err := db.GetCollection(db.Courses).CountDocuments(ctx, bson.M{"bootcamp": bootcamp.ID})
	require.NoError(t, err)
	assert.Zero(t, courses)

	reviews, err := db.GetCollection(db.Reviews).CountDocuments(ctx, bson.M{"bootcamp": bootcamp.ID})
	require.NoError(t, err)
	assert.Zero(t, reviews)
}
