package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	Users         = "users"
	Bootcamps     = "bootcamps"
	Courses       = "courses"
	Reviews       = "reviews"
	DemoBootcamps = "demo_bootcamps"
	DemoCourses   = "demo_courses"
	DemoReviews   = "demo_reviews"
)

// MongoDB connection instance
var (
	MongoClient *mongo.Client
	Mongo       *mongo.Database
)

// ConnectMongoDB initializes the database connection
func ConnectMongoDB(uri, dbName string) *mongo.Database {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("MongoDB ping failed: %v", err)
	}

	log.Println("Connected to MongoDB")
	MongoClient = client
	Mongo = client.Database(dbName)

	if err := EnsureIndexes(ctx); err != nil {
		log.Fatalf("MongoDB index bootstrap failed: %v", err)
	}

	return Mongo
}

// GetCollection returns a MongoDB collection
func GetCollection(name string) *mongo.Collection {
	return Mongo.Collection(name)
}

// Close disconnects the client. Safe to call when never connected.
func Close(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	err := MongoClient.Disconnect(ctx)
	MongoClient = nil
	Mongo = nil
	return err
}

// Ping reports connectivity for the health endpoint.
func Ping(ctx context.Context) error {
	if MongoClient == nil {
		return mongo.ErrClientDisconnected
	}
	return MongoClient.Ping(ctx, nil)
}

// EnsureIndexes creates the unique, geo, TTL and session-scoped indexes the
// data model relies on. Uniqueness invariants (user email, one review per
// user+bootcamp, bootcamp slug) are enforced here rather than by
// application-level locking; concurrent creates race at the store and one of
// them fails with a duplicate-key error.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		Users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		Bootcamps: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		},
		Courses: {
			{Keys: bson.D{{Key: "bootcamp", Value: 1}}},
		},
		Reviews: {
			{Keys: bson.D{{Key: "bootcamp", Value: 1}, {Key: "user", Value: 1}}, Options: unique},
		},
	}

	// Demo collections: TTL purge on expires_at plus session-scoped lookups.
	ttl := options.Index().SetExpireAfterSeconds(0)
	for _, name := range []string{DemoBootcamps, DemoCourses, DemoReviews} {
		indexes[name] = []mongo.IndexModel{
			{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: ttl},
			{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: -1}}},
		}
	}
	for _, name := range []string{DemoCourses, DemoReviews} {
		indexes[name] = append(indexes[name], mongo.IndexModel{
			Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "bootcamp", Value: 1}},
		})
	}

	for coll, models := range indexes {
		if _, err := Mongo.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
