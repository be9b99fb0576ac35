package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNilCollection is returned when the server was started without a
	// database connection (missing MONGODB_URI) and a handler still tries
	// to touch a collection.
	ErrNilCollection = errors.New("mongo collection is nil")

	// ErrNotFound is the storage-level not-found error, mapped from
	// mongo.ErrNoDocuments by every collection wrapper.
	ErrNotFound = errors.New("document not found")
)

// Connect opens and pings a MongoDB client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// Collections bundles every collection wrapper behind its interface so
// handlers can be exercised against mocks.
type Collections struct {
	Companies      CompanyCollection
	Routes         RouteCollection
	EnhancedRoutes EnhancedRouteCollection
	Vehicles       VehicleCollection
	Schedules      ScheduleCollection
	Users          UserCollection
}

// New wires the Mongo-backed collections. A nil database is tolerated: the
// wrappers then fail each operation with ErrNilCollection instead of
// panicking, which keeps the server bootable without MONGODB_URI.
func New(database *mongo.Database) *Collections {
	col := func(name string) *mongo.Collection {
		if database == nil {
			return nil
		}
		return database.Collection(name)
	}
	return &Collections{
		Companies:      &MongoCompanyCollection{Collection: col("companies")},
		Routes:         &MongoRouteCollection{Collection: col("routes")},
		EnhancedRoutes: &MongoEnhancedRouteCollection{Collection: col("enhancedroutes")},
		Vehicles:       &MongoVehicleCollection{Collection: col("vehicles")},
		Schedules:      &MongoScheduleCollection{Collection: col("schedules")},
		Users:          &MongoUserCollection{Collection: col("users")},
	}
}

// EnsureIndexes creates the unique indexes that back every uniqueness rule:
// application-level pre-checks only exist to produce friendlier messages,
// the indexes are what actually prevents duplicates under concurrent writers.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	if database == nil {
		return ErrNilCollection
	}
	unique := options.Index().SetUnique(true)

	_, err := database.Collection("companies").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("companies indexes: %w", err)
	}

	_, err = database.Collection("vehicles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "plateNumber", Value: 1}}, Options: unique,
	})
	if err != nil {
		return fmt.Errorf("vehicles indexes: %w", err)
	}

	_, err = database.Collection("routes").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "companyId", Value: 1},
			{Key: "departureCity", Value: 1},
			{Key: "arrivalCity", Value: 1},
			{Key: "departureTime", Value: 1},
			{Key: "routeType", Value: 1},
		},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("routes indexes: %w", err)
	}

	_, err = database.Collection("enhancedroutes").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "routeKey", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("enhancedroutes indexes: %w", err)
	}

	_, err = database.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	return nil
}

// IsDuplicateKey reports whether err is a unique-index violation (the
// 11000-style duplicate key error).
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
