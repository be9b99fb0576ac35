package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adjamedev/transport-marketplace/internal/models"
)

// EnhancedRouteCollection defines the storage operations of the denormalized
// comparison projection.
type EnhancedRouteCollection interface {
	Insert(ctx context.Context, route models.EnhancedRoute) (primitive.ObjectID, error)
	FindActiveByKey(ctx context.Context, routeKey string) ([]models.EnhancedRoute, error)
	Upsert(ctx context.Context, route models.EnhancedRoute) error
}

// MongoEnhancedRouteCollection implements EnhancedRouteCollection.
type MongoEnhancedRouteCollection struct {
	Collection *mongo.Collection
}

func (c *MongoEnhancedRouteCollection) Insert(ctx context.Context, route models.EnhancedRoute) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, ErrNilCollection
	}
	route.CreatedAt = time.Now()
	route.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, route)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindActiveByKey returns the active projections of one city pair, cheapest
// first.
func (c *MongoEnhancedRouteCollection) FindActiveByKey(ctx context.Context, routeKey string) ([]models.EnhancedRoute, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	cursor, err := c.Collection.Find(ctx,
		bson.M{"routeKey": routeKey, "status": models.StatusActive},
		options.Find().SetSort(bson.D{{Key: "priceRange.min", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	routes := []models.EnhancedRoute{}
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

// Upsert merges a per-route projection into the document of the same company
// and city pair, creating it when absent. The read-modify-write is not
// transactional; the projection stays best-effort by design of the caller.
func (c *MongoEnhancedRouteCollection) Upsert(ctx context.Context, route models.EnhancedRoute) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	filter := bson.M{"routeKey": route.RouteKey, "companyId": route.CompanyID}

	var existing models.EnhancedRoute
	err := c.Collection.FindOne(ctx, filter).Decode(&existing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		_, err = c.Insert(ctx, route)
		return err
	}
	if err != nil {
		return err
	}

	merged := models.MergeProjection(existing, route)
	merged.UpdatedAt = time.Now()
	_, err = c.Collection.ReplaceOne(ctx, bson.M{"_id": existing.ID}, merged)
	return err
}
