package db

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adjamedev/transport-marketplace/internal/models"
)

// RouteCollection defines the storage operations of scheduled trips.
type RouteCollection interface {
	Insert(ctx context.Context, route models.Route) (primitive.ObjectID, error)
	FindAll(ctx context.Context) ([]models.Route, error)
	FindByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.Route, error)
	FindByID(ctx context.Context, id string) (*models.Route, error)
	ExistsDuplicate(ctx context.Context, route models.Route) (bool, error)
	FindActiveByCities(ctx context.Context, departureCity, arrivalCity string) ([]models.Route, error)
	UpdateFields(ctx context.Context, id string, fields bson.M) (*models.Route, error)
	Delete(ctx context.Context, id string) error
}

// MongoRouteCollection implements RouteCollection on a Mongo collection.
type MongoRouteCollection struct {
	Collection *mongo.Collection
}

func (c *MongoRouteCollection) Insert(ctx context.Context, route models.Route) (primitive.ObjectID, error) {
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

func (c *MongoRouteCollection) FindAll(ctx context.Context) ([]models.Route, error) {
	return c.find(ctx, bson.M{})
}

func (c *MongoRouteCollection) FindByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.Route, error) {
	return c.find(ctx, bson.M{"companyId": companyID})
}

func (c *MongoRouteCollection) FindByID(ctx context.Context, id string) (*models.Route, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var route models.Route
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&route)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// ExistsDuplicate reports whether the company already offers the same trip:
// identical cities, departure time and route type.
func (c *MongoRouteCollection) ExistsDuplicate(ctx context.Context, route models.Route) (bool, error) {
	if c.Collection == nil {
		return false, ErrNilCollection
	}
	filter := bson.M{
		"companyId":     route.CompanyID,
		"departureCity": route.DepartureCity,
		"arrivalCity":   route.ArrivalCity,
		"departureTime": route.DepartureTime,
		"routeType":     route.RouteType,
	}
	err := c.Collection.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindActiveByCities matches active routes on a city pair, case-insensitively,
// for the comparison fallback path.
func (c *MongoRouteCollection) FindActiveByCities(ctx context.Context, departureCity, arrivalCity string) ([]models.Route, error) {
	return c.find(ctx, bson.M{
		"departureCity": exactCaseInsensitive(departureCity),
		"arrivalCity":   exactCaseInsensitive(arrivalCity),
		"status":        models.StatusActive,
	})
}

func (c *MongoRouteCollection) UpdateFields(ctx context.Context, id string, fields bson.M) (*models.Route, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	fields["updatedAt"] = time.Now()
	after := options.After
	var route models.Route
	err = c.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&route)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (c *MongoRouteCollection) Delete(ctx context.Context, id string) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *MongoRouteCollection) find(ctx context.Context, filter bson.M) ([]models.Route, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	routes := []models.Route{}
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

func exactCaseInsensitive(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
}
