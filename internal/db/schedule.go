package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adjamedev/transport-marketplace/internal/models"
)

// ScheduleCollection defines the storage operations of recurring departures.
type ScheduleCollection interface {
	Insert(ctx context.Context, schedule models.Schedule) (primitive.ObjectID, error)
	Find(ctx context.Context, companyID primitive.ObjectID, routeID *primitive.ObjectID) ([]models.Schedule, error)
	ExistsConflict(ctx context.Context, routeID primitive.ObjectID, departureTime string, days []string) (bool, error)
}

// MongoScheduleCollection implements ScheduleCollection.
type MongoScheduleCollection struct {
	Collection *mongo.Collection
}

func (c *MongoScheduleCollection) Insert(ctx context.Context, schedule models.Schedule) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, ErrNilCollection
	}
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, schedule)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (c *MongoScheduleCollection) Find(ctx context.Context, companyID primitive.ObjectID, routeID *primitive.ObjectID) ([]models.Schedule, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	filter := bson.M{"companyId": companyID}
	if routeID != nil {
		filter["routeId"] = *routeID
	}
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	schedules := []models.Schedule{}
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// ExistsConflict reports whether another schedule already departs on the same
// route at the same time on any shared weekday. There is no unique index
// backing this rule, so a race between check and insert remains possible.
func (c *MongoScheduleCollection) ExistsConflict(ctx context.Context, routeID primitive.ObjectID, departureTime string, days []string) (bool, error) {
	if c.Collection == nil {
		return false, ErrNilCollection
	}
	filter := bson.M{
		"routeId":       routeID,
		"departureTime": departureTime,
		"daysOfWeek":    bson.M{"$in": days},
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
