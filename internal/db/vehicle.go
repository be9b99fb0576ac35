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

// VehicleCollection defines the storage operations of company vehicles.
type VehicleCollection interface {
	Insert(ctx context.Context, vehicle models.Vehicle) (primitive.ObjectID, error)
	FindByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.Vehicle, error)
	ExistsPlate(ctx context.Context, plateNumber string) (bool, error)
}

// MongoVehicleCollection implements VehicleCollection.
type MongoVehicleCollection struct {
	Collection *mongo.Collection
}

func (c *MongoVehicleCollection) Insert(ctx context.Context, vehicle models.Vehicle) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, ErrNilCollection
	}
	vehicle.PlateNumber = models.NormalizePlate(vehicle.PlateNumber)
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, vehicle)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (c *MongoVehicleCollection) FindByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.Vehicle, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"companyId": companyID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	vehicles := []models.Vehicle{}
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (c *MongoVehicleCollection) ExistsPlate(ctx context.Context, plateNumber string) (bool, error) {
	if c.Collection == nil {
		return false, ErrNilCollection
	}
	err := c.Collection.FindOne(ctx, bson.M{"plateNumber": models.NormalizePlate(plateNumber)}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
