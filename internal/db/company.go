package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adjamedev/transport-marketplace/internal/models"
)

// CompanyCollection defines the storage operations of company accounts.
type CompanyCollection interface {
	Insert(ctx context.Context, company models.Company) (primitive.ObjectID, error)
	FindByEmail(ctx context.Context, email string) (*models.Company, error)
	ExistsEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.Company, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Company, error)
}

// MongoCompanyCollection implements CompanyCollection on a Mongo collection.
type MongoCompanyCollection struct {
	Collection *mongo.Collection
}

func (c *MongoCompanyCollection) Insert(ctx context.Context, company models.Company) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, ErrNilCollection
	}
	company.Email = strings.ToLower(strings.TrimSpace(company.Email))
	company.CreatedAt = time.Now()
	company.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, company)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (c *MongoCompanyCollection) FindByEmail(ctx context.Context, email string) (*models.Company, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	var company models.Company
	err := c.Collection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&company)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *MongoCompanyCollection) ExistsEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	if c.Collection == nil {
		return false, ErrNilCollection
	}
	filter := bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(strings.TrimSpace(email))},
		bson.M{"phone": phone},
	}}
	err := c.Collection.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *MongoCompanyCollection) FindByID(ctx context.Context, id string) (*models.Company, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var company models.Company
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&company)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *MongoCompanyCollection) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Company, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	companies := map[primitive.ObjectID]models.Company{}
	if len(ids) == 0 {
		return companies, nil
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var list []models.Company
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	for _, company := range list {
		companies[company.ID] = company
	}
	return companies, nil
}
