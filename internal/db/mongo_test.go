package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adjamedev/transport-marketplace/internal/models"
)

// Starting without MONGODB_URI leaves every collection nil; operations must
// fail with ErrNilCollection instead of panicking.
func TestNilCollectionGuards(t *testing.T) {
	ctx := context.Background()
	cols := New(nil)

	_, err := cols.Companies.Insert(ctx, models.Company{})
	assert.ErrorIs(t, err, ErrNilCollection)

	_, err = cols.Companies.FindByEmail(ctx, "a@b.ci")
	assert.ErrorIs(t, err, ErrNilCollection)

	_, err = cols.Routes.FindAll(ctx)
	assert.ErrorIs(t, err, ErrNilCollection)

	_, err = cols.EnhancedRoutes.FindActiveByKey(ctx, "abidjan-bouaké")
	assert.ErrorIs(t, err, ErrNilCollection)

	_, err = cols.Vehicles.ExistsPlate(ctx, "AB-123-CD")
	assert.ErrorIs(t, err, ErrNilCollection)

	_, err = cols.Schedules.Find(ctx, primitive.NewObjectID(), nil)
	assert.ErrorIs(t, err, ErrNilCollection)

	_, err = cols.Users.FindUserByEmail(ctx, "a@b.ci")
	assert.ErrorIs(t, err, ErrNilCollection)

	err = EnsureIndexes(ctx, nil)
	assert.ErrorIs(t, err, ErrNilCollection)
}

func TestIsDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	assert.True(t, IsDuplicateKey(dup))
	assert.False(t, IsDuplicateKey(context.Canceled))
	assert.False(t, IsDuplicateKey(nil))
}

func TestExactCaseInsensitive(t *testing.T) {
	re := exactCaseInsensitive("Bouaké")
	assert.Equal(t, "^Bouaké$", re.Pattern)
	assert.Equal(t, "i", re.Options)

	// metacharacters in city names must not leak into the pattern
	re = exactCaseInsensitive("San-Pédro (Sud)")
	assert.Equal(t, `^San-Pédro \(Sud\)$`, re.Pattern)

	_, err := bson.Marshal(bson.M{"departureCity": re})
	assert.NoError(t, err)
}
