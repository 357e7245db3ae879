package mongo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vidshop/storefront/pkg/mongo"
)

func TestIsNamespaceExists(t *testing.T) {
	t.Parallel()

	exists := driver.CommandError{Code: mongo.NamespaceExists, Name: "NamespaceExists"}
	assert.True(t, mongo.IsNamespaceExists(exists))
	assert.True(t, mongo.IsNamespaceExists(fmt.Errorf("create: %w", exists)))

	assert.False(t, mongo.IsNamespaceExists(driver.CommandError{Code: 13, Name: "Unauthorized"}))
	assert.False(t, mongo.IsNamespaceExists(errors.New("boom")))
	assert.False(t, mongo.IsNamespaceExists(nil))
}

func TestNewRequiresURL(t *testing.T) {
	t.Parallel()

	cfg := mongo.Config{}
	assert.False(t, cfg.Enabled())

	_, err := mongo.New(context.Background(), cfg)
	require.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
}

func TestIsIndexConflict(t *testing.T) {
	t.Parallel()

	assert.True(t, mongo.IsIndexConflict(driver.CommandError{Code: mongo.IndexOptionsConflict}))
	assert.True(t, mongo.IsIndexConflict(driver.CommandError{Code: mongo.IndexKeySpecsConflict}))
	assert.False(t, mongo.IsIndexConflict(driver.CommandError{Code: mongo.NamespaceExists}))
	assert.False(t, mongo.IsIndexConflict(errors.New("boom")))
}

func TestNewRejectsMalformedURL(t *testing.T) {
	t.Parallel()

	_, err := mongo.New(context.Background(), mongo.Config{
		ConnectionURL: "http://localhost:27017",
		RetryAttempts: 1,
		RetryInterval: time.Millisecond,
	})
	require.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
}
