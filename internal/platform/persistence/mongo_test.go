package persistence

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoDB_Accessors(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	// Connect does not dial; the client stays unused
	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)
	database := client.Database("testdb")

	mdb := &MongoDB{
		logger:   logger,
		client:   client,
		database: database,
	}
	assert.Equal(t, database, mdb.Database())
	assert.Equal(t, "ledgers", mdb.Collection("ledgers").Name())
	assert.Equal(t, "mongodb", mdb.Name())
}
