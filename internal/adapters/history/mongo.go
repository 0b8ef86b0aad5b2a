package history

import (
	"context"
	"fmt"
	"time"

	"imgpress/internal/core/domain"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 5 * time.Second

type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects and pings the server, failing fast when it is unreachable.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongodb %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("error pinging mongodb %w", err)
	}

	log.Info().Str("database", database).Str("collection", collection).Msg("connected to mongodb")

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Add(ctx context.Context, record domain.HistoryRecord) error {
	if _, err := s.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("error inserting history record %w", err)
	}
	return nil
}

func (s *MongoStore) All(ctx context.Context) ([]domain.HistoryRecord, error) {
	cursor, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error querying history %w", err)
	}

	records := []domain.HistoryRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding history %w", err)
	}

	return records, nil
}

func (s *MongoStore) Clear(ctx context.Context) error {
	res, err := s.collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("error clearing history %w", err)
	}

	log.Info().Int64("deleted", res.DeletedCount).Msg("cleared mongodb history")
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
