package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"checkin/internal/config"
)

const collectionSnapshots = "snapshots"

type snapshot struct {
	Key       string    `bson:"key"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo stores every snapshot as one document of the snapshots collection.
// A connection is opened per call; the store writes rarely.
type Mongo struct {
	clientOptions *options.ClientOptions
	database      string
}

func NewMongo(conf *config.Config) (*Mongo, error) {
	if !conf.Mongo.Enabled {
		return nil, fmt.Errorf("mongodb is disabled in configuration")
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	return &Mongo{
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}, nil
}

func (m *Mongo) connect(ctx context.Context) (*mongo.Client, error) {
	connection, err := mongo.Connect(ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	return connection, nil
}

func (m *Mongo) disconnect(ctx context.Context, connection *mongo.Client) {
	_ = connection.Disconnect(ctx)
}

func (m *Mongo) Load(ctx context.Context, key string) ([]byte, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionSnapshots)
	filter := bson.D{{Key: "key", Value: key}}
	var doc snapshot
	err = collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find: %w", err)
	}
	return doc.Data, nil
}

func (m *Mongo) Save(ctx context.Context, key string, data []byte) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionSnapshots)
	filter := bson.D{{Key: "key", Value: key}}
	update := bson.D{{Key: "$set", Value: snapshot{
		Key:       key,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}}}
	opts := options.Update().SetUpsert(true)
	if _, err = collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("mongodb upsert: %w", err)
	}
	return nil
}

func (m *Mongo) Close() error {
	return nil
}
