// Package iomongo implements the serving document store on MongoDB.
package iomongo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kpilake/kpilake/pkg/config"
	"github.com/kpilake/kpilake/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// namespaceExists is the server error code of creating an existing
// collection.
const namespaceExists = 48

const connectTimeout = 10 * time.Second

type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB and checks the connection.
func New(ctx context.Context, cfg config.DocumentStoreConfig) (store.DocumentStore, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, ConnectionError(cfg.URI, err)
	}

	pctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err = client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, ConnectionError(cfg.URI, err)
	}

	slog.Info("Connected to document store", "database", cfg.Database)
	return &mongoStore{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

func (m *mongoStore) Drop(ctx context.Context, coll string) error {
	if err := m.db.Collection(coll).Drop(ctx); err != nil {
		return WriteError(coll, err)
	}
	return nil
}

func (m *mongoStore) Create(ctx context.Context, coll string) error {
	err := m.db.CreateCollection(ctx, coll)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == namespaceExists {
		return nil
	}
	if err != nil {
		return WriteError(coll, err)
	}
	return nil
}

func (m *mongoStore) InsertMany(
	ctx context.Context,
	coll string,
	docs []store.Document,
) error {
	if len(docs) == 0 {
		return nil
	}
	items := make([]any, len(docs))
	for i, d := range docs {
		items[i] = d
	}
	if _, err := m.db.Collection(coll).InsertMany(ctx, items); err != nil {
		return WriteError(coll, err)
	}
	return nil
}

// Rename runs renameCollection with dropTarget, so the target is replaced
// in one step.
func (m *mongoStore) Rename(ctx context.Context, source, target string) error {
	name := m.db.Name()
	cmd := bson.D{
		{Key: "renameCollection", Value: name + "." + source},
		{Key: "to", Value: name + "." + target},
		{Key: "dropTarget", Value: true},
	}
	err := m.client.Database("admin").RunCommand(ctx, cmd).Err()
	if err != nil {
		return WriteError(target, err)
	}
	return nil
}

func (m *mongoStore) Find(
	ctx context.Context,
	coll string,
) ([]store.Document, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0})
	cur, err := m.db.Collection(coll).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, ReadError(coll, err)
	}

	var raw []bson.M
	if err = cur.All(ctx, &raw); err != nil {
		return nil, ReadError(coll, err)
	}

	res := make([]store.Document, len(raw))
	for i, d := range raw {
		res[i] = fromBSON(d).(map[string]any)
	}
	return res, nil
}

func (m *mongoStore) Count(ctx context.Context, coll string) (int64, error) {
	res, err := m.db.Collection(coll).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, ReadError(coll, err)
	}
	return res, nil
}

func (m *mongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// fromBSON converts driver types to plain Go values.
func fromBSON(v any) any {
	switch x := v.(type) {
	case bson.M:
		res := make(map[string]any, len(x))
		for k, val := range x {
			res[k] = fromBSON(val)
		}
		return res
	case bson.D:
		res := make(map[string]any, len(x))
		for _, e := range x {
			res[e.Key] = fromBSON(e.Value)
		}
		return res
	case bson.A:
		res := make([]any, len(x))
		for i, val := range x {
			res[i] = fromBSON(val)
		}
		return res
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.ObjectID:
		return x.Hex()
	case primitive.Decimal128:
		return x.String()
	case int32:
		return int64(x)
	default:
		return v
	}
}
