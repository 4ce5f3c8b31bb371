package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/gridshift/pkg/errors"
)

// MongoConfig configures a MongoDB store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Mongo stores each page as a document keyed by page ID.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type pageDocument struct {
	ID        string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	Size      int       `bson:"size"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongo connects to MongoDB and checks the connection.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "gridshift"
	}
	if cfg.Collection == "" {
		cfg.Collection = "pages"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, unavailable(BackendMongo, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, unavailable(BackendMongo, err)
	}
	return &Mongo{client: client, coll: client.Database(cfg.Database).Collection(cfg.Collection)}, nil
}

func (s *Mongo) Get(ctx context.Context, id string) ([]byte, error) {
	var doc pageDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, unavailable(BackendMongo, err)
	}
	return doc.Data, nil
}

func (s *Mongo) Put(ctx context.Context, id string, data []byte) error {
	if err := errors.ValidatePageID(id); err != nil {
		return err
	}
	doc := pageDocument{ID: id, Data: data, Size: len(data), UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return unavailable(BackendMongo, err)
	}
	return nil
}

func (s *Mongo) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return unavailable(BackendMongo, err)
	}
	return nil
}

func (s *Mongo) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, unavailable(BackendMongo, err)
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable(BackendMongo, err)
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (s *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*Mongo)(nil)
