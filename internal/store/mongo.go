package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lvillar/resumepdf/internal/config"
)

// MongoStore keeps one document per profile, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// profileDoc holds the profile as JSON so nested values decode back to
// plain maps and slices.
type profileDoc struct {
	Name      string    `bson:"_id"`
	Profile   string    `bson:"profile"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and checks the connection.
func NewMongoStore(ctx context.Context, cfg config.MongoStore) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("store: connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("store: ping mongo: %w", err)
	}
	db, coll := cfg.Database, cfg.Collection
	if db == "" {
		db = "resumepdf"
	}
	if coll == "" {
		coll = "profiles"
	}
	return &MongoStore{client: client, coll: client.Database(db).Collection(coll)}, nil
}

func (s *MongoStore) Save(ctx context.Context, name string, profile map[string]any) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("store: marshal profile: %w", err)
	}
	doc := profileDoc{Name: name, Profile: string(data), UpdatedAt: time.Now().UTC()}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store: mongo replace: %w", err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (map[string]any, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var doc profileDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("store: mongo find: %w", err)
	}
	var p map[string]any
	if err := json.Unmarshal([]byte(doc.Profile), &p); err != nil {
		return nil, fmt.Errorf("store: parse profile %s: %w", name, err)
	}
	return p, nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("store: mongo find: %w", err)
	}
	var docs []struct {
		Name string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("store: mongo cursor: %w", err)
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return names, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return fmt.Errorf("store: mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*MongoStore)(nil)
)
