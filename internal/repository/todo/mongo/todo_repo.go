package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoBoard/internal/config"
	"todoBoard/internal/logger"
	"todoBoard/internal/models/todo"
	repo "todoBoard/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

type document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Text      string             `bson:"text"`
	Deadline  *time.Time         `bson:"deadline,omitempty"`
	Done      bool               `bson:"done"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *document) toTodo() *todo.Todo {
	return &todo.Todo{
		ID:        d.ID.Hex(),
		Text:      d.Text,
		Deadline:  d.Deadline,
		Done:      d.Done,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type Storage struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func New(ctx context.Context, cfg config.MongoConfig) (*Storage, error) {
	connectCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		logger.Error("Repository: connecting to MongoDB failed", err)
		return nil, fmt.Errorf("connecting: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &Storage{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}

	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("Repository: connected to MongoDB",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection))
	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		logger.Error("Repository: creating index failed", err)
		return fmt.Errorf("creating index: %w", err)
	}
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting: %w", err)
	}
	logger.Info("Repository: MongoDB connection closed")
	return nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func warnIfSlow(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: slow query", zap.String("operation", op), zap.Duration("ms", elapsed))
	}
}

// parseID maps ids that are not ObjectIDs to ErrNotFound; such a document
// cannot exist.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repo.ErrNotFound
	}
	return oid, nil
}

func (s *Storage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	start := time.Now()
	defer warnIfSlow("create", start)

	// BSON dates carry millisecond precision
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := document{
		ID:        primitive.NewObjectID(),
		Text:      todoToCreate.Text,
		Deadline:  todoToCreate.Deadline,
		Done:      todoToCreate.Done,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		logger.Error("Repository: insert failed", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("inserting todo: %w", err)
	}

	todoToCreate.ID = doc.ID.Hex()
	todoToCreate.CreatedAt = now
	todoToCreate.UpdatedAt = now
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id string) (*todo.Todo, error) {
	start := time.Now()
	defer warnIfSlow("get", start)

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: find failed", err, zap.String("todo_id", id))
		return nil, fmt.Errorf("finding todo: %w", err)
	}
	return doc.toTodo(), nil
}

// Update sets only the supplied fields with one FindOneAndUpdate, so the
// write is atomic per document.
func (s *Storage) Update(ctx context.Context, id string, patch todo.Patch) (*todo.Todo, error) {
	start := time.Now()
	defer warnIfSlow("update", start)

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Deadline != nil {
		set["deadline"] = *patch.Deadline
	}
	if patch.Done != nil {
		set["done"] = *patch.Done
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc document
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: update failed", err, zap.String("todo_id", id))
		return nil, fmt.Errorf("updating todo: %w", err)
	}
	return doc.toTodo(), nil
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	start := time.Now()
	defer warnIfSlow("delete", start)

	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		logger.Error("Repository: delete failed", err, zap.String("todo_id", id))
		return fmt.Errorf("deleting todo: %w", err)
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) List(ctx context.Context) ([]*todo.Todo, error) {
	start := time.Now()
	defer warnIfSlow("list", start)

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		logger.Error("Repository: list failed", err)
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	defer cursor.Close(ctx)

	todos := []*todo.Todo{}
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding todo: %w", err)
		}
		todos = append(todos, doc.toTodo())
	}
	if err := cursor.Err(); err != nil {
		logger.Error("Repository: cursor iteration failed", err)
		return nil, fmt.Errorf("iterating cursor: %w", err)
	}
	return todos, nil
}
