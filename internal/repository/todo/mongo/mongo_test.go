package mongo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"todoBoard/internal/config"
	"todoBoard/internal/models/todo"
	"todoBoard/internal/repository"
	"todoBoard/internal/repository/todo/mongo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoTestSuite runs the storage against a real MongoDB container
type MongoTestSuite struct {
	suite.Suite
	container testcontainers.Container
	cfg       config.MongoConfig
	storage   *mongo.Storage
	ctx       context.Context
}

func (s *MongoTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "27017")
	require.NoError(s.T(), err)

	s.cfg = config.MongoConfig{
		URI:            fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		Database:       "todoapp_test",
		ConnectTimeout: 10 * time.Second,
	}
}

func (s *MongoTestSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

// SetupTest gives every test its own collection
func (s *MongoTestSuite) SetupTest() {
	cfg := s.cfg
	cfg.Collection = fmt.Sprintf("todos_%d", time.Now().UnixNano())

	storage, err := mongo.New(s.ctx, cfg)
	require.NoError(s.T(), err)
	s.storage = storage
}

func (s *MongoTestSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close(s.ctx)
	}
}

func TestMongoTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(MongoTestSuite))
}

func (s *MongoTestSuite) newTodo(text string) *todo.Todo {
	deadline := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Millisecond)
	item := &todo.Todo{Text: text, Deadline: &deadline}
	require.NoError(s.T(), s.storage.Create(s.ctx, item))
	return item
}

func (s *MongoTestSuite) TestStorage_HealthCheck() {
	assert.NoError(s.T(), s.storage.HealthCheck(s.ctx))
}

func (s *MongoTestSuite) TestStorage_Create() {
	item := s.newTodo("Test Todo")

	assert.True(s.T(), primitive.IsValidObjectID(item.ID))
	assert.False(s.T(), item.CreatedAt.IsZero())

	got, err := s.storage.GetByID(s.ctx, item.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Test Todo", got.Text)
	assert.False(s.T(), got.Done)
	assert.True(s.T(), item.Deadline.Equal(*got.Deadline))
	assert.True(s.T(), item.CreatedAt.Equal(got.CreatedAt))
}

func (s *MongoTestSuite) TestStorage_GetByID_NotFound() {
	_, err := s.storage.GetByID(s.ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	_, err = s.storage.GetByID(s.ctx, "not-an-object-id")
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *MongoTestSuite) TestStorage_Update_Partial() {
	item := s.newTodo("Buy milk")

	updated, err := s.storage.Update(s.ctx, item.ID, todo.NewPatch(todo.WithDone(true)))
	require.NoError(s.T(), err)

	assert.True(s.T(), updated.Done)
	assert.Equal(s.T(), "Buy milk", updated.Text)
	assert.True(s.T(), item.Deadline.Equal(*updated.Deadline))

	updated, err = s.storage.Update(s.ctx, item.ID, todo.NewPatch(todo.WithText("Buy bread")))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Buy bread", updated.Text)
	assert.True(s.T(), updated.Done)
}

func (s *MongoTestSuite) TestStorage_Update_NotFound() {
	_, err := s.storage.Update(s.ctx, primitive.NewObjectID().Hex(), todo.NewPatch(todo.WithDone(true)))
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	list, err := s.storage.List(s.ctx)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), list)
}

func (s *MongoTestSuite) TestStorage_Delete() {
	item := s.newTodo("to delete")

	require.NoError(s.T(), s.storage.Delete(s.ctx, item.ID))

	_, err := s.storage.GetByID(s.ctx, item.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	err = s.storage.Delete(s.ctx, item.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *MongoTestSuite) TestStorage_List_CreatedAtDescending() {
	first := s.newTodo("first")
	second := s.newTodo("second")
	third := s.newTodo("third")

	list, err := s.storage.List(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 3)

	assert.Equal(s.T(), third.ID, list[0].ID)
	assert.Equal(s.T(), second.ID, list[1].ID)
	assert.Equal(s.T(), first.ID, list[2].ID)
}
