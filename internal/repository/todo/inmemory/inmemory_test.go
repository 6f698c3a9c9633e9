package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"todoBoard/internal/models/todo"
	"todoBoard/internal/repository"
	"todoBoard/internal/repository/todo/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTodo(text string) *todo.Todo {
	deadline := time.Now().Add(24 * time.Hour).UTC()
	return &todo.Todo{Text: text, Deadline: &deadline}
}

// TestTodoStorage_HealthCheck checks the health probe
func TestTodoStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTodoStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

// TestTodoStorage_Create checks id and timestamp assignment
func TestTodoStorage_Create(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	todoToCreate := newTodo("Test Todo")
	err := storage.Create(ctx, todoToCreate)
	require.NoError(t, err)

	assert.NotEmpty(t, todoToCreate.ID)
	assert.False(t, todoToCreate.CreatedAt.IsZero())
	assert.Equal(t, todoToCreate.CreatedAt, todoToCreate.UpdatedAt)
	assert.False(t, todoToCreate.Done)

	retrieved, err := storage.GetByID(ctx, todoToCreate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Todo", retrieved.Text)

	other := newTodo("Other")
	require.NoError(t, storage.Create(ctx, other))
	assert.NotEqual(t, todoToCreate.ID, other.ID)
}

// TestTodoStorage_GetByID_NotFound checks the sentinel error
func TestTodoStorage_GetByID_NotFound(t *testing.T) {
	storage := inmemory.NewTodoStorage()

	_, err := storage.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTodoStorage_ReturnsCopies checks callers cannot mutate stored records
func TestTodoStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	created := newTodo("Original")
	require.NoError(t, storage.Create(ctx, created))
	created.Text = "changed after create"

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	got.Text = "changed after get"

	again, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Text)
}

// TestTodoStorage_Update checks partial update semantics
func TestTodoStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	created := newTodo("Buy milk")
	require.NoError(t, storage.Create(ctx, created))

	updated, err := storage.Update(ctx, created.ID, todo.NewPatch(todo.WithDone(true)))
	require.NoError(t, err)

	assert.True(t, updated.Done)
	assert.Equal(t, "Buy milk", updated.Text)
	assert.True(t, created.Deadline.Equal(*updated.Deadline))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	newDeadline := created.Deadline.Add(48 * time.Hour)
	updated, err = storage.Update(ctx, created.ID, todo.NewPatch(todo.WithText("Buy bread"), todo.WithDeadline(newDeadline)))
	require.NoError(t, err)
	assert.Equal(t, "Buy bread", updated.Text)
	assert.True(t, newDeadline.Equal(*updated.Deadline))
	assert.True(t, updated.Done)
}

// TestTodoStorage_Update_NotFound checks that no record is created
func TestTodoStorage_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	_, err := storage.Update(ctx, "missing", todo.NewPatch(todo.WithDone(true)))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// TestTodoStorage_Delete checks hard delete
func TestTodoStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	first := newTodo("first")
	second := newTodo("second")
	require.NoError(t, storage.Create(ctx, first))
	require.NoError(t, storage.Create(ctx, second))

	require.NoError(t, storage.Delete(ctx, first.ID))

	_, err := storage.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	err = storage.Delete(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTodoStorage_List checks createdAt descending order
func TestTodoStorage_List(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	var ids []string
	for i := 0; i < 5; i++ {
		item := newTodo(fmt.Sprintf("todo %d", i))
		require.NoError(t, storage.Create(ctx, item))
		ids = append(ids, item.ID)
	}

	list, err := storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)

	for i, item := range list {
		assert.Equal(t, ids[len(ids)-1-i], item.ID)
	}
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt))
	}
}

// TestTodoStorage_Concurrent checks the storage under parallel writers
func TestTodoStorage_Concurrent(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item := newTodo(fmt.Sprintf("todo %d", i))
			if err := storage.Create(ctx, item); err != nil {
				t.Error(err)
				return
			}
			if _, err := storage.Update(ctx, item.ID, todo.NewPatch(todo.WithDone(true))); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	list, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
	for _, item := range list {
		assert.True(t, item.Done)
	}
}
