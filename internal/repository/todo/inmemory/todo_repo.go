package inmemory

import (
	"context"
	"sync"
	"time"

	"todoBoard/internal/logger"
	"todoBoard/internal/models/todo"
	repo "todoBoard/internal/repository"

	"github.com/google/uuid"
)

type TodoStorage struct {
	storage map[string]*todo.Todo
	mtx     *sync.RWMutex
	ids     []string // insertion order
	now     func() time.Time
}

func NewTodoStorage() *TodoStorage {
	return &TodoStorage{
		storage: make(map[string]*todo.Todo),
		mtx:     &sync.RWMutex{},
		ids:     []string{},
		now:     time.Now,
	}
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: in-memory storage is ready")
	return nil
}

func (s *TodoStorage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.now().UTC()
	todoToCreate.ID = uuid.NewString()
	todoToCreate.CreatedAt = now
	todoToCreate.UpdatedAt = now

	s.storage[todoToCreate.ID] = todoToCreate.Clone()
	s.ids = append(s.ids, todoToCreate.ID)
	return nil
}

func (s *TodoStorage) Update(ctx context.Context, id string, patch todo.Patch) (*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	patch.Apply(existing)
	existing.UpdatedAt = s.now().UTC()

	return existing.Clone(), nil
}

func (s *TodoStorage) GetByID(ctx context.Context, id string) (*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	todoToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return todoToGet.Clone(), nil
}

func (s *TodoStorage) Delete(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// List walks the insertion order backwards, which is createdAt descending
// even when two records share a timestamp.
func (s *TodoStorage) List(ctx context.Context) ([]*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*todo.Todo, 0, len(s.ids))
	for i := len(s.ids) - 1; i >= 0; i-- {
		res = append(res, s.storage[s.ids[i]].Clone())
	}
	return res, nil
}
