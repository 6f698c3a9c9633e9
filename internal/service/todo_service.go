package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todoBoard/internal/logger"
	"todoBoard/internal/models/todo"
	rep "todoBoard/internal/repository"

	"go.uber.org/zap"
)

// UpdateInput carries the raw fields of a partial update; nil means the field
// was not supplied.
type UpdateInput struct {
	Text     *string
	Deadline *string
	Done     *bool
}

type TodoService struct {
	repo TodoRepository
}

func NewTodoService(repo TodoRepository) *TodoService {
	return &TodoService{
		repo: repo,
	}
}

func (s *TodoService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("service health check: %w", err)
	}
	return nil
}

func (s *TodoService) List(ctx context.Context) ([]*todo.Todo, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

func validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", NewValidationError("text", "text is required")
	}
	return text, nil
}

func (s *TodoService) Create(ctx context.Context, text, deadline string) (*todo.Todo, error) {
	text, err := validateText(text)
	if err != nil {
		return nil, err
	}

	due, err := ParseDeadline(deadline)
	if err != nil {
		return nil, err
	}

	item := &todo.Todo{
		Text:     text,
		Deadline: &due,
		Done:     false,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("creating todo: %w", err)
	}

	logger.Info("Service: todo created", zap.String("todo_id", item.ID))
	return item, nil
}

func (s *TodoService) notFoundOr(id string, err error, op string) error {
	if errors.Is(err, rep.ErrNotFound) {
		logger.Info("Service: todo not found", zap.String("target_id", id), zap.String("operation", op))
		return NewNotFound(id, err)
	}
	return fmt.Errorf("%s todo: %w", op, err)
}

func (s *TodoService) Get(ctx context.Context, id string) (*todo.Todo, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(id, err, "getting")
	}
	return item, nil
}

// Update validates the supplied fields and applies them in one store write.
// An input with nothing supplied returns the current record.
func (s *TodoService) Update(ctx context.Context, id string, in UpdateInput) (*todo.Todo, error) {
	var options []todo.PatchOption

	if in.Text != nil {
		text, err := validateText(*in.Text)
		if err != nil {
			return nil, err
		}
		options = append(options, todo.WithText(text))
	}

	if in.Deadline != nil {
		due, err := ParseDeadline(*in.Deadline)
		if err != nil {
			return nil, err
		}
		options = append(options, todo.WithDeadline(due))
	}

	if in.Done != nil {
		options = append(options, todo.WithDone(*in.Done))
	}

	patch := todo.NewPatch(options...)
	if patch.Empty() {
		return s.Get(ctx, id)
	}

	item, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.notFoundOr(id, err, "updating")
	}

	logger.Info("Service: todo updated", zap.String("todo_id", id))
	return item, nil
}

func (s *TodoService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.notFoundOr(id, err, "deleting")
	}

	logger.Info("Service: todo deleted", zap.String("todo_id", id))
	return nil
}
