package handlers

import (
	"context"

	"todoBoard/internal/models/todo"
	"todoBoard/internal/service"
)

type Service interface {
	HealthCheck(context.Context) error
	List(context.Context) ([]*todo.Todo, error)
	Create(ctx context.Context, text, deadline string) (*todo.Todo, error)
	Get(ctx context.Context, id string) (*todo.Todo, error)
	Update(ctx context.Context, id string, in service.UpdateInput) (*todo.Todo, error)
	Delete(ctx context.Context, id string) error
}
