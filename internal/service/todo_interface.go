package service

import (
	"context"

	"todoBoard/internal/models/todo"
)

type TodoRepository interface {
	HealthCheck(context.Context) error
	List(context.Context) ([]*todo.Todo, error)
	GetByID(context.Context, string) (*todo.Todo, error)
	Create(context.Context, *todo.Todo) error
	Update(context.Context, string, todo.Patch) (*todo.Todo, error)
	Delete(context.Context, string) error
}
