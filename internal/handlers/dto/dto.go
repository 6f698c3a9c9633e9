package dto

import (
	"time"

	"todoBoard/internal/models/todo"
)

type CreateTodoRequest struct {
	Text     string `json:"text"`
	Deadline string `json:"deadline"`
}

// UpdateTodoRequest fields left nil (absent or null) are not changed.
type UpdateTodoRequest struct {
	Text     *string `json:"text,omitempty"`
	Deadline *string `json:"deadline,omitempty"`
	Done     *bool   `json:"done,omitempty"`
}

type TodoResponse struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

func FromTodo(t *todo.Todo) TodoResponse {
	return TodoResponse{
		ID:        t.ID,
		Text:      t.Text,
		Deadline:  t.Deadline,
		Done:      t.Done,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromTodoList(todos []*todo.Todo) []TodoResponse {
	result := make([]TodoResponse, len(todos))
	for i, t := range todos {
		result[i] = FromTodo(t)
	}
	return result
}
