package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"todoBoard/internal/handlers/dto"
	"todoBoard/internal/logger"
	"todoBoard/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	serviceName  = "todo-board"
	maxBodyBytes = 1 << 20
)

type TodoHandler struct {
	TodoService Service
}

func NewTodoHandler(todoService Service) *TodoHandler {
	return &TodoHandler{
		TodoService: todoService,
	}
}

// todoID reads the {id} URL parameter and tags the current span with it.
func todoID(r *http.Request) string {
	id := chi.URLParam(r, "id")
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("todo.id", id))
	return id
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	todos, err := h.TodoService.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_todos")
		return
	}

	trace.SpanFromContext(r.Context()).SetAttributes(attribute.Int("todo.count", len(todos)))

	logger.Info("HTTP_OUT: todos listed",
		zap.Int("count", len(todos)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTodoList(todos))
}

func (h *TodoHandler) PostTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !requireJSON(w, r) {
		return
	}

	var request dto.CreateTodoRequest
	if err := decodeBody(w, r, &request); err != nil {
		logger.Warn("HTTP: reading JSON failed",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	created, err := h.TodoService.Create(r.Context(), request.Text, request.Deadline)
	if err != nil {
		handleServiceError(w, r, err, "create_todo")
		return
	}

	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("todo.id", created.ID))

	logger.Info("HTTP_OUT: todo created",
		zap.String("todo_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, dto.FromTodo(created))
}

func (h *TodoHandler) GetTodoByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := todoID(r)

	item, err := h.TodoService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_todo")
		return
	}

	logger.Info("HTTP_OUT: todo fetched",
		zap.String("todo_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTodo(item))
}

func (h *TodoHandler) UpdateTodoByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := todoID(r)

	if !requireJSON(w, r) {
		return
	}

	var request dto.UpdateTodoRequest
	// an empty body is an update with nothing supplied
	if err := decodeBody(w, r, &request); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("HTTP: reading JSON failed",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "invalid update parameters: "+err.Error())
		return
	}

	updated, err := h.TodoService.Update(r.Context(), id, service.UpdateInput{
		Text:     request.Text,
		Deadline: request.Deadline,
		Done:     request.Done,
	})
	if err != nil {
		handleServiceError(w, r, err, "update_todo")
		return
	}

	logger.Info("HTTP_OUT: todo updated",
		zap.String("todo_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTodo(updated))
}

func (h *TodoHandler) DeleteTodoByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := todoID(r)

	if err := h.TodoService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_todo")
		return
	}

	logger.Info("HTTP_OUT: todo deleted",
		zap.String("todo_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.DeleteResponse{Success: true, ID: id})
}

func (h *TodoHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: health check")

	if err := h.TodoService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName),
			toPayload("error", err.Error()),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName),
	)
}
