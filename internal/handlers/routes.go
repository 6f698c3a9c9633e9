package handlers

import "github.com/go-chi/chi/v5"

// Register mounts the todo API and the health probe on r.
func (h *TodoHandler) Register(r chi.Router) {
	r.Route("/api/todos", func(r chi.Router) {
		r.Get("/", h.ListTodos) // GET /api/todos
		r.Post("/", h.PostTodo) // POST /api/todos

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTodoByID)       // GET /api/todos/{id}
			r.Put("/", h.UpdateTodoByID)    // PUT /api/todos/{id}
			r.Delete("/", h.DeleteTodoByID) // DELETE /api/todos/{id}
		})
	})

	r.Get("/health", h.HealthCheck)
}
