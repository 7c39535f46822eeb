package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/taskhub/apiserver/internal/services"
	"github.com/taskhub/apiserver/internal/store"
	"github.com/taskhub/apiserver/types"
)

const maxTitleLength = 100

// TodoHandler provides HTTP handlers for to-do items. Every handler is
// scoped to the authenticated user; an item owned by someone else responds
// exactly like a missing one.
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler constructs a handler with the provided service.
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// TodoRouter registers to-do routes on the given router. All routes
// require authentication.
func TodoRouter(r chi.Router, todoService *services.TodoService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewTodoHandler(todoService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListTodos)
	r.Post("/", handler.CreateTodo)
	r.Route("/{todoID}", func(r chi.Router) {
		r.Get("/", handler.GetTodo)
		r.Put("/", handler.UpdateTodo)
		r.Patch("/", handler.PatchTodo)
		r.Delete("/", handler.DeleteTodo)
	})
}

func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	todos, err := h.todoService.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list todos")
		return
	}

	writeJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req TodoUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if fieldErrors := validateTodo(req.Title, req.Description); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	// The owner comes from the token and completed starts false; any
	// client-supplied values for either are discarded.
	created, err := h.todoService.Create(r.Context(), userID, types.Todo{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create todo")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	todo, err := h.todoService.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch todo")
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// UpdateTodo replaces the mutable fields of an item.
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	var req TodoUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if fieldErrors := validateTodo(req.Title, req.Description); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	todo, err := h.todoService.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch todo")
		return
	}

	todo.Title = req.Title
	todo.Description = req.Description
	todo.Completed = req.Completed

	updated, err := h.todoService.Update(r.Context(), todo)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update todo")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// PatchTodo updates only the fields present in the request body.
func (h *TodoHandler) PatchTodo(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	var req TodoPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	todo, err := h.todoService.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch todo")
		return
	}

	if req.Title != nil {
		todo.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}

	if fieldErrors := validateTodo(todo.Title, todo.Description); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	updated, err := h.todoService.Update(r.Context(), todo)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update todo")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	if err := h.todoService.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete todo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requestScope resolves the authenticated user and the path id, writing the
// error response itself when either is missing.
func (h *TodoHandler) requestScope(w http.ResponseWriter, r *http.Request) (userID, id int, ok bool) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return 0, 0, false
	}

	id, err = parseTodoID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	return userID, id, true
}

// TodoUpsertRequest is the create/full-update payload.
type TodoUpsertRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// TodoPatchRequest is the partial-update payload. Nil fields are untouched.
type TodoPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func validateTodo(title, description string) map[string]string {
	fieldErrors := make(map[string]string)
	if title == "" {
		fieldErrors["title"] = "this field is required"
	} else if len(title) > maxTitleLength {
		fieldErrors["title"] = "title must be at most 100 characters"
	}
	if description == "" {
		fieldErrors["description"] = "this field is required"
	}
	return fieldErrors
}

func parseTodoID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "todoID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid todo id")
	}
	return id, nil
}
