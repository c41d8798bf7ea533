// Package handlers provides HTTP handlers for task CRUD and smart-creation
// operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tasktrack/internal/api/response"
	"tasktrack/internal/apperr"
	"tasktrack/internal/logging"
	"tasktrack/internal/tasks"
	"tasktrack/pkg/types"
)

// TaskHandler handles task CRUD operations
type TaskHandler struct {
	service *tasks.Service
	logger  logging.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(service *tasks.Service, logger logging.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger.WithComponent("handlers"),
	}
}

// Create handles POST /task
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in types.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.WriteBadRequest(w, "invalid JSON request body")
		return
	}

	task, err := h.service.Create(r.Context(), in)
	if err != nil {
		response.WriteAppError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, task)
}

// CreateSmart handles POST /smart_task. The created record is annotated with
// the titles of similar existing tasks.
func (h *TaskHandler) CreateSmart(w http.ResponseWriter, r *http.Request) {
	var in types.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.WriteBadRequest(w, "invalid JSON request body")
		return
	}

	smart, err := h.service.CreateSmart(r.Context(), in)
	if err != nil {
		response.WriteAppError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, smart)
}

// List handles GET /task with optional sort, desc, status and due query
// parameters. Unrecognized enumeration values are rejected here, before any
// store access.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, sort, violations := parseListQuery(r)
	if len(violations) > 0 {
		response.WriteValidationError(w, violations...)
		return
	}

	taskList, err := h.service.List(r.Context(), filters, sort)
	if err != nil {
		response.WriteAppError(w, err)
		return
	}

	if taskList == nil {
		taskList = []types.Task{}
	}
	response.WriteJSON(w, http.StatusOK, taskList)
}

// Update handles PUT /task: a full-record update addressed by the id in the
// payload.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var task types.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		response.WriteBadRequest(w, "invalid JSON request body")
		return
	}
	if task.ID <= 0 {
		response.WriteValidationError(w, apperr.FieldViolation{
			Field: "id", Message: "a positive task id is required",
		})
		return
	}

	updated, err := h.service.Update(r.Context(), task)
	if err != nil {
		response.WriteAppError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /task?id=
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.WriteValidationError(w, apperr.FieldViolation{
			Field: "id", Message: "a positive task id is required",
		})
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseListQuery(r *http.Request) (tasks.Filters, *tasks.Sort, []apperr.FieldViolation) {
	var filters tasks.Filters
	var sort *tasks.Sort
	var violations []apperr.FieldViolation

	query := r.URL.Query()

	desc := false
	if raw := query.Get("desc"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			violations = append(violations, apperr.FieldViolation{
				Field: "desc", Message: "desc must be a boolean",
			})
		}
		desc = parsed
	}

	if raw := query.Get("sort"); raw != "" {
		key := types.SortKey(raw)
		if !key.Valid() {
			violations = append(violations, apperr.FieldViolation{
				Field: "sort", Message: "sort must be creation_date or due_date",
			})
		} else {
			sort = &tasks.Sort{Key: key, Desc: desc}
		}
	}

	if raw := query.Get("status"); raw != "" {
		status := types.Status(raw)
		if !status.Valid() {
			violations = append(violations, apperr.FieldViolation{
				Field: "status", Message: "status must be one of pending, in_progress, completed",
			})
		} else {
			filters.Status = &status
		}
	}

	if raw := query.Get("due"); raw != "" {
		due, err := types.ParseDate(raw)
		if err != nil {
			violations = append(violations, apperr.FieldViolation{
				Field: "due", Message: "due must be a date in the 2006-01-02 format",
			})
		} else {
			filters.Due = &due
		}
	}

	return filters, sort, violations
}
