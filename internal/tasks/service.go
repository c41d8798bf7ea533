package tasks

import (
	"context"
	"time"

	"tasktrack/internal/apperr"
	"tasktrack/internal/logging"
	"tasktrack/internal/suggestion"
	"tasktrack/pkg/types"
)

// Store is the persistence surface the service depends on. Implementations
// assign the id on Insert and signal absent records with a not-found error.
type Store interface {
	Insert(ctx context.Context, task *types.Task) error
	List(ctx context.Context, filters Filters, sort *Sort) ([]types.Task, error)
	GetByID(ctx context.Context, id int64) (*types.Task, error)
	Update(ctx context.Context, task *types.Task) error
	Delete(ctx context.Context, id int64) error
}

// Service orchestrates validation, store access and suggestion computation.
type Service struct {
	store     Store
	engine    *suggestion.Engine
	validator *Validator
	logger    logging.Logger
	now       func() time.Time
}

// NewService creates a new task service
func NewService(store Store, engine *suggestion.Engine, logger logging.Logger) *Service {
	return &Service{
		store:     store,
		engine:    engine,
		validator: NewValidator(),
		logger:    logger.WithComponent("tasks"),
		now:       time.Now,
	}
}

// Create validates the input and inserts a new task, returning the record
// with its assigned id.
func (s *Service) Create(ctx context.Context, in types.TaskInput) (*types.Task, error) {
	if err := s.validator.ValidateInput(&in); err != nil {
		return nil, err
	}

	task := &types.Task{TaskInput: in}
	if err := s.store.Insert(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task created", "task_id", task.ID)
	return task, nil
}

// CreateSmart creates a task and annotates the result with the titles of
// similar existing tasks. The corpus is read before the insert; two
// concurrent smart creations may each score against a snapshot missing the
// other's row. That race is accepted.
func (s *Service) CreateSmart(ctx context.Context, in types.TaskInput) (*types.SmartTask, error) {
	if err := s.validator.ValidateInput(&in); err != nil {
		return nil, err
	}

	existing, err := s.store.List(ctx, Filters{}, nil)
	if err != nil {
		return nil, err
	}

	var suggestions []string
	if len(existing) > 0 {
		suggestions = []string{}
		for _, similar := range s.engine.SimilarTasks(existing, in) {
			suggestions = append(suggestions, similar.Title)
		}
	}

	task := &types.Task{TaskInput: in}
	if err := s.store.Insert(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("smart task created", "task_id", task.ID, "suggestions", len(suggestions))
	return &types.SmartTask{Task: *task, Suggestions: suggestions}, nil
}

// List returns tasks matching the filters in the requested order.
func (s *Service) List(ctx context.Context, filters Filters, sort *Sort) ([]types.Task, error) {
	return s.store.List(ctx, filters, sort)
}

// Update applies a full-record update. The stored creation date is
// immutable: a payload carrying a different one is rejected in full with a
// conflict. CompletedTS is recomputed here, never taken from the client: it
// is set exactly when the status transitions into completed.
func (s *Service) Update(ctx context.Context, task types.Task) (*types.Task, error) {
	if err := s.validator.ValidateInput(&task.TaskInput); err != nil {
		return nil, err
	}

	old, err := s.store.GetByID(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	if !old.CreationDate.Equal(task.CreationDate) {
		return nil, apperr.NewConflict("cannot update creation date")
	}

	task.CompletedTS = nil
	if old.Status != task.Status && task.Status == types.StatusCompleted {
		completed := s.now().UTC()
		task.CompletedTS = &completed
	}

	if err := s.store.Update(ctx, &task); err != nil {
		return nil, err
	}

	s.logger.Info("task updated", "task_id", task.ID, "status", task.Status)
	return s.store.GetByID(ctx, task.ID)
}

// Delete removes a task by id, signalling not-found for unknown ids.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("task deleted", "task_id", id)
	return nil
}
