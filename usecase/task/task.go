package task

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/shahzaib1233/todo-app-phase-2/domain"
	"github.com/shahzaib1233/todo-app-phase-2/repository"
)

type CreateInput struct {
	Title       string
	Description *string
	Completed   bool
}

type ListInput struct {
	Status repository.TaskStatus
	Sort   repository.TaskSort
}

type UseCase struct {
	tasks  repository.TaskRepository
	now    func() time.Time
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		now:    time.Now,
		logger: logger,
	}
}

func (uc *UseCase) CreateTask(ctx context.Context, scope Scope, in CreateInput) (*domain.Task, error) {
	if err := Authorize(scope); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		UserID:      scope.UserID,
	}
	task.Touch(uc.now())

	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, uc.internal("create task", err)
	}
	return task, nil
}

func (uc *UseCase) ListTasks(ctx context.Context, scope Scope, in ListInput) ([]domain.Task, error) {
	if err := Authorize(scope); err != nil {
		return nil, err
	}

	sort := in.Sort
	if sort == "" {
		sort = repository.SortCreatedDesc
	}

	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{
		UserID: scope.UserID,
		Status: in.Status,
		Sort:   sort,
	})
	if err != nil {
		return nil, uc.internal("list tasks", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (uc *UseCase) GetTask(ctx context.Context, scope Scope, id int64) (*domain.Task, error) {
	if err := Authorize(scope); err != nil {
		return nil, err
	}
	return uc.load(ctx, scope, id)
}

// UpdateTask applies the fields set in patch and refreshes updated_at.
func (uc *UseCase) UpdateTask(ctx context.Context, scope Scope, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	if err := Authorize(scope); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, scope, id, patch.Apply)
}

// ToggleComplete flips the completed flag.
func (uc *UseCase) ToggleComplete(ctx context.Context, scope Scope, id int64) (*domain.Task, error) {
	if err := Authorize(scope); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, scope, id, func(t *domain.Task) {
		t.Completed = !t.Completed
	})
}

func (uc *UseCase) DeleteTask(ctx context.Context, scope Scope, id int64) error {
	if err := Authorize(scope); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, scope.UserID, id); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		return uc.internal("delete task", err)
	}
	return nil
}

func (uc *UseCase) mutate(ctx context.Context, scope Scope, id int64, change func(*domain.Task)) (*domain.Task, error) {
	task, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	change(task)
	task.Touch(uc.now())

	if err := uc.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		return nil, uc.internal("update task", err)
	}
	return task, nil
}

func (uc *UseCase) load(ctx context.Context, scope Scope, id int64) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, scope.UserID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		return nil, uc.internal("load task", err)
	}
	return task, nil
}

func (uc *UseCase) internal(op string, err error) error {
	uc.logger.Error("task repository failure", zap.String("operation", op), zap.Error(err))
	return domain.WrapError(domain.ErrCodeInternal, op, err)
}
