package task

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shahzaib1233/todo-app-phase-2/domain"
	"github.com/shahzaib1233/todo-app-phase-2/repository"
)

// memoryTasks is a simple in-memory task repository for testing
type memoryTasks struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Task
	fail   error
}

func newMemoryTasks() *memoryTasks {
	return &memoryTasks{rows: make(map[int64]domain.Task)}
}

func (m *memoryTasks) GetByID(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	row, ok := m.rows[id]
	if !ok || row.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	return &row, nil
}

func (m *memoryTasks) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	var out []domain.Task
	want := filter.Status.Completed()
	for _, row := range m.rows {
		if row.UserID != filter.UserID {
			continue
		}
		if want != nil && row.Completed != *want {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		if filter.Sort.Column() == "updated_at" {
			a, b = out[i].UpdatedAt, out[j].UpdatedAt
		}
		if filter.Sort.Descending() {
			return a.After(b)
		}
		return a.Before(b)
	})
	return out, nil
}

func (m *memoryTasks) Create(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.nextID++
	task.ID = m.nextID
	m.rows[task.ID] = *task
	return nil
}

func (m *memoryTasks) Update(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	row, ok := m.rows[task.ID]
	if !ok || row.UserID != task.UserID {
		return domain.ErrTaskNotFound
	}
	m.rows[task.ID] = *task
	return nil
}

func (m *memoryTasks) Delete(ctx context.Context, userID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	row, ok := m.rows[id]
	if !ok || row.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(m.rows, id)
	return nil
}

func newUseCase(repo repository.TaskRepository, now time.Time) *UseCase {
	uc := New(repo, nil)
	uc.now = func() time.Time { return now }
	return uc
}

var owner = Scope{Subject: "1", UserID: "1"}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		scope Scope
		ok    bool
	}{
		{Scope{Subject: "1", UserID: "1"}, true},
		{Scope{Subject: "1", UserID: "2"}, false},
		{Scope{Subject: "1", UserID: "01"}, false},
		{Scope{Subject: "", UserID: ""}, false},
	}
	for _, tt := range tests {
		err := Authorize(tt.scope)
		if tt.ok && err != nil {
			t.Fatalf("%+v: unexpected error %v", tt.scope, err)
		}
		if !tt.ok && !domain.IsDomainError(err, domain.ErrCodeForbidden) {
			t.Fatalf("%+v: expected forbidden, got %v", tt.scope, err)
		}
	}
}

func TestMismatchedOwnerNeverReachesRepository(t *testing.T) {
	repo := newMemoryTasks()
	repo.fail = errors.New("repository must not be called")
	uc := newUseCase(repo, time.Now())
	ctx := context.Background()
	intruder := Scope{Subject: "2", UserID: "1"}

	calls := map[string]error{}
	_, calls["create"] = uc.CreateTask(ctx, intruder, CreateInput{Title: "x"})
	_, calls["list"] = uc.ListTasks(ctx, intruder, ListInput{})
	_, calls["get"] = uc.GetTask(ctx, intruder, 1)
	_, calls["update"] = uc.UpdateTask(ctx, intruder, 1, domain.TaskPatch{})
	_, calls["toggle"] = uc.ToggleComplete(ctx, intruder, 1)
	calls["delete"] = uc.DeleteTask(ctx, intruder, 1)

	for op, err := range calls {
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden, got %v", op, err)
		}
	}
}

func TestToggleCompleteTwice(t *testing.T) {
	repo := newMemoryTasks()
	frozen := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	uc := newUseCase(repo, frozen)
	ctx := context.Background()

	created, err := uc.CreateTask(ctx, owner, CreateInput{Title: "water plants"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := uc.ToggleComplete(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !first.Completed || !first.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("first toggle: %+v", first)
	}

	second, err := uc.ToggleComplete(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if second.Completed || !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("second toggle: %+v", second)
	}
	if !second.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("created_at must not change")
	}
}

func TestUpdateTaskIsPartial(t *testing.T) {
	repo := newMemoryTasks()
	uc := newUseCase(repo, time.Now())
	ctx := context.Background()

	desc := "keep me"
	created, err := uc.CreateTask(ctx, owner, CreateInput{Title: "old", Description: &desc})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "new"
	updated, err := uc.UpdateTask(ctx, owner, created.ID, domain.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "new" || updated.Description == nil || *updated.Description != "keep me" || updated.Completed {
		t.Fatalf("unexpected task %+v", updated)
	}

	done := true
	updated, err = uc.UpdateTask(ctx, owner, created.ID, domain.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed || updated.Title != "new" {
		t.Fatalf("unexpected task %+v", updated)
	}
}

func TestMissingAndForeignTasksAreNotFound(t *testing.T) {
	repo := newMemoryTasks()
	uc := newUseCase(repo, time.Now())
	ctx := context.Background()

	other := Scope{Subject: "2", UserID: "2"}
	theirs, err := uc.CreateTask(ctx, other, CreateInput{Title: "theirs"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, id := range []int64{theirs.ID, 999} {
		if _, err := uc.GetTask(ctx, owner, id); !errors.Is(err, domain.ErrTaskNotFound) {
			t.Fatalf("get %d: expected not found, got %v", id, err)
		}
		if _, err := uc.ToggleComplete(ctx, owner, id); !errors.Is(err, domain.ErrTaskNotFound) {
			t.Fatalf("toggle %d: expected not found, got %v", id, err)
		}
		if err := uc.DeleteTask(ctx, owner, id); !errors.Is(err, domain.ErrTaskNotFound) {
			t.Fatalf("delete %d: expected not found, got %v", id, err)
		}
	}
}

func TestListTasksDefaultsAndFilters(t *testing.T) {
	repo := newMemoryTasks()
	uc := New(repo, nil)
	ctx := context.Background()

	empty, err := uc.ListTasks(ctx, owner, ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", empty)
	}

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, title := range []string{"a", "b", "c"} {
		uc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if _, err := uc.CreateTask(ctx, owner, CreateInput{Title: title, Completed: title != "b"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	newest, err := uc.ListTasks(ctx, owner, ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(newest) != 3 || newest[0].Title != "c" || newest[2].Title != "a" {
		t.Fatalf("expected newest first, got %+v", newest)
	}

	done, err := uc.ListTasks(ctx, owner, ListInput{Status: repository.StatusCompleted, Sort: repository.SortCreatedAsc})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(done) != 2 || done[0].Title != "a" || done[1].Title != "c" {
		t.Fatalf("expected completed tasks oldest first, got %+v", done)
	}
}

func TestRepositoryFailuresAreInternal(t *testing.T) {
	repo := newMemoryTasks()
	repo.fail = errors.New("connection refused")
	uc := New(repo, nil)

	_, err := uc.ListTasks(context.Background(), owner, ListInput{})
	if !domain.IsDomainError(err, domain.ErrCodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
