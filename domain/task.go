package domain

import "time"

// Task represents a to-do item owned by exactly one user.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch moves UpdatedAt forward to now. Timestamps are kept at microsecond
// precision and always strictly increase, even when the clock does not.
func (t *Task) Touch(now time.Time) {
	if t == nil {
		return
	}
	now = now.UTC().Truncate(time.Microsecond)
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
}

// TaskPatch carries the optional fields of a partial update. ClearDescription
// sets the description to null when Description is nil.
type TaskPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Completed        *bool
}

// Apply copies the set fields of the patch onto the task.
func (p TaskPatch) Apply(t *Task) {
	if t == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	switch {
	case p.Description != nil:
		desc := *p.Description
		t.Description = &desc
	case p.ClearDescription:
		t.Description = nil
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
