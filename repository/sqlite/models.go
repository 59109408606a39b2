package sqlite

import (
	"time"

	"gorm.io/gorm"

	"github.com/shahzaib1233/todo-app-phase-2/domain"
)

type userModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	Name           string    `gorm:"size:100;not null"`
	Email          string    `gorm:"size:255;not null;uniqueIndex:idx_email"`
	HashedPassword string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

type taskModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"size:255;not null"`
	Description *string   `gorm:"size:1000"`
	Completed   bool      `gorm:"not null;default:false;index:idx_completed;index:idx_user_id_completed,priority:2"`
	UserID      string    `gorm:"not null;index:idx_user_id;index:idx_user_id_completed,priority:1"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (taskModel) TableName() string { return "tasks" }

// AutoMigrate creates or updates the users and tasks tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{}, &taskModel{})
}

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		HashedPassword: m.HashedPassword,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (m *taskModel) toDomain() domain.Task {
	return domain.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Completed:   m.Completed,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func newTaskModel(t *domain.Task) *taskModel {
	return &taskModel{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
