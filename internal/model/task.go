package model

import (
	"time"

	"github.com/google/uuid"
)

// Task belongs to a project and optionally to a parent task; subtasks are the
// tasks whose ParentTaskID points at this one.
type Task struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title        string    `gorm:"not null"`
	Description  string
	Status       string `gorm:"not null;default:todo"`
	Priority     string
	DueDate      *time.Time
	AssigneeID   *uuid.UUID `gorm:"type:uuid"`
	ParentTaskID *uuid.UUID `gorm:"type:uuid;index"`
	ProjectID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time

	Project    Project `gorm:"foreignKey:ProjectID"`
	Assignee   *User   `gorm:"foreignKey:AssigneeID"`
	ParentTask *Task   `gorm:"foreignKey:ParentTaskID"`
	Labels     []Label `gorm:"many2many:task_labels"`
}
