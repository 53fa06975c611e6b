package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tasksultan/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

// TaskFilter narrows a project task listing; nil fields are not applied and
// set fields combine with AND semantics.
type TaskFilter struct {
	AssigneeID   *uuid.UUID
	ParentTaskID *uuid.UUID
	LabelID      *uuid.UUID
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task, labelIDs []uuid.UUID, workspaceID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	GetByProjectID(ctx context.Context, projectID uuid.UUID, filter TaskFilter) ([]model.Task, error)
	GetSubtasks(ctx context.Context, parentID uuid.UUID) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task, labelIDs *[]uuid.UUID, workspaceID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create validates every reference the task carries (assignee, parent, label
// set) and inserts the task plus its label links in one transaction. Nothing
// is written when any reference is dangling.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, labelIDs []uuid.UUID, workspaceID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateTaskRefs(tx, task, labelIDs, workspaceID); err != nil {
			return err
		}

		if err := tx.Create(task).Error; err != nil {
			return err
		}

		return replaceLabelLinks(tx, task.ID, labelIDs)
	})
}

// GetByID retrieves a task with its labels preloaded
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).Preload("Labels").First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetByProjectID retrieves the project's tasks, narrowed by the filter
func (r *TaskRepository) GetByProjectID(ctx context.Context, projectID uuid.UUID, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).
		Preload("Labels").
		Where("tasks.project_id = ?", projectID)

	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.ParentTaskID != nil {
		query = query.Where("tasks.parent_task_id = ?", *filter.ParentTaskID)
	}
	if filter.LabelID != nil {
		query = query.
			Joins("JOIN task_labels ON task_labels.task_id = tasks.id").
			Where("task_labels.label_id = ?", *filter.LabelID)
	}

	var tasks []model.Task
	result := query.Order("tasks.created_at").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// GetSubtasks retrieves the direct children of a task
func (r *TaskRepository) GetSubtasks(ctx context.Context, parentID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("parent_task_id = ?", parentID).Order("created_at").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Update saves the task after re-validating its references. A non-nil
// labelIDs replaces the task's whole label set; nil leaves it untouched.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task, labelIDs *[]uuid.UUID, workspaceID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs []uuid.UUID
		if labelIDs != nil {
			refs = *labelIDs
		}
		if err := validateTaskRefs(tx, task, refs, workspaceID); err != nil {
			return err
		}

		result := tx.Omit("Labels").Save(task)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}

		if labelIDs == nil {
			return nil
		}
		return replaceLabelLinks(tx, task.ID, *labelIDs)
	})
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// validateTaskRefs checks assignee, parent task and label references inside
// the caller's transaction so a reference deleted mid-request cannot slip in.
func validateTaskRefs(tx *gorm.DB, task *model.Task, labelIDs []uuid.UUID, workspaceID uuid.UUID) error {
	if task.AssigneeID != nil {
		var count int64
		if err := tx.Model(&model.User{}).Where("id = ?", *task.AssigneeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrAssigneeNotFound
		}
	}

	if task.ParentTaskID != nil {
		cyclic, err := parentChainContains(tx, *task.ParentTaskID, task.ID)
		if err != nil {
			return err
		}
		if cyclic {
			return ErrParentTaskCycle
		}
	}

	if len(labelIDs) > 0 {
		var count int64
		err := tx.Model(&model.Label{}).
			Where("id IN ? AND workspace_id = ?", labelIDs, workspaceID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count != int64(len(labelIDs)) {
			return ErrLabelsNotFound
		}
	}

	return nil
}

// parentChainContains walks ancestor links starting at startID and reports
// whether needle appears in the chain. A missing ancestor surfaces as
// ErrParentTaskNotFound, which doubles as the parent existence check.
func parentChainContains(tx *gorm.DB, startID, needle uuid.UUID) (bool, error) {
	seen := make(map[uuid.UUID]bool)
	current := &startID
	for current != nil {
		if *current == needle {
			return true, nil
		}
		if seen[*current] {
			// pre-existing cycle in storage; the new link does not reach needle
			return false, nil
		}
		seen[*current] = true

		var ancestor model.Task
		err := tx.Select("id", "parent_task_id").First(&ancestor, "id = ?", *current).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, ErrParentTaskNotFound
			}
			return false, err
		}
		current = ancestor.ParentTaskID
	}
	return false, nil
}

// replaceLabelLinks swaps the task's label set for labelIDs
func replaceLabelLinks(tx *gorm.DB, taskID uuid.UUID, labelIDs []uuid.UUID) error {
	if err := tx.Exec("DELETE FROM task_labels WHERE task_id = ?", taskID).Error; err != nil {
		return err
	}
	for _, labelID := range labelIDs {
		err := tx.Exec(
			"INSERT INTO task_labels (task_id, label_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			taskID, labelID,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}
