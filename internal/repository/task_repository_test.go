package repository_test

import (
	"context"
	"testing"

	"tasksultan/internal/model"
	"tasksultan/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// A dangling assignee aborts the transaction before any task row is written
func TestTaskRepository_Create_DanglingAssignee(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	workspaceID := uuid.New()
	assigneeID := uuid.New()
	task := &model.Task{
		ID:         uuid.New(),
		Title:      "Write docs",
		Status:     "todo",
		ProjectID:  uuid.New(),
		AssigneeID: &assigneeID,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE id = .*`).
		WithArgs(assigneeID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	// Act
	err := taskRepo.Create(context.Background(), task, nil, workspaceID)

	// Assert
	assert.ErrorIs(t, err, repository.ErrAssigneeNotFound)
	// no INSERT was expected, so this also proves nothing was written
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A label missing from the workspace aborts the whole mutation
func TestTaskRepository_Create_DanglingLabel(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	workspaceID := uuid.New()
	labelA := uuid.New()
	labelB := uuid.New()
	task := &model.Task{
		ID:        uuid.New(),
		Title:     "Write docs",
		Status:    "todo",
		ProjectID: uuid.New(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "labels" WHERE id IN .* AND workspace_id = .*`).
		WithArgs(labelA, labelB, workspaceID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	// Act
	err := taskRepo.Create(context.Background(), task, []uuid.UUID{labelA, labelB}, workspaceID)

	// Assert
	assert.ErrorIs(t, err, repository.ErrLabelsNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Create_DanglingParent(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	workspaceID := uuid.New()
	parentID := uuid.New()
	task := &model.Task{
		ID:           uuid.New(),
		Title:        "Write docs",
		Status:       "todo",
		ProjectID:    uuid.New(),
		ParentTaskID: &parentID,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE id = .* LIMIT .*`).
		WithArgs(parentID, 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	// Act
	err := taskRepo.Create(context.Background(), task, nil, workspaceID)

	// Assert
	assert.ErrorIs(t, err, repository.ErrParentTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Create_WithLabel(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	workspaceID := uuid.New()
	labelID := uuid.New()
	task := &model.Task{
		ID:        uuid.New(),
		Title:     "Write docs",
		Status:    "todo",
		ProjectID: uuid.New(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "labels" WHERE id IN .* AND workspace_id = .*`).
		WithArgs(labelID, workspaceID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(task.ID.String()))
	mock.ExpectExec(`DELETE FROM task_labels WHERE task_id = .*`).
		WithArgs(task.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO task_labels`).
		WithArgs(task.ID, labelID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Create(context.Background(), task, []uuid.UUID{labelID}, workspaceID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Self-parenting is caught before any SQL fires
func TestTaskRepository_Update_SelfParent(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	workspaceID := uuid.New()
	task := &model.Task{
		ID:        uuid.New(),
		Title:     "Write docs",
		Status:    "todo",
		ProjectID: uuid.New(),
	}
	task.ParentTaskID = &task.ID

	mock.ExpectBegin()
	mock.ExpectRollback()

	// Act
	err := taskRepo.Update(context.Background(), task, nil, workspaceID)

	// Assert
	assert.ErrorIs(t, err, repository.ErrParentTaskCycle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Re-parenting under one's own descendant is rejected by the chain walk
func TestTaskRepository_Update_DescendantCycle(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	workspaceID := uuid.New()
	childID := uuid.New()
	task := &model.Task{
		ID:           uuid.New(),
		Title:        "Parent work",
		Status:       "todo",
		ProjectID:    uuid.New(),
		ParentTaskID: &childID,
	}

	// the proposed parent's own parent is the task being updated
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE id = .* LIMIT .*`).
		WithArgs(childID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent_task_id"}).
			AddRow(childID.String(), task.ID.String()))
	mock.ExpectRollback()

	// Act
	err := taskRepo.Update(context.Background(), task, nil, workspaceID)

	// Assert
	assert.ErrorIs(t, err, repository.ErrParentTaskCycle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A present label set is replaced wholesale: delete all links, insert the new
// set
func TestTaskRepository_Update_ReplacesLabelSet(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	workspaceID := uuid.New()
	labelID := uuid.New()
	task := &model.Task{
		ID:        uuid.New(),
		Title:     "Write docs",
		Status:    "in_progress",
		ProjectID: uuid.New(),
	}
	labelIDs := []uuid.UUID{labelID}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "labels" WHERE id IN .* AND workspace_id = .*`).
		WithArgs(labelID, workspaceID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "tasks" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM task_labels WHERE task_id = .*`).
		WithArgs(task.ID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO task_labels`).
		WithArgs(task.ID, labelID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Update(context.Background(), task, &labelIDs, workspaceID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A nil label set leaves the task's links untouched
func TestTaskRepository_Update_NilLabelsUntouched(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	workspaceID := uuid.New()
	task := &model.Task{
		ID:        uuid.New(),
		Title:     "Write docs",
		Status:    "done",
		ProjectID: uuid.New(),
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Update(context.Background(), task, nil, workspaceID)

	// Assert
	assert.NoError(t, err)
	// no task_labels statement was expected, so none may have fired
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete_NoRows(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	taskID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE id = .*`).
		WithArgs(taskID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Delete(context.Background(), taskID)

	// Assert
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
