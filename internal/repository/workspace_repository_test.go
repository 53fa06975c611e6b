package repository_test

import (
	"context"
	"testing"

	"tasksultan/internal/model"
	"tasksultan/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Creating a workspace inserts the owner's admin membership in the same
// transaction
func TestWorkspaceRepository_CreateWithOwner(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	workspaceRepo := repository.NewWorkspaceRepository(gormDB)

	ownerID := uuid.New()
	workspace := &model.Workspace{
		ID:      uuid.New(),
		Name:    "Acme",
		OwnerID: ownerID,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "workspaces"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(workspace.ID.String()))
	mock.ExpectQuery(`INSERT INTO "workspace_members"`).
		WithArgs(sqlmock.AnyArg(), workspace.ID, ownerID, "admin", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Act
	err := workspaceRepo.CreateWithOwner(context.Background(), workspace)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed membership insert rolls the workspace row back too
func TestWorkspaceRepository_CreateWithOwner_MemberInsertFails(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	workspaceRepo := repository.NewWorkspaceRepository(gormDB)

	workspace := &model.Workspace{
		ID:      uuid.New(),
		Name:    "Acme",
		OwnerID: uuid.New(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "workspaces"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(workspace.ID.String()))
	mock.ExpectQuery(`INSERT INTO "workspace_members"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Act
	err := workspaceRepo.CreateWithOwner(context.Background(), workspace)

	// Assert
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
