package repository_test

import (
	"context"
	"testing"

	"tasksultan/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMemberRepository_IsMember_True(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewMemberRepository(gormDB)

	workspaceID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "workspace_members" WHERE workspace_id = .* AND user_id = .* LIMIT .*`).
		WithArgs(workspaceID, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "user_id", "role"}).
			AddRow(uuid.New().String(), workspaceID.String(), userID.String(), "member"))

	// Act
	isMember, err := memberRepo.IsMember(context.Background(), workspaceID, userID)

	// Assert
	assert.NoError(t, err)
	assert.True(t, isMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_IsMember_False(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewMemberRepository(gormDB)

	workspaceID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "workspace_members" WHERE workspace_id = .* AND user_id = .* LIMIT .*`).
		WithArgs(workspaceID, userID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	isMember, err := memberRepo.IsMember(context.Background(), workspaceID, userID)

	// Assert
	assert.NoError(t, err)
	assert.False(t, isMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_GetRole(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewMemberRepository(gormDB)

	workspaceID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "workspace_members" WHERE workspace_id = .* AND user_id = .* LIMIT .*`).
		WithArgs(workspaceID, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "user_id", "role"}).
			AddRow(uuid.New().String(), workspaceID.String(), userID.String(), "admin"))

	// Act
	role, err := memberRepo.GetRole(context.Background(), workspaceID, userID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "admin", role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
