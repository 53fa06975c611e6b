package repository

import (
	"context"
	"errors"

	"tasksultan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

type MemberRepositoryInterface interface {
	IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error)
	GetRole(ctx context.Context, workspaceID, userID uuid.UUID) (string, error)
}

var _ MemberRepositoryInterface = (*MemberRepository)(nil)

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// IsMember reports whether a membership row exists for the (workspace, user)
// pair. Workspace owners always have one, inserted at workspace creation.
func (r *MemberRepository) IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	var member model.WorkspaceMember
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetRole returns the user's role within the workspace, or an empty string
// when the user is not a member.
func (r *MemberRepository) GetRole(ctx context.Context, workspaceID, userID uuid.UUID) (string, error) {
	var member model.WorkspaceMember
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return member.Role, nil
}
