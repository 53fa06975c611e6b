package model

import (
	"time"

	"github.com/google/uuid"
)

// WorkspaceMember links a user to a workspace. Every workspace-scoped access
// decision goes through this table; the workspace owner gets a row too.
type WorkspaceMember struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_workspace_user"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_workspace_user;index"`
	Role        string    `gorm:"not null;check:role IN ('admin', 'member')"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Workspace Workspace `gorm:"foreignKey:WorkspaceID"`
	User      User      `gorm:"foreignKey:UserID"`
}

// Roles a user can hold within a workspace
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)
