package handler

import (
	"net/http"
	"time"

	"tasksultan/internal/model"
	"tasksultan/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WorkspaceHandler struct {
	workspaceRepo repository.WorkspaceRepositoryInterface
	memberRepo    repository.MemberRepositoryInterface
}

func NewWorkspaceHandler(
	workspaceRepo repository.WorkspaceRepositoryInterface,
	memberRepo repository.MemberRepositoryInterface,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceRepo: workspaceRepo,
		memberRepo:    memberRepo,
	}
}

type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
}

type WorkspaceResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
}

func workspaceResponse(workspace *model.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:        workspace.ID.String(),
		Name:      workspace.Name,
		OwnerID:   workspace.OwnerID.String(),
		CreatedAt: workspace.CreatedAt.Format(time.RFC3339),
	}
}

// List returns the workspaces the authenticated user is a member of
// @Summary  List workspaces
// @Tags     Workspaces
// @Security BearerAuth
// @Produce  json
// @Router   /workspaces [get]
func (h *WorkspaceHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workspaces, err := h.workspaceRepo.GetForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve workspaces"})
		return
	}

	response := make([]WorkspaceResponse, len(workspaces))
	for i := range workspaces {
		response[i] = workspaceResponse(&workspaces[i])
	}

	c.JSON(http.StatusOK, gin.H{"workspaces": response})
}

// Create creates a workspace owned by the authenticated user, who is also
// inserted as its first (admin) member.
// @Summary  Create a workspace
// @Tags     Workspaces
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Router   /workspaces [post]
func (h *WorkspaceHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Workspace name required"})
		return
	}

	workspace := &model.Workspace{
		ID:      uuid.New(),
		Name:    req.Name,
		OwnerID: userID,
	}

	if err := h.workspaceRepo.CreateWithOwner(c.Request.Context(), workspace); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create workspace"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"workspace": workspaceResponse(workspace)})
}

// GetByID returns a workspace the authenticated user is a member of
// @Summary  Get a workspace
// @Tags     Workspaces
// @Security BearerAuth
// @Produce  json
// @Router   /workspaces/{id} [get]
func (h *WorkspaceHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID format"})
		return
	}

	workspace, err := h.workspaceRepo.GetByID(c.Request.Context(), workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve workspace"})
		return
	}
	if workspace == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Workspace not found"})
		return
	}

	isMember, err := h.memberRepo.IsMember(c.Request.Context(), workspaceID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of workspace"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspace": workspaceResponse(workspace)})
}

// Update renames a workspace. Membership is not enough here: only the owner
// may update.
// @Summary  Update a workspace
// @Tags     Workspaces
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Router   /workspaces/{id} [put]
func (h *WorkspaceHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID format"})
		return
	}

	workspace, err := h.workspaceRepo.GetByID(c.Request.Context(), workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve workspace"})
		return
	}
	if workspace == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Workspace not found"})
		return
	}

	if workspace.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only owner can update workspace"})
		return
	}

	var req UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Workspace name required"})
		return
	}

	workspace.Name = req.Name
	if err := h.workspaceRepo.Update(c.Request.Context(), workspace); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update workspace"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspace": workspaceResponse(workspace)})
}

// Delete removes a workspace; owner only
// @Summary  Delete a workspace
// @Tags     Workspaces
// @Security BearerAuth
// @Router   /workspaces/{id} [delete]
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID format"})
		return
	}

	workspace, err := h.workspaceRepo.GetByID(c.Request.Context(), workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve workspace"})
		return
	}
	if workspace == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Workspace not found"})
		return
	}

	if workspace.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only owner can delete workspace"})
		return
	}

	if err := h.workspaceRepo.Delete(c.Request.Context(), workspaceID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete workspace"})
		return
	}

	c.Status(http.StatusNoContent)
}
