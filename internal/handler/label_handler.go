package handler

import (
	"errors"
	"net/http"

	"tasksultan/internal/model"
	"tasksultan/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LabelHandler struct {
	labelRepo  repository.LabelRepositoryInterface
	memberRepo repository.MemberRepositoryInterface
}

func NewLabelHandler(
	labelRepo repository.LabelRepositoryInterface,
	memberRepo repository.MemberRepositoryInterface,
) *LabelHandler {
	return &LabelHandler{
		labelRepo:  labelRepo,
		memberRepo: memberRepo,
	}
}

type CreateLabelRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type UpdateLabelRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// LabelResponse is also embedded in task responses
type LabelResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	WorkspaceID string `json:"workspaceId,omitempty"`
}

func labelResponse(label *model.Label) LabelResponse {
	return LabelResponse{
		ID:          label.ID.String(),
		Name:        label.Name,
		Color:       label.Color,
		WorkspaceID: label.WorkspaceID.String(),
	}
}

func (h *LabelHandler) requireMember(c *gin.Context, workspaceID, userID uuid.UUID) bool {
	isMember, err := h.memberRepo.IsMember(c.Request.Context(), workspaceID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return false
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of workspace"})
		return false
	}
	return true
}

// List returns all labels of a workspace
// @Summary  List labels in a workspace
// @Tags     Labels
// @Security BearerAuth
// @Produce  json
// @Router   /workspaces/{id}/labels [get]
func (h *LabelHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID format"})
		return
	}

	if !h.requireMember(c, workspaceID, userID) {
		return
	}

	labels, err := h.labelRepo.GetByWorkspaceID(c.Request.Context(), workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve labels"})
		return
	}

	response := make([]LabelResponse, len(labels))
	for i := range labels {
		response[i] = labelResponse(&labels[i])
	}

	c.JSON(http.StatusOK, gin.H{"labels": response})
}

// Create adds a label to the workspace
// @Summary  Create a label
// @Tags     Labels
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Router   /workspaces/{id}/labels [post]
func (h *LabelHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID format"})
		return
	}

	if !h.requireMember(c, workspaceID, userID) {
		return
	}

	var req CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Label name required"})
		return
	}

	label := &model.Label{
		ID:          uuid.New(),
		Name:        req.Name,
		Color:       req.Color,
		WorkspaceID: workspaceID,
	}

	if err := h.labelRepo.Create(c.Request.Context(), label); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create label"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"label": labelResponse(label)})
}

// Update modifies a label's name/color
// @Summary  Update a label
// @Tags     Labels
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Router   /labels/{id} [put]
func (h *LabelHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	labelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid label ID format"})
		return
	}

	label, err := h.labelRepo.GetByID(c.Request.Context(), labelID)
	if err != nil {
		if errors.Is(err, repository.ErrLabelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Label not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve label"})
		}
		return
	}

	if !h.requireMember(c, label.WorkspaceID, userID) {
		return
	}

	var req UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Label name required"})
			return
		}
		label.Name = *req.Name
	}
	if req.Color != nil {
		label.Color = *req.Color
	}

	if err := h.labelRepo.Update(c.Request.Context(), label); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update label"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"label": labelResponse(label)})
}

// Delete removes a label; task associations go with it
// @Summary  Delete a label
// @Tags     Labels
// @Security BearerAuth
// @Router   /labels/{id} [delete]
func (h *LabelHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	labelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid label ID format"})
		return
	}

	label, err := h.labelRepo.GetByID(c.Request.Context(), labelID)
	if err != nil {
		if errors.Is(err, repository.ErrLabelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Label not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve label"})
		}
		return
	}

	if !h.requireMember(c, label.WorkspaceID, userID) {
		return
	}

	if err := h.labelRepo.Delete(c.Request.Context(), labelID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete label"})
		return
	}

	c.Status(http.StatusNoContent)
}
