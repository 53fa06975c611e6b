package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"tasksultan/internal/model"
	"tasksultan/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentRepo repository.CommentRepositoryInterface
	taskRepo    repository.TaskRepositoryInterface
	projectRepo repository.ProjectRepositoryInterface
	memberRepo  repository.MemberRepositoryInterface
}

func NewCommentHandler(
	commentRepo repository.CommentRepositoryInterface,
	taskRepo repository.TaskRepositoryInterface,
	projectRepo repository.ProjectRepositoryInterface,
	memberRepo repository.MemberRepositoryInterface,
) *CommentHandler {
	return &CommentHandler{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
	}
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

type CommentResponse struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	TaskID    string       `json:"taskId"`
	UserID    string       `json:"userId"`
	User      *UserSummary `json:"user,omitempty"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}

func commentResponse(comment *model.Comment) CommentResponse {
	response := CommentResponse{
		ID:        comment.ID.String(),
		Content:   comment.Content,
		TaskID:    comment.TaskID.String(),
		UserID:    comment.UserID.String(),
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
		UpdatedAt: comment.UpdatedAt.Format(time.RFC3339),
	}
	if comment.User != nil {
		response.User = &UserSummary{
			ID:        comment.User.ID.String(),
			Name:      comment.User.Name,
			AvatarURL: comment.User.AvatarURL,
		}
	}
	return response
}

// resolveTaskWorkspace walks task -> project -> workspace so comment routes
// can reuse the membership guard.
func (h *CommentHandler) resolveTaskWorkspace(c *gin.Context, taskID uuid.UUID) (*model.Task, uuid.UUID, bool) {
	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return nil, uuid.Nil, false
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), task.ProjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return nil, uuid.Nil, false
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return nil, uuid.Nil, false
	}

	return task, project.WorkspaceID, true
}

func (h *CommentHandler) requireMember(c *gin.Context, workspaceID, userID uuid.UUID) bool {
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

// List returns the task's comments oldest first, each with its author summary
// @Summary  List comments on a task
// @Tags     Comments
// @Security BearerAuth
// @Produce  json
// @Router   /tasks/{id}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, workspaceID, ok := h.resolveTaskWorkspace(c, taskID)
	if !ok {
		return
	}
	if !h.requireMember(c, workspaceID, userID) {
		return
	}

	comments, err := h.commentRepo.GetByTaskID(c.Request.Context(), task.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	response := make([]CommentResponse, len(comments))
	for i := range comments {
		response[i] = commentResponse(&comments[i])
	}

	c.JSON(http.StatusOK, gin.H{"comments": response})
}

// Create adds a comment to the task, authored by the caller. Content is
// trimmed and must be non-empty after trimming.
// @Summary  Create a comment
// @Tags     Comments
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Router   /tasks/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, workspaceID, ok := h.resolveTaskWorkspace(c, taskID)
	if !ok {
		return
	}
	if !h.requireMember(c, workspaceID, userID) {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	comment := &model.Comment{
		ID:      uuid.New(),
		Content: content,
		TaskID:  task.ID,
		UserID:  userID,
	}

	if err := h.commentRepo.Create(c.Request.Context(), comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": commentResponse(comment)})
}

// Update rewrites a comment's content. Only the comment's author may do this,
// regardless of workspace role.
// @Summary  Update a comment
// @Tags     Comments
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Router   /comments/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID format"})
		return
	}

	comment, err := h.commentRepo.GetByID(c.Request.Context(), commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		}
		return
	}

	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	comment.Content = content
	if err := h.commentRepo.Update(c.Request.Context(), comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": commentResponse(comment)})
}

// Delete removes a comment. Author-only, like Update.
// @Summary  Delete a comment
// @Tags     Comments
// @Security BearerAuth
// @Router   /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID format"})
		return
	}

	comment, err := h.commentRepo.GetByID(c.Request.Context(), commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		}
		return
	}

	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		return
	}

	if err := h.commentRepo.Delete(c.Request.Context(), commentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.Status(http.StatusNoContent)
}
