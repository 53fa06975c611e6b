package handler

import (
	"errors"
	"net/http"
	"time"

	"tasksultan/internal/model"
	"tasksultan/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo    repository.TaskRepositoryInterface
	projectRepo repository.ProjectRepositoryInterface
	memberRepo  repository.MemberRepositoryInterface
	userRepo    repository.UserRepositoryInterface
}

func NewTaskHandler(
	taskRepo repository.TaskRepositoryInterface,
	projectRepo repository.ProjectRepositoryInterface,
	memberRepo repository.MemberRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		userRepo:    userRepo,
	}
}

type CreateTaskRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"dueDate"`
	AssigneeID   *string    `json:"assigneeId"`
	ParentTaskID *string    `json:"parentTaskId"`
	Labels       *[]string  `json:"labels"`
}

// UpdateTaskRequest uses pointers throughout: absent fields leave the stored
// value untouched, a present labels array replaces the task's whole label set.
type UpdateTaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	Priority     *string    `json:"priority"`
	DueDate      *time.Time `json:"dueDate"`
	AssigneeID   *string    `json:"assigneeId"`
	ParentTaskID *string    `json:"parentTaskId"`
	Labels       *[]string  `json:"labels"`
}

type TaskSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

type TaskResponse struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Status       string          `json:"status"`
	Priority     string          `json:"priority,omitempty"`
	DueDate      *string         `json:"dueDate,omitempty"`
	AssigneeID   *string         `json:"assigneeId,omitempty"`
	Assignee     *UserSummary    `json:"assignee,omitempty"`
	ParentTaskID *string         `json:"parentTaskId,omitempty"`
	ParentTask   *TaskSummary    `json:"parentTask,omitempty"`
	ProjectID    string          `json:"projectId"`
	Labels       []LabelResponse `json:"labels"`
	Subtasks     []TaskSummary   `json:"subtasks"`
	CreatedAt    string          `json:"createdAt"`
}

func (h *TaskHandler) requireMember(c *gin.Context, workspaceID, userID uuid.UUID) bool {
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

// taskResponse assembles the full task projection: labels, assignee summary,
// direct subtasks and parent summary. userCache spares repeated assignee
// lookups when building list responses.
func (h *TaskHandler) taskResponse(c *gin.Context, task *model.Task, userCache map[uuid.UUID]*model.User) (TaskResponse, error) {
	response := TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		ProjectID:   task.ProjectID.String(),
		Labels:      []LabelResponse{},
		Subtasks:    []TaskSummary{},
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
	}

	if task.DueDate != nil {
		dueDate := task.DueDate.Format(time.RFC3339)
		response.DueDate = &dueDate
	}

	for i := range task.Labels {
		label := labelResponse(&task.Labels[i])
		response.Labels = append(response.Labels, label)
	}

	if task.AssigneeID != nil {
		assignee, ok := userCache[*task.AssigneeID]
		if !ok {
			var err error
			assignee, err = h.userRepo.GetByID(c.Request.Context(), *task.AssigneeID)
			if err != nil {
				return response, err
			}
			userCache[*task.AssigneeID] = assignee
		}
		assigneeID := task.AssigneeID.String()
		response.AssigneeID = &assigneeID
		if assignee != nil {
			response.Assignee = &UserSummary{
				ID:        assignee.ID.String(),
				Name:      assignee.Name,
				AvatarURL: assignee.AvatarURL,
			}
		}
	}

	if task.ParentTaskID != nil {
		parentID := task.ParentTaskID.String()
		response.ParentTaskID = &parentID
		parent, err := h.taskRepo.GetByID(c.Request.Context(), *task.ParentTaskID)
		if err == nil {
			response.ParentTask = &TaskSummary{ID: parent.ID.String(), Title: parent.Title}
		} else if !errors.Is(err, repository.ErrTaskNotFound) {
			return response, err
		}
	}

	subtasks, err := h.taskRepo.GetSubtasks(c.Request.Context(), task.ID)
	if err != nil {
		return response, err
	}
	for i := range subtasks {
		response.Subtasks = append(response.Subtasks, TaskSummary{
			ID:     subtasks[i].ID.String(),
			Title:  subtasks[i].Title,
			Status: subtasks[i].Status,
		})
	}

	return response, nil
}

// writeTaskError translates repository validation/lookup errors to the
// contract responses
func writeTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrAssigneeNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee not found"})
	case errors.Is(err, repository.ErrParentTaskNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parent task not found"})
	case errors.Is(err, repository.ErrLabelsNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more labels not found"})
	case errors.Is(err, repository.ErrParentTaskCycle):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parent task would create a cycle"})
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save task"})
	}
}

// parseRef converts an optional reference string to a UUID. A malformed id is
// reported the same way as a missing row so callers see one failure mode.
func parseRef(c *gin.Context, ref string, notFoundMsg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ref)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": notFoundMsg})
		return uuid.Nil, false
	}
	return id, true
}

// List returns the project's tasks, optionally filtered by assignee, parent
// task and label. Filters combine with AND semantics.
// @Summary  List tasks in a project
// @Tags     Tasks
// @Security BearerAuth
// @Produce  json
// @Param    assigneeId   query string false "filter by assignee"
// @Param    parentTaskId query string false "filter by parent task"
// @Param    labelId      query string false "filter by label"
// @Router   /projects/{id}/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if !h.requireMember(c, project.WorkspaceID, userID) {
		return
	}

	var filter repository.TaskFilter
	if raw := c.Query("assigneeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID format"})
			return
		}
		filter.AssigneeID = &id
	}
	if raw := c.Query("parentTaskId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent task ID format"})
			return
		}
		filter.ParentTaskID = &id
	}
	if raw := c.Query("labelId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid label ID format"})
			return
		}
		filter.LabelID = &id
	}

	tasks, err := h.taskRepo.GetByProjectID(c.Request.Context(), projectID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	userCache := make(map[uuid.UUID]*model.User)
	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i], err = h.taskResponse(c, &tasks[i], userCache)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build task response"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"tasks": response})
}

// Create adds a task to the project. Assignee, parent task and every label in
// the payload must exist (labels within the project's workspace) or the whole
// mutation is rejected with nothing written.
// @Summary  Create a task
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Router   /projects/{id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if !h.requireMember(c, project.WorkspaceID, userID) {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task title required"})
		return
	}

	status := req.Status
	if status == "" {
		status = "todo"
	}

	task := &model.Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ProjectID:   projectID,
	}

	if req.AssigneeID != nil {
		assigneeID, ok := parseRef(c, *req.AssigneeID, "Assignee not found")
		if !ok {
			return
		}
		task.AssigneeID = &assigneeID
	}
	if req.ParentTaskID != nil {
		parentID, ok := parseRef(c, *req.ParentTaskID, "Parent task not found")
		if !ok {
			return
		}
		task.ParentTaskID = &parentID
	}

	var labelIDs []uuid.UUID
	if req.Labels != nil {
		for _, raw := range *req.Labels {
			labelID, ok := parseRef(c, raw, "One or more labels not found")
			if !ok {
				return
			}
			labelIDs = append(labelIDs, labelID)
		}
	}

	if err := h.taskRepo.Create(c.Request.Context(), task, labelIDs, project.WorkspaceID); err != nil {
		writeTaskError(c, err)
		return
	}

	created, err := h.taskRepo.GetByID(c.Request.Context(), task.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	response, err := h.taskResponse(c, created, make(map[uuid.UUID]*model.User))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build task response"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": response})
}

// GetByID returns a single task with labels, assignee, parent and subtasks
// @Summary  Get a task
// @Tags     Tasks
// @Security BearerAuth
// @Produce  json
// @Router   /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		writeTaskError(c, err)
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), task.ProjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if !h.requireMember(c, project.WorkspaceID, userID) {
		return
	}

	response, err := h.taskResponse(c, task, make(map[uuid.UUID]*model.User))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build task response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": response})
}

// Update modifies a task. The same reference validation as Create runs before
// anything is written; a labels array replaces the whole set.
// @Summary  Update a task
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Router   /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		writeTaskError(c, err)
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), task.ProjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if !h.requireMember(c, project.WorkspaceID, userID) {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Task title required"})
			return
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID == "" {
			task.AssigneeID = nil
		} else {
			assigneeID, ok := parseRef(c, *req.AssigneeID, "Assignee not found")
			if !ok {
				return
			}
			task.AssigneeID = &assigneeID
		}
	}
	if req.ParentTaskID != nil {
		if *req.ParentTaskID == "" {
			task.ParentTaskID = nil
		} else {
			parentID, ok := parseRef(c, *req.ParentTaskID, "Parent task not found")
			if !ok {
				return
			}
			task.ParentTaskID = &parentID
		}
	}

	var labelIDs *[]uuid.UUID
	if req.Labels != nil {
		ids := make([]uuid.UUID, 0, len(*req.Labels))
		for _, raw := range *req.Labels {
			labelID, ok := parseRef(c, raw, "One or more labels not found")
			if !ok {
				return
			}
			ids = append(ids, labelID)
		}
		labelIDs = &ids
	}

	if err := h.taskRepo.Update(c.Request.Context(), task, labelIDs, project.WorkspaceID); err != nil {
		writeTaskError(c, err)
		return
	}

	updated, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	response, err := h.taskResponse(c, updated, make(map[uuid.UUID]*model.User))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build task response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": response})
}

// Delete removes a task; comments, label links and the subtask subtree go
// with it per the cascade policy.
// @Summary  Delete a task
// @Tags     Tasks
// @Security BearerAuth
// @Router   /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		writeTaskError(c, err)
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), task.ProjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if !h.requireMember(c, project.WorkspaceID, userID) {
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), taskID); err != nil {
		writeTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
