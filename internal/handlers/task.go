package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/securetask/secure-task-api/internal/dto"
	apierrors "github.com/securetask/secure-task-api/internal/errors"
	"github.com/securetask/secure-task-api/internal/middleware"
	"github.com/securetask/secure-task-api/internal/models"
	"github.com/securetask/secure-task-api/internal/services"
	"github.com/securetask/secure-task-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers. All tenant scoping and
// auditing happens in the service; the handler only translates requests
// and error kinds.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks of the actor's organization, newest first.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		input.Status = &status
	}
	if assigneeID := c.Query("assignee_id"); assigneeID != "" {
		input.AssigneeID = &assigneeID
	}

	tasks, total, err := h.taskService.ListTasks(actor, input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns one task from the actor's organization.
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.GetTask(actor, c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// CreateTask creates a new task owned by the actor's organization.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Category    string     `json:"category"`
		DueDate     *time.Time `json:"due_date"`
		AssigneeID  *string    `json:"assignee_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(actor, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Category:    models.TaskCategory(req.Category),
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": dto.ToTaskDTO(*task)})
}

// UpdateTask applies a partial update. The raw body is inspected so that a
// field absent from the patch is left untouched while an explicit null
// clears the nullable fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{}

	if title, ok := rawReq["title"]; ok {
		titleStr, ok := title.(string)
		if !ok {
			apierrors.BadRequest(c, "title must be a string")
			return
		}
		input.Title = &titleStr
	}
	if description, ok := rawReq["description"]; ok {
		descStr, ok := description.(string)
		if !ok {
			apierrors.BadRequest(c, "description must be a string")
			return
		}
		input.Description = &descStr
	}
	if status, ok := rawReq["status"]; ok {
		statusStr, ok := status.(string)
		if !ok {
			apierrors.BadRequest(c, "status must be a string")
			return
		}
		taskStatus := models.TaskStatus(statusStr)
		input.Status = &taskStatus
	}
	if category, ok := rawReq["category"]; ok {
		categoryStr, ok := category.(string)
		if !ok {
			apierrors.BadRequest(c, "category must be a string")
			return
		}
		taskCategory := models.TaskCategory(categoryStr)
		input.Category = &taskCategory
	}
	if rawDueDate, ok := rawReq["due_date"]; ok {
		if rawDueDate == nil {
			input.ClearDueDate = true
		} else if dueDateStr, ok := rawDueDate.(string); ok {
			parsed, err := time.Parse(time.RFC3339, dueDateStr)
			if err != nil {
				apierrors.BadRequest(c, "due_date must be an RFC3339 timestamp")
				return
			}
			input.DueDate = &parsed
		} else {
			apierrors.BadRequest(c, "due_date must be a timestamp or null")
			return
		}
	}
	if rawAssignee, ok := rawReq["assignee_id"]; ok {
		if rawAssignee == nil {
			input.ClearAssignee = true
		} else if assigneeStr, ok := rawAssignee.(string); ok {
			input.AssigneeID = &assigneeStr
		} else {
			apierrors.BadRequest(c, "assignee_id must be a string or null")
			return
		}
	}

	task, err := h.taskService.UpdateTask(actor, c.Param("id"), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// DeleteTask removes a task from the actor's organization.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.DeleteTask(actor, c.Param("id")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrViewerCannotMutate):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskTitleRequired),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskCategory):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
