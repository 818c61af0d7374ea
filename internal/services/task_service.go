package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/securetask/secure-task-api/internal/auth"
	"github.com/securetask/secure-task-api/internal/models"
	"github.com/securetask/secure-task-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrAssigneeNotFound    = errors.New("assignee not found in your organization")
	ErrTaskTitleRequired   = errors.New("title is required")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskCategory = errors.New("invalid task category")
	ErrViewerCannotMutate  = errors.New("viewers cannot modify tasks")
)

// TaskService is the organization-scoped accessor for tasks. Every lookup
// is filtered by the actor's organization; a task in another tenant is
// reported as nonexistent, never as forbidden. Each mutation and its audit
// record are committed in a single transaction.
type TaskService struct {
	db        *gorm.DB
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(db *gorm.DB, taskRepo repository.TaskRepository, userRepo repository.UserRepository, auditRepo repository.AuditRepository) *TaskService {
	return &TaskService{
		db:        db,
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status     *models.TaskStatus
	AssigneeID *string
	Page       int
	PageSize   int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Category    models.TaskCategory
	DueDate     *time.Time
	AssigneeID  *string
}

// UpdateTaskInput represents a partial update. Nil pointers leave the field
// untouched; the Clear flags null out the nullable fields.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Category      *models.TaskCategory
	DueDate       *time.Time
	ClearDueDate  bool
	AssigneeID    *string
	ClearAssignee bool
}

// ListTasks returns the tasks of the actor's organization, newest first.
func (s *TaskService) ListTasks(actor auth.Actor, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		OrganizationID: actor.OrganizationID,
		Status:         input.Status,
		AssigneeID:     input.AssigneeID,
		Page:           input.Page,
		PageSize:       input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a task if it belongs to the actor's organization.
func (s *TaskService) GetTask(actor auth.Actor, taskID string) (*models.Task, error) {
	return s.getScopedTask(actor, taskID, "CreatedBy", "Assignee", "Organization")
}

// CreateTask creates a task in the actor's organization. Any client-supplied
// organization is ignored; the owning tenant always comes from the actor.
func (s *TaskService) CreateTask(actor auth.Actor, input CreateTaskInput) (*models.Task, error) {
	if err := s.ensureCanMutate(actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusBacklog
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	if input.Category == "" {
		input.Category = models.TaskCategoryWork
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidTaskCategory
	}

	assignee, err := s.resolveAssignee(actor, input.AssigneeID)
	if err != nil {
		return nil, err
	}

	creatorID := actor.ID
	task := &models.Task{
		Title:          title,
		Description:    input.Description,
		Status:         input.Status,
		Category:       input.Category,
		DueDate:        input.DueDate,
		OrganizationID: actor.OrganizationID,
		CreatedByID:    &creatorID,
	}
	if assignee != nil {
		task.AssigneeID = &assignee.ID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).Create(task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return s.appendAudit(tx, actor, models.AuditCreateTask, models.JSONMap{
			"task_id": task.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.taskRepo.FindByID(task.ID, "CreatedBy", "Assignee", "Organization")
}

// UpdateTask applies a partial update to a task in the actor's organization.
func (s *TaskService) UpdateTask(actor auth.Actor, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if err := s.ensureCanMutate(actor); err != nil {
		return nil, err
	}

	task, err := s.getScopedTask(actor, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, ErrInvalidTaskCategory
		}
		task.Category = *input.Category
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		assignee, err := s.resolveAssignee(actor, input.AssigneeID)
		if err != nil {
			return nil, err
		}
		task.AssigneeID = &assignee.ID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).Update(task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return s.appendAudit(tx, actor, models.AuditUpdateTask, models.JSONMap{
			"task_id": task.ID,
			"status":  string(task.Status),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.taskRepo.FindByID(task.ID, "CreatedBy", "Assignee", "Organization")
}

// DeleteTask removes a task in the actor's organization. The audit record
// keeps the task id as the only remaining trace.
func (s *TaskService) DeleteTask(actor auth.Actor, taskID string) error {
	if err := s.ensureCanMutate(actor); err != nil {
		return err
	}

	task, err := s.getScopedTask(actor, taskID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).Delete(task.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return s.appendAudit(tx, actor, models.AuditDeleteTask, models.JSONMap{
			"task_id": task.ID,
		})
	})
}

// getScopedTask loads a task and collapses both nonexistence and a tenant
// mismatch into ErrTaskNotFound so cross-tenant existence never leaks.
func (s *TaskService) getScopedTask(actor auth.Actor, taskID string, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.OrganizationID != actor.OrganizationID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// resolveAssignee verifies an assignee reference stays inside the actor's
// organization. A missing user and a cross-tenant user are indistinguishable.
func (s *TaskService) resolveAssignee(actor auth.Actor, assigneeID *string) (*models.User, error) {
	if assigneeID == nil {
		return nil, nil
	}
	assignee, err := s.userRepo.FindByID(*assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to resolve assignee: %w", err)
	}
	if assignee.OrganizationID != actor.OrganizationID {
		return nil, ErrAssigneeNotFound
	}
	return assignee, nil
}

// ensureCanMutate rechecks the role gate at the service boundary. The route
// table already guards mutating endpoints; this keeps the invariant even
// for callers that bypass HTTP.
func (s *TaskService) ensureCanMutate(actor auth.Actor) error {
	if !auth.Authorize(actor, models.RoleOwner, models.RoleAdmin) {
		return ErrViewerCannotMutate
	}
	return nil
}

func (s *TaskService) appendAudit(tx *gorm.DB, actor auth.Actor, action models.AuditAction, context models.JSONMap) error {
	actorID := actor.ID
	entry := &models.AuditLog{
		ActorID:        &actorID,
		OrganizationID: actor.OrganizationID,
		Action:         action,
		Context:        context,
	}
	if err := s.auditRepo.WithTx(tx).Create(entry); err != nil {
		return fmt.Errorf("%w: %v", ErrAuditAppendFailed, err)
	}
	return nil
}
