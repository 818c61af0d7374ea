package services

import (
	"testing"
	"time"

	"github.com/securetask/secure-task-api/internal/auth"
	"github.com/securetask/secure-task-api/internal/models"
	"github.com/securetask/secure-task-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Task{},
		&models.AuditLog{},
	)
	suite.Require().NoError(err)

	suite.service = NewTaskService(
		suite.db,
		repository.NewTaskRepository(suite.db),
		repository.NewUserRepository(suite.db),
		repository.NewAuditRepository(suite.db),
	)
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *TaskServiceTestSuite) createTestOrganization(name string) *models.Organization {
	org := &models.Organization{Name: name}
	suite.Require().NoError(suite.db.Create(org).Error)
	return org
}

func (suite *TaskServiceTestSuite) createTestUser(email string, role models.UserRole, orgID string) *models.User {
	user := &models.User{
		Email:          email,
		DisplayName:    email,
		PasswordHash:   "hashedpassword",
		Role:           role,
		OrganizationID: orgID,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskServiceTestSuite) createTestTask(title, orgID string, createdAt time.Time) *models.Task {
	task := &models.Task{
		Title:          title,
		Description:    "Test Description",
		OrganizationID: orgID,
		Status:         models.TaskStatusBacklog,
		Category:       models.TaskCategoryWork,
		CreatedAt:      createdAt,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func actorFor(user *models.User) auth.Actor {
	return auth.Actor{
		ID:             user.ID,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
	}
}

func (suite *TaskServiceTestSuite) auditRecords(action models.AuditAction) []models.AuditLog {
	var entries []models.AuditLog
	suite.Require().NoError(suite.db.Where("action = ?", action).Find(&entries).Error)
	return entries
}

func (suite *TaskServiceTestSuite) TestCreateTask_DefaultsAndAudit() {
	org := suite.createTestOrganization("Org One")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)

	task, err := suite.service.CreateTask(actorFor(admin), CreateTaskInput{
		Title: "Ship release",
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), org.ID, task.OrganizationID)
	assert.Equal(suite.T(), models.TaskStatusBacklog, task.Status)
	assert.Equal(suite.T(), models.TaskCategoryWork, task.Category)
	suite.Require().NotNil(task.CreatedByID)
	assert.Equal(suite.T(), admin.ID, *task.CreatedByID)
	assert.Nil(suite.T(), task.AssigneeID)

	entries := suite.auditRecords(models.AuditCreateTask)
	suite.Require().Len(entries, 1)
	assert.Equal(suite.T(), org.ID, entries[0].OrganizationID)
	suite.Require().NotNil(entries[0].ActorID)
	assert.Equal(suite.T(), admin.ID, *entries[0].ActorID)
	assert.Equal(suite.T(), task.ID, entries[0].Context["task_id"])
}

func (suite *TaskServiceTestSuite) TestCreateTask_IgnoresClientOrganization() {
	org := suite.createTestOrganization("Org One")
	suite.createTestOrganization("Org Two")
	owner := suite.createTestUser("owner@example.com", models.RoleOwner, org.ID)

	// CreateTaskInput has no organization field at all; the owning tenant
	// always comes from the actor.
	task, err := suite.service.CreateTask(actorFor(owner), CreateTaskInput{Title: "Scoped"})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), org.ID, task.OrganizationID)
}

func (suite *TaskServiceTestSuite) TestCreateTask_ViewerDenied() {
	org := suite.createTestOrganization("Org One")
	viewer := suite.createTestUser("viewer@example.com", models.RoleViewer, org.ID)

	_, err := suite.service.CreateTask(actorFor(viewer), CreateTaskInput{Title: "Nope"})
	assert.ErrorIs(suite.T(), err, ErrViewerCannotMutate)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Zero(suite.T(), count)
	assert.Empty(suite.T(), suite.auditRecords(models.AuditCreateTask))
}

func (suite *TaskServiceTestSuite) TestCreateTask_TitleRequired() {
	org := suite.createTestOrganization("Org One")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)

	_, err := suite.service.CreateTask(actorFor(admin), CreateTaskInput{Title: "   "})
	assert.ErrorIs(suite.T(), err, ErrTaskTitleRequired)
}

func (suite *TaskServiceTestSuite) TestCreateTask_InvalidStatus() {
	org := suite.createTestOrganization("Org One")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)

	_, err := suite.service.CreateTask(actorFor(admin), CreateTaskInput{
		Title:  "Bad status",
		Status: models.TaskStatus("paused"),
	})
	assert.ErrorIs(suite.T(), err, ErrInvalidTaskStatus)
}

func (suite *TaskServiceTestSuite) TestCreateTask_AssigneeInActorOrganization() {
	org := suite.createTestOrganization("Org One")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)
	teammate := suite.createTestUser("mate@example.com", models.RoleViewer, org.ID)

	task, err := suite.service.CreateTask(actorFor(admin), CreateTaskInput{
		Title:      "Assigned",
		AssigneeID: &teammate.ID,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(task.AssigneeID)
	assert.Equal(suite.T(), teammate.ID, *task.AssigneeID)
}

func (suite *TaskServiceTestSuite) TestCreateTask_CrossOrganizationAssigneeNotFound() {
	org := suite.createTestOrganization("Org One")
	other := suite.createTestOrganization("Org Two")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)
	outsider := suite.createTestUser("outsider@example.com", models.RoleViewer, other.ID)

	_, err := suite.service.CreateTask(actorFor(admin), CreateTaskInput{
		Title:      "Assigned",
		AssigneeID: &outsider.ID,
	})
	assert.ErrorIs(suite.T(), err, ErrAssigneeNotFound)
	assert.Empty(suite.T(), suite.auditRecords(models.AuditCreateTask))
}

func (suite *TaskServiceTestSuite) TestUpdateTask_PartialPatch() {
	org := suite.createTestOrganization("Org One")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)
	task := suite.createTestTask("Original", org.ID, time.Now())

	status := models.TaskStatusReview
	updated, err := suite.service.UpdateTask(actorFor(admin), task.ID, UpdateTaskInput{
		Status: &status,
	})
	suite.Require().NoError(err)

	// Fields absent from the patch stay untouched.
	assert.Equal(suite.T(), "Original", updated.Title)
	assert.Equal(suite.T(), "Test Description", updated.Description)
	assert.Equal(suite.T(), models.TaskStatusReview, updated.Status)

	entries := suite.auditRecords(models.AuditUpdateTask)
	suite.Require().Len(entries, 1)
	assert.Equal(suite.T(), string(models.TaskStatusReview), entries[0].Context["status"])
	assert.Equal(suite.T(), task.ID, entries[0].Context["task_id"])
}

func (suite *TaskServiceTestSuite) TestUpdateTask_ClearsNullableFields() {
	org := suite.createTestOrganization("Org One")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)
	teammate := suite.createTestUser("mate@example.com", models.RoleViewer, org.ID)

	due := time.Now().Add(48 * time.Hour)
	task, err := suite.service.CreateTask(actorFor(admin), CreateTaskInput{
		Title:      "With extras",
		DueDate:    &due,
		AssigneeID: &teammate.ID,
	})
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateTask(actorFor(admin), task.ID, UpdateTaskInput{
		ClearDueDate:  true,
		ClearAssignee: true,
	})
	suite.Require().NoError(err)
	assert.Nil(suite.T(), updated.DueDate)
	assert.Nil(suite.T(), updated.AssigneeID)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_CrossTenantIsNotFound() {
	org := suite.createTestOrganization("Org One")
	other := suite.createTestOrganization("Org Two")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)
	foreignTask := suite.createTestTask("Foreign", other.ID, time.Now())

	title := "Hijacked"
	_, err := suite.service.UpdateTask(actorFor(admin), foreignTask.ID, UpdateTaskInput{
		Title: &title,
	})
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)

	// The attempt leaves no trace in the audit trail and no change behind.
	var count int64
	suite.db.Model(&models.AuditLog{}).Count(&count)
	assert.Zero(suite.T(), count)

	var reloaded models.Task
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", foreignTask.ID).Error)
	assert.Equal(suite.T(), "Foreign", reloaded.Title)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_MissingIsNotFound() {
	org := suite.createTestOrganization("Org One")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)

	title := "Ghost"
	_, err := suite.service.UpdateTask(actorFor(admin), "no-such-id", UpdateTaskInput{Title: &title})
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_RemovesAndAudits() {
	org := suite.createTestOrganization("Org One")
	owner := suite.createTestUser("owner@example.com", models.RoleOwner, org.ID)
	task := suite.createTestTask("Doomed", org.ID, time.Now())

	suite.Require().NoError(suite.service.DeleteTask(actorFor(owner), task.ID))

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	assert.Zero(suite.T(), count)

	// The audit record is the only remaining trace of the task.
	entries := suite.auditRecords(models.AuditDeleteTask)
	suite.Require().Len(entries, 1)
	assert.Equal(suite.T(), task.ID, entries[0].Context["task_id"])
	assert.Equal(suite.T(), org.ID, entries[0].OrganizationID)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_ViewerDenied() {
	org := suite.createTestOrganization("Org One")
	viewer := suite.createTestUser("viewer@example.com", models.RoleViewer, org.ID)
	task := suite.createTestTask("Safe", org.ID, time.Now())

	err := suite.service.DeleteTask(actorFor(viewer), task.ID)
	assert.ErrorIs(suite.T(), err, ErrViewerCannotMutate)

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	assert.EqualValues(suite.T(), 1, count)
	assert.Empty(suite.T(), suite.auditRecords(models.AuditDeleteTask))
}

func (suite *TaskServiceTestSuite) TestDeleteTask_CrossTenantIsNotFound() {
	org := suite.createTestOrganization("Org One")
	other := suite.createTestOrganization("Org Two")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)
	foreignTask := suite.createTestTask("Foreign", other.ID, time.Now())

	err := suite.service.DeleteTask(actorFor(admin), foreignTask.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", foreignTask.ID).Count(&count)
	assert.EqualValues(suite.T(), 1, count)
}

func (suite *TaskServiceTestSuite) TestListTasks_ScopedAndNewestFirst() {
	org := suite.createTestOrganization("Org One")
	other := suite.createTestOrganization("Org Two")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)

	older := suite.createTestTask("Older", org.ID, time.Now().Add(-2*time.Hour))
	newer := suite.createTestTask("Newer", org.ID, time.Now().Add(-1*time.Hour))
	suite.createTestTask("Elsewhere", other.ID, time.Now())

	tasks, total, err := suite.service.ListTasks(actorFor(admin), ListTasksInput{})
	suite.Require().NoError(err)

	assert.EqualValues(suite.T(), 2, total)
	suite.Require().Len(tasks, 2)
	assert.Equal(suite.T(), newer.ID, tasks[0].ID)
	assert.Equal(suite.T(), older.ID, tasks[1].ID)
	for _, task := range tasks {
		assert.Equal(suite.T(), org.ID, task.OrganizationID)
	}
}

func (suite *TaskServiceTestSuite) TestListTasks_StatusFilter() {
	org := suite.createTestOrganization("Org One")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)

	done := suite.createTestTask("Done", org.ID, time.Now())
	suite.Require().NoError(suite.db.Model(done).Update("status", models.TaskStatusDone).Error)
	suite.createTestTask("Pending", org.ID, time.Now())

	status := models.TaskStatusDone
	tasks, total, err := suite.service.ListTasks(actorFor(admin), ListTasksInput{Status: &status})
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 1, total)
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), done.ID, tasks[0].ID)
}

func (suite *TaskServiceTestSuite) TestGetTask_CrossTenantIsNotFound() {
	org := suite.createTestOrganization("Org One")
	other := suite.createTestOrganization("Org Two")
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin, org.ID)
	foreignTask := suite.createTestTask("Foreign", other.ID, time.Now())

	_, err := suite.service.GetTask(actorFor(admin), foreignTask.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

// TestTaskServiceTestSuite runs the test suite
func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
