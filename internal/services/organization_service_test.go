package services

import (
	"testing"
	"time"

	"github.com/securetask/secure-task-api/internal/models"
	"github.com/securetask/secure-task-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OrganizationServiceTestSuite defines the test suite for OrganizationService
type OrganizationServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *OrganizationService
}

// SetupTest runs before each test
func (suite *OrganizationServiceTestSuite) SetupTest() {
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

	suite.service = NewOrganizationService(repository.NewOrganizationRepository(suite.db))
}

// TearDownTest runs after each test
func (suite *OrganizationServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *OrganizationServiceTestSuite) TestEnsureRootOrganization_Idempotent() {
	first, err := suite.service.EnsureRootOrganization("HQ")
	suite.Require().NoError(err)
	suite.Require().NotEmpty(first.ID)

	second, err := suite.service.EnsureRootOrganization("HQ")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), first.ID, second.ID)

	var count int64
	suite.db.Model(&models.Organization{}).Count(&count)
	assert.EqualValues(suite.T(), 1, count)
}

func (suite *OrganizationServiceTestSuite) TestGetOrganization_NotFound() {
	_, err := suite.service.GetOrganization("no-such-id")
	assert.ErrorIs(suite.T(), err, ErrOrganizationNotFound)
}

func (suite *OrganizationServiceTestSuite) TestListOrganizations_OrderedByCreation() {
	older := &models.Organization{Name: "First", CreatedAt: time.Now().Add(-2 * time.Hour)}
	suite.Require().NoError(suite.db.Create(older).Error)
	newer := &models.Organization{Name: "Second", CreatedAt: time.Now().Add(-1 * time.Hour)}
	suite.Require().NoError(suite.db.Create(newer).Error)

	orgs, err := suite.service.ListOrganizations()
	suite.Require().NoError(err)

	suite.Require().Len(orgs, 2)
	assert.Equal(suite.T(), "First", orgs[0].Name)
	assert.Equal(suite.T(), "Second", orgs[1].Name)
}

func (suite *OrganizationServiceTestSuite) TestListOrganizations_PreloadsParent() {
	parent := &models.Organization{Name: "Parent", CreatedAt: time.Now().Add(-2 * time.Hour)}
	suite.Require().NoError(suite.db.Create(parent).Error)
	child := &models.Organization{Name: "Child", ParentID: &parent.ID, CreatedAt: time.Now().Add(-1 * time.Hour)}
	suite.Require().NoError(suite.db.Create(child).Error)

	orgs, err := suite.service.ListOrganizations()
	suite.Require().NoError(err)

	suite.Require().Len(orgs, 2)
	suite.Require().NotNil(orgs[1].ParentID)
	assert.Equal(suite.T(), parent.ID, *orgs[1].ParentID)
	suite.Require().NotNil(orgs[1].Parent)
	assert.Equal(suite.T(), "Parent", orgs[1].Parent.Name)
}

// TestOrganizationServiceTestSuite runs the test suite
func TestOrganizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceTestSuite))
}
