package services

import (
	"context"
	"errors"
	"testing"

	"laine/internal/common"
	"laine/internal/models"
	"laine/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type PracticeServiceTestSuite struct {
	suite.Suite
	repo      *memoryPracticeRepo
	directory *MockDirectoryService
	service   PracticeService
	ctx       context.Context
}

func (suite *PracticeServiceTestSuite) SetupTest() {
	suite.repo = newMemoryPracticeRepo()
	suite.directory = &MockDirectoryService{}
	suite.directory.Test(suite.T())
	suite.service = NewPracticeService(suite.repo, suite.directory, zap.NewNop())
	suite.ctx = context.Background()
}

func (suite *PracticeServiceTestSuite) TearDownTest() {
	suite.directory.AssertExpectations(suite.T())
}

func TestPracticeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PracticeServiceTestSuite))
}

func (suite *PracticeServiceTestSuite) onboard(name string) *OnboardingResult {
	suite.directory.On("CreateOrganization", suite.ctx, name, "user_1").
		Return(&models.Organization{ID: "org_acme", Name: name}, nil).Once()

	form := models.NewDefaultPracticeForm()
	form.Name = name
	result, err := suite.service.CompleteOnboarding(suite.ctx, "user_1", form)
	require.NoError(suite.T(), err)
	return result
}

func (suite *PracticeServiceTestSuite) TestOnboardThenUpdateTone() {
	result := suite.onboard("Acme Dental")
	assert.Equal(suite.T(), "org_acme", result.OrganizationID)
	assert.Equal(suite.T(), "org_acme", result.Practice.ClerkOrganizationID)

	stored, err := suite.service.GetByOrganization(suite.ctx, "org_acme")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme Dental", stored.Name)
	assert.Equal(suite.T(), "warm, professional, human", stored.Tone)

	form := models.PracticeFormFromRecord(stored)
	form.Tone = "calm"
	_, err = suite.service.UpdateSettings(suite.ctx, "org_acme", form)
	require.NoError(suite.T(), err)

	reloaded, err := suite.service.GetByOrganization(suite.ctx, "org_acme")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "calm", reloaded.Tone)
	assert.Equal(suite.T(), "Acme Dental", reloaded.Name)
	assert.Equal(suite.T(), stored.ID, reloaded.ID)
}

func (suite *PracticeServiceTestSuite) TestUpdateClearsBlankFields() {
	suite.onboard("Acme Dental")

	form := models.NewDefaultPracticeForm()
	form.Name = "Acme Dental"
	form.Doctors = "Dr. Smith"
	form.City = "Austin"
	_, err := suite.service.UpdateSettings(suite.ctx, "org_acme", form)
	require.NoError(suite.T(), err)

	form.Doctors = ""
	form.City = ""
	updated, err := suite.service.UpdateSettings(suite.ctx, "org_acme", form)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), updated.Doctors)
	assert.Nil(suite.T(), updated.City)
}

func (suite *PracticeServiceTestSuite) TestCompleteOnboarding_Validation() {
	_, err := suite.service.CompleteOnboarding(suite.ctx, "user_1", models.NewDefaultPracticeForm())

	var vErr *common.ValidationError
	require.True(suite.T(), errors.As(err, &vErr))
	assert.Equal(suite.T(), "name", vErr.Field)
	suite.directory.AssertNotCalled(suite.T(), "CreateOrganization", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PracticeServiceTestSuite) TestCompleteOnboarding_RequiresUser() {
	form := models.NewDefaultPracticeForm()
	form.Name = "Acme Dental"
	_, err := suite.service.CompleteOnboarding(suite.ctx, "", form)
	assert.ErrorIs(suite.T(), err, ErrUserRequired)
}

func (suite *PracticeServiceTestSuite) TestCompleteOnboarding_DirectoryFailure() {
	suite.directory.On("CreateOrganization", suite.ctx, "Acme Dental", "user_1").
		Return(nil, &ProviderError{Provider: "clerk", StatusCode: 422, Message: "name taken"})

	form := models.NewDefaultPracticeForm()
	form.Name = "Acme Dental"
	_, err := suite.service.CompleteOnboarding(suite.ctx, "user_1", form)

	var pe *ProviderError
	require.True(suite.T(), errors.As(err, &pe))
	assert.Equal(suite.T(), 422, pe.StatusCode)
	_, getErr := suite.repo.GetByOrganizationID(suite.ctx, "org_acme")
	assert.ErrorIs(suite.T(), getErr, repositories.ErrPracticeNotFound)
}

func (suite *PracticeServiceTestSuite) TestCompleteOnboarding_TrimsName() {
	suite.directory.On("CreateOrganization", suite.ctx, "Acme Dental", "user_1").
		Return(&models.Organization{ID: "org_trim", Name: "Acme Dental"}, nil)

	form := models.NewDefaultPracticeForm()
	form.Name = "  Acme Dental  "
	result, err := suite.service.CompleteOnboarding(suite.ctx, "user_1", form)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme Dental", result.Practice.Name)

	stored, err := suite.repo.GetByOrganizationID(suite.ctx, "org_trim")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme Dental", stored.Name)
}

func (suite *PracticeServiceTestSuite) TestCompleteOnboarding_PracticeExists() {
	suite.onboard("Acme Dental")

	suite.directory.On("CreateOrganization", suite.ctx, "Acme Dental", "user_1").
		Return(&models.Organization{ID: "org_acme"}, nil).Once()
	form := models.NewDefaultPracticeForm()
	form.Name = "Acme Dental"
	_, err := suite.service.CompleteOnboarding(suite.ctx, "user_1", form)
	assert.ErrorIs(suite.T(), err, repositories.ErrPracticeExists)
}

func (suite *PracticeServiceTestSuite) TestUpdateSettings_NotFound() {
	form := models.NewDefaultPracticeForm()
	form.Name = "Nowhere Dental"
	_, err := suite.service.UpdateSettings(suite.ctx, "org_missing", form)
	assert.ErrorIs(suite.T(), err, repositories.ErrPracticeNotFound)
}
