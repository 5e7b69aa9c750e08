package models_test

import (
	"time"

	"github.com/staffplan/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestTaskTitleRequired() {
	user := suite.createTestUser(models.User{})

	err := models.DB.Create(&models.Task{Title: "  ", AssignedBy: user.ID}).Error
	assert.ErrorIs(suite.T(), err, models.ErrTaskTitleRequired)
}

func (suite *TestSuiteStandard) TestTaskDefaults() {
	user := suite.createTestUser(models.User{})

	task := suite.createTestTask(models.Task{AssignedBy: user.ID})
	assert.Equal(suite.T(), models.TaskStatusPending, task.Status)
	assert.Equal(suite.T(), models.TaskPriorityMedium, task.Priority)
	assert.Nil(suite.T(), task.CompletedAt)
}

func (suite *TestSuiteStandard) TestTaskValidation() {
	user := suite.createTestUser(models.User{})

	err := models.DB.Create(&models.Task{Title: "Restock", AssignedBy: user.ID, Status: "done"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrTaskStatusInvalid)

	err = models.DB.Create(&models.Task{Title: "Restock", AssignedBy: user.ID, Priority: "asap"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrTaskPriorityInvalid)

	err = models.DB.Create(&models.Task{Title: "Restock", AssignedBy: user.ID, DueTime: "25:00"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrTaskTimeInvalid)

	err = models.DB.Create(&models.Task{Title: "Restock", AssignedBy: user.ID, DueTime: "09:30"}).Error
	assert.Nil(suite.T(), err)
}

func (suite *TestSuiteStandard) TestTaskUpdateStatus() {
	user := suite.createTestUser(models.User{})
	task := suite.createTestTask(models.Task{AssignedBy: user.ID})

	require.Nil(suite.T(), task.UpdateStatus(models.DB, models.TaskStatusCompleted))
	assert.Equal(suite.T(), models.TaskStatusCompleted, task.Status)
	require.NotNil(suite.T(), task.CompletedAt)

	var reloaded models.Task
	require.Nil(suite.T(), models.DB.First(&reloaded, task.ID).Error)
	assert.Equal(suite.T(), models.TaskStatusCompleted, reloaded.Status)
	assert.NotNil(suite.T(), reloaded.CompletedAt)

	// Reopening the task clears the completion time
	require.Nil(suite.T(), task.UpdateStatus(models.DB, models.TaskStatusInProgress))
	assert.Nil(suite.T(), task.CompletedAt)

	require.Nil(suite.T(), models.DB.First(&reloaded, task.ID).Error)
	assert.Nil(suite.T(), reloaded.CompletedAt)
}

func (suite *TestSuiteStandard) TestTaskUpdateStatusCompletedTwice() {
	user := suite.createTestUser(models.User{})
	task := suite.createTestTask(models.Task{AssignedBy: user.ID})

	require.Nil(suite.T(), task.UpdateStatus(models.DB, models.TaskStatusCompleted))
	first := *task.CompletedAt

	time.Sleep(10 * time.Millisecond)
	require.Nil(suite.T(), task.UpdateStatus(models.DB, models.TaskStatusCompleted))

	// The first completion time survives
	assert.Equal(suite.T(), first, *task.CompletedAt)
}

func (suite *TestSuiteStandard) TestTaskUpdateStatusInvalid() {
	user := suite.createTestUser(models.User{})
	task := suite.createTestTask(models.Task{AssignedBy: user.ID})

	err := task.UpdateStatus(models.DB, "done")
	assert.ErrorIs(suite.T(), err, models.ErrTaskStatusInvalid)
	assert.Equal(suite.T(), models.TaskStatusPending, task.Status)
}
