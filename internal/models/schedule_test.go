package models_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/models"
	"github.com/staffplan/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestScheduleInvalidTime() {
	user := suite.createTestUser(models.User{})

	for _, tt := range []struct{ start, end string }{
		{"9:00", "17:00"},
		{"09:00", "24:00"},
		{"09:60", "17:00"},
		{"nine", "seventeen"},
	} {
		err := models.DB.Create(&models.Schedule{
			UserID:    user.ID,
			Date:      types.NewDate(2024, time.March, 4),
			StartTime: tt.start,
			EndTime:   tt.end,
		}).Error
		assert.ErrorIs(suite.T(), err, models.ErrScheduleInvalidTime, "Times %q to %q should be rejected", tt.start, tt.end)
	}
}

func (suite *TestSuiteStandard) TestScheduleNotUnique() {
	user := suite.createTestUser(models.User{})
	date := types.NewDate(2024, time.March, 4)

	_ = suite.createTestSchedule(models.Schedule{UserID: user.ID, Date: date})

	err := models.DB.Create(&models.Schedule{UserID: user.ID, Date: date, StartTime: "10:00", EndTime: "18:00"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrScheduleNotUnique)

	// The same date for another user is fine
	other := suite.createTestUser(models.User{})
	err = models.DB.Create(&models.Schedule{UserID: other.ID, Date: date, StartTime: "10:00", EndTime: "18:00"}).Error
	assert.Nil(suite.T(), err)
}

func (suite *TestSuiteStandard) TestScheduleUnknownUser() {
	err := models.DB.Create(&models.Schedule{
		UserID:    uuid.New(),
		Date:      types.NewDate(2024, time.March, 4),
		StartTime: "09:00",
		EndTime:   "17:00",
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestUpsertSchedule() {
	user := suite.createTestUser(models.User{})
	manager := suite.createTestUser(models.User{})
	other := suite.createTestUser(models.User{})
	date := types.NewDate(2024, time.March, 4)

	schedule, created, err := models.UpsertSchedule(models.DB, user.ID, date, "09:00", "17:00", "Opening shift", manager.ID)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), created)
	assert.Equal(suite.T(), manager.ID, schedule.CreatedBy)
	assert.Equal(suite.T(), int64(1), suite.notificationCount(user.ID, "New Shift Assigned"))

	updated, created, err := models.UpsertSchedule(models.DB, user.ID, date, "12:00", "20:00", "", other.ID)
	require.Nil(suite.T(), err)
	assert.False(suite.T(), created)

	// The row keeps its identity and creator
	assert.Equal(suite.T(), schedule.ID, updated.ID)

	var reloaded models.Schedule
	require.Nil(suite.T(), models.DB.First(&reloaded, schedule.ID).Error)
	assert.Equal(suite.T(), "12:00", reloaded.StartTime)
	assert.Equal(suite.T(), "20:00", reloaded.EndTime)
	assert.Equal(suite.T(), manager.ID, reloaded.CreatedBy)

	// Changing an existing shift does not notify again
	assert.Equal(suite.T(), int64(1), suite.notificationCount(user.ID, "New Shift Assigned"))
}

func (suite *TestSuiteStandard) TestBulkAssignSchedules() {
	first := suite.createTestUser(models.User{})
	second := suite.createTestUser(models.User{})
	manager := suite.createTestUser(models.User{})

	// Monday to Sunday
	from := types.NewDate(2024, time.March, 4)
	to := types.NewDate(2024, time.March, 10)
	weekdays := []time.Weekday{time.Monday, time.Wednesday, time.Friday}

	// An existing shift on the Wednesday is skipped
	existing := suite.createTestSchedule(models.Schedule{
		UserID:    first.ID,
		Date:      types.NewDate(2024, time.March, 6),
		StartTime: "07:00",
		EndTime:   "15:00",
	})

	created, err := models.BulkAssignSchedules(models.DB, []uuid.UUID{first.ID, second.ID}, from, to, weekdays, "09:00", "17:00", "", manager.ID)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), 5, created)

	var reloaded models.Schedule
	require.Nil(suite.T(), models.DB.First(&reloaded, existing.ID).Error)
	assert.Equal(suite.T(), "07:00", reloaded.StartTime)

	assert.Equal(suite.T(), int64(1), suite.notificationCount(first.ID, "New Shifts Assigned"))
	assert.Equal(suite.T(), int64(1), suite.notificationCount(second.ID, "New Shifts Assigned"))

	// A second run finds every day taken and stays quiet
	created, err = models.BulkAssignSchedules(models.DB, []uuid.UUID{first.ID, second.ID}, from, to, weekdays, "09:00", "17:00", "", manager.ID)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), 0, created)
	assert.Equal(suite.T(), int64(1), suite.notificationCount(first.ID, "New Shifts Assigned"))
}

func (suite *TestSuiteStandard) TestBulkAssignSchedulesEmpty() {
	user := suite.createTestUser(models.User{})
	manager := suite.createTestUser(models.User{})

	created, err := models.BulkAssignSchedules(models.DB, []uuid.UUID{user.ID},
		types.NewDate(2024, time.March, 4), types.NewDate(2024, time.March, 10),
		[]time.Weekday{}, "09:00", "17:00", "", manager.ID)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), 0, created)

	// A range that ends before it starts selects no days
	created, err = models.BulkAssignSchedules(models.DB, []uuid.UUID{user.ID},
		types.NewDate(2024, time.March, 10), types.NewDate(2024, time.March, 4),
		[]time.Weekday{time.Monday}, "09:00", "17:00", "", manager.ID)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), 0, created)

	assert.Equal(suite.T(), int64(0), suite.notificationCount(user.ID, ""))
}

func (suite *TestSuiteStandard) TestBulkAssignSchedulesUnknownUser() {
	_, err := models.BulkAssignSchedules(models.DB, []uuid.UUID{uuid.New()},
		types.NewDate(2024, time.March, 4), types.NewDate(2024, time.March, 4),
		[]time.Weekday{time.Monday}, "09:00", "17:00", "", uuid.New())
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}
