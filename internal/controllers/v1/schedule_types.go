package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/models"
	"github.com/staffplan/backend/internal/types"
	sp_uuid "github.com/staffplan/backend/internal/uuid"
)

// ScheduleEditable represents all schedule configurable parameters
type ScheduleEditable struct {
	UserID    uuid.UUID  `json:"userId" example:"ec9e9c4c-d1a3-4cea-ae64-4371568a3d77"`
	Date      types.Date `json:"date" example:"2024-07-01"`
	StartTime string     `json:"startTime" example:"09:00"`
	EndTime   string     `json:"endTime" example:"17:00"`
	Notes     string     `json:"notes" example:"Front desk"`
}

// ScheduleBulkEditable represents the parameters of a bulk assignment.
// Weekdays uses Go's numbering, 0 is Sunday.
type ScheduleBulkEditable struct {
	UserIDs   []uuid.UUID    `json:"userIds"`
	From      types.Date     `json:"from" example:"2024-07-01"`
	To        types.Date     `json:"to" example:"2024-07-31"`
	Weekdays  []time.Weekday `json:"weekdays" example:"1,3,5"`
	StartTime string         `json:"startTime" example:"09:00"`
	EndTime   string         `json:"endTime" example:"17:00"`
	Notes     string         `json:"notes" example:""`
}

type ScheduleLinks struct {
	Self string `json:"self" example:"https://example.com/v1/schedules/3a9c2b44-05c1-4b4b-a258-6eb9e8f87b50"`
	User string `json:"user" example:"https://example.com/v1/users/ec9e9c4c-d1a3-4cea-ae64-4371568a3d77"`
}

type Schedule struct {
	models.DefaultModel
	UserID    uuid.UUID     `json:"userId" example:"ec9e9c4c-d1a3-4cea-ae64-4371568a3d77"`
	Date      types.Date    `json:"date" example:"2024-07-01"`
	StartTime string        `json:"startTime" example:"09:00"`
	EndTime   string        `json:"endTime" example:"17:00"`
	Notes     string        `json:"notes" example:"Front desk"`
	CreatedBy uuid.UUID     `json:"createdBy"`
	Links     ScheduleLinks `json:"links"`
}

func newSchedule(c *gin.Context, model models.Schedule) Schedule {
	url := c.GetString(string(models.DBContextURL))

	return Schedule{
		DefaultModel: model.DefaultModel,
		UserID:       model.UserID,
		Date:         model.Date,
		StartTime:    model.StartTime,
		EndTime:      model.EndTime,
		Notes:        model.Notes,
		CreatedBy:    model.CreatedBy,
		Links: ScheduleLinks{
			Self: fmt.Sprintf("%s/v1/schedules/%s", url, model.ID),
			User: fmt.Sprintf("%s/v1/users/%s", url, model.UserID),
		},
	}
}

type ScheduleListResponse struct {
	Data  []Schedule `json:"data"`                                                          // List of schedules
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ScheduleResponse struct {
	Data  *Schedule `json:"data"`                                                          // Data for the schedule
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ScheduleBulkResponse struct {
	Created int     `json:"created" example:"12"`                              // Number of schedules that were created
	Error   *string `json:"error" example:"the userIds parameter must be set"` // The error, if any occurred
}

type ScheduleQueryFilter struct {
	UserID sp_uuid.UUID `form:"user"`  // By ID of the user. Requires the "schedule.view_all" permission for other users.
	Year   int          `form:"year"`  // Year of the month window. Defaults to the current year.
	Month  int          `form:"month"` // Month of the window. Defaults to the current month.
}
