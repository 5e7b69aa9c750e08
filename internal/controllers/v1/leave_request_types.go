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

// LeaveRequestEditable represents all leave request parameters that the
// requester can set
type LeaveRequestEditable struct {
	LeaveTypeID uuid.UUID  `json:"leaveTypeId" example:"da2fae26-53e8-4a28-ad83-c7ae4013a27d"`
	StartDate   types.Date `json:"startDate" example:"2024-07-01"`
	EndDate     types.Date `json:"endDate" example:"2024-07-05"`
	Reason      string     `json:"reason" example:"Family visit"`
}

func (editable LeaveRequestEditable) model() models.LeaveRequest {
	return models.LeaveRequest{
		LeaveTypeID: editable.LeaveTypeID,
		StartDate:   editable.StartDate,
		EndDate:     editable.EndDate,
		Reason:      editable.Reason,
	}
}

// LeaveRequestReviewEditable represents the parameters a reviewer can set
// when approving or rejecting a leave request
type LeaveRequestReviewEditable struct {
	Notes string `json:"notes" example:"Enjoy!"`
}

type LeaveRequestLinks struct {
	Self      string `json:"self" example:"https://example.com/v1/leave-requests/68e4cdff-2f19-4a57-9548-bd0478804c4e"`
	User      string `json:"user" example:"https://example.com/v1/users/ec9e9c4c-d1a3-4cea-ae64-4371568a3d77"`
	LeaveType string `json:"leaveType" example:"https://example.com/v1/leave-types/da2fae26-53e8-4a28-ad83-c7ae4013a27d"`
}

type LeaveRequest struct {
	models.DefaultModel
	UserID      uuid.UUID         `json:"userId" example:"ec9e9c4c-d1a3-4cea-ae64-4371568a3d77"`
	LeaveTypeID uuid.UUID         `json:"leaveTypeId" example:"da2fae26-53e8-4a28-ad83-c7ae4013a27d"`
	StartDate   types.Date        `json:"startDate" example:"2024-07-01"`
	EndDate     types.Date        `json:"endDate" example:"2024-07-05"`
	DaysCount   int               `json:"daysCount" example:"5"`
	Reason      string            `json:"reason" example:"Family visit"`
	Status      string            `json:"status" example:"pending"`
	ReviewedBy  *uuid.UUID        `json:"reviewedBy"`
	ReviewedAt  *time.Time        `json:"reviewedAt"`
	ReviewNotes string            `json:"reviewNotes" example:"Enjoy!"`
	Links       LeaveRequestLinks `json:"links"`
}

func newLeaveRequest(c *gin.Context, model models.LeaveRequest) LeaveRequest {
	url := c.GetString(string(models.DBContextURL))

	return LeaveRequest{
		DefaultModel: model.DefaultModel,
		UserID:       model.UserID,
		LeaveTypeID:  model.LeaveTypeID,
		StartDate:    model.StartDate,
		EndDate:      model.EndDate,
		DaysCount:    model.DaysCount,
		Reason:       model.Reason,
		Status:       model.Status,
		ReviewedBy:   model.ReviewedBy,
		ReviewedAt:   model.ReviewedAt,
		ReviewNotes:  model.ReviewNotes,
		Links: LeaveRequestLinks{
			Self:      fmt.Sprintf("%s/v1/leave-requests/%s", url, model.ID),
			User:      fmt.Sprintf("%s/v1/users/%s", url, model.UserID),
			LeaveType: fmt.Sprintf("%s/v1/leave-types/%s", url, model.LeaveTypeID),
		},
	}
}

type LeaveRequestListResponse struct {
	Data       []LeaveRequest `json:"data"`                                                          // List of leave requests
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                                                    // Pagination information
}

type LeaveRequestCreateResponse struct {
	Data     *LeaveRequest `json:"data"`                                                                        // The created leave request
	Warnings []string      `json:"warnings" example:"The requested range contains restricted days: 24/12/2024"` // Advisory warnings that did not block the submission
	Error    *string       `json:"error" example:"this leave type is not active"`                               // The error, if any occurred
}

type LeaveRequestResponse struct {
	Data  *LeaveRequest `json:"data"`                                                          // Data for the leave request
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type LeaveRequestQueryFilter struct {
	UserID      sp_uuid.UUID `form:"user"`                       // By ID of the user
	LeaveTypeID sp_uuid.UUID `form:"leaveType"`                  // By ID of the leave type
	Status      string       `form:"status"`                     // By status
	Year        int          `form:"year" filterField:"false"`   // By year of the start date
	Offset      uint         `form:"offset" filterField:"false"` // The offset of the first leave request returned. Defaults to 0.
	Limit       int          `form:"limit" filterField:"false"`  // Maximum number of leave requests to return. Defaults to 50.
}

func (f LeaveRequestQueryFilter) model() models.LeaveRequest {
	return models.LeaveRequest{
		UserID:      f.UserID.UUID,
		LeaveTypeID: f.LeaveTypeID.UUID,
		Status:      f.Status,
	}
}
