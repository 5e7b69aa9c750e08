package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staffplan/backend/internal/models"
	sp_uuid "github.com/staffplan/backend/internal/uuid"
)

// LeaveAllocationEditable represents all allocation configurable parameters
type LeaveAllocationEditable struct {
	UserID         uuid.UUID       `json:"userId" example:"ec9e9c4c-d1a3-4cea-ae64-4371568a3d77"`
	LeaveTypeID    uuid.UUID       `json:"leaveTypeId" example:"da2fae26-53e8-4a28-ad83-c7ae4013a27d"`
	Year           int             `json:"year" example:"2024"`
	AllocatedDays  decimal.Decimal `json:"allocatedDays" example:"25"`
	AllocatedHours decimal.Decimal `json:"allocatedHours" example:"0"`
}

type LeaveAllocationLinks struct {
	Self      string `json:"self" example:"https://example.com/v1/leave-allocations/af892e10-7e0a-4f8f-b857-c66f6091a2f0"`
	User      string `json:"user" example:"https://example.com/v1/users/ec9e9c4c-d1a3-4cea-ae64-4371568a3d77"`
	LeaveType string `json:"leaveType" example:"https://example.com/v1/leave-types/da2fae26-53e8-4a28-ad83-c7ae4013a27d"`
}

type LeaveAllocation struct {
	models.DefaultModel
	UserID         uuid.UUID            `json:"userId" example:"ec9e9c4c-d1a3-4cea-ae64-4371568a3d77"`
	LeaveTypeID    uuid.UUID            `json:"leaveTypeId" example:"da2fae26-53e8-4a28-ad83-c7ae4013a27d"`
	Year           int                  `json:"year" example:"2024"`
	AllocatedDays  decimal.Decimal      `json:"allocatedDays" example:"25"`
	UsedDays       decimal.Decimal      `json:"usedDays" example:"5"`
	RemainingDays  decimal.Decimal      `json:"remainingDays" example:"20"`
	AllocatedHours decimal.Decimal      `json:"allocatedHours" example:"0"`
	UsedHours      decimal.Decimal      `json:"usedHours" example:"0"`
	RemainingHours decimal.Decimal      `json:"remainingHours" example:"0"`
	Links          LeaveAllocationLinks `json:"links"`
}

func newLeaveAllocation(c *gin.Context, model models.LeaveAllocation) LeaveAllocation {
	url := c.GetString(string(models.DBContextURL))

	return LeaveAllocation{
		DefaultModel:   model.DefaultModel,
		UserID:         model.UserID,
		LeaveTypeID:    model.LeaveTypeID,
		Year:           model.Year,
		AllocatedDays:  model.AllocatedDays,
		UsedDays:       model.UsedDays,
		RemainingDays:  model.RemainingDays(),
		AllocatedHours: model.AllocatedHours,
		UsedHours:      model.UsedHours,
		RemainingHours: model.RemainingHours(),
		Links: LeaveAllocationLinks{
			Self:      fmt.Sprintf("%s/v1/leave-allocations/%s", url, model.ID),
			User:      fmt.Sprintf("%s/v1/users/%s", url, model.UserID),
			LeaveType: fmt.Sprintf("%s/v1/leave-types/%s", url, model.LeaveTypeID),
		},
	}
}

type LeaveAllocationListResponse struct {
	Data       []LeaveAllocation `json:"data"`                                                          // List of allocations
	Error      *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination       `json:"pagination"`                                                    // Pagination information
}

type LeaveAllocationResponse struct {
	Data  *LeaveAllocation `json:"data"`                                                          // Data for the allocation
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type LeaveAllocationQueryFilter struct {
	UserID      sp_uuid.UUID `form:"user"`                       // By ID of the user
	LeaveTypeID sp_uuid.UUID `form:"leaveType"`                  // By ID of the leave type
	Year        int          `form:"year"`                       // By year
	Offset      uint         `form:"offset" filterField:"false"` // The offset of the first allocation returned. Defaults to 0.
	Limit       int          `form:"limit" filterField:"false"`  // Maximum number of allocations to return. Defaults to 50.
}

func (f LeaveAllocationQueryFilter) model() models.LeaveAllocation {
	return models.LeaveAllocation{
		UserID:      f.UserID.UUID,
		LeaveTypeID: f.LeaveTypeID.UUID,
		Year:        f.Year,
	}
}
