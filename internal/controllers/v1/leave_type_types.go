package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/models"
	"gorm.io/gorm"
)

// LeaveTypeEditable represents all leave type configurable parameters
type LeaveTypeEditable struct {
	Name             string `json:"name" example:"Parental Leave"`
	Description      string `json:"description" example:"Paid leave for new parents"`
	Color            string `json:"color" example:"#F59E0B"`
	Paid             bool   `json:"paid" example:"true"`
	RequiresApproval bool   `json:"requiresApproval" example:"true"`
	Active           *bool  `json:"active" example:"true"` // Defaults to true on creation
}

func (editable LeaveTypeEditable) model() models.LeaveType {
	active := true
	if editable.Active != nil {
		active = *editable.Active
	}

	return models.LeaveType{
		Name:             editable.Name,
		Description:      editable.Description,
		Color:            editable.Color,
		Paid:             editable.Paid,
		RequiresApproval: editable.RequiresApproval,
		Active:           active,
	}
}

type LeaveTypeLinks struct {
	Self        string `json:"self" example:"https://example.com/v1/leave-types/af892e10-7e0a-4f8f-b857-c66f6091a2f0"`
	Requests    string `json:"requests" example:"https://example.com/v1/leave-requests?leaveType=af892e10-7e0a-4f8f-b857-c66f6091a2f0"`
	Allocations string `json:"allocations" example:"https://example.com/v1/leave-allocations?leaveType=af892e10-7e0a-4f8f-b857-c66f6091a2f0"`
}

type LeaveType struct {
	models.DefaultModel
	Name             string         `json:"name" example:"Parental Leave"`
	Description      string         `json:"description" example:"Paid leave for new parents"`
	Color            string         `json:"color" example:"#F59E0B"`
	Paid             bool           `json:"paid" example:"true"`
	RequiresApproval bool           `json:"requiresApproval" example:"true"`
	Active           bool           `json:"active" example:"true"`
	Links            LeaveTypeLinks `json:"links"`
}

func newLeaveType(c *gin.Context, model models.LeaveType) LeaveType {
	url := c.GetString(string(models.DBContextURL))

	return LeaveType{
		DefaultModel:     model.DefaultModel,
		Name:             model.Name,
		Description:      model.Description,
		Color:            model.Color,
		Paid:             model.Paid,
		RequiresApproval: model.RequiresApproval,
		Active:           model.Active,
		Links: LeaveTypeLinks{
			Self:        fmt.Sprintf("%s/v1/leave-types/%s", url, model.ID),
			Requests:    fmt.Sprintf("%s/v1/leave-requests?leaveType=%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/leave-allocations?leaveType=%s", url, model.ID),
		},
	}
}

type LeaveTypeListResponse struct {
	Data       []LeaveType `json:"data"`                                                          // List of leave types
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type LeaveTypeCreateResponse struct {
	Data  []LeaveTypeResponse `json:"data"`                                                          // List of the created leave types or their respective error
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (l *LeaveTypeCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	l.Data = append(l.Data, LeaveTypeResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type LeaveTypeResponse struct {
	Data  *LeaveType `json:"data"`                                                          // Data for the leave type
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type LeaveTypeQueryFilter struct {
	Name   string `form:"name"`                       // By exact name
	Paid   bool   `form:"paid"`                       // Is the leave paid?
	Active bool   `form:"active"`                     // Is the leave type active?
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first leave type returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of leave types to return. Defaults to 50.
}

func (f LeaveTypeQueryFilter) model() models.LeaveType {
	return models.LeaveType{
		Name:   f.Name,
		Paid:   f.Paid,
		Active: f.Active,
	}
}
