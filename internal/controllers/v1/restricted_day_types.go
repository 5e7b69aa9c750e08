package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/models"
	"github.com/staffplan/backend/internal/types"
)

// RestrictedDayEditable represents all restricted day configurable parameters
type RestrictedDayEditable struct {
	Date   types.Date `json:"date" example:"2024-12-24"`
	Reason string     `json:"reason" example:"Inventory day"`
}

func (editable RestrictedDayEditable) model() models.RestrictedDay {
	return models.RestrictedDay{
		Date:   editable.Date,
		Reason: editable.Reason,
	}
}

type RestrictedDayLinks struct {
	Self string `json:"self" example:"https://example.com/v1/restricted-days/589fb052-db67-4c08-8edb-07fb6115b039"`
}

type RestrictedDay struct {
	models.DefaultModel
	Date      types.Date         `json:"date" example:"2024-12-24"`
	Reason    string             `json:"reason" example:"Inventory day"`
	CreatedBy uuid.UUID          `json:"createdBy"`
	Links     RestrictedDayLinks `json:"links"`
}

func newRestrictedDay(c *gin.Context, model models.RestrictedDay) RestrictedDay {
	url := c.GetString(string(models.DBContextURL))

	return RestrictedDay{
		DefaultModel: model.DefaultModel,
		Date:         model.Date,
		Reason:       model.Reason,
		CreatedBy:    model.CreatedBy,
		Links: RestrictedDayLinks{
			Self: fmt.Sprintf("%s/v1/restricted-days/%s", url, model.ID),
		},
	}
}

type RestrictedDayListResponse struct {
	Data  []RestrictedDay `json:"data"`                                                          // List of restricted days
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type RestrictedDayCreateResponse struct {
	Data  []RestrictedDayResponse `json:"data"`                                        // List of created restricted days or their respective error
	Error *string                 `json:"error" example:"the request body is invalid"` // The error for the overall request, if any occurred
}

func (r *RestrictedDayCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, RestrictedDayResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type RestrictedDayResponse struct {
	Data  *RestrictedDay `json:"data"`                                                          // Data for the restricted day
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type RestrictedDayQueryFilter struct {
	Year int        `form:"year" filterField:"false"` // By year
	From types.Date `form:"from" filterField:"false"` // Only dates on or after this date
	To   types.Date `form:"to" filterField:"false"`   // Only dates on or before this date
}
