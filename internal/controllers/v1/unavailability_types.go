package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/models"
	"github.com/staffplan/backend/internal/types"
	sp_uuid "github.com/staffplan/backend/internal/uuid"
)

// UnavailabilityEditable represents all unavailability configurable
// parameters. Unavailability is always declared for the authenticated user.
type UnavailabilityEditable struct {
	Date   types.Date `json:"date" example:"2024-07-01"`
	Reason string     `json:"reason" example:"Dentist appointment"`
}

func (editable UnavailabilityEditable) model() models.Unavailability {
	return models.Unavailability{
		Date:   editable.Date,
		Reason: editable.Reason,
	}
}

type UnavailabilityLinks struct {
	Self string `json:"self" example:"https://example.com/v1/unavailability/2c794686-7ecf-457c-8d53-227f93ffdca4"`
	User string `json:"user" example:"https://example.com/v1/users/ec9e9c4c-d1a3-4cea-ae64-4371568a3d77"`
}

type Unavailability struct {
	models.DefaultModel
	UserID uuid.UUID           `json:"userId" example:"ec9e9c4c-d1a3-4cea-ae64-4371568a3d77"`
	Date   types.Date          `json:"date" example:"2024-07-01"`
	Reason string              `json:"reason" example:"Dentist appointment"`
	Links  UnavailabilityLinks `json:"links"`
}

func newUnavailability(c *gin.Context, model models.Unavailability) Unavailability {
	url := c.GetString(string(models.DBContextURL))

	return Unavailability{
		DefaultModel: model.DefaultModel,
		UserID:       model.UserID,
		Date:         model.Date,
		Reason:       model.Reason,
		Links: UnavailabilityLinks{
			Self: fmt.Sprintf("%s/v1/unavailability/%s", url, model.ID),
			User: fmt.Sprintf("%s/v1/users/%s", url, model.UserID),
		},
	}
}

type UnavailabilityListResponse struct {
	Data  []Unavailability `json:"data"`                                                          // List of unavailabilities
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type UnavailabilityCreateResponse struct {
	Data  []UnavailabilityResponse `json:"data"`                                        // List of created unavailabilities or their respective error
	Error *string                  `json:"error" example:"the request body is invalid"` // The error for the overall request, if any occurred
}

func (u *UnavailabilityCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	u.Data = append(u.Data, UnavailabilityResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type UnavailabilityResponse struct {
	Data  *Unavailability `json:"data"`                                                          // Data for the unavailability
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type UnavailabilityQueryFilter struct {
	UserID sp_uuid.UUID `form:"user" filterField:"false"` // By ID of the user. Requires the "schedule.view_all" permission for other users.
	From   types.Date   `form:"from" filterField:"false"` // Only dates on or after this date
	To     types.Date   `form:"to" filterField:"false"`   // Only dates on or before this date
}
