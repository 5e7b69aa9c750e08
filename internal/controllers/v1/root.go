package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
)

func RegisterRootRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.OPTIONS("", Options)
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Auth                string `json:"auth" example:"https://example.com/v1/auth"`
	Users               string `json:"users" example:"https://example.com/v1/users"`
	Roles               string `json:"roles" example:"https://example.com/v1/roles"`
	Permissions         string `json:"permissions" example:"https://example.com/v1/permissions"`
	LeaveTypes          string `json:"leaveTypes" example:"https://example.com/v1/leave-types"`
	LeaveAllocations    string `json:"leaveAllocations" example:"https://example.com/v1/leave-allocations"`
	LeaveRequests       string `json:"leaveRequests" example:"https://example.com/v1/leave-requests"`
	Schedules           string `json:"schedules" example:"https://example.com/v1/schedules"`
	Calendar            string `json:"calendar" example:"https://example.com/v1/calendar"`
	RestrictedDays      string `json:"restrictedDays" example:"https://example.com/v1/restricted-days"`
	Unavailability      string `json:"unavailability" example:"https://example.com/v1/unavailability"`
	Notifications       string `json:"notifications" example:"https://example.com/v1/notifications"`
	Tasks               string `json:"tasks" example:"https://example.com/v1/tasks"`
	Board               string `json:"board" example:"https://example.com/v1/board"`
	MonthlyRequirements string `json:"monthlyRequirements" example:"https://example.com/v1/monthly-requirements"`
	License             string `json:"license" example:"https://example.com/v1/license"`
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Auth:                url + "/v1/auth",
			Users:               url + "/v1/users",
			Roles:               url + "/v1/roles",
			Permissions:         url + "/v1/permissions",
			LeaveTypes:          url + "/v1/leave-types",
			LeaveAllocations:    url + "/v1/leave-allocations",
			LeaveRequests:       url + "/v1/leave-requests",
			Schedules:           url + "/v1/schedules",
			Calendar:            url + "/v1/calendar",
			RestrictedDays:      url + "/v1/restricted-days",
			Unavailability:      url + "/v1/unavailability",
			Notifications:       url + "/v1/notifications",
			Tasks:               url + "/v1/tasks",
			Board:               url + "/v1/board",
			MonthlyRequirements: url + "/v1/monthly-requirements",
			License:             url + "/v1/license",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
