package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/calendar"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
	"github.com/staffplan/backend/internal/types"
	sp_uuid "github.com/staffplan/backend/internal/uuid"
	"golang.org/x/exp/slices"
)

type CalendarResponse struct {
	Data  *CalendarData `json:"data"`                                               // Data for the calendar
	Error *string       `json:"error" example:"the month must be between 1 and 12"` // The error, if any occurred
}

// CalendarData is the month grid with all overlays for one user.
type CalendarData struct {
	Year  int             `json:"year" example:"2024"`
	Month int             `json:"month" example:"3"`
	Weeks []calendar.Week `json:"weeks"`
}

type CalendarQueryFilter struct {
	UserID sp_uuid.UUID `form:"user"` // By ID of the user. Requires the "schedule.view_all" permission for other users.
}

// RegisterCalendarRoutes registers the routes for the calendar with
// the RouterGroup that is passed.
func RegisterCalendarRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:year/:month", OptionsCalendar)
	r.GET("/:year/:month", GetCalendar)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Calendar
// @Success		204
// @Failure		400		{object}	httpError
// @Param			year	path		URIYearMonth	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/calendar/{year}/{month} [options]
func OptionsCalendar(c *gin.Context) {
	var uri URIYearMonth
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Get calendar
// @Description	Returns the month grid for one user with the schedule, approved leave, unavailability and restricted day overlays. Weeks start on Monday, cells outside the month are null.
// @Tags			Calendar
// @Produce		json
// @Success		200		{object}	CalendarResponse
// @Failure		400		{object}	CalendarResponse
// @Failure		403		{object}	httpError
// @Failure		500		{object}	CalendarResponse
// @Param			year	path		URIYearMonth	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			user	query		string			false	"ID of the user. Requires the \"schedule.view_all\" permission for other users. Defaults to the authenticated user."
// @Router			/v1/calendar/{year}/{month} [get]
func GetCalendar(c *gin.Context) {
	var uri URIYearMonth
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalendarResponse{
			Error: &s,
		})
		return
	}

	if uri.Month < 1 || uri.Month > 12 {
		s := calendar.ErrInvalidMonth.Error()
		c.JSON(status(calendar.ErrInvalidMonth), CalendarResponse{
			Error: &s,
		})
		return
	}

	var filter CalendarQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)
	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	user := currentUser(c)

	userID := user.ID
	if slices.Contains(setFields, "UserID") && filter.UserID.UUID != user.ID {
		if !requirePermission(c, "schedule.view_all") {
			return
		}

		userID = filter.UserID.UUID
	}

	month := types.NewMonth(uri.Year, time.Month(uri.Month))
	first := month.First()
	last := month.Last()

	var overlays calendar.Overlays

	err = models.DB.Where("user_id = ? AND date >= ? AND date <= ?", userID, first, last).Find(&overlays.Schedules).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalendarResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Where("user_id = ? AND status = ? AND start_date <= ? AND end_date >= ?", userID, models.LeaveRequestStatusApproved, last, first).Find(&overlays.LeaveRequests).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalendarResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Where("user_id = ? AND date >= ? AND date <= ?", userID, first, last).Find(&overlays.Unavailabilities).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalendarResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Where("date >= ? AND date <= ?", first, last).Find(&overlays.RestrictedDays).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalendarResponse{
			Error: &s,
		})
		return
	}

	weeks, err := calendar.Build(uri.Year, uri.Month, overlays)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CalendarResponse{
			Error: &s,
		})
		return
	}

	data := CalendarData{
		Year:  uri.Year,
		Month: uri.Month,
		Weeks: weeks,
	}
	c.JSON(http.StatusOK, CalendarResponse{Data: &data})
}
