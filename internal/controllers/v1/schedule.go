package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
	"github.com/staffplan/backend/internal/types"
	"golang.org/x/exp/slices"
)

// RegisterScheduleRoutes registers the routes for schedules with
// the RouterGroup that is passed.
func RegisterScheduleRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsScheduleList)
		r.GET("", GetSchedules)
		r.POST("", AssignSchedule)
	}

	// Bulk assignment
	{
		r.OPTIONS("/bulk", OptionsScheduleBulk)
		r.POST("/bulk", BulkAssignSchedules)
	}

	// Schedule with ID
	{
		r.OPTIONS("/:id", OptionsScheduleDetail)
		r.DELETE("/:id", DeleteSchedule)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schedules
// @Success		204
// @Router			/v1/schedules [options]
func OptionsScheduleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schedules
// @Success		204
// @Router			/v1/schedules/bulk [options]
func OptionsScheduleBulk(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schedules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/schedules/{id} [options]
func OptionsScheduleDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Schedule{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsDelete(c)
}

// @Summary		Get schedules
// @Description	Returns the schedules for one month, defaulting to the current month and the authenticated user. With the "schedule.view_all" permission the schedules of other users or of everybody can be read.
// @Tags			Schedules
// @Produce		json
// @Success		200	{object}	ScheduleListResponse
// @Failure		400	{object}	ScheduleListResponse
// @Failure		403	{object}	httpError
// @Failure		500	{object}	ScheduleListResponse
// @Router			/v1/schedules [get]
// @Param			user	query	string	false	"Filter by ID of the user. Requires the \"schedule.view_all\" permission for other users."
// @Param			year	query	int		false	"Year of the month window. Defaults to the current year."
// @Param			month	query	int		false	"Month of the window. Defaults to the current month."
func GetSchedules(c *gin.Context) {
	var filter ScheduleQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	user := currentUser(c)

	// Without "schedule.view_all" users only see their own schedules
	if slices.Contains(setFields, "UserID") && filter.UserID.UUID != user.ID {
		if !requirePermission(c, "schedule.view_all") {
			return
		}
	}

	today := types.Today()

	year := today.Year()
	if slices.Contains(setFields, "Year") {
		year = filter.Year
	}

	month := today.Month()
	if slices.Contains(setFields, "Month") {
		month = time.Month(filter.Month)
	}

	first := types.NewDate(year, month, 1)
	last := types.NewDate(year, month+1, 1).AddDays(-1)

	q := models.DB.
		Order("date ASC").
		Where("date >= ? AND date <= ?", first, last)

	if slices.Contains(setFields, "UserID") {
		q = q.Where("user_id = ?", filter.UserID.UUID)
	} else if !hasPermission(c, "schedule.view_all") {
		q = q.Where("user_id = ?", user.ID)
	}

	var schedules []models.Schedule
	err := q.Find(&schedules).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Schedule, 0)
	for _, schedule := range schedules {
		data = append(data, newSchedule(c, schedule))
	}

	c.JSON(http.StatusOK, ScheduleListResponse{Data: data})
}

// @Summary		Assign schedule
// @Description	Creates or updates the shift for a user and date. An existing shift keeps its identity, only the times and notes are overwritten. The user is notified about newly assigned shifts.
// @Tags			Schedules
// @Accept			json
// @Produce		json
// @Success		200			{object}	ScheduleResponse
// @Success		201			{object}	ScheduleResponse
// @Failure		400			{object}	ScheduleResponse
// @Failure		403			{object}	httpError
// @Failure		404			{object}	ScheduleResponse
// @Failure		500			{object}	ScheduleResponse
// @Param			schedule	body		ScheduleEditable	true	"Schedule"
// @Router			/v1/schedules [post]
func AssignSchedule(c *gin.Context) {
	if !requirePermission(c, "schedule.create") {
		return
	}

	var editable ScheduleEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleResponse{
			Error: &s,
		})
		return
	}

	if editable.Date.IsZero() {
		s := errDateRequired.Error()
		c.JSON(status(errDateRequired), ScheduleResponse{
			Error: &s,
		})
		return
	}

	actor := currentUser(c)

	schedule, created, err := models.UpsertSchedule(models.DB, editable.UserID, editable.Date, editable.StartTime, editable.EndTime, editable.Notes, actor.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleResponse{
			Error: &s,
		})
		return
	}

	action, details := "schedule.update", fmt.Sprintf("Updated shift on %s", schedule.Date)
	responseStatus := http.StatusOK
	if created {
		action, details = "schedule.assign", fmt.Sprintf("Assigned shift on %s", schedule.Date)
		responseStatus = http.StatusCreated
	}
	models.Audit(models.DB, &actor.ID, action, "schedule", &schedule.ID, details, c.ClientIP())

	data := newSchedule(c, schedule)
	c.JSON(responseStatus, ScheduleResponse{Data: &data})
}

// @Summary		Bulk assign schedules
// @Description	Creates shifts for every user on every day in the range whose weekday is in the subset. Days that already have a shift are skipped, existing shifts are never overwritten.
// @Tags			Schedules
// @Accept			json
// @Produce		json
// @Success		200			{object}	ScheduleBulkResponse
// @Failure		400			{object}	ScheduleBulkResponse
// @Failure		403			{object}	httpError
// @Failure		500			{object}	ScheduleBulkResponse
// @Param			assignment	body		ScheduleBulkEditable	true	"Assignment"
// @Router			/v1/schedules/bulk [post]
func BulkAssignSchedules(c *gin.Context) {
	if !requirePermission(c, "schedule.create") {
		return
	}

	var editable ScheduleBulkEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleBulkResponse{
			Error: &s,
		})
		return
	}

	if len(editable.UserIDs) == 0 {
		s := errUserIDsRequired.Error()
		c.JSON(status(errUserIDsRequired), ScheduleBulkResponse{
			Error: &s,
		})
		return
	}

	if editable.From.IsZero() || editable.To.IsZero() {
		s := errDateRangeRequired.Error()
		c.JSON(status(errDateRangeRequired), ScheduleBulkResponse{
			Error: &s,
		})
		return
	}

	actor := currentUser(c)

	created, err := models.BulkAssignSchedules(models.DB, editable.UserIDs, editable.From, editable.To, editable.Weekdays, editable.StartTime, editable.EndTime, editable.Notes, actor.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleBulkResponse{
			Error: &s,
		})
		return
	}

	models.Audit(models.DB, &actor.ID, "schedule.bulk_assign", "schedule", nil, fmt.Sprintf("Bulk assigned %d shifts from %s to %s", created, editable.From, editable.To), c.ClientIP())

	c.JSON(http.StatusOK, ScheduleBulkResponse{Created: created})
}

// @Summary		Delete schedule
// @Description	Deletes a shift
// @Tags			Schedules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/schedules/{id} [delete]
func DeleteSchedule(c *gin.Context) {
	if !requirePermission(c, "schedule.delete") {
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var schedule models.Schedule
	err = models.DB.First(&schedule, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Unscoped().Delete(&schedule).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, "schedule.delete", "schedule", &schedule.ID, fmt.Sprintf("Deleted shift on %s", schedule.Date), c.ClientIP())

	c.JSON(http.StatusNoContent, nil)
}
