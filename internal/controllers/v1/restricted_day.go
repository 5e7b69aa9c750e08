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

// RegisterRestrictedDayRoutes registers the routes for restricted days with
// the RouterGroup that is passed.
func RegisterRestrictedDayRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsRestrictedDayList)
		r.GET("", GetRestrictedDays)
		r.POST("", CreateRestrictedDays)
	}

	// Restricted day with ID
	{
		r.OPTIONS("/:id", OptionsRestrictedDayDetail)
		r.GET("/:id", GetRestrictedDay)
		r.DELETE("/:id", DeleteRestrictedDay)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			RestrictedDays
// @Success		204
// @Router			/v1/restricted-days [options]
func OptionsRestrictedDayList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			RestrictedDays
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/restricted-days/{id} [options]
func OptionsRestrictedDayDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.RestrictedDay{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		Create restricted days
// @Description	Marks one or more dates as restricted for leave requests
// @Tags			RestrictedDays
// @Accept			json
// @Produce		json
// @Success		201		{object}	RestrictedDayCreateResponse
// @Failure		400		{object}	RestrictedDayCreateResponse
// @Failure		403		{object}	httpError
// @Failure		500		{object}	RestrictedDayCreateResponse
// @Param			days	body		[]RestrictedDayEditable	true	"Restricted days"
// @Router			/v1/restricted-days [post]
func CreateRestrictedDays(c *gin.Context) {
	if !requirePermission(c, "management.restricted") {
		return
	}

	var editables []RestrictedDayEditable
	err := httputil.BindData(c, &editables)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RestrictedDayCreateResponse{
			Error: &s,
		})
		return
	}

	actor := currentUser(c)

	// The final response we return
	response := RestrictedDayCreateResponse{}

	// The final status we return
	responseStatus := http.StatusCreated

	for _, editable := range editables {
		day := editable.model()
		day.CreatedBy = actor.ID

		err := models.DB.Create(&day).Error
		if err != nil {
			responseStatus = response.appendError(err, responseStatus)
			continue
		}

		models.Audit(models.DB, &actor.ID, "restricted_day.create", "restricted_day", &day.ID, fmt.Sprintf("Restricted %s", day.Date), c.ClientIP())

		data := newRestrictedDay(c, day)
		response.Data = append(response.Data, RestrictedDayResponse{Data: &data})
	}

	c.JSON(responseStatus, response)
}

// @Summary		Get restricted days
// @Description	Returns all restricted days
// @Tags			RestrictedDays
// @Produce		json
// @Success		200	{object}	RestrictedDayListResponse
// @Failure		400	{object}	RestrictedDayListResponse
// @Failure		500	{object}	RestrictedDayListResponse
// @Router			/v1/restricted-days [get]
// @Param			year	query	int		false	"Filter by year"
// @Param			from	query	string	false	"Only days on or after this date (YYYY-MM-DD)"
// @Param			to		query	string	false	"Only days on or before this date (YYYY-MM-DD)"
func GetRestrictedDays(c *gin.Context) {
	var filter RestrictedDayQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.Order("date ASC")

	if slices.Contains(setFields, "Year") {
		q = q.Where("date >= ? AND date <= ?", types.NewDate(filter.Year, time.January, 1), types.NewDate(filter.Year, time.December, 31))
	}

	if slices.Contains(setFields, "From") {
		q = q.Where("date >= ?", filter.From)
	}

	if slices.Contains(setFields, "To") {
		q = q.Where("date <= ?", filter.To)
	}

	var days []models.RestrictedDay
	err := q.Find(&days).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RestrictedDayListResponse{
			Error: &s,
		})
		return
	}

	data := make([]RestrictedDay, 0)
	for _, day := range days {
		data = append(data, newRestrictedDay(c, day))
	}

	c.JSON(http.StatusOK, RestrictedDayListResponse{Data: data})
}

// @Summary		Get restricted day
// @Description	Returns a specific restricted day
// @Tags			RestrictedDays
// @Produce		json
// @Success		200	{object}	RestrictedDayResponse
// @Failure		400	{object}	RestrictedDayResponse
// @Failure		404	{object}	RestrictedDayResponse
// @Failure		500	{object}	RestrictedDayResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/restricted-days/{id} [get]
func GetRestrictedDay(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RestrictedDayResponse{
			Error: &s,
		})
		return
	}

	var day models.RestrictedDay
	err = models.DB.First(&day, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RestrictedDayResponse{
			Error: &s,
		})
		return
	}

	data := newRestrictedDay(c, day)
	c.JSON(http.StatusOK, RestrictedDayResponse{Data: &data})
}

// @Summary		Delete restricted day
// @Description	Removes the restriction from a date
// @Tags			RestrictedDays
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/restricted-days/{id} [delete]
func DeleteRestrictedDay(c *gin.Context) {
	if !requirePermission(c, "management.restricted") {
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

	var day models.RestrictedDay
	err = models.DB.First(&day, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Unscoped().Delete(&day).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, "restricted_day.delete", "restricted_day", &day.ID, fmt.Sprintf("Removed restriction on %s", day.Date), c.ClientIP())

	c.JSON(http.StatusNoContent, nil)
}
