package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterUnavailabilityRoutes registers the routes for unavailabilities
// with the RouterGroup that is passed.
func RegisterUnavailabilityRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsUnavailabilityList)
		r.GET("", GetUnavailabilities)
		r.POST("", CreateUnavailabilities)
	}

	// Unavailability with ID
	{
		r.OPTIONS("/:id", OptionsUnavailabilityDetail)
		r.DELETE("/:id", DeleteUnavailability)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Unavailability
// @Success		204
// @Router			/v1/unavailability [options]
func OptionsUnavailabilityList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Unavailability
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/unavailability/{id} [options]
func OptionsUnavailabilityDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Unavailability{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsDelete(c)
}

// @Summary		Declare unavailability
// @Description	Marks one or more dates on which the authenticated user cannot be scheduled. Advisory only, existing schedules are not touched.
// @Tags			Unavailability
// @Accept			json
// @Produce		json
// @Success		201		{object}	UnavailabilityCreateResponse
// @Failure		400		{object}	UnavailabilityCreateResponse
// @Failure		500		{object}	UnavailabilityCreateResponse
// @Param			dates	body		[]UnavailabilityEditable	true	"Unavailabilities"
// @Router			/v1/unavailability [post]
func CreateUnavailabilities(c *gin.Context) {
	var editables []UnavailabilityEditable
	err := httputil.BindData(c, &editables)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UnavailabilityCreateResponse{
			Error: &s,
		})
		return
	}

	user := currentUser(c)

	// The final response we return
	response := UnavailabilityCreateResponse{}

	// The final status we return
	responseStatus := http.StatusCreated

	for _, editable := range editables {
		unavailability := editable.model()
		unavailability.UserID = user.ID

		err := models.DB.Create(&unavailability).Error
		if err != nil {
			responseStatus = response.appendError(err, responseStatus)
			continue
		}

		models.Audit(models.DB, &user.ID, "unavailability.declare", "unavailability", &unavailability.ID, fmt.Sprintf("Declared unavailable on %s", unavailability.Date), c.ClientIP())

		data := newUnavailability(c, unavailability)
		response.Data = append(response.Data, UnavailabilityResponse{Data: &data})
	}

	c.JSON(responseStatus, response)
}

// @Summary		Get unavailabilities
// @Description	Returns the unavailabilities of the authenticated user. With the "schedule.view_all" permission the unavailabilities of other users or of everybody can be read.
// @Tags			Unavailability
// @Produce		json
// @Success		200	{object}	UnavailabilityListResponse
// @Failure		400	{object}	UnavailabilityListResponse
// @Failure		403	{object}	httpError
// @Failure		500	{object}	UnavailabilityListResponse
// @Router			/v1/unavailability [get]
// @Param			user	query	string	false	"Filter by ID of the user. Requires the \"schedule.view_all\" permission for other users."
// @Param			from	query	string	false	"Only days on or after this date (YYYY-MM-DD)"
// @Param			to		query	string	false	"Only days on or before this date (YYYY-MM-DD)"
func GetUnavailabilities(c *gin.Context) {
	var filter UnavailabilityQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	user := currentUser(c)

	// Without "schedule.view_all" users only see their own unavailabilities
	if slices.Contains(setFields, "UserID") && filter.UserID.UUID != user.ID {
		if !requirePermission(c, "schedule.view_all") {
			return
		}
	}

	q := models.DB.Order("date DESC")

	if slices.Contains(setFields, "UserID") {
		q = q.Where("user_id = ?", filter.UserID.UUID)
	} else if !hasPermission(c, "schedule.view_all") {
		q = q.Where("user_id = ?", user.ID)
	}

	if slices.Contains(setFields, "From") {
		q = q.Where("date >= ?", filter.From)
	}

	if slices.Contains(setFields, "To") {
		q = q.Where("date <= ?", filter.To)
	}

	var unavailabilities []models.Unavailability
	err := q.Find(&unavailabilities).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UnavailabilityListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Unavailability, 0)
	for _, unavailability := range unavailabilities {
		data = append(data, newUnavailability(c, unavailability))
	}

	c.JSON(http.StatusOK, UnavailabilityListResponse{Data: data})
}

// @Summary		Delete unavailability
// @Description	Deletes an unavailability of the authenticated user. Unavailabilities of other users cannot be deleted.
// @Tags			Unavailability
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/unavailability/{id} [delete]
func DeleteUnavailability(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var unavailability models.Unavailability
	err = models.DB.First(&unavailability, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	user := currentUser(c)
	if unavailability.UserID != user.ID {
		c.JSON(status(models.ErrNoPermission), httpError{
			Error: models.ErrNoPermission.Error(),
		})
		return
	}

	err = models.DB.Unscoped().Delete(&unavailability).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	models.Audit(models.DB, &user.ID, "unavailability.delete", "unavailability", &unavailability.ID, fmt.Sprintf("Deleted unavailability on %s", unavailability.Date), c.ClientIP())

	c.JSON(http.StatusNoContent, nil)
}
