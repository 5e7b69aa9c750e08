package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterLeaveTypeRoutes registers the routes for leave types with
// the RouterGroup that is passed.
func RegisterLeaveTypeRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsLeaveTypeList)
		r.GET("", GetLeaveTypes)
		r.POST("", CreateLeaveTypes)
	}

	// Leave type with ID
	{
		r.OPTIONS("/:id", OptionsLeaveTypeDetail)
		r.GET("/:id", GetLeaveType)
		r.PATCH("/:id", UpdateLeaveType)
		r.DELETE("/:id", DeleteLeaveType)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Leave
// @Success		204
// @Router			/v1/leave-types [options]
func OptionsLeaveTypeList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Leave
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/leave-types/{id} [options]
func OptionsLeaveTypeDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.LeaveType{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create leave types
// @Description	Creates new leave types
// @Tags			Leave
// @Produce		json
// @Success		201			{object}	LeaveTypeCreateResponse
// @Failure		400			{object}	LeaveTypeCreateResponse
// @Failure		403			{object}	httpError
// @Failure		500			{object}	LeaveTypeCreateResponse
// @Param			leaveTypes	body		[]LeaveTypeEditable	true	"Leave types"
// @Router			/v1/leave-types [post]
func CreateLeaveTypes(c *gin.Context) {
	if !requirePermission(c, "management.settings") {
		return
	}

	var editables []LeaveTypeEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LeaveTypeCreateResponse{
			Error: &e,
		})
		return
	}

	actor := currentUser(c)

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := LeaveTypeCreateResponse{}

	for _, editable := range editables {
		leaveType := editable.model()

		err = models.DB.Create(&leaveType).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		models.Audit(models.DB, &actor.ID, "leave_type.create", "leave_type", &leaveType.ID, fmt.Sprintf("Created leave type: %s", leaveType.Name), c.ClientIP())

		data := newLeaveType(c, leaveType)
		r.Data = append(r.Data, LeaveTypeResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get leave types
// @Description	Returns a list of leave types
// @Tags			Leave
// @Produce		json
// @Success		200	{object}	LeaveTypeListResponse
// @Failure		400	{object}	LeaveTypeListResponse
// @Failure		500	{object}	LeaveTypeListResponse
// @Router			/v1/leave-types [get]
// @Param			name	query	string	false	"Filter by exact name"
// @Param			paid	query	bool	false	"Is the leave paid?"
// @Param			active	query	bool	false	"Is the leave type active?"
// @Param			offset	query	uint	false	"The offset of the first leave type returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of leave types to return. Defaults to 50."
func GetLeaveTypes(c *gin.Context) {
	var filter LeaveTypeQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()

	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 leave types and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var leaveTypes []models.LeaveType
	err := q.Find(&leaveTypes).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveTypeListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LeaveTypeListResponse{
			Error: &e,
		})
		return
	}

	data := make([]LeaveType, 0)
	for _, leaveType := range leaveTypes {
		data = append(data, newLeaveType(c, leaveType))
	}

	c.JSON(http.StatusOK, LeaveTypeListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get leave type
// @Description	Returns a specific leave type
// @Tags			Leave
// @Produce		json
// @Success		200	{object}	LeaveTypeResponse
// @Failure		400	{object}	LeaveTypeResponse
// @Failure		404	{object}	LeaveTypeResponse
// @Failure		500	{object}	LeaveTypeResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/leave-types/{id} [get]
func GetLeaveType(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveTypeResponse{
			Error: &s,
		})
		return
	}

	var leaveType models.LeaveType
	err = models.DB.First(&leaveType, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveTypeResponse{
			Error: &s,
		})
		return
	}

	data := newLeaveType(c, leaveType)
	c.JSON(http.StatusOK, LeaveTypeResponse{Data: &data})
}

// @Summary		Update leave type
// @Description	Update an existing leave type. Only values to be updated need to be specified.
// @Tags			Leave
// @Accept			json
// @Produce		json
// @Success		200			{object}	LeaveTypeResponse
// @Failure		400			{object}	LeaveTypeResponse
// @Failure		403			{object}	httpError
// @Failure		404			{object}	LeaveTypeResponse
// @Failure		500			{object}	LeaveTypeResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			leaveType	body		LeaveTypeEditable	true	"Leave type"
// @Router			/v1/leave-types/{id} [patch]
func UpdateLeaveType(c *gin.Context) {
	if !requirePermission(c, "management.settings") {
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveTypeResponse{
			Error: &s,
		})
		return
	}

	var leaveType models.LeaveType
	err = models.DB.First(&leaveType, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveTypeResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, LeaveTypeEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveTypeResponse{
			Error: &s,
		})
		return
	}

	var data LeaveTypeEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveTypeResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&leaveType).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveTypeResponse{
			Error: &s,
		})
		return
	}

	r := newLeaveType(c, leaveType)
	c.JSON(http.StatusOK, LeaveTypeResponse{Data: &r})
}

// @Summary		Delete leave type
// @Description	Deactivates a leave type. Leave types that have been used stay referenced by allocations and requests, they are deactivated instead of deleted.
// @Tags			Leave
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/leave-types/{id} [delete]
func DeleteLeaveType(c *gin.Context) {
	if !requirePermission(c, "management.settings") {
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

	var leaveType models.LeaveType
	err = models.DB.First(&leaveType, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Model(&leaveType).Select("Active").Updates(models.LeaveType{Active: false}).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, "leave_type.deactivate", "leave_type", &leaveType.ID, fmt.Sprintf("Deactivated leave type: %s", leaveType.Name), c.ClientIP())

	c.JSON(http.StatusNoContent, nil)
}
