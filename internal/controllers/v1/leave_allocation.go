package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterLeaveAllocationRoutes registers the routes for leave allocations
// with the RouterGroup that is passed.
func RegisterLeaveAllocationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsLeaveAllocationList)
		r.GET("", GetLeaveAllocations)
		r.POST("", SetLeaveAllocation)
	}

	// Allocation with ID
	{
		r.OPTIONS("/:id", OptionsLeaveAllocationDetail)
		r.GET("/:id", GetLeaveAllocation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Leave
// @Success		204
// @Router			/v1/leave-allocations [options]
func OptionsLeaveAllocationList(c *gin.Context) {
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
// @Router			/v1/leave-allocations/{id} [options]
func OptionsLeaveAllocationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.LeaveAllocation{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Get leave allocations
// @Description	Returns the leave allocations of the authenticated user. With the "leave.view_all" permission the allocations of other users can be read.
// @Tags			Leave
// @Produce		json
// @Success		200	{object}	LeaveAllocationListResponse
// @Failure		400	{object}	LeaveAllocationListResponse
// @Failure		403	{object}	httpError
// @Failure		500	{object}	LeaveAllocationListResponse
// @Router			/v1/leave-allocations [get]
// @Param			user		query	string	false	"Filter by ID of the user. Requires the \"leave.view_all\" permission for other users."
// @Param			leaveType	query	string	false	"Filter by ID of the leave type"
// @Param			year		query	int		false	"Filter by year"
// @Param			offset		query	uint	false	"The offset of the first allocation returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of allocations to return. Defaults to 50."
func GetLeaveAllocations(c *gin.Context) {
	var filter LeaveAllocationQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	user := currentUser(c)

	// Without "leave.view_all" users only see their own allocations
	if slices.Contains(setFields, "UserID") && filter.UserID.UUID != user.ID {
		if !requirePermission(c, "leave.view_all") {
			return
		}
	}

	filterModel := filter.model()

	q := models.DB.
		Order("year DESC").
		Where(&filterModel, queryFields...)

	if !hasPermission(c, "leave.view_all") {
		q = q.Where("user_id = ?", user.ID)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 allocations and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var allocations []models.LeaveAllocation
	err := q.Find(&allocations).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveAllocationListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LeaveAllocationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]LeaveAllocation, 0)
	for _, allocation := range allocations {
		data = append(data, newLeaveAllocation(c, allocation))
	}

	c.JSON(http.StatusOK, LeaveAllocationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get leave allocation
// @Description	Returns a specific leave allocation
// @Tags			Leave
// @Produce		json
// @Success		200	{object}	LeaveAllocationResponse
// @Failure		400	{object}	LeaveAllocationResponse
// @Failure		403	{object}	httpError
// @Failure		404	{object}	LeaveAllocationResponse
// @Failure		500	{object}	LeaveAllocationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/leave-allocations/{id} [get]
func GetLeaveAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveAllocationResponse{
			Error: &s,
		})
		return
	}

	var allocation models.LeaveAllocation
	err = models.DB.First(&allocation, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveAllocationResponse{
			Error: &s,
		})
		return
	}

	if allocation.UserID != currentUser(c).ID && !requirePermission(c, "leave.view_all") {
		return
	}

	data := newLeaveAllocation(c, allocation)
	c.JSON(http.StatusOK, LeaveAllocationResponse{Data: &data})
}

// @Summary		Set leave allocation
// @Description	Creates or updates the allocation for a user, leave type and year. The used amounts are preserved on updates.
// @Tags			Leave
// @Accept			json
// @Produce		json
// @Success		200			{object}	LeaveAllocationResponse
// @Failure		400			{object}	LeaveAllocationResponse
// @Failure		403			{object}	httpError
// @Failure		404			{object}	LeaveAllocationResponse
// @Failure		500			{object}	LeaveAllocationResponse
// @Param			allocation	body		LeaveAllocationEditable	true	"Allocation"
// @Router			/v1/leave-allocations [post]
func SetLeaveAllocation(c *gin.Context) {
	if !requirePermission(c, "leave.allocate") {
		return
	}

	var editable LeaveAllocationEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveAllocationResponse{
			Error: &s,
		})
		return
	}

	allocation, err := models.AllocateLeave(models.DB, editable.UserID, editable.LeaveTypeID, editable.Year, editable.AllocatedDays, editable.AllocatedHours)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveAllocationResponse{
			Error: &s,
		})
		return
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, "leave_allocation.set", "leave_allocation", &allocation.ID, fmt.Sprintf("Set allocation for year %d", allocation.Year), c.ClientIP())

	data := newLeaveAllocation(c, allocation)
	c.JSON(http.StatusOK, LeaveAllocationResponse{Data: &data})
}
