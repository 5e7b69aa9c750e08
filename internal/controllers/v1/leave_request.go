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

// RegisterLeaveRequestRoutes registers the routes for leave requests with
// the RouterGroup that is passed.
func RegisterLeaveRequestRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsLeaveRequestList)
		r.GET("", GetLeaveRequests)
		r.POST("", CreateLeaveRequest)
	}

	// Leave request with ID
	{
		r.OPTIONS("/:id", OptionsLeaveRequestDetail)
		r.GET("/:id", GetLeaveRequest)
		r.DELETE("/:id", CancelLeaveRequest)
	}

	// Review
	{
		r.OPTIONS("/:id/approve", OptionsLeaveRequestApprove)
		r.POST("/:id/approve", ApproveLeaveRequest)
		r.OPTIONS("/:id/reject", OptionsLeaveRequestReject)
		r.POST("/:id/reject", RejectLeaveRequest)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Leave
// @Success		204
// @Router			/v1/leave-requests [options]
func OptionsLeaveRequestList(c *gin.Context) {
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
// @Router			/v1/leave-requests/{id} [options]
func OptionsLeaveRequestDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.LeaveRequest{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Leave
// @Success		204
// @Failure		400	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/leave-requests/{id}/approve [options]
func OptionsLeaveRequestApprove(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Leave
// @Success		204
// @Failure		400	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/leave-requests/{id}/reject [options]
func OptionsLeaveRequestReject(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Submit leave request
// @Description	Submits a leave request for the authenticated user. Overlapping restricted days and an insufficient balance are returned as warnings, they do not block the submission.
// @Tags			Leave
// @Accept			json
// @Produce		json
// @Success		201		{object}	LeaveRequestCreateResponse
// @Failure		400		{object}	LeaveRequestCreateResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	LeaveRequestCreateResponse
// @Failure		500		{object}	LeaveRequestCreateResponse
// @Param			request	body		LeaveRequestEditable	true	"Leave request"
// @Router			/v1/leave-requests [post]
func CreateLeaveRequest(c *gin.Context) {
	if !requirePermission(c, "leave.request") {
		return
	}

	var editable LeaveRequestEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveRequestCreateResponse{
			Error: &s,
		})
		return
	}

	user := currentUser(c)

	request := editable.model()
	request.UserID = user.ID

	warnings, err := models.SubmitLeaveRequest(models.DB, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveRequestCreateResponse{
			Error: &s,
		})
		return
	}

	models.Audit(models.DB, &user.ID, "leave_request.submit", "leave_request", &request.ID, fmt.Sprintf("Requested leave from %s to %s", request.StartDate, request.EndDate), c.ClientIP())

	data := newLeaveRequest(c, request)
	c.JSON(http.StatusCreated, LeaveRequestCreateResponse{
		Data:     &data,
		Warnings: warnings,
	})
}

// @Summary		Get leave requests
// @Description	Returns the leave requests of the authenticated user. With the "leave.view_all" permission the requests of other users can be read.
// @Tags			Leave
// @Produce		json
// @Success		200	{object}	LeaveRequestListResponse
// @Failure		400	{object}	LeaveRequestListResponse
// @Failure		403	{object}	httpError
// @Failure		500	{object}	LeaveRequestListResponse
// @Router			/v1/leave-requests [get]
// @Param			user		query	string	false	"Filter by ID of the user. Requires the \"leave.view_all\" permission for other users."
// @Param			leaveType	query	string	false	"Filter by ID of the leave type"
// @Param			status		query	string	false	"Filter by status"
// @Param			year		query	int		false	"Filter by year of the start date"
// @Param			offset		query	uint	false	"The offset of the first leave request returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of leave requests to return. Defaults to 50."
func GetLeaveRequests(c *gin.Context) {
	var filter LeaveRequestQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	user := currentUser(c)

	// Without "leave.view_all" users only see their own requests
	if slices.Contains(setFields, "UserID") && filter.UserID.UUID != user.ID {
		if !requirePermission(c, "leave.view_all") {
			return
		}
	}

	filterModel := filter.model()

	q := models.DB.
		Order("start_date DESC").
		Where(&filterModel, queryFields...)

	if !hasPermission(c, "leave.view_all") {
		q = q.Where("user_id = ?", user.ID)
	}

	if slices.Contains(setFields, "Year") {
		q = q.Where("start_date >= ? AND start_date <= ?", types.NewDate(filter.Year, time.January, 1), types.NewDate(filter.Year, time.December, 31))
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 leave requests and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var requests []models.LeaveRequest
	err := q.Find(&requests).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveRequestListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LeaveRequestListResponse{
			Error: &e,
		})
		return
	}

	data := make([]LeaveRequest, 0)
	for _, request := range requests {
		data = append(data, newLeaveRequest(c, request))
	}

	c.JSON(http.StatusOK, LeaveRequestListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get leave request
// @Description	Returns a specific leave request
// @Tags			Leave
// @Produce		json
// @Success		200	{object}	LeaveRequestResponse
// @Failure		400	{object}	LeaveRequestResponse
// @Failure		403	{object}	httpError
// @Failure		404	{object}	LeaveRequestResponse
// @Failure		500	{object}	LeaveRequestResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/leave-requests/{id} [get]
func GetLeaveRequest(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveRequestResponse{
			Error: &s,
		})
		return
	}

	var request models.LeaveRequest
	err = models.DB.First(&request, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveRequestResponse{
			Error: &s,
		})
		return
	}

	if request.UserID != currentUser(c).ID && !requirePermission(c, "leave.view_all") {
		return
	}

	data := newLeaveRequest(c, request)
	c.JSON(http.StatusOK, LeaveRequestResponse{Data: &data})
}

// @Summary		Approve leave request
// @Description	Approves a pending leave request and debits the requester's allocation. Reviewers cannot approve their own requests.
// @Tags			Leave
// @Accept			json
// @Produce		json
// @Success		200		{object}	LeaveRequestResponse
// @Failure		400		{object}	LeaveRequestResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	LeaveRequestResponse
// @Failure		500		{object}	LeaveRequestResponse
// @Param			id		path		URIID						true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			review	body		LeaveRequestReviewEditable	false	"Review notes"
// @Router			/v1/leave-requests/{id}/approve [post]
func ApproveLeaveRequest(c *gin.Context) {
	reviewLeaveRequest(c, true)
}

// @Summary		Reject leave request
// @Description	Rejects a pending leave request. The requester's allocation is not touched. Reviewers cannot reject their own requests.
// @Tags			Leave
// @Accept			json
// @Produce		json
// @Success		200		{object}	LeaveRequestResponse
// @Failure		400		{object}	LeaveRequestResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	LeaveRequestResponse
// @Failure		500		{object}	LeaveRequestResponse
// @Param			id		path		URIID						true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			review	body		LeaveRequestReviewEditable	false	"Review notes"
// @Router			/v1/leave-requests/{id}/reject [post]
func RejectLeaveRequest(c *gin.Context) {
	reviewLeaveRequest(c, false)
}

// reviewLeaveRequest handles the shared flow of the approve and reject
// endpoints. The review notes body is optional.
func reviewLeaveRequest(c *gin.Context, approve bool) {
	if !requirePermission(c, "leave.approve") {
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveRequestResponse{
			Error: &s,
		})
		return
	}

	var request models.LeaveRequest
	err = models.DB.First(&request, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveRequestResponse{
			Error: &s,
		})
		return
	}

	reviewer := currentUser(c)
	if request.UserID == reviewer.ID {
		s := errReviewOwnRequest.Error()
		c.JSON(status(errReviewOwnRequest), LeaveRequestResponse{
			Error: &s,
		})
		return
	}

	var notes string
	if c.Request.ContentLength != 0 {
		var editable LeaveRequestReviewEditable
		err = httputil.BindData(c, &editable)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), LeaveRequestResponse{
				Error: &s,
			})
			return
		}

		notes = editable.Notes
	}

	if approve {
		err = request.Approve(models.DB, reviewer.ID, notes)
	} else {
		err = request.Reject(models.DB, reviewer.ID, notes)
	}
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LeaveRequestResponse{
			Error: &s,
		})
		return
	}

	action := "leave_request.reject"
	details := fmt.Sprintf("Rejected leave from %s to %s", request.StartDate, request.EndDate)
	if approve {
		action = "leave_request.approve"
		details = fmt.Sprintf("Approved leave from %s to %s", request.StartDate, request.EndDate)
	}
	models.Audit(models.DB, &reviewer.ID, action, "leave_request", &request.ID, details, c.ClientIP())

	data := newLeaveRequest(c, request)
	c.JSON(http.StatusOK, LeaveRequestResponse{Data: &data})
}

// @Summary		Cancel leave request
// @Description	Cancels a pending leave request of the authenticated user. Requests that have already been reviewed cannot be cancelled.
// @Tags			Leave
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/leave-requests/{id} [delete]
func CancelLeaveRequest(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var request models.LeaveRequest
	err = models.DB.First(&request, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	user := currentUser(c)
	err = request.Cancel(models.DB, user.ID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	models.Audit(models.DB, &user.ID, "leave_request.cancel", "leave_request", &request.ID, fmt.Sprintf("Cancelled leave from %s to %s", request.StartDate, request.EndDate), c.ClientIP())

	c.JSON(http.StatusNoContent, nil)
}
