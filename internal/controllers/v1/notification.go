package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterNotificationRoutes registers the routes for notifications with
// the RouterGroup that is passed. All routes operate on the notifications
// of the authenticated user.
func RegisterNotificationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsNotificationList)
		r.GET("", GetNotifications)
	}

	// Aggregates
	{
		r.OPTIONS("/unread-count", OptionsNotificationUnreadCount)
		r.GET("/unread-count", GetNotificationUnreadCount)
		r.OPTIONS("/popup", OptionsNotificationPopup)
		r.GET("/popup", GetPopupNotifications)
	}

	// State changes
	{
		r.OPTIONS("/read-all", OptionsNotificationReadAll)
		r.POST("/read-all", MarkAllNotificationsRead)
		r.OPTIONS("/:id/read", OptionsNotificationRead)
		r.POST("/:id/read", MarkNotificationRead)
		r.OPTIONS("/:id/dismiss", OptionsNotificationDismiss)
		r.POST("/:id/dismiss", DismissNotification)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Router			/v1/notifications [options]
func OptionsNotificationList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Router			/v1/notifications/unread-count [options]
func OptionsNotificationUnreadCount(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Router			/v1/notifications/popup [options]
func OptionsNotificationPopup(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Router			/v1/notifications/read-all [options]
func OptionsNotificationReadAll(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Failure		400	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/notifications/{id}/read [options]
func OptionsNotificationRead(c *gin.Context) {
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
// @Tags			Notifications
// @Success		204
// @Failure		400	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/notifications/{id}/dismiss [options]
func OptionsNotificationDismiss(c *gin.Context) {
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

// @Summary		Get notifications
// @Description	Returns the notifications of the authenticated user, newest first
// @Tags			Notifications
// @Produce		json
// @Success		200	{object}	NotificationListResponse
// @Failure		400	{object}	NotificationListResponse
// @Failure		500	{object}	NotificationListResponse
// @Router			/v1/notifications [get]
// @Param			unread	query	bool	false	"Only return unread notifications"
// @Param			offset	query	uint	false	"The offset of the first notification returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of notifications to return. Defaults to 50."
func GetNotifications(c *gin.Context) {
	var filter NotificationQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	user := currentUser(c)

	q := models.DB.
		Order("created_at DESC").
		Where("user_id = ?", user.ID)

	if slices.Contains(setFields, "Unread") && filter.Unread {
		q = q.Where("read = ?", false)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 notifications and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var notifications []models.Notification
	err := q.Find(&notifications).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Notification, 0)
	for _, notification := range notifications {
		data = append(data, newNotification(c, notification))
	}

	c.JSON(http.StatusOK, NotificationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get unread count
// @Description	Returns the number of unread notifications of the authenticated user
// @Tags			Notifications
// @Produce		json
// @Success		200	{object}	NotificationCountResponse
// @Failure		500	{object}	NotificationCountResponse
// @Router			/v1/notifications/unread-count [get]
func GetNotificationUnreadCount(c *gin.Context) {
	user := currentUser(c)

	var count int64
	err := models.DB.Model(&models.Notification{}).Where("user_id = ? AND read = ?", user.ID, false).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationCountResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, NotificationCountResponse{Count: count})
}

// @Summary		Get popup notifications
// @Description	Returns the unread popup notifications of the authenticated user, oldest first. Notifications stay in the popup queue until they are read or dismissed.
// @Tags			Notifications
// @Produce		json
// @Success		200	{object}	NotificationListResponse
// @Failure		500	{object}	NotificationListResponse
// @Router			/v1/notifications/popup [get]
func GetPopupNotifications(c *gin.Context) {
	user := currentUser(c)

	var notifications []models.Notification
	err := models.DB.
		Order("created_at ASC").
		Where("user_id = ? AND read = ? AND popup = ?", user.ID, false, true).
		Find(&notifications).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Notification, 0)
	for _, notification := range notifications {
		data = append(data, newNotification(c, notification))
	}

	c.JSON(http.StatusOK, NotificationListResponse{Data: data})
}

// @Summary		Mark notification read
// @Description	Marks a notification of the authenticated user as read
// @Tags			Notifications
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/notifications/{id}/read [post]
func MarkNotificationRead(c *gin.Context) {
	notification, ok := ownNotification(c)
	if !ok {
		return
	}

	err := models.DB.Model(&notification).Select("Read").Updates(models.Notification{Read: true}).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Mark all notifications read
// @Description	Marks all notifications of the authenticated user as read
// @Tags			Notifications
// @Success		204
// @Failure		500	{object}	httpError
// @Router			/v1/notifications/read-all [post]
func MarkAllNotificationsRead(c *gin.Context) {
	user := currentUser(c)

	err := models.DB.
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", user.ID, false).
		Update("read", true).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Dismiss notification
// @Description	Marks a notification of the authenticated user as read and removes it from the popup queue
// @Tags			Notifications
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/notifications/{id}/dismiss [post]
func DismissNotification(c *gin.Context) {
	notification, ok := ownNotification(c)
	if !ok {
		return
	}

	err := models.DB.Model(&notification).Select("Read", "Popup").Updates(models.Notification{Read: true, Popup: false}).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// ownNotification loads the notification from the URI and verifies that it
// belongs to the authenticated user. It writes the error response itself.
func ownNotification(c *gin.Context) (models.Notification, bool) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return models.Notification{}, false
	}

	var notification models.Notification
	err = models.DB.First(&notification, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return models.Notification{}, false
	}

	if notification.UserID != currentUser(c).ID {
		c.JSON(status(models.ErrNoPermission), httpError{
			Error: models.ErrNoPermission.Error(),
		})
		return models.Notification{}, false
	}

	return notification, true
}
