package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/models"
)

type NotificationLinks struct {
	Self    string `json:"self" example:"https://example.com/v1/notifications/d1878b04-84e5-4c4b-aa90-b9bfd1503d02"`
	Related string `json:"related" example:"https://example.com/v1/schedules/3a9c2b44-05c1-4b4b-a258-6eb9e8f87b50"`
}

type Notification struct {
	models.DefaultModel
	UserID      uuid.UUID         `json:"userId" example:"ec9e9c4c-d1a3-4cea-ae64-4371568a3d77"`
	Title       string            `json:"title" example:"New Shift Assigned"`
	Message     string            `json:"message" example:"You have been assigned a shift on 2024-07-01"`
	Type        string            `json:"type" example:"shift"`
	Read        bool              `json:"read" example:"false"`
	Popup       bool              `json:"popup" example:"true"`
	RelatedID   *uuid.UUID        `json:"relatedId"`
	RelatedType string            `json:"relatedType" example:"schedule"`
	Links       NotificationLinks `json:"links"`
}

// relatedPaths maps the related resource types to their route prefixes.
var relatedPaths = map[string]string{
	"schedule":      "schedules",
	"leave_request": "leave-requests",
	"task":          "tasks",
	"board_post":    "board",
}

func newNotification(c *gin.Context, model models.Notification) Notification {
	url := c.GetString(string(models.DBContextURL))

	related := ""
	if model.RelatedID != nil {
		if path, ok := relatedPaths[model.RelatedType]; ok {
			related = fmt.Sprintf("%s/v1/%s/%s", url, path, model.RelatedID)
		}
	}

	return Notification{
		DefaultModel: model.DefaultModel,
		UserID:       model.UserID,
		Title:        model.Title,
		Message:      model.Message,
		Type:         model.Type,
		Read:         model.Read,
		Popup:        model.Popup,
		RelatedID:    model.RelatedID,
		RelatedType:  model.RelatedType,
		Links: NotificationLinks{
			Self:    fmt.Sprintf("%s/v1/notifications/%s", url, model.ID),
			Related: related,
		},
	}
}

type NotificationListResponse struct {
	Data       []Notification `json:"data"`                                                          // List of notifications
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                                                    // Pagination information
}

type NotificationCountResponse struct {
	Count int64   `json:"count" example:"3"`                                              // Number of unread notifications
	Error *string `json:"error" example:"there is an issue with the database connection"` // The error, if any occurred
}

type NotificationQueryFilter struct {
	Unread bool `form:"unread" filterField:"false"` // Only unread notifications
	Offset uint `form:"offset" filterField:"false"` // The offset of the first notification returned. Defaults to 0.
	Limit  int  `form:"limit" filterField:"false"`  // Maximum number of notifications to return. Defaults to 50.
}
