package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/models"
	"github.com/staffplan/backend/internal/types"
)

// BoardPostEditable represents all board post configurable parameters.
// NotifyAll is not stored with the post, it sends a notification about
// the post to all active users and is only evaluated on creation.
type BoardPostEditable struct {
	Title     string      `json:"title" example:"Summer party"`
	Content   string      `json:"content" example:"We meet at the beach bar, partners welcome."`
	Type      string      `json:"type" example:"event"`
	Priority  string      `json:"priority" example:"high"`
	EventDate *types.Date `json:"eventDate"`
	EventTime string      `json:"eventTime" example:"18:00"`
	ExpiresAt *time.Time  `json:"expiresAt"`
	Pinned    bool        `json:"pinned" example:"false"`
	Active    *bool       `json:"active" example:"true"`
	NotifyAll bool        `json:"notifyAll" example:"false"`
}

func (editable BoardPostEditable) model() models.BoardPost {
	active := true
	if editable.Active != nil {
		active = *editable.Active
	}

	return models.BoardPost{
		Title:     editable.Title,
		Content:   editable.Content,
		Type:      editable.Type,
		Priority:  editable.Priority,
		EventDate: editable.EventDate,
		EventTime: editable.EventTime,
		ExpiresAt: editable.ExpiresAt,
		Pinned:    editable.Pinned,
		Active:    active,
	}
}

type BoardPostLinks struct {
	Self string `json:"self" example:"https://example.com/v1/board/d1732f52-6ef6-493d-9fa8-ba045bf8238e"`
}

type BoardPost struct {
	models.DefaultModel
	Title     string         `json:"title" example:"Summer party"`
	Content   string         `json:"content" example:"We meet at the beach bar, partners welcome."`
	Type      string         `json:"type" example:"event"`
	Priority  string         `json:"priority" example:"high"`
	EventDate *types.Date    `json:"eventDate"`
	EventTime string         `json:"eventTime" example:"18:00"`
	ExpiresAt *time.Time     `json:"expiresAt"`
	Pinned    bool           `json:"pinned" example:"false"`
	Active    bool           `json:"active" example:"true"`
	CreatedBy uuid.UUID      `json:"createdBy" example:"2f1f9a47-4b0e-4e5f-9a26-23d70cbe6791"`
	Links     BoardPostLinks `json:"links"`
}

func newBoardPost(c *gin.Context, model models.BoardPost) BoardPost {
	url := c.GetString(string(models.DBContextURL))

	return BoardPost{
		DefaultModel: model.DefaultModel,
		Title:        model.Title,
		Content:      model.Content,
		Type:         model.Type,
		Priority:     model.Priority,
		EventDate:    model.EventDate,
		EventTime:    model.EventTime,
		ExpiresAt:    model.ExpiresAt,
		Pinned:       model.Pinned,
		Active:       model.Active,
		CreatedBy:    model.CreatedBy,
		Links: BoardPostLinks{
			Self: fmt.Sprintf("%s/v1/board/%s", url, model.ID),
		},
	}
}

type BoardPostListResponse struct {
	Data  []BoardPost `json:"data"`                                                          // List of board posts
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BoardPostCreateResponse struct {
	Data  []BoardPostResponse `json:"data"`                                                          // List of the created board posts or their respective error
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (b *BoardPostCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	b.Data = append(b.Data, BoardPostResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BoardPostResponse struct {
	Data  *BoardPost `json:"data"`                                                          // Data for the board post
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BoardPostQueryFilter struct {
	Type string `form:"type" filterField:"false"` // Filter by post type
}

type BoardEventsQueryFilter struct {
	Days  int `form:"days" filterField:"false"`  // How many days to look ahead. Defaults to 30.
	Limit int `form:"limit" filterField:"false"` // Maximum number of events to return. Defaults to 5.
}
