package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/models"
	"github.com/staffplan/backend/internal/types"
	sp_uuid "github.com/staffplan/backend/internal/uuid"
)

// TaskEditable represents all task configurable parameters
type TaskEditable struct {
	Title       string      `json:"title" example:"Restock shelves"`
	Description string      `json:"description" example:"Aisle 3 and 4"`
	AssignedTo  *uuid.UUID  `json:"assignedTo"`
	DueDate     *types.Date `json:"dueDate"`
	DueTime     string      `json:"dueTime" example:"14:00"`
	Priority    string      `json:"priority" example:"medium"`
	Status      string      `json:"status" example:"pending"`
	Category    string      `json:"category" example:"Operations"`
}

func (editable TaskEditable) model() models.Task {
	return models.Task{
		Title:       editable.Title,
		Description: editable.Description,
		AssignedTo:  editable.AssignedTo,
		DueDate:     editable.DueDate,
		DueTime:     editable.DueTime,
		Priority:    editable.Priority,
		Status:      editable.Status,
		Category:    editable.Category,
	}
}

// TaskStatusEditable represents the status change of a task
type TaskStatusEditable struct {
	Status string `json:"status" example:"completed"`
}

type TaskLinks struct {
	Self string `json:"self" example:"https://example.com/v1/tasks/5985d439-0e04-42f1-8917-8c6e0b79baa1"`
}

type Task struct {
	models.DefaultModel
	Title       string      `json:"title" example:"Restock shelves"`
	Description string      `json:"description" example:"Aisle 3 and 4"`
	AssignedTo  *uuid.UUID  `json:"assignedTo"`
	AssignedBy  uuid.UUID   `json:"assignedBy"`
	DueDate     *types.Date `json:"dueDate"`
	DueTime     string      `json:"dueTime" example:"14:00"`
	Priority    string      `json:"priority" example:"medium"`
	Status      string      `json:"status" example:"pending"`
	Category    string      `json:"category" example:"Operations"`
	CompletedAt *time.Time  `json:"completedAt"`
	Links       TaskLinks   `json:"links"`
}

func newTask(c *gin.Context, model models.Task) Task {
	url := c.GetString(string(models.DBContextURL))

	return Task{
		DefaultModel: model.DefaultModel,
		Title:        model.Title,
		Description:  model.Description,
		AssignedTo:   model.AssignedTo,
		AssignedBy:   model.AssignedBy,
		DueDate:      model.DueDate,
		DueTime:      model.DueTime,
		Priority:     model.Priority,
		Status:       model.Status,
		Category:     model.Category,
		CompletedAt:  model.CompletedAt,
		Links: TaskLinks{
			Self: fmt.Sprintf("%s/v1/tasks/%s", url, model.ID),
		},
	}
}

type TaskListResponse struct {
	Data       []Task      `json:"data"`                                                          // List of tasks
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type TaskCreateResponse struct {
	Data  []TaskResponse `json:"data"`                                        // List of created tasks or their respective error
	Error *string        `json:"error" example:"the request body is invalid"` // The error for the overall request, if any occurred
}

func (t *TaskCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TaskResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TaskResponse struct {
	Data  *Task   `json:"data"`                                                          // Data for the task
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TaskQueryFilter struct {
	AssignedTo sp_uuid.UUID `form:"assignedTo"`                 // By ID of the assignee
	Status     string       `form:"status"`                     // By status
	Priority   string       `form:"priority"`                   // By priority
	Category   string       `form:"category"`                   // By category
	Search     string       `form:"search" filterField:"false"` // Substring match over title and description
	Offset     uint         `form:"offset" filterField:"false"` // The offset of the first task returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`  // Maximum number of tasks to return. Defaults to 50.
}

func (f TaskQueryFilter) model() models.Task {
	return models.Task{
		AssignedTo: &f.AssignedTo.UUID,
		Status:     f.Status,
		Priority:   f.Priority,
		Category:   f.Category,
	}
}
