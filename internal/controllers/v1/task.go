package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterTaskRoutes registers the routes for tasks with
// the RouterGroup that is passed.
func RegisterTaskRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTaskList)
		r.GET("", GetTasks)
		r.POST("", CreateTasks)
	}

	// Task with ID
	{
		r.OPTIONS("/:id", OptionsTaskDetail)
		r.GET("/:id", GetTask)
		r.PATCH("/:id", UpdateTask)
		r.DELETE("/:id", DeleteTask)
	}

	// Status changes
	{
		r.OPTIONS("/:id/status", OptionsTaskStatus)
		r.POST("/:id/status", UpdateTaskStatus)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tasks
// @Success		204
// @Router			/v1/tasks [options]
func OptionsTaskList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tasks
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/tasks/{id} [options]
func OptionsTaskDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Task{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tasks
// @Success		204
// @Failure		400	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/tasks/{id}/status [options]
func OptionsTaskStatus(c *gin.Context) {
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

// @Summary		Create tasks
// @Description	Creates new tasks. Assignees are notified about their new tasks.
// @Tags			Tasks
// @Accept			json
// @Produce		json
// @Success		201		{object}	TaskCreateResponse
// @Failure		400		{object}	TaskCreateResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	TaskCreateResponse
// @Failure		500		{object}	TaskCreateResponse
// @Param			tasks	body		[]TaskEditable	true	"Tasks"
// @Router			/v1/tasks [post]
func CreateTasks(c *gin.Context) {
	if !requirePermission(c, "tasks.create") {
		return
	}

	var editables []TaskEditable
	err := httputil.BindData(c, &editables)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskCreateResponse{
			Error: &s,
		})
		return
	}

	actor := currentUser(c)

	// The final response we return
	response := TaskCreateResponse{}

	// The final status we return
	responseStatus := http.StatusCreated

	for _, editable := range editables {
		if editable.AssignedTo != nil {
			err := models.DB.First(&models.User{}, *editable.AssignedTo).Error
			if err != nil {
				responseStatus = response.appendError(err, responseStatus)
				continue
			}
		}

		task := editable.model()
		task.AssignedBy = actor.ID

		err := models.DB.Create(&task).Error
		if err != nil {
			responseStatus = response.appendError(err, responseStatus)
			continue
		}

		if task.AssignedTo != nil && *task.AssignedTo != actor.ID {
			notification := models.Notification{
				UserID:      *task.AssignedTo,
				Title:       "New Task Assigned",
				Message:     fmt.Sprintf("You have been assigned a new task: %s", task.Title),
				Type:        models.NotificationTypeTask,
				Popup:       true,
				RelatedID:   &task.ID,
				RelatedType: "task",
			}

			err = models.DB.Create(&notification).Error
			if err != nil {
				responseStatus = response.appendError(err, responseStatus)
				continue
			}
		}

		models.Audit(models.DB, &actor.ID, "task.create", "task", &task.ID, fmt.Sprintf("Created task: %s", task.Title), c.ClientIP())

		data := newTask(c, task)
		response.Data = append(response.Data, TaskResponse{Data: &data})
	}

	c.JSON(responseStatus, response)
}

// @Summary		Get tasks
// @Description	Returns the tasks assigned to the authenticated user. With the "tasks.view_all" permission all tasks can be read.
// @Tags			Tasks
// @Produce		json
// @Success		200	{object}	TaskListResponse
// @Failure		400	{object}	TaskListResponse
// @Failure		403	{object}	httpError
// @Failure		500	{object}	TaskListResponse
// @Router			/v1/tasks [get]
// @Param			assignedTo	query	string	false	"Filter by ID of the assignee. Requires the \"tasks.view_all\" permission for other users."
// @Param			status		query	string	false	"Filter by status"
// @Param			priority	query	string	false	"Filter by priority"
// @Param			category	query	string	false	"Filter by category"
// @Param			search		query	string	false	"Substring match over title and description"
// @Param			offset		query	uint	false	"The offset of the first task returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of tasks to return. Defaults to 50."
func GetTasks(c *gin.Context) {
	var filter TaskQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	user := currentUser(c)

	// Without "tasks.view_all" users only see tasks assigned to them
	if slices.Contains(setFields, "AssignedTo") && filter.AssignedTo.UUID != user.ID {
		if !requirePermission(c, "tasks.view_all") {
			return
		}
	}

	filterModel := filter.model()

	// Urgent tasks first, within a priority the earliest due date wins and
	// tasks without a due date go last
	q := models.DB.
		Order("CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, due_date IS NULL, due_date ASC, created_at DESC").
		Where(&filterModel, queryFields...)

	if !hasPermission(c, "tasks.view_all") {
		q = q.Where("assigned_to = ?", user.ID)
	}

	q = searchFilter(models.DB, q, filter.Search, "title", "description")

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 tasks and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var tasks []models.Task
	err := q.Find(&tasks).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TaskListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Task, 0)
	for _, task := range tasks {
		data = append(data, newTask(c, task))
	}

	c.JSON(http.StatusOK, TaskListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get task
// @Description	Returns a specific task
// @Tags			Tasks
// @Produce		json
// @Success		200	{object}	TaskResponse
// @Failure		400	{object}	TaskResponse
// @Failure		403	{object}	httpError
// @Failure		404	{object}	TaskResponse
// @Failure		500	{object}	TaskResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/tasks/{id} [get]
func GetTask(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskResponse{
			Error: &s,
		})
		return
	}

	var task models.Task
	err = models.DB.First(&task, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskResponse{
			Error: &s,
		})
		return
	}

	user := currentUser(c)
	if (task.AssignedTo == nil || *task.AssignedTo != user.ID) && !requirePermission(c, "tasks.view_all") {
		return
	}

	data := newTask(c, task)
	c.JSON(http.StatusOK, TaskResponse{Data: &data})
}

// @Summary		Update task
// @Description	Update an existing task. Only values to be updated need to be specified. A new assignee is notified about the task.
// @Tags			Tasks
// @Accept			json
// @Produce		json
// @Success		200		{object}	TaskResponse
// @Failure		400		{object}	TaskResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	TaskResponse
// @Failure		500		{object}	TaskResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			task	body		TaskEditable	true	"Task"
// @Router			/v1/tasks/{id} [patch]
func UpdateTask(c *gin.Context) {
	if !requirePermission(c, "tasks.edit") {
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskResponse{
			Error: &s,
		})
		return
	}

	var task models.Task
	err = models.DB.First(&task, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TaskEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskResponse{
			Error: &s,
		})
		return
	}

	var editable TaskEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskResponse{
			Error: &s,
		})
		return
	}

	updateAssignee := false
	updateStatus := false
	for _, field := range updateFields {
		switch field {
		case "AssignedTo":
			updateAssignee = true
		case "Status":
			updateStatus = true
		}
	}

	// All checks happen before the first write so that a rejected request
	// leaves the task untouched
	if updateAssignee && editable.AssignedTo != nil {
		err := models.DB.First(&models.User{}, *editable.AssignedTo).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TaskResponse{
				Error: &s,
			})
			return
		}
	}

	data := editable.model()

	// Completing a task records the completion time, leaving the completed
	// status clears it again
	if updateStatus {
		completedAt := task.CompletedAt
		if editable.Status == models.TaskStatusCompleted {
			if completedAt == nil {
				now := time.Now()
				completedAt = &now
			}
		} else {
			completedAt = nil
		}

		data.CompletedAt = completedAt
		updateFields = append(updateFields, "CompletedAt")
	}

	oldAssignee := task.AssignedTo

	err = models.DB.Model(&task).Select("", updateFields...).Updates(data).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskResponse{
			Error: &s,
		})
		return
	}

	actor := currentUser(c)

	if updateAssignee && task.AssignedTo != nil && (oldAssignee == nil || *task.AssignedTo != *oldAssignee) && *task.AssignedTo != actor.ID {
		notification := models.Notification{
			UserID:      *task.AssignedTo,
			Title:       "Task Assigned to You",
			Message:     fmt.Sprintf("You have been assigned the task: %s", task.Title),
			Type:        models.NotificationTypeTask,
			Popup:       true,
			RelatedID:   &task.ID,
			RelatedType: "task",
		}

		err = models.DB.Create(&notification).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TaskResponse{
				Error: &s,
			})
			return
		}
	}

	models.Audit(models.DB, &actor.ID, "task.update", "task", &task.ID, fmt.Sprintf("Updated task: %s", task.Title), c.ClientIP())

	responseData := newTask(c, task)
	c.JSON(http.StatusOK, TaskResponse{Data: &responseData})
}

// @Summary		Update task status
// @Description	Moves a task into a new status. Assignees can update their own tasks, any other task needs the "tasks.edit" permission. Completing a task notifies the user who assigned it.
// @Tags			Tasks
// @Accept			json
// @Produce		json
// @Success		200		{object}	TaskResponse
// @Failure		400		{object}	TaskResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	TaskResponse
// @Failure		500		{object}	TaskResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			status	body		TaskStatusEditable	true	"Status"
// @Router			/v1/tasks/{id}/status [post]
func UpdateTaskStatus(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskResponse{
			Error: &s,
		})
		return
	}

	var task models.Task
	err = models.DB.First(&task, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskResponse{
			Error: &s,
		})
		return
	}

	user := currentUser(c)
	isAssignee := task.AssignedTo != nil && *task.AssignedTo == user.ID
	if !isAssignee && !requirePermission(c, "tasks.edit") {
		return
	}

	var editable TaskStatusEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskResponse{
			Error: &s,
		})
		return
	}

	err = task.UpdateStatus(models.DB, editable.Status)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TaskResponse{
			Error: &s,
		})
		return
	}

	if task.Status == models.TaskStatusCompleted && task.AssignedBy != user.ID {
		notification := models.Notification{
			UserID:      task.AssignedBy,
			Title:       "Task Completed",
			Message:     fmt.Sprintf("Task \"%s\" has been marked as completed by %s", task.Title, user.FullName()),
			Type:        models.NotificationTypeTask,
			Popup:       true,
			RelatedID:   &task.ID,
			RelatedType: "task",
		}

		err = models.DB.Create(&notification).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TaskResponse{
				Error: &s,
			})
			return
		}
	}

	data := newTask(c, task)
	c.JSON(http.StatusOK, TaskResponse{Data: &data})
}

// @Summary		Delete task
// @Description	Deletes a task
// @Tags			Tasks
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/tasks/{id} [delete]
func DeleteTask(c *gin.Context) {
	if !requirePermission(c, "tasks.delete") {
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

	var task models.Task
	err = models.DB.First(&task, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&task).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, "task.delete", "task", &task.ID, fmt.Sprintf("Deleted task: %s", task.Title), c.ClientIP())

	c.JSON(http.StatusNoContent, nil)
}
