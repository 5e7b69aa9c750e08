package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterBoardPostRoutes registers the routes for the notice board with
// the RouterGroup that is passed.
func RegisterBoardPostRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBoardPostList)
		r.GET("", GetBoardPosts)
		r.POST("", CreateBoardPosts)
	}

	// Upcoming events
	{
		r.OPTIONS("/events", OptionsBoardEvents)
		r.GET("/events", GetBoardEvents)
	}

	// Board post with ID
	{
		r.OPTIONS("/:id", OptionsBoardPostDetail)
		r.GET("/:id", GetBoardPost)
		r.PATCH("/:id", UpdateBoardPost)
		r.DELETE("/:id", DeleteBoardPost)
	}

	// Pinning
	{
		r.OPTIONS("/:id/pin", OptionsBoardPostPin)
		r.POST("/:id/pin", PinBoardPost)
		r.DELETE("/:id/pin", UnpinBoardPost)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Board
// @Success		204
// @Router			/v1/board [options]
func OptionsBoardPostList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Board
// @Success		204
// @Router			/v1/board/events [options]
func OptionsBoardEvents(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Board
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/board/{id} [options]
func OptionsBoardPostDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.BoardPost{}, uri.ID).Error
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
// @Tags			Board
// @Success		204
// @Failure		400	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/board/{id}/pin [options]
func OptionsBoardPostPin(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPostDelete(c)
}

// @Summary		Create board posts
// @Description	Creates new posts on the notice board. Creating a pinned post requires the "board.pin" permission. With notifyAll set, all active users are notified about the post.
// @Tags			Board
// @Accept			json
// @Produce		json
// @Success		201		{object}	BoardPostCreateResponse
// @Failure		400		{object}	BoardPostCreateResponse
// @Failure		403		{object}	httpError
// @Failure		500		{object}	BoardPostCreateResponse
// @Param			posts	body		[]BoardPostEditable	true	"Board posts"
// @Router			/v1/board [post]
func CreateBoardPosts(c *gin.Context) {
	if !requirePermission(c, "board.create") {
		return
	}

	var editables []BoardPostEditable
	err := httputil.BindData(c, &editables)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BoardPostCreateResponse{
			Error: &s,
		})
		return
	}

	actor := currentUser(c)

	// The final response we return
	response := BoardPostCreateResponse{}

	// The final status we return
	responseStatus := http.StatusCreated

	for _, editable := range editables {
		if editable.Pinned && !hasPermission(c, "board.pin") {
			responseStatus = response.appendError(models.ErrNoPermission, responseStatus)
			continue
		}

		post := editable.model()
		post.CreatedBy = actor.ID

		err := models.DB.Create(&post).Error
		if err != nil {
			responseStatus = response.appendError(err, responseStatus)
			continue
		}

		if editable.NotifyAll {
			err = notifyBoardPost(post, actor.ID)
			if err != nil {
				responseStatus = response.appendError(err, responseStatus)
				continue
			}
		}

		models.Audit(models.DB, &actor.ID, "board_post.create", "board_post", &post.ID, fmt.Sprintf("Created board post: %s", post.Title), c.ClientIP())

		data := newBoardPost(c, post)
		response.Data = append(response.Data, BoardPostResponse{Data: &data})
	}

	c.JSON(responseStatus, response)
}

// notifyBoardPost notifies all active users except the author about a new
// post. High and urgent posts pop up.
func notifyBoardPost(post models.BoardPost, authorID uuid.UUID) error {
	var users []models.User
	err := models.DB.Where("active = ?", true).Find(&users).Error
	if err != nil {
		return err
	}

	message := post.Content
	if runes := []rune(message); len(runes) > 200 {
		message = string(runes[:200]) + "..."
	}

	for _, user := range users {
		if user.ID == authorID {
			continue
		}

		notification := models.Notification{
			UserID:      user.ID,
			Title:       fmt.Sprintf("New %s: %s", models.BoardPostTypeLabels[post.Type], post.Title),
			Message:     message,
			Type:        models.NotificationTypeInfo,
			Popup:       post.Priority == "high" || post.Priority == "urgent",
			RelatedID:   &post.ID,
			RelatedType: "board_post",
		}

		err := models.DB.Create(&notification).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// @Summary		Get board posts
// @Description	Returns the posts currently on the board. Pinned posts come first, then higher priority, then the newest. Expired and inactive posts are not returned.
// @Tags			Board
// @Produce		json
// @Success		200	{object}	BoardPostListResponse
// @Failure		403	{object}	httpError
// @Failure		500	{object}	BoardPostListResponse
// @Router			/v1/board [get]
// @Param			type	query	string	false	"Filter by post type"
func GetBoardPosts(c *gin.Context) {
	if !requirePermission(c, "board.view") {
		return
	}

	var filter BoardPostQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	posts, err := models.ActiveBoardPosts(models.DB, filter.Type)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BoardPostListResponse{
			Error: &s,
		})
		return
	}

	data := make([]BoardPost, 0)
	for _, post := range posts {
		data = append(data, newBoardPost(c, post))
	}

	c.JSON(http.StatusOK, BoardPostListResponse{Data: data})
}

// @Summary		Get upcoming events
// @Description	Returns active event posts coming up, earliest first
// @Tags			Board
// @Produce		json
// @Success		200	{object}	BoardPostListResponse
// @Failure		403	{object}	httpError
// @Failure		500	{object}	BoardPostListResponse
// @Router			/v1/board/events [get]
// @Param			days	query	int	false	"How many days to look ahead. Defaults to 30."
// @Param			limit	query	int	false	"Maximum number of events to return. Defaults to 5."
func GetBoardEvents(c *gin.Context) {
	if !requirePermission(c, "board.view") {
		return
	}

	var filter BoardEventsQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	days := 30
	if slices.Contains(setFields, "Days") {
		days = filter.Days
	}

	limit := 5
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}

	posts, err := models.UpcomingEvents(models.DB, days, limit)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BoardPostListResponse{
			Error: &s,
		})
		return
	}

	data := make([]BoardPost, 0)
	for _, post := range posts {
		data = append(data, newBoardPost(c, post))
	}

	c.JSON(http.StatusOK, BoardPostListResponse{Data: data})
}

// @Summary		Get board post
// @Description	Returns a specific board post
// @Tags			Board
// @Produce		json
// @Success		200	{object}	BoardPostResponse
// @Failure		400	{object}	BoardPostResponse
// @Failure		403	{object}	httpError
// @Failure		404	{object}	BoardPostResponse
// @Failure		500	{object}	BoardPostResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/board/{id} [get]
func GetBoardPost(c *gin.Context) {
	if !requirePermission(c, "board.view") {
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BoardPostResponse{
			Error: &s,
		})
		return
	}

	var post models.BoardPost
	err = models.DB.First(&post, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BoardPostResponse{
			Error: &s,
		})
		return
	}

	data := newBoardPost(c, post)
	c.JSON(http.StatusOK, BoardPostResponse{Data: &data})
}

// @Summary		Update board post
// @Description	Update an existing board post. Only values to be updated need to be specified. Changing the pinned state requires the "board.pin" permission.
// @Tags			Board
// @Accept			json
// @Produce		json
// @Success		200		{object}	BoardPostResponse
// @Failure		400		{object}	BoardPostResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	BoardPostResponse
// @Failure		500		{object}	BoardPostResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			post	body		BoardPostEditable	true	"Board post"
// @Router			/v1/board/{id} [patch]
func UpdateBoardPost(c *gin.Context) {
	if !requirePermission(c, "board.edit") {
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BoardPostResponse{
			Error: &s,
		})
		return
	}

	var post models.BoardPost
	err = models.DB.First(&post, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BoardPostResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BoardPostEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BoardPostResponse{
			Error: &s,
		})
		return
	}

	var editable BoardPostEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BoardPostResponse{
			Error: &s,
		})
		return
	}

	updatePinned := false
	fields := make([]any, 0, len(updateFields))
	for _, field := range updateFields {
		// NotifyAll is only evaluated on creation and is not a column
		if field == "NotifyAll" {
			continue
		}

		if field == "Pinned" {
			updatePinned = true
		}

		fields = append(fields, field)
	}

	if updatePinned && !requirePermission(c, "board.pin") {
		return
	}

	err = models.DB.Model(&post).Select("", fields...).Updates(editable.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BoardPostResponse{
			Error: &s,
		})
		return
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, "board_post.update", "board_post", &post.ID, fmt.Sprintf("Updated board post: %s", post.Title), c.ClientIP())

	data := newBoardPost(c, post)
	c.JSON(http.StatusOK, BoardPostResponse{Data: &data})
}

// @Summary		Delete board post
// @Description	Deletes a board post
// @Tags			Board
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/board/{id} [delete]
func DeleteBoardPost(c *gin.Context) {
	if !requirePermission(c, "board.delete") {
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

	var post models.BoardPost
	err = models.DB.First(&post, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&post).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, "board_post.delete", "board_post", &post.ID, fmt.Sprintf("Deleted board post: %s", post.Title), c.ClientIP())

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Pin board post
// @Description	Pins a post to the top of the board
// @Tags			Board
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/board/{id}/pin [post]
func PinBoardPost(c *gin.Context) {
	setBoardPostPinned(c, true)
}

// @Summary		Unpin board post
// @Description	Removes the pin from a post
// @Tags			Board
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/board/{id}/pin [delete]
func UnpinBoardPost(c *gin.Context) {
	setBoardPostPinned(c, false)
}

func setBoardPostPinned(c *gin.Context, pinned bool) {
	if !requirePermission(c, "board.pin") {
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

	var post models.BoardPost
	err = models.DB.First(&post, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Model(&post).Select("Pinned").Updates(models.BoardPost{Pinned: pinned}).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	details := fmt.Sprintf("Pinned post: %s", post.Title)
	action := "board_post.pin"
	if !pinned {
		details = fmt.Sprintf("Unpinned post: %s", post.Title)
		action = "board_post.unpin"
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, action, "board_post", &post.ID, details, c.ClientIP())

	c.JSON(http.StatusNoContent, nil)
}
