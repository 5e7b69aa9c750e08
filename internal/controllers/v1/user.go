package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/auth"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterUserRoutes registers the routes for users with
// the RouterGroup that is passed.
func RegisterUserRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsUserList)
		r.GET("", GetUsers)
		r.POST("", CreateUsers)
	}

	// User with ID
	{
		r.OPTIONS("/:id", OptionsUserDetail)
		r.GET("/:id", GetUser)
		r.PATCH("/:id", UpdateUser)
		r.DELETE("/:id", DeleteUser)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Users
// @Success		204
// @Router			/v1/users [options]
func OptionsUserList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Users
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id} [options]
func OptionsUserDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.User{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create users
// @Description	Creates new user accounts. Requires the "users.create" permission, assigning roles additionally requires "roles.manage".
// @Tags			Users
// @Produce		json
// @Success		201		{object}	UserCreateResponse
// @Failure		400		{object}	UserCreateResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	UserCreateResponse
// @Failure		500		{object}	UserCreateResponse
// @Param			users	body		[]UserEditable	true	"Users"
// @Router			/v1/users [post]
func CreateUsers(c *gin.Context) {
	if !requirePermission(c, "users.create") {
		return
	}

	var editables []UserEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserCreateResponse{
			Error: &e,
		})
		return
	}

	// Assigning roles is a separate capability, check it once up front
	for _, editable := range editables {
		if len(editable.RoleIDs) != 0 && !requirePermission(c, "roles.manage") {
			return
		}
	}

	actor := currentUser(c)

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := UserCreateResponse{}

	for _, editable := range editables {
		if len(editable.Password) < 8 {
			status = r.appendError(errPasswordTooShort, status)
			continue
		}

		hash, err := auth.HashPassword(editable.Password)
		if err != nil {
			status = r.appendError(models.ErrGeneral, status)
			continue
		}

		user := editable.model()
		user.PasswordHash = hash

		if len(editable.RoleIDs) != 0 {
			var roles []models.Role
			err = models.DB.Where("id IN ?", editable.RoleIDs).Find(&roles).Error
			if err != nil {
				status = r.appendError(err, status)
				continue
			}

			if len(roles) != len(editable.RoleIDs) {
				status = r.appendError(models.ErrResourceNotFound, status)
				continue
			}

			user.Roles = roles
		}

		err = models.DB.Create(&user).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		// New accounts start with the default leave balances for the
		// current year and a welcome popup
		err = models.CreateDefaultAllocations(models.DB, user.ID, time.Now().Year())
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		welcome := models.Notification{
			UserID:  user.ID,
			Title:   "Welcome to Staffplan!",
			Message: "Your account has been created by an administrator.",
			Type:    models.NotificationTypeSuccess,
			Popup:   true,
		}
		err = models.DB.Create(&welcome).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		models.Audit(models.DB, &actor.ID, "user.create", "user", &user.ID, fmt.Sprintf("Created user: %s", user.Email), c.ClientIP())

		data, err := newUser(c, models.DB, user)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, UserResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get users
// @Description	Returns a list of users
// @Tags			Users
// @Produce		json
// @Success		200	{object}	UserListResponse
// @Failure		400	{object}	UserListResponse
// @Failure		403	{object}	httpError
// @Failure		500	{object}	UserListResponse
// @Router			/v1/users [get]
// @Param			email		query	string	false	"Filter by exact email address"
// @Param			department	query	string	false	"Filter by department"
// @Param			active		query	bool	false	"Is the user active?"
// @Param			role		query	string	false	"Filter by ID of an assigned role"
// @Param			search		query	string	false	"Search for this text in name and email"
// @Param			offset		query	uint	false	"The offset of the first user returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of users to return. Defaults to 50."
func GetUsers(c *gin.Context) {
	if !requirePermission(c, "users.view") {
		return
	}

	var filter UserQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()

	q := models.DB.
		Order("first_name ASC, last_name ASC").
		Where(&filterModel, queryFields...)

	if slices.Contains(setFields, "Role") {
		q = q.
			Joins("JOIN user_roles ON user_roles.user_id = users.id").
			Where("user_roles.role_id = ?", filter.Role)
	}

	if slices.Contains(setFields, "Search") {
		q = searchFilter(models.DB, q, filter.Search, "first_name", "last_name", "email")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 users and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var users []models.User
	err := q.Find(&users).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserListResponse{
			Error: &e,
		})
		return
	}

	data := make([]User, 0)
	for _, user := range users {
		apiResource, err := newUser(c, models.DB, user)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), UserListResponse{
				Error: &s,
			})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, UserListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get user
// @Description	Returns a specific user
// @Tags			Users
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		400	{object}	UserResponse
// @Failure		403	{object}	httpError
// @Failure		404	{object}	UserResponse
// @Failure		500	{object}	UserResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id} [get]
func GetUser(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{
			Error: &s,
		})
		return
	}

	// Users can always read their own account
	if uri.ID.UUID != currentUser(c).ID && !requirePermission(c, "users.view") {
		return
	}

	var user models.User
	err = models.DB.First(&user, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{
			Error: &s,
		})
		return
	}

	data, err := newUser(c, models.DB, user)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, UserResponse{Data: &data})
}

// @Summary		Update user
// @Description	Update an existing user. Only values to be updated need to be specified. Changing roles requires the "roles.manage" permission.
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		200		{object}	UserResponse
// @Failure		400		{object}	UserResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	UserResponse
// @Failure		500		{object}	UserResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			user	body		UserEditable	true	"User"
// @Router			/v1/users/{id} [patch]
func UpdateUser(c *gin.Context) {
	if !requirePermission(c, "users.edit") {
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{
			Error: &s,
		})
		return
	}

	var user models.User
	err = models.DB.First(&user, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, UserEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{
			Error: &s,
		})
		return
	}

	var data UserEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{
			Error: &s,
		})
		return
	}

	// Password and roles are not columns on the user, they are handled below
	var updatePassword, updateRoles bool
	columns := make([]any, 0, len(updateFields))
	for _, field := range updateFields {
		switch field {
		case "Password":
			updatePassword = true
		case "RoleIDs":
			updateRoles = true
		default:
			columns = append(columns, field)
		}
	}

	// All checks happen before the first write so that a rejected request
	// leaves the user untouched
	if updateRoles && !requirePermission(c, "roles.manage") {
		return
	}

	if updatePassword && len(data.Password) < 8 {
		s := errPasswordTooShort.Error()
		c.JSON(status(errPasswordTooShort), UserResponse{
			Error: &s,
		})
		return
	}

	var roles []models.Role
	if updateRoles {
		err = models.DB.Where("id IN ?", data.RoleIDs).Find(&roles).Error
		if err == nil && len(roles) != len(data.RoleIDs) {
			err = models.ErrResourceNotFound
		}
		if err != nil {
			s := err.Error()
			c.JSON(status(err), UserResponse{
				Error: &s,
			})
			return
		}
	}

	if len(columns) != 0 {
		err = models.DB.Model(&user).Select("", columns...).Updates(data.model()).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), UserResponse{
				Error: &s,
			})
			return
		}
	}

	if updatePassword {
		hash, err := auth.HashPassword(data.Password)
		if err != nil {
			s := models.ErrGeneral.Error()
			c.JSON(http.StatusInternalServerError, UserResponse{
				Error: &s,
			})
			return
		}

		err = models.DB.Model(&user).Select("PasswordHash").Updates(models.User{PasswordHash: hash}).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), UserResponse{
				Error: &s,
			})
			return
		}
	}

	if updateRoles {
		err = models.DB.Model(&user).Association("Roles").Replace(roles)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), UserResponse{
				Error: &s,
			})
			return
		}
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, "user.update", "user", &user.ID, fmt.Sprintf("Updated user: %s", user.Email), c.ClientIP())

	r, err := newUser(c, models.DB, user)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, UserResponse{Data: &r})
}

// @Summary		Delete user
// @Description	Deletes a user. The super admin account and the own account cannot be deleted.
// @Tags			Users
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id} [delete]
func DeleteUser(c *gin.Context) {
	if !requirePermission(c, "users.delete") {
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

	actor := currentUser(c)
	if uri.ID.UUID == actor.ID {
		c.JSON(status(errDeleteSelf), httpError{
			Error: errDeleteSelf.Error(),
		})
		return
	}

	var user models.User
	err = models.DB.First(&user, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&user).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	models.Audit(models.DB, &actor.ID, "user.delete", "user", &user.ID, fmt.Sprintf("Deleted user: %s", user.Email), c.ClientIP())

	c.JSON(http.StatusNoContent, nil)
}
