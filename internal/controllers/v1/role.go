package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterRoleRoutes registers the routes for roles with
// the RouterGroup that is passed.
func RegisterRoleRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsRoleList)
		r.GET("", GetRoles)
		r.POST("", CreateRoles)
	}

	// Role with ID
	{
		r.OPTIONS("/:id", OptionsRoleDetail)
		r.GET("/:id", GetRole)
		r.PATCH("/:id", UpdateRole)
		r.DELETE("/:id", DeleteRole)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Roles
// @Success		204
// @Router			/v1/roles [options]
func OptionsRoleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Roles
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/roles/{id} [options]
func OptionsRoleDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Role{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create roles
// @Description	Creates new roles
// @Tags			Roles
// @Produce		json
// @Success		201		{object}	RoleCreateResponse
// @Failure		400		{object}	RoleCreateResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	RoleCreateResponse
// @Failure		500		{object}	RoleCreateResponse
// @Param			roles	body		[]RoleEditable	true	"Roles"
// @Router			/v1/roles [post]
func CreateRoles(c *gin.Context) {
	if !requirePermission(c, "roles.manage") {
		return
	}

	var editables []RoleEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RoleCreateResponse{
			Error: &e,
		})
		return
	}

	actor := currentUser(c)

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := RoleCreateResponse{}

	for _, editable := range editables {
		role := editable.model()
		role.CreatedBy = actor.ID

		if len(editable.PermissionIDs) != 0 {
			var permissions []models.Permission
			err = models.DB.Where("id IN ?", editable.PermissionIDs).Find(&permissions).Error
			if err != nil {
				status = r.appendError(err, status)
				continue
			}

			if len(permissions) != len(editable.PermissionIDs) {
				status = r.appendError(models.ErrResourceNotFound, status)
				continue
			}

			role.Permissions = permissions
		}

		err = models.DB.Create(&role).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		models.Audit(models.DB, &actor.ID, "role.create", "role", &role.ID, fmt.Sprintf("Created role: %s", role.Name), c.ClientIP())

		data, err := newRole(c, models.DB, role)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, RoleResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get roles
// @Description	Returns a list of roles
// @Tags			Roles
// @Produce		json
// @Success		200	{object}	RoleListResponse
// @Failure		400	{object}	RoleListResponse
// @Failure		403	{object}	httpError
// @Failure		500	{object}	RoleListResponse
// @Router			/v1/roles [get]
// @Param			name	query	string	false	"Filter by exact name"
// @Param			search	query	string	false	"Search for this text in name and description"
// @Param			offset	query	uint	false	"The offset of the first role returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of roles to return. Defaults to 50."
func GetRoles(c *gin.Context) {
	if !requirePermission(c, "roles.manage") {
		return
	}

	var filter RoleQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()

	q := models.DB.
		Order("system DESC, name ASC").
		Where(&filterModel, queryFields...)

	if slices.Contains(setFields, "Search") {
		q = searchFilter(models.DB, q, filter.Search, "name", "description")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 roles and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var roles []models.Role
	err := q.Find(&roles).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RoleListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RoleListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Role, 0)
	for _, role := range roles {
		apiResource, err := newRole(c, models.DB, role)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), RoleListResponse{
				Error: &s,
			})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, RoleListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get role
// @Description	Returns a specific role
// @Tags			Roles
// @Produce		json
// @Success		200	{object}	RoleResponse
// @Failure		400	{object}	RoleResponse
// @Failure		403	{object}	httpError
// @Failure		404	{object}	RoleResponse
// @Failure		500	{object}	RoleResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/roles/{id} [get]
func GetRole(c *gin.Context) {
	if !requirePermission(c, "roles.manage") {
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RoleResponse{
			Error: &s,
		})
		return
	}

	var role models.Role
	err = models.DB.First(&role, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RoleResponse{
			Error: &s,
		})
		return
	}

	data, err := newRole(c, models.DB, role)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RoleResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, RoleResponse{Data: &data})
}

// @Summary		Update role
// @Description	Update an existing role. Only values to be updated need to be specified. The name and permissions of system roles are fixed.
// @Tags			Roles
// @Accept			json
// @Produce		json
// @Success		200		{object}	RoleResponse
// @Failure		400		{object}	RoleResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	RoleResponse
// @Failure		500		{object}	RoleResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			role	body		RoleEditable	true	"Role"
// @Router			/v1/roles/{id} [patch]
func UpdateRole(c *gin.Context) {
	if !requirePermission(c, "roles.manage") {
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RoleResponse{
			Error: &s,
		})
		return
	}

	var role models.Role
	err = models.DB.First(&role, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RoleResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, RoleEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RoleResponse{
			Error: &s,
		})
		return
	}

	var data RoleEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RoleResponse{
			Error: &s,
		})
		return
	}

	// The permission set is not a column on the role, it is replaced below
	var updatePermissions bool
	columns := make([]any, 0, len(updateFields))
	for _, field := range updateFields {
		if field == "PermissionIDs" {
			updatePermissions = true
			continue
		}
		columns = append(columns, field)
	}

	if updatePermissions && role.System {
		s := models.ErrRoleSystemProtected.Error()
		c.JSON(status(models.ErrRoleSystemProtected), RoleResponse{
			Error: &s,
		})
		return
	}

	var permissions []models.Permission
	if updatePermissions {
		err = models.DB.Where("id IN ?", data.PermissionIDs).Find(&permissions).Error
		if err == nil && len(permissions) != len(data.PermissionIDs) {
			err = models.ErrResourceNotFound
		}
		if err != nil {
			s := err.Error()
			c.JSON(status(err), RoleResponse{
				Error: &s,
			})
			return
		}
	}

	if len(columns) != 0 {
		err = models.DB.Model(&role).Select("", columns...).Updates(data.model()).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), RoleResponse{
				Error: &s,
			})
			return
		}
	}

	if updatePermissions {
		err = models.DB.Model(&role).Association("Permissions").Replace(permissions)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), RoleResponse{
				Error: &s,
			})
			return
		}
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, "role.update", "role", &role.ID, fmt.Sprintf("Updated role: %s", role.Name), c.ClientIP())

	r, err := newRole(c, models.DB, role)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RoleResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, RoleResponse{Data: &r})
}

// @Summary		Delete role
// @Description	Deletes a role. System roles cannot be deleted.
// @Tags			Roles
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/roles/{id} [delete]
func DeleteRole(c *gin.Context) {
	if !requirePermission(c, "roles.manage") {
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

	var role models.Role
	err = models.DB.First(&role, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&role).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	actor := currentUser(c)
	models.Audit(models.DB, &actor.ID, "role.delete", "role", &role.ID, fmt.Sprintf("Deleted role: %s", role.Name), c.ClientIP())

	c.JSON(http.StatusNoContent, nil)
}
