package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/httputil"
	"github.com/staffplan/backend/internal/models"
)

// Permission is a single capability that can be granted through roles. The
// set of permissions is fixed, they are only ever read over the API.
type Permission struct {
	models.DefaultModel
	Code        string `json:"code" example:"leave.approve"`
	Name        string `json:"name" example:"Approve Leave"`
	Description string `json:"description" example:"Approve or reject leave requests"`
	Category    string `json:"category" example:"leave"`
}

func newPermission(model models.Permission) Permission {
	return Permission{
		DefaultModel: model.DefaultModel,
		Code:         model.Code,
		Name:         model.Name,
		Description:  model.Description,
		Category:     model.Category,
	}
}

type PermissionListResponse struct {
	Data  []Permission `json:"data"`                                                          // List of permissions
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// RegisterPermissionRoutes registers the routes for permissions with
// the RouterGroup that is passed.
func RegisterPermissionRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsPermissionList)
	r.GET("", GetPermissions)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Roles
// @Success		204
// @Router			/v1/permissions [options]
func OptionsPermissionList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get permissions
// @Description	Returns the list of all permissions, grouped by category
// @Tags			Roles
// @Produce		json
// @Success		200	{object}	PermissionListResponse
// @Failure		403	{object}	httpError
// @Failure		500	{object}	PermissionListResponse
// @Router			/v1/permissions [get]
func GetPermissions(c *gin.Context) {
	if !requirePermission(c, "roles.manage") {
		return
	}

	var permissions []models.Permission
	err := models.DB.Order("category ASC, name ASC").Find(&permissions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PermissionListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Permission, 0, len(permissions))
	for _, permission := range permissions {
		data = append(data, newPermission(permission))
	}

	c.JSON(http.StatusOK, PermissionListResponse{Data: data})
}
