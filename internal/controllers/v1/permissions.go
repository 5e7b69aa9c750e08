package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffplan/backend/internal/models"
)

// currentUser returns the user the authentication middleware resolved for
// this request.
func currentUser(c *gin.Context) models.User {
	return c.MustGet(string(models.DBContextUser)).(models.User)
}

// currentPermissions returns the permission set the authentication middleware
// resolved for this request.
func currentPermissions(c *gin.Context) models.PermissionSet {
	return c.MustGet(string(models.DBContextPermissions)).(models.PermissionSet)
}

// hasPermission reports whether the current user holds the permission.
// Super admins hold every permission.
func hasPermission(c *gin.Context, code string) bool {
	if currentUser(c).SuperAdmin {
		return true
	}

	return currentPermissions(c).Has(code)
}

// requirePermission checks the permission and responds with 403 when the
// current user does not hold it. Handlers must return when it reports false.
func requirePermission(c *gin.Context, code string) bool {
	if hasPermission(c, code) {
		return true
	}

	c.JSON(http.StatusForbidden, httpError{
		Error: models.ErrNoPermission.Error(),
	})

	return false
}
