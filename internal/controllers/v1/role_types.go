package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/models"
	"gorm.io/gorm"
)

// RoleEditable represents all role configurable parameters
type RoleEditable struct {
	Name          string      `json:"name" example:"Shift Lead"`
	Description   string      `json:"description" example:"Runs the floor on weekends"`
	PermissionIDs []uuid.UUID `json:"permissionIds"` // IDs of the permissions the role grants
}

func (editable RoleEditable) model() models.Role {
	return models.Role{
		Name:        editable.Name,
		Description: editable.Description,
	}
}

type RoleLinks struct {
	Self  string `json:"self" example:"https://example.com/v1/roles/af892e10-7e0a-4f8f-b857-c66f6091a2f0"`
	Users string `json:"users" example:"https://example.com/v1/users?role=af892e10-7e0a-4f8f-b857-c66f6091a2f0"`
}

type Role struct {
	models.DefaultModel
	Name        string       `json:"name" example:"Shift Lead"`
	Description string       `json:"description" example:"Runs the floor on weekends"`
	System      bool         `json:"system" example:"false"`
	Permissions []Permission `json:"permissions"`
	Links       RoleLinks    `json:"links"`
}

func newRole(c *gin.Context, db *gorm.DB, model models.Role) (Role, error) {
	url := c.GetString(string(models.DBContextURL))

	role := Role{
		DefaultModel: model.DefaultModel,
		Name:         model.Name,
		Description:  model.Description,
		System:       model.System,
		Permissions:  make([]Permission, 0),
		Links: RoleLinks{
			Self:  fmt.Sprintf("%s/v1/roles/%s", url, model.ID),
			Users: fmt.Sprintf("%s/v1/users?role=%s", url, model.ID),
		},
	}

	var permissions []models.Permission
	err := db.Model(&model).Association("Permissions").Find(&permissions)
	if err != nil {
		return Role{}, err
	}

	for _, permission := range permissions {
		role.Permissions = append(role.Permissions, newPermission(permission))
	}

	return role, nil
}

type RoleListResponse struct {
	Data       []Role      `json:"data"`                                                          // List of roles
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type RoleCreateResponse struct {
	Data  []RoleResponse `json:"data"`                                                          // List of the created roles or their respective error
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *RoleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, RoleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type RoleResponse struct {
	Data  *Role   `json:"data"`                                                          // Data for the role
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type RoleQueryFilter struct {
	Name   string `form:"name"`                       // By exact name
	Search string `form:"search" filterField:"false"` // By string in name or description
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first role returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of roles to return. Defaults to 50.
}

func (f RoleQueryFilter) model() models.Role {
	return models.Role{
		Name: f.Name,
	}
}
