package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/models"
	sp_uuid "github.com/staffplan/backend/internal/uuid"
	"gorm.io/gorm"
)

// UserEditable represents all user configurable parameters
type UserEditable struct {
	Email      string      `json:"email" example:"jane.doe@example.com"`
	Password   string      `json:"password" example:"correct horse battery staple"` // Only processed on create and when set on updates
	FirstName  string      `json:"firstName" example:"Jane"`
	LastName   string      `json:"lastName" example:"Doe"`
	Phone      string      `json:"phone" example:"+49 555 1234567"`
	Department string      `json:"department" example:"Front Desk"`
	Active     *bool       `json:"active" example:"true"` // Defaults to true on creation
	RoleIDs    []uuid.UUID `json:"roleIds"`               // IDs of the roles assigned to the user
}

func (editable UserEditable) model() models.User {
	active := true
	if editable.Active != nil {
		active = *editable.Active
	}

	return models.User{
		Email:      editable.Email,
		FirstName:  editable.FirstName,
		LastName:   editable.LastName,
		Phone:      editable.Phone,
		Department: editable.Department,
		Active:     active,
	}
}

type UserLinks struct {
	Self          string `json:"self" example:"https://example.com/v1/users/af892e10-7e0a-4f8f-b857-c66f6091a2f0"`
	Schedules     string `json:"schedules" example:"https://example.com/v1/schedules?user=af892e10-7e0a-4f8f-b857-c66f6091a2f0"`
	LeaveRequests string `json:"leaveRequests" example:"https://example.com/v1/leave-requests?user=af892e10-7e0a-4f8f-b857-c66f6091a2f0"`
	Allocations   string `json:"allocations" example:"https://example.com/v1/leave-allocations?user=af892e10-7e0a-4f8f-b857-c66f6091a2f0"`
}

type User struct {
	models.DefaultModel
	Email       string     `json:"email" example:"jane.doe@example.com"`
	FirstName   string     `json:"firstName" example:"Jane"`
	LastName    string     `json:"lastName" example:"Doe"`
	FullName    string     `json:"fullName" example:"Jane Doe"`
	Phone       string     `json:"phone" example:"+49 555 1234567"`
	Department  string     `json:"department" example:"Front Desk"`
	Active      bool       `json:"active" example:"true"`
	SuperAdmin  bool       `json:"superAdmin" example:"false"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	Roles       []Role     `json:"roles"`
	Links       UserLinks  `json:"links"`
}

func newUser(c *gin.Context, db *gorm.DB, model models.User) (User, error) {
	url := c.GetString(string(models.DBContextURL))

	user := User{
		DefaultModel: model.DefaultModel,
		Email:        model.Email,
		FirstName:    model.FirstName,
		LastName:     model.LastName,
		FullName:     model.FullName(),
		Phone:        model.Phone,
		Department:   model.Department,
		Active:       model.Active,
		SuperAdmin:   model.SuperAdmin,
		LastLoginAt:  model.LastLoginAt,
		Roles:        make([]Role, 0),
		Links: UserLinks{
			Self:          fmt.Sprintf("%s/v1/users/%s", url, model.ID),
			Schedules:     fmt.Sprintf("%s/v1/schedules?user=%s", url, model.ID),
			LeaveRequests: fmt.Sprintf("%s/v1/leave-requests?user=%s", url, model.ID),
			Allocations:   fmt.Sprintf("%s/v1/leave-allocations?user=%s", url, model.ID),
		},
	}

	var roles []models.Role
	err := db.Model(&model).Association("Roles").Find(&roles)
	if err != nil {
		return User{}, err
	}

	for _, role := range roles {
		apiRole, err := newRole(c, db, role)
		if err != nil {
			return User{}, err
		}

		user.Roles = append(user.Roles, apiRole)
	}

	return user, nil
}

type UserListResponse struct {
	Data       []User      `json:"data"`                                                          // List of users
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type UserCreateResponse struct {
	Data  []UserResponse `json:"data"`                                                          // List of the created users or their respective error
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (u *UserCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	u.Data = append(u.Data, UserResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type UserResponse struct {
	Data  *User   `json:"data"`                                                          // Data for the user
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type UserQueryFilter struct {
	Email      string       `form:"email"`                      // By exact email address
	Department string       `form:"department"`                 // By department
	Active     bool         `form:"active"`                     // Is the user active?
	Role       sp_uuid.UUID `form:"role" filterField:"false"`   // By ID of an assigned role
	Search     string       `form:"search" filterField:"false"` // By string in name or email
	Offset     uint         `form:"offset" filterField:"false"` // The offset of the first user returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`  // Maximum number of users to return. Defaults to 50.
}

func (f UserQueryFilter) model() models.User {
	return models.User{
		Email:      f.Email,
		Department: f.Department,
		Active:     f.Active,
	}
}
