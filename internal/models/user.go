package models

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// User is an account that can log in to Staffplan.
type User struct {
	DefaultModel
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
	FirstName    string
	LastName     string
	Phone        string
	Department   string
	Active       bool
	SuperAdmin   bool
	LastLoginAt  *time.Time
	Roles        []Role `gorm:"many2many:user_roles" json:"-"`
}

var (
	ErrUserEmailNotUnique      = errors.New("a user with this email address already exists")
	ErrUserEmailRequired       = errors.New("the email address must be set")
	ErrUserSuperAdminProtected = errors.New("the super admin account cannot be deactivated or deleted")
)

// BeforeSave normalizes the email address and trims whitespace from all strings
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	u.Phone = strings.TrimSpace(u.Phone)
	u.Department = strings.TrimSpace(u.Department)

	return nil
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	_ = u.DefaultModel.BeforeCreate(tx)

	if u.Email == "" {
		return ErrUserEmailRequired
	}

	return nil
}

// BeforeUpdate protects the super admin account. On updates the receiver
// holds the values being written, the loaded record is the statement model.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	current, ok := tx.Statement.Model.(*User)
	if !ok {
		return nil
	}

	if current.SuperAdmin && current.Active && tx.Statement.Changed("Active") {
		return ErrUserSuperAdminProtected
	}

	if tx.Statement.Changed("Email") && u.Email == "" {
		return ErrUserEmailRequired
	}

	return nil
}

func (u *User) BeforeDelete(_ *gorm.DB) error {
	if u.SuperAdmin {
		return ErrUserSuperAdminProtected
	}

	return nil
}

// FullName returns the name to display for the user, falling back to the
// email address when no name is set.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}

	return name
}

// UsersWithPermission returns all active users whose roles grant the
// permission code. Active super admins are always part of the result.
func UsersWithPermission(db *gorm.DB, code string) ([]User, error) {
	var users []User
	err := db.Model(&User{}).
		Distinct("users.*").
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id AND roles.deleted_at IS NULL").
		Joins("JOIN role_permissions ON role_permissions.role_id = roles.id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("permissions.code = ? AND users.active = ?", code, true).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	var admins []User
	err = db.Where("super_admin = ? AND active = ?", true, true).Find(&admins).Error
	if err != nil {
		return nil, err
	}

	for _, admin := range admins {
		contained := slices.ContainsFunc(users, func(u User) bool {
			return u.ID == admin.ID
		})

		if !contained {
			users = append(users, admin)
		}
	}

	return users, nil
}

// Permissions resolves all permission codes the user holds through its roles.
// The result is resolved once per request by the authentication middleware,
// handlers check against the returned set.
func (u User) Permissions(db *gorm.DB) (PermissionSet, error) {
	var codes []string
	err := db.Model(&Permission{}).
		Distinct().
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id AND roles.deleted_at IS NULL").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", u.ID).
		Pluck("permissions.code", &codes).Error
	if err != nil {
		return nil, err
	}

	set := make(PermissionSet, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}

	return set, nil
}
