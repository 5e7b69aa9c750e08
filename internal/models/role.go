package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a named set of permissions that can be assigned to users.
type Role struct {
	DefaultModel
	Name        string `gorm:"uniqueIndex"`
	Description string
	System      bool
	CreatedBy   uuid.UUID
	Permissions []Permission `gorm:"many2many:role_permissions" json:"-"`
}

var (
	ErrRoleNameNotUnique   = errors.New("the role name must be unique")
	ErrRoleNameRequired    = errors.New("the role name must be set")
	ErrRoleSystemProtected = errors.New("system roles cannot be changed or deleted")
)

func (r *Role) BeforeSave(_ *gorm.DB) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)

	return nil
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	if r.Name == "" {
		return ErrRoleNameRequired
	}

	return nil
}

// BeforeUpdate blocks renaming system roles. The loaded record is the
// statement model, the receiver holds the values being written.
func (r *Role) BeforeUpdate(tx *gorm.DB) error {
	if !tx.Statement.Changed("Name") {
		return nil
	}

	if current, ok := tx.Statement.Model.(*Role); ok && current.System {
		return ErrRoleSystemProtected
	}

	if r.Name == "" {
		return ErrRoleNameRequired
	}

	return nil
}

func (r *Role) BeforeDelete(_ *gorm.DB) error {
	if r.System {
		return ErrRoleSystemProtected
	}

	return nil
}
