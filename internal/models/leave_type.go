package models

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// LeaveType is a category of leave users can request, e.g. annual or sick
// leave. Leave types that have been used are deactivated, never deleted.
type LeaveType struct {
	DefaultModel
	Name             string `gorm:"uniqueIndex"`
	Description      string
	Color            string
	Paid             bool
	RequiresApproval bool
	Active           bool
}

var (
	ErrLeaveTypeNameNotUnique = errors.New("the leave type name must be unique")
	ErrLeaveTypeNameRequired  = errors.New("the leave type name must be set")
	ErrLeaveTypeInvalidColor  = errors.New("the color must be a hex value like #10B981")
	ErrLeaveTypeNotActive     = errors.New("this leave type is not active")
)

var colorPattern = regexp.MustCompile("^#[0-9a-fA-F]{6}$")

// BeforeSave trims strings, defaults the color and validates it
func (l *LeaveType) BeforeSave(_ *gorm.DB) error {
	l.Name = strings.TrimSpace(l.Name)
	l.Description = strings.TrimSpace(l.Description)
	l.Color = strings.TrimSpace(l.Color)

	if l.Color == "" {
		l.Color = "#3B82F6"
	}

	if !colorPattern.MatchString(l.Color) {
		return ErrLeaveTypeInvalidColor
	}

	return nil
}

func (l *LeaveType) BeforeCreate(tx *gorm.DB) error {
	_ = l.DefaultModel.BeforeCreate(tx)

	if l.Name == "" {
		return ErrLeaveTypeNameRequired
	}

	return nil
}

func (l *LeaveType) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("Name") && l.Name == "" {
		return ErrLeaveTypeNameRequired
	}

	return nil
}
