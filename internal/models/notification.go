package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeInfo    = "info"
	NotificationTypeSuccess = "success"
	NotificationTypeWarning = "warning"
	NotificationTypeError   = "error"
	NotificationTypeShift   = "shift"
	NotificationTypeLeave   = "leave"
	NotificationTypeTask    = "task"
)

// Notification is a message for one user. Popup notifications are shown once
// as an overlay, dismissing marks them read and removes them from the
// overlay while keeping them in the list.
type Notification struct {
	DefaultModel
	User        User `json:"-"`
	UserID      uuid.UUID
	Title       string
	Message     string
	Type        string
	Read        bool
	Popup       bool
	RelatedID   *uuid.UUID
	RelatedType string
}

func (n *Notification) BeforeSave(_ *gorm.DB) error {
	n.Title = strings.TrimSpace(n.Title)
	n.Message = strings.TrimSpace(n.Message)

	if n.Type == "" {
		n.Type = NotificationTypeInfo
	}

	return nil
}
