package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/types"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

var (
	taskStatuses   = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled}
	taskPriorities = []string{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent}
)

// Task is a work item, optionally assigned to a user and due on a date.
type Task struct {
	DefaultModel
	Title       string
	Description string
	AssignedTo  *uuid.UUID
	AssignedBy  uuid.UUID
	DueDate     *types.Date
	DueTime     string
	Priority    string
	Status      string
	Category    string
	CompletedAt *time.Time
}

var (
	ErrTaskTitleRequired   = errors.New("the task title must be set")
	ErrTaskStatusInvalid   = errors.New("the status must be one of pending, in_progress, completed, cancelled")
	ErrTaskPriorityInvalid = errors.New("the priority must be one of low, medium, high, urgent")
	ErrTaskTimeInvalid     = errors.New("the due time must be in HH:MM format")
)

func (t *Task) BeforeSave(_ *gorm.DB) error {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	t.DueTime = strings.TrimSpace(t.DueTime)
	t.Category = strings.TrimSpace(t.Category)

	if t.Status == "" {
		t.Status = TaskStatusPending
	}

	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}

	if !slices.Contains(taskStatuses, t.Status) {
		return ErrTaskStatusInvalid
	}

	if !slices.Contains(taskPriorities, t.Priority) {
		return ErrTaskPriorityInvalid
	}

	if t.DueTime != "" && !timePattern.MatchString(t.DueTime) {
		return ErrTaskTimeInvalid
	}

	return nil
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	if t.Title == "" {
		return ErrTaskTitleRequired
	}

	return nil
}

func (t *Task) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("Title") && t.Title == "" {
		return ErrTaskTitleRequired
	}

	return nil
}

// UpdateStatus moves the task into the status. Completing a task records the
// completion time, leaving the completed status clears it again.
func (t *Task) UpdateStatus(db *gorm.DB, status string) error {
	if !slices.Contains(taskStatuses, status) {
		return ErrTaskStatusInvalid
	}

	completedAt := t.CompletedAt
	if status == TaskStatusCompleted {
		if completedAt == nil {
			now := time.Now()
			completedAt = &now
		}
	} else {
		completedAt = nil
	}

	err := db.Model(t).Select("Status", "CompletedAt").Updates(Task{Status: status, CompletedAt: completedAt}).Error
	if err != nil {
		return err
	}

	t.Status = status
	t.CompletedAt = completedAt

	return nil
}
