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
	BoardPostTypeAnnouncement = "announcement"
	BoardPostTypeEvent        = "event"
	BoardPostTypeTaskNeeded   = "task_needed"
	BoardPostTypeOperational  = "operational"
	BoardPostTypeReminder     = "reminder"
	BoardPostTypeCelebration  = "celebration"
)

var (
	boardPostTypes      = []string{BoardPostTypeAnnouncement, BoardPostTypeEvent, BoardPostTypeTaskNeeded, BoardPostTypeOperational, BoardPostTypeReminder, BoardPostTypeCelebration}
	boardPostPriorities = []string{"low", "normal", "high", "urgent"}
)

// BoardPostTypeLabels maps the post types to their display names, used for
// notification titles.
var BoardPostTypeLabels = map[string]string{
	BoardPostTypeAnnouncement: "Announcement",
	BoardPostTypeEvent:        "Event",
	BoardPostTypeTaskNeeded:   "Help Needed",
	BoardPostTypeOperational:  "Operational Info",
	BoardPostTypeReminder:     "Reminder",
	BoardPostTypeCelebration:  "Celebration",
}

// BoardPost is an entry on the staff notice board. Expired or inactive posts
// disappear from the board but stay stored.
type BoardPost struct {
	DefaultModel
	Title     string
	Content   string
	Type      string
	Priority  string
	EventDate *types.Date
	EventTime string
	ExpiresAt *time.Time
	Pinned    bool
	Active    bool
	CreatedBy uuid.UUID
}

var (
	ErrBoardPostTitleRequired   = errors.New("the post title must be set")
	ErrBoardPostContentRequired = errors.New("the post content must be set")
	ErrBoardPostTypeInvalid     = errors.New("the type must be one of announcement, event, task_needed, operational, reminder, celebration")
	ErrBoardPostPriorityInvalid = errors.New("the priority must be one of low, normal, high, urgent")
)

func (b *BoardPost) BeforeSave(_ *gorm.DB) error {
	b.Title = strings.TrimSpace(b.Title)
	b.Content = strings.TrimSpace(b.Content)
	b.EventTime = strings.TrimSpace(b.EventTime)

	if b.Type == "" {
		b.Type = BoardPostTypeAnnouncement
	}

	if b.Priority == "" {
		b.Priority = "normal"
	}

	if !slices.Contains(boardPostTypes, b.Type) {
		return ErrBoardPostTypeInvalid
	}

	if !slices.Contains(boardPostPriorities, b.Priority) {
		return ErrBoardPostPriorityInvalid
	}

	return nil
}

func (b *BoardPost) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	if b.Title == "" {
		return ErrBoardPostTitleRequired
	}

	if b.Content == "" {
		return ErrBoardPostContentRequired
	}

	return nil
}

func (b *BoardPost) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("Title") && b.Title == "" {
		return ErrBoardPostTitleRequired
	}

	if tx.Statement.Changed("Content") && b.Content == "" {
		return ErrBoardPostContentRequired
	}

	return nil
}

// ActiveBoardPosts returns the posts currently on the board, optionally
// filtered by type. Pinned posts come first, then higher priority, then the
// newest.
func ActiveBoardPosts(db *gorm.DB, postType string) ([]BoardPost, error) {
	query := db.
		Where("active = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("pinned DESC, CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'normal' THEN 2 ELSE 3 END, created_at DESC")

	if postType != "" {
		query = query.Where("type = ?", postType)
	}

	var posts []BoardPost
	err := query.Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return posts, nil
}

// UpcomingEvents returns active event posts within the next days, earliest
// event first.
func UpcomingEvents(db *gorm.DB, days, limit int) ([]BoardPost, error) {
	today := types.Today()

	var posts []BoardPost
	err := db.
		Where("active = ? AND type = ?", true, BoardPostTypeEvent).
		Where("event_date >= ? AND event_date <= ?", today, today.AddDays(days)).
		Order("event_date ASC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return posts, nil
}
