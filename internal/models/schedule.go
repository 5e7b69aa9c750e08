package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/types"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Schedule is one shift of a user on one date. The unique index guarantees
// at most one schedule per user and date.
type Schedule struct {
	DefaultModel
	User      User       `json:"-"`
	UserID    uuid.UUID  `json:"userId" gorm:"uniqueIndex:schedule_user_date"`
	Date      types.Date `json:"date" gorm:"uniqueIndex:schedule_user_date"`
	StartTime string     `json:"startTime" example:"09:00"`
	EndTime   string     `json:"endTime" example:"17:00"`
	Notes     string     `json:"notes" example:"Front desk"`
	CreatedBy uuid.UUID  `json:"createdBy"`
}

var (
	ErrScheduleNotUnique   = errors.New("a schedule for this user and date already exists")
	ErrScheduleInvalidTime = errors.New("times must be in HH:MM format")
)

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func (s *Schedule) BeforeSave(_ *gorm.DB) error {
	s.StartTime = strings.TrimSpace(s.StartTime)
	s.EndTime = strings.TrimSpace(s.EndTime)
	s.Notes = strings.TrimSpace(s.Notes)

	if !timePattern.MatchString(s.StartTime) || !timePattern.MatchString(s.EndTime) {
		return ErrScheduleInvalidTime
	}

	return nil
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	_ = s.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Schedule)
	return tx.First(&User{}, toSave.UserID).Error
}

// UpsertSchedule creates or updates the schedule for a user and date.
//
// When a schedule already exists, only the times and notes are updated. The
// row keeps its identity and CreatedBy and no notification is written. A
// fresh insert notifies the user about the new shift. A caller whose insert
// loses the race for the unique index falls back to the update path.
func UpsertSchedule(db *gorm.DB, userID uuid.UUID, date types.Date, startTime, endTime, notes string, createdBy uuid.UUID) (Schedule, bool, error) {
	var schedule Schedule
	err := db.First(&schedule, "user_id = ? AND date = ?", userID, date).Error
	if err == nil {
		schedule.StartTime = startTime
		schedule.EndTime = endTime
		schedule.Notes = notes

		err = db.Model(&schedule).Select("StartTime", "EndTime", "Notes").Updates(schedule).Error
		if err != nil {
			return Schedule{}, false, err
		}

		return schedule, false, nil
	}

	if !errors.Is(err, ErrResourceNotFound) {
		return Schedule{}, false, err
	}

	schedule = Schedule{
		UserID:    userID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Notes:     notes,
		CreatedBy: createdBy,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&schedule).Error
		if err != nil {
			return err
		}

		notification := Notification{
			UserID:      userID,
			Title:       "New Shift Assigned",
			Message:     fmt.Sprintf("You have been assigned a shift on %s from %s to %s", date, schedule.StartTime, schedule.EndTime),
			Type:        NotificationTypeShift,
			Popup:       true,
			RelatedID:   &schedule.ID,
			RelatedType: "schedule",
		}

		return tx.Create(&notification).Error
	})
	if err != nil {
		if errors.Is(err, ErrScheduleNotUnique) {
			// Lost the race against a concurrent insert, update that row
			return UpsertSchedule(db, userID, date, startTime, endTime, notes, createdBy)
		}

		return Schedule{}, false, err
	}

	return schedule, true, nil
}

// BulkAssignSchedules creates schedules for every user on every day in
// [from, to] whose weekday is in the subset. Days that already have a
// schedule for the user are skipped, existing rows are never overwritten.
// Every user who gained at least one shift gets a single summary
// notification. It returns the number of schedules created.
func BulkAssignSchedules(db *gorm.DB, userIDs []uuid.UUID, from, to types.Date, weekdays []time.Weekday, startTime, endTime, notes string, createdBy uuid.UUID) (int, error) {
	created := 0
	gained := make(map[uuid.UUID]int)

	err := db.Transaction(func(tx *gorm.DB) error {
		for current := from; !current.After(to); current = current.AddDays(1) {
			if !slices.Contains(weekdays, current.Weekday()) {
				continue
			}

			for _, userID := range userIDs {
				var count int64
				err := tx.Model(&Schedule{}).Where("user_id = ? AND date = ?", userID, current).Count(&count).Error
				if err != nil {
					return err
				}

				if count > 0 {
					continue
				}

				schedule := Schedule{
					UserID:    userID,
					Date:      current,
					StartTime: startTime,
					EndTime:   endTime,
					Notes:     notes,
					CreatedBy: createdBy,
				}

				err = tx.Create(&schedule).Error
				if err != nil {
					return err
				}

				created++
				gained[userID]++
			}
		}

		for _, userID := range userIDs {
			count, ok := gained[userID]
			if !ok || count == 0 {
				continue
			}
			delete(gained, userID)

			notification := Notification{
				UserID:  userID,
				Title:   "New Shifts Assigned",
				Message: fmt.Sprintf("You have been assigned %d new shifts between %s and %s", count, from, to),
				Type:    NotificationTypeShift,
				Popup:   true,
			}

			err := tx.Create(&notification).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}
