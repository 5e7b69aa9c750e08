package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/types"
	"gorm.io/gorm"
)

// RestrictedDay is a date on which leave should not be taken. Leave requests
// containing restricted days are annotated and flagged, never blocked.
type RestrictedDay struct {
	DefaultModel
	Date      types.Date `json:"date" gorm:"uniqueIndex"`
	Reason    string     `json:"reason" example:"Inventory day"`
	CreatedBy uuid.UUID  `json:"createdBy"`
}

var (
	ErrRestrictedDayNotUnique    = errors.New("this date is already restricted")
	ErrRestrictedDayDateRequired = errors.New("the date must be set")
)

func (r *RestrictedDay) BeforeSave(_ *gorm.DB) error {
	r.Reason = strings.TrimSpace(r.Reason)

	if r.Date.IsZero() {
		return ErrRestrictedDayDateRequired
	}

	return nil
}

// RestrictedDatesBetween returns the restricted dates in the inclusive range
// [start, end] in ascending order.
func RestrictedDatesBetween(db *gorm.DB, start, end types.Date) ([]types.Date, error) {
	var days []RestrictedDay
	err := db.Where("date >= ? AND date <= ?", start, end).Order("date ASC").Find(&days).Error
	if err != nil {
		return nil, err
	}

	dates := make([]types.Date, 0, len(days))
	for _, day := range days {
		dates = append(dates, day.Date)
	}

	return dates, nil
}
