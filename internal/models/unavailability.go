package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/staffplan/backend/internal/types"
	"gorm.io/gorm"
)

// Unavailability marks a user as unavailable on one date, e.g. for an
// appointment. Unlike leave it does not consume any balance.
type Unavailability struct {
	DefaultModel
	User   User       `json:"-"`
	UserID uuid.UUID  `json:"userId" gorm:"uniqueIndex:unavailability_user_date"`
	Date   types.Date `json:"date" gorm:"uniqueIndex:unavailability_user_date"`
	Reason string     `json:"reason" example:"Dentist appointment"`
}

var (
	ErrUnavailabilityNotUnique    = errors.New("an unavailability for this user and date already exists")
	ErrUnavailabilityDateRequired = errors.New("the date must be set")
)

func (u *Unavailability) BeforeSave(_ *gorm.DB) error {
	u.Reason = strings.TrimSpace(u.Reason)

	if u.Date.IsZero() {
		return ErrUnavailabilityDateRequired
	}

	return nil
}

func (u *Unavailability) BeforeCreate(tx *gorm.DB) error {
	_ = u.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Unavailability)
	return tx.First(&User{}, toSave.UserID).Error
}
