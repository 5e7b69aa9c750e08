package models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LeaveAllocation is the leave budget of one user for one leave type and
// year. The used amounts are debited when requests are approved. The balance
// is always allocated minus used, it can go negative and is never clamped.
type LeaveAllocation struct {
	DefaultModel
	User           User            `json:"-"`
	UserID         uuid.UUID       `gorm:"uniqueIndex:leave_allocation_user_type_year"`
	LeaveType      LeaveType       `json:"-"`
	LeaveTypeID    uuid.UUID       `gorm:"uniqueIndex:leave_allocation_user_type_year"`
	Year           int             `gorm:"uniqueIndex:leave_allocation_user_type_year"`
	AllocatedDays  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	UsedDays       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	AllocatedHours decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	UsedHours      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

var ErrLeaveAllocationNotUnique = errors.New("an allocation for this user, leave type and year already exists")

func (a *LeaveAllocation) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*LeaveAllocation)
	return a.checkIntegrity(tx, *toSave)
}

func (a *LeaveAllocation) checkIntegrity(tx *gorm.DB, toSave LeaveAllocation) error {
	err := tx.First(&User{}, toSave.UserID).Error
	if err != nil {
		return err
	}

	return tx.First(&LeaveType{}, toSave.LeaveTypeID).Error
}

// RemainingDays returns the allocated minus the used days.
func (a LeaveAllocation) RemainingDays() decimal.Decimal {
	return a.AllocatedDays.Sub(a.UsedDays)
}

// RemainingHours returns the allocated minus the used hours.
func (a LeaveAllocation) RemainingHours() decimal.Decimal {
	return a.AllocatedHours.Sub(a.UsedHours)
}

// AllocateLeave sets the allocation for a user, leave type and year.
//
// The first call for a combination creates the allocation with zero used
// amounts. Later calls overwrite the allocated amounts only, the used amounts
// are preserved.
func AllocateLeave(db *gorm.DB, userID, leaveTypeID uuid.UUID, year int, days, hours decimal.Decimal) (LeaveAllocation, error) {
	var allocation LeaveAllocation
	err := db.First(&allocation, "user_id = ? AND leave_type_id = ? AND year = ?", userID, leaveTypeID, year).Error
	if err != nil {
		if !errors.Is(err, ErrResourceNotFound) {
			return LeaveAllocation{}, err
		}

		allocation = LeaveAllocation{
			UserID:         userID,
			LeaveTypeID:    leaveTypeID,
			Year:           year,
			AllocatedDays:  days,
			AllocatedHours: hours,
		}

		err = db.Create(&allocation).Error
		if err != nil {
			return LeaveAllocation{}, err
		}

		return allocation, nil
	}

	allocation.AllocatedDays = days
	allocation.AllocatedHours = hours

	err = db.Model(&allocation).Select("AllocatedDays", "AllocatedHours").Updates(allocation).Error
	if err != nil {
		return LeaveAllocation{}, err
	}

	return allocation, nil
}

// DefaultAllocationDays returns the yearly default for a leave type.
func DefaultAllocationDays(name string) decimal.Decimal {
	switch name {
	case "Annual Leave":
		return decimal.NewFromInt(25)
	case "Sick Leave":
		return decimal.NewFromInt(10)
	case "Personal Leave":
		return decimal.NewFromInt(5)
	}

	return decimal.Zero
}

// CreateDefaultAllocations creates an allocation for every active leave type
// for the user and year, including types with a zero default. Existing
// allocations are left untouched.
func CreateDefaultAllocations(db *gorm.DB, userID uuid.UUID, year int) error {
	var leaveTypes []LeaveType
	err := db.Where(&LeaveType{Active: true}).Find(&leaveTypes).Error
	if err != nil {
		return err
	}

	for _, leaveType := range leaveTypes {
		var count int64
		err = db.Model(&LeaveAllocation{}).
			Where("user_id = ? AND leave_type_id = ? AND year = ?", userID, leaveType.ID, year).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count > 0 {
			continue
		}

		allocation := LeaveAllocation{
			UserID:        userID,
			LeaveTypeID:   leaveType.ID,
			Year:          year,
			AllocatedDays: DefaultAllocationDays(leaveType.Name),
		}

		err = db.Create(&allocation).Error
		if err != nil {
			return err
		}
	}

	return nil
}
