package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MonthlyRequirement is the work quota for one month.
type MonthlyRequirement struct {
	DefaultModel
	Year          int `gorm:"uniqueIndex:monthly_requirement_year_month"`
	Month         int `gorm:"uniqueIndex:monthly_requirement_year_month"`
	RequiredDays  int
	RequiredHours decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Notes         string
	CreatedBy     uuid.UUID
}

var (
	ErrMonthlyRequirementNotUnique    = errors.New("a requirement for this month already exists")
	ErrMonthlyRequirementMonthInvalid = errors.New("the month must be between 1 and 12")
)

func (m *MonthlyRequirement) BeforeSave(_ *gorm.DB) error {
	m.Notes = strings.TrimSpace(m.Notes)

	if m.Month < 1 || m.Month > 12 {
		return ErrMonthlyRequirementMonthInvalid
	}

	return nil
}

// SetMonthlyRequirement creates or updates the requirement for a month.
func SetMonthlyRequirement(db *gorm.DB, year, month, days int, hours decimal.Decimal, notes string, createdBy uuid.UUID) (MonthlyRequirement, error) {
	if month < 1 || month > 12 {
		return MonthlyRequirement{}, ErrMonthlyRequirementMonthInvalid
	}

	var requirement MonthlyRequirement
	err := db.First(&requirement, "year = ? AND month = ?", year, month).Error
	if err != nil {
		if !errors.Is(err, ErrResourceNotFound) {
			return MonthlyRequirement{}, err
		}

		requirement = MonthlyRequirement{
			Year:          year,
			Month:         month,
			RequiredDays:  days,
			RequiredHours: hours,
			Notes:         notes,
			CreatedBy:     createdBy,
		}

		err = db.Create(&requirement).Error
		if err != nil {
			return MonthlyRequirement{}, err
		}

		return requirement, nil
	}

	requirement.RequiredDays = days
	requirement.RequiredHours = hours
	requirement.Notes = notes

	err = db.Model(&requirement).Select("RequiredDays", "RequiredHours", "Notes").Updates(requirement).Error
	if err != nil {
		return MonthlyRequirement{}, err
	}

	return requirement, nil
}
