package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staffplan/backend/internal/types"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	LeaveRequestStatusPending  = "pending"
	LeaveRequestStatusApproved = "approved"
	LeaveRequestStatusRejected = "rejected"
)

var leaveRequestStatuses = []string{
	LeaveRequestStatusPending,
	LeaveRequestStatusApproved,
	LeaveRequestStatusRejected,
}

// LeaveRequest is a user's request to take leave for a date range.
//
// DaysCount only counts weekdays, weekend days in the range do not consume
// any balance.
type LeaveRequest struct {
	DefaultModel
	User        User       `json:"-"`
	UserID      uuid.UUID  `json:"userId"`
	LeaveType   LeaveType  `json:"-"`
	LeaveTypeID uuid.UUID  `json:"leaveTypeId"`
	StartDate   types.Date `json:"startDate"`
	EndDate     types.Date `json:"endDate"`
	DaysCount   int        `json:"daysCount" example:"5"`
	Reason      string     `json:"reason" example:"Family visit"`
	Status      string     `json:"status" example:"pending"`
	ReviewedBy  *uuid.UUID `json:"reviewedBy"`
	ReviewedAt  *time.Time `json:"reviewedAt"`
	ReviewNotes string     `json:"reviewNotes" example:"Enjoy!"`
}

var (
	ErrLeaveRequestEndBeforeStart = errors.New("the end date must not be before the start date")
	ErrLeaveRequestStatusInvalid  = errors.New("the status must be one of pending, approved, rejected")
	ErrLeaveRequestNotPending     = errors.New("this leave request has already been reviewed")
)

func (l *LeaveRequest) BeforeSave(_ *gorm.DB) error {
	l.Reason = strings.TrimSpace(l.Reason)
	l.ReviewNotes = strings.TrimSpace(l.ReviewNotes)

	if l.Status == "" {
		l.Status = LeaveRequestStatusPending
	}

	if !slices.Contains(leaveRequestStatuses, l.Status) {
		return ErrLeaveRequestStatusInvalid
	}

	if l.EndDate.Before(l.StartDate) {
		return ErrLeaveRequestEndBeforeStart
	}

	return nil
}

func (l *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	_ = l.DefaultModel.BeforeCreate(tx)

	l.DaysCount = types.WeekdaysBetween(l.StartDate, l.EndDate)

	toSave := tx.Statement.Dest.(*LeaveRequest)
	return l.checkIntegrity(tx, *toSave)
}

func (l *LeaveRequest) checkIntegrity(tx *gorm.DB, toSave LeaveRequest) error {
	err := tx.First(&User{}, toSave.UserID).Error
	if err != nil {
		return err
	}

	return tx.First(&LeaveType{}, toSave.LeaveTypeID).Error
}

// SubmitLeaveRequest validates and stores a new leave request and notifies
// the users who can approve it.
//
// The returned warnings are advisory. Overlapping restricted days are
// recorded in the reason and reported back, an insufficient balance is
// reported back. Neither blocks the submission.
func SubmitLeaveRequest(db *gorm.DB, request *LeaveRequest) ([]string, error) {
	var leaveType LeaveType
	err := db.First(&leaveType, request.LeaveTypeID).Error
	if err != nil {
		return nil, err
	}

	if !leaveType.Active {
		return nil, ErrLeaveTypeNotActive
	}

	if request.EndDate.Before(request.StartDate) {
		return nil, ErrLeaveRequestEndBeforeStart
	}

	request.Status = LeaveRequestStatusPending

	var warnings []string

	restricted, err := RestrictedDatesBetween(db, request.StartDate, request.EndDate)
	if err != nil {
		return nil, err
	}

	if len(restricted) > 0 {
		formatted := make([]string, 0, len(restricted))
		for _, date := range restricted {
			formatted = append(formatted, fmt.Sprintf("%02d/%02d/%04d", date.Day(), date.Month(), date.Year()))
		}
		list := strings.Join(formatted, ", ")

		request.Reason = strings.TrimSpace(request.Reason + "\n\n" + fmt.Sprintf("[Contains restricted days: %s]", list))
		warnings = append(warnings, fmt.Sprintf("The requested range contains restricted days: %s", list))
	}

	days := types.WeekdaysBetween(request.StartDate, request.EndDate)

	var allocation LeaveAllocation
	err = db.First(&allocation, "user_id = ? AND leave_type_id = ? AND year = ?", request.UserID, request.LeaveTypeID, request.StartDate.Year()).Error
	if err != nil && !errors.Is(err, ErrResourceNotFound) {
		return nil, err
	}

	if err == nil && decimal.NewFromInt(int64(days)).GreaterThan(allocation.RemainingDays()) {
		warnings = append(warnings, fmt.Sprintf("The request exceeds the remaining %s balance of %s days", leaveType.Name, allocation.RemainingDays()))
	}

	err = db.Create(request).Error
	if err != nil {
		return nil, err
	}

	var requester User
	err = db.First(&requester, request.UserID).Error
	if err != nil {
		return nil, err
	}

	approvers, err := UsersWithPermission(db, "leave.approve")
	if err != nil {
		return nil, err
	}

	for _, approver := range approvers {
		if approver.ID == request.UserID {
			continue
		}

		notification := Notification{
			UserID:      approver.ID,
			Title:       "New Leave Request",
			Message:     fmt.Sprintf("%s requested %s from %s to %s (%d days)", requester.FullName(), leaveType.Name, request.StartDate, request.EndDate, request.DaysCount),
			Type:        NotificationTypeLeave,
			Popup:       true,
			RelatedID:   &request.ID,
			RelatedType: "leave_request",
		}

		err = db.Create(&notification).Error
		if err != nil {
			return nil, err
		}
	}

	return warnings, nil
}

// Approve approves a pending leave request, debits the requester's
// allocation and notifies the requester.
//
// Everything runs in a single transaction. The update is guarded by the
// pending status so that two concurrent reviews cannot both succeed, the
// second one returns ErrLeaveRequestNotPending.
func (l *LeaveRequest) Approve(db *gorm.DB, reviewerID uuid.UUID, notes string) error {
	now := time.Now()

	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&LeaveRequest{}).
			Select("Status", "ReviewedBy", "ReviewedAt", "ReviewNotes").
			Where("id = ? AND status = ?", l.ID, LeaveRequestStatusPending).
			Updates(LeaveRequest{
				Status:      LeaveRequestStatusApproved,
				ReviewedBy:  &reviewerID,
				ReviewedAt:  &now,
				ReviewNotes: notes,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrLeaveRequestNotPending
		}

		var allocation LeaveAllocation
		err := tx.First(&allocation, "user_id = ? AND leave_type_id = ? AND year = ?", l.UserID, l.LeaveTypeID, l.StartDate.Year()).Error
		if err != nil {
			if !errors.Is(err, ErrResourceNotFound) {
				return err
			}

			// No allocation exists yet, the debit pushes the balance negative
			allocation = LeaveAllocation{
				UserID:      l.UserID,
				LeaveTypeID: l.LeaveTypeID,
				Year:        l.StartDate.Year(),
			}

			err = tx.Create(&allocation).Error
			if err != nil {
				return err
			}
		}

		used := allocation.UsedDays.Add(decimal.NewFromInt(int64(l.DaysCount)))
		err = tx.Model(&allocation).Select("UsedDays").Updates(LeaveAllocation{UsedDays: used}).Error
		if err != nil {
			return err
		}

		notification := Notification{
			UserID:      l.UserID,
			Title:       "Leave Request Approved",
			Message:     fmt.Sprintf("Your leave request from %s to %s was approved", l.StartDate, l.EndDate),
			Type:        NotificationTypeSuccess,
			Popup:       true,
			RelatedID:   &l.ID,
			RelatedType: "leave_request",
		}

		return tx.Create(&notification).Error
	})
	if err != nil {
		return err
	}

	l.Status = LeaveRequestStatusApproved
	l.ReviewedBy = &reviewerID
	l.ReviewedAt = &now
	l.ReviewNotes = strings.TrimSpace(notes)

	return nil
}

// Reject rejects a pending leave request and notifies the requester. The
// allocation is not touched.
//
// The update is guarded by the pending status exactly like Approve.
func (l *LeaveRequest) Reject(db *gorm.DB, reviewerID uuid.UUID, notes string) error {
	now := time.Now()

	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&LeaveRequest{}).
			Select("Status", "ReviewedBy", "ReviewedAt", "ReviewNotes").
			Where("id = ? AND status = ?", l.ID, LeaveRequestStatusPending).
			Updates(LeaveRequest{
				Status:      LeaveRequestStatusRejected,
				ReviewedBy:  &reviewerID,
				ReviewedAt:  &now,
				ReviewNotes: notes,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrLeaveRequestNotPending
		}

		notification := Notification{
			UserID:      l.UserID,
			Title:       "Leave Request Rejected",
			Message:     fmt.Sprintf("Your leave request from %s to %s was rejected", l.StartDate, l.EndDate),
			Type:        NotificationTypeWarning,
			Popup:       true,
			RelatedID:   &l.ID,
			RelatedType: "leave_request",
		}

		return tx.Create(&notification).Error
	})
	if err != nil {
		return err
	}

	l.Status = LeaveRequestStatusRejected
	l.ReviewedBy = &reviewerID
	l.ReviewedAt = &now
	l.ReviewNotes = strings.TrimSpace(notes)

	return nil
}

// Cancel deletes a pending leave request. Only the requester can cancel and
// only while the request has not been reviewed.
func (l *LeaveRequest) Cancel(db *gorm.DB, requesterID uuid.UUID) error {
	if l.UserID != requesterID {
		return ErrNoPermission
	}

	if l.Status != LeaveRequestStatusPending {
		return ErrLeaveRequestNotPending
	}

	return db.Unscoped().Delete(l).Error
}
