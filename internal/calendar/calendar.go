// Package calendar builds the month grid shown on schedule and leave pages.
package calendar

import (
	"errors"
	"time"

	"github.com/staffplan/backend/internal/models"
	"github.com/staffplan/backend/internal/types"
)

var ErrInvalidMonth = errors.New("the month must be between 1 and 12")

// Cell is one day of the displayed month.
type Cell struct {
	Date           types.Date             `json:"date"`
	Day            int                    `json:"day"`
	Weekend        bool                   `json:"weekend"`
	Today          bool                   `json:"today"`
	Schedule       *models.Schedule       `json:"schedule"`
	Leave          *models.LeaveRequest   `json:"leave"`
	Unavailability *models.Unavailability `json:"unavailability"`
	Restricted     *models.RestrictedDay  `json:"restricted"`
}

// Week is one grid row, Monday first. Slots before the first or after the
// last day of the month are nil.
type Week [7]*Cell

// Overlays is the data laid over the grid, scoped to one user and month.
type Overlays struct {
	Schedules        []models.Schedule
	LeaveRequests    []models.LeaveRequest
	Unavailabilities []models.Unavailability
	RestrictedDays   []models.RestrictedDay
}

// Build assembles the grid for a month. Each cell carries at most one
// overlay per category, looked up by exact date. Leave requests are expanded
// day by day, clamped to the displayed month, and every expanded day maps
// back to the owning request. The grid always contains full weeks, so the
// total cell count is a multiple of seven.
func Build(year, month int, overlays Overlays) ([]Week, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	gridMonth := types.NewMonth(year, time.Month(month))
	first := gridMonth.First()
	last := gridMonth.Last()
	days := gridMonth.Days()

	schedules := make(map[int]*models.Schedule, len(overlays.Schedules))
	for i := range overlays.Schedules {
		schedule := &overlays.Schedules[i]
		if gridMonth.Contains(schedule.Date) {
			schedules[schedule.Date.Day()] = schedule
		}
	}

	leaves := make(map[int]*models.LeaveRequest)
	for i := range overlays.LeaveRequests {
		leave := &overlays.LeaveRequests[i]

		start := leave.StartDate
		if start.Before(first) {
			start = first
		}

		end := leave.EndDate
		if end.After(last) {
			end = last
		}

		for current := start; !current.After(end); current = current.AddDays(1) {
			leaves[current.Day()] = leave
		}
	}

	unavailabilities := make(map[int]*models.Unavailability, len(overlays.Unavailabilities))
	for i := range overlays.Unavailabilities {
		unavailability := &overlays.Unavailabilities[i]
		if gridMonth.Contains(unavailability.Date) {
			unavailabilities[unavailability.Date.Day()] = unavailability
		}
	}

	restricted := make(map[int]*models.RestrictedDay, len(overlays.RestrictedDays))
	for i := range overlays.RestrictedDays {
		day := &overlays.RestrictedDays[i]
		if gridMonth.Contains(day.Date) {
			restricted[day.Date.Day()] = day
		}
	}

	// Monday is slot 0
	offset := (int(first.Weekday()) + 6) % 7
	weekCount := (offset + days + 6) / 7
	today := types.Today()

	weeks := make([]Week, weekCount)
	day := 1
	for week := range weeks {
		for slot := 0; slot < 7; slot++ {
			if week == 0 && slot < offset {
				continue
			}

			if day > days {
				continue
			}

			date := types.NewDate(year, time.Month(month), day)
			weeks[week][slot] = &Cell{
				Date:           date,
				Day:            day,
				Weekend:        date.IsWeekend(),
				Today:          date.Equal(today),
				Schedule:       schedules[day],
				Leave:          leaves[day],
				Unavailability: unavailabilities[day],
				Restricted:     restricted[day],
			}

			day++
		}
	}

	return weeks, nil
}
