package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/staffplan/backend/internal/calendar"
	v1 "github.com/staffplan/backend/internal/controllers/v1"
	"github.com/staffplan/backend/internal/types"
	"github.com/staffplan/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestCalendar(t *testing.T, token string, year, month int, query string) v1.CalendarResponse {
	url := fmt.Sprintf("http://example.com/v1/calendar/%d/%d", year, month)
	if query != "" {
		url += "?" + query
	}

	r := test.Request(t, http.MethodGet, url, "", authHeaders(token))
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.CalendarResponse
	test.DecodeResponse(t, &r, &response)

	return response
}

// findCalendarCell returns the cell for a day of the month.
func findCalendarCell(t *testing.T, weeks []calendar.Week, day int) *calendar.Cell {
	for _, week := range weeks {
		for _, cell := range week {
			if cell != nil && cell.Day == day {
				return cell
			}
		}
	}

	require.Failf(t, "cell not found", "the grid has no cell for day %d", day)
	return nil
}

func (suite *TestSuiteStandard) TestCalendarOptions() {
	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"Valid month", "2024/3", http.StatusNoContent},
		{"Month out of range", "2024/13", http.StatusNoContent},
		{"Month is not a number", "2024/notamonth", http.StatusBadRequest},
		{"Year is not a number", "notayear/3", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodOptions, fmt.Sprintf("http://example.com/v1/calendar/%s", tt.path), "")
			assert.Equal(t, tt.status, recorder.Code)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET", recorder.Header().Get("allow"))
			}
		})
	}
}

// TestCalendarGet verifies the grid layout for March 2024, which starts on a
// Friday and spans exactly five weeks.
func (suite *TestSuiteStandard) TestCalendarGet() {
	response := getTestCalendar(suite.T(), suite.token, 2024, 3, "")

	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), 2024, response.Data.Year)
	assert.Equal(suite.T(), 3, response.Data.Month)
	require.Len(suite.T(), response.Data.Weeks, 5)

	// The week rows start on Monday, the slots before March 1st are empty
	firstWeek := response.Data.Weeks[0]
	for slot := 0; slot < 4; slot++ {
		assert.Nil(suite.T(), firstWeek[slot])
	}

	require.NotNil(suite.T(), firstWeek[4])
	assert.Equal(suite.T(), 1, firstWeek[4].Day)
	assert.True(suite.T(), firstWeek[4].Date.Equal(types.NewDate(2024, time.March, 1)))
	assert.False(suite.T(), firstWeek[4].Weekend)

	require.NotNil(suite.T(), firstWeek[5])
	assert.True(suite.T(), firstWeek[5].Weekend)

	lastWeek := response.Data.Weeks[4]
	require.NotNil(suite.T(), lastWeek[6])
	assert.Equal(suite.T(), 31, lastWeek[6].Day)

	// An empty month has no overlays anywhere
	for day := 1; day <= 31; day++ {
		cell := findCalendarCell(suite.T(), response.Data.Weeks, day)
		assert.Nil(suite.T(), cell.Schedule)
		assert.Nil(suite.T(), cell.Leave)
		assert.Nil(suite.T(), cell.Unavailability)
		assert.Nil(suite.T(), cell.Restricted)
	}
}

func (suite *TestSuiteStandard) TestCalendarOverlays() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)
	annualLeave := getTestLeaveType(suite.T(), suite.token, "Annual Leave")

	_ = createTestSchedule(suite.T(), suite.token, v1.ScheduleEditable{UserID: user.ID, Date: types.NewDate(2024, time.March, 4)})

	// An approved leave request within the month
	request := createTestLeaveRequest(suite.T(), userToken, v1.LeaveRequestEditable{
		LeaveTypeID: annualLeave.ID,
		StartDate:   types.NewDate(2024, time.March, 6),
		EndDate:     types.NewDate(2024, time.March, 7),
	})
	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/leave-requests/%s/approve", request.ID), "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	// An approved leave request reaching into the month from February
	request = createTestLeaveRequest(suite.T(), userToken, v1.LeaveRequestEditable{
		LeaveTypeID: annualLeave.ID,
		StartDate:   types.NewDate(2024, time.February, 28),
		EndDate:     types.NewDate(2024, time.March, 1),
	})
	recorder = test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/leave-requests/%s/approve", request.ID), "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	// A pending leave request does not show up
	_ = createTestLeaveRequest(suite.T(), userToken, v1.LeaveRequestEditable{
		LeaveTypeID: annualLeave.ID,
		StartDate:   types.NewDate(2024, time.March, 20),
		EndDate:     types.NewDate(2024, time.March, 21),
	})

	_ = createTestUnavailability(suite.T(), userToken, v1.UnavailabilityEditable{Date: types.NewDate(2024, time.March, 8), Reason: "Dentist"})
	_ = createTestRestrictedDay(suite.T(), suite.token, v1.RestrictedDayEditable{Date: types.NewDate(2024, time.March, 15), Reason: "Inventory"})

	response := getTestCalendar(suite.T(), userToken, 2024, 3, "")
	require.NotNil(suite.T(), response.Data)
	weeks := response.Data.Weeks

	shift := findCalendarCell(suite.T(), weeks, 4)
	require.NotNil(suite.T(), shift.Schedule)
	assert.Equal(suite.T(), "09:00", shift.Schedule.StartTime)

	for _, day := range []int{6, 7} {
		leave := findCalendarCell(suite.T(), weeks, day)
		require.NotNil(suite.T(), leave.Leave, "day %d must carry the leave overlay", day)
		assert.Equal(suite.T(), "approved", leave.Leave.Status)
	}

	// The February request is clamped into the displayed month
	spill := findCalendarCell(suite.T(), weeks, 1)
	require.NotNil(suite.T(), spill.Leave)
	assert.True(suite.T(), spill.Leave.StartDate.Equal(types.NewDate(2024, time.February, 28)))

	assert.Nil(suite.T(), findCalendarCell(suite.T(), weeks, 20).Leave)

	unavailable := findCalendarCell(suite.T(), weeks, 8)
	require.NotNil(suite.T(), unavailable.Unavailability)
	assert.Equal(suite.T(), "Dentist", unavailable.Unavailability.Reason)

	restricted := findCalendarCell(suite.T(), weeks, 15)
	require.NotNil(suite.T(), restricted.Restricted)
	assert.Equal(suite.T(), "Inventory", restricted.Restricted.Reason)

	// Overlays of one user do not leak into another user's calendar
	response = getTestCalendar(suite.T(), suite.token, 2024, 3, "")
	assert.Nil(suite.T(), findCalendarCell(suite.T(), response.Data.Weeks, 4).Schedule)

	// Restricted days apply to everybody
	assert.NotNil(suite.T(), findCalendarCell(suite.T(), response.Data.Weeks, 15).Restricted)
}

func (suite *TestSuiteStandard) TestCalendarScoped() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)
	other := registerTestUser(suite.T(), v1.RegisterEditable{})

	_ = createTestSchedule(suite.T(), suite.token, v1.ScheduleEditable{UserID: other.ID, Date: types.NewDate(2024, time.March, 4)})

	// With "schedule.view_all" the calendars of other users can be read
	response := getTestCalendar(suite.T(), suite.token, 2024, 3, fmt.Sprintf("user=%s", other.ID))
	assert.NotNil(suite.T(), findCalendarCell(suite.T(), response.Data.Weeks, 4).Schedule)

	// Without it, only the own calendar
	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/calendar/2024/3?user=%s", other.ID), "", authHeaders(userToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	response = getTestCalendar(suite.T(), userToken, 2024, 3, fmt.Sprintf("user=%s", user.ID))
	assert.NotNil(suite.T(), response.Data)
}

func (suite *TestSuiteStandard) TestCalendarFails() {
	tests := []struct {
		name  string
		path  string
		error string
	}{
		{"Month too large", "2024/13", "the month must be between 1 and 12"},
		{"Month zero", "2024/0", ""},
		{"Month is not a number", "2024/notamonth", ""},
		{"Year is not a number", "notayear/3", ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/calendar/%s", tt.path), "", authHeaders(suite.token))
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)

			if tt.error != "" {
				var response v1.CalendarResponse
				test.DecodeResponse(t, &recorder, &response)

				require.NotNil(t, response.Error)
				assert.Equal(t, tt.error, *response.Error)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestCalendarDBClosed() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/calendar/2024/3", "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
