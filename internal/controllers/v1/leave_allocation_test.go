package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	v1 "github.com/staffplan/backend/internal/controllers/v1"
	"github.com/staffplan/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setTestLeaveAllocation sets an allocation via the API. As allocations are
// upserted, a successful request returns 200, not 201.
func setTestLeaveAllocation(t *testing.T, token string, editable v1.LeaveAllocationEditable, expectedStatus ...int) v1.LeaveAllocation {
	status := http.StatusOK
	if len(expectedStatus) > 0 {
		status = expectedStatus[0]
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/leave-allocations", editable, authHeaders(token))
	test.AssertHTTPStatus(t, &r, status)

	if status != http.StatusOK {
		return v1.LeaveAllocation{}
	}

	var response v1.LeaveAllocationResponse
	test.DecodeResponse(t, &r, &response)

	return *response.Data
}

func getTestLeaveAllocations(t *testing.T, token, query string) v1.LeaveAllocationListResponse {
	url := "http://example.com/v1/leave-allocations"
	if query != "" {
		url += "?" + query
	}

	r := test.Request(t, http.MethodGet, url, "", authHeaders(token))
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.LeaveAllocationListResponse
	test.DecodeResponse(t, &r, &response)

	return response
}

func (suite *TestSuiteStandard) TestLeaveAllocationsOptions() {
	allocations := getTestLeaveAllocations(suite.T(), suite.token, "").Data
	require.NotEmpty(suite.T(), allocations)

	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/leave-allocations", "")
	assert.Equal(suite.T(), http.StatusNoContent, recorder.Code)
	assert.Equal(suite.T(), "OPTIONS, GET, POST", recorder.Header().Get("allow"))

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No allocation with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotAUUID", http.StatusBadRequest},
		{"Allocation exists", allocations[0].ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodOptions, fmt.Sprintf("http://example.com/v1/leave-allocations/%s", tt.id), "")
			assert.Equal(t, tt.status, recorder.Code)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET", recorder.Header().Get("allow"))
			}
		})
	}
}

// TestLeaveAllocationsGet verifies that registration created the default
// allocations for the current year.
func (suite *TestSuiteStandard) TestLeaveAllocationsGet() {
	response := getTestLeaveAllocations(suite.T(), suite.token, "")

	require.Len(suite.T(), response.Data, 6)
	assert.Equal(suite.T(), 6, response.Pagination.Count)
	assert.Equal(suite.T(), int64(6), response.Pagination.Total)
	assert.Equal(suite.T(), uint(0), response.Pagination.Offset)
	assert.Equal(suite.T(), 50, response.Pagination.Limit)

	var zeroAllocations int
	for _, allocation := range response.Data {
		assert.Equal(suite.T(), time.Now().Year(), allocation.Year)
		assert.True(suite.T(), allocation.UsedDays.IsZero())
		assert.True(suite.T(), allocation.RemainingDays.Equal(allocation.AllocatedDays))

		if allocation.AllocatedDays.IsZero() {
			zeroAllocations++
		}
	}

	// Annual, sick and personal leave have yearly defaults, the other three
	// leave types start without a budget
	assert.Equal(suite.T(), 3, zeroAllocations)
}

func (suite *TestSuiteStandard) TestLeaveAllocationsGetFilter() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	annualLeave := getTestLeaveType(suite.T(), suite.token, "Annual Leave")

	// An allocation for a year no automatic allocation exists for
	futureYear := time.Now().Year() + 4
	_ = setTestLeaveAllocation(suite.T(), suite.token, v1.LeaveAllocationEditable{
		UserID:        user.ID,
		LeaveTypeID:   annualLeave.ID,
		Year:          futureYear,
		AllocatedDays: decimal.NewFromInt(20),
	})

	tests := []struct {
		name  string
		query string
		len   int
		total int64
	}{
		{"All", "", 13, 13},
		{"User", fmt.Sprintf("user=%s", user.ID), 7, 7},
		{"Year", fmt.Sprintf("year=%d", futureYear), 1, 1},
		{"Leave type", fmt.Sprintf("leaveType=%s", annualLeave.ID), 3, 3},
		{"Limit", "limit=5", 5, 13},
		{"Offset", "offset=10", 3, 13},
		{"Offset and limit", "offset=12&limit=5", 1, 13},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			response := getTestLeaveAllocations(t, suite.token, tt.query)

			assert.Len(t, response.Data, tt.len)
			assert.Equal(t, tt.total, response.Pagination.Total)
		})
	}

	// Most recent year first
	response := getTestLeaveAllocations(suite.T(), suite.token, "")
	assert.Equal(suite.T(), futureYear, response.Data[0].Year)
}

func (suite *TestSuiteStandard) TestLeaveAllocationsGetScoped() {
	admin := currentTestUser(suite.T(), suite.token)
	adminAllocation := getTestLeaveAllocations(suite.T(), suite.token, "").Data[0]

	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)

	// Without "leave.view_all", the list only contains own allocations
	response := getTestLeaveAllocations(suite.T(), userToken, "")
	require.Len(suite.T(), response.Data, 6)
	for _, allocation := range response.Data {
		assert.Equal(suite.T(), user.ID, allocation.UserID)
	}

	// Filtering for the own user is allowed
	response = getTestLeaveAllocations(suite.T(), userToken, fmt.Sprintf("user=%s", user.ID))
	assert.Len(suite.T(), response.Data, 6)

	// Filtering for other users is not
	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/leave-allocations?user=%s", admin.ID), "", authHeaders(userToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	// Own allocations can be read, those of other users cannot
	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/leave-allocations/%s", response.Data[0].ID), "", authHeaders(userToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/leave-allocations/%s", adminAllocation.ID), "", authHeaders(userToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestLeaveAllocationsSet() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	sickLeave := getTestLeaveType(suite.T(), suite.token, "Sick Leave")

	pastYear := time.Now().Year() - 1
	allocation := setTestLeaveAllocation(suite.T(), suite.token, v1.LeaveAllocationEditable{
		UserID:        user.ID,
		LeaveTypeID:   sickLeave.ID,
		Year:          pastYear,
		AllocatedDays: decimal.NewFromInt(12),
	})

	assert.Equal(suite.T(), user.ID, allocation.UserID)
	assert.Equal(suite.T(), pastYear, allocation.Year)
	assert.True(suite.T(), allocation.AllocatedDays.Equal(decimal.NewFromInt(12)), allocation.AllocatedDays.String())
	assert.True(suite.T(), allocation.UsedDays.IsZero())
	assert.True(suite.T(), allocation.RemainingDays.Equal(decimal.NewFromInt(12)))
	assert.Equal(suite.T(), fmt.Sprintf("http://example.com/v1/leave-allocations/%s", allocation.ID), allocation.Links.Self)
	assert.Equal(suite.T(), fmt.Sprintf("http://example.com/v1/users/%s", user.ID), allocation.Links.User)

	// Setting the allocation again updates the existing one
	updated := setTestLeaveAllocation(suite.T(), suite.token, v1.LeaveAllocationEditable{
		UserID:         user.ID,
		LeaveTypeID:    sickLeave.ID,
		Year:           pastYear,
		AllocatedDays:  decimal.NewFromInt(8),
		AllocatedHours: decimal.NewFromInt(4),
	})

	assert.Equal(suite.T(), allocation.ID, updated.ID)
	assert.True(suite.T(), updated.AllocatedDays.Equal(decimal.NewFromInt(8)), updated.AllocatedDays.String())
	assert.True(suite.T(), updated.AllocatedHours.Equal(decimal.NewFromInt(4)))
	assert.True(suite.T(), updated.UsedDays.IsZero())
}

func (suite *TestSuiteStandard) TestLeaveAllocationsSetFails() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	annualLeave := getTestLeaveType(suite.T(), suite.token, "Annual Leave")

	tests := []struct {
		name   string
		body   any
		status int
		error  string
	}{
		{"Broken body", `{ "year": 2" }`, http.StatusBadRequest, "the body of your request contains invalid or un-parseable data"},
		{"No body", "", http.StatusBadRequest, "the request body must not be empty"},
		{"Nonexistent user", v1.LeaveAllocationEditable{UserID: uuid.New(), LeaveTypeID: annualLeave.ID, Year: 2024}, http.StatusNotFound, "there is no user matching your query"},
		{"Nonexistent leave type", v1.LeaveAllocationEditable{UserID: user.ID, LeaveTypeID: uuid.New(), Year: 2024}, http.StatusNotFound, "there is no leave type matching your query"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, "http://example.com/v1/leave-allocations", tt.body, authHeaders(suite.token))
			test.AssertHTTPStatus(t, &recorder, tt.status)

			var response v1.LeaveAllocationResponse
			test.DecodeResponse(t, &recorder, &response)

			require.NotNil(t, response.Error)
			assert.Contains(t, *response.Error, tt.error)
		})
	}
}

func (suite *TestSuiteStandard) TestLeaveAllocationsSetNoPermission() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)
	annualLeave := getTestLeaveType(suite.T(), suite.token, "Annual Leave")

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/leave-allocations", v1.LeaveAllocationEditable{
		UserID:        user.ID,
		LeaveTypeID:   annualLeave.ID,
		Year:          2024,
		AllocatedDays: decimal.NewFromInt(99),
	}, authHeaders(userToken))

	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestLeaveAllocationsGetSingle() {
	allocation := getTestLeaveAllocations(suite.T(), suite.token, "").Data[0]

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Existing allocation", allocation.ID.String(), http.StatusOK},
		{"Nonexistent allocation", uuid.New().String(), http.StatusNotFound},
		{"Negative number", "-56", http.StatusBadRequest},
		{"Number", "23", http.StatusBadRequest},
		{"Not a UUID", "notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/leave-allocations/%s", tt.id), "", authHeaders(suite.token))
			test.AssertHTTPStatus(t, &recorder, tt.status)

			if tt.status == http.StatusOK {
				var response v1.LeaveAllocationResponse
				test.DecodeResponse(t, &recorder, &response)

				assert.Equal(t, allocation.ID, response.Data.ID)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestLeaveAllocationsDBClosed() {
	annualLeave := getTestLeaveType(suite.T(), suite.token, "Annual Leave")
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/leave-allocations", "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)

	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/leave-allocations", v1.LeaveAllocationEditable{
		UserID:      uuid.New(),
		LeaveTypeID: annualLeave.ID,
		Year:        2024,
	}, authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
