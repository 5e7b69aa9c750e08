package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	v1 "github.com/staffplan/backend/internal/controllers/v1"
	"github.com/staffplan/backend/internal/types"
	"github.com/staffplan/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRestrictedDay(t *testing.T, token string, editable v1.RestrictedDayEditable, expectedStatus ...int) v1.RestrictedDay {
	if len(expectedStatus) == 0 {
		expectedStatus = []int{http.StatusCreated}
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/restricted-days", []v1.RestrictedDayEditable{editable}, authHeaders(token))
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	if r.Code != http.StatusCreated {
		return v1.RestrictedDay{}
	}

	var response v1.RestrictedDayCreateResponse
	test.DecodeResponse(t, &r, &response)
	require.Len(t, response.Data, 1)
	require.NotNil(t, response.Data[0].Data)

	return *response.Data[0].Data
}

func getTestRestrictedDays(t *testing.T, token string, query string) v1.RestrictedDayListResponse {
	url := "http://example.com/v1/restricted-days"
	if query != "" {
		url += "?" + query
	}

	r := test.Request(t, http.MethodGet, url, "", authHeaders(token))
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.RestrictedDayListResponse
	test.DecodeResponse(t, &r, &response)

	return response
}

func (suite *TestSuiteStandard) TestRestrictedDaysOptions() {
	day := createTestRestrictedDay(suite.T(), suite.token, v1.RestrictedDayEditable{Date: types.NewDate(2024, time.December, 24), Reason: "Inventory"})

	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/restricted-days", "")
	assert.Equal(suite.T(), http.StatusNoContent, recorder.Code)
	assert.Equal(suite.T(), "OPTIONS, GET, POST", recorder.Header().Get("allow"))

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No restricted day with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotAUUID", http.StatusBadRequest},
		{"Restricted day exists", day.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodOptions, fmt.Sprintf("http://example.com/v1/restricted-days/%s", tt.id), "")
			assert.Equal(t, tt.status, recorder.Code)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, DELETE", recorder.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestRestrictedDaysCreate() {
	admin := currentTestUser(suite.T(), suite.token)

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/restricted-days", []v1.RestrictedDayEditable{
		{Date: types.NewDate(2024, time.December, 24), Reason: "Christmas Eve"},
		{Date: types.NewDate(2024, time.December, 31), Reason: "New Year's Eve"},
	}, authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.RestrictedDayCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 2)
	for _, item := range response.Data {
		require.NotNil(suite.T(), item.Data)
		assert.Equal(suite.T(), admin.ID, item.Data.CreatedBy)
	}

	day := response.Data[0].Data
	assert.True(suite.T(), day.Date.Equal(types.NewDate(2024, time.December, 24)))
	assert.Equal(suite.T(), "Christmas Eve", day.Reason)
	assert.Equal(suite.T(), fmt.Sprintf("http://example.com/v1/restricted-days/%s", day.ID), day.Links.Self)
}

func (suite *TestSuiteStandard) TestRestrictedDaysCreateDuplicate() {
	_ = createTestRestrictedDay(suite.T(), suite.token, v1.RestrictedDayEditable{Date: types.NewDate(2024, time.December, 24), Reason: "Inventory"})

	// The valid day is created, the duplicate reports its own error
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/restricted-days", []v1.RestrictedDayEditable{
		{Date: types.NewDate(2024, time.December, 23)},
		{Date: types.NewDate(2024, time.December, 24)},
	}, authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.RestrictedDayCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 2)
	assert.NotNil(suite.T(), response.Data[0].Data)
	require.NotNil(suite.T(), response.Data[1].Error)
	assert.Equal(suite.T(), "this date is already restricted", *response.Data[1].Error)

	days := getTestRestrictedDays(suite.T(), suite.token, "")
	assert.Len(suite.T(), days.Data, 2)
}

func (suite *TestSuiteStandard) TestRestrictedDaysCreateFails() {
	tests := []struct {
		name   string
		body   string
		status int
		error  string
	}{
		{"Broken body", `[{ "date": 2" }]`, http.StatusBadRequest, "the body of your request contains invalid or un-parseable data"},
		{"No body", "", http.StatusBadRequest, "the request body must not be empty"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, "http://example.com/v1/restricted-days", tt.body, authHeaders(suite.token))
			test.AssertHTTPStatus(t, &recorder, tt.status)

			var response v1.RestrictedDayCreateResponse
			test.DecodeResponse(t, &recorder, &response)

			require.NotNil(t, response.Error)
			assert.Equal(t, tt.error, *response.Error)
		})
	}

	// A day without a date reports the error on the item
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/restricted-days", []v1.RestrictedDayEditable{
		{Reason: "No date"},
	}, authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.RestrictedDayCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 1)
	require.NotNil(suite.T(), response.Data[0].Error)
	assert.Equal(suite.T(), "the date must be set", *response.Data[0].Error)
}

func (suite *TestSuiteStandard) TestRestrictedDaysNoPermission() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/restricted-days", []v1.RestrictedDayEditable{
		{Date: types.NewDate(2024, time.December, 24)},
	}, authHeaders(userToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	day := createTestRestrictedDay(suite.T(), suite.token, v1.RestrictedDayEditable{Date: types.NewDate(2024, time.December, 24)})

	recorder = test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/restricted-days/%s", day.ID), "", authHeaders(userToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestRestrictedDaysGet() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)

	for _, editable := range []v1.RestrictedDayEditable{
		{Date: types.NewDate(2024, time.December, 24), Reason: "Christmas Eve"},
		{Date: types.NewDate(2024, time.January, 1), Reason: "New Year"},
		{Date: types.NewDate(2025, time.June, 2), Reason: "Audit"},
	} {
		_ = createTestRestrictedDay(suite.T(), suite.token, editable)
	}

	// Reading does not need a permission and the days are sorted by date
	response := getTestRestrictedDays(suite.T(), userToken, "")
	require.Len(suite.T(), response.Data, 3)
	assert.True(suite.T(), response.Data[0].Date.Equal(types.NewDate(2024, time.January, 1)))
	assert.True(suite.T(), response.Data[2].Date.Equal(types.NewDate(2025, time.June, 2)))

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Year", "year=2024", 2},
		{"Year without days", "year=2020", 0},
		{"From", "from=2024-06-01", 2},
		{"To", "to=2024-06-01", 1},
		{"Window", "from=2024-06-01&to=2024-12-31", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			response := getTestRestrictedDays(t, userToken, tt.query)
			assert.Len(t, response.Data, tt.len)
		})
	}
}

func (suite *TestSuiteStandard) TestRestrictedDaysGetSingle() {
	day := createTestRestrictedDay(suite.T(), suite.token, v1.RestrictedDayEditable{Date: types.NewDate(2024, time.December, 24), Reason: "Inventory"})

	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Existing restricted day", day.ID.String(), http.StatusOK},
		{"No restricted day with this ID", uuid.New().String(), http.StatusNotFound},
		{"Negative number", "-56", http.StatusBadRequest},
		{"Number", "23", http.StatusBadRequest},
		{"Not a UUID", "notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/restricted-days/%s", tt.id), "", authHeaders(userToken))
			test.AssertHTTPStatus(t, &recorder, tt.status)

			if tt.status == http.StatusOK {
				var response v1.RestrictedDayResponse
				test.DecodeResponse(t, &recorder, &response)

				require.NotNil(t, response.Data)
				assert.Equal(t, "Inventory", response.Data.Reason)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestRestrictedDaysDelete() {
	day := createTestRestrictedDay(suite.T(), suite.token, v1.RestrictedDayEditable{Date: types.NewDate(2024, time.December, 24)})

	recorder := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/restricted-days/%s", day.ID), "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// The restriction is gone for good
	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/restricted-days/%s", day.ID), "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Already deleted", day.ID.String(), http.StatusNotFound},
		{"No restricted day with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a UUID", "notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/restricted-days/%s", tt.id), "", authHeaders(suite.token))
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestRestrictedDaysDBClosed() {
	day := createTestRestrictedDay(suite.T(), suite.token, v1.RestrictedDayEditable{Date: types.NewDate(2024, time.December, 24)})

	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/restricted-days", "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/restricted-days/%s", day.ID), "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
