package v1_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	v1 "github.com/staffplan/backend/internal/controllers/v1"
	"github.com/staffplan/backend/internal/types"
	"github.com/staffplan/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBoardPost(t *testing.T, token string, editable v1.BoardPostEditable, expectedStatus ...int) v1.BoardPost {
	if editable.Title == "" {
		editable.Title = "Summer party"
	}

	if editable.Content == "" {
		editable.Content = "We meet at the beach bar."
	}

	if len(expectedStatus) == 0 {
		expectedStatus = []int{http.StatusCreated}
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/board", []v1.BoardPostEditable{editable}, authHeaders(token))
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	if r.Code != http.StatusCreated {
		return v1.BoardPost{}
	}

	var response v1.BoardPostCreateResponse
	test.DecodeResponse(t, &r, &response)
	require.Len(t, response.Data, 1)
	require.NotNil(t, response.Data[0].Data)

	return *response.Data[0].Data
}

func getTestBoardPosts(t *testing.T, token string, query string) v1.BoardPostListResponse {
	url := "http://example.com/v1/board"
	if query != "" {
		url += "?" + query
	}

	r := test.Request(t, http.MethodGet, url, "", authHeaders(token))
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.BoardPostListResponse
	test.DecodeResponse(t, &r, &response)

	return response
}

// boardEditorToken returns a token for a user who can create and edit posts,
// but not pin them.
func boardEditorToken(t *testing.T, adminToken string) string {
	permissions := getTestPermissions(t, adminToken)

	var permissionIDs []uuid.UUID
	for _, permission := range permissions {
		if permission.Code == "board.view" || permission.Code == "board.create" || permission.Code == "board.edit" {
			permissionIDs = append(permissionIDs, permission.ID)
		}
	}
	require.Len(t, permissionIDs, 3)

	role := createTestRole(t, adminToken, v1.RoleEditable{Name: "Board Editor", PermissionIDs: permissionIDs})
	editor := createTestUser(t, adminToken, v1.UserEditable{
		Email:    fmt.Sprintf("%s@example.com", uuid.New()),
		Password: testPassword,
		RoleIDs:  []uuid.UUID{role.ID},
	})

	return login(t, editor.Email, testPassword)
}

func (suite *TestSuiteStandard) TestBoardOptions() {
	post := createTestBoardPost(suite.T(), suite.token, v1.BoardPostEditable{})

	tests := []struct {
		name   string
		path   string
		status int
		allow  string
	}{
		{"List", "", http.StatusNoContent, "OPTIONS, GET, POST"},
		{"Events", "/events", http.StatusNoContent, "OPTIONS, GET"},
		{"No post with this ID", fmt.Sprintf("/%s", uuid.New()), http.StatusNotFound, ""},
		{"Not a valid UUID", "/NotAUUID", http.StatusBadRequest, ""},
		{"Post exists", fmt.Sprintf("/%s", post.ID), http.StatusNoContent, "OPTIONS, GET, PATCH, DELETE"},
		{"Pin", fmt.Sprintf("/%s/pin", uuid.New()), http.StatusNoContent, "OPTIONS, POST, DELETE"},
		{"Pin with invalid ID", "/NotAUUID/pin", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodOptions, fmt.Sprintf("http://example.com/v1/board%s", tt.path), "")
			assert.Equal(t, tt.status, recorder.Code)

			if tt.allow != "" {
				assert.Equal(t, tt.allow, recorder.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestBoardCreate() {
	admin := currentTestUser(suite.T(), suite.token)

	eventDate := types.NewDate(2026, time.August, 1)
	expiresAt := time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC)

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/board", []v1.BoardPostEditable{
		{
			Title:     "Summer party",
			Content:   "We meet at the beach bar, partners welcome.",
			Type:      "event",
			Priority:  "high",
			EventDate: &eventDate,
			EventTime: "18:00",
			ExpiresAt: &expiresAt,
		},
		{Title: "Coffee machine", Content: "The grinder is broken again."},
	}, authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.BoardPostCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.Len(suite.T(), response.Data, 2)

	post := response.Data[0].Data
	require.NotNil(suite.T(), post)
	assert.Equal(suite.T(), "Summer party", post.Title)
	assert.Equal(suite.T(), "We meet at the beach bar, partners welcome.", post.Content)
	assert.Equal(suite.T(), "event", post.Type)
	assert.Equal(suite.T(), "high", post.Priority)
	require.NotNil(suite.T(), post.EventDate)
	assert.True(suite.T(), post.EventDate.Equal(eventDate))
	assert.Equal(suite.T(), "18:00", post.EventTime)
	assert.NotNil(suite.T(), post.ExpiresAt)
	assert.False(suite.T(), post.Pinned)
	assert.True(suite.T(), post.Active)
	assert.Equal(suite.T(), admin.ID, post.CreatedBy)
	assert.Equal(suite.T(), fmt.Sprintf("http://example.com/v1/board/%s", post.ID), post.Links.Self)

	// Type and priority default when unset
	plain := response.Data[1].Data
	require.NotNil(suite.T(), plain)
	assert.Equal(suite.T(), "announcement", plain.Type)
	assert.Equal(suite.T(), "normal", plain.Priority)
	assert.True(suite.T(), plain.Active)
}

// TestBoardCreatePinned verifies that creating a pinned post needs "board.pin"
// on top of "board.create".
func (suite *TestSuiteStandard) TestBoardCreatePinned() {
	editorToken := boardEditorToken(suite.T(), suite.token)

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/board", []v1.BoardPostEditable{
		{Title: "Pinned note", Content: "Read this first.", Pinned: true},
		{Title: "Plain note", Content: "Nothing special."},
	}, authHeaders(editorToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	var response v1.BoardPostCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 2)
	require.NotNil(suite.T(), response.Data[0].Error)
	assert.Equal(suite.T(), "you do not have the permission to perform this action", *response.Data[0].Error)
	assert.NotNil(suite.T(), response.Data[1].Data)

	// With "board.pin" the pinned post goes through
	post := createTestBoardPost(suite.T(), suite.token, v1.BoardPostEditable{Title: "Pinned note", Content: "Read this first.", Pinned: true})
	assert.True(suite.T(), post.Pinned)
}

func (suite *TestSuiteStandard) TestBoardCreateNotifyAll() {
	reader := registerTestUser(suite.T(), v1.RegisterEditable{})
	readerToken := login(suite.T(), reader.Email, testPassword)
	inactive := registerTestUser(suite.T(), v1.RegisterEditable{})

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/users/%s", inactive.ID), `{ "active": false }`, authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	content := strings.Repeat("a", 250)
	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/board", []v1.BoardPostEditable{
		{Title: "Summer party", Content: content, Type: "event", Priority: "high", NotifyAll: true},
	}, authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.BoardPostCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.Len(suite.T(), response.Data, 1)
	post := response.Data[0].Data
	require.NotNil(suite.T(), post)

	// Active users get a notification with the truncated content, high
	// priority posts pop up
	notifications := getTestNotifications(suite.T(), readerToken, "")
	require.Len(suite.T(), notifications.Data, 2)
	assert.Equal(suite.T(), "New Event: Summer party", notifications.Data[0].Title)
	assert.Equal(suite.T(), strings.Repeat("a", 200)+"...", notifications.Data[0].Message)
	assert.Equal(suite.T(), "info", notifications.Data[0].Type)
	assert.True(suite.T(), notifications.Data[0].Popup)
	require.NotNil(suite.T(), notifications.Data[0].RelatedID)
	assert.Equal(suite.T(), post.ID, *notifications.Data[0].RelatedID)
	assert.Equal(suite.T(), fmt.Sprintf("http://example.com/v1/board/%s", post.ID), notifications.Data[0].Links.Related)

	// The author is not notified about their own post
	assert.Len(suite.T(), getTestNotifications(suite.T(), suite.token, "").Data, 1)

	// Neither are inactive users
	recorder = test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/users/%s", inactive.ID), `{ "active": true }`, authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	inactiveToken := login(suite.T(), inactive.Email, testPassword)
	assert.Len(suite.T(), getTestNotifications(suite.T(), inactiveToken, "").Data, 1)

	// Normal priority posts do not pop up
	_ = createTestBoardPost(suite.T(), suite.token, v1.BoardPostEditable{Title: "Coffee machine", Content: "Fixed.", NotifyAll: true})

	notifications = getTestNotifications(suite.T(), readerToken, "")
	require.Len(suite.T(), notifications.Data, 3)
	assert.Equal(suite.T(), "New Announcement: Coffee machine", notifications.Data[0].Title)
	assert.Equal(suite.T(), "Fixed.", notifications.Data[0].Message)
	assert.False(suite.T(), notifications.Data[0].Popup)
}

func (suite *TestSuiteStandard) TestBoardCreateFails() {
	tests := []struct {
		name  string
		body  string
		error string
	}{
		{"Broken body", `[{ "title": 2" }]`, "the body of your request contains invalid or un-parseable data"},
		{"No body", "", "the request body must not be empty"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, "http://example.com/v1/board", tt.body, authHeaders(suite.token))
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)

			var response v1.BoardPostCreateResponse
			test.DecodeResponse(t, &recorder, &response)

			require.NotNil(t, response.Error)
			assert.Equal(t, tt.error, *response.Error)
		})
	}

	itemTests := []struct {
		name     string
		editable v1.BoardPostEditable
		error    string
	}{
		{"No title", v1.BoardPostEditable{Content: "No title"}, "the post title must be set"},
		{"No content", v1.BoardPostEditable{Title: "No content"}, "the post content must be set"},
		{"Invalid type", v1.BoardPostEditable{Title: "Note", Content: "Note", Type: "gossip"}, "the type must be one of announcement, event, task_needed, operational, reminder, celebration"},
		{"Invalid priority", v1.BoardPostEditable{Title: "Note", Content: "Note", Priority: "critical"}, "the priority must be one of low, normal, high, urgent"},
	}

	for _, tt := range itemTests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, "http://example.com/v1/board", []v1.BoardPostEditable{tt.editable}, authHeaders(suite.token))
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)

			var response v1.BoardPostCreateResponse
			test.DecodeResponse(t, &recorder, &response)

			require.Len(t, response.Data, 1)
			require.NotNil(t, response.Data[0].Error)
			assert.Equal(t, tt.error, *response.Data[0].Error)
		})
	}
}

func (suite *TestSuiteStandard) TestBoardCreateNoPermission() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/board", []v1.BoardPostEditable{
		{Title: "Summer party", Content: "We meet at the beach bar."},
	}, authHeaders(userToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

// TestBoardGet verifies the board ordering. Pinned posts come first, then
// higher priority, then the newest. Inactive and expired posts are hidden.
func (suite *TestSuiteStandard) TestBoardGet() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)

	inactive := false
	expired := time.Now().Add(-time.Hour)

	for _, editable := range []v1.BoardPostEditable{
		{Title: "Pinned note", Pinned: true},
		{Title: "Urgent note", Priority: "urgent", Type: "operational"},
		{Title: "High note", Priority: "high"},
		{Title: "Normal note A"},
		{Title: "Normal note B"},
		{Title: "Low note", Priority: "low"},
		{Title: "Hidden note", Active: &inactive},
		{Title: "Expired note", ExpiresAt: &expired},
	} {
		_ = createTestBoardPost(suite.T(), suite.token, editable)
	}

	response := getTestBoardPosts(suite.T(), userToken, "")
	require.Len(suite.T(), response.Data, 6)

	titles := make([]string, 0, len(response.Data))
	for _, post := range response.Data {
		titles = append(titles, post.Title)
	}

	assert.Equal(suite.T(), []string{"Pinned note", "Urgent note", "High note", "Normal note B", "Normal note A", "Low note"}, titles)

	// Filter by type
	response = getTestBoardPosts(suite.T(), userToken, "type=operational")
	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), "Urgent note", response.Data[0].Title)
}

func (suite *TestSuiteStandard) TestBoardEvents() {
	soon := types.Today().AddDays(3)
	later := types.Today().AddDays(10)
	distant := types.Today().AddDays(40)
	past := types.Today().AddDays(-1)
	inactive := false

	for _, editable := range []v1.BoardPostEditable{
		{Title: "Stocktake", Type: "event", EventDate: &later},
		{Title: "Summer party", Type: "event", EventDate: &soon},
		{Title: "Christmas party", Type: "event", EventDate: &distant},
		{Title: "Opening day", Type: "event", EventDate: &past},
		{Title: "Cancelled meetup", Type: "event", EventDate: &soon, Active: &inactive},
		{Title: "Not an event", EventDate: &soon},
	} {
		_ = createTestBoardPost(suite.T(), suite.token, editable)
	}

	// The cancelled meetup is hidden from the board, past events are not
	response := getTestBoardPosts(suite.T(), suite.token, "")
	assert.Len(suite.T(), response.Data, 5)

	// 30 days ahead by default, earliest first

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/board/events", "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var events v1.BoardPostListResponse
	test.DecodeResponse(suite.T(), &r, &events)
	require.Len(suite.T(), events.Data, 2)
	assert.Equal(suite.T(), "Summer party", events.Data[0].Title)
	assert.Equal(suite.T(), "Stocktake", events.Data[1].Title)

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Longer window", "days=50", 3},
		{"Limit", "limit=1", 1},
		{"Short window", "days=5", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/board/events?%s", tt.query), "", authHeaders(suite.token))
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var events v1.BoardPostListResponse
			test.DecodeResponse(t, &r, &events)
			assert.Len(t, events.Data, tt.len)
		})
	}
}

func (suite *TestSuiteStandard) TestBoardGetSingle() {
	post := createTestBoardPost(suite.T(), suite.token, v1.BoardPostEditable{})

	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Existing post", post.ID.String(), http.StatusOK},
		{"No post with this ID", uuid.New().String(), http.StatusNotFound},
		{"Negative number", "-56", http.StatusBadRequest},
		{"Number", "23", http.StatusBadRequest},
		{"Not a UUID", "notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/board/%s", tt.id), "", authHeaders(userToken))
			test.AssertHTTPStatus(t, &recorder, tt.status)

			if tt.status == http.StatusOK {
				var response v1.BoardPostResponse
				test.DecodeResponse(t, &recorder, &response)

				require.NotNil(t, response.Data)
				assert.Equal(t, "Summer party", response.Data.Title)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestBoardUpdate() {
	reader := registerTestUser(suite.T(), v1.RegisterEditable{})
	readerToken := login(suite.T(), reader.Email, testPassword)

	post := createTestBoardPost(suite.T(), suite.token, v1.BoardPostEditable{})

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/board/%s", post.ID), map[string]any{
		"title":    "Autumn party",
		"priority": "urgent",
	}, authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.BoardPostResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), "Autumn party", response.Data.Title)
	assert.Equal(suite.T(), "urgent", response.Data.Priority)

	// notifyAll is only evaluated on creation
	recorder = test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/board/%s", post.ID), map[string]any{
		"content":   "Moved to October.",
		"notifyAll": true,
	}, authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), "Moved to October.", response.Data.Content)

	assert.Len(suite.T(), getTestNotifications(suite.T(), readerToken, "").Data, 1)
}

// TestBoardUpdatePinned verifies that changing the pinned state through an
// update needs "board.pin".
func (suite *TestSuiteStandard) TestBoardUpdatePinned() {
	editorToken := boardEditorToken(suite.T(), suite.token)

	post := createTestBoardPost(suite.T(), suite.token, v1.BoardPostEditable{})

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/board/%s", post.ID), map[string]any{
		"title": "Updated by the editor",
	}, authHeaders(editorToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/board/%s", post.ID), map[string]any{
		"pinned": true,
	}, authHeaders(editorToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	recorder = test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/board/%s", post.ID), map[string]any{
		"pinned": true,
	}, authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.BoardPostResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Data)
	assert.True(suite.T(), response.Data.Pinned)
}

func (suite *TestSuiteStandard) TestBoardUpdateFails() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)

	post := createTestBoardPost(suite.T(), suite.token, v1.BoardPostEditable{})

	// Updating posts needs "board.edit"
	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/board/%s", post.ID), map[string]any{
		"title": "Hijacked",
	}, authHeaders(userToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	tests := []struct {
		name   string
		body   string
		status int
		error  string
	}{
		{"Broken body", `{ "title": 2" }`, http.StatusBadRequest, "the body of your request contains invalid or un-parseable data"},
		{"Empty title", `{ "title": "" }`, http.StatusBadRequest, "the post title must be set"},
		{"Empty content", `{ "content": "" }`, http.StatusBadRequest, "the post content must be set"},
		{"Invalid type", `{ "type": "gossip" }`, http.StatusBadRequest, "the type must be one of announcement, event, task_needed, operational, reminder, celebration"},
		{"Invalid priority", `{ "priority": "critical" }`, http.StatusBadRequest, "the priority must be one of low, normal, high, urgent"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/board/%s", post.ID), tt.body, authHeaders(suite.token))
			test.AssertHTTPStatus(t, &recorder, tt.status)

			var response v1.BoardPostResponse
			test.DecodeResponse(t, &recorder, &response)

			require.NotNil(t, response.Error)
			assert.Equal(t, tt.error, *response.Error)
		})
	}

	recorder = test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/board/%s", uuid.New()), map[string]any{
		"title": "Lost",
	}, authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBoardPin() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)

	post := createTestBoardPost(suite.T(), suite.token, v1.BoardPostEditable{})
	assert.False(suite.T(), post.Pinned)

	// Pinning needs "board.pin"
	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/board/%s/pin", post.ID), "", authHeaders(userToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	recorder = test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/board/%s/pin", post.ID), "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	response := getTestBoardPosts(suite.T(), suite.token, "")
	require.Len(suite.T(), response.Data, 1)
	assert.True(suite.T(), response.Data[0].Pinned)

	recorder = test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/board/%s/pin", post.ID), "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	response = getTestBoardPosts(suite.T(), suite.token, "")
	require.Len(suite.T(), response.Data, 1)
	assert.False(suite.T(), response.Data[0].Pinned)

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No post with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a UUID", "notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, fmt.Sprintf("http://example.com/v1/board/%s/pin", tt.id), "", authHeaders(suite.token))
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestBoardDelete() {
	user := registerTestUser(suite.T(), v1.RegisterEditable{})
	userToken := login(suite.T(), user.Email, testPassword)

	post := createTestBoardPost(suite.T(), suite.token, v1.BoardPostEditable{})

	// Deleting posts needs "board.delete"
	recorder := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/board/%s", post.ID), "", authHeaders(userToken))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	recorder = test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/board/%s", post.ID), "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/board/%s", post.ID), "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Already deleted", post.ID.String(), http.StatusNotFound},
		{"No post with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a UUID", "notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/board/%s", tt.id), "", authHeaders(suite.token))
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestBoardDBClosed() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/board", "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)

	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/board/events", "", authHeaders(suite.token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
