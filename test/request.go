package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"reflect"
	"testing"

	"github.com/staffplan/backend/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Request runs a single HTTP request against a freshly configured router and
// returns the recorded response.
//
// String bodies are passed through unchanged so that tests can send
// intentionally broken JSON. Structs, maps and slices are marshaled.
func Request(t *testing.T, method, reqURL string, body any, headers ...map[string]string) httptest.ResponseRecorder {
	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		assert.FailNow(t, "environment variable API_URL must be set")
	}

	baseURL, err := url.Parse(apiURL)
	if err != nil {
		assert.FailNow(t, "environment variable API_URL must be a valid URL")
	}

	r, teardown, err := router.Config(baseURL, "0.0.0")
	defer teardown()

	if err != nil {
		assert.FailNow(t, "Router could not be initialized")
	}
	router.AttachRoutes("0.0.0", r.Group("/"))

	req, _ := http.NewRequest(method, reqURL, requestBody(t, body))

	// ServeHTTP bypasses the network stack, handlers that look at the
	// client address still need one
	req.RemoteAddr = "192.0.2.1:1234"

	for _, headerMap := range headers {
		for header, value := range headerMap {
			req.Header.Set(header, value)
		}
	}

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	return *recorder
}

// requestBody converts the body argument of Request into a buffer.
func requestBody(t *testing.T, body any) *bytes.Buffer {
	switch reflect.TypeOf(body).Kind() {
	case reflect.String:
		return bytes.NewBufferString(body.(string))

	case reflect.Struct, reflect.Map, reflect.Slice:
		marshaled, err := json.Marshal(body)
		if err != nil {
			assert.Fail(t, "Request body could not be marshalled from struct input", err)
		}
		return bytes.NewBuffer(marshaled)

	default:
		// Assume a *bytes.Buffer, e.g. for file uploads
		return body.(*bytes.Buffer)
	}
}

// DecodeResponse parses the recorded response body into target.
func DecodeResponse(t *testing.T, r *httptest.ResponseRecorder, target any) {
	if err := json.Unmarshal(r.Body.Bytes(), &target); err != nil {
		assert.FailNow(t, "Parsing error", "Unable to parse response from server %q into %v, '%v', Request ID: %s", r.Body, reflect.TypeOf(target), err, r.Result().Header.Get("x-request-id"))
	}
}

// AssertHTTPStatus verifies that the response status is one of expectedStatus.
func AssertHTTPStatus(t *testing.T, r *httptest.ResponseRecorder, expectedStatus ...int) {
	require.Contains(t, expectedStatus, r.Code, "HTTP status is wrong. Request ID: '%s' Response body: %s", r.Result().Header.Get("x-request-id"), r.Body.String())
}
