// Package testutil holds request builders and response assertions shared by
// handler tests and the router test.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewJSONRequest marshals body (when non-nil) and sets the JSON content type.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	if body == nil {
		return jsonRequest(method, path, nil)
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err, "marshal request body")
	return jsonRequest(method, path, bytes.NewReader(raw))
}

// NewRequestWithBody sends raw as-is, for malformed payload cases.
func NewRequestWithBody(t *testing.T, method, path string, raw string) *http.Request {
	t.Helper()
	return jsonRequest(method, path, strings.NewReader(raw))
}

func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

func jsonRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoRequest serves req on handler and returns the recorded response.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// ReadBody returns the recorded body without draining it, so a response can
// be asserted on more than once.
func ReadBody(t *testing.T, rr *httptest.ResponseRecorder) []byte {
	t.Helper()
	require.NotNil(t, rr.Body, "response body")
	return rr.Body.Bytes()
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(ReadBody(t, rr), dest), "decode response: %s", rr.Body.String())
}

// UnmarshalResponse decodes the body into a new T.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var out T
	decode(t, rr, &out)
	return &out
}

// UnmarshalErrorResponse decodes the {"error","error_description"} envelope.
func UnmarshalErrorResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	decode(t, rr, &out)
	return out
}

func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "status; body: %s", rr.Body.String())
}

func AssertStatusOK(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	AssertStatus(t, rr, http.StatusOK)
}

// AssertStatusAndError checks the status and the envelope's error code.
func AssertStatusAndError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, rr, status)
	assert.Equal(t, code, UnmarshalErrorResponse(t, rr)["error"], "error code")
}

// AssertJSONContains checks one top-level field. JSON numbers decode as float64.
func AssertJSONContains(t *testing.T, rr *httptest.ResponseRecorder, key string, expected any) {
	t.Helper()
	var out map[string]any
	decode(t, rr, &out)
	assert.Equal(t, expected, out[key], "field %q", key)
}
