package main

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "rollcall/internal/jwt_token"
	"rollcall/internal/platform/config"
	"rollcall/pkg/testutil"
)

const (
	signingKey = "test-signing-key"
	adminToken = "test-admin-token"
)

func newTestServer(t *testing.T) (*app, http.Handler) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Addr:     ":0",
		Database: config.DatabaseConfig{Driver: "sqlite3", DSN: filepath.Join(dir, "ledger.db")},
		Index:    config.IndexConfig{Dir: filepath.Join(dir, "index")},
		Match:    config.MatchConfig{Threshold: 0.6},
		JWT:      config.JWTConfig{SigningKey: signingKey, Issuer: "rollcall"},
		Admin:    config.AdminConfig{Token: adminToken},
		Log:      config.LogConfig{Level: "error", Format: "text"},
		Timezone: "UTC",
	}
	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a, newRouter(a)
}

func bearer(t *testing.T, userID int64, role string) string {
	t.Helper()
	token, err := jwttoken.NewJWTService(signingKey, "rollcall").GenerateAccessToken(userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func vector(fill float64) []float64 {
	v := make([]float64, 128)
	for i := range v {
		v[i] = fill
	}
	return v
}

func do(t *testing.T, h http.Handler, method, path, auth string, body any) map[string]any {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, path, body)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := testutil.DoRequest(h, req)
	out := map[string]any{"_status": float64(rr.Code)}
	if rr.Body.Len() > 0 {
		for k, v := range *testutil.UnmarshalResponse[map[string]any](t, rr) {
			out[k] = v
		}
	}
	return out
}

func TestAttendanceFlowOverHTTP(t *testing.T) {
	_, h := newTestServer(t)
	lecturer := bearer(t, 3, "lecturer")

	resp := do(t, h, http.MethodPost, "/courses/create", lecturer, map[string]string{"name": "CS101"})
	require.Equal(t, float64(http.StatusCreated), resp["_status"])
	courseID := resp["course_id"].(float64)

	resp = do(t, h, http.MethodPost, "/students/register", lecturer, map[string]any{
		"first_name": "Ada", "last_name": "Lovelace", "matric_number": "M101",
		"level": "100", "courses_offered": []string{"CS101"}, "embedding": vector(0.1),
	})
	require.Equal(t, float64(http.StatusCreated), resp["_status"])
	assert.Equal(t, true, resp["indexed"])

	mark := map[string]any{"course_id": courseID, "embedding": vector(0.1)}
	resp = do(t, h, http.MethodPost, "/attendance/mark", lecturer, mark)
	require.Equal(t, float64(http.StatusOK), resp["_status"])
	assert.Equal(t, true, resp["attendance_marked"])
	assert.Equal(t, "M101", resp["matric_number"])

	resp = do(t, h, http.MethodPost, "/attendance/mark", lecturer, mark)
	assert.Equal(t, false, resp["attendance_marked"])
	assert.Equal(t, "already marked today", resp["reason"])

	resp = do(t, h, http.MethodPost, "/attendance/mark", lecturer, map[string]any{"course_id": courseID, "embedding": vector(5)})
	assert.Equal(t, float64(http.StatusNotFound), resp["_status"])
	assert.Equal(t, false, resp["match"])

	resp = do(t, h, http.MethodGet, "/attendance/department_summary", lecturer, nil)
	require.Equal(t, float64(http.StatusOK), resp["_status"])
	assert.Equal(t, float64(1), resp["summary"].(map[string]any)["total_attendance_records"])

	resp = do(t, h, http.MethodGet, "/courses/my", lecturer, nil)
	assert.Len(t, resp["courses"], 1)
}

func TestRouteGuards(t *testing.T) {
	_, h := newTestServer(t)

	resp := do(t, h, http.MethodPost, "/attendance/mark", "", map[string]any{"course_id": 1, "embedding": vector(0)})
	assert.Equal(t, float64(http.StatusUnauthorized), resp["_status"])

	resp = do(t, h, http.MethodGet, "/hod/overview", bearer(t, 3, "lecturer"), nil)
	assert.Equal(t, float64(http.StatusForbidden), resp["_status"])

	resp = do(t, h, http.MethodGet, "/hod/overview", bearer(t, 1, "hod"), nil)
	assert.Equal(t, float64(http.StatusOK), resp["_status"])
	assert.Equal(t, float64(0), resp["average_attendance"])

	resp = do(t, h, http.MethodPost, "/admin/reconcile", "", nil)
	assert.Equal(t, float64(http.StatusUnauthorized), resp["_status"])
}

func TestAdminReconcile(t *testing.T) {
	a, h := newTestServer(t)
	req := testutil.NewRequest(t, http.MethodPost, "/admin/reconcile")
	req.Header.Set("X-Admin-Token", adminToken)

	rr := testutil.DoRequest(h, req)

	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "index_after", float64(0))
	assert.Zero(t, a.index.Len())
}

func TestHealthAndMetrics(t *testing.T) {
	_, h := newTestServer(t)

	rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "status", "ok")

	rr = testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(t, rr)
	assert.True(t, strings.Contains(rr.Body.String(), "rollcall_http_request_duration_seconds"))
}
