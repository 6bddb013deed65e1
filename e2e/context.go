package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"time"
)

// Dimensions is the embedding length the service accepts.
const Dimensions = 128

// TestContext carries HTTP state across the steps of one scenario. Names used
// in feature files ("CS101", "M101") are suffixed with a per-scenario run id
// so scenarios can run repeatedly against the same database.
type TestContext struct {
	BaseURL    string
	AdminToken string
	HTTPClient *http.Client

	tokens   map[string]string
	role     string
	runID    string
	courses  map[string]float64
	response *http.Response
	body     []byte
}

// NewTestContext reads E2E_BASE_URL, E2E_ADMIN_TOKEN and one bearer token per
// role from E2E_<ROLE>_TOKEN (mint them with `rollcall token --role <role>`).
func NewTestContext() *TestContext {
	tokens := map[string]string{}
	for _, role := range []string{"lecturer", "hod", "admin"} {
		tokens[role] = os.Getenv("E2E_" + strings.ToUpper(role) + "_TOKEN")
	}
	return &TestContext{
		BaseURL:    strings.TrimRight(os.Getenv("E2E_BASE_URL"), "/"),
		AdminToken: os.Getenv("E2E_ADMIN_TOKEN"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
	}
}

// Reset prepares the context for a new scenario.
func (tc *TestContext) Reset() {
	tc.role = ""
	tc.runID = fmt.Sprintf("%d", time.Now().UnixNano())
	tc.courses = map[string]float64{}
	tc.response = nil
	tc.body = nil
}

// Scoped returns name made unique to the current scenario.
func (tc *TestContext) Scoped(name string) string {
	return name + "-" + tc.runID
}

// SetRole selects the bearer token sent with later requests.
func (tc *TestContext) SetRole(role string) error {
	if tc.tokens[role] == "" {
		return fmt.Errorf("no token configured for role %q; set E2E_%s_TOKEN", role, strings.ToUpper(role))
	}
	tc.role = role
	return nil
}

// RememberCourse records the id the service assigned to a course name.
func (tc *TestContext) RememberCourse(name string, id float64) {
	tc.courses[name] = id
}

// CourseID returns the remembered id for name.
func (tc *TestContext) CourseID(name string) (float64, error) {
	id, ok := tc.courses[name]
	if !ok {
		return 0, fmt.Errorf("course %q has not been created in this scenario", name)
	}
	return id, nil
}

// Embedding returns a vector unique to the named student in this scenario.
// Two unrelated vectors are several units apart; shift moves every
// component, so small shifts stay within the match threshold.
func (tc *TestContext) Embedding(student string, shift float64) []float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(tc.Scoped(student)))
	rng := rand.New(rand.NewPCG(h.Sum64(), 0x5eed))
	v := make([]float64, Dimensions)
	for i := range v {
		v[i] = rng.Float64() + shift
	}
	return v
}

func (tc *TestContext) POST(path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return tc.do(http.MethodPost, path, bytes.NewReader(raw), nil)
}

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil, nil)
}

// AdminPOST calls an operator endpoint with the admin token instead of a
// bearer token.
func (tc *TestContext) AdminPOST(path string) error {
	return tc.do(http.MethodPost, path, nil, map[string]string{"X-Admin-Token": tc.AdminToken})
}

func (tc *TestContext) do(method, path string, body io.Reader, headers map[string]string) error {
	req, err := http.NewRequest(method, tc.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tc.role != "" && headers == nil {
		req.Header.Set("Authorization", "Bearer "+tc.tokens[tc.role])
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	tc.response = resp
	tc.body, err = io.ReadAll(resp.Body)
	return err
}

// StatusCode returns the status of the last response.
func (tc *TestContext) StatusCode() int {
	if tc.response == nil {
		return 0
	}
	return tc.response.StatusCode
}

// GetResponseField reads a dotted path such as "summary.total_courses" from
// the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.body, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w (body %s)", err, tc.body)
	}
	for _, part := range strings.Split(field, ".") {
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: %q is not an object", field, part)
		}
		if doc, ok = obj[part]; !ok {
			return nil, fmt.Errorf("field %q missing in %s", field, tc.body)
		}
	}
	return doc, nil
}

// Body returns the raw last response body.
func (tc *TestContext) Body() string {
	return string(tc.body)
}
