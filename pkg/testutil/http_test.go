package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseCanBeAssertedRepeatedly(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"Course already assigned"}`))
	})
	rr := DoRequest(h, httptest.NewRequest(http.MethodGet, "/", nil))

	AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	assert.Equal(t, "Course already assigned", UnmarshalErrorResponse(t, rr)["error_description"])
	AssertJSONContains(t, rr, "error", "forbidden")
}
