package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("create block: %w", Forbidden("quota_exceeded", "limit"))
	if KindOf(err) != KindForbidden {
		t.Fatalf("expected forbidden, got %s", KindOf(err))
	}
	if !IsBusiness(err, "quota_exceeded") {
		t.Fatalf("expected IsBusiness match")
	}
	if KindOf(errors.New("boom")) != KindUnclassified {
		t.Fatalf("plain error should be unclassified")
	}
}

func TestRespond_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{Invalid("invalid_date", "bad date"), http.StatusBadRequest, "invalid_date"},
		{Forbidden("forbidden", "Forbidden"), http.StatusForbidden, "forbidden"},
		{NotFoundErr("schedule_not_found", "none"), http.StatusNotFound, "schedule_not_found"},
		{Conflict("already_contractor", "dup"), http.StatusConflict, "already_contractor"},
		{errors.New("db down"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Respond(c, tc.err, "something failed")

		if w.Code != tc.status {
			t.Fatalf("%v: status %d, want %d", tc.err, w.Code, tc.status)
		}
		var body HTTPError
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Code != tc.code {
			t.Fatalf("%v: code %q, want %q", tc.err, body.Code, tc.code)
		}
		if body.Message == "" {
			t.Fatalf("%v: empty error message", tc.err)
		}
	}
}
