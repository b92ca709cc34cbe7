package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"callcenter_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"nil error", nil, 0, ""},
		{"not found", apperr.NotFound("no leads available"), http.StatusNotFound, "no leads available"},
		{"conflict", apperr.Conflict("lead already claimed"), http.StatusConflict, "lead already claimed"},
		{"validation", apperr.Validation("unknown disposition code"), http.StatusBadRequest, "unknown disposition code"},
		{"forbidden", apperr.Forbidden("agent is blocked"), http.StatusForbidden, "agent is blocked"},
		{"internal", apperr.Internal("failed to create appointment"), http.StatusInternalServerError, "failed to create appointment"},
		{"wrapped typed error", apperr.Wrap(apperr.KindConflict, "claim lost", errors.New("row gone")), http.StatusConflict, "claim lost"},
		{"untyped error", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			handled := HandleError(c, tc.err)
			if tc.err == nil {
				if handled {
					t.Fatalf("nil error must not be handled")
				}
				return
			}
			if !handled {
				t.Fatalf("error not handled")
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}

			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body.Error != tc.wantBody {
				t.Fatalf("error message = %q, want %q", body.Error, tc.wantBody)
			}
		})
	}
}

func TestUntypedErrorNeverLeaksDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	HandleError(c, errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Error != "internal error" || body.Details != nil {
		t.Fatalf("driver error leaked to client: %+v", body)
	}
}
