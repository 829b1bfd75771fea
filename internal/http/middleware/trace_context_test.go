package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aet-studio-backend/internal/platform/ctxutil"
)

func TestAttachTraceContextCarriesDraftID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = *ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-1")
	req.Header.Set("X-Draft-Id", "draft-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen.RequestID != "req-1" || seen.DraftID != "draft-42" {
		t.Fatalf("trace data: got=%+v", seen)
	}
	if seen.TraceID != "req-1" {
		t.Fatalf("trace id without a span: want=%q got=%q", "req-1", seen.TraceID)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "req-1" {
		t.Fatalf("X-Request-Id: want=%q got=%q", "req-1", got)
	}
}

func TestAttachTraceContextDropsUnsafeClientIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = *ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("a", 200))
	req.Header.Set("X-Draft-Id", "has space")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if len(seen.RequestID) != 36 {
		t.Fatalf("oversized request id should be replaced by a uuid, got=%q", seen.RequestID)
	}
	if seen.DraftID != "" {
		t.Fatalf("draft id with whitespace should be dropped, got=%q", seen.DraftID)
	}
}
