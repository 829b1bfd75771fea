package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Trace opens a server span per request. Must run before AttachTraceContext so the
// trace id header reflects the span.
func Trace(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
