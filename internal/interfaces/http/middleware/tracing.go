package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/profitmap/docflow/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request. Health probes are not traced.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		return r.URL.Path != "/health"
	}))
}

// TraceAttributes tags the active server span with the request and company IDs.
// It must run after Tracing and the request logger.
func TraceAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if id := logger.GetCompanyID(c.Request.Context()); id != "" {
				span.SetAttributes(attribute.String("company_id", id))
			}
		}
		c.Next()
	}
}
