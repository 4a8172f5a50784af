package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader carries the trace id back to the caller
const TraceIDHeader = "X-Trace-ID"

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// TracerProvider overrides the global provider, mainly for tests
	TracerProvider trace.TracerProvider
	SkipPaths      []string
}

// DefaultTracingConfig returns default tracing configuration
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "tradedesk-backend",
		Enabled:     true,
		SkipPaths:   []string{"/health"},
	}
}

// Tracing starts a server span per request via otelgin and tags it with
// the request id, the resolved tenant and rule-violation statuses.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	opts := []otelgin.Option{
		otelgin.WithFilter(func(r *http.Request) bool {
			for _, p := range cfg.SkipPaths {
				if r.URL.Path == p {
					return false
				}
			}
			return true
		}),
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	return otelgin.Middleware(cfg.ServiceName, opts...)
}

// SpanAttributes runs inside the otelgin span: it echoes the trace id and,
// once the handlers have run, records tenant and rule-violation details.
// It is a no-op for requests without a recording span.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Header(TraceIDHeader, sc.TraceID().String())
		}
		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}

		c.Next()

		if tenantID := GetTenantID(c); tenantID != uuid.Nil {
			span.SetAttributes(attribute.String("tenant_id", tenantID.String()))
		}
		status := c.Writer.Status()
		switch {
		case status == http.StatusUnprocessableEntity:
			span.SetAttributes(attribute.Bool("tradedesk.rule_violation", true))
		case status >= http.StatusInternalServerError:
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// ProfileLabels tags CPU samples taken while a request runs with its route
// and tenant. Install it after the tenant middleware.
func ProfileLabels() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := []string{"route", route, "method", c.Request.Method, "resource", resourceOf(route)}
		if tenantID := GetTenantID(c); tenantID != uuid.Nil {
			labels = append(labels, "tenant_id", tenantID.String())
		}
		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(labels...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceOf returns the first segment after /api/<version>, e.g.
// "/api/v1/purchase-orders/:id/send" gives "purchase-orders".
func resourceOf(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	if len(parts) >= 3 && parts[0] == "api" {
		return parts[2]
	}
	if len(parts) > 0 {
		return parts[0]
	}
	return ""
}
