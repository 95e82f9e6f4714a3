package observability

import (
	"log/slog"
	"net"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// Audit writes one log line per security-relevant account action: logins,
// passcode decisions, bans, approval verdicts. Lines are plain slog records
// so they ride the same OTel pipeline as application logs; trace and span
// identifiers are attached as attributes for log/trace correlation.
func Audit(r *http.Request, event string, attrs ...any) {
	clientIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		clientIP = host
	}
	kv := []any{
		"event", event,
		"method", r.Method,
		"path", r.URL.Path,
		"client_ip", clientIP,
		"request_id", r.Header.Get("X-Request-Id"),
	}
	if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
		kv = append(kv, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
	}
	kv = append(kv, attrs...)
	slog.InfoContext(r.Context(), "audit", kv...)
}
