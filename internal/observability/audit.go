package observability

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Audit writes a structured security-relevant event for the request. Trace
// and span ids are attached by the logger's handler; the request id is added
// here so audit lines can be joined with the access log.
func Audit(r *http.Request, event string, attrs ...any) {
	args := make([]any, 0, len(attrs)+4)
	args = append(args, "audit_event", event, "request_id", chimiddleware.GetReqID(r.Context()))
	args = append(args, attrs...)
	NewLogger().InfoContext(r.Context(), "audit", args...)
}
