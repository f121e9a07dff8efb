package response

import (
	"net/http"

	appCtx "github.com/AnishBandal/deforestation-monitoring-tool/internal/pkg/context"
)

// RequestIDFromContext extracts the request id set by the RequestID middleware.
func RequestIDFromContext(r *http.Request) string {
	return appCtx.GetRequestID(r.Context())
}
