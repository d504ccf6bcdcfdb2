package http

import (
	stdhttp "net/http"
)

// HealthHandler reports process liveness only. Gate actuation and the
// rate-limit store degrade per request, so neither is checked here.
func HealthHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
