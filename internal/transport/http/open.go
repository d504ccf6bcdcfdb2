package http

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/roby-rodriguez/parking-app/internal/app"
	"github.com/roby-rodriguez/parking-app/internal/domain"
)

// GateOpener is the minimal interface the public open endpoint needs.
type GateOpener interface {
	OpenGate(ctx context.Context, shareToken string, meta app.RequestMeta) (app.OpenResult, error)
}

// HandleOpenGate returns the handler for the guarded gate-opening
// operation behind the share link.
func HandleOpenGate(svc GateOpener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req openGateRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.ShareToken == "" {
			writeError(w, http.StatusBadRequest, codeMissingShareToken, "share_token is required")
			return
		}

		result, err := svc.OpenGate(r.Context(), req.ShareToken, app.RequestMeta{
			IP:        clientIP(r),
			UserAgent: r.UserAgent(),
		})
		if err != nil {
			openAttempts.WithLabelValues(openOutcome(err)).Inc()
			writeOpenError(w, err)
			return
		}

		openAttempts.WithLabelValues("success").Inc()
		writeJSON(w, http.StatusOK, openGateResponse{
			Status:  "success",
			Message: result.Message,
		})
	}
}

// writeOpenError maps the attempt taxonomy to guest-safe responses. The
// three not-active cases stay distinguishable so the guest knows why the
// link stopped working.
func writeOpenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrGrantNotFound):
		writeError(w, http.StatusNotFound, codeGrantNotFound, domain.ErrGrantNotFound.Error())
	case errors.Is(err, domain.ErrGrantSuspended):
		writeError(w, http.StatusForbidden, codeAccessSuspended, domain.ErrGrantSuspended.Error())
	case errors.Is(err, domain.ErrGrantExpired):
		writeError(w, http.StatusForbidden, codeAccessExpired, domain.ErrGrantExpired.Error())
	case errors.Is(err, domain.ErrGrantPending):
		writeError(w, http.StatusForbidden, codeAccessPending, domain.ErrGrantPending.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, codeRateLimited, domain.ErrRateLimited.Error())
	case errors.Is(err, domain.ErrGateConfigMissing):
		writeError(w, http.StatusInternalServerError, codeGateConfiguration, "gate configuration missing")
	case errors.Is(err, domain.ErrActuationFailed):
		writeError(w, http.StatusInternalServerError, codeActuationFailed, domain.ErrActuationFailed.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

// openOutcome labels an attempt for the outcome counter.
func openOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrGrantNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrGrantSuspended):
		return "suspended"
	case errors.Is(err, domain.ErrGrantExpired):
		return "expired"
	case errors.Is(err, domain.ErrGrantPending):
		return "pending"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrGateConfigMissing):
		return "configuration"
	case errors.Is(err, domain.ErrActuationFailed):
		return "actuation_failed"
	default:
		return "error"
	}
}

type openGateRequest struct {
	ShareToken string `json:"share_token"`
}

type openGateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// clientIP prefers proxy headers because the service normally sits
// behind one; audit rows should carry the guest address, not the proxy's.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
