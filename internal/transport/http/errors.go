package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeMissingShareToken  = "missing_share_token"
	codeGrantNotFound      = "grant_not_found"
	codeAccessSuspended    = "access_suspended"
	codeAccessExpired      = "access_expired"
	codeAccessPending      = "access_pending"
	codeRateLimited        = "rate_limited"
	codeGateConfiguration  = "gate_configuration_missing"
	codeActuationFailed    = "actuation_failed"
	codeValidationFailed   = "validation_failed"
	codeWindowOverlap      = "window_overlap"
	codeLocationNotFound   = "location_not_found"
	codeReasonRequired     = "reason_required"
	codeInvalidID          = "invalid_id"
	codeInvalidStatus      = "invalid_status"
	codeUnauthorized       = "unauthorized"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
