package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roby-rodriguez/parking-app/internal/app"
	"github.com/roby-rodriguez/parking-app/internal/domain"
)

// GrantAdmin is the minimal interface the admin grant endpoints need.
type GrantAdmin interface {
	CreateGrant(ctx context.Context, in app.GrantInput) (domain.Grant, error)
	UpdateGrant(ctx context.Context, id string, in app.GrantInput) (domain.Grant, error)
	Suspend(ctx context.Context, id string) (domain.Grant, error)
	Resume(ctx context.Context, id string) (domain.Grant, error)
	Delete(ctx context.Context, id, reason, deletedBy string) (domain.HistoryRecord, error)
	List(ctx context.Context) ([]app.GrantSummary, error)
}

// HandleListGrants returns every grant with its location and the
// effective status computed at request time.
func HandleListGrants(svc GrantAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		resp := make([]grantResponse, 0, len(summaries))
		for _, s := range summaries {
			resp = append(resp, toGrantResponse(s))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func HandleCreateGrant(svc GrantAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeGrantInput(w, r)
		if !ok {
			return
		}
		grant, err := svc.CreateGrant(r.Context(), in)
		if err != nil {
			writeGrantError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBareGrantResponse(grant))
	}
}

func HandleUpdateGrant(svc GrantAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		in, ok := decodeGrantInput(w, r)
		if !ok {
			return
		}
		grant, err := svc.UpdateGrant(r.Context(), id, in)
		if err != nil {
			writeGrantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBareGrantResponse(grant))
	}
}

// HandleSetSuspension covers both the suspend and resume transitions.
func HandleSetSuspension(svc GrantAdmin, suspend bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var (
			grant domain.Grant
			err   error
		)
		if suspend {
			grant, err = svc.Suspend(r.Context(), id)
		} else {
			grant, err = svc.Resume(r.Context(), id)
		}
		if err != nil {
			writeGrantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBareGrantResponse(grant))
	}
}

func HandleDeleteGrant(svc GrantAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req deleteGrantRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		record, err := svc.Delete(r.Context(), id, req.Reason, SubjectFromContext(r.Context()))
		if err != nil {
			writeGrantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toHistoryResponse(record))
	}
}

func decodeGrantInput(w http.ResponseWriter, r *http.Request) (app.GrantInput, bool) {
	var req grantRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return app.GrantInput{}, false
	}

	validFrom, err := parseDate(req.ValidFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "valid_from must be YYYY-MM-DD")
		return app.GrantInput{}, false
	}
	validTo, err := parseDate(req.ValidTo)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "valid_to must be YYYY-MM-DD")
		return app.GrantInput{}, false
	}

	return app.GrantInput{
		GuestName:  req.GuestName,
		LocationID: req.LocationID,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
		Status:     domain.Status(req.Status),
	}, true
}

func writeGrantError(w http.ResponseWriter, err error) {
	var validation *app.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, validationErrorResponse{
			Error:  "validation failed",
			Code:   codeValidationFailed,
			Fields: validation.Fields,
		})
	case errors.Is(err, domain.ErrWindowOverlap):
		writeError(w, http.StatusConflict, codeWindowOverlap, domain.ErrWindowOverlap.Error())
	case errors.Is(err, domain.ErrGrantNotFound):
		writeError(w, http.StatusNotFound, codeGrantNotFound, domain.ErrGrantNotFound.Error())
	case errors.Is(err, domain.ErrLocationNotFound):
		writeError(w, http.StatusNotFound, codeLocationNotFound, domain.ErrLocationNotFound.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
	case errors.Is(err, domain.ErrReasonRequired):
		writeError(w, http.StatusBadRequest, codeReasonRequired, domain.ErrReasonRequired.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, codeInvalidStatus, domain.ErrInvalidStatus.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type grantRequest struct {
	GuestName  string `json:"guest_name"`
	LocationID int64  `json:"location_id"`
	ValidFrom  string `json:"valid_from"`
	ValidTo    string `json:"valid_to"`
	Status     string `json:"status,omitempty"`
}

type deleteGrantRequest struct {
	Reason string `json:"reason"`
}

type grantResponse struct {
	ID              string           `json:"id"`
	ShareToken      string           `json:"share_token"`
	GuestName       string           `json:"guest_name"`
	ValidFrom       string           `json:"valid_from"`
	ValidTo         string           `json:"valid_to"`
	Status          string           `json:"status"`
	EffectiveStatus string           `json:"effective_status"`
	Location        locationResponse `json:"location"`
	CreatedAt       time.Time        `json:"created_at"`
}

type bareGrantResponse struct {
	ID         string    `json:"id"`
	ShareToken string    `json:"share_token"`
	GuestName  string    `json:"guest_name"`
	ValidFrom  string    `json:"valid_from"`
	ValidTo    string    `json:"valid_to"`
	Status     string    `json:"status"`
	LocationID int64     `json:"location_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type validationErrorResponse struct {
	Error  string           `json:"error"`
	Code   string           `json:"code"`
	Fields []app.FieldError `json:"fields"`
}

func toGrantResponse(s app.GrantSummary) grantResponse {
	return grantResponse{
		ID:              s.Grant.ID,
		ShareToken:      s.Grant.ShareToken,
		GuestName:       s.Grant.GuestName,
		ValidFrom:       formatDate(s.Grant.ValidFrom),
		ValidTo:         formatDate(s.Grant.ValidTo),
		Status:          string(s.Grant.StoredStatus),
		EffectiveStatus: string(s.EffectiveStatus),
		Location: locationResponse{
			ID:              s.Location.ID,
			Name:            s.Location.Name,
			Apartment:       s.Location.Apartment,
			Address:         s.Location.Address,
			GateNumber:      s.Location.GateNumber,
			GateName:        s.Location.GateName,
			GateDescription: s.Location.GateDescription,
		},
		CreatedAt: s.Grant.CreatedAt,
	}
}

func toBareGrantResponse(g domain.Grant) bareGrantResponse {
	return bareGrantResponse{
		ID:         g.ID,
		ShareToken: g.ShareToken,
		GuestName:  g.GuestName,
		ValidFrom:  formatDate(g.ValidFrom),
		ValidTo:    formatDate(g.ValidTo),
		Status:     string(g.StoredStatus),
		LocationID: g.LocationID,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}
