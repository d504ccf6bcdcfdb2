package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roby-rodriguez/parking-app/internal/domain"
)

// AccessDescriber backs the guest share-link page.
type AccessDescriber interface {
	Describe(ctx context.Context, shareToken string) (domain.GrantWithLocation, error)
}

// HandleAccessInfo returns grant details for a share token when the
// grant is effectively active; otherwise a status-specific error so the
// guest page can explain itself.
func HandleAccessInfo(svc AccessDescriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		if token == "" {
			writeError(w, http.StatusBadRequest, codeMissingShareToken, "share token is required")
			return
		}

		resolved, err := svc.Describe(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrGrantNotFound):
				writeError(w, http.StatusNotFound, codeGrantNotFound, domain.ErrGrantNotFound.Error())
			case errors.Is(err, domain.ErrGrantSuspended):
				writeError(w, http.StatusForbidden, codeAccessSuspended, domain.ErrGrantSuspended.Error())
			case errors.Is(err, domain.ErrGrantExpired):
				writeError(w, http.StatusForbidden, codeAccessExpired, domain.ErrGrantExpired.Error())
			case errors.Is(err, domain.ErrGrantPending):
				writeError(w, http.StatusForbidden, codeAccessPending, domain.ErrGrantPending.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, accessInfoResponse{
			GuestName: resolved.Grant.GuestName,
			ValidFrom: formatDate(resolved.Grant.ValidFrom),
			ValidTo:   formatDate(resolved.Grant.ValidTo),
			Location: locationResponse{
				ID:              resolved.Location.ID,
				Name:            resolved.Location.Name,
				Apartment:       resolved.Location.Apartment,
				Address:         resolved.Location.Address,
				GateNumber:      resolved.Location.GateNumber,
				GateName:        resolved.Location.GateName,
				GateDescription: resolved.Location.GateDescription,
			},
		})
	}
}

type accessInfoResponse struct {
	GuestName string           `json:"guest_name"`
	ValidFrom string           `json:"valid_from"`
	ValidTo   string           `json:"valid_to"`
	Location  locationResponse `json:"location"`
}

type locationResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Apartment       string `json:"apartment"`
	Address         string `json:"address"`
	GateNumber      int    `json:"gate_number"`
	GateName        string `json:"gate_name"`
	GateDescription string `json:"gate_description,omitempty"`
}
