package http

import (
	"context"
	"net/http"

	"github.com/roby-rodriguez/parking-app/internal/domain"
)

type LocationLister interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
}

func HandleListLocations(svc LocationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locations, err := svc.ListLocations(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		resp := make([]locationResponse, 0, len(locations))
		for _, loc := range locations {
			resp = append(resp, locationResponse{
				ID:              loc.ID,
				Name:            loc.Name,
				Apartment:       loc.Apartment,
				Address:         loc.Address,
				GateNumber:      loc.GateNumber,
				GateName:        loc.GateName,
				GateDescription: loc.GateDescription,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
