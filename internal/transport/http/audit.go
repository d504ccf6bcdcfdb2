package http

import (
	"context"
	"net/http"
	"time"

	"github.com/roby-rodriguez/parking-app/internal/domain"
)

type AuditLister interface {
	ListAudit(ctx context.Context) ([]domain.AuditRecord, error)
}

// HandleListAudit returns gate-opening audit entries. Entries whose
// grant has since been deleted still appear, with empty labels.
func HandleListAudit(svc AuditLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.ListAudit(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		resp := make([]auditResponse, 0, len(records))
		for _, rec := range records {
			resp = append(resp, auditResponse{
				ID:           rec.ID,
				GrantID:      rec.GrantID,
				Action:       rec.Action,
				IP:           rec.IPAddress,
				UserAgent:    rec.UserAgent,
				GuestName:    rec.GuestName,
				LocationName: rec.LocationName,
				GateName:     rec.GateName,
				CreatedAt:    rec.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type auditResponse struct {
	ID           string    `json:"id"`
	GrantID      string    `json:"grant_id"`
	Action       string    `json:"action"`
	IP           string    `json:"ip,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	GuestName    string    `json:"guest_name,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	GateName     string    `json:"gate_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
