package http

import (
	"context"
	"net/http"
	"time"

	"github.com/roby-rodriguez/parking-app/internal/domain"
)

type HistoryLister interface {
	ListHistory(ctx context.Context) ([]domain.HistoryRecord, error)
}

// HandleListHistory returns archived grants, most recently deleted first.
func HandleListHistory(svc HistoryLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.ListHistory(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		resp := make([]historyResponse, 0, len(records))
		for _, rec := range records {
			resp = append(resp, toHistoryResponse(rec))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type historyResponse struct {
	ID         string    `json:"id"`
	OriginalID string    `json:"original_id"`
	ShareToken string    `json:"share_token"`
	GuestName  string    `json:"guest_name"`
	ValidFrom  string    `json:"valid_from"`
	ValidTo    string    `json:"valid_to"`
	Status     string    `json:"status"`
	LocationID int64     `json:"location_id"`
	CreatedAt  time.Time `json:"created_at"`
	DeletedAt  time.Time `json:"deleted_at"`
	DeletedBy  string    `json:"deleted_by,omitempty"`
	Reason     string    `json:"reason"`
}

func toHistoryResponse(rec domain.HistoryRecord) historyResponse {
	return historyResponse{
		ID:         rec.ID,
		OriginalID: rec.OriginalID,
		ShareToken: rec.ShareToken,
		GuestName:  rec.GuestName,
		ValidFrom:  formatDate(rec.ValidFrom),
		ValidTo:    formatDate(rec.ValidTo),
		Status:     string(rec.StoredStatus),
		LocationID: rec.LocationID,
		CreatedAt:  rec.CreatedAt,
		DeletedAt:  rec.DeletedAt,
		DeletedBy:  rec.DeletedBy,
		Reason:     rec.Reason,
	}
}
