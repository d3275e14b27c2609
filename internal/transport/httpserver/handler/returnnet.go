package handler

import (
	"net/http"
	"time"

	baheedomain "vigat-bahee/internal/domain/bahee"
	"vigat-bahee/internal/domain/tithi"
	"vigat-bahee/internal/metrics"

	"github.com/go-chi/chi/v5"
)

type returnNetRequest struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Confirmed   bool   `json:"confirmed"`
}

type returnNetResponse struct {
	ID          string    `json:"id"`
	EntryID     string    `json:"entry_id"`
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Confirmed   bool      `json:"confirmed"`
	CreatedAt   time.Time `json:"created_at"`
}

func toReturnNetResponse(log baheedomain.ReturnNetLog) returnNetResponse {
	return returnNetResponse{
		ID:          log.ID,
		EntryID:     log.EntryKey,
		Name:        log.Name,
		Date:        log.Date.Format(tithi.DateLayout),
		Description: log.Description,
		Confirmed:   log.Confirmed,
		CreatedAt:   log.CreatedAt,
	}
}

// RecordReturnNet writes the return-net log and locks the entry.
func (h *Handlers) RecordReturnNet(w http.ResponseWriter, r *http.Request) {
	var req returnNetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	date, err := parseDateParam(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	id := chi.URLParam(r, "id")
	detail, err := h.Bahee.RecordReturnNet(r.Context(), baheedomain.ReturnNetInput{
		OwnerID:     user.ID,
		EntryID:     id,
		Name:        req.Name,
		Date:        date,
		Description: req.Description,
		Confirmed:   req.Confirmed,
	})
	if err != nil {
		h.fail(w, "entries.return_net: record failed", err, "user_id", user.ID, "entry_id", id)
		return
	}
	metrics.EntriesLocked.Inc()
	h.log.Info("entries.return_net: entry locked", "user_id", user.ID, "entry_id", id)

	writeData(w, http.StatusCreated, toEntryDetailResponse(*detail))
}
