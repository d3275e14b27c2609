package handler

import (
	"net/http"
	"strings"
	"time"

	baheedomain "vigat-bahee/internal/domain/bahee"
	"vigat-bahee/internal/domain/tithi"
	"vigat-bahee/internal/metrics"

	"github.com/go-chi/chi/v5"
)

type entryRequest struct {
	Category      string   `json:"category"`
	HeaderName    string   `json:"header_name"`
	Caste         string   `json:"caste"`
	Name          string   `json:"name"`
	FatherName    string   `json:"father_name"`
	Village       string   `json:"village"`
	Income        float64  `json:"income"`
	Amount        *float64 `json:"amount"`
	AmountEnabled bool     `json:"amount_enabled"`
}

type entryResponse struct {
	ID              string                `json:"id"`
	Category        string                `json:"category"`
	CategoryName    string                `json:"category_name"`
	HeaderName      string                `json:"header_name"`
	Caste           string                `json:"caste"`
	Name            string                `json:"name"`
	FatherName      string                `json:"father_name"`
	Village         string                `json:"village"`
	Income          float64               `json:"income"`
	Amount          *float64              `json:"amount"`
	State           baheedomain.LockState `json:"state"`
	Locked          bool                  `json:"locked"`
	LockDate        *string               `json:"lock_date,omitempty"`
	LockDescription string                `json:"lock_description,omitempty"`
	ReturnNet       *returnNetResponse    `json:"return_net,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type entryListResponse struct {
	Items  []entryResponse `json:"items"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	Totals totalsResponse  `json:"totals"`
}

func toEntryResponse(entry baheedomain.Entry) entryResponse {
	resp := entryResponse{
		ID:              entry.ID,
		Category:        string(entry.Category),
		CategoryName:    entry.CategoryName,
		HeaderName:      entry.HeaderName,
		Caste:           entry.Caste,
		Name:            entry.Name,
		FatherName:      entry.FatherName,
		Village:         entry.Village,
		Income:          entry.Income,
		Amount:          entry.Amount,
		State:           entry.State(),
		Locked:          entry.Locked,
		LockDescription: entry.LockDescription,
		CreatedAt:       entry.CreatedAt,
		UpdatedAt:       entry.UpdatedAt,
	}
	if entry.LockDate != nil {
		date := entry.LockDate.Format(tithi.DateLayout)
		resp.LockDate = &date
	}
	return resp
}

func toEntryDetailResponse(detail baheedomain.EntryDetail) entryResponse {
	resp := toEntryResponse(detail.Entry)
	resp.State = detail.State
	if detail.ReturnNet != nil {
		log := toReturnNetResponse(*detail.ReturnNet)
		resp.ReturnNet = &log
	}
	return resp
}

func (r entryRequest) input(ownerID string) baheedomain.EntryInput {
	return baheedomain.EntryInput{
		OwnerID:       ownerID,
		Category:      r.Category,
		HeaderName:    r.HeaderName,
		Caste:         r.Caste,
		Name:          r.Name,
		FatherName:    r.FatherName,
		Village:       r.Village,
		Income:        r.Income,
		Amount:        r.Amount,
		AmountEnabled: r.AmountEnabled,
	}
}

// entryFilter reads category, header_name, search, limit and offset.
func entryFilter(r *http.Request) (baheedomain.EntryFilter, error) {
	query := r.URL.Query()
	filter := baheedomain.EntryFilter{
		HeaderName: strings.TrimSpace(query.Get("header_name")),
		Search:     strings.TrimSpace(query.Get("search")),
	}
	if value := strings.TrimSpace(query.Get("category")); value != "" {
		category, err := baheedomain.ParseCategory(value)
		if err != nil {
			return baheedomain.EntryFilter{}, err
		}
		filter.Category = category
	}

	limit, offset, err := parsePage(query.Get("limit"), query.Get("offset"))
	if err != nil {
		return baheedomain.EntryFilter{}, err
	}
	filter.Limit = limit
	filter.Offset = offset
	return filter, nil
}

func (h *Handlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	filter, err := entryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, total, err := h.Bahee.ListEntries(r.Context(), user.ID, filter)
	if err != nil {
		h.fail(w, "entries.list: list failed", err, "user_id", user.ID)
		return
	}

	resp := make([]entryResponse, 0, len(items))
	for _, entry := range items {
		resp = append(resp, toEntryResponse(entry))
	}

	writeData(w, http.StatusOK, entryListResponse{
		Items:  resp,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Totals: toTotalsResponse(baheedomain.Aggregate(items)),
	})
}

func (h *Handlers) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	entry, err := h.Bahee.CreateEntry(r.Context(), req.input(user.ID))
	if err != nil {
		h.fail(w, "entries.create: create failed", err, "user_id", user.ID, "header_name", req.HeaderName)
		return
	}
	metrics.EntriesCreated.WithLabelValues(string(entry.Category)).Inc()

	writeData(w, http.StatusCreated, toEntryResponse(*entry))
}

func (h *Handlers) GetEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	detail, err := h.Bahee.GetEntry(r.Context(), user.ID, id)
	if err != nil {
		h.fail(w, "entries.get: get failed", err, "user_id", user.ID, "entry_id", id)
		return
	}

	writeData(w, http.StatusOK, toEntryDetailResponse(*detail))
}

func (h *Handlers) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	entry, err := h.Bahee.UpdateEntry(r.Context(), id, req.input(user.ID))
	if err != nil {
		h.fail(w, "entries.update: update failed", err, "user_id", user.ID, "entry_id", id)
		return
	}

	writeData(w, http.StatusOK, toEntryResponse(*entry))
}

func (h *Handlers) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Bahee.DeleteEntry(r.Context(), user.ID, id); err != nil {
		h.fail(w, "entries.delete: delete failed", err, "user_id", user.ID, "entry_id", id)
		return
	}

	writeMessage(w, http.StatusOK, "entry deleted")
}
