package handler

import (
	"net/http"
	"strings"
	"time"

	baheedomain "vigat-bahee/internal/domain/bahee"
	"vigat-bahee/internal/domain/tithi"

	"github.com/go-chi/chi/v5"
)

type headerRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Date     string `json:"date"`
}

type headerResponse struct {
	ID           string    `json:"id"`
	Category     string    `json:"category"`
	CategoryName string    `json:"category_name"`
	Name         string    `json:"name"`
	Date         string    `json:"date"`
	Tithi        string    `json:"tithi"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toHeaderResponse(header baheedomain.Header) headerResponse {
	return headerResponse{
		ID:           header.ID,
		Category:     string(header.Category),
		CategoryName: header.CategoryName,
		Name:         header.Name,
		Date:         header.Date.Format(tithi.DateLayout),
		Tithi:        header.Tithi,
		CreatedAt:    header.CreatedAt,
		UpdatedAt:    header.UpdatedAt,
	}
}

func (h *Handlers) ListHeaders(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	filter := baheedomain.HeaderFilter{}
	if value := strings.TrimSpace(r.URL.Query().Get("category")); value != "" {
		category, err := baheedomain.ParseCategory(value)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid category")
			return
		}
		filter.Category = category
	}

	headers, err := h.Bahee.ListHeaders(r.Context(), user.ID, filter)
	if err != nil {
		h.fail(w, "bahee.list_headers: list failed", err, "user_id", user.ID)
		return
	}

	resp := make([]headerResponse, 0, len(headers))
	for _, header := range headers {
		resp = append(resp, toHeaderResponse(header))
	}
	writeData(w, http.StatusOK, resp)
}

func (h *Handlers) CreateHeader(w http.ResponseWriter, r *http.Request) {
	var req headerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	header, err := h.Bahee.CreateHeader(r.Context(), baheedomain.CreateHeaderInput{
		OwnerID:  user.ID,
		Category: req.Category,
		Name:     req.Name,
		Date:     date,
	})
	if err != nil {
		h.fail(w, "bahee.create_header: create failed", err, "user_id", user.ID, "name", req.Name)
		return
	}

	writeData(w, http.StatusCreated, toHeaderResponse(*header))
}

func (h *Handlers) GetHeader(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	header, err := h.Bahee.GetHeader(r.Context(), user.ID, id)
	if err != nil {
		h.fail(w, "bahee.get_header: get failed", err, "user_id", user.ID, "header_id", id)
		return
	}

	writeData(w, http.StatusOK, toHeaderResponse(*header))
}

func (h *Handlers) UpdateHeader(w http.ResponseWriter, r *http.Request) {
	var req headerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	id := chi.URLParam(r, "id")
	header, err := h.Bahee.UpdateHeader(r.Context(), baheedomain.UpdateHeaderInput{
		OwnerID:  user.ID,
		ID:       id,
		Category: req.Category,
		Name:     req.Name,
		Date:     date,
	})
	if err != nil {
		h.fail(w, "bahee.update_header: update failed", err, "user_id", user.ID, "header_id", id)
		return
	}

	writeData(w, http.StatusOK, toHeaderResponse(*header))
}

func (h *Handlers) DeleteHeader(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Bahee.DeleteHeader(r.Context(), user.ID, id); err != nil {
		h.fail(w, "bahee.delete_header: delete failed", err, "user_id", user.ID, "header_id", id)
		return
	}

	writeMessage(w, http.StatusOK, "bahee deleted")
}
