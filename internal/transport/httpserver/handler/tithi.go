package handler

import (
	"net/http"

	baheedomain "vigat-bahee/internal/domain/bahee"
)

func (h *Handlers) ResolveTithi(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateRequired(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		return
	}
	writeData(w, http.StatusOK, h.Tithi.Resolve(date))
}

type categoryResponse struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	AmountSupported bool   `json:"amount_supported"`
	AmountOptional  bool   `json:"amount_optional"`
}

// ListCategories describes which fields each category collects.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := baheedomain.Categories()
	resp := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, categoryResponse{
			Key:             string(category),
			Name:            category.DisplayName(),
			AmountSupported: category.AmountApplicable(true),
			AmountOptional:  category.AmountApplicable(true) != category.AmountApplicable(false),
		})
	}
	writeData(w, http.StatusOK, resp)
}
