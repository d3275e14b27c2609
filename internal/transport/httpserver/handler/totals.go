package handler

import (
	"net/http"

	baheedomain "vigat-bahee/internal/domain/bahee"
	"vigat-bahee/pkg/rupee"
)

type totalsResponse struct {
	Income          float64 `json:"income"`
	Amount          float64 `json:"amount"`
	Combined        float64 `json:"combined"`
	Count           int     `json:"count"`
	IncomeDisplay   string  `json:"income_display"`
	AmountDisplay   string  `json:"amount_display"`
	CombinedDisplay string  `json:"combined_display"`
	CombinedWords   string  `json:"combined_words"`
}

type totalsResultResponse struct {
	Page  totalsResponse `json:"page"`
	Grand totalsResponse `json:"grand"`
	Total int64          `json:"total"`
}

func toTotalsResponse(totals baheedomain.Totals) totalsResponse {
	return totalsResponse{
		Income:          totals.Income,
		Amount:          totals.Amount,
		Combined:        totals.Combined,
		Count:           totals.Count,
		IncomeDisplay:   rupee.Format(totals.Income),
		AmountDisplay:   rupee.Format(totals.Amount),
		CombinedDisplay: rupee.Format(totals.Combined),
		CombinedWords:   rupee.Words(totals.Combined),
	}
}

func (h *Handlers) Totals(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	filter, err := entryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Bahee.Totals(r.Context(), user.ID, filter)
	if err != nil {
		h.fail(w, "entries.totals: totals failed", err, "user_id", user.ID)
		return
	}

	writeData(w, http.StatusOK, totalsResultResponse{
		Page:  toTotalsResponse(result.Page),
		Grand: toTotalsResponse(result.Grand),
		Total: result.Total,
	})
}
