package handler

import "net/http"

type healthResponse struct {
	Status     string `json:"status"`
	TithiTable string `json:"tithi_table,omitempty"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if h.Tithi != nil {
		resp.TithiTable = h.Tithi.Table().Version
	}
	writeData(w, http.StatusOK, resp)
}
