package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	baheedomain "vigat-bahee/internal/domain/bahee"
	"vigat-bahee/internal/export"
)

// ExportEntries streams the filtered ledger, ignoring paging, as an XLSX file.
func (h *Handlers) ExportEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	filter, err := entryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	filter.Limit = 0
	filter.Offset = 0

	entries, _, err := h.Bahee.ListEntries(r.Context(), user.ID, filter)
	if err != nil {
		h.fail(w, "entries.export: list failed", err, "user_id", user.ID)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteLedger(&buf, entries, baheedomain.Aggregate(entries)); err != nil {
		h.fail(w, "entries.export: render failed", err, "user_id", user.ID)
		return
	}

	name := "bahee_" + time.Now().UTC().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
