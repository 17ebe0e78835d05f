package handler

import "net/http"

// GetRates returns the central bank's official FX reference rates.
// Informational only; the transfer engine never converts currency.
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rates.GetDailyRates(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, rates)
}
