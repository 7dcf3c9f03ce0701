package handler

import (
	"encoding/json"
	"net/http"

	"ecbrates/internal/rate"

	"github.com/sirupsen/logrus"
)

type GetRatesResponse struct {
	Rates []rate.View `json:"rates"`
}

// GetRates godoc
// @Summary List stored reference rates
// @Description Retrieve stored rates, optionally filtered by comma-separated currency codes and an inclusive date range
// @Tags Rates
// @Produce json
// @Param codes query string false "Comma-separated currency codes" example(USD,JPY)
// @Param startPeriod query string false "Inclusive range start, YYYY-MM-DD"
// @Param endPeriod query string false "Inclusive range end, YYYY-MM-DD"
// @Success 200 {object} GetRatesResponse
// @Failure 400 {object} errorResponse
// @Router /rates [get]
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := rate.ParseFilter(query.Get("codes"), query.Get("startPeriod"), query.Get("endPeriod"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rates, err := h.service.ListRates(r.Context(), filter)
	if err != nil {
		msg := "ups, couldn't list rates this time"
		h.log.WithError(err).WithFields(logrus.Fields{"handler": "GetRates"}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(GetRatesResponse{Rates: rates})
}
