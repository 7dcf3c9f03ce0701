package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

type GetCurrenciesResponse struct {
	Codes []string `json:"codes" example:"CHF,JPY,USD"`
}

// GetCurrencies godoc
// @Summary List known currencies
// @Description Retrieve all currency codes seen so far, ascending
// @Tags Rates
// @Produce json
// @Success 200 {object} GetCurrenciesResponse
// @Router /currencies [get]
func (h *Handler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.ListCurrencies(r.Context())
	if err != nil {
		msg := "ups, couldn't list currencies this time"
		h.log.WithError(err).WithFields(logrus.Fields{"handler": "GetCurrencies"}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(GetCurrenciesResponse{Codes: codes})
}
