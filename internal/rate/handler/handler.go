package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"ecbrates/internal/domain"
	"ecbrates/internal/rate"

	"github.com/sirupsen/logrus"
)

type RatesService interface {
	ListRates(ctx context.Context, filter domain.RateFilter) ([]rate.View, error)
	ListCurrencies(ctx context.Context) ([]string, error)
}

type Handler struct {
	log     *logrus.Logger
	service RatesService
}

func NewRateHandler(log *logrus.Logger, service RatesService) *Handler {
	return &Handler{log: log, service: service}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}
