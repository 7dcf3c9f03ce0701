package rate

import (
	"ecbrates/internal/domain"

	"github.com/shopspring/decimal"
)

type View struct {
	Date     string          `json:"date" example:"2024-01-02"`
	Currency string          `json:"currency" example:"USD"`
	Rate     decimal.Decimal `json:"rate" example:"1.0950"`
}

func toView(sr domain.StoredRate) View {
	return View{
		Date:     sr.Date.Format("2006-01-02"),
		Currency: sr.Currency,
		Rate:     sr.Rate,
	}
}
