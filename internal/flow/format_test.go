package flow

import (
	"testing"
	"time"

	"travelwallet/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	trip := &model.Trip{
		Name:         "Таиланд",
		HomeCurrency: "RUB",
		DestCurrency: "THB",
		Rate:         decimal.RequireFromString("0.078125"),
		BalanceDest:  decimal.NewFromInt(640000),
	}
	got := FormatBalance(trip)
	assert.Contains(t, got, "640000.00 THB")
	assert.Contains(t, got, "50000.00 RUB")
	assert.Contains(t, got, "1 THB = 0.0781 RUB")
}

func TestFormatExpenseLine(t *testing.T) {
	e := model.Expense{
		AmountDest: decimal.RequireFromString("250"),
		AmountHome: decimal.RequireFromString("19.53"),
		CreatedAt:  time.Date(2026, 8, 30, 15, 4, 0, 0, time.UTC),
	}
	got := FormatExpenseLine(e, "THB", "RUB")
	assert.Equal(t, "• 30.08.2026 15:04 — 250.00 THB (≈ 19.53 RUB)", got)
}
