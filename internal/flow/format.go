package flow

import (
	"fmt"

	"travelwallet/internal/model"
)

// FormatBalance возвращает строку остатка по поездке с пересчётом в домашнюю
// валюту по текущему курсу.
func FormatBalance(trip *model.Trip) string {
	balanceHome := trip.BalanceDest.Mul(trip.Rate)
	return fmt.Sprintf(
		"Остаток: %s %s (≈ %s %s)\nКурс: 1 %s = %s %s",
		trip.BalanceDest.StringFixed(2), trip.DestCurrency,
		balanceHome.StringFixed(2), trip.HomeCurrency,
		trip.DestCurrency, trip.Rate.StringFixed(4), trip.HomeCurrency,
	)
}

// FormatExpenseLine возвращает строку истории для одной записи расхода.
// Суммы берутся из снимка на момент записи, а не пересчитываются.
func FormatExpenseLine(e model.Expense, destCur, homeCur string) string {
	return fmt.Sprintf(
		"• %s — %s %s (≈ %s %s)",
		e.CreatedAt.Format("02.01.2006 15:04"),
		e.AmountDest.StringFixed(2), destCur,
		e.AmountHome.StringFixed(2), homeCur,
	)
}
