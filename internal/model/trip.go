package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trip представляет поездку-кошелёк: валютная пара, курс и текущий баланс.
type Trip struct {
	ID           int             `db:"id"`
	UserID       int64           `db:"user_id"`       // владелец (Telegram ID)
	Name         string          `db:"name"`          // название, по умолчанию код валюты поездки
	HomeCurrency string          `db:"home_currency"` // домашняя валюта (3 буквы)
	DestCurrency string          `db:"dest_currency"` // валюта поездки (3 буквы), отличается от домашней
	Rate         decimal.Decimal `db:"rate"`          // курс: сколько домашней валюты за 1 единицу валюты поездки
	BalanceDest  decimal.Decimal `db:"balance_dest"`  // остаток в валюте поездки, не бывает отрицательным
	CreatedAt    time.Time       `db:"created_at"`
}

// Expense представляет запись о расходе по поездке.
// AmountHome — снимок пересчёта по курсу на момент записи; при смене курса
// поездки исторические записи не пересчитываются.
type Expense struct {
	ID         int             `db:"id"`
	TripID     int             `db:"trip_id"`
	AmountDest decimal.Decimal `db:"amount_dest"` // сумма в валюте поездки, > 0
	AmountHome decimal.Decimal `db:"amount_home"` // сумма в домашней валюте по курсу на момент записи
	CreatedAt  time.Time       `db:"created_at"`
}
