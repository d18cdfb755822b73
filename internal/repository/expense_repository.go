package repository

import (
	"fmt"

	"travelwallet/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ExpenseRepository обеспечивает доступ к записям расходов.
type ExpenseRepository struct {
	db *sqlx.DB
}

// NewExpenseRepository создает новый репозиторий расходов.
func NewExpenseRepository(db *sqlx.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// AddWithBalanceCheck атомарно списывает amountDest с баланса поездки и
// добавляет запись расхода. Проверка баланса и списание выполняются одним
// UPDATE с условием balance_dest >= amountDest, поэтому два одновременных
// подтверждения не могут совместно увести баланс в минус.
// Возвращает false без ошибки, если поездка не найдена, принадлежит другому
// пользователю или средств недостаточно.
func (r *ExpenseRepository) AddWithBalanceCheck(tripID int, userID int64, amountDest, amountHome decimal.Decimal) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, fmt.Errorf("не удалось начать транзакцию: %w", err)
	}

	res, err := tx.Exec(
		`UPDATE trips SET balance_dest = balance_dest - $1
		 WHERE id=$2 AND user_id=$3 AND balance_dest >= $1`,
		amountDest, tripID, userID,
	)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("не удалось списать расход с баланса: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return false, err
	}
	if n == 0 {
		tx.Rollback()
		return false, nil
	}

	_, err = tx.Exec(
		"INSERT INTO expenses (trip_id, amount_dest, amount_home) VALUES ($1, $2, $3)",
		tripID, amountDest, amountHome,
	)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("не удалось записать расход: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("не удалось зафиксировать расход: %w", err)
	}
	return true, nil
}

// ListByTrip возвращает расходы поездки в порядке записи. Владелец проверяется
// через JOIN с trips.
func (r *ExpenseRepository) ListByTrip(tripID int, userID int64) ([]model.Expense, error) {
	expenses := []model.Expense{}
	err := r.db.Select(&expenses,
		`SELECT e.id, e.trip_id, e.amount_dest, e.amount_home, e.created_at
		 FROM expenses e
		 JOIN trips t ON t.id = e.trip_id
		 WHERE e.trip_id=$1 AND t.user_id=$2
		 ORDER BY e.created_at, e.id`, tripID, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении истории расходов: %w", err)
	}
	return expenses, nil
}
