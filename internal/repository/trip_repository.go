package repository

import (
	"database/sql"
	"fmt"

	"travelwallet/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// TripRepository обеспечивает доступ к данным поездок в базе данных.
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository создает новый репозиторий поездок.
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create создает поездку со стартовым балансом. Возвращает ID созданной поездки.
func (r *TripRepository) Create(trip *model.Trip) (int, error) {
	query := `INSERT INTO trips (user_id, name, home_currency, dest_currency, rate, balance_dest)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int
	err := r.db.QueryRow(query, trip.UserID, trip.Name, trip.HomeCurrency, trip.DestCurrency, trip.Rate, trip.BalanceDest).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать поездку: %w", err)
	}
	return id, nil
}

// GetByID возвращает поездку по ID в пределах владельца. Возвращает nil,
// если поездка не найдена или принадлежит другому пользователю.
func (r *TripRepository) GetByID(tripID int, userID int64) (*model.Trip, error) {
	var trip model.Trip
	err := r.db.Get(&trip, "SELECT * FROM trips WHERE id=$1 AND user_id=$2", tripID, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при поиске поездки: %w", err)
	}
	return &trip, nil
}

// ListByUser возвращает все поездки пользователя в порядке создания.
func (r *TripRepository) ListByUser(userID int64) ([]model.Trip, error) {
	trips := []model.Trip{}
	err := r.db.Select(&trips, "SELECT * FROM trips WHERE user_id=$1 ORDER BY created_at, id", userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка поездок: %w", err)
	}
	return trips, nil
}

// UpdateRate обновляет курс поездки, не трогая баланс. Возвращает false,
// если поездка не найдена или принадлежит другому пользователю.
func (r *TripRepository) UpdateRate(tripID int, userID int64, rate decimal.Decimal) (bool, error) {
	res, err := r.db.Exec("UPDATE trips SET rate=$1 WHERE id=$2 AND user_id=$3", rate, tripID, userID)
	if err != nil {
		return false, fmt.Errorf("не удалось обновить курс: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete удаляет поездку; расходы удаляются каскадно на уровне БД.
// Возвращает false, если поездка не найдена или принадлежит другому пользователю.
func (r *TripRepository) Delete(tripID int, userID int64) (bool, error) {
	res, err := r.db.Exec("DELETE FROM trips WHERE id=$1 AND user_id=$2", tripID, userID)
	if err != nil {
		return false, fmt.Errorf("не удалось удалить поездку: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
