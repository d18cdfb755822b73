package repository

import (
	"database/sql"
	"fmt"

	"travelwallet/internal/model"

	"github.com/jmoiron/sqlx"
)

// UserRepository обеспечивает доступ к данным пользователей и указателю
// активной поездки.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт новый репозиторий пользователей.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure регистрирует пользователя, если его ещё нет, и обновляет имя/username
// у существующего. Указатель активной поездки при этом не трогается.
func (r *UserRepository) Ensure(user *model.User) error {
	query := `INSERT INTO users (id, username, first_name, last_name)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (id) DO UPDATE SET username=$2, first_name=$3, last_name=$4`
	_, err := r.db.Exec(query, user.ID, user.Username, user.FirstName, user.LastName)
	if err != nil {
		return fmt.Errorf("не удалось сохранить пользователя: %w", err)
	}
	return nil
}

// ActiveTripID возвращает ID активной поездки пользователя. Второй результат
// false, если активная поездка не выбрана или пользователь не зарегистрирован.
// Существование самой поездки здесь не проверяется — указатель слабый.
func (r *UserRepository) ActiveTripID(userID int64) (int, bool, error) {
	var tripID *int
	err := r.db.Get(&tripID, "SELECT active_trip_id FROM users WHERE id=$1", userID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("ошибка при чтении активной поездки: %w", err)
	}
	if tripID == nil {
		return 0, false, nil
	}
	return *tripID, true, nil
}

// SetActiveTrip делает поездку активной для пользователя.
func (r *UserRepository) SetActiveTrip(userID int64, tripID int) error {
	_, err := r.db.Exec("UPDATE users SET active_trip_id=$1 WHERE id=$2", tripID, userID)
	if err != nil {
		return fmt.Errorf("не удалось переключить активную поездку: %w", err)
	}
	return nil
}
