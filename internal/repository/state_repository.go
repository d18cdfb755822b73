package repository

import (
	"database/sql"
	"fmt"

	"travelwallet/internal/model"

	"github.com/jmoiron/sqlx"
)

// StateRepository хранит состояния диалогов: не более одного на пользователя.
type StateRepository struct {
	db *sqlx.DB
}

// NewStateRepository создает новый репозиторий состояний диалога.
func NewStateRepository(db *sqlx.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Get возвращает текущее состояние пользователя или nil, если диалога нет.
func (r *StateRepository) Get(userID int64) (*model.UserState, error) {
	var st model.UserState
	err := r.db.Get(&st, "SELECT * FROM user_states WHERE user_id=$1", userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении состояния диалога: %w", err)
	}
	return &st, nil
}

// Set записывает состояние пользователя, перезаписывая предыдущее.
func (r *StateRepository) Set(userID int64, state, payload string) error {
	query := `INSERT INTO user_states (user_id, state, payload, updated_at)
	          VALUES ($1, $2, $3, now())
	          ON CONFLICT (user_id) DO UPDATE SET state=$2, payload=$3, updated_at=now()`
	_, err := r.db.Exec(query, userID, state, payload)
	if err != nil {
		return fmt.Errorf("не удалось сохранить состояние диалога: %w", err)
	}
	return nil
}

// Clear удаляет состояние пользователя. Отсутствие состояния не ошибка.
func (r *StateRepository) Clear(userID int64) error {
	_, err := r.db.Exec("DELETE FROM user_states WHERE user_id=$1", userID)
	if err != nil {
		return fmt.Errorf("не удалось сбросить состояние диалога: %w", err)
	}
	return nil
}
