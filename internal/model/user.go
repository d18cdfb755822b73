package model

// User представляет пользователя бота. ActiveTripID — слабый указатель на
// активную поездку: при чтении всегда перепроверяется существование поездки,
// при удалении поездки указатель обнуляется на уровне БД.
type User struct {
	ID           int64  `db:"id"` // Telegram ID
	Username     string `db:"username"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	ActiveTripID *int   `db:"active_trip_id"`
}
