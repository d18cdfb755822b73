package repository

import (
	"regexp"
	"testing"

	"travelwallet/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserEnsureDoesNotTouchActiveTrip(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	// Upsert обновляет только профиль: active_trip_id в запросе не участвует.
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE SET username=$2, first_name=$3, last_name=$4")).
		WithArgs(int64(42), "traveler", "Ив", "Петров").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Ensure(&model.User{ID: 42, Username: "traveler", FirstName: "Ив", LastName: "Петров"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveTripID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT active_trip_id FROM users WHERE id=$1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"active_trip_id"}).AddRow(7))

	id, ok, err := repo.ActiveTripID(42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, id)
}

func TestActiveTripIDNull(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	// NULL после каскадного обнуления указателя при удалении поездки.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT active_trip_id FROM users WHERE id=$1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"active_trip_id"}).AddRow(nil))

	_, ok, err := repo.ActiveTripID(42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestActiveTripIDUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT active_trip_id FROM users WHERE id=$1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"active_trip_id"}))

	_, ok, err := repo.ActiveTripID(42)
	require.NoError(t, err, "незарегистрированный пользователь — не ошибка")
	assert.False(t, ok)
}
