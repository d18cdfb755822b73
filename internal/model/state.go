package model

import "time"

// Теги состояний диалога. Закрытый набор: любое другое значение в БД
// трактуется как повреждённая сессия и сбрасывается.
const (
	StateNewTripCountryFrom      = "newtrip_country_from"
	StateNewTripCountryTo        = "newtrip_country_to"
	StateNewTripChooseRateSource = "newtrip_choose_rate_source"
	StateNewTripConfirmRate      = "newtrip_confirm_rate"
	StateNewTripManualRate       = "newtrip_manual_rate"
	StateNewTripInitialSum       = "newtrip_initial_sum"
	StateSetRateTrip             = "setrate_trip"
)

// UserState представляет текущее состояние диалога пользователя.
// На пользователя хранится не более одного состояния; истории нет.
type UserState struct {
	UserID    int64     `db:"user_id"`
	State     string    `db:"state"`
	Payload   string    `db:"payload"` // поля через «|», структура зависит от состояния
	UpdatedAt time.Time `db:"updated_at"`
}
