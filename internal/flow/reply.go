// Package flow — машина состояний диалога: интерпретирует входящие сообщения
// и нажатия кнопок, двигает состояние пользователя и формирует ответы.
// Пакет не знает о Telegram: транспортная оболочка (internal/bot) сама
// превращает Reply в сообщения и клавиатуры.
package flow

import (
	"fmt"

	"travelwallet/internal/model"
)

// Триггеры — закрытый набор callback-данных кнопок. Маршрутизация идёт явным
// switch по (состояние, триггер), а не сравнением произвольных строк.
const (
	TriggerMainMenu      = "menu_main"
	TriggerNewTrip       = "menu_newtrip"
	TriggerTrips         = "menu_trips"
	TriggerBalance       = "menu_balance"
	TriggerHistory       = "menu_history"
	TriggerSetRate       = "menu_setrate"
	TriggerDeleteTrip    = "menu_deletetrip"
	TriggerFetchRate     = "newtrip_fetch_rate"
	TriggerManualRateNow = "newtrip_manual_rate_now"
	TriggerRateOK        = "newtrip_rate_ok"
	TriggerRateManual    = "newtrip_rate_manual"
	TriggerExpenseNo     = "expense_no"
	TriggerDeleteCancel  = "del_cancel"
)

// Префиксы триггеров, несущих идентификатор или суммы в хвосте.
const (
	prefixSwitch        = "switch_"
	prefixSetRate       = "setrate_"
	prefixDeleteConfirm = "del_confirm_"
	prefixDelete        = "del_"
	prefixExpenseYes    = "ex_"
)

// Подписи кнопок постоянного меню (reply-клавиатура под полем ввода).
// Оболочка строит из них клавиатуру, движок распознаёт их в тексте сообщений.
const (
	BtnNewTrip    = "Создать путешествие"
	BtnTrips      = "Мои путешествия"
	BtnBalance    = "Баланс"
	BtnHistory    = "История расходов"
	BtnSetRate    = "Изменить курс"
	BtnDeleteTrip = "Удалить путешествие"
)

// Option — кнопка с подписью и callback-данными.
type Option struct {
	Label string
	Data  string
}

// Reply — один ответ пользователю: текст и, опционально, набор кнопок.
// Columns задаёт число кнопок в ряду (0 трактуется как 1).
type Reply struct {
	Text    string
	Options []Option
	Columns int
}

func mainMenuOptions() []Option {
	return []Option{
		{Label: "Создать новое путешествие", Data: TriggerNewTrip},
		{Label: "Мои путешествия", Data: TriggerTrips},
		{Label: "Баланс", Data: TriggerBalance},
		{Label: "История расходов", Data: TriggerHistory},
		{Label: "Изменить курс", Data: TriggerSetRate},
		{Label: "Удалить путешествие", Data: TriggerDeleteTrip},
	}
}

func backOptions() []Option {
	return []Option{{Label: "← В главное меню", Data: TriggerMainMenu}}
}

func tripOptions(trips []model.Trip, prefix string) []Option {
	opts := make([]Option, 0, len(trips)+1)
	for _, t := range trips {
		opts = append(opts, Option{
			Label: fmt.Sprintf("%s (%s)", t.Name, t.DestCurrency),
			Data:  fmt.Sprintf("%s%d", prefix, t.ID),
		})
	}
	opts = append(opts, Option{Label: "← Назад", Data: TriggerMainMenu})
	return opts
}

func rateSourceOptions() []Option {
	return []Option{
		{Label: "Ввести курс вручную (по обменнику)", Data: TriggerManualRateNow},
		{Label: "Получить текущий курс из API", Data: TriggerFetchRate},
	}
}

func rateConfirmOptions() []Option {
	return []Option{
		{Label: "Да", Data: TriggerRateOK},
		{Label: "Нет, ввести вручную", Data: TriggerRateManual},
	}
}

func deleteConfirmOptions(tripID int) []Option {
	return []Option{
		{Label: "Удалить", Data: fmt.Sprintf("%s%d", prefixDeleteConfirm, tripID)},
		{Label: "Отмена", Data: TriggerDeleteCancel},
	}
}

func menuReply(text string) Reply {
	if text == "" {
		text = mainMenuText
	}
	return Reply{Text: text, Options: mainMenuOptions()}
}

func backReply(text string) Reply {
	return Reply{Text: text, Options: backOptions()}
}

const mainMenuText = "Главное меню. Выберите действие:\n\n" +
	"• Создать новое путешествие — добавить поездку с валютной парой и курсом.\n" +
	"• Мои путешествия — переключиться между поездками.\n" +
	"• Баланс — посмотреть остаток по активному путешествию.\n" +
	"• История расходов — список трат.\n" +
	"• Изменить курс — задать курс вручную для выбранной поездки.\n" +
	"• Удалить путешествие — удалить поездку и все её расходы."
