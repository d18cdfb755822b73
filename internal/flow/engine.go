package flow

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"travelwallet/internal/exchange"
	"travelwallet/internal/model"
	"travelwallet/internal/service"

	"github.com/shopspring/decimal"
)

// StateStore — хранилище состояний диалога: не более одного на пользователя.
type StateStore interface {
	Get(userID int64) (*model.UserState, error)
	Set(userID int64, state, payload string) error
	Clear(userID int64) error
}

// CurrencyLister — перечень валют, поддерживаемых сервисом курсов.
type CurrencyLister interface {
	Currencies(ctx context.Context) (map[string]string, error)
}

// Engine — машина состояний диалога. События одного пользователя
// сериализуются per-user мьютексом: чтение-изменение состояния и проверка
// баланса не гоняются между двумя почти одновременными событиями.
// Карта мьютексов не чистится и растёт по одному элементу на каждого
// увиденного пользователя; удалять запись безопасно только когда никто не
// ждёт её мьютекс, а выигрыш при таком размере записи того не стоит.
type Engine struct {
	states     StateStore
	wallet     service.WalletService
	converter  exchange.Converter
	currencies CurrencyLister
	resolve    func(country string) (string, bool)
	log        *slog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewEngine создает движок диалогов. resolve — справочник «страна → валюта».
func NewEngine(states StateStore, wallet service.WalletService, converter exchange.Converter, currencies CurrencyLister, resolve func(string) (string, bool), log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		states:     states,
		wallet:     wallet,
		converter:  converter,
		currencies: currencies,
		resolve:    resolve,
		log:        log,
		locks:      make(map[int64]*sync.Mutex),
	}
}

func (e *Engine) lockUser(userID int64) func() {
	e.mu.Lock()
	l, ok := e.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[userID] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (e *Engine) failure(userID int64, op string, err error) []Reply {
	e.log.Error("ошибка обработки события", "user_id", userID, "op", op, "err", err)
	return []Reply{menuReply("Что-то пошло не так. Попробуйте ещё раз.")}
}

// resetSession сбрасывает повреждённую/устаревшую сессию и возвращает
// пользователя в главное меню. Это путь восстановления, а не сбой.
func (e *Engine) resetSession(userID int64) []Reply {
	if err := e.states.Clear(userID); err != nil {
		return e.failure(userID, "reset", err)
	}
	return []Reply{menuReply("Сессия устарела. Начните создание поездки заново.")}
}

const greetingText = "Привет! Это мини-кошелёк для путешественника. Можно создать путешествие " +
	"(страна отправления → страна назначения), задать курс и начальный баланс, " +
	"а затем записывать расходы в валюте поездки.\n\n" +
	"Используйте кнопки меню ниже для быстрого доступа или выберите действие:"

// HandleCommand обрабатывает команду бота (/start, /newtrip и т.д., без «/»).
// Любая команда прерывает текущий диалог.
func (e *Engine) HandleCommand(ctx context.Context, userID int64, command string) []Reply {
	defer e.lockUser(userID)()

	if err := e.states.Clear(userID); err != nil {
		return e.failure(userID, "command "+command, err)
	}
	switch command {
	case "start":
		return []Reply{{Text: greetingText}, menuReply("")}
	case "newtrip":
		return e.startNewTrip(userID)
	case "switch":
		return e.showTrips(userID)
	case "balance":
		return e.showBalance(userID)
	case "history":
		return e.showHistory(userID)
	case "setrate":
		return e.chooseSetRateTrip(userID)
	case "deletetrip":
		return e.chooseDeleteTrip(userID)
	case "currencies":
		return e.showCurrencies(ctx, userID)
	default:
		return []Reply{menuReply("Не понял команду. Выберите действие:")}
	}
}

// HandleTrigger обрабатывает нажатие inline-кнопки (callback-данные).
func (e *Engine) HandleTrigger(ctx context.Context, userID int64, data string) []Reply {
	defer e.lockUser(userID)()

	// Кнопки главного меню прерывают текущий диалог, каким бы он ни был.
	abandon := func() []Reply {
		if err := e.states.Clear(userID); err != nil {
			return e.failure(userID, data, err)
		}
		return nil
	}

	switch data {
	case TriggerMainMenu:
		if r := abandon(); r != nil {
			return r
		}
		return []Reply{menuReply("")}
	case TriggerNewTrip:
		if r := abandon(); r != nil {
			return r
		}
		return e.startNewTrip(userID)
	case TriggerTrips:
		if r := abandon(); r != nil {
			return r
		}
		return e.showTrips(userID)
	case TriggerBalance:
		if r := abandon(); r != nil {
			return r
		}
		return e.showBalance(userID)
	case TriggerHistory:
		if r := abandon(); r != nil {
			return r
		}
		return e.showHistory(userID)
	case TriggerSetRate:
		if r := abandon(); r != nil {
			return r
		}
		return e.chooseSetRateTrip(userID)
	case TriggerDeleteTrip:
		if r := abandon(); r != nil {
			return r
		}
		return e.chooseDeleteTrip(userID)
	case TriggerFetchRate:
		return e.fetchRate(ctx, userID)
	case TriggerManualRateNow:
		return e.manualRateNow(userID)
	case TriggerRateOK:
		return e.acceptFetchedRate(userID)
	case TriggerRateManual:
		return e.rejectFetchedRate(userID)
	case TriggerExpenseNo:
		return []Reply{backReply("Расход не учтён.")}
	case TriggerDeleteCancel:
		return []Reply{menuReply("Удаление отменено.")}
	}

	switch {
	case strings.HasPrefix(data, prefixSwitch):
		return e.switchTrip(userID, data)
	case strings.HasPrefix(data, prefixSetRate):
		return e.beginSetRate(userID, data)
	case strings.HasPrefix(data, prefixDeleteConfirm):
		return e.deleteTrip(userID, data)
	case strings.HasPrefix(data, prefixDelete):
		return e.confirmDelete(userID, data)
	case strings.HasPrefix(data, prefixExpenseYes):
		return e.commitExpense(userID, data)
	}
	// Неизвестный триггер — например, кнопка из старой версии. Игнорируем.
	return nil
}

// HandleText обрабатывает обычное текстовое сообщение: сначала активный
// диалог, затем кнопки постоянного меню, затем числовой ввод как расход.
func (e *Engine) HandleText(ctx context.Context, userID int64, text string) []Reply {
	defer e.lockUser(userID)()

	st, err := e.states.Get(userID)
	if err != nil {
		return e.failure(userID, "text", err)
	}
	if st != nil {
		switch st.State {
		case model.StateNewTripCountryFrom:
			return e.textCountryFrom(userID, text)
		case model.StateNewTripCountryTo:
			return e.textCountryTo(userID, st.Payload, text)
		case model.StateNewTripManualRate:
			return e.textManualRate(userID, st.Payload, text)
		case model.StateNewTripInitialSum:
			return e.textInitialSum(userID, st.Payload, text)
		case model.StateSetRateTrip:
			return e.textSetRate(userID, st.Payload, text)
		case model.StateNewTripChooseRateSource, model.StateNewTripConfirmRate:
			// Состояние ждёт кнопку, а пришёл текст — напоминаем выбор.
			return e.repeatChoice(userID, st)
		default:
			// Неизвестный тег состояния в хранилище — сессия повреждена.
			return e.resetSession(userID)
		}
	}

	switch strings.TrimSpace(text) {
	case BtnNewTrip:
		return e.startNewTrip(userID)
	case BtnTrips:
		return e.showTrips(userID)
	case BtnBalance:
		return e.showBalance(userID)
	case BtnHistory:
		return e.showHistory(userID)
	case BtnSetRate:
		return e.chooseSetRateTrip(userID)
	case BtnDeleteTrip:
		return e.chooseDeleteTrip(userID)
	}

	if amount, ok := parseAmount(text); ok {
		return e.implicitExpense(userID, amount)
	}
	return []Reply{menuReply("Не понял. Введите число для записи расхода по активному путешествию или выберите действие в меню.")}
}

// --- Создание поездки ---

func (e *Engine) startNewTrip(userID int64) []Reply {
	if err := e.states.Set(userID, model.StateNewTripCountryFrom, ""); err != nil {
		return e.failure(userID, "newtrip", err)
	}
	return []Reply{{Text: "Введите страну отправления (домашнюю валюту), например: Россия, США, Китай."}}
}

func (e *Engine) textCountryFrom(userID int64, text string) []Reply {
	cur, ok := e.resolve(text)
	if !ok {
		return []Reply{{Text: "Не удалось определить валюту по этой стране. Введите страну ещё раз."}}
	}
	if err := e.states.Set(userID, model.StateNewTripCountryTo, cur); err != nil {
		return e.failure(userID, "country_from", err)
	}
	return []Reply{{Text: fmt.Sprintf(
		"Валюта отправления: %s. Теперь введите страну назначения (валюту поездки), например: Китай, Таиланд.", cur)}}
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func (e *Engine) textCountryTo(userID int64, payload, text string) []Reply {
	home := strings.TrimSpace(payload)
	if home == "" {
		return e.resetSession(userID)
	}
	country := strings.TrimSpace(text)
	cur, ok := e.resolve(country)
	if !ok {
		// Пробуем как код валюты (3 буквы).
		if !isCurrencyCode(country) {
			return []Reply{{Text: "Не удалось определить валюту. Введите страну или код валюты (3 буквы)."}}
		}
		cur = strings.ToUpper(country)
	}
	if cur == home {
		return []Reply{{Text: "Валюта назначения должна отличаться от домашней. Введите другую страну."}}
	}
	// Курс здесь не запрашиваем — только по кнопке «Получить из API»,
	// чтобы не тратить лимит запросов впустую.
	draft := pairDraft{Home: home, Dest: cur, Name: country}
	if err := e.states.Set(userID, model.StateNewTripChooseRateSource, draft.encode()); err != nil {
		return e.failure(userID, "country_to", err)
	}
	return []Reply{{
		Text: fmt.Sprintf("Пара валют: %s → %s. Как задать курс?\n\nРекомендуем «Ввести вручную» — так не будет ошибок лимита API.", home, cur),
		Options: rateSourceOptions(),
	}}
}

func (e *Engine) fetchRate(ctx context.Context, userID int64) []Reply {
	st, err := e.states.Get(userID)
	if err != nil {
		return e.failure(userID, "fetch_rate", err)
	}
	if st == nil || st.State != model.StateNewTripChooseRateSource {
		return []Reply{menuReply("Сессия устарела. Начните создание поездки заново.")}
	}
	draft, err := parsePairDraft(st.Payload)
	if err != nil {
		return e.resetSession(userID)
	}

	destPerHome, convErr := e.converter.Convert(ctx, draft.Home, draft.Dest, 1.0)
	if convErr != nil || destPerHome <= 0 {
		// Сырой текст ошибки API остаётся в логах и не показывается пользователю.
		e.log.Warn("сервис курсов недоступен", "user_id", userID, "err", convErr)
		if err := e.states.Set(userID, model.StateNewTripManualRate, draft.encode()); err != nil {
			return e.failure(userID, "fetch_rate", err)
		}
		msg := "Сервис курсов временно недоступен. Введите курс вручную."
		if exchange.IsRateLimited(convErr) {
			msg = "Превышен лимит запросов к сервису курсов. Введите курс вручную (например по обменнику)."
		}
		return []Reply{{Text: fmt.Sprintf("%s\n\nСколько %s за 1 %s? (одно число)", msg, draft.Dest, draft.Home)}}
	}

	// API возвращает «валюта поездки за 1 домашнюю»; храним обратное.
	rate := decimal.NewFromInt(1).Div(decimal.NewFromFloat(destPerHome))
	next := rateDraft{Home: draft.Home, Dest: draft.Dest, Rate: rate, Name: draft.Name}
	if err := e.states.Set(userID, model.StateNewTripConfirmRate, next.encode()); err != nil {
		return e.failure(userID, "fetch_rate", err)
	}
	return []Reply{{
		Text: fmt.Sprintf("Текущий курс: 1 %s = %s %s (1 %s = %.4f %s).\n\nВас устраивает?",
			draft.Dest, rate.StringFixed(4), draft.Home, draft.Home, destPerHome, draft.Dest),
		Options: rateConfirmOptions(),
		Columns: 2,
	}}
}

func (e *Engine) manualRateNow(userID int64) []Reply {
	st, err := e.states.Get(userID)
	if err != nil {
		return e.failure(userID, "manual_rate_now", err)
	}
	if st == nil || st.State != model.StateNewTripChooseRateSource {
		return []Reply{menuReply("Сессия устарела. Начните заново.")}
	}
	draft, err := parsePairDraft(st.Payload)
	if err != nil {
		return e.resetSession(userID)
	}
	if err := e.states.Set(userID, model.StateNewTripManualRate, draft.encode()); err != nil {
		return e.failure(userID, "manual_rate_now", err)
	}
	return []Reply{{Text: fmt.Sprintf("Введите курс: сколько %s за 1 %s? (одно число, например 12.8)", draft.Dest, draft.Home)}}
}

func (e *Engine) acceptFetchedRate(userID int64) []Reply {
	st, err := e.states.Get(userID)
	if err != nil {
		return e.failure(userID, "rate_ok", err)
	}
	if st == nil || st.State != model.StateNewTripConfirmRate {
		return []Reply{menuReply("Сессия устарела. Начните создание поездки заново.")}
	}
	draft, err := parseRateDraft(st.Payload)
	if err != nil {
		return e.resetSession(userID)
	}
	if err := e.states.Set(userID, model.StateNewTripInitialSum, draft.encode()); err != nil {
		return e.failure(userID, "rate_ok", err)
	}
	return []Reply{{Text: fmt.Sprintf(
		"Курс принят. Введите начальную сумму в домашней валюте (%s) — она будет конвертирована в %s и станет стартовым балансом.",
		draft.Home, draft.Dest)}}
}

func (e *Engine) rejectFetchedRate(userID int64) []Reply {
	st, err := e.states.Get(userID)
	if err != nil {
		return e.failure(userID, "rate_manual", err)
	}
	if st == nil || st.State != model.StateNewTripConfirmRate {
		return []Reply{menuReply("Сессия устарела. Начните заново.")}
	}
	draft, err := parseRateDraft(st.Payload)
	if err != nil {
		return e.resetSession(userID)
	}
	pair := pairDraft{Home: draft.Home, Dest: draft.Dest, Name: draft.Name}
	if err := e.states.Set(userID, model.StateNewTripManualRate, pair.encode()); err != nil {
		return e.failure(userID, "rate_manual", err)
	}
	return []Reply{{Text: fmt.Sprintf("Введите курс вручную: сколько %s за 1 %s? (одно число, например 12.8)", draft.Dest, draft.Home)}}
}

func (e *Engine) textManualRate(userID int64, payload, text string) []Reply {
	input, ok := parseAmount(text)
	if !ok || input.LessThanOrEqual(decimal.Zero) {
		return []Reply{{Text: "Введите положительное число — курс (сколько валюты назначения за 1 единицу домашней)."}}
	}
	draft, err := parsePairDraft(payload)
	if err != nil {
		return e.resetSession(userID)
	}
	// Ввод — «валюта поездки за 1 домашнюю»; храним обратное.
	rate := decimal.NewFromInt(1).Div(input)
	next := rateDraft{Home: draft.Home, Dest: draft.Dest, Rate: rate, Name: draft.Name}
	if err := e.states.Set(userID, model.StateNewTripInitialSum, next.encode()); err != nil {
		return e.failure(userID, "manual_rate", err)
	}
	return []Reply{{Text: fmt.Sprintf("Курс принят: 1 %s = %s %s. Введите начальную сумму в %s:",
		draft.Home, input.String(), draft.Dest, draft.Home)}}
}

func (e *Engine) textInitialSum(userID int64, payload, text string) []Reply {
	draft, err := parseRateDraft(payload)
	if err != nil {
		return e.resetSession(userID)
	}
	amountHome, ok := parseAmount(text)
	if !ok || amountHome.LessThanOrEqual(decimal.Zero) {
		return []Reply{{Text: "Введите положительное число — сумму в валюте отправления (домашней)."}}
	}
	// Курс — домашняя за 1 валюту поездки; стартовый баланс = сумма / курс.
	amountDest := amountHome.Div(draft.Rate)
	trip, err := e.wallet.CreateTrip(userID, draft.Name, draft.Home, draft.Dest, draft.Rate, amountHome, amountDest)
	if err != nil {
		return e.failure(userID, "create_trip", err)
	}
	if err := e.states.Clear(userID); err != nil {
		return e.failure(userID, "create_trip", err)
	}
	return []Reply{{
		Text: fmt.Sprintf("Путешествие «%s» создано.\n%s\n\nТеперь можно вводить суммы расходов в %s — бот будет пересчитывать в %s и предлагать учесть трату.",
			trip.Name, FormatBalance(trip), trip.DestCurrency, trip.HomeCurrency),
		Options: mainMenuOptions(),
	}}
}

// repeatChoice — в состоянии, ожидающем кнопку, пришёл текст: повторяем выбор.
func (e *Engine) repeatChoice(userID int64, st *model.UserState) []Reply {
	switch st.State {
	case model.StateNewTripChooseRateSource:
		draft, err := parsePairDraft(st.Payload)
		if err != nil {
			return e.resetSession(userID)
		}
		return []Reply{{
			Text:    fmt.Sprintf("Пара валют: %s → %s. Как задать курс?", draft.Home, draft.Dest),
			Options: rateSourceOptions(),
		}}
	default:
		return []Reply{{Text: "Вас устраивает предложенный курс?", Options: rateConfirmOptions(), Columns: 2}}
	}
}

// --- Смена курса ---

func (e *Engine) chooseSetRateTrip(userID int64) []Reply {
	trips, err := e.wallet.ListTrips(userID)
	if err != nil {
		return e.failure(userID, "setrate", err)
	}
	if len(trips) == 0 {
		return []Reply{backReply("Нет путешествий. Сначала создайте поездку.")}
	}
	return []Reply{{Text: "Выберите путешествие, для которого изменить курс:", Options: tripOptions(trips, prefixSetRate)}}
}

func (e *Engine) beginSetRate(userID int64, data string) []Reply {
	tripID, ok := parseID(data, prefixSetRate)
	if !ok {
		return nil
	}
	trip, err := e.wallet.GetTrip(tripID, userID)
	if err != nil {
		return e.failure(userID, "setrate", err)
	}
	if trip == nil {
		return []Reply{backReply("Путешествие не найдено.")}
	}
	if err := e.states.Set(userID, model.StateSetRateTrip, strconv.Itoa(tripID)); err != nil {
		return e.failure(userID, "setrate", err)
	}
	return []Reply{backReply(fmt.Sprintf(
		"Текущий курс для «%s»: 1 %s = %s %s. Введите новый курс: сколько %s за 1 %s (например 12.5):",
		trip.Name, trip.DestCurrency, trip.Rate.StringFixed(4), trip.HomeCurrency,
		trip.HomeCurrency, trip.DestCurrency))}
}

func (e *Engine) textSetRate(userID int64, payload, text string) []Reply {
	newRate, ok := parseAmount(text)
	if !ok || newRate.LessThanOrEqual(decimal.Zero) {
		return []Reply{{Text: "Введите положительное число — новый курс."}}
	}
	tripID, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return e.resetSession(userID)
	}
	updated, err := e.wallet.UpdateRate(tripID, userID, newRate)
	if err != nil {
		return e.failure(userID, "setrate", err)
	}
	if err := e.states.Clear(userID); err != nil {
		return e.failure(userID, "setrate", err)
	}
	if !updated {
		return []Reply{menuReply("Путешествие не найдено.")}
	}
	trip, err := e.wallet.GetTrip(tripID, userID)
	if err != nil || trip == nil {
		return []Reply{menuReply("Курс обновлён.")}
	}
	return []Reply{menuReply(fmt.Sprintf("Курс обновлён: 1 %s = %s %s.",
		trip.DestCurrency, trip.Rate.StringFixed(4), trip.HomeCurrency))}
}

// --- Переключение, баланс, история ---

func (e *Engine) showTrips(userID int64) []Reply {
	trips, err := e.wallet.ListTrips(userID)
	if err != nil {
		return e.failure(userID, "trips", err)
	}
	if len(trips) == 0 {
		return []Reply{backReply("У вас пока нет путешествий. Создайте первое — кнопка «Создать новое путешествие».")}
	}
	active, err := e.wallet.ActiveTrip(userID)
	if err != nil {
		return e.failure(userID, "trips", err)
	}
	lines := []string{"Выберите путешествие для переключения:"}
	for _, t := range trips {
		mark := ""
		if active != nil && t.ID == active.ID {
			mark = " ✓"
		}
		lines = append(lines, fmt.Sprintf("• %s (%s)%s", t.Name, t.DestCurrency, mark))
	}
	return []Reply{{Text: strings.Join(lines, "\n"), Options: tripOptions(trips, prefixSwitch)}}
}

func (e *Engine) switchTrip(userID int64, data string) []Reply {
	tripID, ok := parseID(data, prefixSwitch)
	if !ok {
		return nil
	}
	trip, err := e.wallet.SetActiveTrip(userID, tripID)
	if err != nil {
		return e.failure(userID, "switch", err)
	}
	if trip == nil {
		return []Reply{backReply("Путешествие не найдено.")}
	}
	return []Reply{backReply(fmt.Sprintf("Активное путешествие: «%s» (%s).\n%s",
		trip.Name, trip.DestCurrency, FormatBalance(trip)))}
}

func (e *Engine) showBalance(userID int64) []Reply {
	trip, err := e.wallet.ActiveTrip(userID)
	if err != nil {
		return e.failure(userID, "balance", err)
	}
	if trip == nil {
		return []Reply{backReply("Нет активного путешествия. Выберите или создайте поездку в разделе «Мои путешествия».")}
	}
	return []Reply{backReply(fmt.Sprintf("«%s»\n%s", trip.Name, FormatBalance(trip)))}
}

func (e *Engine) showHistory(userID int64) []Reply {
	trip, err := e.wallet.ActiveTrip(userID)
	if err != nil {
		return e.failure(userID, "history", err)
	}
	if trip == nil {
		return []Reply{backReply("Нет активного путешествия. Выберите поездку в «Мои путешествия».")}
	}
	expenses, err := e.wallet.ListExpenses(trip.ID, userID)
	if err != nil {
		return e.failure(userID, "history", err)
	}
	if len(expenses) == 0 {
		return []Reply{backReply(fmt.Sprintf("По путешествию «%s» расходов пока нет.", trip.Name))}
	}
	lines := []string{fmt.Sprintf("История расходов: «%s»", trip.Name), ""}
	for _, exp := range expenses {
		lines = append(lines, FormatExpenseLine(exp, trip.DestCurrency, trip.HomeCurrency))
	}
	return []Reply{backReply(strings.Join(lines, "\n"))}
}

// --- Удаление ---

func (e *Engine) chooseDeleteTrip(userID int64) []Reply {
	trips, err := e.wallet.ListTrips(userID)
	if err != nil {
		return e.failure(userID, "deletetrip", err)
	}
	if len(trips) == 0 {
		return []Reply{backReply("Нет путешествий для удаления.")}
	}
	return []Reply{{
		Text:    "Выберите путешествие для удаления (вместе с ним удалятся все расходы):",
		Options: tripOptions(trips, prefixDelete),
	}}
}

func (e *Engine) confirmDelete(userID int64, data string) []Reply {
	tripID, ok := parseID(data, prefixDelete)
	if !ok {
		return nil
	}
	trip, err := e.wallet.GetTrip(tripID, userID)
	if err != nil {
		return e.failure(userID, "deletetrip", err)
	}
	if trip == nil {
		return []Reply{backReply("Путешествие не найдено.")}
	}
	return []Reply{{
		Text: fmt.Sprintf("Удалить путешествие «%s» (%s)? Все расходы по этой поездке будут удалены.",
			trip.Name, trip.DestCurrency),
		Options: deleteConfirmOptions(tripID),
		Columns: 2,
	}}
}

func (e *Engine) deleteTrip(userID int64, data string) []Reply {
	tripID, ok := parseID(data, prefixDeleteConfirm)
	if !ok {
		return nil
	}
	deleted, err := e.wallet.DeleteTrip(tripID, userID)
	if err != nil {
		return e.failure(userID, "deletetrip", err)
	}
	if !deleted {
		return []Reply{backReply("Путешествие не найдено или уже удалено.")}
	}
	return []Reply{backReply("Путешествие удалено.")}
}

// --- Неявный расход ---

func (e *Engine) implicitExpense(userID int64, amountDest decimal.Decimal) []Reply {
	if amountDest.LessThanOrEqual(decimal.Zero) {
		return []Reply{{Text: "Введите положительную сумму расхода."}}
	}
	trip, err := e.wallet.ActiveTrip(userID)
	if err != nil {
		return e.failure(userID, "expense", err)
	}
	if trip == nil {
		return []Reply{menuReply("Сначала выберите или создайте путешествие (меню «Мои путешествия» или /switch).")}
	}
	// Курс — домашняя за 1 валюту поездки.
	amountHome := amountDest.Mul(trip.Rate)
	return []Reply{{
		Text: fmt.Sprintf("%s %s = %s %s. Учесть как расход?",
			amountDest.StringFixed(2), trip.DestCurrency, amountHome.StringFixed(2), trip.HomeCurrency),
		Options: []Option{
			{Label: "✅ Да", Data: fmt.Sprintf("%s%d_%d_%d", prefixExpenseYes, trip.ID, encodeAmount(amountDest), encodeAmount(amountHome))},
			{Label: "❌ Нет", Data: TriggerExpenseNo},
		},
		Columns: 2,
	}}
}

func (e *Engine) commitExpense(userID int64, data string) []Reply {
	parts := strings.Split(data, "_")
	if len(parts) != 4 {
		return []Reply{backReply("Ошибка данных.")}
	}
	tripID, err1 := strconv.Atoi(parts[1])
	rawDest, err2 := strconv.ParseInt(parts[2], 10, 64)
	rawHome, err3 := strconv.ParseInt(parts[3], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return []Reply{backReply("Неверный формат суммы.")}
	}
	committed, err := e.wallet.AddExpense(tripID, userID, decodeAmount(rawDest), decodeAmount(rawHome))
	if err != nil {
		return e.failure(userID, "expense", err)
	}
	if !committed {
		return []Reply{backReply("Не удалось учесть расход (недостаточно средств или неверная поездка).")}
	}
	trip, err := e.wallet.GetTrip(tripID, userID)
	if err != nil || trip == nil {
		return []Reply{backReply("Расход учтён.")}
	}
	return []Reply{backReply("Расход учтён. " + FormatBalance(trip))}
}

// --- Список валют ---

func (e *Engine) showCurrencies(ctx context.Context, userID int64) []Reply {
	currencies, err := e.currencies.Currencies(ctx)
	if err != nil {
		e.log.Warn("сервис курсов недоступен", "user_id", userID, "err", err)
		msg := "Сервис курсов временно недоступен. Попробуйте позже."
		if exchange.IsRateLimited(err) {
			msg = "Превышен лимит запросов к сервису курсов. Попробуйте позже."
		}
		return []Reply{backReply(msg)}
	}
	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return []Reply{backReply(fmt.Sprintf("Поддерживаемые валюты (%d):\n%s",
		len(codes), strings.Join(codes, ", ")))}
}
