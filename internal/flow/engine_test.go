package flow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"travelwallet/internal/exchange"
	"travelwallet/internal/geo"
	"travelwallet/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Фейки внешних зависимостей движка ---

type memStates struct {
	mu sync.Mutex
	m  map[int64]*model.UserState
}

func newMemStates() *memStates { return &memStates{m: make(map[int64]*model.UserState)} }

func (s *memStates) Get(userID int64) (*model.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[userID]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (s *memStates) Set(userID int64, state, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = &model.UserState{UserID: userID, State: state, Payload: payload, UpdatedAt: time.Now()}
	return nil
}

func (s *memStates) Clear(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
	return nil
}

type fakeWallet struct {
	mu       sync.Mutex
	nextID   int
	trips    map[int]*model.Trip
	active   map[int64]int
	expenses map[int][]model.Expense
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		trips:    make(map[int]*model.Trip),
		active:   make(map[int64]int),
		expenses: make(map[int][]model.Expense),
	}
}

func (w *fakeWallet) CreateTrip(owner int64, name, home, dest string, rate, amountHome, amountDest decimal.Decimal) (*model.Trip, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	trip := &model.Trip{
		ID:           w.nextID,
		UserID:       owner,
		Name:         name,
		HomeCurrency: home,
		DestCurrency: dest,
		Rate:         rate,
		BalanceDest:  amountDest,
		CreatedAt:    time.Now(),
	}
	w.trips[trip.ID] = trip
	w.active[owner] = trip.ID
	cp := *trip
	return &cp, nil
}

func (w *fakeWallet) UpdateRate(tripID int, owner int64, rate decimal.Decimal) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	trip, ok := w.trips[tripID]
	if !ok || trip.UserID != owner {
		return false, nil
	}
	trip.Rate = rate
	return true, nil
}

func (w *fakeWallet) AddExpense(tripID int, owner int64, amountDest, amountHome decimal.Decimal) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	trip, ok := w.trips[tripID]
	if !ok || trip.UserID != owner || amountDest.LessThanOrEqual(decimal.Zero) {
		return false, nil
	}
	if trip.BalanceDest.LessThan(amountDest) {
		return false, nil
	}
	trip.BalanceDest = trip.BalanceDest.Sub(amountDest)
	w.expenses[tripID] = append(w.expenses[tripID], model.Expense{
		TripID: tripID, AmountDest: amountDest, AmountHome: amountHome, CreatedAt: time.Now(),
	})
	return true, nil
}

func (w *fakeWallet) DeleteTrip(tripID int, owner int64) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	trip, ok := w.trips[tripID]
	if !ok || trip.UserID != owner {
		return false, nil
	}
	delete(w.trips, tripID)
	delete(w.expenses, tripID)
	return true, nil
}

func (w *fakeWallet) GetTrip(tripID int, owner int64) (*model.Trip, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	trip, ok := w.trips[tripID]
	if !ok || trip.UserID != owner {
		return nil, nil
	}
	cp := *trip
	return &cp, nil
}

func (w *fakeWallet) ListTrips(owner int64) ([]model.Trip, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var trips []model.Trip
	for _, t := range w.trips {
		if t.UserID == owner {
			trips = append(trips, *t)
		}
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].ID < trips[j].ID })
	return trips, nil
}

func (w *fakeWallet) ListExpenses(tripID int, owner int64) ([]model.Expense, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	trip, ok := w.trips[tripID]
	if !ok || trip.UserID != owner {
		return nil, nil
	}
	return append([]model.Expense(nil), w.expenses[tripID]...), nil
}

func (w *fakeWallet) ActiveTrip(owner int64) (*model.Trip, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	tripID, ok := w.active[owner]
	if !ok {
		return nil, nil
	}
	trip, ok := w.trips[tripID]
	if !ok || trip.UserID != owner {
		// Висячий указатель на удалённую поездку игнорируется.
		return nil, nil
	}
	cp := *trip
	return &cp, nil
}

func (w *fakeWallet) SetActiveTrip(owner int64, tripID int) (*model.Trip, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	trip, ok := w.trips[tripID]
	if !ok || trip.UserID != owner {
		return nil, nil
	}
	w.active[owner] = tripID
	cp := *trip
	return &cp, nil
}

type stubConverter struct {
	result float64
	err    error
	calls  int
}

func (c *stubConverter) Convert(_ context.Context, from, to string, amount float64) (float64, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	return c.result, nil
}

type stubLister struct {
	currencies map[string]string
	err        error
}

func (l *stubLister) Currencies(_ context.Context) (map[string]string, error) {
	return l.currencies, l.err
}

type testEnv struct {
	engine *Engine
	states *memStates
	wallet *fakeWallet
	conv   *stubConverter
	list   *stubLister
}

func newTestEnv() *testEnv {
	env := &testEnv{
		states: newMemStates(),
		wallet: newFakeWallet(),
		conv:   &stubConverter{},
		list:   &stubLister{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.engine = NewEngine(env.states, env.wallet, env.conv, env.list, geo.Resolve, logger)
	return env
}

func (env *testEnv) stateOf(userID int64) *model.UserState {
	st, _ := env.states.Get(userID)
	return st
}

const user int64 = 42

// --- Создание поездки ---

func TestCreateTripManualRateScenario(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.engine.HandleCommand(ctx, user, "newtrip")
	require.Equal(t, model.StateNewTripCountryFrom, env.stateOf(user).State)

	replies := env.engine.HandleText(ctx, user, "Россия")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "RUB")
	require.Equal(t, model.StateNewTripCountryTo, env.stateOf(user).State)

	replies = env.engine.HandleText(ctx, user, "Таиланд")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "RUB → THB")
	require.Equal(t, model.StateNewTripChooseRateSource, env.stateOf(user).State)

	env.engine.HandleTrigger(ctx, user, TriggerManualRateNow)
	require.Equal(t, model.StateNewTripManualRate, env.stateOf(user).State)

	replies = env.engine.HandleText(ctx, user, "12.8")
	assert.Contains(t, replies[0].Text, "Курс принят")
	require.Equal(t, model.StateNewTripInitialSum, env.stateOf(user).State)

	replies = env.engine.HandleText(ctx, user, "50000")
	assert.Contains(t, replies[0].Text, "создано")
	assert.Nil(t, env.stateOf(user), "состояние должно быть очищено после создания")

	trip, err := env.wallet.ActiveTrip(user)
	require.NoError(t, err)
	require.NotNil(t, trip)
	assert.Equal(t, "RUB", trip.HomeCurrency)
	assert.Equal(t, "THB", trip.DestCurrency)
	assert.Equal(t, "Таиланд", trip.Name)
	// Курс хранится как «домашняя за 1 валюту поездки»: 1/12.8.
	assert.True(t, decimal.RequireFromString("0.078125").Equal(trip.Rate), trip.Rate.String())
	assert.True(t, decimal.NewFromInt(640000).Equal(trip.BalanceDest), trip.BalanceDest.String())
	assert.Equal(t, 0, env.conv.calls, "ручной ввод курса не должен ходить в API")
}

func TestCreateTripFetchedRate(t *testing.T) {
	env := newTestEnv()
	env.conv.result = 12.8 // THB за 1 RUB
	ctx := context.Background()

	env.engine.HandleCommand(ctx, user, "newtrip")
	env.engine.HandleText(ctx, user, "Россия")
	env.engine.HandleText(ctx, user, "Таиланд")

	replies := env.engine.HandleTrigger(ctx, user, TriggerFetchRate)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Вас устраивает?")
	require.Equal(t, model.StateNewTripConfirmRate, env.stateOf(user).State)
	assert.Equal(t, 1, env.conv.calls)

	env.engine.HandleTrigger(ctx, user, TriggerRateOK)
	require.Equal(t, model.StateNewTripInitialSum, env.stateOf(user).State)

	env.engine.HandleText(ctx, user, "50000")
	trip, _ := env.wallet.ActiveTrip(user)
	require.NotNil(t, trip)
	assert.True(t, decimal.RequireFromString("0.078125").Equal(trip.Rate))
	assert.True(t, decimal.NewFromInt(640000).Equal(trip.BalanceDest))
}

func TestFetchRateRejectGoesManual(t *testing.T) {
	env := newTestEnv()
	env.conv.result = 12.8
	ctx := context.Background()

	env.engine.HandleCommand(ctx, user, "newtrip")
	env.engine.HandleText(ctx, user, "Россия")
	env.engine.HandleText(ctx, user, "Таиланд")
	env.engine.HandleTrigger(ctx, user, TriggerFetchRate)

	replies := env.engine.HandleTrigger(ctx, user, TriggerRateManual)
	assert.Contains(t, replies[0].Text, "вручную")
	require.Equal(t, model.StateNewTripManualRate, env.stateOf(user).State)
}

func TestFetchRateRateLimitFallsBackToManual(t *testing.T) {
	env := newTestEnv()
	rawInfo := "Your monthly usage limit has been reached"
	env.conv.err = &exchange.Error{Kind: exchange.KindAPIError, Code: "104", Info: rawInfo}
	ctx := context.Background()

	env.engine.HandleCommand(ctx, user, "newtrip")
	env.engine.HandleText(ctx, user, "Россия")
	env.engine.HandleText(ctx, user, "Таиланд")

	replies := env.engine.HandleTrigger(ctx, user, TriggerFetchRate)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "лимит")
	assert.NotContains(t, replies[0].Text, rawInfo, "сырой текст ошибки API не должен уходить пользователю")
	require.Equal(t, model.StateNewTripManualRate, env.stateOf(user).State)
}

func TestFetchRateConnectivityFallsBackToManual(t *testing.T) {
	env := newTestEnv()
	env.conv.err = &exchange.Error{Kind: exchange.KindRequestFailed, Info: "dial tcp: connection refused"}
	ctx := context.Background()

	env.engine.HandleCommand(ctx, user, "newtrip")
	env.engine.HandleText(ctx, user, "Россия")
	env.engine.HandleText(ctx, user, "Таиланд")

	replies := env.engine.HandleTrigger(ctx, user, TriggerFetchRate)
	assert.Contains(t, replies[0].Text, "временно недоступен")
	assert.NotContains(t, replies[0].Text, "connection refused")
	require.Equal(t, model.StateNewTripManualRate, env.stateOf(user).State)
}

func TestCountryToRejectsSameCurrency(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.engine.HandleCommand(ctx, user, "newtrip")
	env.engine.HandleText(ctx, user, "Россия")

	replies := env.engine.HandleText(ctx, user, "Россия")
	assert.Contains(t, replies[0].Text, "должна отличаться")
	require.Equal(t, model.StateNewTripCountryTo, env.stateOf(user).State, "состояние не должно сдвинуться")
}

func TestCountryToAcceptsCurrencyCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.engine.HandleCommand(ctx, user, "newtrip")
	env.engine.HandleText(ctx, user, "Россия")
	env.engine.HandleText(ctx, user, "thb")

	st := env.stateOf(user)
	require.Equal(t, model.StateNewTripChooseRateSource, st.State)
	draft, err := parsePairDraft(st.Payload)
	require.NoError(t, err)
	assert.Equal(t, "THB", draft.Dest)
}

func TestUnknownCountryReprompts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.engine.HandleCommand(ctx, user, "newtrip")
	replies := env.engine.HandleText(ctx, user, "Нарния")
	assert.Contains(t, replies[0].Text, "Не удалось определить валюту")
	require.Equal(t, model.StateNewTripCountryFrom, env.stateOf(user).State)
}

func TestInvalidInitialSumReprompts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.engine.HandleCommand(ctx, user, "newtrip")
	env.engine.HandleText(ctx, user, "Россия")
	env.engine.HandleText(ctx, user, "Таиланд")
	env.engine.HandleTrigger(ctx, user, TriggerManualRateNow)
	env.engine.HandleText(ctx, user, "12.8")

	for _, input := range []string{"ноль", "-5", "0"} {
		replies := env.engine.HandleText(ctx, user, input)
		assert.Contains(t, replies[0].Text, "положительное число", input)
		require.Equal(t, model.StateNewTripInitialSum, env.stateOf(user).State)
	}
}

// --- Восстановление сессии ---

func TestCorruptedPayloadResetsSession(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Payload из одного поля там, где ожидаются четыре.
	require.NoError(t, env.states.Set(user, model.StateNewTripInitialSum, "RUB"))

	replies := env.engine.HandleText(ctx, user, "50000")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Сессия устарела")
	assert.Nil(t, env.stateOf(user))
}

func TestUnknownStateTagResetsSession(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.states.Set(user, "какое-то старое состояние", "x|y"))
	replies := env.engine.HandleText(ctx, user, "привет")
	assert.Contains(t, replies[0].Text, "Сессия устарела")
	assert.Nil(t, env.stateOf(user))
}

func TestStaleTriggerWithoutState(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	replies := env.engine.HandleTrigger(ctx, user, TriggerFetchRate)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Сессия устарела")
}

func TestCommandAbandonsFlow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.engine.HandleCommand(ctx, user, "newtrip")
	require.NotNil(t, env.stateOf(user))

	env.engine.HandleCommand(ctx, user, "balance")
	assert.Nil(t, env.stateOf(user), "команда должна прерывать текущий диалог")
}

func TestMenuTriggerAbandonsFlow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.engine.HandleCommand(ctx, user, "newtrip")
	env.engine.HandleTrigger(ctx, user, TriggerTrips)
	assert.Nil(t, env.stateOf(user))
}

// --- Неявный расход ---

func withTrip(t *testing.T, env *testEnv) *model.Trip {
	t.Helper()
	trip, err := env.wallet.CreateTrip(user, "Таиланд", "RUB", "THB",
		decimal.RequireFromString("0.078125"), decimal.NewFromInt(50000), decimal.NewFromInt(640000))
	require.NoError(t, err)
	return trip
}

func TestImplicitExpenseConfirmAndCommit(t *testing.T) {
	env := newTestEnv()
	trip := withTrip(t, env)
	ctx := context.Background()

	replies := env.engine.HandleText(ctx, user, "250")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Учесть как расход?")
	require.Len(t, replies[0].Options, 2)

	// Суммы в callback-данных — целые «копейки»: 250 THB и 19.53125 RUB.
	yes := replies[0].Options[0]
	assert.Equal(t, fmt.Sprintf("ex_%d_25000_1953", trip.ID), yes.Data)

	replies = env.engine.HandleTrigger(ctx, user, yes.Data)
	assert.Contains(t, replies[0].Text, "Расход учтён")

	got, _ := env.wallet.GetTrip(trip.ID, user)
	assert.True(t, decimal.NewFromInt(639750).Equal(got.BalanceDest), got.BalanceDest.String())

	expenses, _ := env.wallet.ListExpenses(trip.ID, user)
	require.Len(t, expenses, 1)
	assert.True(t, decimal.RequireFromString("19.53").Equal(expenses[0].AmountHome))
}

func TestExpenseDecline(t *testing.T) {
	env := newTestEnv()
	trip := withTrip(t, env)
	ctx := context.Background()

	// Сумма больше остатка: 700000 THB при балансе 640000.
	data := fmt.Sprintf("ex_%d_70000000_5468750", trip.ID)
	replies := env.engine.HandleTrigger(ctx, user, data)
	assert.Contains(t, replies[0].Text, "Не удалось учесть расход")

	got, _ := env.wallet.GetTrip(trip.ID, user)
	assert.True(t, decimal.NewFromInt(640000).Equal(got.BalanceDest), "баланс не должен измениться")
}

func TestExpenseCancel(t *testing.T) {
	env := newTestEnv()
	withTrip(t, env)
	ctx := context.Background()

	env.engine.HandleText(ctx, user, "250")
	replies := env.engine.HandleTrigger(ctx, user, TriggerExpenseNo)
	assert.Contains(t, replies[0].Text, "Расход не учтён")
}

func TestExpenseWithoutActiveTrip(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	replies := env.engine.HandleText(ctx, user, "250")
	assert.Contains(t, replies[0].Text, "Сначала выберите или создайте путешествие")
}

func TestBalanceNeverGoesNegativeUnderConcurrentConfirms(t *testing.T) {
	env := newTestEnv()
	trip := withTrip(t, env)
	ctx := context.Background()

	// 20 подтверждений по 100000 THB при балансе 640000: пройти могут максимум 6.
	data := fmt.Sprintf("ex_%d_10000000_781250", trip.ID)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env.engine.HandleTrigger(ctx, user, data)
		}()
	}
	wg.Wait()

	got, _ := env.wallet.GetTrip(trip.ID, user)
	assert.False(t, got.BalanceDest.IsNegative(), "баланс не должен уходить в минус")
	expenses, _ := env.wallet.ListExpenses(trip.ID, user)
	assert.Len(t, expenses, 6)
	assert.True(t, decimal.NewFromInt(40000).Equal(got.BalanceDest), got.BalanceDest.String())
}

// --- Смена курса, переключение, удаление ---

func TestSetRateFlowAppliesDirectly(t *testing.T) {
	env := newTestEnv()
	trip := withTrip(t, env)
	ctx := context.Background()

	replies := env.engine.HandleTrigger(ctx, user, fmt.Sprintf("setrate_%d", trip.ID))
	assert.Contains(t, replies[0].Text, "Текущий курс")
	require.Equal(t, model.StateSetRateTrip, env.stateOf(user).State)

	replies = env.engine.HandleText(ctx, user, "0.08")
	assert.Contains(t, replies[0].Text, "Курс обновлён")
	assert.Nil(t, env.stateOf(user))

	got, _ := env.wallet.GetTrip(trip.ID, user)
	// Новый курс применяется как введён, без инверсии; баланс не трогается.
	assert.True(t, decimal.RequireFromString("0.08").Equal(got.Rate))
	assert.True(t, decimal.NewFromInt(640000).Equal(got.BalanceDest))
}

func TestSetRateInvalidInputReprompts(t *testing.T) {
	env := newTestEnv()
	trip := withTrip(t, env)
	ctx := context.Background()

	env.engine.HandleTrigger(ctx, user, fmt.Sprintf("setrate_%d", trip.ID))
	replies := env.engine.HandleText(ctx, user, "дорого")
	assert.Contains(t, replies[0].Text, "положительное число")
	require.Equal(t, model.StateSetRateTrip, env.stateOf(user).State)
}

func TestSwitchTrip(t *testing.T) {
	env := newTestEnv()
	first := withTrip(t, env)
	second, err := env.wallet.CreateTrip(user, "Турция", "RUB", "TRY",
		decimal.RequireFromString("2.5"), decimal.NewFromInt(10000), decimal.NewFromInt(4000))
	require.NoError(t, err)

	ctx := context.Background()
	replies := env.engine.HandleTrigger(ctx, user, fmt.Sprintf("switch_%d", first.ID))
	assert.Contains(t, replies[0].Text, "Активное путешествие")

	active, _ := env.wallet.ActiveTrip(user)
	assert.Equal(t, first.ID, active.ID)
	_ = second
}

func TestDeleteTripCascades(t *testing.T) {
	env := newTestEnv()
	trip := withTrip(t, env)
	ctx := context.Background()

	committed, err := env.wallet.AddExpense(trip.ID, user, decimal.NewFromInt(100), decimal.RequireFromString("7.81"))
	require.NoError(t, err)
	require.True(t, committed)

	replies := env.engine.HandleTrigger(ctx, user, fmt.Sprintf("del_%d", trip.ID))
	assert.Contains(t, replies[0].Text, "Удалить путешествие")

	replies = env.engine.HandleTrigger(ctx, user, fmt.Sprintf("del_confirm_%d", trip.ID))
	assert.Contains(t, replies[0].Text, "удалено")

	expenses, _ := env.wallet.ListExpenses(trip.ID, user)
	assert.Empty(t, expenses)

	// Указатель активной поездки больше не резолвится в рабочую поездку.
	replies = env.engine.HandleTrigger(ctx, user, TriggerBalance)
	assert.Contains(t, replies[0].Text, "Нет активного путешествия")

	// Повторное удаление — идемпотентный отказ.
	replies = env.engine.HandleTrigger(ctx, user, fmt.Sprintf("del_confirm_%d", trip.ID))
	assert.Contains(t, replies[0].Text, "не найдено или уже удалено")
}

// --- Прочее ---

func TestUnrecognizedTextShowsMenu(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	replies := env.engine.HandleText(ctx, user, "привет, бот")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Не понял")
	assert.NotEmpty(t, replies[0].Options)
}

func TestMenuButtonTextRouted(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	replies := env.engine.HandleText(ctx, user, BtnNewTrip)
	assert.Contains(t, replies[0].Text, "страну отправления")
	require.Equal(t, model.StateNewTripCountryFrom, env.stateOf(user).State)
}

func TestCurrenciesCommand(t *testing.T) {
	env := newTestEnv()
	env.list.currencies = map[string]string{"THB": "Thai Baht", "RUB": "Russian Ruble", "USD": "US Dollar"}
	ctx := context.Background()

	replies := env.engine.HandleCommand(ctx, user, "currencies")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "RUB, THB, USD")
}

func TestCurrenciesCommandHidesRawError(t *testing.T) {
	env := newTestEnv()
	env.list.err = &exchange.Error{Kind: exchange.KindAPIError, Info: "monthly limit exceeded, upgrade plan at https://..."}
	ctx := context.Background()

	replies := env.engine.HandleCommand(ctx, user, "currencies")
	assert.Contains(t, replies[0].Text, "лимит")
	assert.NotContains(t, replies[0].Text, "upgrade plan")
}

func TestStartClearsStateAndGreets(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.engine.HandleCommand(ctx, user, "newtrip")
	replies := env.engine.HandleCommand(ctx, user, "start")
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "мини-кошелёк")
	assert.NotEmpty(t, replies[1].Options)
	assert.Nil(t, env.stateOf(user))
}
