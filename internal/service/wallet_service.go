package service

import (
	"errors"
	"strings"

	"travelwallet/internal/model"
	"travelwallet/internal/repository"

	"github.com/shopspring/decimal"
)

// Ошибки бизнес-правил кошелька.
var (
	ErrSameCurrency = errors.New("валюта назначения должна отличаться от домашней")
	ErrInvalidRate  = errors.New("курс должен быть положительным числом")
)

// WalletService — операции леджера: поездки, расходы, балансы.
type WalletService interface {
	// CreateTrip создает поездку со стартовым балансом и делает её активной.
	CreateTrip(owner int64, name, home, dest string, rate, amountHome, amountDest decimal.Decimal) (*model.Trip, error)
	// UpdateRate меняет только курс; баланс и прошлые расходы не пересчитываются.
	UpdateRate(tripID int, owner int64, rate decimal.Decimal) (bool, error)
	// AddExpense списывает расход с баланса. Возвращает false без ошибки, если
	// поездка не найдена, сумма некорректна или средств недостаточно.
	AddExpense(tripID int, owner int64, amountDest, amountHome decimal.Decimal) (bool, error)
	// DeleteTrip удаляет поездку и каскадно все её расходы; идемпотентна.
	DeleteTrip(tripID int, owner int64) (bool, error)

	GetTrip(tripID int, owner int64) (*model.Trip, error)
	ListTrips(owner int64) ([]model.Trip, error)
	ListExpenses(tripID int, owner int64) ([]model.Expense, error)
	// ActiveTrip возвращает активную поездку владельца или nil. Указатель
	// слабый, поэтому существование поездки перепроверяется при каждом чтении.
	ActiveTrip(owner int64) (*model.Trip, error)
	// SetActiveTrip переключает активную поездку. Возвращает nil, если поездка
	// не найдена или принадлежит другому пользователю.
	SetActiveTrip(owner int64, tripID int) (*model.Trip, error)
}

type walletService struct {
	trips    *repository.TripRepository
	expenses *repository.ExpenseRepository
	users    *repository.UserRepository
}

// NewWalletService создает сервис кошелька поверх репозиториев.
func NewWalletService(trips *repository.TripRepository, expenses *repository.ExpenseRepository, users *repository.UserRepository) WalletService {
	return &walletService{trips: trips, expenses: expenses, users: users}
}

func (s *walletService) CreateTrip(owner int64, name, home, dest string, rate, amountHome, amountDest decimal.Decimal) (*model.Trip, error) {
	home = strings.ToUpper(home)
	dest = strings.ToUpper(dest)
	if home == dest {
		return nil, ErrSameCurrency
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidRate
	}
	if name == "" {
		name = dest
	}
	trip := &model.Trip{
		UserID:       owner,
		Name:         name,
		HomeCurrency: home,
		DestCurrency: dest,
		Rate:         rate,
		BalanceDest:  amountDest,
	}
	id, err := s.trips.Create(trip)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetActiveTrip(owner, id); err != nil {
		return nil, err
	}
	return s.trips.GetByID(id, owner)
}

func (s *walletService) UpdateRate(tripID int, owner int64, rate decimal.Decimal) (bool, error) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return false, ErrInvalidRate
	}
	return s.trips.UpdateRate(tripID, owner, rate)
}

func (s *walletService) AddExpense(tripID int, owner int64, amountDest, amountHome decimal.Decimal) (bool, error) {
	if amountDest.LessThanOrEqual(decimal.Zero) {
		return false, nil
	}
	return s.expenses.AddWithBalanceCheck(tripID, owner, amountDest, amountHome)
}

func (s *walletService) DeleteTrip(tripID int, owner int64) (bool, error) {
	return s.trips.Delete(tripID, owner)
}

func (s *walletService) GetTrip(tripID int, owner int64) (*model.Trip, error) {
	return s.trips.GetByID(tripID, owner)
}

func (s *walletService) ListTrips(owner int64) ([]model.Trip, error) {
	return s.trips.ListByUser(owner)
}

func (s *walletService) ListExpenses(tripID int, owner int64) ([]model.Expense, error) {
	return s.expenses.ListByTrip(tripID, owner)
}

func (s *walletService) ActiveTrip(owner int64) (*model.Trip, error) {
	tripID, ok, err := s.users.ActiveTripID(owner)
	if err != nil || !ok {
		return nil, err
	}
	return s.trips.GetByID(tripID, owner)
}

func (s *walletService) SetActiveTrip(owner int64, tripID int) (*model.Trip, error) {
	trip, err := s.trips.GetByID(tripID, owner)
	if err != nil || trip == nil {
		return nil, err
	}
	if err := s.users.SetActiveTrip(owner, tripID); err != nil {
		return nil, err
	}
	return trip, nil
}
