package service

import (
	"travelwallet/internal/model"
	"travelwallet/internal/repository"
)

// UserService отвечает за регистрацию пользователей по Telegram ID.
type UserService struct {
	users *repository.UserRepository
}

// NewUserService создает новый сервис пользователей.
func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Ensure регистрирует пользователя при первом обращении и освежает его
// имя/username при последующих.
func (s *UserService) Ensure(telegramID int64, username, firstName, lastName string) error {
	return s.users.Ensure(&model.User{
		ID:        telegramID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
	})
}
