// Package handler — HTTP-обработчики read-only API кошелька.
package handler

import (
	"net/http"
	"strconv"

	"travelwallet/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler структурирует зависимости сервисов для обработки HTTP-запросов.
type Handler struct {
	Wallet service.WalletService
}

// NewHandler создает новый Handler с внедрением зависимостей.
func NewHandler(wallet service.WalletService) *Handler {
	return &Handler{Wallet: wallet}
}

func ownerParam(c *gin.Context) (int64, bool) {
	owner, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор пользователя"})
		return 0, false
	}
	return owner, true
}

// ListTrips обработчик для GET /api/users/:user_id/trips — все поездки пользователя.
func (h *Handler) ListTrips(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}
	trips, err := h.Wallet.ListTrips(owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить поездки"})
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetTrip обработчик для GET /api/users/:user_id/trips/:trip_id — поездка с балансом.
func (h *Handler) GetTrip(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}
	tripID, err := strconv.Atoi(c.Param("trip_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор поездки"})
		return
	}
	trip, err := h.Wallet.GetTrip(tripID, owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить поездку"})
		return
	}
	if trip == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Поездка не найдена"})
		return
	}
	c.JSON(http.StatusOK, trip)
}

// ListExpenses обработчик для GET /api/users/:user_id/trips/:trip_id/expenses —
// история расходов поездки.
func (h *Handler) ListExpenses(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}
	tripID, err := strconv.Atoi(c.Param("trip_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор поездки"})
		return
	}
	expenses, err := h.Wallet.ListExpenses(tripID, owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить расходы"})
		return
	}
	c.JSON(http.StatusOK, expenses)
}
