package handler

import (
	"fmt"
	"net/http"

	"auction-engine/internal/accounts"
	model "auction-engine/internal/models"
	"auction-engine/internal/money"
	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

type AccountServiceInterface interface {
	CreateUser(username string) (model.User, error)
	Credit(userID string, currency money.Currency, amount string) (accounts.BalanceView, error)
	Balances(userID string) (map[money.Currency]accounts.BalanceView, error)
	Transactions(userID string) ([]accounts.TransactionView, error)
}

type AccountHandler struct {
	service AccountServiceInterface
}

func NewAccountHandler(service AccountServiceInterface) *AccountHandler {
	return &AccountHandler{service: service}
}

// CreateUserHandler handles POST /users
func (h *AccountHandler) CreateUserHandler(c *gin.Context) {
	var req helpers.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateUserHandler", err)
		return
	}

	user, err := h.service.CreateUser(req.Username)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
	}, "user created successfully")
	helpers.LogSuccess("CreateUserHandler", "user created", map[string]any{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}

// CreditHandler handles POST /users/:user_id/credit
func (h *AccountHandler) CreditHandler(c *gin.Context) {
	userID := c.Param("user_id")
	var req helpers.CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreditHandler", err)
		return
	}
	if !helpers.IsValidAmount(req.Amount) {
		helpers.HandleBindError(c, "CreditHandler", fmt.Errorf("invalid amount format %q", req.Amount))
		return
	}

	balance, err := h.service.Credit(userID, money.Currency(req.Currency), req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		utils.Warn("CreditHandler: credit failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, balance, "balance credited successfully")
	helpers.LogSuccess("CreditHandler", "balance credited", map[string]any{
		"user_id":  userID,
		"currency": req.Currency,
		"amount":   req.Amount,
	})
}

// GetBalancesHandler handles GET /users/:user_id/balances
func (h *AccountHandler) GetBalancesHandler(c *gin.Context) {
	userID := c.Param("user_id")
	balances, err := h.service.Balances(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}
	utils.JSONResponse(c, http.StatusOK, balances, "balances retrieved successfully")
}

// GetTransactionsHandler handles GET /users/:user_id/transactions
func (h *AccountHandler) GetTransactionsHandler(c *gin.Context) {
	userID := c.Param("user_id")
	transactions, err := h.service.Transactions(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}
	if transactions == nil {
		transactions = []accounts.TransactionView{}
	}
	utils.JSONResponse(c, http.StatusOK, transactions, "transactions retrieved successfully")
}
