package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/badrinagarjun/marketpulse/internal/httputil"
	"github.com/badrinagarjun/marketpulse/internal/logger"
	"github.com/badrinagarjun/marketpulse/internal/middleware"
	"github.com/badrinagarjun/marketpulse/internal/trading"
	"go.uber.org/zap"
)

// ChallengeHandler exposes the challenge-account endpoints on top of the
// trading service.
type ChallengeHandler struct {
	Svc *trading.Service
}

func NewChallengeHandler(svc *trading.Service) *ChallengeHandler {
	return &ChallengeHandler{Svc: svc}
}

type CreateAccountRequest struct {
	AccountType string `json:"accountType"`
	AccountName string `json:"accountName"`
}

type OrderResponse struct {
	Message string `json:"message"`
	*trading.Execution
}

func (h *ChallengeHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.Svc.CreateAccount(r.Context(), userID, req.AccountType, req.AccountName)
	if err != nil {
		writeTradingError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, account)
}

func (h *ChallengeHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	account, err := h.Svc.Account(r.Context(), userID)
	if err != nil {
		writeTradingError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, account)
}

func (h *ChallengeHandler) Positions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	positions, err := h.Svc.Positions(r.Context(), userID)
	if err != nil {
		writeTradingError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, positions)
}

func (h *ChallengeHandler) Trades(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	trades, err := h.Svc.Trades(r.Context(), userID)
	if err != nil {
		writeTradingError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, trades)
}

func (h *ChallengeHandler) Order(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req trading.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exec, err := h.Svc.PlaceOrder(r.Context(), userID, req)
	if err != nil {
		writeTradingError(w, err)
		return
	}

	verb := "bought"
	if exec.Side == "Sell" {
		verb = "sold"
	}
	httputil.WriteJSON(w, http.StatusCreated, OrderResponse{
		Message:   fmt.Sprintf("Successfully %s %d of %s.", verb, exec.Quantity, exec.Symbol),
		Execution: exec,
	})
}

func (h *ChallengeHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Svc.Reset(r.Context(), userID); err != nil {
		writeTradingError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "challenge account reset"})
}

func writeTradingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trading.ErrInvalidTradeType),
		errors.Is(err, trading.ErrInvalidQuantity),
		errors.Is(err, trading.ErrInvalidSymbol),
		errors.Is(err, trading.ErrInvalidAccountType):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, trading.ErrInsufficientFunds):
		httputil.WriteError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, trading.ErrInsufficientShares),
		errors.Is(err, trading.ErrDuplicateAccount),
		errors.Is(err, trading.ErrAccountNotActive):
		httputil.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, trading.ErrAccountNotFound):
		httputil.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, trading.ErrPriceUnavailable):
		httputil.WriteError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Log.Error("order processing failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to process order")
	}
}
