package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/badrinagarjun/marketpulse/internal/httputil"
	"github.com/badrinagarjun/marketpulse/internal/logger"
	"github.com/badrinagarjun/marketpulse/internal/middleware"
	"github.com/badrinagarjun/marketpulse/internal/models"
	"github.com/badrinagarjun/marketpulse/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type JournalEntryRequest struct {
	Symbol    string          `json:"symbol"`
	TradeType string          `json:"tradeType"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Notes     string          `json:"notes"`
	TradeDate *time.Time      `json:"tradeDate"`
}

func (req *JournalEntryRequest) validate() string {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		return "symbol is required"
	}
	if req.TradeType != models.TradeBuy && req.TradeType != models.TradeSell {
		return "tradeType must be Buy or Sell"
	}
	if req.Quantity <= 0 {
		return "quantity must be positive"
	}
	if !req.Price.IsPositive() {
		return "price must be positive"
	}
	return ""
}

func ListJournalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries := []models.JournalEntry{}
	if err := store.DB.
		Where("user_id = ?", userID).
		Order("trade_date DESC").
		Find(&entries).Error; err != nil {
		logger.Log.Error("failed to fetch journal entries", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch journal entries")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func CreateJournalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req JournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	entry := models.JournalEntry{
		UserID:    userID,
		Symbol:    req.Symbol,
		TradeType: req.TradeType,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Notes:     req.Notes,
		TradeDate: time.Now(),
	}
	if req.TradeDate != nil {
		entry.TradeDate = *req.TradeDate
	}

	if err := store.DB.Create(&entry).Error; err != nil {
		logger.Log.Error("failed to create journal entry", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create journal entry")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, entry)
}

func GetJournalHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := ownedJournalEntry(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

func UpdateJournalHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := ownedJournalEntry(w, r)
	if !ok {
		return
	}

	var req JournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	entry.Symbol = req.Symbol
	entry.TradeType = req.TradeType
	entry.Quantity = req.Quantity
	entry.Price = req.Price
	entry.Notes = req.Notes
	if req.TradeDate != nil {
		entry.TradeDate = *req.TradeDate
	}

	if err := store.DB.Save(entry).Error; err != nil {
		logger.Log.Error("failed to update journal entry", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update journal entry")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

func DeleteJournalHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := ownedJournalEntry(w, r)
	if !ok {
		return
	}

	if err := store.DB.Delete(entry).Error; err != nil {
		logger.Log.Error("failed to delete journal entry", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to delete journal entry")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "journal entry deleted"})
}

// ownedJournalEntry loads the path entry and enforces owner scoping. Foreign
// entries get the same 404 as missing ones.
func ownedJournalEntry(w http.ResponseWriter, r *http.Request) (*models.JournalEntry, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid journal entry id")
		return nil, false
	}

	var entry models.JournalEntry
	if err := store.DB.
		Where("id = ? AND user_id = ?", id, userID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "journal entry not found")
			return nil, false
		}
		logger.Log.Error("failed to fetch journal entry", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch journal entry")
		return nil, false
	}
	return &entry, true
}
