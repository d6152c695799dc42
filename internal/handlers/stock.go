package handlers

import (
	"net/http"
	"strings"

	"github.com/badrinagarjun/marketpulse/internal/httputil"
	"github.com/badrinagarjun/marketpulse/internal/quotes"
	"github.com/go-chi/chi/v5"
)

// StockHandler proxies the external quote provider so the frontend never
// holds the API key.
type StockHandler struct {
	Provider quotes.Provider
}

func NewStockHandler(provider quotes.Provider) *StockHandler {
	return &StockHandler{Provider: provider}
}

func (h *StockHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
	if symbol == "" {
		httputil.WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	quote, err := h.Provider.Quote(r.Context(), symbol)
	if err != nil {
		httputil.WriteError(w, http.StatusBadGateway, "failed to fetch stock data")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, quote)
}
