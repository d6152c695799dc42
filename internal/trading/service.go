// Package trading implements simulated order execution against a challenge
// account: balance debits/credits, weighted-average position merges on buys
// and full/partial closes on sells. The whole read-modify-write runs inside
// one database transaction with row locks, so two concurrent orders for the
// same user cannot interleave into a lost update.
package trading

import (
	"context"
	"errors"
	"strings"

	"github.com/badrinagarjun/marketpulse/internal/metrics"
	"github.com/badrinagarjun/marketpulse/internal/models"
	"github.com/badrinagarjun/marketpulse/internal/quotes"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Challenge thresholds relative to the starting balance.
var (
	passTarget = decimal.RequireFromString("1.10")
	failFloor  = decimal.RequireFromString("0.90")
)

type Service struct {
	db     *gorm.DB
	quotes quotes.Provider
}

func NewService(db *gorm.DB, provider quotes.Provider) *Service {
	return &Service{db: db, quotes: provider}
}

type OrderRequest struct {
	Symbol    string `json:"symbol"`
	TradeType string `json:"tradeType"`
	Quantity  int64  `json:"quantity"`
}

// Execution reports a filled order back to the caller.
type Execution struct {
	Ref           string           `json:"ref"`
	Symbol        string           `json:"symbol"`
	Side          string           `json:"side"`
	Quantity      int64            `json:"quantity"`
	Price         decimal.Decimal  `json:"price"`
	Total         decimal.Decimal  `json:"total"`
	Balance       decimal.Decimal  `json:"balance"`
	AccountStatus string           `json:"accountStatus"`
	Position      *models.Position `json:"position,omitempty"`
}

// PlaceOrder executes a market buy or sell at the provider's current price.
// The quote fetch happens before the transaction; everything that mutates
// state commits atomically or not at all.
func (s *Service) PlaceOrder(ctx context.Context, userID uint64, req OrderRequest) (*Execution, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	if req.TradeType != models.TradeBuy && req.TradeType != models.TradeSell {
		return nil, ErrInvalidTradeType
	}
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	quote, err := s.quotes.Quote(ctx, symbol)
	if err != nil || !quote.Price.IsPositive() {
		metrics.OrdersExecuted.WithLabelValues(req.TradeType, "rejected").Inc()
		return nil, ErrPriceUnavailable
	}
	price := quote.Price
	qty := decimal.NewFromInt(req.Quantity)
	total := price.Mul(qty)

	var exec *Execution
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.ChallengeAccount
		if err := lockForUpdate(tx).
			Where("user_id = ?", userID).
			First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		if account.Status != models.AccountActive {
			return ErrAccountNotActive
		}

		var position models.Position
		havePosition := true
		if err := lockForUpdate(tx).
			Where("user_id = ? AND symbol = ?", userID, symbol).
			First(&position).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			havePosition = false
		}

		switch req.TradeType {
		case models.TradeBuy:
			if total.GreaterThan(account.CurrentBalance) {
				return ErrInsufficientFunds
			}
			account.CurrentBalance = account.CurrentBalance.Sub(total)

			if havePosition {
				oldQty := decimal.NewFromInt(position.Quantity)
				newQty := oldQty.Add(qty)
				position.AveragePrice = position.AveragePrice.Mul(oldQty).
					Add(total).
					Div(newQty)
				position.Quantity += req.Quantity
				if err := tx.Save(&position).Error; err != nil {
					return err
				}
			} else {
				position = models.Position{
					UserID:       userID,
					Symbol:       symbol,
					Quantity:     req.Quantity,
					AveragePrice: price,
				}
				if err := tx.Create(&position).Error; err != nil {
					return err
				}
				havePosition = true
			}

		case models.TradeSell:
			if !havePosition || position.Quantity < req.Quantity {
				return ErrInsufficientShares
			}
			account.CurrentBalance = account.CurrentBalance.Add(total)

			if position.Quantity == req.Quantity {
				// Hard delete so the (user, symbol) unique index frees the
				// symbol for a later re-entry.
				if err := tx.Unscoped().Delete(&position).Error; err != nil {
					return err
				}
				havePosition = false
			} else {
				position.Quantity -= req.Quantity
				if err := tx.Save(&position).Error; err != nil {
					return err
				}
			}
		}

		equity, err := equityAtCost(tx, userID, account.CurrentBalance)
		if err != nil {
			return err
		}
		account.Status = evaluateStatus(account, equity)

		trade := models.Trade{
			Ref:      uuid.NewString(),
			UserID:   userID,
			Symbol:   symbol,
			Side:     req.TradeType,
			Quantity: req.Quantity,
			Price:    price,
			Total:    total,
		}
		if err := tx.Create(&trade).Error; err != nil {
			return err
		}
		if err := tx.Save(&account).Error; err != nil {
			return err
		}

		exec = &Execution{
			Ref:           trade.Ref,
			Symbol:        symbol,
			Side:          req.TradeType,
			Quantity:      req.Quantity,
			Price:         price,
			Total:         total,
			Balance:       account.CurrentBalance,
			AccountStatus: account.Status,
		}
		if havePosition {
			p := position
			exec.Position = &p
		}
		return nil
	})
	if err != nil {
		metrics.OrdersExecuted.WithLabelValues(req.TradeType, "rejected").Inc()
		return nil, err
	}

	metrics.OrdersExecuted.WithLabelValues(req.TradeType, "filled").Inc()
	return exec, nil
}

// equityAtCost is cash plus the cost basis of every open position, i.e. the
// starting balance adjusted by realized P&L only. Buying moves cash into
// basis without changing it, so a large buy cannot fail the challenge on its
// own.
func equityAtCost(tx *gorm.DB, userID uint64, balance decimal.Decimal) (decimal.Decimal, error) {
	var positions []models.Position
	if err := tx.Where("user_id = ?", userID).Find(&positions).Error; err != nil {
		return decimal.Zero, err
	}
	equity := balance
	for _, p := range positions {
		equity = equity.Add(p.AveragePrice.Mul(decimal.NewFromInt(p.Quantity)))
	}
	return equity, nil
}

// evaluateStatus applies the challenge rules after each fill: 10% realized
// gain passes, 10% realized loss fails. Transitions are one-way.
func evaluateStatus(account models.ChallengeAccount, equity decimal.Decimal) string {
	if account.Status != models.AccountActive {
		return account.Status
	}
	if equity.GreaterThanOrEqual(account.StartingBalance.Mul(passTarget)) {
		return models.AccountPassed
	}
	if equity.LessThanOrEqual(account.StartingBalance.Mul(failFloor)) {
		return models.AccountFailed
	}
	return models.AccountActive
}

func (s *Service) CreateAccount(ctx context.Context, userID uint64, accountType, name string) (*models.ChallengeAccount, error) {
	starting, ok := models.AccountTypes[accountType]
	if !ok {
		return nil, ErrInvalidAccountType
	}
	if name == "" {
		name = "My Challenge Account"
	}

	account := models.ChallengeAccount{
		UserID:          userID,
		AccountName:     name,
		AccountType:     accountType,
		StartingBalance: starting,
		CurrentBalance:  starting,
		Status:          models.AccountActive,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ChallengeAccount{}).
			Where("user_id = ?", userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateAccount
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Service) Account(ctx context.Context, userID uint64) (*models.ChallengeAccount, error) {
	var account models.ChallengeAccount
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *Service) Positions(ctx context.Context, userID uint64) ([]models.Position, error) {
	positions := []models.Position{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("symbol").
		Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (s *Service) Trades(ctx context.Context, userID uint64) ([]models.Trade, error) {
	trades := []models.Trade{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

// Reset deletes the account and every position and trade belonging to the
// user, so a fresh challenge can be started.
func (s *Service) Reset(ctx context.Context, userID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.ChallengeAccount{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAccountNotFound
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Position{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Trade{}).Error
	})
}

// lockForUpdate adds a row lock on dialects that support it. The sqlite
// driver used in tests does not accept FOR UPDATE; there the transaction's
// database-level write lock stands in.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
