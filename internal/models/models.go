package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name     string `gorm:"size:50;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255" json:"-"`
}

// Account status lifecycle: an account starts Active and moves to Passed or
// Failed once the balance crosses the challenge thresholds. Non-Active
// accounts no longer accept orders.
const (
	AccountActive = "Active"
	AccountPassed = "Passed"
	AccountFailed = "Failed"
)

const (
	TradeBuy  = "Buy"
	TradeSell = "Sell"
)

type ChallengeAccount struct {
	gorm.Model
	UserID          uint64          `gorm:"uniqueIndex;not null" json:"userId"`
	AccountName     string          `gorm:"size:100;not null" json:"accountName"`
	AccountType     string          `gorm:"size:10;not null" json:"accountType"`
	StartingBalance decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"startingBalance"`
	CurrentBalance  decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"currentBalance"`
	Status          string          `gorm:"size:10;not null;default:Active" json:"status"`
}

type Position struct {
	gorm.Model
	UserID       uint64          `gorm:"uniqueIndex:idx_user_symbol;not null" json:"userId"`
	Symbol       string          `gorm:"uniqueIndex:idx_user_symbol;size:12;not null" json:"symbol"`
	Quantity     int64           `gorm:"not null" json:"quantity"`
	AveragePrice decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"averagePrice"`
}

// Trade is the immutable execution record written alongside every filled
// order. Positions and balances are derived state; trades are the history.
type Trade struct {
	gorm.Model
	Ref      string          `gorm:"size:36;uniqueIndex;not null" json:"ref"`
	UserID   uint64          `gorm:"index;not null" json:"userId"`
	Symbol   string          `gorm:"size:12;not null" json:"symbol"`
	Side     string          `gorm:"size:4;not null" json:"side"`
	Quantity int64           `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"price"`
	Total    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"total"`
}

type JournalEntry struct {
	gorm.Model
	UserID    uint64          `gorm:"index;not null" json:"userId"`
	Symbol    string          `gorm:"size:12;not null" json:"symbol"`
	TradeType string          `gorm:"size:4;not null" json:"tradeType"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"price"`
	Notes     string          `gorm:"type:text" json:"notes"`
	TradeDate time.Time       `json:"tradeDate"`
}

// AccountTypes maps the preset challenge sizes to their starting balances.
var AccountTypes = map[string]decimal.Decimal{
	"10K":  decimal.NewFromInt(10_000),
	"25K":  decimal.NewFromInt(25_000),
	"50K":  decimal.NewFromInt(50_000),
	"100K": decimal.NewFromInt(100_000),
	"200K": decimal.NewFromInt(200_000),
}
