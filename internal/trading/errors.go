package trading

import "errors"

// Business-rule failures are sentinel errors so the HTTP layer can map each
// one to a status code with errors.Is.
var (
	ErrPriceUnavailable   = errors.New("could not fetch a valid price")
	ErrAccountNotFound    = errors.New("challenge account not found")
	ErrAccountNotActive   = errors.New("challenge account is no longer active")
	ErrDuplicateAccount   = errors.New("challenge account already exists")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares to sell")
	ErrInvalidTradeType   = errors.New("invalid trade type")
	ErrInvalidQuantity    = errors.New("quantity must be a positive whole number")
	ErrInvalidSymbol      = errors.New("symbol is required")
)
