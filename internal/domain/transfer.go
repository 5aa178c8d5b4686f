package domain

import "github.com/shopspring/decimal"

// TransferParams is the input data for the transfer transaction.
type TransferParams struct {
	FromAccountID int32           `json:"from_account_id"`
	ToAccountID   int32           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"` // must be positive
}

// TransferResult is the result of the transfer transaction.
type TransferResult struct {
	FromAccount Account         `json:"from_account"`
	ToAccount   Account         `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
}
