// Package account holds the mutable account entity.
package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Account holds a holder's balance. The balance changes only through Deposit and Withdraw.
type Account struct {
	id      int32
	holder  string
	balance decimal.Decimal
}

// New returns account with the given id, holder and opening balance.
func New(id int32, holder string, balance decimal.Decimal) *Account {
	return &Account{
		id:      id,
		holder:  holder,
		balance: balance,
	}
}

// ID returns the account number.
func (a *Account) ID() int32 { return a.id }

// Holder returns the account holder name.
func (a *Account) Holder() string { return a.holder }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// Deposit adds a positive amount to the balance and returns the new balance.
func (a *Account) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return a.balance, domain.ErrInvalidAmount
	}

	a.balance = a.balance.Add(amount)

	return a.balance, nil
}

// Withdraw subtracts amount from the balance and returns the new balance.
//
// A failed withdrawal always matches domain.ErrInsufficientFundsOrInvalidAmount,
// and also matches either domain.ErrInvalidAmount or domain.ErrInsufficientFunds.
func (a *Account) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return a.balance, fmt.Errorf("%w: %w", domain.ErrInsufficientFundsOrInvalidAmount, domain.ErrInvalidAmount)
	}

	if amount.GreaterThan(a.balance) {
		return a.balance, fmt.Errorf("%w: %w", domain.ErrInsufficientFundsOrInvalidAmount, domain.ErrInsufficientFunds)
	}

	a.balance = a.balance.Sub(amount)

	return a.balance, nil
}

// Describe returns a snapshot of the account.
func (a *Account) Describe() domain.Account {
	return domain.Account{
		ID:      a.id,
		Holder:  a.holder,
		Balance: a.balance,
	}
}
