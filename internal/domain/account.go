// Package domain provides defenitions of all entities.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateAccount indicates that the account with the given id already exists.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrInvalidAmount indicates a non-positive amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates negative initial balance.
	ErrNegativeAmount = errors.New("negative amount")
	// ErrInsufficientFunds indicates that the account does not have sufficient balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientFundsOrInvalidAmount is returned by every failed withdrawal.
	// It is always wrapped together with the specific cause.
	ErrInsufficientFundsOrInvalidAmount = errors.New("insufficient funds or invalid amount")
)

// Account is a read-only snapshot of account data.
type Account struct {
	ID      int32           `json:"id"`
	Holder  string          `json:"holder"`
	Balance decimal.Decimal `json:"balance"`
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	ID             int32           `json:"id"`
	Holder         string          `json:"holder"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}
