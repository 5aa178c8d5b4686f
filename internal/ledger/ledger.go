// Package ledger manages the in-memory registry of accounts.
package ledger

import (
	"context"
	"iter"
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/account"
	"github.com/go-petr/pet-ledger/internal/domain"
)

// Ledger owns all accounts keyed by account number.
//
// Every operation holds mu for its whole duration, so compound operations
// such as Transfer are atomic with respect to each other.
type Ledger struct {
	mu       sync.Mutex
	accounts map[int32]*account.Account
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[int32]*account.Account),
	}
}

// Create registers a new account and returns its snapshot.
func (l *Ledger) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	logger := zerolog.Ctx(ctx)

	if arg.InitialBalance.IsNegative() {
		logger.Info().Err(domain.ErrNegativeAmount).Int32("account_id", arg.ID).Send()
		return domain.Account{}, domain.ErrNegativeAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.accounts[arg.ID]; ok {
		logger.Info().Err(domain.ErrDuplicateAccount).Int32("account_id", arg.ID).Send()
		return domain.Account{}, domain.ErrDuplicateAccount
	}

	a := account.New(arg.ID, arg.Holder, arg.InitialBalance)
	l.accounts[arg.ID] = a

	logger.Debug().Int32("account_id", arg.ID).Msg("account created")

	return a.Describe(), nil
}

// Deposit adds amount to the account with the given id.
func (l *Ledger) Deposit(ctx context.Context, id int32, amount decimal.Decimal) (domain.Account, error) {
	logger := zerolog.Ctx(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[id]
	if !ok {
		logger.Info().Err(domain.ErrAccountNotFound).Int32("account_id", id).Send()
		return domain.Account{}, domain.ErrAccountNotFound
	}

	if _, err := a.Deposit(amount); err != nil {
		logger.Info().Err(err).Int32("account_id", id).Send()
		return a.Describe(), err
	}

	return a.Describe(), nil
}

// Withdraw subtracts amount from the account with the given id.
func (l *Ledger) Withdraw(ctx context.Context, id int32, amount decimal.Decimal) (domain.Account, error) {
	logger := zerolog.Ctx(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[id]
	if !ok {
		logger.Info().Err(domain.ErrAccountNotFound).Int32("account_id", id).Send()
		return domain.Account{}, domain.ErrAccountNotFound
	}

	if _, err := a.Withdraw(amount); err != nil {
		logger.Info().Err(err).Int32("account_id", id).Send()
		return a.Describe(), err
	}

	return a.Describe(), nil
}

// Transfer moves money between two accounts.
//
// Either both balances change or neither does.
func (l *Ledger) Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferResult, error) {
	logger := zerolog.Ctx(ctx).With().
		Int32("from_account_id", arg.FromAccountID).
		Int32("to_account_id", arg.ToAccountID).
		Str("amount", arg.Amount.String()).
		Logger()

	l.mu.Lock()
	defer l.mu.Unlock()

	from, okFrom := l.accounts[arg.FromAccountID]
	to, okTo := l.accounts[arg.ToAccountID]

	if !okFrom || !okTo {
		logger.Info().Err(domain.ErrAccountNotFound).Send()
		return domain.TransferResult{}, domain.ErrAccountNotFound
	}

	if !arg.Amount.IsPositive() {
		logger.Info().Err(domain.ErrInvalidAmount).Send()
		return domain.TransferResult{}, domain.ErrInvalidAmount
	}

	if from.Balance().LessThan(arg.Amount) {
		logger.Info().Err(domain.ErrInsufficientFunds).Send()
		return domain.TransferResult{}, domain.ErrInsufficientFunds
	}

	if _, err := from.Withdraw(arg.Amount); err != nil {
		logger.Error().Err(err).Send()
		return domain.TransferResult{}, err
	}

	if _, err := to.Deposit(arg.Amount); err != nil {
		logger.Error().Err(err).Msg("deposit failed, compensating withdrawal")

		if _, rerr := from.Deposit(arg.Amount); rerr != nil {
			logger.Error().Err(rerr).Msg("compensation failed")
		}

		return domain.TransferResult{}, err
	}

	logger.Debug().Msg("transfer completed")

	return domain.TransferResult{
		FromAccount: from.Describe(),
		ToAccount:   to.Describe(),
		Amount:      arg.Amount,
	}, nil
}

// Get returns the account with the given id.
func (l *Ledger) Get(ctx context.Context, id int32) (domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[id]
	if !ok {
		zerolog.Ctx(ctx).Info().Err(domain.ErrAccountNotFound).Int32("account_id", id).Send()
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a.Describe(), nil
}

// List returns a sequence of all accounts ordered by id.
//
// The sequence reads the registry each time it is ranged over, so it can be
// reused. ok is false when the ledger holds no accounts.
func (l *Ledger) List(ctx context.Context) (seq iter.Seq[domain.Account], ok bool) {
	seq = func(yield func(domain.Account) bool) {
		for _, a := range l.snapshot() {
			if !yield(a) {
				return
			}
		}
	}

	n := l.Len()

	zerolog.Ctx(ctx).Debug().Int("accounts", n).Msg("accounts listed")

	return seq, n > 0
}

// Len returns the number of registered accounts.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.accounts)
}

func (l *Ledger) snapshot() []domain.Account {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := slices.Sorted(maps.Keys(l.accounts))

	items := make([]domain.Account, 0, len(ids))
	for _, id := range ids {
		items = append(items, l.accounts[id].Describe())
	}

	return items
}
