// Package cli manages the interactive menu delivery layer of the ledger.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// Service provides ledger operations needed by the menu.
//
//go:generate mockgen -source handler.go -destination service_mock.go -package cli
type Service interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Deposit(ctx context.Context, id int32, amount decimal.Decimal) (domain.Account, error)
	Withdraw(ctx context.Context, id int32, amount decimal.Decimal) (domain.Account, error)
	Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferResult, error)
	Get(ctx context.Context, id int32) (domain.Account, error)
	List(ctx context.Context) (iter.Seq[domain.Account], bool)
}

// ErrInputClosed indicates that input ended before the user chose to exit.
var ErrInputClosed = errors.New("input closed")

// errLineTooLong is returned for a line longer than maxLineLength.
// The whole line is consumed so the next read starts on a fresh line.
var errLineTooLong = errors.New("line too long")

const maxLineLength = 4096

// Menu options.
const (
	optionCreate = iota + 1
	optionDeposit
	optionWithdraw
	optionTransfer
	optionDisplay
	optionDisplayAll
	optionExit
)

// Validation tags for prompted fields.
const (
	tagAccountNumber = "required,accountnumber"
	tagHolder        = "required,max=100"
	tagAmount        = "required,amount"
)

// Handler reads menu choices from in and writes status lines to out.
type Handler struct {
	service  Service
	title    string
	in       *bufio.Reader
	out      io.Writer
	validate *validator.Validate
}

// NewHandler returns menu handler.
func NewHandler(s Service, title string, in io.Reader, out io.Writer) (*Handler, error) {
	v := validator.New()

	if err := v.RegisterValidation("amount", moneypkg.ValidAmount); err != nil {
		return nil, fmt.Errorf("cannot register amount validator: %w", err)
	}

	if err := v.RegisterValidation("accountnumber", validAccountNumber); err != nil {
		return nil, fmt.Errorf("cannot register account number validator: %w", err)
	}

	return &Handler{
		service:  s,
		title:    title,
		in:       bufio.NewReader(in),
		out:      out,
		validate: v,
	}, nil
}

var validAccountNumber validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := strconv.ParseInt(s, 10, 32)

	return err == nil
}

// Run shows the menu until the user exits or input ends.
func (h *Handler) Run(ctx context.Context) error {
	l := zerolog.Ctx(ctx)

	for {
		h.printMenu()

		line, err := h.readLine()
		if errors.Is(err, errLineTooLong) {
			line, err = "", nil
		}

		if err != nil {
			return err
		}

		// Anything that is not a number falls through to the invalid option branch.
		choice, _ := strconv.Atoi(line)

		l.Debug().Int("option", choice).Send()

		switch choice {
		case optionCreate:
			err = h.create(ctx)
		case optionDeposit:
			err = h.deposit(ctx)
		case optionWithdraw:
			err = h.withdraw(ctx)
		case optionTransfer:
			err = h.transfer(ctx)
		case optionDisplay:
			err = h.display(ctx)
		case optionDisplayAll:
			h.displayAll(ctx)
		case optionExit:
			h.println("Exiting... Goodbye!")
			return nil
		default:
			h.println("Invalid option! Try again.")
		}

		if err != nil {
			return err
		}
	}
}

func (h *Handler) printMenu() {
	fmt.Fprintf(h.out, "\n===== %s =====\n", h.title)
	h.println("1. Create Account")
	h.println("2. Deposit")
	h.println("3. Withdraw")
	h.println("4. Transfer")
	h.println("5. Display Account")
	h.println("6. Display All Accounts")
	h.println("7. Exit")
	fmt.Fprint(h.out, "Choose an option: ")
}

func (h *Handler) create(ctx context.Context) error {
	id, err := h.promptAccountNumber("Enter Account Number: ")
	if err != nil {
		return err
	}

	holder, err := h.prompt("Enter Holder Name: ", tagHolder)
	if err != nil {
		return err
	}

	balance, err := h.promptAmount("Enter Initial Balance: ")
	if err != nil {
		return err
	}

	arg := domain.CreateAccountParams{
		ID:             id,
		Holder:         holder,
		InitialBalance: balance,
	}

	if _, err := h.service.Create(ctx, arg); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateAccount):
			h.printf("Account with number %d already exists!\n", id)
		case errors.Is(err, domain.ErrNegativeAmount):
			h.println("Initial balance cannot be negative!")
		default:
			h.internalError(ctx, err)
		}

		return nil
	}

	h.println("Account created successfully.")

	return nil
}

func (h *Handler) deposit(ctx context.Context) error {
	id, err := h.promptAccountNumber("Enter Account Number: ")
	if err != nil {
		return err
	}

	amount, err := h.promptAmount("Enter Amount to Deposit: ")
	if err != nil {
		return err
	}

	acc, err := h.service.Deposit(ctx, id, amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			h.println("Account not found!")
		case errors.Is(err, domain.ErrInvalidAmount):
			h.println("Invalid deposit amount!")
		default:
			h.internalError(ctx, err)
		}

		return nil
	}

	h.printf("Deposited: %s | New Balance: %s\n", moneypkg.Format(amount), moneypkg.Format(acc.Balance))

	return nil
}

func (h *Handler) withdraw(ctx context.Context) error {
	id, err := h.promptAccountNumber("Enter Account Number: ")
	if err != nil {
		return err
	}

	amount, err := h.promptAmount("Enter Amount to Withdraw: ")
	if err != nil {
		return err
	}

	acc, err := h.service.Withdraw(ctx, id, amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			h.println("Account not found!")
		case errors.Is(err, domain.ErrInsufficientFundsOrInvalidAmount):
			h.println("Insufficient balance or invalid amount!")
		default:
			h.internalError(ctx, err)
		}

		return nil
	}

	h.printf("Withdrawn: %s | New Balance: %s\n", moneypkg.Format(amount), moneypkg.Format(acc.Balance))

	return nil
}

func (h *Handler) transfer(ctx context.Context) error {
	fromID, err := h.promptAccountNumber("Enter Sender Account Number: ")
	if err != nil {
		return err
	}

	toID, err := h.promptAccountNumber("Enter Receiver Account Number: ")
	if err != nil {
		return err
	}

	amount, err := h.promptAmount("Enter Amount to Transfer: ")
	if err != nil {
		return err
	}

	arg := domain.TransferParams{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
	}

	if _, err := h.service.Transfer(ctx, arg); err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			h.println("One or both accounts not found!")
		case errors.Is(err, domain.ErrInsufficientFunds):
			h.println("Insufficient balance in sender account!")
		case errors.Is(err, domain.ErrInvalidAmount):
			h.println("Invalid transfer amount!")
		default:
			h.internalError(ctx, err)
		}

		return nil
	}

	h.println("Transfer successful.")

	return nil
}

func (h *Handler) display(ctx context.Context) error {
	id, err := h.promptAccountNumber("Enter Account Number: ")
	if err != nil {
		return err
	}

	acc, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			h.println("Account not found!")
			return nil
		}

		h.internalError(ctx, err)

		return nil
	}

	h.println(describe(acc))

	return nil
}

func (h *Handler) displayAll(ctx context.Context) {
	accounts, ok := h.service.List(ctx)
	if !ok {
		h.println("No accounts in the bank.")
		return
	}

	for acc := range accounts {
		h.println(describe(acc))
	}
}

func describe(acc domain.Account) string {
	return fmt.Sprintf("Account No: %d, Holder: %s, Balance: %s", acc.ID, acc.Holder, moneypkg.Format(acc.Balance))
}

func (h *Handler) internalError(ctx context.Context, err error) {
	zerolog.Ctx(ctx).Error().Err(err).Send()
	h.printf("Something went wrong: %s\n", errorspkg.ErrInternal)
}

// prompt asks for a value until it passes validation against tag.
func (h *Handler) prompt(label, tag string) (string, error) {
	for {
		fmt.Fprint(h.out, label)

		input, err := h.readLine()
		if errors.Is(err, errLineTooLong) {
			h.println("Input is too long! Try again.")
			continue
		}

		if err != nil {
			return "", err
		}

		if err := h.validate.Var(input, tag); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				h.println(errorMsg(ve[0]))
				continue
			}

			return "", err
		}

		return input, nil
	}
}

func (h *Handler) promptAccountNumber(label string) (int32, error) {
	input, err := h.prompt(label, tagAccountNumber)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(input, 10, 32)
	if err != nil {
		return 0, err
	}

	return int32(id), nil
}

func (h *Handler) promptAmount(label string) (decimal.Decimal, error) {
	input, err := h.prompt(label, tagAmount)
	if err != nil {
		return decimal.Zero, err
	}

	return moneypkg.Parse(input)
}

func (h *Handler) readLine() (string, error) {
	var (
		sb      strings.Builder
		read    bool
		tooLong bool
	)

	for {
		chunk, isPrefix, err := h.in.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", err
			}

			if !read {
				return "", ErrInputClosed
			}

			break
		}

		read = true

		if sb.Len()+len(chunk) > maxLineLength {
			tooLong = true
		} else if !tooLong {
			sb.Write(chunk)
		}

		if !isPrefix {
			break
		}
	}

	if tooLong {
		return "", errLineTooLong
	}

	return strings.TrimSpace(sb.String()), nil
}

func (h *Handler) println(s string) {
	fmt.Fprintln(h.out, s)
}

func (h *Handler) printf(format string, a ...any) {
	fmt.Fprintf(h.out, format, a...)
}

// errorMsg returns a user friendly message for the failed validation.
func errorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Input is required! Try again."
	case "max":
		return "Input must be at most " + fe.Param() + " characters! Try again."
	case "accountnumber":
		return "Invalid account number! Enter a whole number."
	case "amount":
		return "Invalid amount! Enter a decimal number."
	}

	return "Invalid input! Try again."
}
