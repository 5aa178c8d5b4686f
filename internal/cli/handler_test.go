package cli

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/ledger"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// cmpMatcher matches values with cmp.Equal, so decimals compare by value.
type cmpMatcher struct {
	want any
}

func (m cmpMatcher) Matches(x any) bool {
	return cmp.Equal(m.want, x)
}

func (m cmpMatcher) String() string {
	return fmt.Sprintf("is equal to %+v", m.want)
}

func eqCmp(want any) gomock.Matcher {
	return cmpMatcher{want: want}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seqOf(accounts ...domain.Account) iter.Seq[domain.Account] {
	return func(yield func(domain.Account) bool) {
		for _, a := range accounts {
			if !yield(a) {
				return
			}
		}
	}
}

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func TestRun(t *testing.T) {
	alice := domain.Account{ID: 101, Holder: "Alice", Balance: d("500")}
	bob := domain.Account{ID: 102, Holder: "Bob", Balance: d("50")}

	testCases := []struct {
		name       string
		input      string
		buildStubs func(s *MockService)
		wantErr    error
		wantOutput []string
	}{
		{
			name:       "Exit",
			input:      lines("7"),
			buildStubs: func(s *MockService) {},
			wantOutput: []string{
				"===== Test Bank =====",
				"1. Create Account",
				"6. Display All Accounts",
				"7. Exit",
				"Choose an option: ",
				"Exiting... Goodbye!",
			},
		},
		{
			name:       "InvalidOption",
			input:      lines("9", "abc", "", "7"),
			buildStubs: func(s *MockService) {},
			wantOutput: []string{
				"Invalid option! Try again.",
				"Invalid option! Try again.",
				"Invalid option! Try again.",
				"Exiting... Goodbye!",
			},
		},
		{
			name:       "InputClosed",
			input:      "",
			buildStubs: func(s *MockService) {},
			wantErr:    ErrInputClosed,
		},
		{
			name:  "InputClosedMidPrompt",
			input: lines("1", "101"),
			buildStubs: func(s *MockService) {
				s.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr:    ErrInputClosed,
			wantOutput: []string{"Enter Account Number: ", "Enter Holder Name: "},
		},
		{
			name:  "CreateOK",
			input: lines("1", "101", "Alice", "500.0", "7"),
			buildStubs: func(s *MockService) {
				arg := domain.CreateAccountParams{ID: 101, Holder: "Alice", InitialBalance: d("500")}
				s.EXPECT().
					Create(gomock.Any(), eqCmp(arg)).
					Times(1).
					Return(alice, nil)
			},
			wantOutput: []string{
				"Enter Account Number: ",
				"Enter Holder Name: ",
				"Enter Initial Balance: ",
				"Account created successfully.",
			},
		},
		{
			name:  "CreateHolderWithSpaces",
			input: lines("1", "5", "  Mary Ann Smith ", "0", "7"),
			buildStubs: func(s *MockService) {
				arg := domain.CreateAccountParams{ID: 5, Holder: "Mary Ann Smith", InitialBalance: d("0")}
				s.EXPECT().
					Create(gomock.Any(), eqCmp(arg)).
					Times(1).
					Return(domain.Account{ID: 5, Holder: "Mary Ann Smith"}, nil)
			},
			wantOutput: []string{"Account created successfully."},
		},
		{
			name:  "CreateDuplicate",
			input: lines("1", "101", "Mallory", "1", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrDuplicateAccount)
			},
			wantOutput: []string{"Account with number 101 already exists!"},
		},
		{
			name:  "CreateNegativeBalance",
			input: lines("1", "101", "Alice", "-1", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrNegativeAmount)
			},
			wantOutput: []string{"Initial balance cannot be negative!"},
		},
		{
			name:  "CreateRepromptsOnMalformedInput",
			input: lines("1", "abc", "99999999999", "101", "", "Alice", "ten", "1,5", "500", "7"),
			buildStubs: func(s *MockService) {
				arg := domain.CreateAccountParams{ID: 101, Holder: "Alice", InitialBalance: d("500")}
				s.EXPECT().
					Create(gomock.Any(), eqCmp(arg)).
					Times(1).
					Return(alice, nil)
			},
			wantOutput: []string{
				"Invalid account number! Enter a whole number.",
				"Invalid account number! Enter a whole number.",
				"Input is required! Try again.",
				"Invalid amount! Enter a decimal number.",
				"Invalid amount! Enter a decimal number.",
				"Account created successfully.",
			},
		},
		{
			name:  "CreateHolderTooLong",
			input: lines("1", "1", strings.Repeat("a", 101), "Alice", "1", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return(alice, nil)
			},
			wantOutput: []string{"Input must be at most 100 characters! Try again.", "Account created successfully."},
		},
		{
			name:  "CreateHolderLongerThanReadLimit",
			input: lines("1", "1", strings.Repeat("a", 70_000), "Alice", "1", "7"),
			buildStubs: func(s *MockService) {
				arg := domain.CreateAccountParams{ID: 1, Holder: "Alice", InitialBalance: d("1")}
				s.EXPECT().
					Create(gomock.Any(), eqCmp(arg)).
					Times(1).
					Return(alice, nil)
			},
			wantOutput: []string{"Input is too long! Try again.", "Account created successfully.", "Exiting... Goodbye!"},
		},
		{
			name:       "MenuLineLongerThanReadLimit",
			input:      lines(strings.Repeat("7", 70_000), "7"),
			buildStubs: func(s *MockService) {},
			wantOutput: []string{"Invalid option! Try again.", "Exiting... Goodbye!"},
		},
		{
			name:       "ExitWithoutTrailingNewline",
			input:      "7",
			buildStubs: func(s *MockService) {},
			wantOutput: []string{"Exiting... Goodbye!"},
		},
		{
			name:  "DepositRepromptsOnExponentAmount",
			input: lines("2", "101", "1e30000000", "200", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(int32(101)), eqCmp(d("200"))).
					Times(1).
					Return(domain.Account{ID: 101, Holder: "Alice", Balance: d("700")}, nil)
			},
			wantOutput: []string{"Invalid amount! Enter a decimal number.", "Deposited: 200.00 | New Balance: 700.00"},
		},
		{
			name:  "DepositOK",
			input: lines("2", "101", "200.0", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(int32(101)), eqCmp(d("200"))).
					Times(1).
					Return(domain.Account{ID: 101, Holder: "Alice", Balance: d("700")}, nil)
			},
			wantOutput: []string{"Enter Amount to Deposit: ", "Deposited: 200.00 | New Balance: 700.00"},
		},
		{
			name:  "DepositInvalidAmount",
			input: lines("2", "101", "-5.0", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(int32(101)), eqCmp(d("-5"))).
					Times(1).
					Return(alice, domain.ErrInvalidAmount)
			},
			wantOutput: []string{"Invalid deposit amount!"},
		},
		{
			name:  "DepositAccountNotFound",
			input: lines("2", "999", "1", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(int32(999)), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantOutput: []string{"Account not found!"},
		},
		{
			name:  "WithdrawOK",
			input: lines("3", "101", "50", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Withdraw(gomock.Any(), gomock.Eq(int32(101)), eqCmp(d("50"))).
					Times(1).
					Return(domain.Account{ID: 101, Holder: "Alice", Balance: d("450")}, nil)
			},
			wantOutput: []string{"Enter Amount to Withdraw: ", "Withdrawn: 50.00 | New Balance: 450.00"},
		},
		{
			name:  "WithdrawInsufficientFunds",
			input: lines("3", "101", "5000", "7"),
			buildStubs: func(s *MockService) {
				err := fmt.Errorf("%w: %w", domain.ErrInsufficientFundsOrInvalidAmount, domain.ErrInsufficientFunds)
				s.EXPECT().
					Withdraw(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(alice, err)
			},
			wantOutput: []string{"Insufficient balance or invalid amount!"},
		},
		{
			name:  "WithdrawAccountNotFound",
			input: lines("3", "999", "10", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Withdraw(gomock.Any(), gomock.Eq(int32(999)), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantOutput: []string{"Account not found!"},
		},
		{
			name:  "TransferOK",
			input: lines("4", "101", "102", "100.0", "7"),
			buildStubs: func(s *MockService) {
				arg := domain.TransferParams{FromAccountID: 101, ToAccountID: 102, Amount: d("100")}
				s.EXPECT().
					Transfer(gomock.Any(), eqCmp(arg)).
					Times(1).
					Return(domain.TransferResult{FromAccount: alice, ToAccount: bob, Amount: d("100")}, nil)
			},
			wantOutput: []string{
				"Enter Sender Account Number: ",
				"Enter Receiver Account Number: ",
				"Enter Amount to Transfer: ",
				"Transfer successful.",
			},
		},
		{
			name:  "TransferAccountNotFound",
			input: lines("4", "101", "999", "1", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferResult{}, domain.ErrAccountNotFound)
			},
			wantOutput: []string{"One or both accounts not found!"},
		},
		{
			name:  "TransferInsufficientFunds",
			input: lines("4", "101", "102", "1000", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferResult{}, domain.ErrInsufficientFunds)
			},
			wantOutput: []string{"Insufficient balance in sender account!"},
		},
		{
			name:  "TransferInvalidAmount",
			input: lines("4", "101", "102", "0", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferResult{}, domain.ErrInvalidAmount)
			},
			wantOutput: []string{"Invalid transfer amount!"},
		},
		{
			name:  "DisplayOK",
			input: lines("5", "101", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Get(gomock.Any(), gomock.Eq(int32(101))).
					Times(1).
					Return(alice, nil)
			},
			wantOutput: []string{"Account No: 101, Holder: Alice, Balance: 500.00"},
		},
		{
			name:  "DisplayAccountNotFound",
			input: lines("5", "999", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Get(gomock.Any(), gomock.Eq(int32(999))).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantOutput: []string{"Account not found!"},
		},
		{
			name:  "DisplayInternalError",
			input: lines("5", "1", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			wantOutput: []string{"Something went wrong: internal", "Exiting... Goodbye!"},
		},
		{
			name:  "DisplayAllEmpty",
			input: lines("6", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					List(gomock.Any()).
					Times(1).
					Return(seqOf(), false)
			},
			wantOutput: []string{"No accounts in the bank."},
		},
		{
			name:  "DisplayAll",
			input: lines("6", "7"),
			buildStubs: func(s *MockService) {
				s.EXPECT().
					List(gomock.Any()).
					Times(1).
					Return(seqOf(alice, bob), true)
			},
			wantOutput: []string{
				"Account No: 101, Holder: Alice, Balance: 500.00",
				"Account No: 102, Holder: Bob, Balance: 50.00",
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			var out bytes.Buffer

			h, err := NewHandler(service, "Test Bank", strings.NewReader(tc.input), &out)
			require.NoError(t, err)

			err = h.Run(context.Background())
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			requireInOrder(t, out.String(), tc.wantOutput)
		})
	}
}

// requireInOrder checks that every item of want appears in got after the previous one.
func requireInOrder(t *testing.T, got string, want []string) {
	t.Helper()

	rest := got
	for _, w := range want {
		i := strings.Index(rest, w)
		if i < 0 {
			t.Fatalf("output is missing %q after previous matches, full output:\n%s", w, got)
		}

		rest = rest[i+len(w):]
	}
}

func TestRunWithLedger(t *testing.T) {
	input := lines(
		"6",
		"1", "101", "Alice", "100.0",
		"1", "102", "Bob", "50.0",
		"1", "101", "Mallory", "999",
		"4", "101", "102", "100.0",
		"5", "101",
		"5", "102",
		"3", "999", "10",
		"2", "102", "-5.0",
		"4", "101", "102", "0.01",
		"2", "101", "200.0",
		"3", "101", "200.0",
		"6",
		"7",
	)

	var out bytes.Buffer

	h, err := NewHandler(ledger.New(), "Bank System Simulator", strings.NewReader(input), &out)
	require.NoError(t, err)
	require.NoError(t, h.Run(context.Background()))

	requireInOrder(t, out.String(), []string{
		"===== Bank System Simulator =====",
		"No accounts in the bank.",
		"Account created successfully.",
		"Account created successfully.",
		"Account with number 101 already exists!",
		"Transfer successful.",
		"Account No: 101, Holder: Alice, Balance: 0.00",
		"Account No: 102, Holder: Bob, Balance: 150.00",
		"Account not found!",
		"Invalid deposit amount!",
		"Insufficient balance in sender account!",
		"Deposited: 200.00 | New Balance: 200.00",
		"Withdrawn: 200.00 | New Balance: 0.00",
		"Account No: 101, Holder: Alice, Balance: 0.00",
		"Account No: 102, Holder: Bob, Balance: 150.00",
		"Exiting... Goodbye!",
	})
}
