package accounts

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fastprodman/PaymentsHW/internal/money"
)

var (
	ErrAccountLocked       = errors.New("account is locked")
	ErrInsufficientFunds   = errors.New("insufficient available funds")
	ErrInvalidAmount       = errors.New("invalid amount (must be positive)")
	ErrTransactionNotFound = errors.New("referenced transaction not found")
	ErrInvalidDisputeState = errors.New("invalid dispute state")
)

// DepositState tracks a deposit through the dispute lifecycle.
//
//	Applied ──dispute──► Disputed ──resolve────► Resolved
//	                        │
//	                        └──chargeback──► Voided (account locked)
type DepositState uint8

const (
	DepositApplied DepositState = iota
	DepositDisputed
	DepositResolved
	DepositVoided
)

func (s DepositState) String() string {
	switch s {
	case DepositApplied:
		return "applied"
	case DepositDisputed:
		return "disputed"
	case DepositResolved:
		return "resolved"
	case DepositVoided:
		return "voided"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// deposit is the per-transaction dispute record. Amount is immutable once set.
type deposit struct {
	amount money.Amount
	state  DepositState
}

// Account holds one client's balances and deposit history.
//
// Every operation runs under the account's own mutex, which is the
// serialization point for that client: workers for other clients never touch
// it, and a holder sees a fully consistent available/held/locked triple.
// Rejected operations leave the account exactly as it was.
type Account struct {
	mu sync.Mutex

	clientID  uint16
	available money.Amount
	held      money.Amount
	locked    bool

	// Deposits indexed by transaction id for dispute lookup. Withdrawals are
	// not disputable and are never recorded here.
	deposits map[uint32]*deposit
}

// NewAccount creates an empty unlocked account for clientID.
func NewAccount(clientID uint16) *Account {
	return &Account{
		clientID: clientID,
		deposits: make(map[uint32]*deposit),
	}
}

// ClientID returns the owning client id.
func (a *Account) ClientID() uint16 {
	return a.clientID
}

// Deposit credits amount to available and records the deposit as Applied.
func (a *Account) Deposit(txID uint32, amount money.Amount) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if a.locked {
		return ErrAccountLocked
	}

	a.available = a.available.Add(amount)
	a.deposits[txID] = &deposit{amount: amount, state: DepositApplied}

	return nil
}

// Withdraw debits amount from available.
func (a *Account) Withdraw(amount money.Amount) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if a.locked {
		return ErrAccountLocked
	}

	if a.available.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}

	rest, err := a.available.Sub(amount)
	if err != nil {
		return fmt.Errorf("debit available: %w", err)
	}

	a.available = rest

	return nil
}

// Dispute moves the referenced deposit's amount from available to held.
// Only a deposit in state Applied on an unlocked account can be disputed.
func (a *Account) Dispute(txID uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.locked {
		return ErrAccountLocked
	}

	dep, ok := a.deposits[txID]
	if !ok {
		return ErrTransactionNotFound
	}

	if dep.state != DepositApplied {
		return fmt.Errorf("dispute deposit in state %s: %w", dep.state, ErrInvalidDisputeState)
	}

	// The deposited funds may have been withdrawn since; holding them would
	// drive available negative, so the dispute is refused instead.
	rest, err := a.available.Sub(dep.amount)
	if err != nil {
		return fmt.Errorf("hold funds: %w", err)
	}

	a.available = rest
	a.held = a.held.Add(dep.amount)
	dep.state = DepositDisputed

	return nil
}

// Resolve releases a disputed deposit's held amount back to available.
func (a *Account) Resolve(txID uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.locked {
		return ErrAccountLocked
	}

	dep, ok := a.deposits[txID]
	if !ok {
		return ErrTransactionNotFound
	}

	if dep.state != DepositDisputed {
		return fmt.Errorf("resolve deposit in state %s: %w", dep.state, ErrInvalidDisputeState)
	}

	rest, err := a.held.Sub(dep.amount)
	if err != nil {
		return fmt.Errorf("release funds: %w", err)
	}

	a.held = rest
	a.available = a.available.Add(dep.amount)
	dep.state = DepositResolved

	return nil
}

// Chargeback removes a disputed deposit's held amount and locks the account.
// The lock is permanent: every later operation on the account is rejected.
func (a *Account) Chargeback(txID uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.locked {
		return ErrAccountLocked
	}

	dep, ok := a.deposits[txID]
	if !ok {
		return ErrTransactionNotFound
	}

	if dep.state != DepositDisputed {
		return fmt.Errorf("chargeback deposit in state %s: %w", dep.state, ErrInvalidDisputeState)
	}

	rest, err := a.held.Sub(dep.amount)
	if err != nil {
		return fmt.Errorf("void funds: %w", err)
	}

	a.held = rest
	dep.state = DepositVoided
	a.locked = true

	return nil
}

// Snapshot is a consistent read of an account's balances.
type Snapshot struct {
	ClientID  uint16
	Available money.Amount
	Held      money.Amount
	Locked    bool
}

// Total returns available + held. Always derived, never stored.
func (s Snapshot) Total() money.Amount {
	return s.Available.Add(s.Held)
}

// Snapshot returns the account's balances as observed under its lock.
func (a *Account) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	return Snapshot{
		ClientID:  a.clientID,
		Available: a.available,
		Held:      a.held,
		Locked:    a.locked,
	}
}

// DepositState reports the lifecycle state of a recorded deposit.
func (a *Account) DepositState(txID uint32) (DepositState, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	dep, ok := a.deposits[txID]
	if !ok {
		return 0, false
	}

	return dep.state, true
}
