// Package ledger implements the transaction processing engine.
//
// The service applies deposits, withdrawals and the dispute lifecycle
// (dispute, resolve, chargeback) against per-client accounts. Rejections are
// sentinel errors that the caller may report; they never stop the stream and
// never leave an account partially mutated.
package ledger

import (
	"fmt"

	"github.com/fastprodman/PaymentsHW/internal/repos/accounts"
	"github.com/fastprodman/PaymentsHW/internal/repos/txlog"
)

// Service routes each transaction to its client's account and applies it
// under that account's lock.
type Service struct {
	accounts accounts.Registry
	txlog    txlog.Log
}

// New creates a service over the given registry and dedup log.
func New(reg accounts.Registry, log txlog.Log) *Service {
	return &Service{
		accounts: reg,
		txlog:    log,
	}
}

// Process applies one transaction:
//
//  1. Deposits and withdrawals mint a new transaction id; the id is admitted
//     to the dedup log first, and a duplicate is rejected before any account
//     is touched. An admitted id stays admitted even if the account-level
//     effect is then rejected.
//  2. Dispute, resolve and chargeback reference an existing deposit; they are
//     validated against the account's own deposit history, so an id minted by
//     a different client is simply not found.
//
// Callers processing a stream must keep per-client order; transactions for
// different clients may be processed concurrently.
func (s *Service) Process(tx Transaction) error {
	switch tx.Kind {
	case TxDeposit:
		if !s.txlog.Admit(tx.ID) {
			return ErrDuplicateTransaction
		}

		acc := s.accounts.GetOrCreate(tx.Client)

		err := acc.Deposit(tx.ID, tx.Amount)
		if err != nil {
			return fmt.Errorf("deposit tx %d: %w", tx.ID, err)
		}

	case TxWithdrawal:
		if !s.txlog.Admit(tx.ID) {
			return ErrDuplicateTransaction
		}

		acc := s.accounts.GetOrCreate(tx.Client)

		err := acc.Withdraw(tx.Amount)
		if err != nil {
			return fmt.Errorf("withdrawal tx %d: %w", tx.ID, err)
		}

	case TxDispute:
		acc, ok := s.accounts.Get(tx.Client)
		if !ok {
			return fmt.Errorf("dispute tx %d: %w", tx.ID, accounts.ErrTransactionNotFound)
		}

		err := acc.Dispute(tx.ID)
		if err != nil {
			return fmt.Errorf("dispute tx %d: %w", tx.ID, err)
		}

	case TxResolve:
		acc, ok := s.accounts.Get(tx.Client)
		if !ok {
			return fmt.Errorf("resolve tx %d: %w", tx.ID, accounts.ErrTransactionNotFound)
		}

		err := acc.Resolve(tx.ID)
		if err != nil {
			return fmt.Errorf("resolve tx %d: %w", tx.ID, err)
		}

	case TxChargeback:
		acc, ok := s.accounts.Get(tx.Client)
		if !ok {
			return fmt.Errorf("chargeback tx %d: %w", tx.ID, accounts.ErrTransactionNotFound)
		}

		err := acc.Chargeback(tx.ID)
		if err != nil {
			return fmt.Errorf("chargeback tx %d: %w", tx.ID, err)
		}

	default:
		// Unknown kinds are filtered at the input boundary; reaching here is
		// a programming error, still reported as a rejection rather than a
		// panic.
		return fmt.Errorf("unknown transaction kind %q", tx.Kind)
	}

	return nil
}

// Snapshot returns the balances for one client, if the account exists.
func (s *Service) Snapshot(clientID uint16) (accounts.Snapshot, bool) {
	acc, ok := s.accounts.Get(clientID)
	if !ok {
		return accounts.Snapshot{}, false
	}

	return acc.Snapshot(), true
}

// Snapshots returns the balances of every known account, in no particular
// order. Callers needing deterministic output sort by client id.
func (s *Service) Snapshots() []accounts.Snapshot {
	all := s.accounts.All()

	snaps := make([]accounts.Snapshot, 0, len(all))
	for _, acc := range all {
		snaps = append(snaps, acc.Snapshot())
	}

	return snaps
}
