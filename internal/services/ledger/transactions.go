package ledger

import (
	"errors"

	"github.com/fastprodman/PaymentsHW/internal/money"
)

var ErrDuplicateTransaction = errors.New("duplicate transaction id")

type TxKind string

const (
	TxDeposit    TxKind = "deposit"
	TxWithdrawal TxKind = "withdrawal"
	TxDispute    TxKind = "dispute"
	TxResolve    TxKind = "resolve"
	TxChargeback TxKind = "chargeback"
)

// Transaction is one parsed input record.
//
// For deposits and withdrawals ID is a freshly minted transaction id and
// Amount is the positive amount to apply. For dispute, resolve and chargeback
// ID references an earlier deposit and Amount is unused.
type Transaction struct {
	Kind   TxKind
	Client uint16
	ID     uint32
	Amount money.Amount
}
