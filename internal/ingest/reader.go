// Package ingest parses the transaction CSV input boundary.
//
// The expected columns are `type,client,tx,amount`, with amount optional for
// dispute, resolve and chargeback rows. Fields are trimmed, so padded input
// like ` deposit , 1 , 1 , 100.0 ` parses fine. Malformed rows — unknown
// types, unparsable numbers, a missing or non-positive amount on deposits and
// withdrawals — are counted and skipped, never surfaced to the engine.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fastprodman/PaymentsHW/internal/money"
	"github.com/fastprodman/PaymentsHW/internal/services/ledger"
)

// Reader streams transactions out of CSV input in file order.
type Reader struct {
	cr      *csv.Reader
	first   bool
	skipped int
}

// NewReader wraps r. A leading `type,client,tx,amount` header row is
// tolerated and skipped.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // amount column may be absent entirely
	cr.TrimLeadingSpace = true

	return &Reader{cr: cr, first: true}
}

// Next returns the next well-formed transaction, skipping malformed rows.
// It returns io.EOF once the input is exhausted.
func (r *Reader) Next() (ledger.Transaction, error) {
	for {
		fields, err := r.cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ledger.Transaction{}, io.EOF
			}

			var perr *csv.ParseError
			if errors.As(err, &perr) {
				r.skip("csv parse error", err)
				continue
			}

			return ledger.Transaction{}, fmt.Errorf("read csv row: %w", err)
		}

		if r.first {
			r.first = false

			if len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "type") {
				continue // header row
			}
		}

		tx, err := parseRow(fields)
		if err != nil {
			r.skip("malformed row", err)
			continue
		}

		return tx, nil
	}
}

// Skipped reports how many malformed rows were dropped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

func (r *Reader) skip(msg string, err error) {
	r.skipped++
	slog.Debug(msg, "line", r.skipped, "reason", err)
}

func parseRow(fields []string) (ledger.Transaction, error) {
	if len(fields) < 3 {
		return ledger.Transaction{}, fmt.Errorf("want at least 3 fields, got %d", len(fields))
	}

	kind, err := parseKind(fields[0])
	if err != nil {
		return ledger.Transaction{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("parse client id: %w", err)
	}

	txID, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("parse tx id: %w", err)
	}

	tx := ledger.Transaction{
		Kind:   kind,
		Client: uint16(client),
		ID:     uint32(txID),
	}

	if kind == ledger.TxDeposit || kind == ledger.TxWithdrawal {
		amount, err := parseAmount(fields)
		if err != nil {
			return ledger.Transaction{}, err
		}

		tx.Amount = amount
	}

	return tx, nil
}

func parseKind(raw string) (ledger.TxKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "deposit":
		return ledger.TxDeposit, nil
	case "withdrawal":
		return ledger.TxWithdrawal, nil
	case "dispute":
		return ledger.TxDispute, nil
	case "resolve":
		return ledger.TxResolve, nil
	case "chargeback":
		return ledger.TxChargeback, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", raw)
	}
}

func parseAmount(fields []string) (money.Amount, error) {
	if len(fields) < 4 || strings.TrimSpace(fields[3]) == "" {
		return money.Zero, errors.New("missing amount")
	}

	amount, err := money.Parse(strings.TrimSpace(fields[3]))
	if err != nil {
		return money.Zero, err
	}

	if !amount.IsPositive() {
		return money.Zero, fmt.Errorf("non-positive amount %s", amount)
	}

	return amount, nil
}
