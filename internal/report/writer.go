// Package report renders final account states as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fastprodman/PaymentsHW/internal/repos/accounts"
)

// Write renders snaps as `client,available,held,total,locked` rows with four
// fractional digits. Rows are sorted by client id so the same final state
// always produces the same bytes.
func Write(w io.Writer, snaps []accounts.Snapshot) error {
	sorted := make([]accounts.Snapshot, len(snaps))
	copy(sorted, snaps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ClientID < sorted[j].ClientID })

	cw := csv.NewWriter(w)

	err := cw.Write([]string{"client", "available", "held", "total", "locked"})
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range sorted {
		row := []string{
			strconv.FormatUint(uint64(s.ClientID), 10),
			s.Available.Fixed(),
			s.Held.Fixed(),
			s.Total().Fixed(),
			strconv.FormatBool(s.Locked),
		}

		err := cw.Write(row)
		if err != nil {
			return fmt.Errorf("write account %d: %w", s.ClientID, err)
		}
	}

	cw.Flush()

	err = cw.Error()
	if err != nil {
		return fmt.Errorf("flush report: %w", err)
	}

	return nil
}
