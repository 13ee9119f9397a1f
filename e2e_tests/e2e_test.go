// Package e2etests runs the whole pipeline — CSV in, dispatch pool, CSV out —
// the way cmd/engine wires it.
package e2etests

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/PaymentsHW/internal/dispatch"
	"github.com/fastprodman/PaymentsHW/internal/ingest"
	"github.com/fastprodman/PaymentsHW/internal/report"
	accmem "github.com/fastprodman/PaymentsHW/internal/repos/accounts/memory"
	txmem "github.com/fastprodman/PaymentsHW/internal/repos/txlog/memory"
	"github.com/fastprodman/PaymentsHW/internal/services/ledger"
)

func runPipeline(t *testing.T, input string, workers int) string {
	t.Helper()

	svc := ledger.New(accmem.New(), txmem.New())
	pool := dispatch.New(svc, workers)
	reader := ingest.NewReader(strings.NewReader(input))

	for {
		tx, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)
		require.NoError(t, pool.Submit(context.Background(), tx))
	}

	pool.Close()

	var out bytes.Buffer
	require.NoError(t, report.Write(&out, svc.Snapshots()))

	return out.String()
}

func TestE2E_DepositsAndWithdrawal(t *testing.T) {
	t.Parallel()

	input := "type,client,tx,amount\n" +
		"deposit,1,1,100.0\n" +
		"deposit,1,2,50.0\n" +
		"withdrawal,1,3,30.0\n"

	want := "client,available,held,total,locked\n" +
		"1,120.0000,0.0000,120.0000,false\n"

	assert.Equal(t, want, runPipeline(t, input, 4))
}

func TestE2E_DisputeLifecycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "dispute_holds",
			input: "type,client,tx,amount\n" +
				"deposit,1,1,100.0\n" +
				"dispute,1,1,\n",
			want: "client,available,held,total,locked\n" +
				"1,0.0000,100.0000,100.0000,false\n",
		},
		{
			name: "resolve_releases",
			input: "type,client,tx,amount\n" +
				"deposit,1,1,100.0\n" +
				"dispute,1,1,\n" +
				"resolve,1,1,\n",
			want: "client,available,held,total,locked\n" +
				"1,100.0000,0.0000,100.0000,false\n",
		},
		{
			name: "chargeback_locks",
			input: "type,client,tx,amount\n" +
				"deposit,1,1,100.0\n" +
				"dispute,1,1,\n" +
				"chargeback,1,1,\n" +
				"deposit,1,4,10.0\n",
			want: "client,available,held,total,locked\n" +
				"1,0.0000,0.0000,0.0000,true\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, runPipeline(t, tt.input, 4))
		})
	}
}

func TestE2E_MalformedAndDuplicateRowsIgnored(t *testing.T) {
	t.Parallel()

	input := "type,client,tx,amount\n" +
		"deposit,1,1,100.0\n" +
		"invalid,row,data,here\n" +
		"deposit,1,1,999.0\n" +
		"withdrawal,1,2,1000.0\n" +
		"deposit,2,3,50.0\n"

	want := "client,available,held,total,locked\n" +
		"1,100.0000,0.0000,100.0000,false\n" +
		"2,50.0000,0.0000,50.0000,false\n"

	assert.Equal(t, want, runPipeline(t, input, 4))
}

func TestE2E_WhitespaceTolerance(t *testing.T) {
	t.Parallel()

	input := "type,client,tx,amount\n deposit , 1 , 1 , 75.5 \n"

	want := "client,available,held,total,locked\n" +
		"1,75.5000,0.0000,75.5000,false\n"

	assert.Equal(t, want, runPipeline(t, input, 1))
}

func TestE2E_MultipleClientsSortedOutput(t *testing.T) {
	t.Parallel()

	input := "type,client,tx,amount\n" +
		"deposit,3,1,10.0\n" +
		"deposit,1,2,20.0\n" +
		"deposit,2,3,30.0\n"

	want := "client,available,held,total,locked\n" +
		"1,20.0000,0.0000,20.0000,false\n" +
		"2,30.0000,0.0000,30.0000,false\n" +
		"3,10.0000,0.0000,10.0000,false\n"

	assert.Equal(t, want, runPipeline(t, input, 8))
}

func TestE2E_SameOutputAcrossWorkerCounts(t *testing.T) {
	t.Parallel()

	// A busier mix: many clients, dispute traffic, some rejections.
	var b strings.Builder
	b.WriteString("type,client,tx,amount\n")

	id := 1
	for round := 0; round < 20; round++ {
		for client := 1; client <= 9; client++ {
			b.WriteString("deposit,")
			writeRow(&b, client, id, "10.0")
			id++

			if round%3 == 0 {
				b.WriteString("withdrawal,")
				writeRow(&b, client, id, "4.5")
				id++
			}
		}
	}
	// Dispute and charge back client 1's first deposit.
	b.WriteString("dispute,1,1,\n")
	b.WriteString("chargeback,1,1,\n")

	input := b.String()

	sequential := runPipeline(t, input, 1)
	parallel := runPipeline(t, input, 8)

	assert.Equal(t, sequential, parallel,
		"final state must not depend on worker count")
}

func writeRow(b *strings.Builder, client, id int, amount string) {
	b.WriteString(strconv.Itoa(client))
	b.WriteString(",")
	b.WriteString(strconv.Itoa(id))
	b.WriteString(",")
	b.WriteString(amount)
	b.WriteString("\n")
}
