package money

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "integer", in: "100", want: "100"},
		{name: "fractional", in: "100.25", want: "100.25"},
		{name: "high_precision", in: "0.00015", want: "0.00015"},
		{name: "negative", in: "-3.5", want: "-3.5"},
		{name: "garbage", in: "abc", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "double_dot", in: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestSub(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		a, b          string
		want          string
		wantUnderflow bool
	}{
		{name: "positive_result", a: "100", b: "30", want: "70"},
		{name: "zero_result", a: "30", b: "30", want: "0"},
		{name: "underflow", a: "10", b: "10.0001", wantUnderflow: true},
		{name: "fractional", a: "1.5", b: "0.25", want: "1.25"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := MustParse(tt.a).Sub(MustParse(tt.b))
			if tt.wantUnderflow {
				require.ErrorIs(t, err, ErrUnderflow)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestSubNeverClampsToZero(t *testing.T) {
	t.Parallel()

	// A failed subtraction must not leak a partially computed value.
	got, err := MustParse("1").Sub(MustParse("2"))
	require.True(t, errors.Is(err, ErrUnderflow))
	assert.True(t, got.IsZero())
}

func TestFixedRoundsHalfToEven(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "pads_whole_number", in: "1000", want: "1000.0000"},
		{name: "keeps_four_digits", in: "100.1234", want: "100.1234"},
		{name: "rounds_down_to_even", in: "0.00005", want: "0.0000"},
		{name: "rounds_up_to_even", in: "0.00015", want: "0.0002"},
		{name: "rounds_excess_precision", in: "123.456789", want: "123.4568"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, MustParse(tt.in).Fixed())
		})
	}
}

func TestAddAndCmp(t *testing.T) {
	t.Parallel()

	a := MustParse("0.1")
	b := MustParse("0.2")

	sum := a.Add(b)
	assert.Equal(t, "0.3", sum.String(), "decimal addition must be exact")

	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 1, b.Cmp(a))
	assert.Equal(t, 0, sum.Cmp(MustParse("0.3")))
	assert.True(t, Zero.IsZero())
	assert.False(t, Zero.IsPositive())
}
