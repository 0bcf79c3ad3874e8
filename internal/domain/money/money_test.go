package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulQty(t *testing.T) {
	total, err := Cents(250).MulQty(4)
	require.NoError(t, err)
	assert.Equal(t, Cents(1000), total)

	zero, err := Cents(250).MulQty(0)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
}

func TestMulQty_Overflow(t *testing.T) {
	_, err := Cents(math.MaxInt64).MulQty(2)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestMulQty_NegativeOperands(t *testing.T) {
	_, err := Cents(-1).MulQty(2)
	require.Error(t, err)

	_, err = Cents(100).MulQty(-1)
	require.Error(t, err)
}

func TestString(t *testing.T) {
	assert.Equal(t, "$12.05", Cents(1205).String())
	assert.Equal(t, "$0.09", Cents(9).String())
	assert.Equal(t, "-$3.00", Cents(-300).String())
}
