package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid money", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(99.99), USD)
		require.NoError(t, err)
		assert.Equal(t, "99.99", m.StringFixed(2))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("empty currency rejected", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "")
		assert.Error(t, err)
	})

	t.Run("from string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", USD)
		require.NoError(t, err)
		assert.Equal(t, "123.45", m.StringFixed(2))
	})

	t.Run("invalid string rejected", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", USD)
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("add same currency", func(t *testing.T) {
		a := NewMoneyUSDFromFloat(10.50)
		b := NewMoneyUSDFromFloat(5.25)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "15.75", sum.StringFixed(2))
	})

	t.Run("add different currency fails", func(t *testing.T) {
		a := NewMoneyUSDFromFloat(10)
		b, _ := NewMoney(decimal.NewFromInt(5), EUR)
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("subtract", func(t *testing.T) {
		a := NewMoneyUSDFromFloat(10)
		b := NewMoneyUSDFromFloat(3.50)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "6.50", diff.StringFixed(2))
	})

	t.Run("multiply by quantity", func(t *testing.T) {
		price := NewMoneyUSDFromFloat(200)
		total := price.MultiplyByInt(3)
		assert.Equal(t, "600.00", total.StringFixed(2))
	})

	t.Run("round half up", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(30.005)
		assert.Equal(t, "30.01", m.Round(2).StringFixed(2))

		m = NewMoneyUSDFromFloat(30.004)
		assert.Equal(t, "30.00", m.Round(2).StringFixed(2))
	})
}

func TestMoneyComparison(t *testing.T) {
	a := NewMoneyUSDFromFloat(100)
	b := NewMoneyUSDFromFloat(200)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, a.Equals(NewMoneyUSDFromFloat(100)))
	assert.False(t, a.Equals(b))
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyUSDFromFloat(49.99)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"49.99","currency":"USD"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyScan(t *testing.T) {
	t.Run("scan string", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("42.50"))
		assert.Equal(t, "42.50", m.StringFixed(2))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scan bytes", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan([]byte("3.14")))
		assert.Equal(t, "3.14", m.StringFixed(2))
	})

	t.Run("scan nil", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})
}
