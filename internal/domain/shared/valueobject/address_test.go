package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("valid address", func(t *testing.T) {
		addr, err := NewAddress("123 Main St", "Springfield", "IL", "62704")
		require.NoError(t, err)
		assert.Equal(t, "123 Main St", addr.Line1)
		assert.Equal(t, "US", addr.Country)
	})

	t.Run("with options", func(t *testing.T) {
		addr, err := NewAddress("123 Main St", "Springfield", "IL", "62704",
			WithLine2("Apt 4B"), WithCountry("CA"))
		require.NoError(t, err)
		assert.Equal(t, "Apt 4B", addr.Line2)
		assert.Equal(t, "CA", addr.Country)
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, err := NewAddress("", "Springfield", "IL", "62704")
		assert.Error(t, err)

		_, err = NewAddress("123 Main St", "", "IL", "62704")
		assert.Error(t, err)

		_, err = NewAddress("123 Main St", "Springfield", "IL", "")
		assert.Error(t, err)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		addr, err := NewAddress("  123 Main St  ", " Springfield ", "IL", "62704")
		require.NoError(t, err)
		assert.Equal(t, "123 Main St", addr.Line1)
		assert.Equal(t, "Springfield", addr.City)
	})
}

func TestAddressValueScan(t *testing.T) {
	addr, err := NewAddress("123 Main St", "Springfield", "IL", "62704", WithLine2("Apt 4B"))
	require.NoError(t, err)

	v, err := addr.Value()
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, addr, decoded)

	t.Run("empty address stores nil", func(t *testing.T) {
		v, err := Address{}.Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("scan nil yields empty", func(t *testing.T) {
		var a Address
		require.NoError(t, a.Scan(nil))
		assert.True(t, a.IsEmpty())
	})
}
