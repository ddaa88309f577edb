package ul

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictLookup(t *testing.T) {
	u := Dict.UL(NamePreface)
	assert.False(t, u.IsZero())

	entry, ok := Dict.FindByUL(u)
	require.True(t, ok)
	assert.Equal(t, NamePreface, entry.Name)
}

func TestDictUnregisteredPanics(t *testing.T) {
	assert.Panics(t, func() {
		Dict.UL("NotARegisteredName")
	})
}

func TestEqualIgnoreVersion(t *testing.T) {
	a := Dict.UL(NameOP1a)
	b := a
	b[7] = 0xFF

	assert.NotEqual(t, a, b)
	assert.True(t, a.EqualIgnoreVersion(b))

	entry, ok := Dict.FindAnyVersion(b)
	require.True(t, ok)
	assert.Equal(t, NameOP1a, entry.Name)
}

func TestUUIDRoundTrip(t *testing.T) {
	u, err := NewUUID()
	require.NoError(t, err)
	assert.False(t, u.IsZero())

	got := UUIDFromBytes(u.Bytes())
	assert.Equal(t, u, got)
}

func TestUMIDRoundTrip(t *testing.T) {
	u, err := NewUMID()
	require.NoError(t, err)
	assert.False(t, u.IsZero())

	got := UMIDFromBytes(u.Bytes())
	assert.Equal(t, u, got)
}

func TestRationalEditUnitsPerSecond(t *testing.T) {
	r := Rational{Numerator: 24, Denominator: 1}
	assert.Equal(t, 24.0, r.EditUnitsPerSecond())

	zero := Rational{Numerator: 1, Denominator: 0}
	assert.Equal(t, 0.0, zero.EditUnitsPerSecond())
}
