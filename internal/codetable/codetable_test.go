package codetable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	e, err := MaterialType.Lookup("Bound Issue")
	require.NoError(t, err)
	require.Equal(t, "ISSBD", e.Code)

	e, err = ItemPolicy.Lookup("  NON-CIRCULATING ")
	require.NoError(t, err)
	require.Equal(t, Entry{Label: "non-circulating", Code: "1"}, e)
}

func TestLookupUnknown(t *testing.T) {
	_, err := Status.Lookup("Shelved")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownValue))
	require.Contains(t, err.Error(), "Item in place")
}

func TestForColumn(t *testing.T) {
	table, ok := ForColumn("item policy")
	require.True(t, ok)
	require.Equal(t, "Item Policy", table.Column())

	_, ok = ForColumn("Barcode")
	require.False(t, ok)
}
