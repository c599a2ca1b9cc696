package receipts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_MintOnce(t *testing.T) {
	m := NewMemory()

	require.NoError(t, m.Mint(7, "0xfunder"))

	err := m.Mint(7, "0xother")
	assert.ErrorIs(t, err, ErrAlreadyMinted)

	owner, err := m.OwnerOf(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "0xfunder", owner)
}

func TestMemory_OwnerOfUnminted(t *testing.T) {
	m := NewMemory()

	_, err := m.OwnerOf(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Transfer(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Mint(1, "0xalice"))

	t.Run("non-owner cannot transfer", func(t *testing.T) {
		err := m.Transfer(ctx, 1, "0xmallory", "0xmallory2")
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("owner transfers", func(t *testing.T) {
		require.NoError(t, m.Transfer(ctx, 1, "0xalice", "0xbob"))

		owner, err := m.OwnerOf(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "0xbob", owner)
	})

	t.Run("unminted receipt", func(t *testing.T) {
		err := m.Transfer(ctx, 9, "0xalice", "0xbob")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
