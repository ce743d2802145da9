package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvac-dashboard/internal/storage/block"
)

func TestStore_NamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	local, err := block.NewLocalFS(block.Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	for name, backend := range map[string]block.Storage{"memory": block.NewMemoryFS(), "local": local} {
		t.Run(name, func(t *testing.T) {
			store := NewStore(backend, "")
			assert.Equal(t, "default", store.Namespace())

			store.SwitchNamespace("acme")
			require.NoError(t, store.Set(ctx, "filters", []byte("status=online")))

			store.SwitchNamespace("globex")
			_, err := store.Get(ctx, "filters")
			assert.True(t, errors.Is(err, ErrNotFound))
			require.NoError(t, store.Set(ctx, "filters", []byte("status=offline")))

			store.SwitchNamespace("acme")
			value, err := store.Get(ctx, "filters")
			require.NoError(t, err)
			assert.Equal(t, "status=online", string(value))

			keys, err := store.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"filters"}, keys)
		})
	}
}

func TestStore_JSONAndRemove(t *testing.T) {
	ctx := context.Background()
	store := NewStore(block.NewMemoryFS(), "acme")

	type prefs struct {
		PageSize int `json:"page_size"`
	}

	require.NoError(t, store.SetJSON(ctx, "prefs", prefs{PageSize: 50}))

	var got prefs
	require.NoError(t, store.GetJSON(ctx, "prefs", &got))
	assert.Equal(t, 50, got.PageSize)

	require.NoError(t, store.Remove(ctx, "prefs"))
	require.NoError(t, store.Remove(ctx, "prefs"))
	assert.ErrorIs(t, store.GetJSON(ctx, "prefs", &got), ErrNotFound)
}

func TestStore_PathSanitized(t *testing.T) {
	store := NewStore(block.NewMemoryFS(), "acme")
	assert.Equal(t, "acme/etc/passwd", store.Path("../../etc/passwd"))
}
