package metadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract checks the behaviour every backend must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key reads as nil, nil", func(t *testing.T) {
		r := newRepo(t)
		v, err := r.Get(ctx, "absent")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("set then get, then overwrite", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, KeyUserData, []byte(`{"username":"a"}`)))
		require.NoError(t, r.Set(ctx, KeyUserData, []byte(`{"username":"b"}`)))

		v, err := r.Get(ctx, KeyUserData)
		require.NoError(t, err)
		assert.Equal(t, `{"username":"b"}`, string(v))
	})

	t.Run("set many is visible as a whole", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, KeyUserData, []byte("keep")))
		require.NoError(t, r.SetMany(ctx, map[string][]byte{
			KeyAPIURL:      []byte("http://1.2.3.4:9000"),
			KeyServerIP:    []byte("1.2.3.4"),
			KeyServerPort:  []byte("9000"),
			KeyUseCustomIP: []byte("true"),
		}))

		m, err := r.List(ctx)
		require.NoError(t, err)
		assert.Len(t, m, 5)
		assert.Equal(t, "http://1.2.3.4:9000", string(m[KeyAPIURL]))
		assert.Equal(t, "true", string(m[KeyUseCustomIP]))
		assert.Equal(t, "keep", string(m[KeyUserData]))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "x", []byte("1")))
		require.NoError(t, r.Delete(ctx, "x"))
		require.NoError(t, r.Delete(ctx, "x"))

		v, err := r.Get(ctx, "x")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("clear removes every key", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "a", []byte("1")))
		require.NoError(t, r.Set(ctx, "b", []byte("2")))
		require.NoError(t, r.Clear(ctx))

		m, err := r.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, m)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "k", []byte("abc")))

		v, err := r.Get(ctx, "k")
		require.NoError(t, err)
		v[0] = 'X'

		again, err := r.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(again))
	})
}

func TestMemoryRepository_Contract(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) Repository {
		return NewMemoryRepository()
	})
}
