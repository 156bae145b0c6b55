package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/tic-tac-based/internal/suite"
)

func TestRedis_SaveLoad(t *testing.T) {
	ctx, st := suite.New(t)
	r := NewRedis(st.Redis, time.Minute)

	// Given: a saved record
	data := []byte(`{"id":"abc"}`)
	require.NoError(t, r.Save(ctx, "abc", data))

	// When: it is loaded back
	got, err := r.Load(ctx, "abc")

	// Then: the payload round-trips and the key carries a TTL
	require.NoError(t, err)
	assert.Equal(t, data, got)

	ttl, err := st.Redis.TTL(ctx, keyPrefix+"abc").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedis_Expires(t *testing.T) {
	ctx, st := suite.New(t)
	r := NewRedis(st.Redis, 200*time.Millisecond)

	// Given: a record saved with a short TTL
	require.NoError(t, r.Save(ctx, "abc", []byte("1")))
	_, err := r.Load(ctx, "abc")
	require.NoError(t, err)

	// Then: it is gone once the TTL elapses
	assert.Eventually(t, func() bool {
		_, err := r.Load(ctx, "abc")
		return errors.Is(err, ErrNotFound)
	}, 5*time.Second, 50*time.Millisecond)
}

func TestRedis_NotFound(t *testing.T) {
	ctx, st := suite.New(t)
	r := NewRedis(st.Redis, time.Minute)

	_, err := r.Load(ctx, "missing")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedis_Delete(t *testing.T) {
	ctx, st := suite.New(t)
	r := NewRedis(st.Redis, time.Minute)
	require.NoError(t, r.Save(ctx, "abc", []byte("1")))

	require.NoError(t, r.Delete(ctx, "abc"))

	_, err := r.Load(ctx, "abc")
	require.ErrorIs(t, err, ErrNotFound)
}
