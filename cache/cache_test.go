package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPatient struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client), mr
}

func TestCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "patient_cache:1", cachedPatient{ID: 1, Name: "Ana"}, time.Minute))

	var got cachedPatient
	hit, err := c.Get(ctx, "patient_cache:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Ana", got.Name)

	mr.FastForward(2 * time.Minute)
	hit, err = c.Get(ctx, "patient_cache:1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_Delete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"procedure_cache:1", "procedure_cache:2", "procedures_cache"} {
		require.NoError(t, c.Set(ctx, key, key, 0))
	}

	require.NoError(t, c.Delete(ctx, "procedures_cache"))
	assert.False(t, mr.Exists("procedures_cache"))

	require.NoError(t, c.DeleteAll(ctx, "procedure_cache:*"))
	assert.Empty(t, mr.Keys())
	assert.NoError(t, c.Delete(ctx))
}

func TestCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("patient_cache:1", "{not json"))

	var got cachedPatient
	hit, err := c.Get(context.Background(), "patient_cache:1", &got)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestCache_Disabled(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]*Cache{"nil client": NewCache(nil), "nil cache": nil} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, c.Enabled())
			assert.NoError(t, c.Set(ctx, "k", 1, time.Minute))
			var v int
			hit, err := c.Get(ctx, "k", &v)
			assert.NoError(t, err)
			assert.False(t, hit)
			assert.NoError(t, c.Delete(ctx, "k"))
			assert.NoError(t, c.DeleteAll(ctx, "*"))
		})
	}
}
