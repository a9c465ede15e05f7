package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemory_HitExpiryInvalidate(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)}
	c := NewMemory(WithClock(clock.Now))

	_, ok, err := c.Get(ctx, "faqs:all")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "faqs:all", []byte(`[1]`), 30*time.Second))

	clock.Advance(29 * time.Second)
	v, ok, _ := c.Get(ctx, "faqs:all")
	assert.True(t, ok)
	assert.Equal(t, []byte(`[1]`), v)

	clock.Advance(time.Second)
	_, ok, _ = c.Get(ctx, "faqs:all")
	assert.False(t, ok, "entry expires at exactly its ttl")

	require.NoError(t, c.Set(ctx, "faqs:all", []byte(`[2]`), 30*time.Second))
	require.NoError(t, c.Delete(ctx, "faqs:all"))
	_, ok, _ = c.Get(ctx, "faqs:all")
	assert.False(t, ok)
}

func TestMemory_SetCopiesValue(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	buf := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", buf, time.Minute))
	buf[0] = 'z'

	v, ok, _ := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "abc", string(v))
}
