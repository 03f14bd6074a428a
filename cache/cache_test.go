package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory()

	c.Set("k", "v", time.Minute)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestMemory_MissingKey(t *testing.T) {
	c := NewMemory()

	_, ok := c.Get("absent")
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory()

	c.Set("k", "v", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestMemory_Invalidate(t *testing.T) {
	c := NewMemory()

	c.Set("k", "v", time.Minute)
	c.Invalidate("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestMemory_Overwrite(t *testing.T) {
	c := NewMemory()

	c.Set("k", "v1", time.Minute)
	c.Set("k", "v2", time.Minute)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}
