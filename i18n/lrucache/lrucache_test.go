// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/potool/potool/i18n/lrucache"
)

func TestNew(t *testing.T) {
	t.Parallel()

	c, err := lrucache.New[string](3)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	_, err = lrucache.New[string](0)
	require.ErrorIs(t, err, lrucache.ErrInvalidSize)
}

func TestAddAndGet(t *testing.T) {
	t.Parallel()

	c, err := lrucache.New[int](2)
	require.NoError(t, err)

	assert.False(t, c.Add("a", 1))
	assert.False(t, c.Add("b", 2))

	// Touch a so that b is the oldest.
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, c.Add("c", 3))

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	assert.Equal(t, []string{"a", "c"}, c.Keys())
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	c, err := lrucache.New[string](2)
	require.NoError(t, err)

	c.Add("a", "one")
	c.Add("b", "two")
	assert.False(t, c.Add("a", "uno"))

	v, _ := c.Get("a")
	assert.Equal(t, "uno", v)
	assert.Equal(t, []string{"b", "a"}, c.Keys())
	assert.Equal(t, 2, c.Len())
}

func TestRemove(t *testing.T) {
	t.Parallel()

	c, err := lrucache.New[string](2)
	require.NoError(t, err)

	c.Add("a", "one")
	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Keys())
}

func TestConcurrent(t *testing.T) {
	t.Parallel()

	c, err := lrucache.New[int](16)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for g := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 100 {
				key := strconv.Itoa((g*100 + i) % 32)
				c.Add(key, i)
				c.Get(key)
			}
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
	assert.Len(t, c.Keys(), c.Len())
}
