package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("rows", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("rows", 2)
	require.NoError(t, err)
	assert.False(t, isNew)

	v, ok := r.Get("rows")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, err = r.Register("", 3)
	assert.Error(t, err)

	got, err := r.GetOrCreate("sheets", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = r.GetOrCreate("columns", func() (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)
	_, ok = r.Get("columns")
	assert.False(t, ok)

	assert.Equal(t, []string{"rows", "sheets"}, r.Names())

	n, err := r.ClearAll(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, r.Names())
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	r := NewRegistry[*int]()
	var created int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.GetOrCreate("one", func() (*int, error) {
				mu.Lock()
				created++
				mu.Unlock()
				v := 1
				return &v, nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}
