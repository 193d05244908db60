package vmarena_test

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vmarena"
)

type record struct {
	ID    uint64
	Score float32
	Flags uint16
}

func TestNewValue(t *testing.T) {
	a, err := vmarena.New(1 << 16)
	require.NoError(t, err)
	defer a.Close()

	// Dirty the arena so reuse after Clear would expose stale bytes.
	b, err := a.Alloc(256, 8)
	require.NoError(t, err)
	for i := range b {
		b[i] = 0xAB
	}
	a.Clear()

	r, err := vmarena.NewValue[record](a)
	require.NoError(t, err)
	assert.Equal(t, record{}, *r)
	assert.Zero(t, uintptr(unsafe.Pointer(r))%unsafe.Alignof(*r))
	assert.Equal(t, int64(unsafe.Sizeof(*r)), a.Offset())

	r.ID = 42
	r2, err := vmarena.NewValue[record](a)
	require.NoError(t, err)
	assert.NotSame(t, r, r2)
	assert.Equal(t, uint64(42), r.ID)
}

func TestNewValue_ZeroSize(t *testing.T) {
	a, err := vmarena.New(1 << 16)
	require.NoError(t, err)
	defer a.Close()

	p, err := vmarena.NewValue[struct{}](a)
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Zero(t, a.Offset())
}

func TestMakeSlice(t *testing.T) {
	a, err := vmarena.New(1 << 16)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Alloc(3, 1)
	require.NoError(t, err)

	xs, err := vmarena.MakeSlice[float64](a, 100)
	require.NoError(t, err)
	assert.Len(t, xs, 100)
	assert.Equal(t, 100, cap(xs))
	assert.Zero(t, uintptr(unsafe.Pointer(&xs[0]))%8)
	for _, x := range xs {
		assert.Zero(t, x)
	}
	assert.Equal(t, int64(8+800), a.Offset())

	t.Run("empty", func(t *testing.T) {
		before := a.Offset()
		xs, err := vmarena.MakeSlice[int](a, 0)
		require.NoError(t, err)
		assert.Empty(t, xs)
		assert.Equal(t, before, a.Offset())
	})

	t.Run("negative", func(t *testing.T) {
		_, err := vmarena.MakeSlice[int](a, -1)
		assert.ErrorIs(t, err, vmarena.ErrInvalidSize)
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := vmarena.MakeSlice[int64](a, math.MaxInt/4)
		assert.ErrorIs(t, err, vmarena.ErrInvalidSize)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := vmarena.MakeSlice[byte](a, 1<<20)
		assert.ErrorIs(t, err, vmarena.ErrExhausted)
	})
}
