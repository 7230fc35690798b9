package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGetOrder(t *testing.T) {
	r := New(8)
	for _, b := range []byte{1, 2, 3, 4} {
		require.True(t, r.Put(b))
	}
	require.Equal(t, 4, r.Len())

	for _, want := range []byte{1, 2, 3, 4} {
		got, ok := r.Get()
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	_, ok := r.Get()
	require.False(t, ok)
}

func TestPutFullReturnsFalse(t *testing.T) {
	r := New(4)
	for i := 0; i < 4; i++ {
		require.True(t, r.Put(byte(i)))
	}
	require.False(t, r.Put(99))
}

func TestWraparound(t *testing.T) {
	r := New(4)
	for i := 0; i < 3; i++ {
		require.True(t, r.Put(byte(i)))
	}
	for i := 0; i < 2; i++ {
		_, ok := r.Get()
		require.True(t, ok)
	}
	require.True(t, r.Put(10))
	require.True(t, r.Put(11))
	require.True(t, r.Put(12))

	var got []byte
	r.Drain(func(b byte) { got = append(got, b) })
	require.Equal(t, []byte{2, 10, 11, 12}, got)
}

func TestNewPanicsOnNonPowerOfTwo(t *testing.T) {
	require.Panics(t, func() { New(3) })
}

func TestWakeSignaled(t *testing.T) {
	r := New(4)
	require.True(t, r.Put(1))
	select {
	case <-r.Wake():
	default:
		t.Fatal("expected wake signal after Put")
	}
}
