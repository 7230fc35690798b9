package tamagouart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakePeripheral struct {
	inited bool
	rxQ    []byte
	txOut  []byte
}

func (f *fakePeripheral) Init() { f.inited = true }

func (f *fakePeripheral) Rx() (byte, bool) {
	if len(f.rxQ) == 0 {
		return 0, false
	}
	c := f.rxQ[0]
	f.rxQ = f.rxQ[1:]
	return c, true
}

func (f *fakePeripheral) Tx(c byte) {
	f.txOut = append(f.txOut, c)
}

func TestWritePassesThroughToPeripheral(t *testing.T) {
	hw := &fakePeripheral{}
	u := New(hw, 16)

	n, err := u.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{1, 2, 3}, hw.txOut)
}

func TestReadDrainsRing(t *testing.T) {
	hw := &fakePeripheral{rxQ: []byte{10, 20, 30}}
	u := New(hw, 16)
	u.PollInterval = time.Millisecond
	u.Init()
	defer u.Close()

	require.Eventually(t, func() bool {
		return len(hw.rxQ) == 0
	}, time.Second, time.Millisecond)

	buf := make([]byte, 8)
	var got []byte
	require.Eventually(t, func() bool {
		n, _ := u.Read(buf)
		got = append(got, buf[:n]...)
		return len(got) == 3
	}, time.Second, time.Millisecond)

	require.Equal(t, []byte{10, 20, 30}, got)
}
