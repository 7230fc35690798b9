package radio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullDefaults(t *testing.T) {
	n := NewNull()
	ch, err := n.GetValue(ParamChannel)
	require.NoError(t, err)
	require.EqualValues(t, 26, ch)

	tx, err := n.GetValue(ParamTXPower)
	require.NoError(t, err)
	require.EqualValues(t, 3, tx)
}

func TestNullChannelRange(t *testing.T) {
	n := NewNull()
	require.NoError(t, n.SetValue(ParamChannel, 11))
	require.NoError(t, n.SetValue(ParamChannel, 26))
	require.ErrorIs(t, n.SetValue(ParamChannel, 10), ErrInvalidValue)
	require.ErrorIs(t, n.SetValue(ParamChannel, 27), ErrInvalidValue)
}

func TestNullSendAlwaysOK(t *testing.T) {
	n := NewNull()
	require.Equal(t, TxOK, n.Send([]byte{1, 2, 3}))
	require.Equal(t, TxOK, n.Send(nil))
}

func TestNullEnergyDetectUnsupported(t *testing.T) {
	n := NewNull()
	_, err := n.EnergyDetect()
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestNullReadOnlyObjects(t *testing.T) {
	n := NewNull()
	chans, err := n.GetObject(ObjectChannelsSupported)
	require.NoError(t, err)
	require.EqualValues(t, 0x07FFF800, chans)

	dur, err := n.GetObject(ObjectMaxFrameDuration)
	require.NoError(t, err)
	require.EqualValues(t, 266, dur)
}

func TestNullDeliver(t *testing.T) {
	n := NewNull()
	var got []byte
	var gotRSSI int8
	n.SetReceiveFunc(func(psdu []byte, rssi int8) {
		got = psdu
		gotRSSI = rssi
	})

	n.Deliver([]byte{0xAA}, -40)
	require.Equal(t, []byte{0xAA}, got)
	require.EqualValues(t, -40, gotRSSI)
}
