package phy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Property 1 from spec.md §8: deserialize(serialize(P)) == P for every
// variant and every attribute.
func TestRoundTrip(t *testing.T) {
	cases := []Msg{
		NewPDDataRequest([]byte{0xAA, 0xBB}),
		NewPDDataRequest(nil),
		NewPDDataRequest(make([]byte, MaxPSDU)),
		NewPDDataConfirm(StatusSuccess),
		NewPDDataIndication([]byte{1, 2, 3}, 42),
		NewPLMECCARequest(),
		NewPLMECCAConfirm(StatusIdle),
		NewPLMEEDRequest(),
		NewPLMEEDConfirm(StatusSuccess, 200),
		NewPLMEGetRequest(AttrCurrentChannel),
		NewPLMEGetConfirm(StatusSuccess, AttrCurrentChannel, 26),
		NewPLMEGetConfirm(StatusSuccess, AttrChannelsSupported, 0x07FFF800),
		NewPLMEGetConfirm(StatusSuccess, AttrTransmitPower, 3),
		NewPLMEGetConfirm(StatusSuccess, AttrCCAMode, 1),
		NewPLMEGetConfirm(StatusSuccess, AttrCurrentPage, 0),
		NewPLMEGetConfirm(StatusSuccess, AttrMaxFrameDuration, 266),
		NewPLMEGetConfirm(StatusSuccess, AttrSHRDuration, 10),
		NewPLMEGetConfirm(StatusSuccess, AttrSymbolsPerOctet, 2),
		NewPLMESetTRXStateRequest(StatusRxOn),
		NewPLMESetTRXStateConfirm(StatusSuccess),
		NewPLMESetRequest(AttrCurrentChannel, 20),
		NewPLMESetRequest(AttrChannelsSupported, 0xDDCCBBAA),
		NewPLMESetConfirm(StatusReadOnly, AttrChannelsSupported),
	}

	for _, want := range cases {
		wire, err := Serialize(want)
		require.NoError(t, err)
		require.Len(t, wire, int(want.Length))

		got, n, err := Deserialize(wire)
		require.NoError(t, err)
		require.Equal(t, len(wire), n)
		require.Equal(t, want, got)
	}
}

func TestDeserializeUnknownType(t *testing.T) {
	_, _, err := Deserialize([]byte{0xFF, 2})
	require.Error(t, err)
}

func TestDeserializeUnknownAttribute(t *testing.T) {
	_, _, err := Deserialize([]byte{byte(TypePLMEGetRequest), 3, 0xFF})
	require.Error(t, err)
}

func TestDeserializeTruncated(t *testing.T) {
	_, _, err := Deserialize([]byte{byte(TypePDDataRequest), 5, 2, 0xAA})
	require.Error(t, err)
}

func TestDeserializeOverlengthPSDU(t *testing.T) {
	body := append([]byte{byte(TypePDDataRequest), 0, 200}, make([]byte, 200)...)
	_, _, err := Deserialize(body)
	require.Error(t, err)
}

// S2, S3, S4, S5 from spec.md §8 byte-for-byte.
func TestScenarioGetCurrentChannel(t *testing.T) {
	req, n, err := Deserialize([]byte{0x07, 0x03, 0x00})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, NewPLMEGetRequest(AttrCurrentChannel), req)

	confirm := NewPLMEGetConfirm(StatusSuccess, AttrCurrentChannel, 26)
	wire, err := Serialize(confirm)
	require.NoError(t, err)
	require.Equal(t, []byte{0x08, 0x05, 0x00, 0x00, 0x1A}, wire)
}

func TestScenarioSetThenConfirm(t *testing.T) {
	req, _, err := Deserialize([]byte{0x0B, 0x04, 0x00, 0x14})
	require.NoError(t, err)
	require.Equal(t, NewPLMESetRequest(AttrCurrentChannel, 20), req)

	wire, err := Serialize(NewPLMESetConfirm(StatusSuccess, AttrCurrentChannel))
	require.NoError(t, err)
	require.Equal(t, []byte{0x0C, 0x04, 0x00, 0x00}, wire)
}

func TestScenarioSetReadOnly(t *testing.T) {
	req, _, err := Deserialize([]byte{0x0B, 0x07, 0x01, 0xDD, 0xCC, 0xBB, 0xAA})
	require.NoError(t, err)
	require.Equal(t, NewPLMESetRequest(AttrChannelsSupported, 0xAABBCCDD), req)

	wire, err := Serialize(NewPLMESetConfirm(StatusReadOnly, AttrChannelsSupported))
	require.NoError(t, err)
	require.Equal(t, []byte{0x0C, 0x04, byte(StatusReadOnly), 0x01}, wire)
}

func TestScenarioPDDataRequest(t *testing.T) {
	req, _, err := Deserialize([]byte{0x00, 0x05, 0x02, 0xAA, 0xBB})
	require.NoError(t, err)
	require.Equal(t, NewPDDataRequest([]byte{0xAA, 0xBB}), req)

	wire, err := Serialize(NewPDDataConfirm(StatusSuccess))
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x03, byte(StatusSuccess)}, wire)
}

func TestAttrWidths(t *testing.T) {
	require.Equal(t, 1, AttrCurrentChannel.Width())
	require.Equal(t, 4, AttrChannelsSupported.Width())
	require.Equal(t, 1, AttrTransmitPower.Width())
	require.Equal(t, 1, AttrCCAMode.Width())
	require.Equal(t, 1, AttrCurrentPage.Width())
	require.Equal(t, 2, AttrMaxFrameDuration.Width())
	require.Equal(t, 1, AttrSHRDuration.Width())
	require.Equal(t, 1, AttrSymbolsPerOctet.Width())
}

func TestAttrReadOnly(t *testing.T) {
	require.True(t, AttrChannelsSupported.ReadOnly())
	require.True(t, AttrMaxFrameDuration.ReadOnly())
	require.True(t, AttrSHRDuration.ReadOnly())
	require.True(t, AttrSymbolsPerOctet.ReadOnly())
	require.True(t, AttrCurrentPage.ReadOnly())
	require.False(t, AttrCurrentChannel.ReadOnly())
	require.False(t, AttrTransmitPower.ReadOnly())
	require.False(t, AttrCCAMode.ReadOnly())
}

func TestPIBValue(t *testing.T) {
	pib := PIB{
		CurrentChannel:    26,
		ChannelsSupported: 0x07FFF800,
		TransmitPower:     3,
		CCAMode:           1,
		CurrentPage:       0,
		MaxFrameDuration:  266,
		SHRDuration:       10,
		SymbolsPerOctet:   2,
	}
	require.EqualValues(t, 26, pib.Value(AttrCurrentChannel))
	require.EqualValues(t, 266, pib.Value(AttrMaxFrameDuration))
}
