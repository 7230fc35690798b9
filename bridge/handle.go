package bridge

import (
	"github.com/usbarmory/serial154/phy"
	"github.com/usbarmory/serial154/radio"
)

// handleMessage dispatches a decoded request per the table in §4.5,
// mirroring transceiver.c's handleMessage/get_attribute/set_attribute.
func (d *Dispatcher) handleMessage(msg phy.Msg) {
	switch msg.Type {
	case phy.TypePDDataRequest:
		status := txResultToStatus(d.driver.Send(msg.PSDU))
		d.emit(phy.NewPDDataConfirm(status))

	case phy.TypePLMECCARequest:
		cca, err := d.driver.ChannelClear()
		d.emit(phy.NewPLMECCAConfirm(ccaResultToStatus(cca, err)))

	case phy.TypePLMEEDRequest:
		level, err := d.driver.EnergyDetect()
		// §9 Open Question (b): an unsupported ED maps to
		// UNSUPPORT_ATTRIBUTE, standing in for the Contiki source's
		// unrepresentable status=-1.
		status := phy.StatusSuccess
		if err != nil {
			status = phy.StatusUnsupportedAttribute
		}
		d.emit(phy.NewPLMEEDConfirm(status, level))

	case phy.TypePLMEGetRequest:
		d.getAttribute(msg.Attr)

	case phy.TypePLMESetTRXStateRequest:
		err := d.driver.SetValue(radio.ParamPHYState, uint32(msg.Status))
		d.emit(phy.NewPLMESetTRXStateConfirm(driverErrToStatus(err)))

	case phy.TypePLMESetRequest:
		d.setAttribute(msg.Attr, msg.Value)

	default:
		d.log.WithField("type", msg.Type).Warn("bridge: unsupported primitive type")
	}
}

var attrToParam = map[phy.Attr]radio.Param{
	phy.AttrCurrentChannel:  radio.ParamChannel,
	phy.AttrTransmitPower:   radio.ParamTXPower,
	phy.AttrCCAMode:         radio.ParamCCAMode,
	phy.AttrCurrentPage:     radio.ParamCurrentPage,
	phy.AttrSHRDuration:     radio.ParamSHRDuration,
	phy.AttrSymbolsPerOctet: radio.ParamSymbolsPerOctet,
}

// getAttribute implements §4.5 "PLME-GET.request: read via PIB interface
// from driver", transceiver.c's get_attribute.
func (d *Dispatcher) getAttribute(attr phy.Attr) {
	var (
		value uint32
		err   error
	)

	switch attr {
	case phy.AttrChannelsSupported:
		value, err = d.driver.GetObject(radio.ObjectChannelsSupported)
	case phy.AttrMaxFrameDuration:
		value, err = d.driver.GetObject(radio.ObjectMaxFrameDuration)
	default:
		param, ok := attrToParam[attr]
		if !ok {
			d.emit(phy.NewPLMEGetConfirm(phy.StatusUnsupportedAttribute, attr, 0))
			return
		}
		value, err = d.driver.GetValue(param)
	}

	d.emit(phy.NewPLMEGetConfirm(driverErrToStatus(err), attr, value))
}

// setAttribute implements §4.5's "Attribute policy": writes to
// ChannelsSupported, MaxFrameDuration, SHRDuration, SymbolsPerOctet,
// CurrentPage always return READ_ONLY; channel/TX-power/CCA-mode writes
// are range-checked by the driver and surfaced as INVALID_PARAMETER.
func (d *Dispatcher) setAttribute(attr phy.Attr, value uint32) {
	if attr.ReadOnly() {
		d.emit(phy.NewPLMESetConfirm(phy.StatusReadOnly, attr))
		return
	}

	param, ok := attrToParam[attr]
	if !ok {
		d.emit(phy.NewPLMESetConfirm(phy.StatusUnsupportedAttribute, attr))
		return
	}

	err := d.driver.SetValue(param, value)
	d.emit(phy.NewPLMESetConfirm(driverErrToStatus(err), attr))
}

// driverErrToStatus maps a radio driver error to a PHY status per §4.4's
// table: "OK→SUCCESS, NOT_SUPPORTED→UNSUPPORT_ATTRIBUTE,
// READ_ONLY→READ_ONLY, INVALID_VALUE/ERROR→error."
func driverErrToStatus(err error) phy.Status {
	switch err {
	case nil:
		return phy.StatusSuccess
	case radio.ErrNotSupported:
		return phy.StatusUnsupportedAttribute
	case radio.ErrReadOnly:
		return phy.StatusReadOnly
	case radio.ErrInvalidValue:
		return phy.StatusInvalidParameter
	default:
		return phy.StatusInvalidParameter
	}
}

// txResultToStatus maps a Send outcome to a PHY status. §4.4 only defines
// "TX_OK→SUCCESS, other TX results→error"; SPEC_FULL resolves "error" to
// BUSY_TX, the closest defined PHY state for a transmission that could not
// complete.
func txResultToStatus(r radio.TxResult) phy.Status {
	if r == radio.TxOK {
		return phy.StatusSuccess
	}
	return phy.StatusBusyTX
}

// ccaResultToStatus maps a ChannelClear outcome to a PHY status, §4.5:
// "PLME-CCA.confirm(TRX_OFF/BUSY/IDLE)".
func ccaResultToStatus(s radio.CCAState, err error) phy.Status {
	if err != nil {
		return driverErrToStatus(err)
	}
	switch s {
	case radio.CCATRXOff:
		return phy.StatusTRXOff
	case radio.CCABusy:
		return phy.StatusBusy
	default:
		return phy.StatusIdle
	}
}
