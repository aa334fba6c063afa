// Package usbbridge provides the concrete collaborators for the one
// transport this repo does own a driver for end-to-end: the USB-bridge
// chip's I2C ADC channel and its UART AT-command channel. The BLE GATT stack
// remains an external collaborator per spec §1 and is represented only by
// the transport.HidSink interface.
package usbbridge

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/asterics/flipcore/internal/vbmodel"
)

// I2CAddrLPC is HAL_SERIAL_I2C_ADDR_LPC, the USB-bridge chip's I2C address
// (spec §6).
const I2CAddrLPC uint16 = 0x2A

// I2CBridge reads ADC samples from and writes HID cmds to the USB-bridge
// chip over I2C.
type I2CBridge struct {
	dev *i2c.Dev
	bus i2c.BusCloser
}

// OpenI2CBridge initializes the periph host drivers and opens busName (empty
// string selects the default bus) at I2CAddrLPC.
func OpenI2CBridge(busName string) (*I2CBridge, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host drivers: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	return &I2CBridge{
		dev: &i2c.Dev{Bus: bus, Addr: I2CAddrLPC},
		bus: bus,
	}, nil
}

// ReadSample performs the 10-byte master read described in spec §6,
// returning the five channels in their wire order (down, left, up, right,
// pressure), little-endian.
func (b *I2CBridge) ReadSample() (vbmodel.AdcSample, error) {
	buf := make([]byte, 10)
	if err := b.dev.Tx(nil, buf); err != nil {
		return vbmodel.AdcSample{}, fmt.Errorf("i2c read adc sample: %w", err)
	}
	return vbmodel.AdcSample{
		Down:     binary.LittleEndian.Uint16(buf[0:2]),
		Left:     binary.LittleEndian.Uint16(buf[2:4]),
		Up:       binary.LittleEndian.Uint16(buf[4:6]),
		Right:    binary.LittleEndian.Uint16(buf[6:8]),
		Pressure: binary.LittleEndian.Uint16(buf[8:10]),
	}, nil
}

// WriteCmd performs the 3-byte master write described in spec §6.
func (b *I2CBridge) WriteCmd(cmd [3]byte) error {
	if err := b.dev.Tx(cmd[:], nil); err != nil {
		return fmt.Errorf("i2c write hid cmd: %w", err)
	}
	return nil
}

// Close releases the underlying I2C bus handle.
func (b *I2CBridge) Close() error {
	return b.bus.Close()
}
