//go:build tinygo

package smartdriver

import (
	"machine"
	"time"
)

// UARTComm implements RegisterComm over a shared single-wire UART bus,
// the TMC2209's native register protocol (sync byte, slave address,
// register, payload, CRC-free XOR checksum), adapted unchanged from
// tmc2209.UARTComm.
type UARTComm struct {
	uart machine.UART
}

// NewUARTComm wraps an already-configured machine.UART.
func NewUARTComm(uart machine.UART) *UARTComm {
	return &UARTComm{uart: uart}
}

// Setup configures the bus for the TMC2209's fixed 115200 baud rate.
func (c *UARTComm) Setup() error {
	if err := c.uart.Configure(machine.UARTConfig{BaudRate: 115200}); err != nil {
		return CustomError("smartdriver: failed to configure UART")
	}
	return nil
}

// WriteRegister sends a register write datagram, blocking up to 100ms.
func (c *UARTComm) WriteRegister(register uint8, value uint32, driverIndex uint8) error {
	buf := []byte{
		0x05,
		driverIndex,
		register | 0x80,
		byte(value >> 24),
		byte(value >> 16),
		byte(value >> 8),
		byte(value),
	}
	checksum := byte(0)
	for _, b := range buf {
		checksum ^= b
	}
	buf = append(buf, checksum)

	done := make(chan error, 1)
	go func() {
		_, err := c.uart.Write(buf)
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(100 * time.Millisecond):
		return CustomError("smartdriver: write timeout")
	}
}

// ReadRegister sends a register read request and returns the driver's
// reply payload, blocking up to 100ms.
func (c *UARTComm) ReadRegister(register uint8, driverIndex uint8) (uint32, error) {
	req := [4]byte{0x05, driverIndex, register & 0x7F, 0}
	req[3] = req[0] ^ req[1] ^ req[2]

	done := make(chan []byte, 1)
	go func() {
		c.uart.Write(req[:])
		reply := make([]byte, 8)
		c.uart.Read(reply)
		done <- reply
	}()

	select {
	case reply := <-done:
		checksum := byte(0)
		for i := 0; i < 7; i++ {
			checksum ^= reply[i]
		}
		if checksum != reply[7] {
			return 0, CustomError("smartdriver: checksum mismatch")
		}
		return uint32(reply[3])<<24 | uint32(reply[4])<<16 | uint32(reply[5])<<8 | uint32(reply[6]), nil
	case <-time.After(100 * time.Millisecond):
		return 0, CustomError("smartdriver: read timeout")
	}
}
