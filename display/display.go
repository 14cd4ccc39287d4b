// Package display drives the on-device Sharp Memory LCD (the polled UI
// consumer of machine state described in spec §2), adapted from the
// teacher's sharpmem package. It keeps sharpmem's line-diffing
// framebuffer model unchanged and adds bitmap/progress-bar primitives
// the ui package draws with; no glyph/font rendering lives here.
package display

import (
	"errors"
	"image/color"

	"tinygo.org/x/drivers"
)

const (
	bitWriteCmd uint8 = 0b00000001
	bitVcom     uint8 = 0b00000010
	bitClear    uint8 = 0b00000100
)

// Config128x128 matches the LS013B7DH03 panel used on the plotter's
// control panel.
var Config128x128 = Config{Width: 128, Height: 128}

type Pin interface {
	High()
	Low()
}

// Panel is a monochrome Sharp Memory Display framebuffer, adapted
// unchanged from sharpmem.Device down to the single SKU this firmware
// ships with (line-invalidation optimizations kept).
type Panel struct {
	bus          drivers.SPI
	csPin        Pin
	buffer       []byte
	txBuf        []byte
	lineDiff     []byte
	width        int16
	height       int16
	bytesPerLine int16
	vcom         uint8
	diffing      bool
}

type Config struct {
	Width  int16
	Height int16

	DisableOptimizations bool
}

// New creates a new panel connection. The SPI bus must already be
// configured.
func New(bus drivers.SPI, csPin Pin) Panel {
	return Panel{bus: bus, csPin: csPin}
}

// Configure initializes the panel and its in-memory buffers.
func (d *Panel) Configure(cfg Config) {
	if cfg.Width == 0 {
		cfg.Width = Config128x128.Width
	}
	if cfg.Height == 0 {
		cfg.Height = Config128x128.Height
	}

	d.width = cfg.Width
	d.height = cfg.Height
	d.diffing = !cfg.DisableOptimizations

	d.initialize()
}

func (d *Panel) initialize() {
	d.csPin.Low()
	d.vcom = bitVcom

	d.bytesPerLine = ceilDiv(d.width, 16) * 2
	bufferSize := d.bytesPerLine * d.height
	d.buffer = make([]byte, bufferSize)
	for i := range d.buffer {
		d.buffer[i] = 0xff
	}

	d.txBuf = make([]byte, 2)

	if d.diffing {
		d.lineDiff = make([]byte, bitfieldBufLen(1+d.height))
	}
}

// SetPixel enables or disables a pixel. color.RGBA{0,0,0,255} is black
// (a lit pixel); anything else is treated as white.
func (d *Panel) SetPixel(x, y int16, c color.RGBA) {
	if d.width == 0 || x < 0 || x >= d.width || y < 0 || y >= d.height {
		return
	}

	offset := y * d.bytesPerLine
	div := offset + x/8
	mod := uint8(x % 8)

	// A set bit is a white pixel, a cleared bit a black one (the buffer
	// is cleared to 0xff).
	prev := hasBit(d.buffer[div], mod)
	curr := !(c.R == 0 && c.G == 0 && c.B == 0 && c.A == 255)
	if prev == curr {
		return
	}

	if curr {
		d.buffer[div] = setBit(d.buffer[div], mod)
	} else {
		d.buffer[div] = unsetBit(d.buffer[div], mod)
	}

	if d.diffing {
		d.invalidateLine(y)
	}
}

// Size returns the panel's pixel dimensions.
func (d *Panel) Size() (x, y int16) {
	return d.width, d.height
}

// Display flushes the buffer to the panel, transmitting only lines
// touched since the last flush when diffing is enabled. Must be called
// at >=1Hz even when nothing changed, to keep toggling VCOM.
func (d *Panel) Display() error {
	if d.width == 0 {
		return errors.New("display: panel not configured")
	}

	if d.diffing {
		if !hasBit(d.lineDiff[0], 0) {
			return d.holdDisplay()
		}
		defer func() {
			for i := range d.lineDiff {
				d.lineDiff[i] = 0x00
			}
		}()
	}

	cmd := bitWriteCmd | d.vcom
	d.toggleVcom()

	var hiPad uint8
	if d.height >= 512 {
		hiPad = 6
	} else if d.height >= 256 {
		hiPad = 7
	}

	d.csPin.High()

	for i := int16(0); i < d.height; i++ {
		if d.diffing {
			linediv := (i + 1) / 8
			linemod := uint8((i + 1) % 8)
			if !hasBit(d.lineDiff[linediv], linemod) {
				continue
			}
		}

		hi := uint8((i+1)>>8) << hiPad
		d.txBuf[0] = cmd | hi
		d.txBuf[1] = uint8(i + 1)

		if err := d.bus.Tx(d.txBuf, nil); err != nil {
			return err
		}
		if err := d.bus.Tx(d.buffer[i*d.bytesPerLine:(i+1)*d.bytesPerLine], nil); err != nil {
			return err
		}
	}

	d.txBuf[0] = 0x00
	d.txBuf[1] = 0x00
	if err := d.bus.Tx(d.txBuf, nil); err != nil {
		return err
	}

	d.csPin.Low()
	return nil
}

func (d *Panel) holdDisplay() error {
	d.txBuf[0] = d.vcom
	d.txBuf[1] = 0x00
	d.toggleVcom()

	d.csPin.High()
	err := d.bus.Tx(d.txBuf, nil)
	d.csPin.Low()
	return err
}

// Clear clears both the in-memory buffer and the panel.
func (d *Panel) Clear() error {
	if d.width == 0 {
		return errors.New("display: panel not configured")
	}
	d.ClearBuffer()
	return d.ClearDisplay()
}

// ClearBuffer clears the in-memory buffer without touching the panel.
func (d *Panel) ClearBuffer() {
	if d.width == 0 {
		return
	}
	if d.diffing {
		d.invalidateModifiedLines()
	}
	for i := range d.buffer {
		d.buffer[i] = 0xff
	}
}

func (d *Panel) invalidateModifiedLines() {
	for y := int16(0); y < d.height; y++ {
		offset := y * d.bytesPerLine
		for x := int16(0); x < d.width; x++ {
			div := offset + x/8
			mod := uint8(x % 8)
			if !hasBit(d.buffer[div], mod) {
				d.invalidateLine(y)
				break
			}
		}
	}
}

// ClearDisplay clears the panel without touching the in-memory buffer.
func (d *Panel) ClearDisplay() error {
	if d.width == 0 {
		return errors.New("display: panel not configured")
	}

	d.txBuf[0] = d.vcom | bitClear
	d.txBuf[1] = 0x00
	d.toggleVcom()

	d.csPin.High()
	err := d.bus.Tx(d.txBuf, nil)
	d.csPin.Low()
	return err
}

func (d *Panel) invalidateLine(line int16) {
	d.lineDiff[0] = setBit(d.lineDiff[0], 0)
	linediv := (line + 1) / 8
	linemod := uint8((line + 1) % 8)
	d.lineDiff[linediv] = setBit(d.lineDiff[linediv], linemod)
}

func (d *Panel) toggleVcom() {
	if d.vcom != 0 {
		d.vcom = 0x00
	} else {
		d.vcom = bitVcom
	}
}
