package display

import "image/color"

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

// FillRect draws a solid w x h black rectangle with its top-left corner
// at (x, y).
func (d *Panel) FillRect(x, y, w, h int16) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			d.SetPixel(col, row, black)
		}
	}
}

// ClearRect draws a solid w x h white (blank) rectangle, used to erase a
// region before redrawing it.
func (d *Panel) ClearRect(x, y, w, h int16) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			d.SetPixel(col, row, white)
		}
	}
}

// Rect draws a w x h rectangle outline, one pixel thick.
func (d *Panel) Rect(x, y, w, h int16) {
	for col := x; col < x+w; col++ {
		d.SetPixel(col, y, black)
		d.SetPixel(col, y+h-1, black)
	}
	for row := y; row < y+h; row++ {
		d.SetPixel(x, row, black)
		d.SetPixel(x+w-1, row, black)
	}
}

// ProgressBar draws a bordered bar at (x, y) of size w x h, filled from
// the left according to percent (clamped to [0, 100]).
func (d *Panel) ProgressBar(x, y, w, h int16, percent float32) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	d.Rect(x, y, w, h)

	inset := int16(2)
	innerW := w - 2*inset
	innerH := h - 2*inset
	if innerW <= 0 || innerH <= 0 {
		return
	}

	filled := int16(float32(innerW) * percent / 100)
	d.ClearRect(x+inset, y+inset, innerW, innerH)
	if filled > 0 {
		d.FillRect(x+inset, y+inset, filled, innerH)
	}
}

// Bitmap draws a packed 1bpp bitmap (MSB-first per row, rows padded to a
// byte boundary, matching a common raster export format) at (x, y). It
// never decodes glyphs or fonts; the caller supplies a pre-rendered
// bitmap such as the plotter icon shown on the idle screen.
func (d *Panel) Bitmap(x, y, w, h int16, bits []byte) {
	stride := ceilDiv(w, 8)
	for row := int16(0); row < h; row++ {
		for col := int16(0); col < w; col++ {
			byteIdx := row*stride + col/8
			if int(byteIdx) >= len(bits) {
				continue
			}
			bit := hasBit(bits[byteIdx], uint8(7-col%8))
			if bit {
				d.SetPixel(x+col, y+row, black)
			}
		}
	}
}
