package smartdriver

// Constrain clamps value to [low, high], adapted from tmc2209.Constrain.
func Constrain(value, low, high uint32) uint32 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// Map rescales value from [fromLow, fromHigh] to [toLow, toHigh], adapted
// from tmc2209.Map.
func Map(value, fromLow, fromHigh, toLow, toHigh uint32) uint32 {
	return (value-fromLow)*(toHigh-toLow)/(fromHigh-fromLow) + toLow
}

// percentToIRunIHold maps a 0-100 percent to IHOLD_IRUN's 5-bit current
// field (0-31), unlike tmc2209.PercentToCurrentSetting which maps onto a
// full byte; IHOLD_IRUN has no wider range.
func percentToIRunIHold(percent uint8) uint32 {
	return Map(Constrain(uint32(percent), 0, 100), 0, 100, 0, 31)
}

// SetRunCurrent writes the driver's run current as a percentage of the
// 5-bit IHOLD_IRUN range, unlike the teacher's stubbed-out version which
// only computed the setting and left the register write as a comment.
func (drv *Driver) SetRunCurrent(percent uint8) error {
	drv.irun = percentToIRunIHold(percent)
	return drv.writeIholdIrun()
}

// SetHoldCurrent writes the driver's hold current the same way.
func (drv *Driver) SetHoldCurrent(percent uint8) error {
	drv.ihold = percentToIRunIHold(percent)
	return drv.writeIholdIrun()
}
