// Package speedoverride debounces the analog speed-override potentiometer
// and maps its raw ADC reading onto the [10, 200] percent range the
// dispatcher applies to the feed rate (spec §3, §4.9 step 3), using the
// same narrow-Reader-plus-Clock debounce shape as the endstop package so
// it can be exercised off-target with a fake ADC.
package speedoverride

// Sampler reads a raw ADC value, matching machine.ADC's Get() uint16
// method so a machine.ADC can be passed directly.
type Sampler interface {
	Get() uint16
}

// Clock returns the current time in milliseconds.
type Clock interface {
	NowMs() uint32
}

const (
	minPercent = 10
	maxPercent = 200

	// settleMs is how long a reading must hold within hysteresisCounts of
	// the last raw sample that moved past the hysteresis band before it is
	// accepted, filtering ADC noise
	// the way endstop.Channel filters switch bounce.
	settleMs         = 50
	hysteresisCounts = 256 // out of 65535, ~0.4% of full scale
)

// Poller debounces one analog speed-override input.
type Poller struct {
	sampler Sampler
	clock   Clock

	lastRaw      uint16
	lastStableMs uint32
	reported     float32
	seeded       bool
}

// New builds a Poller. The current reading is sampled immediately so the
// first Poll does not report a spurious change against a zero-valued
// lastRaw.
func New(sampler Sampler, clock Clock) *Poller {
	p := &Poller{sampler: sampler, clock: clock}
	raw := sampler.Get()
	p.lastRaw = raw
	p.lastStableMs = clock.NowMs()
	p.reported = percentFromRaw(raw)
	p.seeded = true
	return p
}

// Poll samples the input and reports whether the debounced percent moved
// since the last call that returned changed=true.
func (p *Poller) Poll() (percent float32, changed bool) {
	raw := p.sampler.Get()
	now := p.clock.NowMs()

	if diff(raw, p.lastRaw) > hysteresisCounts {
		p.lastRaw = raw
		p.lastStableMs = now
	}

	if now-p.lastStableMs < settleMs {
		return p.reported, false
	}

	candidate := percentFromRaw(p.lastRaw)
	if candidate == p.reported {
		return p.reported, false
	}

	p.reported = candidate
	return p.reported, true
}

func diff(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}

// percentFromRaw maps a full-scale uint16 ADC reading onto [10, 200].
func percentFromRaw(raw uint16) float32 {
	pct := minPercent + float32(raw)*(maxPercent-minPercent)/65535
	if pct < minPercent {
		pct = minPercent
	}
	if pct > maxPercent {
		pct = maxPercent
	}
	return pct
}
