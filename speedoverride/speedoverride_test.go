package speedoverride

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

type fakeSampler struct{ v uint16 }

func (f *fakeSampler) Get() uint16 { return f.v }

type fakeClock struct{ ms uint32 }

func (f *fakeClock) NowMs() uint32 { return f.ms }

func Test_seededPollDoesNotReportChange(t *testing.T) {
	c := qt.New(t)
	sampler := &fakeSampler{v: 0}
	clock := &fakeClock{}
	p := New(sampler, clock)

	clock.ms += settleMs
	_, changed := p.Poll()
	c.Assert(changed, qt.IsFalse)
}

func Test_largeSwingReportsChangeAfterSettling(t *testing.T) {
	c := qt.New(t)
	sampler := &fakeSampler{v: 0}
	clock := &fakeClock{}
	p := New(sampler, clock)

	sampler.v = 65535
	_, changed := p.Poll() // not yet settled
	c.Assert(changed, qt.IsFalse)

	clock.ms += settleMs
	pct, changed := p.Poll()
	c.Assert(changed, qt.IsTrue)
	c.Assert(pct, qt.Equals, float32(maxPercent))
}

func Test_percentClampedToConfiguredRange(t *testing.T) {
	c := qt.New(t)
	c.Assert(percentFromRaw(0), qt.Equals, float32(minPercent))
	c.Assert(percentFromRaw(65535), qt.Equals, float32(maxPercent))
}

func Test_smallJitterDoesNotResettleWindow(t *testing.T) {
	c := qt.New(t)
	sampler := &fakeSampler{v: 30000}
	clock := &fakeClock{}
	p := New(sampler, clock)

	clock.ms += settleMs
	_, _ = p.Poll()

	sampler.v = 30010 // well within hysteresis
	clock.ms += settleMs
	_, changed := p.Poll()
	c.Assert(changed, qt.IsFalse)
}
