package parser

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/deviverr/penplotter/command"
)

func Test_emptyLineIsUnknown(t *testing.T) {
	c := qt.New(t)
	c.Assert(Parse("").Kind, qt.Equals, command.Unknown)
	c.Assert(Parse("   ").Kind, qt.Equals, command.Unknown)
	c.Assert(Parse("; just a comment").Kind, qt.Equals, command.Unknown)
}

func Test_moveWithAllAxesAndFeed(t *testing.T) {
	c := qt.New(t)
	p := Parse("g0 x10 y-5.5 z=2 f3000")
	c.Assert(p.Kind, qt.Equals, command.Move)
	c.Assert(p.Move.X, qt.Equals, command.Some(10))
	c.Assert(p.Move.Y, qt.Equals, command.Some(-5.5))
	c.Assert(p.Move.Z, qt.Equals, command.Some(2))
	c.Assert(p.Move.F, qt.Equals, command.Some(3000))
}

func Test_moveStripsComment(t *testing.T) {
	c := qt.New(t)
	p := Parse("G1 X10 ; move over")
	c.Assert(p.Kind, qt.Equals, command.Move)
	c.Assert(p.Move.X, qt.Equals, command.Some(10))
	c.Assert(p.Move.Y.Present, qt.IsFalse)
}

func Test_homeNoAxesMeansAll(t *testing.T) {
	c := qt.New(t)
	p := Parse("G28")
	c.Assert(p.Kind, qt.Equals, command.Home)
	c.Assert(p.Home.All, qt.IsTrue)
}

func Test_homeNamedAxes(t *testing.T) {
	c := qt.New(t)
	p := Parse("G28 X Y")
	c.Assert(p.Kind, qt.Equals, command.Home)
	c.Assert(p.Home.All, qt.IsFalse)
	c.Assert(p.Home.X, qt.IsTrue)
	c.Assert(p.Home.Y, qt.IsTrue)
	c.Assert(p.Home.Z, qt.IsFalse)
}

func Test_disableSteppersOptionalS(t *testing.T) {
	c := qt.New(t)
	p := Parse("M84")
	c.Assert(p.Kind, qt.Equals, command.DisableSteppers)
	c.Assert(p.DisableSteppers.S.Present, qt.IsFalse)

	p = Parse("M84 S0")
	c.Assert(p.DisableSteppers.S, qt.Equals, command.Some(0))
}

func Test_diagnosticMotorDefaultsToZ(t *testing.T) {
	c := qt.New(t)
	p := Parse("M999")
	c.Assert(p.Kind, qt.Equals, command.DiagnosticMotor)
	c.Assert(p.DiagnosticMotor.Axis, qt.Equals, byte('Z'))

	p = Parse("M999 X")
	c.Assert(p.DiagnosticMotor.Axis, qt.Equals, byte('X'))
}

func Test_malformedArgumentIsUnknown(t *testing.T) {
	c := qt.New(t)
	p := Parse("G0 XABC")
	c.Assert(p.Kind, qt.Equals, command.Unknown)
}

func Test_unrecognizedWordIsUnknown(t *testing.T) {
	c := qt.New(t)
	c.Assert(Parse("G7").Kind, qt.Equals, command.Unknown)
	c.Assert(Parse("FOO").Kind, qt.Equals, command.Unknown)
}
