package queue

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/deviverr/penplotter/command"
)

func Test_boundAtCapacity(t *testing.T) {
	c := qt.New(t)
	q := New()

	for i := 0; i < Capacity; i++ {
		c.Assert(q.Push(command.ParsedCommand{Kind: command.QueryPosition}), qt.IsTrue)
	}
	c.Assert(q.IsFull(), qt.IsTrue)
	c.Assert(q.Push(command.ParsedCommand{Kind: command.QueryPosition}), qt.IsFalse)
	c.Assert(q.Size(), qt.Equals, Capacity)
}

func Test_fifoOrder(t *testing.T) {
	c := qt.New(t)
	q := New()

	q.Push(command.ParsedCommand{Kind: command.QueryPosition})
	q.Push(command.ParsedCommand{Kind: command.QueryFirmware})

	var out command.ParsedCommand
	c.Assert(q.Pop(&out), qt.IsTrue)
	c.Assert(out.Kind, qt.Equals, command.QueryPosition)
	c.Assert(q.Pop(&out), qt.IsTrue)
	c.Assert(out.Kind, qt.Equals, command.QueryFirmware)
	c.Assert(q.Pop(&out), qt.IsFalse)
}

func Test_drainEmpties(t *testing.T) {
	c := qt.New(t)
	q := New()
	q.Push(command.ParsedCommand{Kind: command.Stop})
	q.Drain()
	c.Assert(q.IsEmpty(), qt.IsTrue)
}

func Test_wrapsAroundRing(t *testing.T) {
	c := qt.New(t)
	q := New()
	var out command.ParsedCommand

	for i := 0; i < Capacity*3; i++ {
		c.Assert(q.Push(command.ParsedCommand{Kind: command.Pause}), qt.IsTrue)
		c.Assert(q.Pop(&out), qt.IsTrue)
	}
	c.Assert(q.IsEmpty(), qt.IsTrue)
}
