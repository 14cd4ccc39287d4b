// Package queue implements the bounded single-producer,
// single-consumer command ring of spec §4.7.
package queue

import "github.com/deviverr/penplotter/command"

// Capacity is the fixed ring size (spec §3 "8 slots").
const Capacity = 8

// Queue is a fixed-capacity ring buffer of ParsedCommand. It has exactly
// one producer (the serial line assembler, or the file reader between
// commands) and exactly one consumer (the dispatcher); each side only
// ever touches disjoint slots, so no locking is needed on a
// single-threaded cooperative scheduler (spec §5).
type Queue struct {
	slots      [Capacity]command.ParsedCommand
	head, tail int
	count      int
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Push enqueues cmd, returning false if the queue is full (the caller is
// expected to report a buffer-overflow error and drop the command, per
// spec §4.7/§4.8).
func (q *Queue) Push(cmd command.ParsedCommand) bool {
	if q.count == Capacity {
		return false
	}
	q.slots[q.tail] = cmd
	q.tail = (q.tail + 1) % Capacity
	q.count++
	return true
}

// Pop dequeues the oldest command into *cmd, returning false if the
// queue is empty.
func (q *Queue) Pop(cmd *command.ParsedCommand) bool {
	if q.count == 0 {
		return false
	}
	*cmd = q.slots[q.head]
	q.head = (q.head + 1) % Capacity
	q.count--
	return true
}

// IsFull reports whether the queue currently holds Capacity entries.
func (q *Queue) IsFull() bool { return q.count == Capacity }

// IsEmpty reports whether the queue currently holds zero entries.
func (q *Queue) IsEmpty() bool { return q.count == 0 }

// Size returns the number of entries currently queued.
func (q *Queue) Size() int { return q.count }

// Drain discards every queued command, used by Stop/QuickStop (spec
// §4.9).
func (q *Queue) Drain() {
	q.head, q.tail, q.count = 0, 0, 0
}
