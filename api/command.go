package emucore

import (
	"errors"
	"sync"
)

// Command is an instruction delivered to the core's command intake.
type Command interface {
	isCommand()
}

// ButtonState carries an optional mouse button reading.
type ButtonState int

const (
	ButtonUnchanged ButtonState = iota
	ButtonReleased
	ButtonPressed
)

// RunCommand starts emulation.
type RunCommand struct{}

// MouseRelativeCommand moves the mouse by a delta and optionally reports
// the button state.
type MouseRelativeCommand struct {
	DX, DY int16
	Button ButtonState
}

// MouseAbsoluteCommand moves the mouse to an absolute position.
type MouseAbsoluteCommand struct {
	X, Y uint16
}

// KeyCommand reports a key transition.
type KeyCommand struct {
	Scancode uint8
	Pressed  bool
	Keymap   Keymap
}

// SpeedCommand changes the emulation speed mode.
type SpeedCommand struct {
	Speed Speed
}

func (RunCommand) isCommand()           {}
func (MouseRelativeCommand) isCommand() {}
func (MouseAbsoluteCommand) isCommand() {}
func (KeyCommand) isCommand()           {}
func (SpeedCommand) isCommand()         {}

// CommandSender delivers commands to the core without blocking.
type CommandSender interface {
	Send(cmd Command) error
}

// ErrCommandQueueClosed is returned when sending to a closed queue.
var ErrCommandQueueClosed = errors.New("command queue closed")

// ErrCommandQueueFull is returned when the queue has no free capacity.
var ErrCommandQueueFull = errors.New("command queue full")

// CommandQueue is a bounded CommandSender that cores can use as their
// intake. Sending after Close reports ErrCommandQueueClosed instead of
// panicking.
type CommandQueue struct {
	mu     sync.Mutex
	ch     chan Command
	closed bool
}

// NewCommandQueue creates a queue holding up to capacity commands.
func NewCommandQueue(capacity int) *CommandQueue {
	return &CommandQueue{ch: make(chan Command, capacity)}
}

// Send enqueues cmd without blocking.
func (q *CommandQueue) Send(cmd Command) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrCommandQueueClosed
	}
	select {
	case q.ch <- cmd:
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// Receive returns the channel the core drains commands from. It is closed
// by Close.
func (q *CommandQueue) Receive() <-chan Command {
	return q.ch
}

// Close stops accepting commands. Commands already queued remain readable.
func (q *CommandQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
