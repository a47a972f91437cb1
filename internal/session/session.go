// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package session implements the channel lifecycle state machine and
// pull loop (spec §4.7): one session owns one Channel and one dispatch
// Context for the duration of a single target conversation.
package session

import (
	"code.hybscloud.com/hostbridge/internal/dispatch"
	"code.hybscloud.com/hostbridge/internal/hostlog"
	"code.hybscloud.com/hostbridge/internal/stack"
	"code.hybscloud.com/hostbridge/internal/wire"
)

// State is one of the four channel-lifecycle states (spec §4.7).
type State int

const (
	// StateOK is the initial state and the steady state between calls.
	StateOK State = iota
	// StateOutOfMemory is entered when a PUSH cannot allocate; it is
	// scoped to exactly one following EXECUTE.
	StateOutOfMemory
	// StateDead is terminal: any channel read or write failure lands here.
	StateDead
	// StateExited is terminal: the target issued EXIT.
	StateExited
)

func (s State) String() string {
	switch s {
	case StateOK:
		return "OK"
	case StateOutOfMemory:
		return "OUT_OF_MEMORY"
	case StateDead:
		return "DEAD"
	case StateExited:
		return "EXITED"
	default:
		return "UNKNOWN"
	}
}

// Session is one end-to-end conversation over one Channel, from the
// first resynchronized frame to EXIT or DEAD.
type Session struct {
	ch    *Channel
	ctx   *dispatch.Context
	stack stack.Stack
	state State
	log   hostlog.Logger
}

// New builds a Session ready to Run. ctx must not be shared with any
// other Session (spec §5: "No shared state across sessions").
func New(ch *Channel, ctx *dispatch.Context, log hostlog.Logger) *Session {
	if log == nil {
		log = hostlog.Nop
	}
	return &Session{ch: ch, ctx: ctx, log: log}
}

// State reports the session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Run performs startup resynchronization and then the pull loop until
// the session reaches DEAD or EXITED (spec §2: "the loop exits on
// EXITED or DEAD"). It returns the exit code the target requested and a
// non-nil error only when the session died rather than exiting cleanly.
func (s *Session) Run() (exitCode int32, err error) {
	if rerr := s.ch.Resync(); rerr != nil {
		s.state = StateDead
		return 0, rerr
	}

	for s.state == StateOK || s.state == StateOutOfMemory {
		f, rerr := s.ch.ReadHeader()
		if rerr != nil {
			s.state = StateDead
			break
		}
		switch f.Type {
		case wire.FramePush:
			s.handlePush(f)
		case wire.FrameExecute:
			s.handleExecute(f)
		default:
			// RESULT or anything else arriving inbound is a protocol
			// violation this deep into a session; there is no recovery
			// short of resynchronization, which only runs at startup.
			s.log.Warnf("session: unexpected inbound frame type %v", f.Type)
			s.state = StateDead
		}
	}

	if s.state == StateExited {
		return s.ctx.ExitCode, nil
	}
	return 0, wire.ErrChannelDead
}

// handlePush implements the PUSH transitions of spec §4.7: in OK it
// allocates and stores the item, falling to OUT_OF_MEMORY (while still
// consuming the payload bytes) on allocation failure; in OUT_OF_MEMORY
// it keeps draining payloads without allocating.
func (s *Session) handlePush(f wire.Frame) {
	if s.state == StateOutOfMemory {
		if err := s.ch.DiscardExact(int(f.Length)); err != nil {
			s.state = StateDead
		}
		return
	}

	buf, err := s.ctx.Alloc(int(f.Length))
	if err != nil {
		if derr := s.ch.DiscardExact(int(f.Length)); derr != nil {
			s.state = StateDead
			return
		}
		s.log.Debugf("session: push alloc failed for %d bytes, entering OUT_OF_MEMORY", f.Length)
		s.state = StateOutOfMemory
		return
	}
	if err := s.ch.ReadInto(buf); err != nil {
		s.state = StateDead
		return
	}
	s.stack.Push(buf)
}

// handleExecute implements the EXECUTE transitions of spec §4.7. In
// OUT_OF_MEMORY it replies ALLOC_FAILED without dispatching and returns
// to OK. In OK it reads the declared arity off the stack, dispatches,
// and replies with the status followed by any outputs — unless the
// opcode was EXIT, which never emits a reply.
func (s *Session) handleExecute(f wire.Frame) {
	if s.state == StateOutOfMemory {
		if err := s.writeStatus(wire.StatusAllocFailed); err != nil {
			s.state = StateDead
			return
		}
		s.stack.DiscardAll()
		s.state = StateOK
		return
	}

	arity := wire.Arity(f.Opcode)
	inputs, ok := s.stack.Inputs(arity)

	var outputs [][]byte
	status := wire.StatusBadInput
	if ok {
		outputs, status = dispatch.Dispatch(s.ctx, f.Opcode, inputs)
		if status != wire.StatusOK {
			s.log.Debugf("session: %s failed: %v", dispatch.Name(f.Opcode), status)
		}
		if status == wire.StatusOK {
			for _, out := range outputs {
				if len(out) > wire.MaxItemLength {
					status = wire.StatusUnsupportedOutput
					outputs = nil
					break
				}
			}
		}
	}
	s.stack.DiscardAll()

	if s.ctx.Exited {
		s.state = StateExited
		return
	}

	if err := s.writeStatus(status); err != nil {
		s.state = StateDead
		return
	}
	if status != wire.StatusOK {
		return
	}
	for _, out := range outputs {
		rf := wire.Frame{Type: wire.FrameResult, Length: uint32(len(out))}
		if err := s.ch.WriteFrame(rf, out); err != nil {
			s.state = StateDead
			return
		}
	}
}

func (s *Session) writeStatus(status wire.Status) error {
	rf := wire.Frame{Type: wire.FrameResult, Length: 4}
	return s.ch.WriteFrame(rf, wire.PutU32(uint32(status)))
}
