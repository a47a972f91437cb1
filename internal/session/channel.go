// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package session

import (
	"bufio"
	"fmt"
	"io"

	"code.hybscloud.com/hostbridge/internal/hostlog"
	"code.hybscloud.com/hostbridge/internal/wire"
)

// Channel is the blocking byte reader/writer over the target link (spec
// §4.1). Unlike the teacher's framer, which treats iox.ErrWouldBlock as
// a first-class control-flow signal for non-blocking transports, this
// protocol is purely blocking (spec §5): read_exact and write_all loop
// to completion or fail outright. The retry-until-complete shape is kept
// from the teacher's readOnce/writeOnce (internal.go); what's dropped is
// the would-block branch, since serial lines and pipes here are always
// opened in blocking mode.
type Channel struct {
	r       *bufio.Reader
	w       io.Writer
	log     hostlog.Logger
	scratch []byte // reused by DiscardExact to avoid a per-call allocation
}

// NewChannel wraps r/w (which may be the same full-duplex device) as a
// framed Channel. log receives resync trace output (spec §4.1).
func NewChannel(r io.Reader, w io.Writer, log hostlog.Logger) *Channel {
	if log == nil {
		log = hostlog.Nop
	}
	return &Channel{r: bufio.NewReader(r), w: w, log: log}
}

// ReadExact returns exactly n bytes or fails with wire.ErrChannelDead
// (spec §4.1 "read_exact(n) returns exactly n bytes or fails with
// RECEIVE").
func (c *Channel) ReadExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", wire.ErrChannelDead, err)
	}
	return buf, nil
}

// ReadInto fills buf completely from the channel, the push path's
// counterpart to ReadExact that reads into a buffer the caller already
// allocated (via the session's injectable Allocator) rather than one
// ReadExact would allocate itself.
func (c *Channel) ReadInto(buf []byte) error {
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return fmt.Errorf("%w: %v", wire.ErrChannelDead, err)
	}
	return nil
}

// DiscardExact reads and discards exactly n bytes, for the out-of-memory
// push path (spec §4.4: "consumes the corresponding payload bytes from
// the wire but discards them, preserving frame sync").
func (c *Channel) DiscardExact(n int) error {
	if cap(c.scratch) < n {
		c.scratch = make([]byte, n)
	}
	if _, err := io.ReadFull(c.r, c.scratch[:n]); err != nil {
		return fmt.Errorf("%w: %v", wire.ErrChannelDead, err)
	}
	return nil
}

// WriteAll loops until every byte of buf is accepted or fails with
// wire.ErrChannelDead (spec §4.1 "write_all(buf) loops until every byte
// is accepted or fails with SEND").
func (c *Channel) WriteAll(buf []byte) error {
	for len(buf) > 0 {
		n, err := c.w.Write(buf)
		if err != nil {
			return fmt.Errorf("%w: %v", wire.ErrChannelDead, err)
		}
		buf = buf[n:]
	}
	return nil
}

// Resync discards bytes until two consecutive '{' bytes have been seen
// (spec §4.1). Every discarded byte is forwarded to the trace log.
// Resync runs once, before the first frame of a session; after that, the
// protocol is self-delimiting and no further scanning happens.
func (c *Channel) Resync() error {
	consecutive := 0
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: %v", wire.ErrResyncFailed, err)
		}
		if b == '{' {
			consecutive++
			if consecutive == 2 {
				return nil
			}
			continue
		}
		if consecutive == 1 {
			// The prior '{' turned out not to start the sentinel.
			c.log.Tracef("resync: discard 0x7b")
		}
		c.log.Tracef("resync: discard 0x%02x", b)
		consecutive = 0
	}
}

// ReadHeader reads and decodes one 4-byte frame header. For PUSH/RESULT
// the caller still owes a ReadExact or DiscardExact of f.Length bytes;
// for EXECUTE there is no body. Splitting header and body this way (as
// opposed to an all-in-one ReadFrame) lets the session try allocating
// the payload buffer before deciding whether to read or discard it —
// the allocate-vs-discard fork the out-of-memory path needs (spec
// §4.7).
func (c *Channel) ReadHeader() (wire.Frame, error) {
	hdrBytes, err := c.ReadExact(wire.HeaderLen)
	if err != nil {
		return wire.Frame{}, err
	}
	var hdr [wire.HeaderLen]byte
	copy(hdr[:], hdrBytes)
	f, err := wire.DecodeHeader(hdr)
	if err != nil {
		// An unrecognized frame type this deep into a session means the
		// channel has lost byte alignment; treat it the same as any other
		// framing failure (spec §4.1: "no further synchronization is
		// attempted").
		return wire.Frame{}, fmt.Errorf("%w: %v", wire.ErrChannelDead, err)
	}
	if f.Type != wire.FrameExecute && f.Length > wire.MaxItemLength {
		return wire.Frame{}, fmt.Errorf("%w: frame length %d", wire.ErrTooLong, f.Length)
	}
	return f, nil
}

// WriteFrame writes f's header followed by payload (if any).
func (c *Channel) WriteFrame(f wire.Frame, payload []byte) error {
	hdr := wire.EncodeHeader(f)
	if err := c.WriteAll(hdr[:]); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	return c.WriteAll(payload)
}
