// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package serialport implements the cross-platform serial-line setup
// and target-reset handshake the frontend performs before handing a
// channel to a session (spec §4.8, §4.9).
//
// The POSIX and Windows backends share no code beyond the Port
// interface (spec §9 "Cross-platform serial... The POSIX and Windows
// paths share no code beyond this interface"); each lives in its own
// build-tagged file.
package serialport

import (
	"fmt"
	"io"
	"time"
)

// Port is the capability every backend exposes: open, configure line
// parameters, emit a BREAK, and stream bytes (spec §9).
type Port interface {
	io.ReadWriteCloser
	// SendBreak holds the line low for d, used to reset the target
	// before a session begins (spec §4.8: "send a BREAK (250 ms
	// line-low) to reset the target").
	SendBreak(d time.Duration) error
}

// BreakDuration is how long the reset BREAK holds the line low (spec
// §4.8: "250 ms line-low").
const BreakDuration = 250 * time.Millisecond

// BootSettleDelay is how long the frontend waits after BREAK for the
// target's boot loader to settle (spec §4.8: "sleeps 2 s").
const BootSettleDelay = 2 * time.Second

// Handshake is the magic string the frontend writes to signal that argv
// forwarding follows (spec §4.8, §4.9).
const Handshake = "mbed{{"

// Reset sends BREAK on p, then waits for BootSettleDelay before
// returning, so the caller can proceed straight to writing Handshake
// and the forwarded argv.
func Reset(p Port) error {
	if err := p.SendBreak(BreakDuration); err != nil {
		return fmt.Errorf("serialport: send break: %w", err)
	}
	time.Sleep(BootSettleDelay)
	return nil
}

// SendArgv writes the handshake, a 4-byte big-endian argument-byte-count,
// and the concatenated NUL-terminated argv strings (spec §4.9). It does
// not distinguish a partial write from a failed one, mirroring the
// source's send_args, which the spec records as an open ambiguity (spec
// §9 "send_args ignores the return value of its writes").
func SendArgv(w io.Writer, argv []string) error {
	if _, err := io.WriteString(w, Handshake); err != nil {
		return err
	}
	var payload []byte
	for _, a := range argv {
		payload = append(payload, a...)
		payload = append(payload, 0)
	}
	count := uint32(len(payload))
	lenBytes := []byte{byte(count >> 24), byte(count >> 16), byte(count >> 8), byte(count)}
	if _, err := w.Write(lenBytes); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := w.Write(payload)
	return err
}
