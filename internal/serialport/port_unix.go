// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package serialport

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// unixPort is the POSIX backend (spec §4.8: "open with
// O_RDWR|O_NOCTTY|O_CLOEXEC|O_SYNC; apply raw-mode termios (8N1, no
// XON/XOFF, no RTS/CTS, no canonical processing, blocking reads with
// 0.5s inter-byte timeout, VMIN=1)").
type unixPort struct {
	f *os.File
}

// Open opens path as a raw serial device.
func Open(path string) (Port, error) {
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	if err := configure(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &unixPort{f: f}, nil
}

// configure applies the raw-mode termios settings the frontend requires
// regardless of the device's prior state.
func configure(f *os.File) error {
	fd := int(f.Fd())
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}

	t.Iflag &^= unix.IXON | unix.IXOFF | unix.IXANY | unix.ICRNL | unix.INLCR
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ICANON | unix.ECHO | unix.ECHOE | unix.ISIG
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CRTSCTS
	t.Cflag |= unix.CS8 | unix.CLOCAL | unix.CREAD

	// Blocking reads with a 0.5s inter-byte timeout: VMIN=1, VTIME=5
	// (tenths of a second) is the standard termios idiom for "return as
	// soon as one byte is available, but allow gaps up to 0.5s within a
	// read" (spec §4.8).
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 5

	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}

func (p *unixPort) Read(b []byte) (int, error)  { return p.f.Read(b) }
func (p *unixPort) Write(b []byte) (int, error) { return p.f.Write(b) }
func (p *unixPort) Close() error                { return p.f.Close() }

// SendBreak holds the line low for d using TIOCSBRK/TIOCCBRK (spec
// §4.8: "send a BREAK (250ms line-low) to reset the target").
func (p *unixPort) SendBreak(d time.Duration) error {
	fd := int(p.f.Fd())
	if err := unix.IoctlSetInt(fd, unix.TIOCSBRK, 0); err != nil {
		return err
	}
	time.Sleep(d)
	return unix.IoctlSetInt(fd, unix.TIOCCBRK, 0)
}
