// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build windows

package serialport

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// windowsPort is the Windows backend (spec §4.8: "CreateFile with
// GENERIC_READ|GENERIC_WRITE, then set DCB to 8N1, no flow control, no
// parity"). x/sys/windows wraps CreateFile/ReadFile/WriteFile but not
// the serial-specific DCB APIs, so those are resolved directly off
// kernel32 the way the ecosystem's own serial libraries do.
type windowsPort struct {
	h windows.Handle
}

var (
	modkernel32      = windows.NewLazySystemDLL("kernel32.dll")
	procGetCommState = modkernel32.NewProc("GetCommState")
	procSetCommState = modkernel32.NewProc("SetCommState")
	procSetCommBreak = modkernel32.NewProc("SetCommBreak")
	procClearCommBrk = modkernel32.NewProc("ClearCommBreak")
)

// dcb mirrors the Win32 DCB structure's layout. The bitfield byte after
// BaudRate packs binary/parity/outx-cts/outx-dsr/dtr-control/etc flags;
// only the bits this frontend cares about (parity checking, tx/rx flow
// control) are named, the remainder left as reserved padding.
type dcb struct {
	DCBlength  uint32
	BaudRate   uint32
	Bits       uint32 // packed 1-bit and 2-bit flags (fBinary..fDummy2)
	WReserved  uint16
	XonLim     uint16
	XoffLim    uint16
	ByteSize   byte
	Parity     byte
	StopBits   byte
	XonChar    byte
	XoffChar   byte
	ErrorChar  byte
	EofChar    byte
	EvtChar    byte
	WReserved1 uint16
}

const (
	dcbFBinary           = 1 << 0
	dcbFParity           = 1 << 1
	dcbFOutxCtsFlow      = 1 << 2
	dcbFOutxDsrFlow      = 1 << 3
	dcbFDtrControl       = 0x3 << 4
	dcbFDsrSensitivity   = 1 << 6
	dcbFTXContinueOnXoff = 1 << 7
	dcbFOutX             = 1 << 8
	dcbFInX              = 1 << 9
	dcbFErrorChar        = 1 << 10
	dcbFNull             = 1 << 11
	dcbFRtsControl       = 0x3 << 12
	dcbFAbortOnError     = 1 << 14
)

const (
	noParity   = 0
	oneStopBit = 0
)

// Open opens path (e.g. `\\.\COM3`) as a raw serial device.
func Open(path string) (Port, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	h, err := windows.CreateFile(p,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0, nil, windows.OPEN_EXISTING, windows.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		return nil, err
	}
	if err := configure(h); err != nil {
		_ = windows.CloseHandle(h)
		return nil, err
	}
	return &windowsPort{h: h}, nil
}

func configure(h windows.Handle) error {
	var d dcb
	d.DCBlength = uint32(unsafe.Sizeof(d))
	r, _, err := procGetCommState.Call(uintptr(h), uintptr(unsafe.Pointer(&d)))
	if r == 0 {
		return fmt.Errorf("serialport: GetCommState: %w", err)
	}

	d.ByteSize = 8
	d.Parity = noParity
	d.StopBits = oneStopBit
	d.Bits &^= dcbFParity | dcbFOutxCtsFlow | dcbFOutxDsrFlow | dcbFOutX | dcbFInX | dcbFRtsControl

	r, _, err = procSetCommState.Call(uintptr(h), uintptr(unsafe.Pointer(&d)))
	if r == 0 {
		return fmt.Errorf("serialport: SetCommState: %w", err)
	}
	return nil
}

func (p *windowsPort) Read(b []byte) (int, error) {
	var n uint32
	err := windows.ReadFile(p.h, b, &n, nil)
	return int(n), err
}

func (p *windowsPort) Write(b []byte) (int, error) {
	var n uint32
	err := windows.WriteFile(p.h, b, &n, nil)
	return int(n), err
}

func (p *windowsPort) Close() error { return windows.CloseHandle(p.h) }

// SendBreak holds the line low for d via SetCommBreak/ClearCommBreak
// (spec §4.8).
func (p *windowsPort) SendBreak(d time.Duration) error {
	if r, _, err := procSetCommBreak.Call(uintptr(p.h)); r == 0 {
		return err
	}
	time.Sleep(d)
	if r, _, err := procClearCommBrk.Call(uintptr(p.h)); r == 0 {
		return err
	}
	return nil
}
