// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fsio implements the filesystem collaborator the dispatcher's
// FOPEN/FREAD/FGETS/FWRITE/FCLOSE/FSEEK/FTELL/FERROR/DOPEN/DREAD/DCLOSE/
// STAT opcodes call into (spec §1: "opaque providers of
// fopen/fread/fwrite/fseek/ftell/ferror/fclose" and
// "opendir/readdir/closedir/stat").
package fsio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
)

// File wraps an *os.File with the sticky last-error latch FERROR needs.
// Go's os.File has no equivalent of libc's per-stream ferror flag, so
// File records the most recent I/O error itself (spec §4.6 FERROR:
// "Returns host ferror as the status word").
type File struct {
	f       *os.File
	lastErr error
}

// Open maps a C-style fopen mode string ("r", "w", "a", "r+", "w+",
// "a+", each optionally suffixed with "b") onto os.OpenFile flags.
func Open(mode, path string) (*File, error) {
	flag, err := parseMode(mode)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

func parseMode(mode string) (int, error) {
	switch strings.TrimSuffix(mode, "b") {
	case "r":
		return os.O_RDONLY, nil
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	case "r+":
		return os.O_RDWR, nil
	case "w+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, nil
	case "a+":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, nil
	default:
		return 0, fmt.Errorf("fsio: unknown mode %q", mode)
	}
}

// ReadInto fills buf from the current file position, stopping early only
// at EOF (fread semantics: a short read at end-of-file is not itself an
// error).
func (fh *File) ReadInto(buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := fh.f.Read(buf[total:])
		total += n
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			fh.lastErr = err
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// ReadLine reads up to maxSize-1 bytes, stopping at the first newline
// (inclusive) or EOF, and appends a trailing NUL — fgets semantics (spec
// §4.6 FGETS: "resized to strlen+1").
func (fh *File) ReadLine(maxSize int) ([]byte, error) {
	if maxSize <= 0 {
		return []byte{0}, nil
	}
	line := make([]byte, 0, maxSize)
	var one [1]byte
	for len(line) < maxSize-1 {
		n, err := fh.f.Read(one[:])
		if n > 0 {
			line = append(line, one[0])
			if one[0] == '\n' {
				break
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			fh.lastErr = err
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return append(line, 0), nil
}

// Write writes data at the current file position.
func (fh *File) Write(data []byte) (int, error) {
	n, err := fh.f.Write(data)
	if err != nil {
		fh.lastErr = err
	}
	return n, err
}

// Seek constants mirror the protocol's SET/CUR/END whence values (spec
// §4.6 FSEEK: "whence mapped from protocol constants {SET,CUR,END} to
// host constants").
const (
	SeekSet = 0
	SeekCur = 1
	SeekEnd = 2
)

// Whence maps a protocol whence value to an io.Seek* constant, reporting
// ok=false for anything else (spec: "any other value fails BAD_OUTPUT").
func Whence(proto uint32) (int, bool) {
	switch proto {
	case SeekSet:
		return io.SeekStart, true
	case SeekCur:
		return io.SeekCurrent, true
	case SeekEnd:
		return io.SeekEnd, true
	default:
		return 0, false
	}
}

// Seek repositions the file and returns the new absolute offset.
func (fh *File) Seek(offset int64, whence int) (int64, error) {
	pos, err := fh.f.Seek(offset, whence)
	if err != nil {
		fh.lastErr = err
	}
	return pos, err
}

// Tell returns the current file position.
func (fh *File) Tell() (int64, error) {
	return fh.f.Seek(0, io.SeekCurrent)
}

// LastErrno reports the sticky ferror condition as a host errno when one
// is available, or 1 for a generic unclassified error, or 0 when no I/O
// error has been recorded yet (spec §4.6 FERROR).
func (fh *File) LastErrno() uint32 {
	if fh.lastErr == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(fh.lastErr, &errno) {
		return uint32(errno)
	}
	return 1
}

// Close closes the underlying file.
func (fh *File) Close() error {
	return fh.f.Close()
}
