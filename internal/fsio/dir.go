// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fsio

import (
	"fmt"
	"io"
	"os"
)

// Dir wraps an open directory for DOPEN/DREAD/DCLOSE.
type Dir struct {
	f *os.File
}

// OpenDir opens path as a directory stream.
func OpenDir(path string) (*Dir, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("fsio: %s is not a directory", path)
	}
	return &Dir{f: f}, nil
}

// ReadName returns the next directory entry name, or "" at end-of-stream
// (spec §4.6 DREAD: "Returns empty string at end-of-directory (status
// 0)").
func (d *Dir) ReadName() (string, error) {
	names, err := d.f.Readdirnames(1)
	if err != nil {
		if err == io.EOF {
			return "", nil
		}
		return "", err
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}

// Close closes the directory stream.
func (d *Dir) Close() error {
	return d.f.Close()
}

// Kind values for STAT's output (spec §4.6 STAT: "type: u16").
const (
	KindNone uint16 = 0
	KindFile uint16 = 1
	KindDir  uint16 = 2
)

// Stat reports whether path is a regular file, a directory, or neither.
func Stat(path string) (uint16, error) {
	info, err := os.Stat(path)
	if err != nil {
		return KindNone, err
	}
	if info.IsDir() {
		return KindDir, nil
	}
	if info.Mode().IsRegular() {
		return KindFile, nil
	}
	return KindNone, nil
}
