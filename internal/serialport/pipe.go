// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package serialport

import (
	"os"
	"time"
)

// pipePort adapts a pair of already-open file descriptors (typically a
// forked child's stdin/stdout, or a named pipe pair) to Port. This
// resolves the source's old_main path, which wired fixed descriptors
// 3 and 4 as the channel for a forked-child configuration without
// documenting its relationship to the serial-port path (spec §9, open
// question): here it is an explicit alternate transport selected by
// the caller rather than implicit fixed-descriptor plumbing, and it has
// no physical line to BREAK.
type pipePort struct {
	r *os.File
	w *os.File
}

// OpenPipe wraps an already-open read and write file as a Port. Passing
// the same file for both supports a full-duplex device opened once by
// the caller.
func OpenPipe(r, w *os.File) Port {
	return &pipePort{r: r, w: w}
}

func (p *pipePort) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipePort) Write(b []byte) (int, error) { return p.w.Write(b) }

func (p *pipePort) Close() error {
	rerr := p.r.Close()
	if p.w != p.r {
		if werr := p.w.Close(); werr != nil && rerr == nil {
			rerr = werr
		}
	}
	return rerr
}

// SendBreak is a no-op for a pipe pair: there is no physical line to
// hold low. Callers using this transport are expected to skip the
// target-reset handshake entirely rather than rely on BREAK.
func (p *pipePort) SendBreak(_ time.Duration) error {
	return nil
}
