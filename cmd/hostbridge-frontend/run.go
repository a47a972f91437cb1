// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"code.hybscloud.com/hostbridge/internal/dispatch"
	"code.hybscloud.com/hostbridge/internal/hostlog"
	"code.hybscloud.com/hostbridge/internal/netio"
	"code.hybscloud.com/hostbridge/internal/serialport"
	"code.hybscloud.com/hostbridge/internal/session"
	"code.hybscloud.com/hostbridge/internal/wire"
)

// run opens the configured transport, performs the target-reset
// handshake (spec §4.8–4.9), then drives one session to completion and
// exits the process with the target's requested code, or 1 if the
// session died instead of exiting cleanly (spec §6: "Exit code 0 on
// clean EXIT from the target; otherwise the last error code").
func run(cfg *config, argv []string) {
	log := hostlog.NewStdout(cfg.debug)

	port, err := openTransport(cfg)
	if err != nil {
		fail("open %s: %v", cfg.port, err)
		os.Exit(1)
	}
	defer port.Close()

	if !cfg.noReset {
		if err := serialport.Reset(port); err != nil {
			fail("reset target: %v", err)
			os.Exit(1)
		}
	}
	// send_args ignores the return value of its writes in the original
	// (spec §9 open question, preserved per SPEC_FULL.md §5.1): a
	// handshake write failure is logged but does not stop the session
	// from starting; the first protocol read on a truly dead channel
	// fails and transitions to DEAD on its own.
	if err := serialport.SendArgv(port, argv); err != nil {
		log.Warnf("argv handshake write failed: %v", err)
	}

	ch := session.NewChannel(port, port, log)
	ctx := dispatch.NewContext(&netio.Registry{}, wire.DefaultAllocator, log)
	sess := session.New(ch, ctx, log)

	code, err := sess.Run()
	if err != nil {
		log.Errorf("session ended: %v", err)
		os.Exit(1)
	}
	os.Exit(int(code))
}

// openTransport resolves --port into a serialport.Port: either a real
// serial device, or the pipe:<r-fd>,<w-fd> alternate transport (spec
// §9 open question 4, resolved in SPEC_FULL.md §5.4).
func openTransport(cfg *config) (serialport.Port, error) {
	if rfd, wfd, ok := parsePipePort(cfg.port); ok {
		r := os.NewFile(uintptr(rfd), "pipe-r")
		w := os.NewFile(uintptr(wfd), "pipe-w")
		return serialport.OpenPipe(r, w), nil
	}
	return serialport.Open(cfg.port)
}
