// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dispatch implements the opcode table (spec §4.6): one entry
// per opcode, each validating arity, calling into a collaborator
// (net, file, dir, sleep), and producing a status plus zero or more
// output items.
package dispatch

import (
	"code.hybscloud.com/hostbridge/internal/fsio"
	"code.hybscloud.com/hostbridge/internal/handle"
	"code.hybscloud.com/hostbridge/internal/hostlog"
	"code.hybscloud.com/hostbridge/internal/netio"
	"code.hybscloud.com/hostbridge/internal/wire"
)

// Context bundles everything a handler needs: the two handle tables
// (spec §4.5 "in a reimplementation they may share one generic table
// with a type tag" — realized here as two instantiations of the same
// generic Table), the socket registry, the allocator used to size every
// output item, and a logger for trace output. A session owns exactly
// one Context for its lifetime (spec §9 "Global mutable state... a
// reimplementation should move it into the session context").
type Context struct {
	Files *handle.Table[*fsio.File]
	Dirs  *handle.Table[*fsio.Dir]
	Net   *netio.Registry
	Alloc wire.Allocator
	Log   hostlog.Logger

	// Exited and ExitCode record EXIT's effect (spec §4.6 EXIT: "Record
	// exit code; transition to EXITED without emitting a reply"). The
	// session loop reads these after every dispatch.
	Exited   bool
	ExitCode int32
}

// NewContext builds a Context with fresh, empty handle tables and a
// socket registry, ready for one session.
func NewContext(net *netio.Registry, alloc wire.Allocator, log hostlog.Logger) *Context {
	return &Context{
		Files: &handle.Table[*fsio.File]{},
		Dirs:  &handle.Table[*fsio.Dir]{},
		Net:   net,
		Alloc: alloc,
		Log:   log,
	}
}
