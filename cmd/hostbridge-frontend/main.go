// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command hostbridge-frontend is the host-side daemon that accepts
// serialized calls from an embedded target over a serial line or pipe
// pair and executes them against this host's networking, filesystem,
// and timing facilities (spec §1).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "hostbridge-frontend: "+format+"\n", args...)
}
