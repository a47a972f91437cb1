// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// config holds the flags of spec §2.3's expanded CLI
// (`frontend --port <device> [<arg>...]`).
type config struct {
	port    string
	baud    int
	noReset bool
	debug   bool
}

// newRootCmd builds the `hostbridge-frontend` command (spec §2.3):
// `--port` names a serial device path or, for the old_main fixed-
// descriptor configuration (spec §9 open question, resolved in
// SPEC_FULL.md §5.4), `pipe:<r-fd>,<w-fd>`. Remaining positional
// arguments are forwarded to the target as argv (spec §4.9).
func newRootCmd() *cobra.Command {
	cfg := &config{baud: 115200}

	cmd := &cobra.Command{
		Use:   "hostbridge-frontend --port <device> [-- <arg>...]",
		Short: "Host-side RPC frontend for an offloading target",
		Long: "hostbridge-frontend accepts serialized calls from an embedded\n" +
			"target over a serial line or pipe pair and executes them against\n" +
			"this host's networking, filesystem, and timing facilities.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.debug = os.Getenv("FRONTEND_DEBUG") != ""
			run(cfg, args)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.port, "port", "", "serial device path, or pipe:<r-fd>,<w-fd>")
	flags.IntVar(&cfg.baud, "baud", 115200, "serial line baud rate (accepted but not applied: the device keeps its current line speed)")
	flags.BoolVar(&cfg.noReset, "no-reset", false, "skip the BREAK and boot-settle delay (the argv handshake is still sent)")
	_ = cmd.MarkFlagRequired("port")

	return cmd
}

// parsePipePort recognizes "pipe:<r-fd>,<w-fd>" and returns the two
// descriptor numbers; ok is false for any other --port value.
func parsePipePort(port string) (rfd, wfd int, ok bool) {
	rest, found := strings.CutPrefix(port, "pipe:")
	if !found {
		return 0, 0, false
	}
	parts := strings.SplitN(rest, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	r, err1 := strconv.Atoi(parts[0])
	w, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return r, w, true
}
