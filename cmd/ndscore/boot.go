// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jetsetilly/ndscore/cartridgeloader"
	"github.com/jetsetilly/ndscore/config"
	"github.com/jetsetilly/ndscore/diagnostics"
	"github.com/jetsetilly/ndscore/nds"
)

// bootSystem is shared by every subcommand that needs a running System:
// load config, load the ROM, build and boot the machine.
func bootSystem(romPath, keyTablePath string) (*nds.System, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	ld, err := cartridgeloader.NewLoaderFromFilename(romPath)
	if err != nil {
		return nil, err
	}
	defer ld.Close()

	kb, err := loadKeyTable(keyTablePath)
	if err != nil {
		return nil, err
	}

	sys, err := nds.New(ld, cfg, kb)
	if err != nil {
		return nil, err
	}

	if err := sys.Boot(); err != nil {
		return nil, err
	}

	return sys, nil
}

func newBootCmd() *cobra.Command {
	var keyTablePath string
	var stats bool
	var statsAddr string
	var steps int

	cmd := &cobra.Command{
		Use:   "boot <rom>",
		Short: "Boot a ROM and run it for a fixed number of instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := bootSystem(args[0], keyTablePath)
			if err != nil {
				return err
			}

			if stats {
				srv := diagnostics.Start(statsAddr)
				defer srv.Stop()
			}

			fmt.Printf("booted %q (%s)\n", sys.Header.GameCodeString(), string(sys.Header.Title[:]))

			for i := 0; i < steps; i++ {
				if err := sys.Step(); err != nil {
					return err
				}
			}

			fmt.Printf("ran %d steps\n", steps)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyTablePath, "key-table", "", "path to a raw KEY1 table dump (optional)")
	cmd.Flags().BoolVar(&stats, "stats", false, "serve a live runtime-statistics dashboard")
	cmd.Flags().StringVar(&statsAddr, "stats-addr", "localhost:18066", "address for the --stats dashboard")
	cmd.Flags().IntVarP(&steps, "steps", "n", 1000, "number of instructions to run before exiting")

	return cmd
}
