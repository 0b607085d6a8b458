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

	"github.com/jetsetilly/ndscore/cpu/disasm"
)

func newStepCmd() *cobra.Command {
	var keyTablePath string
	var count int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "step <rom>",
		Short: "Boot a ROM and single-step the ARM9 core, printing each instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := bootSystem(args[0], keyTablePath)
			if err != nil {
				return err
			}

			for i := 0; i < count; i++ {
				pc := sys.Arm9.Regs.RawPC()
				if err := sys.Arm9.Step(false); err != nil {
					return err
				}
				if verbose {
					fmt.Println(disasm.FromCPU(sys.Arm9.CPU, pc).Format())
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&keyTablePath, "key-table", "", "path to a raw KEY1 table dump (optional)")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of instructions to step")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", true, "print each instruction as it executes")

	return cmd
}
