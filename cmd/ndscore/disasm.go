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

// newDisasmCmd traces the ARM9's execution and prints a disassembly line
// per instruction. There is no static disassembler here - armcore only
// publishes decode.Info for the instruction it just executed (CurrentInstr
// / LastInfo), so "disassembly" means tracing a live run rather than
// walking a ROM image offline.
func newDisasmCmd() *cobra.Command {
	var keyTablePath string
	var count int
	var core string

	cmd := &cobra.Command{
		Use:   "disasm <rom>",
		Short: "Trace execution, printing a disassembly line per instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := bootSystem(args[0], keyTablePath)
			if err != nil {
				return err
			}

			for i := 0; i < count; i++ {
				switch core {
				case "arm9":
					pc := sys.Arm9.Regs.RawPC()
					if err := sys.Arm9.Step(false); err != nil {
						return err
					}
					fmt.Println(disasm.FromCPU(sys.Arm9.CPU, pc).Format())
				case "arm7":
					pc := sys.Arm7.Regs.RawPC()
					if err := sys.Arm7.Step(false); err != nil {
						return err
					}
					fmt.Println(disasm.FromCPU(sys.Arm7.CPU, pc).Format())
				default:
					return fmt.Errorf("ndscore: unknown core %q, want arm9 or arm7", core)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&keyTablePath, "key-table", "", "path to a raw KEY1 table dump (optional)")
	cmd.Flags().IntVarP(&count, "count", "n", 50, "number of instructions to trace")
	cmd.Flags().StringVar(&core, "core", "arm9", "which core to trace: arm9 or arm7")

	return cmd
}
