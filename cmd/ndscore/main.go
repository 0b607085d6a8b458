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

// Command ndscore is a headless command-line front end for the core: boot
// a ROM and run it for a fixed number of instructions, dump CP15 state, or
// disassemble what the ARM9 executes as it runs. Built on
// github.com/spf13/cobra in the same command-tree style as the reference
// corpus's z80opt tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jetsetilly/ndscore/cartridge"
)

func main() {
	root := &cobra.Command{
		Use:   "ndscore",
		Short: "ndscore - a Nintendo DS CPU execution core",
	}

	root.AddCommand(
		newBootCmd(),
		newStepCmd(),
		newCP15Cmd(),
		newDisasmCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadKeyTable reads the --key-table file shared by every subcommand that
// boots a System; it is a path to a raw 0x1048-byte KEY1 table dump rather than a BIOS image,
// since BIOS contents are out of scope (see cartridge.KeyBuf).
func loadKeyTable(path string) (cartridge.KeyBuf, error) {
	var kb cartridge.KeyBuf
	if path == "" {
		return kb, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return kb, fmt.Errorf("ndscore: %w", err)
	}
	if len(data) < len(kb)*4 {
		return kb, fmt.Errorf("ndscore: key table %s is too short", path)
	}
	for i := range kb {
		kb[i] = uint32(data[i*4]) | uint32(data[i*4+1])<<8 | uint32(data[i*4+2])<<16 | uint32(data[i*4+3])<<24
	}
	return kb, nil
}
