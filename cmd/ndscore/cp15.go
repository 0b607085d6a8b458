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

	"github.com/jetsetilly/ndscore/monitor"
)

func newCP15Cmd() *cobra.Command {
	var keyTablePath string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "cp15 <rom>",
		Short: "Boot a ROM and dump its ARM9 CP15 state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := bootSystem(args[0], keyTablePath)
			if err != nil {
				return err
			}

			c := sys.CP15
			fmt.Printf("control: mpu=%v icache=%v dcache=%v high-vectors=%v\n",
				c.Control.MPUEnable, c.Control.ICacheEnable, c.Control.DCacheEnable, c.Control.HighVectors)
			fmt.Printf("itcm: base=%#08x\n", c.ITCMBase())
			fmt.Printf("dtcm: base=%#08x\n", c.DTCMBase())
			for i, r := range c.Regions {
				if !r.Enabled {
					continue
				}
				fmt.Printf("region %d: base=%#08x size=%#x data=%v code=%v cacheable=%v bufferable=%v\n",
					i, r.Base, r.Size, r.DataAccess, r.CodeAccess, r.Cacheable, r.Bufferable)
			}

			if interactive {
				mon, err := monitor.Open(c)
				if err != nil {
					return err
				}
				defer mon.Close()
				return mon.Run()
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&keyTablePath, "key-table", "", "path to a raw KEY1 table dump (optional)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open an interactive cache-tag monitor session")

	return cmd
}
