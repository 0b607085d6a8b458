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

package backup

// IRPassthrough stubs the infrared SPI peripheral some carts (e.g. Pokemon's
// Pal Pad-style titles) wire to the backup port instead of a save chip.
// Peripheral emulation is out of scope; it exists only so a cart that probes
// for one doesn't jam the command port.
type IRPassthrough struct{}

func (IRPassthrough) Select()            {}
func (IRPassthrough) Release()           {}
func (IRPassthrough) Transmit(byte) byte { return 0xff }

// Bluetooth stubs the handful of carts (Nintendo Wi-Fi USB, POKEWALKER
// link titles) that expose a Bluetooth module on the backup port. As with
// IRPassthrough, real peripheral behaviour is out of scope.
type Bluetooth struct{}

func (Bluetooth) Select()            {}
func (Bluetooth) Release()           {}
func (Bluetooth) Transmit(byte) byte { return 0xff }
