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

package regfile

// Mode is the processor mode encoded in the bottom five bits of CPSR.
type Mode uint32

// the seven ARM processor modes. the bit patterns are architectural.
const (
	ModeUSR Mode = 0b10000
	ModeFIQ Mode = 0b10001
	ModeIRQ Mode = 0b10010
	ModeSVC Mode = 0b10011
	ModeABT Mode = 0b10111
	ModeUND Mode = 0b11011
	ModeSYS Mode = 0b11111
)

// CPSR bit positions.
const (
	bitN = 31
	bitZ = 30
	bitC = 29
	bitV = 28
	bitQ = 27
	bitI = 7
	bitF = 6
	bitT = 5
)

// FlagQ is the sticky saturation flag CPSR bit, set by QADD/QSUB/QDADD/
// QDSUB and by the SMLAxy/SMLAWy family on signed overflow. ARMv4T has no
// such instructions and never reads or sets it.
const FlagQ uint32 = 1 << bitQ

func bit(v uint32, n uint) bool {
	return v&(1<<n) != 0
}

func setBit(v uint32, n uint, set bool) uint32 {
	if set {
		return v | (1 << n)
	}
	return v &^ (1 << n)
}

// Negative reports the N flag.
func Negative(cpsr uint32) bool { return bit(cpsr, bitN) }

// Zero reports the Z flag.
func Zero(cpsr uint32) bool { return bit(cpsr, bitZ) }

// Carry reports the C flag.
func Carry(cpsr uint32) bool { return bit(cpsr, bitC) }

// Overflow reports the V flag.
func Overflow(cpsr uint32) bool { return bit(cpsr, bitV) }

// IRQDisable reports the I flag (IRQs masked when set).
func IRQDisable(cpsr uint32) bool { return bit(cpsr, bitI) }

// FIQDisable reports the F flag (FIQs masked when set).
func FIQDisable(cpsr uint32) bool { return bit(cpsr, bitF) }

// Thumb reports the T flag (THUMB decode when set).
func Thumb(cpsr uint32) bool { return bit(cpsr, bitT) }

// ModeOf extracts the mode field.
func ModeOf(cpsr uint32) Mode { return Mode(cpsr & 0x1f) }

// SetFlags returns cpsr with N/Z/C/V replaced.
func SetFlags(cpsr uint32, n, z, c, v bool) uint32 {
	cpsr = setBit(cpsr, bitN, n)
	cpsr = setBit(cpsr, bitZ, z)
	cpsr = setBit(cpsr, bitC, c)
	cpsr = setBit(cpsr, bitV, v)
	return cpsr
}

// SetMode returns cpsr with the mode field replaced.
func SetMode(cpsr uint32, m Mode) uint32 {
	return (cpsr &^ 0x1f) | uint32(m)
}

// SetThumb returns cpsr with the T bit replaced.
func SetThumb(cpsr uint32, t bool) uint32 {
	return setBit(cpsr, bitT, t)
}

// SetIRQDisable returns cpsr with the I bit replaced.
func SetIRQDisable(cpsr uint32, set bool) uint32 {
	return setBit(cpsr, bitI, set)
}

// SetFIQDisable returns cpsr with the F bit replaced.
func SetFIQDisable(cpsr uint32, set bool) uint32 {
	return setBit(cpsr, bitF, set)
}

// Condition evaluates one of the sixteen ARM/THUMB condition codes against
// the N/Z/C/V flags packed into cpsr. cond 0b1111 ("always"/NV on ARMv5) is
// handled by the caller, since its meaning depends on the instruction set
// and architecture version.
func Condition(cpsr uint32, cond uint8) bool {
	n, z, c, v := Negative(cpsr), Zero(cpsr), Carry(cpsr), Overflow(cpsr)
	switch cond {
	case 0b0000: // EQ
		return z
	case 0b0001: // NE
		return !z
	case 0b0010: // CS/HS
		return c
	case 0b0011: // CC/LO
		return !c
	case 0b0100: // MI
		return n
	case 0b0101: // PL
		return !n
	case 0b0110: // VS
		return v
	case 0b0111: // VC
		return !v
	case 0b1000: // HI
		return c && !z
	case 0b1001: // LS
		return !c || z
	case 0b1010: // GE
		return n == v
	case 0b1011: // LT
		return n != v
	case 0b1100: // GT
		return !z && n == v
	case 0b1101: // LE
		return z || n != v
	case 0b1110: // AL
		return true
	}
	return false
}
