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

package sdcard

import (
	"github.com/jetsetilly/ndscore/errors"
	"github.com/jetsetilly/ndscore/logger"
)

// dldiMagicNumber and dldiMagicString together form the twelve-byte
// signature spec.md §4.8 names: a 4-byte magic number followed by the
// 8-byte, nul-padded string "Chishm".
const dldiMagicNumber uint32 = 0xbf8da5ed

var dldiMagicString = [8]byte{'C', 'h', 'i', 's', 'h', 'm', 0, 0}

// DLDI header field offsets, relative to the signature's start. This layout
// (magic, version, driver/allocated size shifts, fix-section flags, a
// 48-byte friendly name, four relocatable address pairs, then an
// IO_INTERFACE function table) is the standard homebrew DLDI driver
// interface; it has no equivalent in the original_source pack since
// melonDS's fatfs glue is driven directly rather than through a patched
// driver blob.
const (
	dldiOffVersion     = 0x0c
	dldiOffDriverSize  = 0x0d // log2 of the driver's size in bytes
	dldiOffFixFlags    = 0x0e
	dldiOffAllocSize   = 0x0f // log2 of space reserved for the driver
	dldiOffFriendly    = 0x10
	dldiFriendlyLen    = 0x30
	dldiOffStart       = 0x40
	dldiOffEnd         = 0x44
	dldiOffInterworkS  = 0x48
	dldiOffInterworkE  = 0x4c
	dldiOffGOTStart    = 0x50
	dldiOffGOTEnd      = 0x54
	dldiOffBSSStart    = 0x58
	dldiOffBSSEnd      = 0x5c
	dldiOffIOType      = 0x60
	dldiOffFeatures    = 0x64
	dldiOffFnStartup   = 0x68
	dldiOffFnInserted  = 0x6c
	dldiOffFnReadSect  = 0x70
	dldiOffFnWriteSect = 0x74
	dldiOffFnClearStat = 0x78
	dldiOffFnShutdown  = 0x7c
	dldiHeaderSize     = 0x80
)

// fix-section flag bits, per the standard DLDI driver's fixSectionsFlags
// byte: which of the four relocatable ranges actually need their stored
// addresses rewritten.
const (
	dldiFixStart     = 1 << 0
	dldiFixInterwork = 1 << 1
	dldiFixGOT       = 1 << 2
	dldiFixBSSZero   = 1 << 3
)

// featureCanWrite is the IO_INTERFACE features bit a DLDI driver clears to
// advertise a read-only medium.
const featureCanWrite = 1 << 1

// FindSignature scans rom for the DLDI signature, returning the byte offset
// of the start of the driver slot (i.e. of the magic number itself), or an
// error wrapping errors.DLDISignatureNotFound.
func FindSignature(rom []byte) (int, error) {
	for i := 0; i+dldiHeaderSize <= len(rom); i++ {
		if le32(rom, i) != dldiMagicNumber {
			continue
		}
		if string(rom[i+4:i+12]) == string(dldiMagicString[:]) {
			return i, nil
		}
	}
	return 0, errors.Errorf(errors.DLDISignatureNotFound, len(rom))
}

// PatchDLDI relocates driver (a standard DLDI driver image, at least
// dldiHeaderSize bytes) into rom at the signature slot found by
// FindSignature, rewriting every address the fix-section flags mark as
// relocatable by the delta between the driver's own declared load address
// and its new home, then performs the same "fix" pass
// ApplyDLDIPatch/FixDriverSize do in the original: zero the unused tail of
// the reserved driver space, and rewrite the driver-size field to the
// smallest power-of-two container the patched driver actually needs.
//
// If readOnly is true, the CANWRITE feature bit is cleared so the patched
// driver's writeSectors entry point is never called by the loaded homebrew.
func PatchDLDI(rom []byte, driver []byte, readOnly bool) error {
	slot, err := FindSignature(rom)
	if err != nil {
		return err
	}

	allocSize := 1 << rom[slot+dldiOffAllocSize]
	if slot+allocSize > len(rom) {
		return errors.Errorf(errors.DLDISignatureNotFound, len(rom))
	}
	if len(driver) > allocSize {
		return errors.Errorf(errors.DLDISignatureNotFound, len(driver))
	}

	oldStart := le32(driver, dldiOffStart)
	newStart := uint32(slot)
	delta := newStart - oldStart

	patched := make([]byte, allocSize)
	copy(patched, driver)

	flags := patched[dldiOffFixFlags]
	if flags&dldiFixStart != 0 {
		relocate(patched, dldiOffStart, delta)
		relocate(patched, dldiOffEnd, delta)
	}
	if flags&dldiFixInterwork != 0 {
		relocate(patched, dldiOffInterworkS, delta)
		relocate(patched, dldiOffInterworkE, delta)
	}
	if flags&dldiFixGOT != 0 {
		relocate(patched, dldiOffGOTStart, delta)
		relocate(patched, dldiOffGOTEnd, delta)
	}
	if flags&dldiFixBSSZero != 0 {
		relocate(patched, dldiOffBSSStart, delta)
		relocate(patched, dldiOffBSSEnd, delta)
	}

	// the six direct function pointers always get relocated; they're not
	// gated by a fix flag in the standard driver layout.
	relocate(patched, dldiOffFnStartup, delta)
	relocate(patched, dldiOffFnInserted, delta)
	relocate(patched, dldiOffFnReadSect, delta)
	relocate(patched, dldiOffFnWriteSect, delta)
	relocate(patched, dldiOffFnClearStat, delta)
	relocate(patched, dldiOffFnShutdown, delta)

	if readOnly {
		features := le32(patched, dldiOffFeatures)
		features &^= featureCanWrite
		putLE32(patched, dldiOffFeatures, features)
	}

	// fix pass: shrink the declared driver size to the smallest power of
	// two that still covers the patched bytes, then zero everything past
	// that point within the reserved slot.
	size := driverSize(patched)
	shift := byte(0)
	for (1 << shift) < size {
		shift++
	}
	patched[dldiOffDriverSize] = shift
	for i := 1 << shift; i < len(patched); i++ {
		patched[i] = 0
	}

	copy(rom[slot:slot+allocSize], patched)
	logger.Logf("sdcard", "DLDI: patched driver at rom offset %#x (%d bytes, size shift %d)", slot, size, shift)
	return nil
}

// driverSize returns the highest relocatable end address recorded in the
// header, translated back to an offset within driver, as a lower bound on
// how many bytes of the slot are actually in use.
func driverSize(driver []byte) int {
	end := le32(driver, dldiOffEnd)
	start := le32(driver, dldiOffStart)
	if end <= start {
		return dldiHeaderSize
	}
	n := int(end - start)
	if n < dldiHeaderSize {
		n = dldiHeaderSize
	}
	return n
}

func relocate(buf []byte, off int, delta uint32) {
	v := le32(buf, off)
	if v == 0 {
		return
	}
	putLE32(buf, off, v+delta)
}

func le32(b []byte, off int) uint32 {
	return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
}

func putLE32(b []byte, off int, v uint32) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
	b[off+3] = byte(v >> 24)
}
