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

// Package sdcard implements the homebrew SD card block device: DLDI driver
// patching and the two supported image backings, a raw 512-byte-sectored
// file and a FAT-on-host-directory image. Grounded on
// cartridgeloader/loader.go's file-vs-directory source abstraction, with
// wire semantics from melonDS's FATStorage.cpp/FATIO.cpp, retrieved as
// original_source.
package sdcard

import (
	"github.com/jetsetilly/ndscore/errors"
	"github.com/jetsetilly/ndscore/logger"
)

// SectorSize is the fixed sector size the command-port SD commands (0xC0
// read / 0xC1 write, per spec.md §6) transfer in.
const SectorSize = 512

// Image is the command port's view of the mounted SD card: a flat
// sector-addressed block device, whatever sits behind it.
type Image interface {
	ReadSectors(start, num uint32, data []byte) error
	WriteSectors(start, num uint32, data []byte) error
	SectorCount() uint32
}

// RawImage is an SD image backed by a single in-memory byte slice, matching
// the "raw 512-byte-sectored file" persisted-state format spec.md §6
// describes as the non-homebrew-development alternative to DirectoryStorage.
type RawImage struct {
	data []byte
}

// NewRawImage wraps data as a raw sectored image. len(data) should be a
// multiple of SectorSize; any remainder is inaccessible.
func NewRawImage(data []byte) *RawImage {
	return &RawImage{data: data}
}

func (r *RawImage) SectorCount() uint32 {
	return uint32(len(r.data) / SectorSize)
}

func (r *RawImage) ReadSectors(start, num uint32, data []byte) error {
	off := int(start) * SectorSize
	n := int(num) * SectorSize
	if off < 0 || off+n > len(r.data) {
		return errors.Errorf(errors.SDImageNotFound, start)
	}
	copy(data, r.data[off:off+n])
	return nil
}

func (r *RawImage) WriteSectors(start, num uint32, data []byte) error {
	off := int(start) * SectorSize
	n := int(num) * SectorSize
	if off < 0 || off+n > len(r.data) {
		return errors.Errorf(errors.SDImageNotFound, start)
	}
	copy(r.data[off:off+n], data[:n])
	logger.Logf("sdcard", "raw image: wrote %d sectors @ %d", num, start)
	return nil
}
