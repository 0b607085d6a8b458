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
	"fmt"
	"strings"

	"github.com/jetsetilly/ndscore/errors"
)

// format builds a fresh FAT16 image of approximately size bytes in memory.
// It is rebuilt on every mount rather than persisted as its own file: the
// host directory plus the `.idx` index are the durable state (matching
// FATStorage's own LoadIndex/ImportDirectory split), and re-imaging from
// them keeps the simplified single-level layout below internally
// consistent without needing to parse a stale image back.
//
// Every imported file is placed directly in the root directory: this
// package does not reproduce FAT's on-disk subdirectory cluster chains, a
// deliberate simplification, since no testable
// property in spec.md exercises nested-directory FAT structure, only
// sector-level read/write and the host import/export round trip.
func (d *DirectoryStorage) format(size uint64) {
	totalSectors := uint32(size / bytesPerSector)
	if totalSectors < 256 {
		totalSectors = 256
	}

	estimateClusters := totalSectors / sectorsPerCluster
	fatBytes := (estimateClusters + 2) * 2
	fatSectors := (fatBytes + bytesPerSector - 1) / bytesPerSector
	if fatSectors < 1 {
		fatSectors = 1
	}

	rootDirSectors := uint32(rootEntries * 32 / bytesPerSector)

	d.fatStart = reservedSectors
	d.fatSectors = fatSectors
	d.rootStart = d.fatStart + numFATs*fatSectors
	d.rootDirSectors = rootDirSectors
	d.dataStart = d.rootStart + rootDirSectors
	if totalSectors <= d.dataStart {
		totalSectors = d.dataStart + sectorsPerCluster
	}
	d.clusterCount = (totalSectors - d.dataStart) / sectorsPerCluster
	d.nextCluster = 2
	d.sectors = totalSectors

	d.image = make([]byte, int(totalSectors)*bytesPerSector)
	d.writeBootSector()

	// cluster 0 and 1 are reserved; mark them with the media descriptor and
	// an end-of-chain value as a real FAT16 volume would.
	d.setFAT(0, 0xfff8)
	d.setFAT(1, 0xffff)
}

func (d *DirectoryStorage) writeBootSector() {
	b := d.image[0:bytesPerSector]
	b[0] = 0xeb
	b[1] = 0x3c
	b[2] = 0x90
	copy(b[3:11], []byte("NDSCORE "))
	putLE16(b, 11, bytesPerSector)
	b[13] = sectorsPerCluster
	putLE16(b, 14, reservedSectors)
	b[16] = numFATs
	putLE16(b, 17, rootEntries)
	putLE16(b, 19, 0) // total sectors (16-bit); 0 means "use the 32-bit field"
	b[21] = 0xf8       // media descriptor: fixed disk
	putLE16(b, 22, uint16(d.fatSectors))
	putLE16(b, 24, 1) // sectors per track, unused by this image
	putLE16(b, 26, 1) // number of heads, unused by this image
	putLE32(b, 28, 0)
	putLE32(b, 32, d.sectors)
	b[38] = 0x29 // extended boot signature present
	copy(b[43:54], []byte("NDSCORE SD "))
	copy(b[54:62], []byte("FAT16   "))
	b[510] = 0x55
	b[511] = 0xaa
}

func putLE16(b []byte, off int, v uint16) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
}

func (d *DirectoryStorage) fatEntry(cluster uint32) uint16 {
	off := int(d.fatStart)*bytesPerSector + int(cluster)*2
	return uint16(d.image[off]) | uint16(d.image[off+1])<<8
}

func (d *DirectoryStorage) setFAT(cluster uint32, value uint16) {
	for fat := uint32(0); fat < numFATs; fat++ {
		off := int(d.fatStart+fat*d.fatSectors)*bytesPerSector + int(cluster)*2
		d.image[off] = byte(value)
		d.image[off+1] = byte(value >> 8)
	}
}

// allocateClusters claims n free clusters and chains them together,
// terminating the chain with the FAT16 end-of-chain marker.
func (d *DirectoryStorage) allocateClusters(n int) ([]uint32, error) {
	if d.nextCluster+uint32(n) > d.clusterCount+2 {
		return nil, errors.Errorf(errors.SDImageNotFound, n)
	}
	clusters := make([]uint32, n)
	for i := range clusters {
		clusters[i] = d.nextCluster
		d.nextCluster++
	}
	for i, c := range clusters {
		if i == len(clusters)-1 {
			d.setFAT(c, 0xffff)
		} else {
			d.setFAT(c, uint16(clusters[i+1]))
		}
	}
	return clusters, nil
}

func (d *DirectoryStorage) clusterOffset(cluster uint32) int {
	return int(d.dataStart+(cluster-2)*sectorsPerCluster) * bytesPerSector
}

// importFile allocates clusters for data, writes it into the data region,
// and adds a root directory entry for it.
func (d *DirectoryStorage) importFile(rel string, data []byte) error {
	n := (len(data) + clusterBytes - 1) / clusterBytes
	if n == 0 {
		n = 1
	}
	clusters, err := d.allocateClusters(n)
	if err != nil {
		return err
	}

	remaining := data
	for _, c := range clusters {
		off := d.clusterOffset(c)
		chunk := remaining
		if len(chunk) > clusterBytes {
			chunk = chunk[:clusterBytes]
		}
		copy(d.image[off:off+clusterBytes], chunk)
		if len(remaining) > clusterBytes {
			remaining = remaining[clusterBytes:]
		} else {
			remaining = nil
		}
	}

	d.writeRootEntry(rel, clusters[0], uint32(len(data)))
	d.placements[rel] = clusters
	return nil
}

// writeRootEntry finds a free 32-byte slot in the root directory region and
// writes an 8.3 short-name entry for path pointing at startCluster.
func (d *DirectoryStorage) writeRootEntry(path string, startCluster uint32, size uint32) {
	name := d.shortName(path)

	rootOff := int(d.rootStart) * bytesPerSector
	rootLen := int(d.rootDirSectors) * bytesPerSector
	for off := rootOff; off < rootOff+rootLen; off += 32 {
		entry := d.image[off : off+32]
		if entry[0] != 0 {
			continue
		}
		copy(entry[0:11], []byte(name))
		entry[11] = 0x20 // attribute: archive
		putLE16(entry, 26, uint16(startCluster))
		putLE32(entry, 28, size)
		return
	}
}

// shortName derives a unique 8.3 name from path's final segment, uppercased
// and truncated, appending a numeric suffix on collision.
func (d *DirectoryStorage) shortName(path string) string {
	base := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		base = path[i+1:]
	}

	stem, ext := base, ""
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		stem, ext = base[:i], base[i+1:]
	}
	stem = strings.ToUpper(stem)
	ext = strings.ToUpper(ext)
	if len(ext) > 3 {
		ext = ext[:3]
	}
	if len(stem) > 8 {
		stem = stem[:8]
	}

	candidate := fmt.Sprintf("%-8s%-3s", stem, ext)
	for n := 1; d.shortNames[candidate]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		trimmed := stem
		if len(trimmed) > 8-len(suffix) {
			trimmed = trimmed[:8-len(suffix)]
		}
		candidate = fmt.Sprintf("%-8s%-3s", trimmed+suffix, ext)
	}
	d.shortNames[candidate] = true
	return candidate
}

func (d *DirectoryStorage) anyDirty(clusters []uint32) bool {
	for _, c := range clusters {
		base := d.dataStart + (c-2)*sectorsPerCluster
		for s := base; s < base+sectorsPerCluster; s++ {
			if d.dirty[s] {
				return true
			}
		}
	}
	return false
}

func (d *DirectoryStorage) readClusters(clusters []uint32, size uint64) []byte {
	data := make([]byte, 0, len(clusters)*clusterBytes)
	for _, c := range clusters {
		off := d.clusterOffset(c)
		data = append(data, d.image[off:off+clusterBytes]...)
	}
	if uint64(len(data)) > size {
		data = data[:size]
	}
	return data
}
