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

// Package nds wires the two CPU cores, the bus arbiter, CP15, the write
// buffers, and the cartridge/backup/SD subsystems into a single bootable
// machine. None of the lower packages know about each other's existence
// beyond the interfaces they already export (pipeline.Regions, pipeline.Bus,
// cartridge.NANDCommandHandler); this package is where the concrete address
// map and boot sequence that ties them together lives, in the same spirit
// as the teacher's hardware.VCS wiring its own television/riot/tia/CPU.
package nds

import (
	"github.com/jetsetilly/ndscore/backup"
	"github.com/jetsetilly/ndscore/cartridge"
	"github.com/jetsetilly/ndscore/cartridgeloader"
	"github.com/jetsetilly/ndscore/config"
	"github.com/jetsetilly/ndscore/cpu/arm7"
	"github.com/jetsetilly/ndscore/cpu/arm9"
	"github.com/jetsetilly/ndscore/cpu/decode"
	"github.com/jetsetilly/ndscore/errors"
	"github.com/jetsetilly/ndscore/logger"
	"github.com/jetsetilly/ndscore/memory/arbiter"
	"github.com/jetsetilly/ndscore/memory/cp15"
	"github.com/jetsetilly/ndscore/memory/pipeline"
	"github.com/jetsetilly/ndscore/memory/writebuffer"
	"github.com/jetsetilly/ndscore/sdcard"
)

// System is a complete, bootable NDS: both CPU cores, the shared arbiter,
// CP15 (ARM9 only), each core's write buffer and memory pipeline, and the
// cartridge slot.
type System struct {
	Config config.Config

	Arbiter *arbiter.Arbiter
	CP15    *cp15.CP15

	Arm9 *arm9.CPU
	Arm7 *arm7.CPU

	wb9, wb7 *writebuffer.Buffer
	mem9     *pipeline.Pipeline
	mem7     *pipeline.Pipeline

	ram, wram, vram *flatBus
	bios9, bios7    *flatBus
	romBus          *romBus

	CommandPort *cartridge.CommandPort
	Header      cartridge.Header
	Backup      backup.Chip
	NAND        *backup.NAND
	SD          *sdcard.DirectoryStorage

	rom []byte
}

// New builds a System from an already-loaded ROM image. cfg supplies the
// CP15 boot defaults and SD card mount options; see config.Default for
// what applies when the caller has no preferences file. keyTable is the
// KEY1 P-array/S-box table normally read out of the ARM7 BIOS; since BIOS
// contents are out of scope (see cartridge.KeyBuf's doc comment), callers
// without a BIOS image to extract one from should pass the zero value -
// KEY1 transitions will still occur, just without matching real hardware's
// cipher output.
func New(ld cartridgeloader.Loader, cfg config.Config, keyTable cartridge.KeyBuf) (*System, error) {
	if err := ld.Open(); err != nil {
		return nil, err
	}
	rom := *ld.Data

	header, err := cartridge.ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	s := &System{
		Config: cfg,
		rom:    rom,
		Header: header,

		Arbiter: arbiter.New(),
		CP15:    cp15.New(),

		ram:    newFlatBus(mainRAMSize),
		wram:   newFlatBus(sharedWRAMSize),
		vram:   newFlatBus(vramAllocSize),
		bios9:  newFlatBus(arm9BIOSSize),
		bios7:  newFlatBus(arm7BIOSSize),
		romBus: newROMBus(rom),
	}

	key1 := cartridge.NewKey1(keyTable)
	chipID := uint32(0x00001fc2)
	s.CommandPort = cartridge.New(rom, header, chipID, key1)

	s.wb9 = &writebuffer.Buffer{}
	s.wb7 = &writebuffer.Buffer{}

	regions9 := &regions{ram: s.ram, wram: s.wram, vram: s.vram, cartridge: s.romBus, bios9: s.bios9, bios7: s.bios7, isARM9: true}
	regions7 := &regions{ram: s.ram, wram: s.wram, vram: s.vram, cartridge: s.romBus, bios9: s.bios9, bios7: s.bios7, isARM9: false}

	s.mem9 = pipeline.New(arbiter.Core9, s.Arbiter, regions9, s.CP15, s.wb9, cfg.CP15.ITCMSize, cfg.CP15.DTCMSize)
	s.mem7 = pipeline.New(arbiter.Core7, s.Arbiter, regions7, nil, s.wb7, 0, 0)

	s.Arm9 = arm9.New(s.mem9, s.CP15)
	s.Arm7 = arm7.New(s.mem7)

	s.applyCP15Defaults()

	if cfg.SDCard.Directory != "" {
		sd, err := sdcard.NewDirectoryStorage(cfg.SDCard.Directory, 32*1024*1024, cfg.SDCard.ReadOnly)
		if err != nil {
			logger.Logf("nds", "sdcard mount failed, continuing without SD: %v", err)
		} else {
			s.SD = sd
		}
	}

	return s, nil
}

// applyCP15Defaults pushes config.CP15Defaults into CP15 the way the boot
// firmware would, via the same privileged Write path ops.go exposes to
// MRC/MCR - there is no backdoor struct-field path into CP15 from outside
// its own package.
func (s *System) applyCP15Defaults() {
	d := s.Config.CP15
	control := uint32(0)
	if d.HighVectors {
		control |= 1 << 13
	}
	_ = s.CP15.Write(cp15.OpControl, control, true, nil, nil)

	if d.ITCMSize > 0 {
		_ = s.CP15.Write(cp15.OpTCMSizeI, tcmSizeField(d.ITCMBase, d.ITCMSize), true, nil, nil)
	}
	if d.DTCMSize > 0 {
		_ = s.CP15.Write(cp15.OpTCMSizeD, tcmSizeField(d.DTCMBase, d.DTCMSize), true, nil, nil)
	}
}

// tcmSizeField packs a TCM base/size pair into the region-size register
// encoding ops.go's decodeSizeField expects: base in bits[31:12], a
// (log2(size)-1) field in bits[5:1], and the enable bit in bit 0.
func tcmSizeField(base, size uint32) uint32 {
	bits := uint32(0)
	for size > 2 {
		size >>= 1
		bits++
	}
	return (base &^ 0xfff) | (bits << 1) | 1
}

// Boot copies the ARM9 and ARM7 executable regions out of the ROM image
// into main RAM at their header-specified load addresses and sets each
// core's entry point, mirroring the work the NDS firmware's bootstrap does
// before handing control to the cartridge. Homebrew titles patched with a
// DLDI driver (see sdcard.PatchDLDI) are copied exactly the same way; the
// patch has already been applied to rom by the caller if wanted.
func (s *System) Boot() error {
	if err := s.copyExecutable(s.Header.ARM9ROMOffset, s.Header.ARM9Size, s.Header.ARM9RAMAddress); err != nil {
		return err
	}
	if err := s.copyExecutable(s.Header.ARM7ROMOffset, s.Header.ARM7Size, s.Header.ARM7RAMAddress); err != nil {
		return err
	}

	s.Arm9.Regs.WritePC(s.Header.ARM9Entry)
	s.Arm7.Regs.WritePC(s.Header.ARM7Entry)

	logger.Logf("nds", "booted %q: arm9 entry %#08x, arm7 entry %#08x", s.Header.GameCodeString(), s.Header.ARM9Entry, s.Header.ARM7Entry)
	return nil
}

func (s *System) copyExecutable(romOffset, size, ramAddr uint32) error {
	if size == 0 {
		return nil
	}
	if uint64(romOffset)+uint64(size) > uint64(len(s.rom)) {
		return errors.Errorf(errors.CartridgeHeaderInvalid, romOffset)
	}
	_, bus := s.regionsFor(ramAddr)
	for i := uint32(0); i < size; i += 4 {
		if i+4 > size {
			break
		}
		v := le32(s.rom[romOffset+i:])
		bus.Write32(ramAddr+i, v)
	}
	return nil
}

func (s *System) regionsFor(addr uint32) (arbiter.Region, pipeline.Bus) {
	r := &regions{ram: s.ram, wram: s.wram, vram: s.vram, cartridge: s.romBus, bios9: s.bios9, bios7: s.bios7, isARM9: true}
	return r.Classify(addr)
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// AttachBackup installs a save-data chip of the given kind, loading its
// contents from data (the caller reads paths.SavePath beforehand; an empty
// or undersized slice is treated by the Chip implementations as blank
// memory). NAND-backed carts are attached through AttachNAND instead,
// since the NAND protocol routes through the command port rather than SPI.
func (s *System) AttachBackup(kind backup.Kind, data []byte) error {
	chip, err := backup.New(kind, data)
	if err != nil {
		return err
	}
	s.Backup = chip
	return nil
}

// AttachNAND installs a NAND backup chip and wires it into the command
// port so that once KEY2 mode is reached, NAND's own command set (routed
// through the cart slot rather than SPI) takes over command handling.
func (s *System) AttachNAND(data []byte, base uint32) {
	s.NAND = backup.NewNAND(data, base)
	s.CommandPort.AttachNAND(s.NAND)
}

// Step advances both cores by one instruction each, ARM9 first, matching
// the teacher's single-goroutine scheduling style: there is no per-core
// goroutine, just a driving loop that interleaves the two in lockstep.
func (s *System) Step() error {
	if err := s.Arm9.Step(false); err != nil {
		return err
	}
	if err := s.Arm7.Step(false); err != nil {
		return err
	}
	return nil
}

// LastARM9Kind reports the instruction family the ARM9 core most recently
// executed, for diagnostics/disassembly callers that don't want to reach
// into the CPU's decode.Info field directly.
func (s *System) LastARM9Kind() decode.Kind { return s.Arm9.LastInfo.Kind }
