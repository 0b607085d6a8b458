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

package errors

// list of curated error message heads, grouped by subsystem. these are the
// values passed as the first argument to Errorf and compared against by Is
// and Has.
const (
	// CPU dispatch
	UndefinedInstruction  = "undefined instruction: %v"
	UnimplementedOpcode   = "unimplemented opcode: %v"
	UnpredictableEncoding = "unpredictable encoding: %v"

	// CP15 system control coprocessor
	CP15PrivilegeViolation = "cp15: privileged access required: %v"
	CP15UnknownOperation   = "cp15: unknown operation id: %v"
	CP15RegionMisaligned   = "cp15: region base is not aligned to its size: %v"

	// memory pipeline
	DataAbort        = "data abort: %v"
	PrefetchAbort    = "prefetch abort: %v"
	UnmappedAddress  = "unmapped address: %v"
	MisalignedAccess = "misaligned access: %v"

	// write buffer
	WriteBufferFull = "write buffer full: %v"

	// cartridge command port / backup / SD
	CartridgeCommandUnknown = "cartridge: unknown command: %v"
	CartridgeHeaderInvalid  = "cartridge: invalid header: %v"
	BackupUnsupportedChip   = "backup: unsupported chip type: %v"
	SDImageNotFound         = "sdcard: image not found: %v"
	SDIndexCorrupt          = "sdcard: index file is corrupt: %v"
	DLDISignatureNotFound   = "sdcard: no DLDI signature found in ROM: %v"

	// host I/O errors are never surfaced as emulated exceptions, just logged
	HostFileError = "host file error: %v"
)
