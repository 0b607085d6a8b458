// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the gnu general public license as published by
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

// Package cartridgeloader loads an NDS ROM image from a local path or an
// HTTP(S) URL, ready to be handed to cartridge.ParseHeader and
// cartridge.New. It knows nothing about header parsing or encryption
// modes; its job ends once the raw bytes and their hashes are available.
//
// # File Extensions
//
// ".NDS", ".SRL" and ".DSI" are recognised as NDS ROM images; see
// FileExtensions. Extensions are matched case-insensitively.
//
// # Hashes
//
// NewLoaderFromFilename and NewLoaderFromData both populate HashSHA1 and
// HashMD5 once the data is available, for use as a save-file key alongside
// the header's own game code.
package cartridgeloader
