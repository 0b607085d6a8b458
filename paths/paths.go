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

// Package paths resolves the on-disk locations the core reads and writes:
// the TOML configuration file, cartridge backup (save) files, and homebrew
// SD card images/indexes.
package paths

import (
	"path/filepath"
	"strings"
)

// baseDirectory is the relative directory name under which every resource
// path is rooted; it is not joined onto the home or any other directory.
const baseDirectory = ".ndscore"

// ResourcePath joins one or more path segments onto the base resource
// directory. Empty segments are dropped so that ResourcePath("", "baz") and
// ResourcePath("foo/bar", "") behave sensibly.
func ResourcePath(segments ...string) (string, error) {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, baseDirectory)
	for _, s := range segments {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return filepath.Join(parts...), nil
}

// SavePath returns the path of the backup (save) file for a cartridge with
// the given game code, e.g. "ADAE".
func SavePath(gameCode string) (string, error) {
	return ResourcePath("saves", gameCode+".sav")
}

// SDImagePath returns the path of the homebrew SD card image, or of the
// companion ".idx" index file when mounting a host directory (see
// sdcard.DirectoryStorage).
func SDImagePath(name string) (string, error) {
	return ResourcePath("sdcard", name)
}
