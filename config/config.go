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

// Package config loads and saves the core's user-facing preferences. The
// file format is TOML, following the same dependency the two ARM-emulator
// repositories in our reference corpus both settled on.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/jetsetilly/ndscore/logger"
	"github.com/jetsetilly/ndscore/paths"
)

// CP15Defaults mirrors the boot-time defaults applied to CP15 before the
// firmware/bootstrap has a chance to configure it itself.
type CP15Defaults struct {
	HighVectors bool `toml:"high_vectors"`
	ITCMBase    uint32 `toml:"itcm_base"`
	ITCMSize    uint32 `toml:"itcm_size"`
	DTCMBase    uint32 `toml:"dtcm_base"`
	DTCMSize    uint32 `toml:"dtcm_size"`
}

// Cartridge overrides how a cartridge's encryption/command behaviour is
// selected, for titles the automatic fingerprinting gets wrong.
type Cartridge struct {
	ForceEncryptionMode int `toml:"force_encryption_mode"`
}

// SDCard selects how the homebrew SD slot is backed.
type SDCard struct {
	// Directory, when non-empty, mounts a host directory tree (see the
	// sdcard package's DirectoryStorage) instead of a raw sectored image
	// file.
	Directory string `toml:"directory"`
	ReadOnly  bool   `toml:"read_only"`
}

// Config is the top-level preferences document.
type Config struct {
	CP15      CP15Defaults `toml:"cp15"`
	Cartridge Cartridge    `toml:"cartridge"`
	SDCard    SDCard       `toml:"sdcard"`
}

// Default returns the preferences the core boots with when no configuration
// file is present.
func Default() Config {
	return Config{
		CP15: CP15Defaults{
			HighVectors: false,
			ITCMBase:    0,
			ITCMSize:    32 * 1024,
			DTCMBase:    0x00800000,
			DTCMSize:    16 * 1024,
		},
	}
}

// Load reads the TOML configuration file at the default resource path. A
// missing file is not an error: Default() is returned instead, matching the
// "substitute with benign defaults" policy for host-side errors in §7.
func Load() (Config, error) {
	pth, err := paths.ResourcePath("ndscore.toml")
	if err != nil {
		return Default(), err
	}

	cfg := Default()
	if _, err := os.Stat(pth); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(pth, &cfg); err != nil {
		logger.Logf("config", "failed to decode %s, using defaults: %v", pth, err)
		return Default(), nil
	}
	return cfg, nil
}

// Save writes cfg to the default resource path, creating the containing
// directory if necessary.
func Save(cfg Config) error {
	pth, err := paths.ResourcePath("ndscore.toml")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dirOf(pth), 0o755); err != nil {
		return err
	}

	f, err := os.Create(pth)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func dirOf(pth string) string {
	for i := len(pth) - 1; i >= 0; i-- {
		if pth[i] == '/' {
			return pth[:i]
		}
	}
	return "."
}
