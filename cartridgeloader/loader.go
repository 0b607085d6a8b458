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

package cartridgeloader

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/ndscore/logger"
)

// Loader abstracts the two ways an NDS ROM image reaches the emulator: a
// local file (by path, or already in memory via NewLoaderFromData) or an
// HTTP(S) URL.
type Loader struct {
	io.ReadSeeker

	// Name is a shortened, display-friendly form of Filename.
	Name string

	// Filename is the path or URL the ROM was loaded from. For data
	// loaded with NewLoaderFromData, it is the name argument that call
	// was given.
	Filename string

	// HashSHA1 and HashMD5 are populated once the ROM's bytes are
	// available, for use as a save-file key alongside the cartridge
	// header's own game code.
	HashSHA1 string
	HashMD5  string

	// Data is nil until Open is called, unless the Loader was created by
	// NewLoaderFromData. The pointer-to-slice indirection lets the
	// cartridge be reloaded through a Loader passed by value.
	Data *[]byte

	data *bytes.Buffer

	// embedded is true for Loaders created by NewLoaderFromData, whose
	// data never needs an Open call to become available.
	embedded bool
}

// NoFilename is returned when a Loader is created with an empty or
// whitespace-only filename.
var NoFilename = errors.New("no filename")

// NewLoaderFromFilename prepares a Loader for the ROM at filename. Open
// must be called before Data becomes available. Filenames can contain
// leading/trailing whitespace but cannot consist only of whitespace.
func NewLoaderFromFilename(filename string) (Loader, error) {
	if strings.TrimSpace(filename) == "" {
		return Loader{}, fmt.Errorf("cartridgeloader: %w", NoFilename)
	}

	abs, err := filepath.Abs(filename)
	if err == nil {
		filename = abs
	}

	data := make([]byte, 0)
	ld := Loader{Filename: filename, Data: &data}
	ld.Name = decideOnName(ld)

	return ld, nil
}

// NewLoaderFromData prepares a Loader over data already in memory, e.g.
// ROM bytes embedded with go:embed. The name argument should not include
// a file extension.
func NewLoaderFromData(name string, data []byte) (Loader, error) {
	if len(data) == 0 {
		return Loader{}, fmt.Errorf("cartridgeloader: embedded data is empty")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Loader{}, fmt.Errorf("cartridgeloader: no name for embedded data")
	}

	ld := Loader{
		Filename: name,
		Data:     &data,
		data:     bytes.NewBuffer(data),
		embedded: true,
		HashSHA1: fmt.Sprintf("%x", sha1.Sum(data)),
		HashMD5:  fmt.Sprintf("%x", md5.Sum(data)),
	}
	ld.Name = decideOnName(ld)

	return ld, nil
}

// Close satisfies io.Closer; embedded and file-backed loaders hold no
// resources that outlive Open, so this is always a no-op.
func (ld Loader) Close() error { return nil }

// Read implements io.Reader over whatever was loaded by Open.
func (ld Loader) Read(p []byte) (int, error) {
	if ld.data == nil {
		return 0, io.EOF
	}
	return ld.data.Read(p)
}

// Seek implements io.Seeker. It only supports seeking within data already
// read into memory, which is always the case once Open has returned.
func (ld Loader) Seek(offset int64, whence int) (int64, error) {
	if ld.Data == nil {
		return 0, nil
	}
	return bytes.NewReader(*ld.Data).Seek(offset, whence)
}

// Open loads the ROM's bytes into Data if they are not already there.
// Filenames with an http/https scheme are fetched over the network;
// anything else is treated as a local path.
func (ld *Loader) Open() error {
	if ld.embedded {
		return nil
	}

	if ld.Data != nil && len(*ld.Data) > 0 {
		return nil
	}

	scheme := "file"
	if u, err := url.Parse(ld.Filename); err == nil {
		scheme = u.Scheme
	}

	var err error
	switch scheme {
	case "http", "https":
		var resp *http.Response
		resp, err = http.Get(ld.Filename)
		if err != nil {
			return fmt.Errorf("cartridgeloader: %w", err)
		}
		defer resp.Body.Close()
		*ld.Data, err = io.ReadAll(resp.Body)
	default:
		var f *os.File
		f, err = os.Open(ld.Filename)
		if err != nil {
			return fmt.Errorf("cartridgeloader: %w", err)
		}
		defer f.Close()
		*ld.Data, err = io.ReadAll(f)
	}
	if err != nil {
		return fmt.Errorf("cartridgeloader: %w", err)
	}

	ld.data = bytes.NewBuffer(*ld.Data)

	hash := fmt.Sprintf("%x", sha1.Sum(*ld.Data))
	if ld.HashSHA1 != "" && ld.HashSHA1 != hash {
		return fmt.Errorf("cartridgeloader: unexpected SHA1 hash value")
	}
	ld.HashSHA1 = hash

	hash = fmt.Sprintf("%x", md5.Sum(*ld.Data))
	if ld.HashMD5 != "" && ld.HashMD5 != hash {
		return fmt.Errorf("cartridgeloader: unexpected MD5 hash value")
	}
	ld.HashMD5 = hash

	logger.Logf("cartridgeloader", "loaded %s (%d bytes)", ld.Filename, len(*ld.Data))

	return nil
}
