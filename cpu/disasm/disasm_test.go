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

package disasm_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/ndscore/cpu/decode"
	"github.com/jetsetilly/ndscore/cpu/disasm"
)

func TestFormatARMEncodingIsEightDigits(t *testing.T) {
	l := disasm.Line{
		Addr:  0x02000000,
		Instr: 0xe0812003, // ADD r2, r1, r3
		Thumb: false,
		Info: decode.Info{
			Kind:    decode.KindDataProcessing,
			SrcMask: decode.RegMask(1) | decode.RegMask(3),
			DstMask: decode.RegMask(2),
		},
	}

	got := l.Format()
	if !strings.HasPrefix(got, "02000000  e0812003  DP") {
		t.Fatalf("unexpected format prefix: %q", got)
	}
	if !strings.Contains(got, "src=r1,r3") {
		t.Errorf("expected src list r1,r3, got %q", got)
	}
	if !strings.Contains(got, "dst=r2") {
		t.Errorf("expected dst r2, got %q", got)
	}
}

func TestFormatThumbEncodingIsFourDigits(t *testing.T) {
	l := disasm.Line{
		Addr:  0x02000010,
		Instr: 0x1234abcd, // only the low 16 bits are a Thumb encoding
		Thumb: true,
		Info:  decode.Info{Kind: decode.KindBranch, EndOfBlock: true},
	}

	got := l.Format()
	if !strings.Contains(got, "abcd") {
		t.Errorf("expected 4-digit thumb encoding abcd, got %q", got)
	}
	if strings.Contains(got, "1234abcd") {
		t.Errorf("thumb encoding should be truncated to 16 bits, got %q", got)
	}
	if !strings.HasSuffix(got, "[eob]") {
		t.Errorf("expected end-of-block marker, got %q", got)
	}
}

func TestFormatUnknownKindFallsBackToQuestionMark(t *testing.T) {
	l := disasm.Line{Addr: 0, Instr: 0, Info: decode.Info{Kind: decode.Kind(0xff)}}
	got := l.Format()
	if !strings.Contains(got, "?") {
		t.Errorf("expected fallback '?' for unknown kind, got %q", got)
	}
}
