// This file is part of eosd.
//
// eosd is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// eosd is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with eosd.  If not, see <https://www.gnu.org/licenses/>.

package lzss_test

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"

	"github.com/kurokoma/eosd/bitstream"
	"github.com/kurokoma/eosd/lzss"
)

// TestDecompressNeverPanics feeds arbitrary compressed bit patterns through
// Decompress: a corrupt or truncated stream must surface as an error
// (typically io.EOF or LZSSOverrun), never a panic or an infinite loop.
func TestDecompressNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 256).Draw(t, "data")
		size := rapid.IntRange(0, 512).Draw(t, "size")

		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Decompress panicked on %d bytes, size=%d: %v", len(data), size, r)
			}
		}()
		br := bitstream.New(bytes.NewReader(data))
		_, _ = lzss.Decompress(br, size, lzss.PBG3Params)
	})
}

func TestDecompressZeroSize(t *testing.T) {
	br := bitstream.New(bytes.NewReader(nil))
	got, err := lzss.Decompress(br, 0, lzss.PBG3Params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 bytes, got %d", len(got))
	}
}
