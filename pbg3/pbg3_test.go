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

package pbg3_test

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"

	"github.com/kurokoma/eosd/pbg3"
)

// TestOpenNeverPanics feeds arbitrary byte slices to Open: a file that isn't
// a PBG3 archive, or a truncated one, must come back as an error.
func TestOpenNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 512).Draw(t, "data")
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Open panicked on %d bytes: %v", len(data), r)
			}
		}()
		_, _ = pbg3.Open(bytes.NewReader(data))
	})
}

func TestOpenBadMagicIsError(t *testing.T) {
	if _, err := pbg3.Open(bytes.NewReader([]byte("XXXXmore"))); err == nil {
		t.Fatalf("expected an error for a non-PBG3 file")
	}
}

// TestGetFileUnknownName checks that requesting a file not present in the
// entry table fails cleanly rather than reading garbage from offset 0.
func TestGetFileUnknownName(t *testing.T) {
	archive, err := buildMinimalArchive()
	if err != nil {
		t.Fatalf("buildMinimalArchive: %v", err)
	}
	if _, err := archive.GetFile("nonexistent.dat", false); err == nil {
		t.Fatalf("expected an error for an unknown file name")
	}
}

// buildMinimalArchive opens an archive with a zero-entry table: enough to
// exercise GetFile's not-found path without needing real PBG3 asset bytes.
//
// Bytes 4-6 are two packed variable-width integers (2-bit size selector plus
// (selector+1)*8 value bits, MSB first, not byte-aligned): nb_entries=0
// (selector 0, value 0) immediately followed by table_offset=8 (selector 0,
// value 8). Laid out bit by bit that is 00 00000000 00 00001000, which packs
// into the three bytes 0x00 0x00 0x80; byte 7 pads the file out to the
// table_offset so the trailing Seek lands exactly at EOF.
func buildMinimalArchive() (*pbg3.Archive, error) {
	data := []byte{'P', 'B', 'G', '3', 0x00, 0x00, 0x80, 0x00}
	return pbg3.Open(bytes.NewReader(data))
}
