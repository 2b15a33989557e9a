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

package bitstream_test

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"

	"github.com/kurokoma/eosd/bitstream"
)

// TestReadMatchesReadBit checks that Read(n) always equals n consecutive
// ReadBit calls packed most-significant-bit first, for arbitrary data and
// arbitrary bit-group sizes.
func TestReadMatchesReadBit(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 4, 64).Draw(t, "data")
		groups := rapid.SliceOfN(rapid.UintRange(1, 8), 1, 32).Draw(t, "groups")

		viaRead := bitstream.New(bytes.NewReader(data))
		viaBit := bitstream.New(bytes.NewReader(data))

		for _, n := range groups {
			want, err := viaRead.Read(n)
			if err != nil {
				return // ran out of bits; both readers would fail identically
			}
			var got uint32
			for i := uint(0); i < n; i++ {
				bit, err := viaBit.ReadBit()
				if err != nil {
					t.Fatalf("ReadBit failed where Read(%d) succeeded", n)
				}
				got <<= 1
				if bit {
					got |= 1
				}
			}
			if got != want {
				t.Fatalf("Read(%d) = %#x, want %#x from equivalent ReadBit calls", n, want, got)
			}
		}
	})
}

func TestSeekResetsPartialByte(t *testing.T) {
	data := []byte{0xFF, 0x00, 0xFF}
	r := bitstream.New(bytes.NewReader(data))

	if _, err := r.Read(4); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Seek(2, 0); err != nil {
		t.Fatal(err)
	}
	v, err := r.Read(8)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xFF {
		t.Fatalf("got %#x, want 0xff", v)
	}
}
