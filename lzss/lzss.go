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

// Package lzss decompresses the sliding-window LZSS streams used as PBG3
// archive entry payloads. The window parameters (dictionary size, offset and
// length field widths, minimum match length) are not fixed by the format and
// must be supplied by the caller.
package lzss

import (
	"github.com/kurokoma/eosd/bitstream"
	"github.com/kurokoma/eosd/errors"
)

// Params bundles the window parameters for one decompression run.
type Params struct {
	DictionarySize     int
	OffsetBits         uint
	LengthBits         uint
	MinimumMatchLength int
}

// PBG3Params is the window PBG3 archives use for their compressed entries.
var PBG3Params = Params{
	DictionarySize:     8192,
	OffsetBits:         13,
	LengthBits:         4,
	MinimumMatchLength: 3,
}

// Decompress reads size decompressed bytes from br according to p.
//
// The dictionary head starts at index 1, not 0: index 0 holds a zero byte
// until the head first wraps around the dictionary, so an early zero-offset
// backreference copies zeros. This mirrors the reference decoder exactly and
// is load-bearing for matching its output byte for byte.
func Decompress(br *bitstream.Reader, size int, p Params) ([]byte, error) {
	data := make([]byte, size)
	dictionary := make([]byte, p.DictionarySize)
	dictionaryHead := 1
	ptr := 0

	for ptr < size {
		flag, err := br.ReadBit()
		if err != nil {
			return nil, err
		}
		if flag {
			v, err := br.Read(8)
			if err != nil {
				return nil, err
			}
			b := byte(v)
			dictionary[dictionaryHead] = b
			dictionaryHead = (dictionaryHead + 1) % p.DictionarySize
			data[ptr] = b
			ptr++
			continue
		}

		offset, err := br.Read(p.OffsetBits)
		if err != nil {
			return nil, err
		}
		lengthField, err := br.Read(p.LengthBits)
		if err != nil {
			return nil, err
		}
		length := int(lengthField) + p.MinimumMatchLength

		if offset == 0 && length == 0 {
			break
		}
		if ptr+length > size {
			return nil, errors.Errorf(errors.LZSSOverrun)
		}
		for i := int(offset); i < int(offset)+length; i++ {
			b := dictionary[i%p.DictionarySize]
			data[ptr] = b
			dictionary[dictionaryHead] = b
			dictionaryHead = (dictionaryHead + 1) % p.DictionarySize
			ptr++
		}
	}

	return data, nil
}
