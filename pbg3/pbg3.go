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

// Package pbg3 reads PBG3 archives: the named, LZSS-compressed, checksummed
// container format used to ship every EoSD asset file (MD.DAT and friends).
package pbg3

import (
	"io"

	"github.com/kurokoma/eosd/bitstream"
	"github.com/kurokoma/eosd/errors"
	"github.com/kurokoma/eosd/lzss"
	"github.com/kurokoma/eosd/shiftjis"
)

var magic = [4]byte{'P', 'B', 'G', '3'}

type entry struct {
	unknown1 uint32
	unknown2 uint32
	checksum uint32
	offset   uint32
	size     uint32
}

// Archive is an opened PBG3 file: its entry table has been parsed, but no
// entry payload is read until GetFile is called.
type Archive struct {
	entries map[string]entry
	br      *bitstream.Reader
}

// Open parses the PBG3 header and entry table from r. r must support Seek,
// since entries are scattered through the file and the entry table itself
// lives at a header-specified offset.
func Open(r io.ReadSeeker) (*Archive, error) {
	var got [4]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return nil, err
	}
	if got != magic {
		return nil, errors.Errorf(errors.BadMagic, got)
	}

	br := bitstream.New(r)
	nbEntries, err := readU32(br)
	if err != nil {
		return nil, err
	}
	tableOffset, err := readU32(br)
	if err != nil {
		return nil, err
	}
	if _, err := br.Seek(int64(tableOffset), io.SeekStart); err != nil {
		return nil, err
	}

	entries := make(map[string]entry, nbEntries)
	for i := uint32(0); i < nbEntries; i++ {
		e := entry{}
		if e.unknown1, err = readU32(br); err != nil {
			return nil, err
		}
		if e.unknown2, err = readU32(br); err != nil {
			return nil, err
		}
		if e.checksum, err = readU32(br); err != nil {
			return nil, err
		}
		if e.offset, err = readU32(br); err != nil {
			return nil, err
		}
		if e.size, err = readU32(br); err != nil {
			return nil, err
		}
		name, err := readString(br, 255)
		if err != nil {
			return nil, err
		}
		entries[shiftjis.Decode(name)] = e
	}

	return &Archive{entries: entries, br: br}, nil
}

// ListFiles returns the archive's entry names in unspecified order.
func (a *Archive) ListFiles() []string {
	names := make([]string, 0, len(a.entries))
	for name := range a.entries {
		names = append(names, name)
	}
	return names
}

// GetFile decompresses and returns the named entry's payload. When check is
// true, the compressed bytes are re-read and their running byte sum is
// compared against the entry's stored checksum.
func (a *Archive) GetFile(filename string, check bool) ([]byte, error) {
	e, ok := a.entries[filename]
	if !ok {
		return nil, errors.Errorf(errors.AssetLoadError, filename)
	}

	if _, err := a.br.Seek(int64(e.offset), io.SeekStart); err != nil {
		return nil, err
	}
	data, err := lzss.Decompress(a.br, int(e.size), lzss.PBG3Params)
	if err != nil {
		return nil, err
	}

	if check {
		end, err := a.br.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		compressedSize := uint32(end) - e.offset
		if _, err := a.br.Seek(int64(e.offset), io.SeekStart); err != nil {
			return nil, err
		}
		raw, err := a.br.ReadBytes(int(compressedSize))
		if err != nil {
			return nil, err
		}
		var sum uint32
		for _, c := range raw {
			sum += uint32(c)
		}
		if sum != e.checksum {
			return nil, errors.Errorf(errors.ChecksumMismatch, e.checksum, sum)
		}
	}

	return data, nil
}

// readU32 reads a PBG3 variable-width integer: a 2-bit size selector
// followed by (size+1)*8 bits of value.
func readU32(br *bitstream.Reader) (uint32, error) {
	size, err := br.Read(2)
	if err != nil {
		return 0, err
	}
	return br.Read(uint(size+1) * 8)
}

// readString reads a NUL-terminated, non-byte-aligned string of at most
// maxSize bytes (not counting the terminator).
func readString(br *bitstream.Reader, maxSize int) ([]byte, error) {
	var buf []byte
	for len(buf) < maxSize {
		v, err := br.Read(8)
		if err != nil {
			return nil, err
		}
		if v == 0 {
			break
		}
		buf = append(buf, byte(v))
	}
	return buf, nil
}
