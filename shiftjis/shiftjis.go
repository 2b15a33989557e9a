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

// Package shiftjis decodes the SHIFT_JIS byte strings embedded in every
// asset format (PBG3 entry names, STD stage/music names, ANM texture
// filenames) into Go strings, replacing invalid sequences with U+FFFD rather
// than failing the parse.
package shiftjis

import (
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Decode converts a NUL-stripped SHIFT_JIS byte string to UTF-8. Bytes that
// do not form a valid SHIFT_JIS sequence are replaced with U+FFFD; Decode
// never fails, matching the asset parsers' "best-effort string" contract.
func Decode(b []byte) string {
	decoder := japanese.ShiftJIS.NewDecoder()
	out, _, err := transform.Bytes(decoder, b)
	if err != nil {
		// Fall back byte by byte so a single bad run doesn't lose the
		// whole string: re-decode up to the failure, substitute one
		// replacement rune, and resume past it.
		return decodeLossy(b)
	}
	return string(out)
}

func decodeLossy(b []byte) string {
	var sb strings.Builder
	decoder := japanese.ShiftJIS.NewDecoder()
	for len(b) > 0 {
		out, n, err := transform.Bytes(decoder, b)
		if err == nil {
			sb.Write(out)
			break
		}
		if n > 0 {
			partial, _, _ := transform.Bytes(decoder, b[:n])
			sb.Write(partial)
		}
		sb.WriteRune('�')
		if n >= len(b) {
			break
		}
		b = b[n+1:]
	}
	return sb.String()
}
