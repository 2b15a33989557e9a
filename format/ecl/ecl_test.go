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

package ecl_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/kurokoma/eosd/format/ecl"
)

// TestParseNeverPanics feeds arbitrary byte slices to Parse: malformed offset
// tables and truncated instruction streams must come back as an error, never
// a panic.
func TestParseNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 512).Draw(t, "data")
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Parse panicked on %d bytes: %v", len(data), r)
			}
		}()
		_, _ = ecl.Parse(data)
	})
}

func TestParseTooShortIsError(t *testing.T) {
	if _, err := ecl.Parse([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected an error parsing a 3-byte buffer")
	}
}
