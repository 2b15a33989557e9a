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

package anm_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/kurokoma/eosd/format/anm"
)

// TestParseNeverPanics feeds arbitrary byte slices to Parse: a malformed or
// truncated asset must come back as an error, never a panic, since Parse
// runs against untrusted file contents.
func TestParseNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 512).Draw(t, "data")
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Parse panicked on %d bytes: %v", len(data), r)
			}
		}()
		_, _ = anm.Parse(data)
	})
}

func TestParseEmptyIsError(t *testing.T) {
	if _, err := anm.Parse(nil); err == nil {
		t.Fatalf("expected an error parsing an empty buffer")
	}
}
