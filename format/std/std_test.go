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

package std_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/kurokoma/eosd/format/std"
)

// TestParseNeverPanics feeds arbitrary byte slices to Parse: this format has
// the most fixed-offset string fields of any of the three, making it the
// likeliest of the three to panic on a short buffer if a bounds check were
// ever missed.
func TestParseNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 2048).Draw(t, "data")
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Parse panicked on %d bytes: %v", len(data), r)
			}
		}()
		_, _ = std.Parse(data)
	})
}

func TestParseTooShortIsError(t *testing.T) {
	if _, err := std.Parse([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected an error parsing a 3-byte buffer")
	}
}
