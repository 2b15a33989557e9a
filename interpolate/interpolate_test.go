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

package interpolate_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/kurokoma/eosd/interpolate"
)

// TestInterpolator1Idempotent checks that sampling past the end frame always
// returns exactly the end value, repeatedly: an interpolator that is "done"
// must stay done, never resuming extrapolation on a later call.
func TestInterpolator1Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.Float32Range(-1000, 1000).Draw(t, "start")
		end := rapid.Float32Range(-1000, 1000).Draw(t, "end")
		startFrame := rapid.Uint16Range(0, 1000).Draw(t, "startFrame")
		duration := rapid.Uint16Range(1, 1000).Draw(t, "duration")
		formula := interpolate.Formula(rapid.IntRange(0, 2).Draw(t, "formula"))
		endFrame := startFrame + duration

		it := interpolate.NewInterpolator1([1]float32{start}, startFrame, [1]float32{end}, endFrame, formula)

		first := it.Values(endFrame + 1)
		if first[0] != end {
			t.Fatalf("value past end = %v, want %v", first[0], end)
		}
		for i := 0; i < 5; i++ {
			again := it.Values(endFrame + 1 + uint16(i)*10)
			if again != first {
				t.Fatalf("repeated sample past end changed: %v != %v", again, first)
			}
		}
	})
}

// TestInterpolator3EndpointExact checks the documented off-by-one: sampling
// at exactly endFrame-1 and endFrame both already return the end value.
func TestInterpolator3EndpointExact(t *testing.T) {
	start := [3]float32{0, 0, 0}
	end := [3]float32{10, 20, 30}
	it := interpolate.NewInterpolator3(start, 0, end, 10, interpolate.Linear)

	if got := it.Values(9); got != end {
		t.Fatalf("Values(9) = %v, want %v", got, end)
	}
	if got := it.Values(10); got != end {
		t.Fatalf("Values(10) = %v, want %v", got, end)
	}
}

func TestInterpolator2Linear(t *testing.T) {
	it := interpolate.NewInterpolator2([2]float32{0, 0}, 0, [2]float32{10, 10}, 10, interpolate.Linear)
	got := it.Values(5)
	want := [2]float32{5, 5}
	if got != want {
		t.Fatalf("Values(5) = %v, want %v", got, want)
	}
}
