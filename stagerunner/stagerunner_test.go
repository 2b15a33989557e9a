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

package stagerunner_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/kurokoma/eosd/format/std"
	"github.com/kurokoma/eosd/stagerunner"
)

func fogPayload(r, g, b, a uint8, near, far float32) []byte {
	p := make([]byte, 12)
	p[0] = b
	p[1] = g
	p[2] = r
	p[3] = a
	binary.LittleEndian.PutUint32(p[4:], math.Float32bits(near))
	binary.LittleEndian.PutUint32(p[8:], math.Float32bits(far))
	return p
}

// TestSetFogAppliesImmediately checks that a SetFog instruction scheduled at
// frame 0 is visible from the very first RunFrame, with colors normalized to
// 0..1 and near/far passed through unchanged.
func TestSetFogAppliesImmediately(t *testing.T) {
	stage := &std.Std{
		Instructions: []std.Instruction{
			{Time: 0, Opcode: std.OpSetFog, Payload: fogPayload(255, 128, 0, 255, 10, 5000)},
		},
	}
	r := stagerunner.New(stage)
	r.RunFrame()

	fog := r.Fog()
	if fog.R != 1 {
		t.Fatalf("R = %v, want 1", fog.R)
	}
	if got, want := fog.G, float32(128)/255; got != want {
		t.Fatalf("G = %v, want %v", got, want)
	}
	if fog.B != 0 {
		t.Fatalf("B = %v, want 0", fog.B)
	}
	if fog.A != 1 {
		t.Fatalf("A = %v, want 1", fog.A)
	}
	if fog.Near != 10 {
		t.Fatalf("Near = %v, want 10", fog.Near)
	}
	if fog.Far != 5000 {
		t.Fatalf("Far = %v, want 5000", fog.Far)
	}
}

// TestSetFogBeforeFirstFrame checks the default fog (opaque, no distance
// bounds set) before any instruction has been processed.
func TestSetFogBeforeFirstFrame(t *testing.T) {
	stage := &std.Std{
		Instructions: []std.Instruction{
			{Time: 5, Opcode: std.OpSetFog, Payload: fogPayload(0, 0, 0, 255, 0, 0)},
		},
	}
	r := stagerunner.New(stage)
	fog := r.Fog()
	if fog.A != 1 {
		t.Fatalf("default A = %v, want 1", fog.A)
	}
}

// TestSetFogScheduledLater checks that a SetFog instruction scheduled for a
// future frame has no effect until that frame is reached.
func TestSetFogScheduledLater(t *testing.T) {
	stage := &std.Std{
		Instructions: []std.Instruction{
			{Time: 3, Opcode: std.OpSetFog, Payload: fogPayload(10, 20, 30, 40, 1, 2)},
		},
	}
	r := stagerunner.New(stage)
	for i := 0; i < 3; i++ {
		r.RunFrame()
		if r.Fog().Near != 0 {
			t.Fatalf("frame %d: fog applied early: %+v", i, r.Fog())
		}
	}
	r.RunFrame()
	if r.Fog().Near != 1 {
		t.Fatalf("frame 3: fog not applied: %+v", r.Fog())
	}
}
