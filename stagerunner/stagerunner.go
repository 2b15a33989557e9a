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

// Package stagerunner interprets an STD stage script, producing a camera
// model-view matrix and fog parameters each frame.
package stagerunner

import (
	"encoding/binary"
	"math"

	"github.com/kurokoma/eosd/format/std"
	"github.com/kurokoma/eosd/interpolate"
	"github.com/kurokoma/eosd/mathutil"
)

// Fog is the stage's current fog parameters, colors normalized to 0..1.
type Fog struct {
	R, G, B, A float32
	Near, Far  float32
}

// Runner advances a Stage's camera and fog state one frame at a time.
type Runner struct {
	stage *std.Std
	frame uint32
	ip    int

	pos      mathutil.Vec3
	viewpos2 mathutil.Vec3 // look-at delta (dx, dy, dz)
	fog      Fog

	viewpos2Interpolator *interpolate.Interpolator3
	fogInterpolator      *interpolate.Interpolator4
}

// New creates a Runner over stage, starting at frame 0.
func New(stage *std.Std) *Runner {
	return &Runner{stage: stage, fog: Fog{A: 1}}
}

// RunFrame executes every instruction scheduled at the current frame, then
// advances the frame counter.
func (r *Runner) RunFrame() {
	instructions := r.stage.Instructions
	for r.ip < len(instructions) {
		call := instructions[r.ip]
		if call.Time > r.frame {
			break
		}
		r.ip++
		if call.Time == r.frame {
			r.runInstruction(call)
		}
	}

	if r.viewpos2Interpolator != nil {
		r.viewpos2 = r.viewpos2Interpolator.Values(uint16(r.frame))
	}
	if r.fogInterpolator != nil {
		v := r.fogInterpolator.Values(uint16(r.frame))
		r.fog = Fog{R: v[0], G: v[1], B: v[2], A: v[3], Near: r.fog.Near, Far: r.fog.Far}
	}

	r.frame++
}

func (r *Runner) runInstruction(call std.Instruction) {
	p := call.Payload
	switch call.Opcode {
	case std.OpSetViewpos:
		r.pos = mathutil.Vec3{f32(p, 0), f32(p, 4), f32(p, 8)}

	case std.OpSetFog:
		// packed b,g,r,a bytes, little-endian within the u32: byte 0 is b.
		b, g, rr, a := p[0], p[1], p[2], p[3]
		r.fog.R = float32(rr) / 255
		r.fog.G = float32(g) / 255
		r.fog.B = float32(b) / 255
		r.fog.A = float32(a) / 255
		r.fog.Near = f32(p, 4)
		r.fog.Far = f32(p, 8)

	case std.OpSetViewpos2:
		r.viewpos2 = mathutil.Vec3{f32(p, 0), f32(p, 4), f32(p, 8)}
		r.viewpos2Interpolator = nil

	case std.OpStartInterpolatingViewpos2:
		duration := uint16(binary.LittleEndian.Uint16(p[0:]))
		formula := interpolate.Formula(binary.LittleEndian.Uint16(p[2:]))
		target := mathutil.Vec3{f32(p, 4), 0, 0}
		start := uint16(r.frame)
		r.viewpos2Interpolator = interpolate.NewInterpolator3(
			[3]float32(r.viewpos2), start, [3]float32(target), start+duration, formula)

	case std.OpStartInterpolatingFog:
		duration := uint16(binary.LittleEndian.Uint16(p[0:]))
		formula := interpolate.Formula(binary.LittleEndian.Uint16(p[2:]))
		start := uint16(r.frame)
		from := [4]float32{r.fog.R, r.fog.G, r.fog.B, r.fog.A}
		to := [4]float32{f32(p, 4), f32(p, 8), from[2], from[3]}
		r.fogInterpolator = interpolate.NewInterpolator4(from, start, to, start+duration, formula)

	case std.OpUnknown5:
		// never exercised by the original engine's shipped stages

	default:
		// unknown stage opcodes are ignored rather than fatal: the camera/
		// fog pipeline has no per-instance state to corrupt, unlike ECL/ANM
	}
}

// Fog returns the current fog parameters.
func (r *Runner) Fog() Fog { return r.fog }

// ModelView returns the camera's model-view matrix for the current frame,
// per the 30-degree-vertical-FOV projection baked into mathutil.SetupCamera.
func (r *Runner) ModelView() mathutil.Mat4 {
	camera := mathutil.SetupCamera(r.viewpos2[0], r.viewpos2[1], r.viewpos2[2])
	return camera.Mul(mathutil.Translate(mathutil.Vec3{-r.pos[0], -r.pos[1], -r.pos[2]}))
}

func f32(p []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(p[off:]))
}
