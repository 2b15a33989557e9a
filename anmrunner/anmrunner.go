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

// Package anmrunner interprets a single ANM script against a Sprite, one
// frame at a time. Every ANM resource may have many concurrently running
// scripts, each with its own Runner and instruction pointer, all driving the
// same frame clock.
package anmrunner

import (
	"encoding/binary"
	"math"

	"github.com/kurokoma/eosd/errors"
	"github.com/kurokoma/eosd/format/anm"
	"github.com/kurokoma/eosd/interpolate"
	"github.com/kurokoma/eosd/random"
	"github.com/kurokoma/eosd/sprite"
)

// Runner interprets one ANM script instance.
type Runner struct {
	anm               *anm.Anm
	sprite            *sprite.Sprite
	running           bool
	spriteIndexOffset uint32
	script            *anm.Script
	ip                int
	frame             uint16
	waiting           bool
	timeout           *uint16
	rng               *random.Prng
}

// New creates a Runner for scriptID within a, driving spr, and runs its
// first frame immediately (matching the reference interpreter, which always
// executes frame zero's instructions before returning a usable runner).
// spriteIndexOffset is added to the sprite indices loaded during that first
// frame only, letting one ANM resource serve several logically distinct
// sprite sheets; it is cleared once New returns.
func New(a *anm.Anm, scriptID uint8, spr *sprite.Sprite, spriteIndexOffset uint32, rng *random.Prng) (*Runner, error) {
	script, ok := a.Scripts[scriptID]
	if !ok {
		return nil, errors.Errorf(errors.AssetMismatch, scriptID)
	}
	r := &Runner{
		anm:               a,
		sprite:            spr,
		running:           true,
		script:            script,
		spriteIndexOffset: spriteIndexOffset,
		rng:               rng,
	}
	if _, err := r.RunFrame(); err != nil {
		return nil, err
	}
	r.spriteIndexOffset = 0
	return r, nil
}

// Running reports whether the script is still executing.
func (r *Runner) Running() bool { return r.running }

// Interrupt jumps to the entry point registered for the given label (or the
// catch-all label -1, if any), returning false if neither exists.
func (r *Runner) Interrupt(interrupt int32) bool {
	ip, ok := r.script.Interrupts[interrupt]
	if !ok {
		ip, ok = r.script.Interrupts[-1]
		if !ok {
			return false
		}
	}
	r.ip = ip
	r.frame = r.script.Instructions[r.ip].Time
	r.waiting = false
	r.sprite.Visible = true
	return true
}

// RunFrame advances the script by one frame, stepping past every instruction
// timed at or before the current frame and executing those timed exactly at
// it, then updates the sprite. It returns
// the running state, and a non-nil error only for a runner-fatal condition
// (an unknown opcode, bad jump, or missing asset); on error the runner is
// left stopped so the caller can drop it without affecting other runners.
func (r *Runner) RunFrame() (bool, error) {
	if !r.running {
		return false, nil
	}

	for r.running && !r.waiting {
		call := r.script.Instructions[r.ip]
		if call.Time > r.frame {
			break
		}
		r.ip++

		if call.Time == r.frame {
			if err := r.runInstruction(call); err != nil {
				r.running = false
				return false, err
			}
			r.sprite.Changed = true
		}
	}

	if !r.waiting {
		r.frame++
	} else if r.timeout != nil && *r.timeout == r.sprite.Frame {
		r.waiting = false
	}

	r.sprite.Update()
	return r.running, nil
}

func (r *Runner) loadSprite(index uint32) error {
	idx := index + r.spriteIndexOffset
	if int(idx) >= len(r.anm.Sprites) {
		return errors.Errorf(errors.AssetMismatch, idx)
	}
	sp := r.anm.Sprites[idx]
	r.sprite.Anm = r.anm
	r.sprite.Texcoords = [4]float32{sp.X, sp.Y, sp.Width, sp.Height}
	return nil
}

func (r *Runner) runInstruction(call anm.Instruction) error {
	s := r.sprite
	p := call.Payload

	switch call.Opcode {
	case anm.OpDelete:
		s.Removed = true
		r.running = false

	case anm.OpLoadSprite:
		return r.loadSprite(u32(p, 0))

	case anm.OpSetScale:
		s.Rescale = [2]float32{f32(p, 0), f32(p, 4)}

	case anm.OpSetAlpha:
		s.Color[3] = uint8(u32(p, 0) % 256)

	case anm.OpSetColor:
		b, g, red := p[0], p[1], p[2]
		if s.FadeInterpolator == nil {
			s.Color[0] = red
			s.Color[1] = g
			s.Color[2] = b
		}

	case anm.OpJump:
		target := int(u32(p, 0))
		r.ip = target
		r.frame = r.script.Instructions[target].Time

	case anm.OpToggleMirrored:
		s.Mirrored = !s.Mirrored

	case anm.OpSetRotations3D:
		s.Rotations3D = [3]float32{f32(p, 0), f32(p, 4), f32(p, 8)}

	case anm.OpSetRotationsSpeed3D:
		s.RotationsSpeed3D = [3]float32{f32(p, 0), f32(p, 4), f32(p, 8)}

	case anm.OpSetScaleSpeed:
		s.ScaleSpeed = [2]float32{f32(p, 0), f32(p, 4)}

	case anm.OpFade:
		newAlpha := float32(u32(p, 0))
		duration := uint16(u32(p, 4))
		s.FadeInterpolator = interpolate.NewInterpolator1(
			[1]float32{float32(s.Color[3])}, s.Frame,
			[1]float32{newAlpha}, s.Frame+duration,
			interpolate.Linear)

	case anm.OpSetBlendmodeAdd:
		s.Blendfunc = 0

	case anm.OpSetBlendmodeAlphablend:
		s.Blendfunc = 1

	case anm.OpKeepStill:
		r.running = false

	case anm.OpLoadRandomSprite:
		minIndex := u32(p, 0)
		amplitude := u32(p, 4)
		idx := minIndex
		if amplitude > 0 && r.rng != nil {
			idx += uint32(r.rng.GetU32()) % amplitude
		}
		return r.loadSprite(idx)

	case anm.OpMove:
		s.DestOffset = [3]float32{f32(p, 0), f32(p, 4), f32(p, 8)}

	case anm.OpMoveToLinear:
		r.startMoveTo(p, interpolate.Linear)

	case anm.OpMoveToDecel:
		r.startMoveTo(p, interpolate.InvertPower2)

	case anm.OpMoveToAccel:
		r.startMoveTo(p, interpolate.Power2)

	case anm.OpWait:
		r.waiting = true

	case anm.OpInterruptLabel:
		// no-op: interrupt targets are resolved at parse time

	case anm.OpSetCornerRelativePlacement:
		s.CornerRelativePlacement = true

	case anm.OpWaitEx:
		s.Visible = false
		r.waiting = true

	case anm.OpSetAllowOffset:
		s.AllowDestOffset = u32(p, 0) == 1

	case anm.OpSetAutomaticOrientation:
		s.AutomaticOrientation = u32(p, 0) == 1

	case anm.OpShiftTextureX:
		s.Texoffsets[0] += f32(p, 0)

	case anm.OpShiftTextureY:
		s.Texoffsets[1] += f32(p, 0)

	case anm.OpSetVisible:
		s.Visible = u32(p, 0)&1 != 0

	case anm.OpScaleIn:
		sx, sy := f32(p, 0), f32(p, 4)
		duration := uint16(u32(p, 8))
		s.ScaleInterpolator = interpolate.NewInterpolator2(
			s.Rescale, s.Frame, [2]float32{sx, sy}, s.Frame+duration, interpolate.Linear)

	case anm.OpTodo:
		// unimplemented in the original engine; nothing to do

	default:
		return errors.Errorf(errors.UnknownOpcode, call.Opcode)
	}

	return nil
}

func (r *Runner) startMoveTo(p []byte, formula interpolate.Formula) {
	s := r.sprite
	x, y, z := f32(p, 0), f32(p, 4), f32(p, 8)
	duration := uint16(u32(p, 12))
	s.OffsetInterpolator = interpolate.NewInterpolator3(
		s.DestOffset, s.Frame, [3]float32{x, y, z}, s.Frame+duration, formula)
}

func u32(p []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(p[off:])
}

func f32(p []byte, off int) float32 {
	return math.Float32frombits(u32(p, off))
}
