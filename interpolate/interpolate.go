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

// Package interpolate implements the N-channel scalar interpolator shared by
// the ANM and STD runners: a fixed start/end snapshot sampled by frame
// number, using one of three easing formulas.
package interpolate

// Formula selects the easing curve applied to the normalised [0,1] progress
// before it is used to blend start and end values.
type Formula int

const (
	Linear Formula = iota
	Power2
	InvertPower2
)

func (f Formula) apply(x float32) float32 {
	switch f {
	case Linear:
		return x
	case Power2:
		return x * x
	case InvertPower2:
		return 2*x - x*x
	default:
		return x
	}
}

func coeff(f Formula, frame, start, end uint16) float32 {
	x := float32(frame-start) / float32(end-start)
	return f.apply(x)
}

// done reports whether sampling at frame should just return the end values
// verbatim. When frame+1 >= end_frame we do *not* continue extrapolating:
// this off-by-one is replicated from the original game, where the final
// interpolation step never actually runs.
func done(frame, end uint16) bool {
	return frame+1 >= end
}

// Interpolator1 is a single-channel interpolator (e.g. alpha fade).
type Interpolator1 struct {
	start, end           [1]float32
	startFrame, endFrame uint16
	formula              Formula
}

// NewInterpolator1 builds a 1-channel interpolator.
func NewInterpolator1(start [1]float32, startFrame uint16, end [1]float32, endFrame uint16, f Formula) *Interpolator1 {
	return &Interpolator1{start, end, startFrame, endFrame, f}
}

// Values samples the interpolator at the given frame.
func (it *Interpolator1) Values(frame uint16) [1]float32 {
	if done(frame, it.endFrame) {
		return it.end
	}
	c := coeff(it.formula, frame, it.startFrame, it.endFrame)
	return [1]float32{it.start[0] + c*(it.end[0]-it.start[0])}
}

// Interpolator2 is a 2-channel interpolator (e.g. scale).
type Interpolator2 struct {
	start, end           [2]float32
	startFrame, endFrame uint16
	formula              Formula
}

// NewInterpolator2 builds a 2-channel interpolator.
func NewInterpolator2(start [2]float32, startFrame uint16, end [2]float32, endFrame uint16, f Formula) *Interpolator2 {
	return &Interpolator2{start, end, startFrame, endFrame, f}
}

// Values samples the interpolator at the given frame.
func (it *Interpolator2) Values(frame uint16) [2]float32 {
	if done(frame, it.endFrame) {
		return it.end
	}
	c := coeff(it.formula, frame, it.startFrame, it.endFrame)
	return [2]float32{
		it.start[0] + c*(it.end[0]-it.start[0]),
		it.start[1] + c*(it.end[1]-it.start[1]),
	}
}

// Interpolator3 is a 3-channel interpolator (e.g. offset, rotation, color).
type Interpolator3 struct {
	start, end           [3]float32
	startFrame, endFrame uint16
	formula              Formula
}

// NewInterpolator3 builds a 3-channel interpolator.
func NewInterpolator3(start [3]float32, startFrame uint16, end [3]float32, endFrame uint16, f Formula) *Interpolator3 {
	return &Interpolator3{start, end, startFrame, endFrame, f}
}

// Values samples the interpolator at the given frame.
func (it *Interpolator3) Values(frame uint16) [3]float32 {
	if done(frame, it.endFrame) {
		return it.end
	}
	c := coeff(it.formula, frame, it.startFrame, it.endFrame)
	return [3]float32{
		it.start[0] + c*(it.end[0]-it.start[0]),
		it.start[1] + c*(it.end[1]-it.start[1]),
		it.start[2] + c*(it.end[2]-it.start[2]),
	}
}

// Interpolator4 is a 4-channel interpolator (e.g. the rgba fog color).
type Interpolator4 struct {
	start, end           [4]float32
	startFrame, endFrame uint16
	formula              Formula
}

// NewInterpolator4 builds a 4-channel interpolator.
func NewInterpolator4(start [4]float32, startFrame uint16, end [4]float32, endFrame uint16, f Formula) *Interpolator4 {
	return &Interpolator4{start, end, startFrame, endFrame, f}
}

// Values samples the interpolator at the given frame.
func (it *Interpolator4) Values(frame uint16) [4]float32 {
	if done(frame, it.endFrame) {
		return it.end
	}
	c := coeff(it.formula, frame, it.startFrame, it.endFrame)
	return [4]float32{
		it.start[0] + c*(it.end[0]-it.start[0]),
		it.start[1] + c*(it.end[1]-it.start[1]),
		it.start[2] + c*(it.end[2]-it.start[2]),
		it.start[3] + c*(it.end[3]-it.start[3]),
	}
}
