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

// Package sprite holds the renderable state an AnmRunner drives: position,
// scale, rotation, color and texture coordinates, each either set directly
// by an instruction or smoothly blended by an interpolator.
package sprite

import (
	"github.com/kurokoma/eosd/format/anm"
	"github.com/kurokoma/eosd/interpolate"
)

// Sprite is the renderable state of one on-screen animated element. A host
// renderer reads the exported fields once per frame after the owning
// AnmRunner has called Update; it never mutates them directly.
type Sprite struct {
	Blendfunc uint32
	Frame     uint16

	WidthOverride  float32
	HeightOverride float32
	Angle          float32

	Removed                 bool
	Changed                 bool
	Visible                 bool
	ForceRotation           bool
	AutomaticOrientation    bool
	AllowDestOffset         bool
	Mirrored                bool
	CornerRelativePlacement bool

	ScaleInterpolator    *interpolate.Interpolator2
	FadeInterpolator     *interpolate.Interpolator1
	OffsetInterpolator   *interpolate.Interpolator3
	RotationInterpolator *interpolate.Interpolator3
	ColorInterpolator    *interpolate.Interpolator3

	Anm *anm.Anm

	DestOffset       [3]float32
	Texcoords        [4]float32
	Texoffsets       [2]float32
	Rescale          [2]float32
	ScaleSpeed       [2]float32
	Rotations3D      [3]float32
	RotationsSpeed3D [3]float32
	Color            [4]uint8
}

// New creates a Sprite with the given static size override (used when the
// ANM sprite itself carries no width/height).
func New(widthOverride, heightOverride float32) *Sprite {
	return &Sprite{
		WidthOverride:  widthOverride,
		HeightOverride: heightOverride,
		Changed:        true,
		Visible:        true,
		Rescale:        [2]float32{1, 1},
		Color:          [4]uint8{255, 255, 255, 255},
	}
}

// Update advances constant-rate motion (rotation/scale speed) and samples
// every active interpolator for the current frame. Called once per frame by
// the owning AnmRunner, after any instructions for that frame have run.
func (s *Sprite) Update() {
	s.Frame++

	if s.RotationsSpeed3D[0] != 0 || s.RotationsSpeed3D[1] != 0 || s.RotationsSpeed3D[2] != 0 {
		s.Rotations3D[0] += s.RotationsSpeed3D[0]
		s.Rotations3D[1] += s.RotationsSpeed3D[1]
		s.Rotations3D[2] += s.RotationsSpeed3D[2]
		s.Changed = true
	} else if s.RotationInterpolator != nil {
		s.Rotations3D = s.RotationInterpolator.Values(s.Frame)
		s.Changed = true
	}

	if s.ScaleSpeed[0] != 0 || s.ScaleSpeed[1] != 0 {
		s.Rescale[0] += s.ScaleSpeed[0]
		s.Rescale[1] += s.ScaleSpeed[1]
		s.Changed = true
	}

	if s.FadeInterpolator != nil {
		v := s.FadeInterpolator.Values(s.Frame)
		s.Color[3] = uint8(v[0])
		s.Changed = true
	}

	if s.ScaleInterpolator != nil {
		s.Rescale = s.ScaleInterpolator.Values(s.Frame)
		s.Changed = true
	}

	if s.OffsetInterpolator != nil {
		s.DestOffset = s.OffsetInterpolator.Values(s.Frame)
		s.Changed = true
	}

	if s.ColorInterpolator != nil {
		c := s.ColorInterpolator.Values(s.Frame)
		s.Color[0] = uint8(c[0])
		s.Color[1] = uint8(c[1])
		s.Color[2] = uint8(c[2])
		s.Changed = true
	}
}
