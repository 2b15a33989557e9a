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

// Package mathutil provides the small amount of vector and matrix math the
// stage runner needs: a 4x4 float32 matrix, a perspective projection and a
// look-at camera matrix tuned to the original game's fixed 384x448 play
// field.
package mathutil

import "math"

// Vec3 is a 3-component float32 vector.
type Vec3 [3]float32

func sub3(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func normalize3(v Vec3) Vec3 {
	n := float32(1.0 / math.Sqrt(float64(v[0]*v[0]+v[1]*v[1]+v[2]*v[2])))
	return Vec3{v[0] * n, v[1] * n, v[2] * n}
}

func cross3(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - b[1]*a[2],
		a[2]*b[0] - b[2]*a[0],
		a[0]*b[1] - b[0]*a[1],
	}
}

func dot3(a, b Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Mat4 is a column/row-agnostic 4x4 matrix stored the way the original engine
// stored it: inner[row][col].
type Mat4 struct {
	inner [4][4]float32
}

// NewMat4 builds a matrix from its 16 components, row-major.
func NewMat4(rows [4][4]float32) Mat4 {
	return Mat4{inner: rows}
}

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{inner: [4][4]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// Inner exposes the raw row-major components, e.g. for uploading to a GPU
// uniform.
func (m Mat4) Inner() [4][4]float32 {
	return m.inner
}

// Mul returns m * rhs.
func (m Mat4) Mul(rhs Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var acc float32
			for k := 0; k < 4; k++ {
				acc += m.inner[i][k] * rhs.inner[k][j]
			}
			out.inner[i][j] = acc
		}
	}
	return out
}

// Ortho2D builds an orthographic projection matrix over the given bounds.
func Ortho2D(left, right, bottom, top float32) Mat4 {
	m := Identity()
	m.inner[0][0] = 2 / (right - left)
	m.inner[1][1] = 2 / (top - bottom)
	m.inner[2][2] = -1
	m.inner[3][0] = -(right + left) / (right - left)
	m.inner[3][1] = -(top + bottom) / (top - bottom)
	return m
}

// Perspective builds a perspective projection matrix from a vertical FOV (in
// radians), aspect ratio, and near/far planes.
func Perspective(fovY, aspect, zNear, zFar float32) Mat4 {
	top := float32(math.Tan(float64(fovY)/2)) * zNear
	bottom := -top
	left := -top * aspect
	right := top * aspect

	m := Identity()
	m.inner[0][0] = (2 * zNear) / (right - left)
	m.inner[1][1] = (2 * zNear) / (top - bottom)
	m.inner[2][2] = -(zFar + zNear) / (zFar - zNear)
	m.inner[2][3] = -1
	m.inner[3][2] = -(2 * zFar * zNear) / (zFar - zNear)
	m.inner[3][3] = 0
	return m
}

// LookAt builds a right-handed view matrix from eye position, look-at center
// and up vector.
func LookAt(eye, center, up Vec3) Mat4 {
	f := normalize3(sub3(center, eye))
	u := normalize3(up)
	s := normalize3(cross3(f, u))
	u = cross3(s, f)

	return Mat4{inner: [4][4]float32{
		{s[0], u[0], -f[0], 0},
		{s[1], u[1], -f[1], 0},
		{s[2], u[2], -f[2], 0},
		{-dot3(s, eye), -dot3(u, eye), dot3(f, eye), 1},
	}}
}

// SetupCamera builds the stage camera's view matrix from the look-at delta
// (dx, dy) and depth scale dz.
//
// The magic constants encode a 30-degree vertical field of view projecting
// the logical 384x448 play area onto pixel coordinates:
//
//	192 = 384 / 2 (half width)
//	224 = 448 / 2 (half height)
//	835.979370 = 224 / tan(radians(15)) = (height/2) / tan(radians(fov/2))
func SetupCamera(dx, dy, dz float32) Mat4 {
	return LookAt(
		Vec3{192, 224, -835.979370 * dz},
		Vec3{192 + dx, 224 - dy, 0},
		Vec3{0, -1, 0},
	)
}

// Translate returns a translation matrix for the given 3D offset.
func Translate(offset Vec3) Mat4 {
	m := Identity()
	m.inner[3][0] = offset[0]
	m.inner[3][1] = offset[1]
	m.inner[3][2] = offset[2]
	return m
}
