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

// Package enemy holds the state an ECL script drives through an EclRunner:
// position, life, movement parameters, hitbox, and the handful of option
// fields every enemy behavior script can set. It owns no references back to
// the Game or its own AnmRunner; those live as slab handles managed by
// package game, which keeps Enemy free of the reference cycles the original
// engine expressed with Rc<RefCell<_>>.
package enemy

import (
	"math"

	"github.com/kurokoma/eosd/format/anm"
	"github.com/kurokoma/eosd/interpolate"
	"github.com/kurokoma/eosd/slab"
)

// Position is a 2D point in the play field.
type Position struct {
	X, Y float32
}

// Offset is a 2D displacement.
type Offset struct {
	DX, DY float32
}

// Add returns p translated by o.
func (p Position) Add(o Offset) Position {
	return Position{p.X + o.DX, p.Y + o.DY}
}

// BulletAttributes is the shared wire layout for the seven
// SetBulletAttributes{1..7} sub-opcodes: see the ECL runner for how the
// opcode number selects which of an enemy's seven concurrent bullet
// patterns this configures.
type BulletAttributes struct {
	Anim               int16
	SpriteIndexOffset  int16
	BulletsPerShot     int32
	NumberOfShots      int32
	Speed              float32
	Speed2             float32
	LaunchAngle        float32
	Angle              float32
	Flags              int32
}

// ExtendedBulletAttributes is the payload of SetExtendedBulletAttributes.
type ExtendedBulletAttributes struct {
	A, B, C, D int32
	E, F, G, H float32
}

// Enemy is one boss/fairy/obstacle instance driven by an ECL sub.
type Enemy struct {
	Pos       Position
	Removed   bool
	AnmRunner slab.Handle
	Anm       *anm.Anm

	Z              float32
	Angle          float32
	Speed          float32
	RotationSpeed  float32
	Acceleration   float32

	Type               uint32
	BonusDropped       uint32
	DieScore           uint32
	Frame              uint32
	Life               uint32
	DeathFlags         uint32
	CurrentLaserID     uint32
	LowLifeTrigger     *uint32
	Timeout            *uint32
	RemainingLives     uint32
	BulletLaunchInterval uint32
	BulletLaunchTimer  uint32
	DeathAnim          uint32
	Direction          uint32

	// UpdateMode selects the motion model applied by Update: 0 means
	// integrate from Angle/Speed/Acceleration; any other value means an
	// interpolator (or no motion at all) is driving Pos instead.
	UpdateMode uint32

	Visible               bool
	WasVisible            bool
	Touchable             bool
	Collidable            bool
	Damageable            bool
	Boss                  bool
	AutomaticOrientation  bool
	DelayAttack           bool

	DifficultyCoeffSpeedA, DifficultyCoeffSpeedB float32
	DifficultyCoeffNbA, DifficultyCoeffNbB       int32
	DifficultyCoeffShotsA, DifficultyCoeffShotsB int32

	ExtendedBulletAttributes *ExtendedBulletAttributes
	BulletAttributes         [7]*BulletAttributes
	BulletLaunchOffset       Offset
	ScreenBox                *[4]float32 // xmin, ymin, xmax, ymax

	// MovementDependantSprites holds the (end_left, end_right, left, right)
	// animation indices installed by SetMultipleAnims; Game switches between
	// them as the enemy's x position crosses direction boundaries.
	MovementDependantSprites *[4]int32
	PrevX                    float32

	DeathCallback    uint16
	HasDeathCallback bool
	LowLifeCallback  uint16
	HasLowLifeCallback bool
	TimeoutCallback  uint16
	HasTimeoutCallback bool

	PositionInterpolator *interpolate.Interpolator2
	SpeedInterpolator    *interpolate.Interpolator1

	HitboxHalfSize [2]float32
}

// New creates an enemy at pos. A negative life (the wire format's sentinel
// for "invincible/decorative") is clamped to 1, matching the reference
// interpreter.
func New(pos Position, life int32, bonusDropped, dieScore uint32) *Enemy {
	l := uint32(life)
	if life < 0 {
		l = 1
	}
	return &Enemy{
		Pos:          pos,
		Visible:      true,
		BonusDropped: bonusDropped,
		DieScore:     dieScore,
		Life:         l,
		Touchable:    true,
		Collidable:   true,
		Damageable:   true,

		DifficultyCoeffSpeedA: -0.5,
		DifficultyCoeffSpeedB: 0.5,
	}
}

// SetHitbox sets the enemy's collision half-extents.
func (e *Enemy) SetHitbox(width, height float32) {
	e.HitboxHalfSize = [2]float32{width / 2, height / 2}
}

// SetPos teleports the enemy, bypassing any active position interpolator.
func (e *Enemy) SetPos(x, y, z float32) {
	e.Pos = Position{x, y}
	e.Z = z
}

// Update advances one frame of constant-acceleration or interpolated
// motion. Called once per frame, after the owning EclRunner has processed
// this frame's instructions (Ordering: ECL -> Enemy::update -> Stage -> ANM).
func (e *Enemy) Update() {
	e.Frame++

	if e.PositionInterpolator != nil {
		xy := e.PositionInterpolator.Values(uint16(e.Frame))
		e.Pos = Position{xy[0], xy[1]}
		return
	}

	if e.SpeedInterpolator != nil {
		e.Speed = e.SpeedInterpolator.Values(uint16(e.Frame))[0]
	} else if e.UpdateMode == 0 {
		e.Speed += e.Acceleration
	}

	if e.UpdateMode == 0 {
		e.Angle += e.RotationSpeed
		dx := e.Speed * float32(math.Cos(float64(e.Angle)))
		if e.Type&2 != 0 {
			dx = -dx
		}
		e.Pos.X += dx
		e.Pos.Y += e.Speed * float32(math.Sin(float64(e.Angle)))
	}
}
