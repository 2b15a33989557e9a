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

package eclrunner

import (
	"github.com/kurokoma/eosd/enemy"
	"github.com/kurokoma/eosd/slab"
)

// Host is the set of effects an ECL sub cannot carry out on its own: they
// mutate state outside the running enemy (spawning another enemy, playing a
// sound, touching the scoreboard) and are the caller's responsibility to
// apply, deny, or queue. A Game implements Host by operating on its own
// enemy/anmrunner slabs.
type Host interface {
	// SpawnEnemy creates an enemy running sub, returning its slot index as
	// an id the caller can use for e.g. SetDeathCallback bookkeeping.
	SpawnEnemy(sub int32, pos enemy.Position, z float32, life int32, bonusDropped, dieScore int32, mirrored bool) (int32, error)

	PlaySound(index int32)

	// NewLaser registers a new laser of the given type and returns its id.
	NewLaser(laserType int16, spriteIndexOffset int16, params LaserParams) (int32, error)
	AlterLaserAngle(id int32, delta float32)
	RepositionLaser(id int32, offset enemy.Offset, oz float32)
	CancelLaser(id int32)

	DropBonus(count int32)
	DropSpecificBonus(kind int32)
	ChangeBulletsToItems()

	KillAllEnemies()

	// SetAnim replaces self's current animation: builds a fresh Sprite and
	// AnmRunner for scriptIndex and registers the runner with the Game,
	// per the set_anim construction in the kinematic-update design note.
	SetAnim(self slab.Handle, scriptIndex int32) error

	SetSpellcard(face int16, number int16, name string)
	EndSpellcard()

	CallSpecialFunction(function, argument int32)

	// MemoryWriteInt32 is the leaderboard-memory-poke callback the
	// original game exposed; hosts SHOULD refuse it.
	MemoryWriteInt32(index, value int32) error
}

// LaserParams bundles NewLaser/NewLaserTowardsPlayer's arguments.
type LaserParams struct {
	Angle       float32
	Speed       float32
	StartOffset float32
	EndOffset   float32
	MaxLength   float32
	Width       float32

	StartDuration        int32
	Duration             int32
	EndDuration          int32
	GrazingDelay         int32
	GrazingExtraDuration int32
}
