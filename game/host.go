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

package game

import (
	"github.com/kurokoma/eosd/eclrunner"
	"github.com/kurokoma/eosd/enemy"
	"github.com/kurokoma/eosd/errors"
	"github.com/kurokoma/eosd/slab"
)

// Game implements eclrunner.Host: every effect an EclRunner cannot carry out
// on its own lands here, where it can touch other enemies, the laser table,
// or (for the stubs) simply be logged and refused.
var _ eclrunner.Host = (*Game)(nil)

// SpawnEnemy creates a new Enemy running sub and returns an id a caller can
// correlate with later callbacks. The ECL resource is the Game's own: every
// enemy in one Game is a sub of the same compiled script, per §4.3/§4.6.
func (g *Game) SpawnEnemy(sub int32, pos enemy.Position, z float32, life int32, bonusDropped, dieScore int32, mirrored bool) (int32, error) {
	e := enemy.New(pos, life, uint32(bonusDropped), uint32(dieScore))
	e.Z = z
	if mirrored {
		e.Type |= 2
	}
	h := g.SpawnAt(e, uint16(sub))
	return int32(h.Index()), nil
}

func (g *Game) PlaySound(index int32) {
	g.log("play_sound(%d)", index)
}

func (g *Game) NewLaser(laserType int16, spriteIndexOffset int16, params eclrunner.LaserParams) (int32, error) {
	id := g.nextLaserID
	g.nextLaserID++
	g.lasers[id] = &Laser{
		Kind:                 laserType,
		Angle:                params.Angle,
		Speed:                params.Speed,
		StartOffset:          params.StartOffset,
		EndOffset:            params.EndOffset,
		MaxLength:            params.MaxLength,
		Width:                params.Width,
		StartDuration:        params.StartDuration,
		Duration:             params.Duration,
		EndDuration:          params.EndDuration,
		GrazingDelay:         params.GrazingDelay,
		GrazingExtraDuration: params.GrazingExtraDuration,
	}
	return id, nil
}

func (g *Game) AlterLaserAngle(id int32, delta float32) {
	if l, ok := g.lasers[id]; ok {
		l.Angle += delta
	}
}

func (g *Game) RepositionLaser(id int32, offset enemy.Offset, oz float32) {
	if l, ok := g.lasers[id]; ok {
		l.Pos = l.Pos.Add(offset)
		l.Z = oz
	}
}

func (g *Game) CancelLaser(id int32) {
	delete(g.lasers, id)
}

func (g *Game) DropBonus(count int32) {
	g.log("drop_bonus(%d)", count)
}

func (g *Game) DropSpecificBonus(kind int32) {
	g.log("drop_specific_bonus(%d)", kind)
}

func (g *Game) ChangeBulletsToItems() {
	g.log("change_bullets_to_items()")
}

// KillAllEnemies marks every live, non-boss enemy removed; it is reaped on
// the next prune pass like any other death.
func (g *Game) KillAllEnemies() {
	g.enemies.Each(func(_ slab.Handle, slot *enemySlot) {
		if !slot.enemy.Boss {
			slot.enemy.Removed = true
		}
	})
}

// SetAnim builds a fresh Sprite + AnmRunner for scriptIndex against self's
// ANM bank and registers it, per the set_anim construction in §4.4. Any
// previous runner for self stays registered until its sprite is marked
// removed and the next prune pass collects it.
func (g *Game) SetAnim(self slab.Handle, scriptIndex int32) error {
	slot, ok := g.enemies.Get(self)
	if !ok {
		return errors.Errorf(errors.AssetMismatch, self)
	}
	if slot.enemy.Anm == nil {
		return errors.Errorf(errors.AssetMismatch, "enemy has no ANM bank bound")
	}
	h, err := g.registerAnm(slot.enemy.Anm, uint8(scriptIndex), self, 0)
	if err != nil {
		return err
	}
	slot.enemy.AnmRunner = h
	return nil
}

func (g *Game) SetSpellcard(face int16, number int16, name string) {
	g.log("set_spellcard(face=%d, number=%d, %q)", face, number, name)
}

func (g *Game) EndSpellcard() {
	g.log("end_spellcard()")
}

func (g *Game) CallSpecialFunction(function, argument int32) {
	g.log("call_special_function(%d, %d)", function, argument)
}

// MemoryWriteInt32 always refuses: the original game used this opcode to
// poke leaderboard memory directly, which no host here should honor (§7/§9).
func (g *Game) MemoryWriteInt32(index, value int32) error {
	return errors.Errorf(errors.HostCallbackRefused, "memory_write_i32")
}
