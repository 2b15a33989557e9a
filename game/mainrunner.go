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
	"encoding/binary"
	"math"

	"github.com/kurokoma/eosd/enemy"
	"github.com/kurokoma/eosd/format/ecl"
	"github.com/kurokoma/eosd/slab"
)

// mainRunner drives one ecl.Main timeline: the top-level script that spawns
// enemies over time and otherwise paces a stage/boss scene. It shares the
// dispatch shape of AnmRunner/EclRunner/StageRunner (time == frame executes,
// time > frame stops for the frame) but its only effects are host callbacks
// on Game, so it lives here rather than its own package.
type mainRunner struct {
	main    *ecl.Main
	frame   uint32
	ip      int
	waiting bool // true while parked on WaitForBossDeath
}

// SetMain installs the main timeline Game advances once per RunFrame, before
// any enemy's EclRunner ticks for that frame.
func (g *Game) SetMain(m *ecl.Main) {
	g.main = &mainRunner{main: m}
}

// runMain advances the main timeline by one frame. Called after RunFrame has
// taken its per-frame ECL snapshot, so anything it spawns this frame is
// excluded from this frame's EclRunner tick per §5.
func (g *Game) runMain() {
	m := g.main
	if m == nil {
		return
	}
	if m.waiting {
		if !g.anyBossAlive() {
			m.waiting = false
		} else {
			return
		}
	}
	for m.ip < len(m.main.Instructions) {
		call := m.main.Instructions[m.ip]
		if uint32(call.Time) > m.frame {
			break
		}
		m.ip++
		if uint32(call.Time) == m.frame {
			if g.runMainInstruction(call) {
				// Leave m.frame unadvanced: the instructions right after a
				// WaitForBossDeath are authored to fire the instant it
				// resolves, not some number of frames later.
				m.waiting = true
				return
			}
		}
	}
	m.frame++
}

func (g *Game) anyBossAlive() bool {
	found := false
	g.enemies.Each(func(_ slab.Handle, slot *enemySlot) {
		if slot.enemy.Boss && !slot.enemy.Removed {
			found = true
		}
	})
	return found
}

// runMainInstruction executes one main-timeline instruction. It returns true
// when the timeline must park (WaitForBossDeath) before continuing.
func (g *Game) runMainInstruction(call ecl.CallMain) bool {
	p := call.Payload
	switch call.Opcode {
	case ecl.MainSpawnEnemy, ecl.MainSpawnEnemyMirrored, ecl.MainSpawnEnemyRandom, ecl.MainSpawnEnemyMirroredRandom:
		g.spawnFromMain(call)
	case ecl.MainCallMessage:
		g.log("call_message()")
	case ecl.MainWaitMessage:
		g.log("wait_message()")
	case ecl.MainResumeEcl:
		g.log("resume_ecl(%v, %v)", f32At(p, 0), f32At(p, 4))
	case ecl.MainWaitForBossDeath:
		return true
	default:
		g.log("unknown main opcode %d ignored", call.Opcode)
	}
	return false
}

func (g *Game) spawnFromMain(call ecl.CallMain) {
	p := call.Payload
	if len(p) < 16 {
		g.log("spawn_enemy main instruction truncated")
		return
	}
	x := f32At(p, 0)
	y := f32At(p, 4)
	z := f32At(p, 8)
	life := int32(int16(binary.LittleEndian.Uint16(p[12:])))
	bonusDropped := int32(int16(binary.LittleEndian.Uint16(p[14:])))
	var dieScore uint32
	if len(p) >= 20 {
		dieScore = binary.LittleEndian.Uint32(p[16:])
	}

	mirrored := call.Opcode == ecl.MainSpawnEnemyMirrored || call.Opcode == ecl.MainSpawnEnemyMirroredRandom
	random := call.Opcode == ecl.MainSpawnEnemyRandom || call.Opcode == ecl.MainSpawnEnemyMirroredRandom
	if random {
		// Only the horizontal spawn position is randomized, kept within
		// the 384-wide play field (§4.5's camera setup).
		x = float32(g.inst.Random.GetF64() * 384)
	}

	e := enemy.New(enemy.Position{X: x, Y: y}, life, uint32(bonusDropped), dieScore)
	e.Z = z
	if mirrored {
		e.Type |= 2
	}
	g.SpawnAt(e, call.Sub)
}

func f32At(p []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(p[off:]))
}
