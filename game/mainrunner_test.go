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
	"testing"

	"github.com/kurokoma/eosd/enemy"
	"github.com/kurokoma/eosd/format/ecl"
	"github.com/kurokoma/eosd/instance"
	"github.com/kurokoma/eosd/rank"
	"github.com/kurokoma/eosd/slab"
)

// mainSpawnPayload builds a MainSpawnEnemy payload: x/y/z f32, life/bonus
// i16, die_score u32 — see format/ecl's main-timeline opcode 0 argument list.
func mainSpawnPayload(life, bonus int16) []byte {
	p := make([]byte, 20)
	putF32(p, 0, 1)
	putF32(p, 4, 2)
	putF32(p, 8, 3)
	binary.LittleEndian.PutUint16(p[12:], uint16(life))
	binary.LittleEndian.PutUint16(p[14:], uint16(bonus))
	putI32(p, 16, 42)
	return p
}

func TestMainTimelineSpawnsEnemyNextFrame(t *testing.T) {
	idle := ecl.Sub{} // the spawned enemy's script: does nothing observable
	e := &ecl.Ecl{Subs: []ecl.Sub{idle}}
	mainTimeline := ecl.Main{Instructions: []ecl.CallMain{
		{Time: 0, Sub: 0, Opcode: ecl.MainSpawnEnemy, Payload: mainSpawnPayload(5, 0)},
	}}
	e.Mains = []ecl.Main{mainTimeline}

	inst := instance.New(1, rank.Easy, 0)
	g := New(e, inst)

	if g.enemies.Len() != 0 {
		t.Fatalf("expected no enemies before the first frame, got %d", g.enemies.Len())
	}

	g.RunFrame()

	if g.enemies.Len() != 1 {
		t.Fatalf("expected the main timeline to spawn 1 enemy on frame 0, got %d", g.enemies.Len())
	}
	var life uint32
	g.enemies.Each(func(_ slab.Handle, slot *enemySlot) { life = slot.enemy.Life })
	if life != 5 {
		t.Fatalf("spawned enemy life = %d, want 5", life)
	}
}

func TestMainTimelineParksOnWaitForBossDeath(t *testing.T) {
	idle := ecl.Sub{}
	e := &ecl.Ecl{Subs: []ecl.Sub{idle}}
	mainTimeline := ecl.Main{Instructions: []ecl.CallMain{
		{Time: 0, Sub: 0, Opcode: ecl.MainWaitForBossDeath},
		{Time: 0, Sub: 0, Opcode: ecl.MainSpawnEnemy, Payload: mainSpawnPayload(9, 0)},
	}}
	e.Mains = []ecl.Main{mainTimeline}

	inst := instance.New(1, rank.Easy, 0)
	g := New(e, inst)

	boss := enemy.New(enemy.Position{}, 100, 0, 0)
	boss.Boss = true
	g.SpawnAt(boss, 0)

	g.RunFrame()
	if g.enemies.Len() != 1 {
		t.Fatalf("timeline should stay parked while the boss lives, got %d enemies", g.enemies.Len())
	}

	// Kill the boss; the timeline unparks and fires its queued spawn in the
	// same frame the boss is marked removed, since anyBossAlive only checks
	// the Removed flag and doesn't wait for the prune pass.
	g.enemies.Each(func(_ slab.Handle, slot *enemySlot) { slot.enemy.Removed = true })
	g.RunFrame()

	if g.enemies.Len() != 1 {
		t.Fatalf("expected the parked spawn to run once the boss is gone, got %d enemies", g.enemies.Len())
	}
	var life uint32
	g.enemies.Each(func(_ slab.Handle, slot *enemySlot) { life = slot.enemy.Life })
	if life != 9 {
		t.Fatalf("spawned enemy life = %d, want 9", life)
	}
}
