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
	"testing"

	"github.com/kurokoma/eosd/enemy"
	"github.com/kurokoma/eosd/format/ecl"
	"github.com/kurokoma/eosd/instance"
	"github.com/kurokoma/eosd/rank"
	"github.com/kurokoma/eosd/slab"
)

func putF32(p []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(p[off:], math.Float32bits(v))
}

func putI32(p []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(p[off:], uint32(v))
}

// spawnEnemyPayload builds a SubSpawnEnemy payload: sub i32, x/y/z f32,
// life/bonus i16, die_score i32 — see format/ecl's opcode 95 argument list.
func spawnEnemyPayload(sub int32, life, bonus int16) []byte {
	p := make([]byte, 24)
	putI32(p, 0, sub)
	putF32(p, 4, 10)
	putF32(p, 8, 20)
	putF32(p, 12, 0)
	binary.LittleEndian.PutUint16(p[16:], uint16(life))
	binary.LittleEndian.PutUint16(p[18:], uint16(bonus))
	putI32(p, 20, 500)
	return p
}

// setLifePayload builds a SubSetLife payload: an i32 literal life value.
func setLifePayload(life int32) []byte {
	p := make([]byte, 4)
	putI32(p, 0, life)
	return p
}

func TestSpawnedEnemyDoesNotRunEclThisFrame(t *testing.T) {
	const allRanks = 0xFFFF

	// Sub 0 (the spawner): one instruction at time 0 that spawns an enemy
	// running sub 1.
	spawner := ecl.Sub{Instructions: []ecl.CallSub{
		{Time: 0, RankMask: allRanks, Opcode: ecl.SubSpawnEnemy, Payload: spawnEnemyPayload(1, 7, 0)},
	}}
	// Sub 1 (the spawned enemy's script): one instruction at time 0 that
	// would overwrite its life to 999 if ever executed.
	spawnee := ecl.Sub{Instructions: []ecl.CallSub{
		{Time: 0, RankMask: allRanks, Opcode: ecl.SubSetLife, Payload: setLifePayload(999)},
	}}

	e := &ecl.Ecl{Subs: []ecl.Sub{spawner, spawnee}}
	inst := instance.New(1, rank.Easy, 0)
	g := New(e, inst)

	spawnerEnemy := enemy.New(enemy.Position{}, 3, 0, 0)
	spawnerHandle := g.SpawnAt(spawnerEnemy, 0)

	g.RunFrame() // frame 0: spawner's ECL runs and spawns the sub-1 enemy

	var spawnedHandle slab.Handle
	count := 0
	g.enemies.Each(func(h slab.Handle, slot *enemySlot) {
		count++
		if h != spawnerHandle {
			spawnedHandle = h
		}
	})
	if count != 2 {
		t.Fatalf("expected spawner + 1 spawned enemy, got %d enemies", count)
	}

	spawnedSlot, ok := g.enemies.Get(spawnedHandle)
	if !ok {
		t.Fatalf("spawned enemy handle did not resolve")
	}
	if spawnedSlot.enemy.Life != 7 {
		t.Fatalf("spawned enemy's ECL ran within the frame it was spawned: life = %d, want 7 (unmodified)", spawnedSlot.enemy.Life)
	}

	g.RunFrame() // frame 1: the spawned enemy's own ECL should now run

	spawnedSlot, ok = g.enemies.Get(spawnedHandle)
	if !ok {
		t.Fatalf("spawned enemy handle did not resolve after second frame")
	}
	if spawnedSlot.enemy.Life != 999 {
		t.Fatalf("spawned enemy's ECL did not run on the frame after it was spawned: life = %d, want 999", spawnedSlot.enemy.Life)
	}
}

func TestSpawnedEnemyReusesFreedLowerIndexSlot(t *testing.T) {
	const allRanks = 0xFFFF

	spawner := ecl.Sub{Instructions: []ecl.CallSub{
		{Time: 0, RankMask: allRanks, Opcode: ecl.SubSpawnEnemy, Payload: spawnEnemyPayload(1, 7, 0)},
	}}
	spawnee := ecl.Sub{Instructions: []ecl.CallSub{
		{Time: 0, RankMask: allRanks, Opcode: ecl.SubSetLife, Payload: setLifePayload(999)},
	}}
	idle := ecl.Sub{} // never runs any instruction; just occupies a low slot

	e := &ecl.Ecl{Subs: []ecl.Sub{spawner, spawnee, idle}}
	inst := instance.New(1, rank.Easy, 0)
	g := New(e, inst)

	// Insert a throwaway enemy at index 0 and the spawner at index 1, then
	// free index 0, so the spawned enemy below reuses that freed,
	// lower-numbered slot via Arena's free list.
	throwaway := g.SpawnAt(enemy.New(enemy.Position{}, 1, 0, 0), 2)
	spawnerEnemy := enemy.New(enemy.Position{}, 3, 0, 0)
	spawnerHandle := g.SpawnAt(spawnerEnemy, 0)
	g.enemies.Remove(throwaway)
	if spawnerHandle.Index() != 1 {
		t.Fatalf("test setup assumption broken: expected spawner at index 1, got %d", spawnerHandle.Index())
	}

	g.RunFrame()

	var spawnedHandle slab.Handle
	g.enemies.Each(func(h slab.Handle, _ *enemySlot) {
		if h != spawnerHandle {
			spawnedHandle = h
		}
	})
	if spawnedHandle.Index() != 0 {
		t.Fatalf("test setup assumption broken: expected spawned enemy to reuse index 0, got %d", spawnedHandle.Index())
	}

	spawnedSlot, _ := g.enemies.Get(spawnedHandle)
	if spawnedSlot.enemy.Life != 7 {
		t.Fatalf("spawned enemy at a reused lower index ran its ECL within the spawning frame: life = %d, want 7", spawnedSlot.enemy.Life)
	}
}
