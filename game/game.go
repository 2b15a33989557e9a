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

// Package game orchestrates one running simulation: it owns every Enemy,
// EclRunner and AnmRunner behind generational slab handles, advances them in
// the fixed ECL -> Enemy::update -> Stage -> ANM order every frame, and
// implements eclrunner.Host so scripts can spawn enemies, fire lasers and
// drive animations without reaching into Game's internals directly.
package game

import (
	"github.com/kurokoma/eosd/anmrunner"
	"github.com/kurokoma/eosd/eclrunner"
	"github.com/kurokoma/eosd/enemy"
	"github.com/kurokoma/eosd/errors"
	"github.com/kurokoma/eosd/format/anm"
	"github.com/kurokoma/eosd/format/ecl"
	"github.com/kurokoma/eosd/instance"
	"github.com/kurokoma/eosd/rank"
	"github.com/kurokoma/eosd/slab"
	"github.com/kurokoma/eosd/sprite"
	"github.com/kurokoma/eosd/stagerunner"
	"github.com/kurokoma/eosd/telemetry"
)

// Laser is a host-owned continuous beam attack. The deterministic core only
// ever refers to one by id (Enemy.CurrentLaserID, the eclrunner.Host laser
// calls); ownership, rendering and grazing logic live entirely in Game.
type Laser struct {
	Kind                  int16
	Angle, Speed          float32
	StartOffset, EndOffset float32
	MaxLength, Width      float32
	StartDuration         int32
	Duration              int32
	EndDuration           int32
	GrazingDelay          int32
	GrazingExtraDuration  int32
	Pos                   enemy.Position
	Z                     float32
}

type enemySlot struct {
	enemy     *enemy.Enemy
	eclRunner *eclrunner.Runner
}

type runnerSlot struct {
	runner *anmrunner.Runner
	sprite *sprite.Sprite
	owner  slab.Handle // enemySlot handle this runner belongs to, if any
}

// Sprite3 is one entry of a per-frame renderable snapshot: a sprite and its
// resolved world position.
type Sprite3 struct {
	X, Y, Z float32
	Sprite  *sprite.Sprite
}

// Game is the orchestrator described in the design notes: two slab arenas
// (enemies, anm runners) plus the shared instance (PRNG/rank/difficulty),
// one ECL resource shared by every enemy's EclRunner, and an optional Stage.
type Game struct {
	Ecl *ecl.Ecl

	enemies slab.Arena[enemySlot]
	runners slab.Arena[runnerSlot]

	inst  *instance.Instance
	stage *stagerunner.Runner
	main  *mainRunner
	anm   *anm.Anm

	lasers      map[int32]*Laser
	nextLaserID int32

	log func(format string, args ...interface{})
	tel telemetry.Recorder
}

// New creates a Game driving enemies defined by scriptEcl, seeded per inst.
// When scriptEcl carries a main timeline (the common case: one per stage or
// boss fight), it is installed automatically; a scene with more than one can
// call SetMain again to pick a different one.
func New(scriptEcl *ecl.Ecl, inst *instance.Instance) *Game {
	g := &Game{
		Ecl:    scriptEcl,
		inst:   inst,
		lasers: make(map[int32]*Laser),
		log:    func(string, ...interface{}) {},
		tel:    telemetry.Noop(),
	}
	if scriptEcl != nil && len(scriptEcl.Mains) > 0 {
		g.SetMain(&scriptEcl.Mains[0])
	}
	return g
}

// SetLogger installs a sink for structured diagnostic lines (runner
// terminated, asset mismatch, host callback refused); the default sink
// discards them.
func (g *Game) SetLogger(fn func(format string, args ...interface{})) {
	g.log = fn
}

// SetTelemetry installs a telemetry.Recorder that observes frame/spawn/
// reap/error counts; the default is a no-op so Game never depends on a live
// metrics registry existing.
func (g *Game) SetTelemetry(r telemetry.Recorder) {
	if r == nil {
		r = telemetry.Noop()
	}
	g.tel = r
}

// SetStage installs the stage whose camera/fog state StageRunner advances
// each frame. A Game with no stage simply skips that step.
func (g *Game) SetStage(s *stagerunner.Runner) {
	g.stage = s
}

// SetAnm installs the ANM resource newly spawned enemies are bound to
// (Enemy.Anm, consulted by SetAnim/SetMultipleAnims). Every enemy in EoSD's
// stages draws from one shared animation bank, so there is exactly one of
// these per Game rather than one per enemy.
func (g *Game) SetAnm(a *anm.Anm) {
	g.anm = a
}

// Rank returns the instance's configured difficulty rank.
func (g *Game) Rank() rank.Rank { return g.inst.Rank }

// SpawnAt inserts enemy e into the simulation running ecl sub, returning its
// handle. Used both by the host-level SpawnEnemy callback and to seed the
// very first enemies of a scene before RunFrame is ever called.
func (g *Game) SpawnAt(e *enemy.Enemy, sub uint16) slab.Handle {
	if e.Anm == nil {
		e.Anm = g.anm
	}
	h := g.enemies.Insert(enemySlot{enemy: e})
	slot, _ := g.enemies.Get(h)
	slot.eclRunner = eclrunner.New(g.Ecl, e, h, g.inst, g, sub)
	g.tel.EnemySpawned()
	return h
}

// RunFrame advances one tick: every EclRunner, then every Enemy's kinematic
// update, then the stage, then every AnmRunner, then a prune pass for
// anything marked removed. Matches §5's fixed ordering.
func (g *Game) RunFrame() {
	// Snapshot handles before ticking ECL or the main timeline: both
	// SpawnEnemy (a host callback) and the main timeline itself may insert
	// into a freed, lower-numbered slot mid-iteration, and Arena.Each would
	// otherwise visit it within this same pass. §5 requires enemies spawned
	// during frame N not run their first EclRunner.RunFrame until N+1.
	var eclTargets []slab.Handle
	g.enemies.Each(func(h slab.Handle, _ *enemySlot) { eclTargets = append(eclTargets, h) })

	g.runMain()
	for _, h := range eclTargets {
		slot, ok := g.enemies.Get(h)
		if !ok || slot.eclRunner == nil || !slot.eclRunner.Running() {
			continue
		}
		if err := slot.eclRunner.RunFrame(); err != nil {
			g.log("eclrunner for enemy %v terminated: %v", h, err)
			g.tel.RunnerError(errors.Head(err))
		}
	}

	g.enemies.Each(func(h slab.Handle, slot *enemySlot) {
		prevX := slot.enemy.Pos.X
		slot.enemy.Update()
		g.updateMovementDirection(h, slot.enemy, prevX)
	})

	if g.stage != nil {
		g.stage.RunFrame()
	}

	g.runners.Each(func(h slab.Handle, slot *runnerSlot) {
		if !slot.runner.Running() {
			return
		}
		if _, err := slot.runner.RunFrame(); err != nil {
			g.log("anmrunner %v terminated: %v", h, err)
			g.tel.RunnerError(errors.Head(err))
		}
	})

	g.prune()
	g.tel.FrameSimulated()
}

func (g *Game) prune() {
	var deadEnemies []slab.Handle
	g.enemies.Each(func(h slab.Handle, slot *enemySlot) {
		if slot.enemy.Removed {
			deadEnemies = append(deadEnemies, h)
		}
	})
	for _, h := range deadEnemies {
		g.enemies.Remove(h)
		g.tel.EnemyReaped()
	}

	var deadRunners []slab.Handle
	g.runners.Each(func(h slab.Handle, slot *runnerSlot) {
		orphaned := false
		if slot.owner != (slab.Handle{}) {
			_, alive := g.enemies.Get(slot.owner)
			orphaned = !alive
		}
		if slot.sprite.Removed || orphaned {
			deadRunners = append(deadRunners, h)
		}
	})
	for _, h := range deadRunners {
		g.runners.Remove(h)
	}
}

// updateMovementDirection implements the movement-dependant-sprite switch
// described in §4.4: crossing a left/right/center boundary re-runs SetAnim
// with the matching index.
func (g *Game) updateMovementDirection(self slab.Handle, e *enemy.Enemy, prevX float32) {
	tuple := e.MovementDependantSprites
	if tuple == nil {
		return
	}
	const (
		directionLeft   = 1
		directionCenter = 2
		directionRight  = 3
	)
	var newDirection uint32
	switch {
	case e.Pos.X < prevX:
		newDirection = directionLeft
	case e.Pos.X > prevX:
		newDirection = directionRight
	default:
		newDirection = directionCenter
	}
	if newDirection == e.Direction || newDirection == 0 {
		return
	}

	var index int32
	switch {
	case e.Direction == directionLeft && newDirection != directionLeft:
		index = tuple[0] // end_left
	case e.Direction == directionRight && newDirection != directionRight:
		index = tuple[1] // end_right
	case newDirection == directionLeft:
		index = tuple[2] // left
	case newDirection == directionRight:
		index = tuple[3] // right
	default:
		e.Direction = newDirection
		return
	}
	e.Direction = newDirection
	if err := g.SetAnim(self, index); err != nil {
		g.log("movement-dependant SetAnim(%d) on enemy %v failed: %v", index, self, err)
	}
}

// Sprites returns a snapshot of every currently registered sprite with its
// world position, for the host to draw. The caller must not mutate any
// returned Sprite.
func (g *Game) Sprites() []Sprite3 {
	var out []Sprite3
	g.runners.Each(func(_ slab.Handle, slot *runnerSlot) {
		x, y, z := float32(0), float32(0), float32(0)
		if slot.owner != (slab.Handle{}) {
			if es, ok := g.enemies.Get(slot.owner); ok {
				x, y, z = es.enemy.Pos.X, es.enemy.Pos.Y, es.enemy.Z
			}
		}
		out = append(out, Sprite3{X: x, Y: y, Z: z, Sprite: slot.sprite})
	})
	return out
}

// EnemySprite returns the Sprite currently driven by self's AnmRunner, if
// any. Used by hosts (e.g. the eclrenderer CLI) that need to read back what
// an ECL script's SetAnim opcodes actually produced.
func (g *Game) EnemySprite(self slab.Handle) (*sprite.Sprite, bool) {
	es, ok := g.enemies.Get(self)
	if !ok || es.enemy.AnmRunner == (slab.Handle{}) {
		return nil, false
	}
	rs, ok := g.runners.Get(es.enemy.AnmRunner)
	if !ok {
		return nil, false
	}
	return rs.sprite, true
}

// Enemy returns a pointer to the Enemy behind h for read access by hosts;
// callers must not mutate fields the simulation itself owns.
func (g *Game) Enemy(h slab.Handle) (*enemy.Enemy, bool) {
	es, ok := g.enemies.Get(h)
	if !ok {
		return nil, false
	}
	return es.enemy, true
}

// registerAnm builds a fresh Sprite + AnmRunner for scriptIndex within a,
// associates it with owner (the empty handle for non-enemy sprites such as
// stage quads), and registers it so RunFrame/Sprites see it.
func (g *Game) registerAnm(a *anm.Anm, scriptIndex uint8, owner slab.Handle, spriteIndexOffset uint32) (slab.Handle, error) {
	spr := sprite.New(0, 0)
	runner, err := anmrunner.New(a, scriptIndex, spr, spriteIndexOffset, g.inst.Random)
	if err != nil {
		return slab.Handle{}, err
	}
	h := g.runners.Insert(runnerSlot{runner: runner, sprite: spr, owner: owner})
	return h, nil
}
