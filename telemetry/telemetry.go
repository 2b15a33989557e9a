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

// Package telemetry exposes a Game's per-frame activity as Prometheus
// metrics: frames simulated, enemies spawned/reaped, and runner errors by
// kind. Game imports this package only for the Recorder interface and its
// Noop default (see game.Game.SetTelemetry); nothing is recorded unless a
// caller installs a *Metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the subset of Game's lifecycle telemetry cares about. A
// *Metrics implements it; so does a no-op stub for tests that don't want a
// live registry.
type Recorder interface {
	FrameSimulated()
	EnemySpawned()
	EnemyReaped()
	RunnerError(kind string)
}

// Metrics is a Recorder backed by a dedicated Prometheus registry, so a
// caller can mount it at any path without colliding with the default
// registry's own collectors (process/go runtime stats, if those are ever
// registered globally elsewhere in the binary).
type Metrics struct {
	Registry *prometheus.Registry

	frames      prometheus.Counter
	spawned     prometheus.Counter
	reaped      prometheus.Counter
	runnerError *prometheus.CounterVec
}

// New creates a Metrics with its own registry and registers every
// collector. Safe to call more than once per process (e.g. one Metrics per
// Game instance under test) since each gets its own Registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eosd",
			Name:      "frames_simulated_total",
			Help:      "Total frames advanced across every RunFrame call.",
		}),
		spawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eosd",
			Name:      "enemies_spawned_total",
			Help:      "Total enemies inserted into the simulation.",
		}),
		reaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eosd",
			Name:      "enemies_reaped_total",
			Help:      "Total enemies removed by the prune pass.",
		}),
		runnerError: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eosd",
			Name:      "runner_errors_total",
			Help:      "Per-VM-instruction errors that terminated a runner, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.frames, m.spawned, m.reaped, m.runnerError)
	return m
}

func (m *Metrics) FrameSimulated()        { m.frames.Inc() }
func (m *Metrics) EnemySpawned()          { m.spawned.Inc() }
func (m *Metrics) EnemyReaped()           { m.reaped.Inc() }
func (m *Metrics) RunnerError(kind string) { m.runnerError.WithLabelValues(kind).Inc() }

// noop satisfies Recorder without recording anything; it is Game's default
// so production code never has to nil-check its telemetry sink.
type noop struct{}

func (noop) FrameSimulated()    {}
func (noop) EnemySpawned()      {}
func (noop) EnemyReaped()       {}
func (noop) RunnerError(string) {}

// Noop returns a Recorder that discards everything.
func Noop() Recorder { return noop{} }
