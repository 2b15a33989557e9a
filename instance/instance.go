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

// Package instance defines those parts of a running simulation that are
// shared by every runner within it, but are not the Game itself: the PRNG
// stream, the selected difficulty rank, and the numeric difficulty value ECL
// scripts read back through variable -10014. Useful for running more than one
// Game side by side (e.g. replay verification) without either instance
// observing the other's random stream.
package instance

import (
	"github.com/kurokoma/eosd/rank"
	"github.com/kurokoma/eosd/random"
)

// Instance holds the parts of a Game that must be created fresh for every
// independent simulation run.
type Instance struct {
	Random     *random.Prng
	Rank       rank.Rank
	Difficulty int32
}

// New creates an Instance seeded for a fresh simulation run.
func New(seed uint16, r rank.Rank, difficulty int32) *Instance {
	return &Instance{
		Random:     random.New(seed),
		Rank:       r,
		Difficulty: difficulty,
	}
}
